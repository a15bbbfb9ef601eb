package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Krishnachaitanya-dev/madmax/config"
	"github.com/Krishnachaitanya-dev/madmax/models"
	"github.com/Krishnachaitanya-dev/madmax/services"
	"github.com/Krishnachaitanya-dev/madmax/utils"
)

// storeLocation is the timezone pickup dates are judged in. The stores run
// on Indian Standard Time regardless of where the server is deployed; a
// fixed zone avoids depending on host tzdata.
var storeLocation = time.FixedZone("IST", 5*3600+30*60)

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	PickupDate          string  `json:"pickup_date" binding:"required"`
	PickupTime          string  `json:"pickup_time" binding:"required"`
	LaundryType         string  `json:"laundry_type" binding:"required"`
	WeightEstimate      float64 `json:"weight_estimate" binding:"required,gt=0"`
	SpecialInstructions string  `json:"special_instructions"`
	Address             string  `json:"address"`
}

// UpdateOrderRequest represents the request body for the staff order update.
// All fields are optional; any subset may be sent.
type UpdateOrderRequest struct {
	Status     *string          `json:"status"`
	WeightKg   *float64         `json:"weight_kg"`
	CostInr    *decimal.Decimal `json:"cost_inr"`
	AdminNotes *string          `json:"admin_notes"`
}

// CreateOrder handles POST /api/v1/orders - creates a new order (customers only)
func CreateOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	// Staff place no orders of their own
	if user.IsAdmin {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only customers can create orders",
			},
		})
		return
	}

	// Parse request body
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	// New orders must use a current catalog service; legacy types are
	// only honored when pricing old rows
	if _, ok := models.LookupService(req.LaundryType); !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_SERVICE_TYPE",
				"message": "Unknown laundry service type",
			},
		})
		return
	}

	if _, err := time.Parse("2006-01-02", req.PickupDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_PICKUP_DATE",
				"message": "Pickup date must be in YYYY-MM-DD format",
			},
		})
		return
	}

	// Pickup is scheduled for tomorrow at the earliest, judged on the
	// store's calendar. Zero-padded ISO dates compare correctly as strings.
	today := time.Now().In(storeLocation).Format("2006-01-02")
	if req.PickupDate <= today {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_PICKUP_DATE",
				"message": "Pickup date must be in the future",
			},
		})
		return
	}

	pickupTime, err := time.Parse("15:04", req.PickupTime)
	if err != nil || pickupTime.Minute()%30 != 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_PICKUP_TIME",
				"message": "Pickup time must be HH:MM on a 30-minute boundary",
			},
		})
		return
	}

	// Create the order with the estimate priced from the catalog
	order := models.Order{
		CustomerID:          user.ID,
		PickupDate:          req.PickupDate,
		PickupTime:          req.PickupTime,
		LaundryType:         req.LaundryType,
		WeightEstimate:      req.WeightEstimate,
		Status:              models.StatusPending,
		TotalCost:           services.EstimateCost(req.LaundryType, req.WeightEstimate),
		SpecialInstructions: req.SpecialInstructions,
	}
	if req.Address != "" {
		order.Address = &req.Address
	}

	db := config.GetDB()
	if err := db.Create(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create order",
			},
		})
		return
	}

	// Load the customer relationship to return complete data
	if err := db.Preload("Customer").First(&order, order.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load order details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// ListOrders handles GET /api/v1/orders - lists own orders, or all orders
// for staff, newest first. An optional ?status= filter narrows by status.
func ListOrders(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	query := db.Preload("Customer").Order("created_at DESC")
	if !user.IsAdmin {
		query = query.Where("customer_id = ?", user.ID)
	}

	if status := c.Query("status"); status != "" {
		if !services.IsValidStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_STATUS",
					"message": "Unknown order status",
				},
			})
			return
		}
		query = query.Where("status = ?", status)
	}

	// An empty result serializes as [] rather than null
	orders := []models.Order{}
	if err := query.Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load orders",
			},
		})
		return
	}

	for i := range orders {
		attachImageURL(&orders[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// GetOrderStats handles GET /api/v1/orders/stats - per-status order counts
// for the staff dashboard
func GetOrderStats(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if !user.IsAdmin {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Staff access required",
			},
		})
		return
	}

	db := config.GetDB()
	counts := make(map[string]int64, len(services.OrderStatuses))
	var total int64
	for _, status := range services.OrderStatuses {
		var n int64
		if err := db.Model(&models.Order{}).Where("status = ?", status).Count(&n).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to count orders",
				},
			})
			return
		}
		counts[status] = n
		total += n
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"counts": counts,
			"total":  total,
		},
	})
}

// GetOrder handles GET /api/v1/orders/:id - fetches a single order.
// Customers can only see their own orders; staff can see any.
func GetOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	order, ok := findOrder(c, user)
	if !ok {
		return
	}

	attachImageURL(order)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// UpdateOrder handles PATCH /api/v1/orders/:id - staff update of status,
// weight, cost, and notes. Any subset of fields may be sent. The status
// field assigns directly without consulting the lifecycle table; the
// stepwise path is AdvanceOrder.
func UpdateOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if !user.IsAdmin {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Staff access required",
			},
		})
		return
	}

	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	if req.Status != nil && !services.IsValidStatus(*req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATUS",
				"message": "Unknown order status",
			},
		})
		return
	}

	if req.WeightKg != nil && *req.WeightKg <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Weight must be greater than zero",
			},
		})
		return
	}

	order, ok := findOrder(c, user)
	if !ok {
		return
	}

	updates := make(map[string]interface{})
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.WeightKg != nil {
		updates["weight_kg"] = *req.WeightKg
	}
	if req.CostInr != nil {
		updates["cost_inr"] = *req.CostInr
	}
	if req.WeightKg != nil && req.CostInr == nil {
		// Recompute the final cost from the recorded weight when the
		// staff member did not supply one explicitly
		updates["cost_inr"] = services.EstimateCost(order.LaundryType, *req.WeightKg)
	}
	if req.AdminNotes != nil {
		updates["admin_notes"] = *req.AdminNotes
	}

	// Nothing to change: return the order as is
	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    order,
		})
		return
	}

	db := config.GetDB()
	if err := db.Model(order).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update order",
			},
		})
		return
	}

	// Fetch the updated order to return
	var updated models.Order
	if err := db.Preload("Customer").First(&updated, order.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load order details",
			},
		})
		return
	}
	attachImageURL(&updated)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    updated,
	})
}

// AdvanceOrder handles POST /api/v1/orders/:id/advance - moves an order one
// step forward in its lifecycle. Delivered orders are a no-op, not an error.
func AdvanceOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if !user.IsAdmin {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Staff access required",
			},
		})
		return
	}

	order, ok := findOrder(c, user)
	if !ok {
		return
	}

	next, ok := services.NextStatus(order.Status)
	if !ok {
		// Terminal: nothing left to advance, no persistence call is made
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "This order is already completed.",
			"data":    order,
		})
		return
	}

	if err := config.GetDB().Model(order).Update("status", next).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update order status",
			},
		})
		return
	}

	order.Status = next
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// UploadOrderImage handles POST /api/v1/orders/:id/image - attaches a
// garment photo to the caller's own pending order
func UploadOrderImage(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	order, ok := findOrder(c, user)
	if !ok {
		return
	}

	if order.CustomerID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only the order owner can attach photos",
			},
		})
		return
	}

	// Photos can only change before the laundry is physically picked up
	if order.Status != models.StatusPending {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_LOCKED",
				"message": "Photos can only be changed while the order is pending",
			},
		})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "An image file is required",
			},
		})
		return
	}

	imageService := services.GetImageService()
	imageKey, err := imageService.UploadImage(fileHeader)
	if err != nil {
		status := http.StatusInternalServerError
		code := "UPLOAD_ERROR"
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			status = http.StatusBadRequest
			code = uploadErr.Code
		}
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
			},
		})
		return
	}

	// Replace any previous photo
	if order.ImageS3Key != nil {
		if err := imageService.DeleteImage(*order.ImageS3Key); err != nil {
			log.Printf("warning: failed to delete previous image %s: %v", *order.ImageS3Key, err)
		}
	}

	if err := config.GetDB().Model(order).Update("image_s3_key", imageKey).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save image reference",
			},
		})
		return
	}

	order.ImageS3Key = &imageKey
	attachImageURL(order)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// DeleteOrderImage handles DELETE /api/v1/orders/:id/image - removes the
// garment photo from the caller's own pending order
func DeleteOrderImage(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	order, ok := findOrder(c, user)
	if !ok {
		return
	}

	if order.CustomerID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only the order owner can remove photos",
			},
		})
		return
	}

	if order.Status != models.StatusPending {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_LOCKED",
				"message": "Photos can only be changed while the order is pending",
			},
		})
		return
	}

	if order.ImageS3Key == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_NOT_FOUND",
				"message": "Order has no photo attached",
			},
		})
		return
	}

	if err := services.GetImageService().DeleteImage(*order.ImageS3Key); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_ERROR",
				"message": "Failed to delete image",
			},
		})
		return
	}

	if err := config.GetDB().Model(order).Update("image_s3_key", nil).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to clear image reference",
			},
		})
		return
	}

	order.ImageS3Key = nil
	order.ImageURL = nil

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// findOrder loads the order named by the :id route parameter, enforcing
// that customers only reach their own orders. Writes the error response
// itself and returns ok=false when the caller should stop.
func findOrder(c *gin.Context, user *models.User) (*models.Order, bool) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Order ID must be numeric",
			},
		})
		return nil, false
	}

	db := config.GetDB()
	var order models.Order

	query := db.Preload("Customer")
	if !user.IsAdmin {
		query = query.Where("customer_id = ?", user.ID)
	}

	if err := query.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ORDER_NOT_FOUND",
					"message": "Order not found",
				},
			})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to load order",
				},
			})
		}
		return nil, false
	}

	return &order, true
}

// attachImageURL fills in the computed image URL for an order with a photo
func attachImageURL(order *models.Order) {
	if order.ImageS3Key == nil {
		return
	}
	imageService := services.GetImageService()
	if imageService == nil {
		return
	}
	url, err := imageService.GetImageURL(*order.ImageS3Key)
	if err != nil {
		log.Printf("warning: failed to build image URL for order %d: %v", order.ID, err)
		return
	}
	if url != "" {
		order.ImageURL = &url
	}
}
