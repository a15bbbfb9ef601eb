package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order statuses, in lifecycle order.
const (
	StatusPending    = "pending"
	StatusPickedUp   = "picked_up"
	StatusProcessing = "processing"
	StatusReady      = "ready"
	StatusDelivered  = "delivered" // terminal
)

// Order represents one customer laundry pickup/delivery request
type Order struct {
	ID                  uint             `gorm:"primaryKey" json:"id"`
	CustomerID          uint             `gorm:"not null;index" json:"user_id"` // foreign key to profiles table
	Customer            User             `gorm:"foreignKey:CustomerID" json:"profile"`
	PickupDate          string           `gorm:"not null" json:"pickup_date"` // "2006-01-02"
	PickupTime          string           `gorm:"not null" json:"pickup_time"` // "15:04", 30-minute granularity
	LaundryType         string           `gorm:"not null" json:"laundry_type"`
	WeightEstimate      float64          `gorm:"not null" json:"weight_estimate"`       // kg, customer-supplied at creation
	WeightKg            *float64         `json:"weight_kg,omitempty"`                   // kg, staff-recorded after pickup
	Status              string           `gorm:"not null;default:'pending'" json:"status"`
	TotalCost           decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"total_cost"` // estimate, computed at creation
	CostInr             *decimal.Decimal `gorm:"type:decimal(10,2)" json:"cost_inr,omitempty"`  // final, staff-entered or recomputed
	SpecialInstructions string           `json:"special_instructions,omitempty"`
	AdminNotes          *string          `json:"admin_notes,omitempty"` // staff-only, mutable at any status
	Address             *string          `json:"address,omitempty"`
	ImageS3Key          *string          `json:"image_s3_key,omitempty"`       // storage key for garment photo
	ImageURL            *string          `gorm:"-" json:"image_url,omitempty"` // computed field, presigned URL for photo
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
	DeletedAt           gorm.DeletedAt   `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// WeightReading is the authoritative weight for an order. Final is true once
// staff have recorded the actual weight, which overrides the customer estimate.
type WeightReading struct {
	Kg    float64
	Final bool
}

// CostReading is the authoritative cost for an order. Final is true once the
// staff-entered (or recomputed) cost_inr is set, which overrides the estimate.
type CostReading struct {
	Amount decimal.Decimal
	Final  bool
}

// Weight returns the authoritative weight. The estimate is never cleared;
// it is simply superseded once weight_kg exists.
func (o *Order) Weight() WeightReading {
	if o.WeightKg != nil {
		return WeightReading{Kg: *o.WeightKg, Final: true}
	}
	return WeightReading{Kg: o.WeightEstimate}
}

// Cost returns the authoritative cost, preferring the final cost_inr over
// the creation-time estimate.
func (o *Order) Cost() CostReading {
	if o.CostInr != nil {
		return CostReading{Amount: *o.CostInr, Final: true}
	}
	return CostReading{Amount: o.TotalCost}
}
