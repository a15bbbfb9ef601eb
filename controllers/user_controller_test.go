package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Krishnachaitanya-dev/madmax/config"
	"github.com/Krishnachaitanya-dev/madmax/middleware"
	"github.com/Krishnachaitanya-dev/madmax/models"
	"github.com/Krishnachaitanya-dev/madmax/services"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// Auto-migrate the User model
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router
}

// setupMockUserinfoServer creates a mock HTTP server that simulates the
// identity provider's /userinfo endpoint
func setupMockUserinfoServer(userInfoMap map[string]*services.Auth0UserInfo) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/userinfo" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		// Extract token from Authorization header
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || len(authHeader) < 7 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		token := authHeader[7:] // Remove "Bearer " prefix

		// Look up user info by token
		userInfo, exists := userInfoMap[token]
		if !exists {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(userInfo)
	}))
}

// mockAuthMiddleware simulates the JWT middleware for testing
func mockAuthMiddleware(authID, accessToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Set the user_id (provider ID from 'sub' claim)
		c.Set("user_id", authID)

		// Set the access token for calling /userinfo
		c.Set("access_token", accessToken)

		// Store claims in context the same way the real middleware does
		mockClaims := &validator.ValidatedClaims{
			RegisteredClaims: validator.RegisteredClaims{
				Subject: authID,
			},
			CustomClaims: &middleware.CustomClaims{},
		}
		c.Set("validated_claims", mockClaims)

		c.Next()
	}
}

func TestCreateUser(t *testing.T) {
	mockServer := setupMockUserinfoServer(map[string]*services.Auth0UserInfo{
		"token-ravi": {
			Sub:   "auth0|ravi123",
			Email: "ravi@example.com",
			Name:  "Ravi Kumar",
		},
		"token-noemail": {
			Sub:  "auth0|noemail",
			Name: "No Email",
		},
		"token-nameless": {
			Sub:   "auth0|nameless",
			Email: "nameless@example.com",
		},
	})
	defer mockServer.Close()

	config.SetConfig(&config.Config{
		Auth0Domain: mockServer.URL, // Pass full URL for testing (http://...)
	})

	tests := []struct {
		name           string
		authID         string
		accessToken    string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
		checkResponse  func(t *testing.T, response map[string]interface{})
	}{
		{
			name:        "Successfully register profile",
			authID:      "auth0|ravi123",
			accessToken: "token-ravi",
			requestBody: map[string]interface{}{
				"phone_number": "9876543210",
				"address":      "12 MG Road, Bengaluru",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				assert.True(t, response["success"].(bool))
				data := response["data"].(map[string]interface{})
				assert.Equal(t, "auth0|ravi123", data["auth_id"])
				assert.Equal(t, "ravi@example.com", data["email"])
				assert.Equal(t, "Ravi Kumar", data["full_name"], "Name should fall back to userinfo")
				assert.Equal(t, "9876543210", data["phone_number"])
				assert.Equal(t, "12 MG Road, Bengaluru", data["address"])
				assert.Equal(t, false, data["is_admin"], "New profiles must never be admins")
			},
		},
		{
			name:        "Body name overrides userinfo name",
			authID:      "auth0|nameless",
			accessToken: "token-nameless",
			requestBody: map[string]interface{}{
				"full_name":    "Priya S",
				"phone_number": "9123456780",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				data := response["data"].(map[string]interface{})
				assert.Equal(t, "Priya S", data["full_name"])
			},
		},
		{
			name:        "Fail with missing phone number",
			authID:      "auth0|ravi123",
			accessToken: "token-ravi",
			requestBody: map[string]interface{}{
				"full_name": "Ravi Kumar",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:        "Fail when provider has no email",
			authID:      "auth0|noemail",
			accessToken: "token-noemail",
			requestBody: map[string]interface{}{
				"phone_number": "9876543210",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "MISSING_EMAIL",
		},
		{
			name:        "Fail when neither body nor provider has a name",
			authID:      "auth0|nameless",
			accessToken: "token-nameless",
			requestBody: map[string]interface{}{
				"phone_number": "9876543210",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "MISSING_NAME",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			config.SetDB(db)

			router := setupTestRouter()
			router.POST("/users",
				mockAuthMiddleware(tt.authID, tt.accessToken),
				CreateUser,
			)

			body, _ := json.Marshal(tt.requestBody)
			req, _ := http.NewRequest(http.MethodPost, "/users", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			err := json.Unmarshal(w.Body.Bytes(), &response)
			assert.NoError(t, err)

			if tt.expectedError != "" {
				assert.False(t, response["success"].(bool))
				errorData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedError, errorData["code"])
			}

			if tt.checkResponse != nil {
				tt.checkResponse(t, response)
			}
		})
	}
}

func TestCreateUser_Duplicate(t *testing.T) {
	mockServer := setupMockUserinfoServer(map[string]*services.Auth0UserInfo{
		"token-ravi": {
			Sub:   "auth0|ravi123",
			Email: "ravi@example.com",
			Name:  "Ravi Kumar",
		},
	})
	defer mockServer.Close()

	config.SetConfig(&config.Config{
		Auth0Domain: mockServer.URL,
	})

	db := setupTestDB(t)
	config.SetDB(db)

	router := setupTestRouter()
	router.POST("/users",
		mockAuthMiddleware("auth0|ravi123", "token-ravi"),
		CreateUser,
	)

	body, _ := json.Marshal(map[string]interface{}{"phone_number": "9876543210"})

	// First registration succeeds
	req, _ := http.NewRequest(http.MethodPost, "/users", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	// Second registration for the same identity conflicts
	req, _ = http.NewRequest(http.MethodPost, "/users", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "USER_EXISTS", errorData["code"])
}

func TestGetMyProfile(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	address := "4th Cross, Indiranagar"
	user := models.User{
		AuthID:      "auth0|meera1",
		FullName:    "Meera Nair",
		Email:       "meera@example.com",
		PhoneNumber: "9000000001",
		Address:     &address,
	}
	db.Create(&user)

	tests := []struct {
		name           string
		authID         string
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "Successfully fetch own profile",
			authID:         user.AuthID,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Fail for unregistered identity",
			authID:         "auth0|stranger",
			expectedStatus: http.StatusNotFound,
			expectedError:  "USER_NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.GET("/users/me",
				mockAuthMiddleware(tt.authID, "mock-token"),
				GetMyProfile,
			)

			req, _ := http.NewRequest(http.MethodGet, "/users/me", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			json.Unmarshal(w.Body.Bytes(), &response)

			if tt.expectedError != "" {
				errorData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedError, errorData["code"])
				return
			}

			data := response["data"].(map[string]interface{})
			assert.Equal(t, "Meera Nair", data["full_name"])
			assert.Equal(t, "meera@example.com", data["email"])
			assert.Equal(t, address, data["address"])
		})
	}
}

func TestUpdateMyProfile(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
		checkUser      func(t *testing.T, user models.User)
	}{
		{
			name: "Update name and phone",
			requestBody: map[string]interface{}{
				"full_name":    "Meera N",
				"phone_number": "9000000099",
			},
			expectedStatus: http.StatusOK,
			checkUser: func(t *testing.T, user models.User) {
				assert.Equal(t, "Meera N", user.FullName)
				assert.Equal(t, "9000000099", user.PhoneNumber)
				assert.Equal(t, "meera@example.com", user.Email, "Email should be unchanged")
			},
		},
		{
			name: "Update address",
			requestBody: map[string]interface{}{
				"address": "New address, Whitefield",
			},
			expectedStatus: http.StatusOK,
			checkUser: func(t *testing.T, user models.User) {
				assert.Equal(t, "New address, Whitefield", *user.Address)
			},
		},
		{
			name:           "Empty update returns current profile",
			requestBody:    map[string]interface{}{},
			expectedStatus: http.StatusOK,
			checkUser: func(t *testing.T, user models.User) {
				assert.Equal(t, "Meera Nair", user.FullName)
			},
		},
		{
			name: "Admin flag in the body is ignored",
			requestBody: map[string]interface{}{
				"is_admin":  true,
				"full_name": "Meera Nair",
			},
			expectedStatus: http.StatusOK,
			checkUser: func(t *testing.T, user models.User) {
				assert.False(t, user.IsAdmin, "No API path may elevate a customer to admin")
			},
		},
		{
			name: "Fail with invalid email",
			requestBody: map[string]interface{}{
				"email": "not-an-email",
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			config.SetDB(db)

			user := models.User{
				AuthID:      "auth0|meera1",
				FullName:    "Meera Nair",
				Email:       "meera@example.com",
				PhoneNumber: "9000000001",
			}
			db.Create(&user)

			router := setupTestRouter()
			router.PUT("/users/me",
				mockAuthMiddleware(user.AuthID, "mock-token"),
				UpdateMyProfile,
			)

			body, _ := json.Marshal(tt.requestBody)
			req, _ := http.NewRequest(http.MethodPut, "/users/me", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.checkUser != nil {
				var stored models.User
				db.Where("auth_id = ?", user.AuthID).First(&stored)
				tt.checkUser(t, stored)
			}
		})
	}
}
