package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListServices(t *testing.T) {
	router := setupTestRouter()
	router.GET("/services", ListServices)

	req, _ := http.NewRequest(http.MethodGet, "/services", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response["success"].(bool))

	data := response["data"].([]interface{})
	require.Len(t, data, 6)

	byType := make(map[string]map[string]interface{}, len(data))
	for _, raw := range data {
		entry := raw.(map[string]interface{})
		byType[entry["service_type"].(string)] = entry
	}

	washFold := byType["wash_fold"]
	require.NotNil(t, washFold)
	assert.Equal(t, "100", washFold["price"])
	assert.Equal(t, "/kg", washFold["unit"])

	shoes := byType["shoes"]
	require.NotNil(t, shoes)
	assert.Equal(t, "250", shoes["price"])
	assert.Equal(t, "/pair", shoes["unit"])

	// Only the wash and iron service carries the popular badge
	for serviceType, entry := range byType {
		popular, _ := entry["popular"].(bool)
		assert.Equal(t, serviceType == "wash_iron", popular, serviceType)
	}
}
