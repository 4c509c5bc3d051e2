package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, h gin.HandlerFunc) (int, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
	h(c)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestSendJSONError(t *testing.T) {
	t.Run("Client error keeps the public message", func(t *testing.T) {
		code, body := run(t, func(c *gin.Context) {
			SendJSONError(c, http.StatusBadRequest, "Invalid side.", nil, "use A or B")
		})
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Invalid side.", body["error"])
		assert.Equal(t, "use A or B", body["details"])
	})

	t.Run("Server error never echoes the internal error", func(t *testing.T) {
		internal := errors.New("database is locked")
		code, body := run(t, func(c *gin.Context) {
			SendJSONError(c, http.StatusInternalServerError, internal.Error(), internal)
		})
		assert.Equal(t, http.StatusInternalServerError, code)
		assert.Equal(t, genericServerError, body["error"])
	})
}

func TestSendJSONSuccess(t *testing.T) {
	code, body := run(t, func(c *gin.Context) { SendJSONSuccess(c, "ok", gin.H{"n": 1}) })
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 200, body["code"])
	assert.Equal(t, "ok", body["message"])
}
