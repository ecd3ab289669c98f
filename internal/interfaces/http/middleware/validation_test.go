package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbooks/backend/internal/interfaces/http/dto"
)

type registrationPayload struct {
	LegalName string `json:"legal_name" binding:"required"`
	GSTIN     string `json:"gstin" binding:"required,gstin"`
}

func validationTestEngine() *gin.Engine {
	SetupValidator()
	engine := gin.New()
	engine.POST("/register", func(c *gin.Context) {
		var req registrationPayload
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})
	return engine
}

func TestSetupValidator(t *testing.T) {
	engine := validationTestEngine()

	t.Run("valid payload passes the gstin tag", func(t *testing.T) {
		body := `{"legal_name":"FinBooks Pvt Ltd","gstin":"27AAPFU0939F1ZV"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("bad check digit fails the gstin tag", func(t *testing.T) {
		body := `{"legal_name":"FinBooks Pvt Ltd","gstin":"29AABCT1332L1ZU"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		require.Len(t, resp.Error.Details, 1)
		// Field names come from the json tag, not the struct field
		assert.Equal(t, "gstin", resp.Error.Details[0].Field)
		assert.Equal(t, "Invalid GSTIN", resp.Error.Details[0].Message)
	})

	t.Run("missing fields are reported per field", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeInvalidInput, resp.Error.Code)
		assert.Len(t, resp.Error.Details, 2)
	})
}

func TestFormatValidationErrors_NonValidatorError(t *testing.T) {
	resp := FormatValidationErrors(errors.New("unexpected EOF"), "req-1")

	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeInvalidInput, resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	assert.Empty(t, resp.Error.Details)
}
