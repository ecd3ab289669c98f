package handler

import (
	"github.com/gin-gonic/gin"

	taxapp "github.com/finbooks/backend/internal/application/tax"
)

// TaxHandler handles GSTIN validation and organisation tax settings endpoints
type TaxHandler struct {
	BaseHandler
	service *taxapp.TaxService
}

// NewTaxHandler creates a new TaxHandler
func NewTaxHandler(service *taxapp.TaxService) *TaxHandler {
	return &TaxHandler{service: service}
}

// RegisterRoutes registers tax routes on the given group
func (h *TaxHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tax := rg.Group("/tax")
	{
		tax.GET("/gstin/:gstin", h.ValidateGSTIN)
		tax.GET("/settings", h.GetSettings)
		tax.PUT("/settings", h.UpdateSettings)
	}
}

// ValidateGSTIN checks a candidate registration number. An invalid
// number is a successful validation with valid=false, not an error.
func (h *TaxHandler) ValidateGSTIN(c *gin.Context) {
	result, err := h.service.ValidateGSTIN(c.Request.Context(), c.Param("gstin"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GetSettings returns the stored organisation tax settings
func (h *TaxHandler) GetSettings(c *gin.Context) {
	settings, err := h.service.GetSettings(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, settings)
}

// UpdateSettings creates or replaces the organisation tax settings
func (h *TaxHandler) UpdateSettings(c *gin.Context) {
	var req taxapp.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	settings, err := h.service.UpdateSettings(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, settings)
}
