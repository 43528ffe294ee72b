package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
	portssvc "github.com/SscSPs/exchange_kiosk_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_kiosk_app/internal/dto"
	"github.com/SscSPs/exchange_kiosk_app/internal/middleware"
)

// currencyHandler handles HTTP requests related to currencies.
type currencyHandler struct {
	currencyService portssvc.CurrencySvcFacade
}

// newCurrencyHandler creates a new currencyHandler.
func newCurrencyHandler(cs portssvc.CurrencySvcFacade) *currencyHandler {
	return &currencyHandler{currencyService: cs}
}

// registerCurrencyRoutes registers routes related to currencies.
func registerCurrencyRoutes(rg *gin.RouterGroup, currencyService portssvc.CurrencySvcFacade) {
	h := newCurrencyHandler(currencyService)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	currencies := rg.Group("/currencies")
	{
		currencies.GET("", h.listCurrencies)
		currencies.POST("", adminOnly, h.createCurrency)
		currencies.GET("/:currencyID", h.getCurrency)
		currencies.PUT("/:currencyID", adminOnly, h.updateCurrency)
		currencies.DELETE("/:currencyID", adminOnly, h.deleteCurrency)
	}
}

// createCurrency godoc
// @Summary Create a new currency
// @Description Adds a currency with an opening balance (admin operation)
// @Tags currencies
// @Accept  json
// @Produce  json
// @Param   currency body dto.CreateCurrencyRequest true "Currency details"
// @Success 201 {object} dto.CurrencyResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 403 {object} ErrorResponse "Admin only"
// @Failure 409 {object} ErrorResponse "Currency name already exists"
// @Failure 500 {object} ErrorResponse "Failed to create currency"
// @Security BearerAuth
// @Router /currencies [post]
func (h *currencyHandler) createCurrency(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	var req dto.CreateCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to create currency", slog.String("name", req.Name))

	created, err := h.currencyService.CreateCurrency(c.Request.Context(), req, identity.UserID)
	if err != nil {
		respondError(c, err, "Failed to create currency")
		return
	}
	c.JSON(http.StatusCreated, dto.ToCurrencyResponse(created))
}

// getCurrency godoc
// @Summary Get a currency
// @Tags currencies
// @Produce  json
// @Param   currencyID path string true "Currency ID"
// @Success 200 {object} dto.CurrencyResponse
// @Failure 404 {object} ErrorResponse "Currency not found"
// @Security BearerAuth
// @Router /currencies/{currencyID} [get]
func (h *currencyHandler) getCurrency(c *gin.Context) {
	currency, err := h.currencyService.GetCurrencyByID(c.Request.Context(), c.Param("currencyID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve currency")
		return
	}
	c.JSON(http.StatusOK, dto.ToCurrencyResponse(currency))
}

// listCurrencies godoc
// @Summary List all currencies
// @Description Retrieves all active currencies including the base currency
// @Tags currencies
// @Produce  json
// @Success 200 {array} dto.CurrencyResponse
// @Security BearerAuth
// @Router /currencies [get]
func (h *currencyHandler) listCurrencies(c *gin.Context) {
	currencies, err := h.currencyService.ListCurrencies(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list currencies")
		return
	}
	c.JSON(http.StatusOK, dto.ToListCurrencyResponse(currencies))
}

// updateCurrency godoc
// @Summary Update a currency
// @Description Renames a currency or overrides its balance (admin correction)
// @Tags currencies
// @Accept  json
// @Produce  json
// @Param   currencyID path string true "Currency ID"
// @Param   currency body dto.UpdateCurrencyRequest true "Fields to change"
// @Success 200 {object} dto.CurrencyResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /currencies/{currencyID} [put]
func (h *currencyHandler) updateCurrency(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	var req dto.UpdateCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := h.currencyService.UpdateCurrency(c.Request.Context(), c.Param("currencyID"), req, identity.UserID)
	if err != nil {
		respondError(c, err, "Failed to update currency")
		return
	}
	c.JSON(http.StatusOK, dto.ToCurrencyResponse(updated))
}

// deleteCurrency godoc
// @Summary Delete a currency
// @Description Soft deletes a currency. Its operations are kept.
// @Tags currencies
// @Param   currencyID path string true "Currency ID"
// @Success 204
// @Failure 400 {object} ErrorResponse "Base currency cannot be deleted"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /currencies/{currencyID} [delete]
func (h *currencyHandler) deleteCurrency(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	if err := h.currencyService.DeleteCurrency(c.Request.Context(), c.Param("currencyID"), identity.UserID); err != nil {
		respondError(c, err, "Failed to delete currency")
		return
	}
	c.Status(http.StatusNoContent)
}
