package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
	portssvc "github.com/SscSPs/exchange_kiosk_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_kiosk_app/internal/dto"
	"github.com/SscSPs/exchange_kiosk_app/internal/middleware"
	"github.com/SscSPs/exchange_kiosk_app/internal/utils"
)

// operationHandler handles HTTP requests for client buy/sell operations.
type operationHandler struct {
	ledgerService portssvc.LedgerSvcFacade
	posthog       *utils.PosthogClientWrapper
}

func newOperationHandler(ls portssvc.LedgerSvcFacade, ph *utils.PosthogClientWrapper) *operationHandler {
	return &operationHandler{ledgerService: ls, posthog: ph}
}

// registerOperationRoutes registers the cashier desk routes.
func registerOperationRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade, ph *utils.PosthogClientWrapper) {
	h := newOperationHandler(ledgerService, ph)

	ops := rg.Group("/operations", middleware.RequireRole(domain.RoleCashier, domain.RoleAdmin))
	{
		ops.GET("", h.listOperations)
		ops.POST("", h.createOperation)
		ops.GET("/currencies", h.listTradeableCurrencies)
		ops.GET("/:operationID", h.getOperation)
		ops.PATCH("/:operationID", h.editOperation)
	}
}

// createOperation godoc
// @Summary Record a buy or sell
// @Description Records a client operation for the active shift's cashier and moves both balances atomically.
// @Tags operations
// @Accept json
// @Produce json
// @Param operation body dto.CreateOperationRequest true "Operation details"
// @Success 201 {object} dto.OperationResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 404 {object} ErrorResponse "Currency not found"
// @Failure 422 {object} ErrorResponse "Insufficient funds, no active shift or missing base currency"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /operations [post]
func (h *operationHandler) createOperation(c *gin.Context) {
	var req dto.CreateOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	op, err := h.ledgerService.CreateOperation(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create operation")
		return
	}

	middleware.PosthogEvent(c, h.posthog, "operation_created", map[string]any{
		"operation_type": string(op.OperationType),
		"currency":       op.CurrencyName,
	})
	c.JSON(http.StatusCreated, dto.ToOperationResponse(op))
}

// editOperation godoc
// @Summary Edit an operation
// @Description Re-applies an operation with a new amount and rate. The operation type cannot change.
// @Tags operations
// @Accept json
// @Produce json
// @Param operationID path string true "Operation ID"
// @Param operation body dto.EditOperationRequest true "New amount and rate"
// @Success 200 {object} dto.OperationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /operations/{operationID} [patch]
func (h *operationHandler) editOperation(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	var req dto.EditOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	operationID := c.Param("operationID")
	op, err := h.ledgerService.EditOperation(c.Request.Context(), operationID, req, identity.Username)
	if err != nil {
		respondError(c, err, "Failed to edit operation")
		return
	}
	c.JSON(http.StatusOK, dto.ToOperationResponse(op))
}

// getOperation godoc
// @Summary Get an operation
// @Tags operations
// @Produce json
// @Param operationID path string true "Operation ID"
// @Success 200 {object} dto.OperationResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /operations/{operationID} [get]
func (h *operationHandler) getOperation(c *gin.Context) {
	op, err := h.ledgerService.GetOperation(c.Request.Context(), c.Param("operationID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve operation")
		return
	}
	c.JSON(http.StatusOK, dto.ToOperationResponse(op))
}

// listOperations godoc
// @Summary List operations
// @Description Lists operations since the active shift started (or today), or over the last 3 or 7 days.
// @Tags operations
// @Produce json
// @Param period query string false "shift, 3days or week" default(shift)
// @Success 200 {object} dto.ListOperationsResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /operations [get]
func (h *operationHandler) listOperations(c *gin.Context) {
	var params dto.ListOperationsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	ops, err := h.ledgerService.ListOperations(c.Request.Context(), params.Period)
	if err != nil {
		respondError(c, err, "Failed to list operations")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Debug("Operations listed",
		slog.String("period", params.Period), slog.Int("count", len(ops)))
	c.JSON(http.StatusOK, dto.ToListOperationsResponse(ops))
}

// listTradeableCurrencies godoc
// @Summary List tradeable currencies
// @Description Active currencies other than the base currency.
// @Tags operations
// @Produce json
// @Success 200 {array} dto.CurrencyResponse
// @Security BearerAuth
// @Router /operations/currencies [get]
func (h *operationHandler) listTradeableCurrencies(c *gin.Context) {
	currencies, err := h.ledgerService.ListTradeableCurrencies(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list currencies")
		return
	}
	c.JSON(http.StatusOK, dto.ToListCurrencyResponse(currencies))
}
