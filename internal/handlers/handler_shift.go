package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
	portssvc "github.com/SscSPs/exchange_kiosk_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_kiosk_app/internal/dto"
	"github.com/SscSPs/exchange_kiosk_app/internal/middleware"
	"github.com/SscSPs/exchange_kiosk_app/internal/utils"
)

// shiftHandler handles HTTP requests related to cashier shifts.
type shiftHandler struct {
	shiftService portssvc.ShiftSvcFacade
	posthog      *utils.PosthogClientWrapper
}

func newShiftHandler(ss portssvc.ShiftSvcFacade, ph *utils.PosthogClientWrapper) *shiftHandler {
	return &shiftHandler{shiftService: ss, posthog: ph}
}

// registerShiftRoutes registers routes related to shifts.
func registerShiftRoutes(rg *gin.RouterGroup, shiftService portssvc.ShiftSvcFacade, ph *utils.PosthogClientWrapper) {
	h := newShiftHandler(shiftService, ph)

	shifts := rg.Group("/shifts")
	{
		shifts.GET("/current", h.getActiveShift)
		shifts.GET("/history", h.listShiftHistory)
		shifts.POST("/close", middleware.RequireRole(domain.RoleCashier, domain.RoleAdmin), h.closeShift)
		shifts.POST("/cashier", middleware.RequireRole(domain.RoleAdmin), h.reassignCashier)
	}
}

// getActiveShift godoc
// @Summary Get the active shift
// @Tags shifts
// @Produce json
// @Success 200 {object} dto.ActiveShiftResponse
// @Failure 422 {object} ErrorResponse "No active shift"
// @Security BearerAuth
// @Router /shifts/current [get]
func (h *shiftHandler) getActiveShift(c *gin.Context) {
	info, err := h.shiftService.GetActiveShift(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve active shift")
		return
	}
	c.JSON(http.StatusOK, dto.ToActiveShiftResponse(info))
}

// closeShift godoc
// @Summary Close the active shift
// @Description Reconciles counted leftovers, closes the open shift and opens a new one owned by the caller.
// @Description With no open shift it only opens a new one.
// @Tags shifts
// @Accept json
// @Produce json
// @Param balances body dto.CloseShiftRequest true "Counted leftovers"
// @Success 201 {object} dto.CloseShiftResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Another close won the race"
// @Security BearerAuth
// @Router /shifts/close [post]
func (h *shiftHandler) closeShift(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	var req dto.CloseShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	newShiftID, err := h.shiftService.CloseShift(c.Request.Context(), req, identity.UserID)
	if err != nil {
		respondError(c, err, "Failed to close shift")
		return
	}

	middleware.PosthogEvent(c, h.posthog, "shift_closed", map[string]any{"reconciled": len(req.Balances)})
	c.JSON(http.StatusCreated, dto.CloseShiftResponse{NewShiftID: newShiftID})
}

// reassignCashier godoc
// @Summary Reassign the cashier of the active shift
// @Tags shifts
// @Accept json
// @Produce json
// @Param cashier body dto.ReassignCashierRequest true "New cashier"
// @Success 200 {object} dto.CashierChangeResponse
// @Failure 404 {object} ErrorResponse "User not found"
// @Failure 422 {object} ErrorResponse "No active shift"
// @Security BearerAuth
// @Router /shifts/cashier [post]
func (h *shiftHandler) reassignCashier(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	var req dto.ReassignCashierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	change, err := h.shiftService.ReassignCashier(c.Request.Context(), req.UserID, identity.UserID)
	if err != nil {
		respondError(c, err, "Failed to reassign cashier")
		return
	}
	c.JSON(http.StatusOK, dto.ToCashierChangeResponse(change))
}

// listShiftHistory godoc
// @Summary List shift history
// @Description Shifts newest first, with operation counts, overall profit and reconciled balances.
// @Tags shifts
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListShiftsResponse
// @Security BearerAuth
// @Router /shifts/history [get]
func (h *shiftHandler) listShiftHistory(c *gin.Context) {
	var params dto.ListShiftsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	summaries, err := h.shiftService.ListShiftHistory(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "Failed to list shift history")
		return
	}
	c.JSON(http.StatusOK, dto.ToListShiftsResponse(summaries))
}
