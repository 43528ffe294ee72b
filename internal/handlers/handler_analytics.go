package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
	portssvc "github.com/SscSPs/exchange_kiosk_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_kiosk_app/internal/dto"
	"github.com/SscSPs/exchange_kiosk_app/internal/middleware"
)

// analyticsHandler serves profit and activity reports.
type analyticsHandler struct {
	analyticsService portssvc.AnalyticsSvcFacade
}

func registerAnalyticsRoutes(rg *gin.RouterGroup, analyticsService portssvc.AnalyticsSvcFacade) {
	h := &analyticsHandler{analyticsService: analyticsService}

	analytics := rg.Group("/analytics", middleware.RequireRole(domain.RoleCashier, domain.RoleAdmin))
	{
		analytics.GET("", h.getAnalytics)
		analytics.GET("/advanced", h.getAdvancedAnalytics)
		analytics.GET("/profit", h.getProfit)
	}
}

// getAnalytics godoc
// @Summary Per-currency analytics
// @Description Bought/sold totals, average rates, balance and estimated profit per currency.
// @Tags analytics
// @Produce json
// @Param period query string false "today, 3days, week, month or shift" default(today)
// @Success 200 {object} domain.AnalyticsReport
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /analytics [get]
func (h *analyticsHandler) getAnalytics(c *gin.Context) {
	var params dto.AnalyticsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	report, err := h.analyticsService.GetAnalytics(c.Request.Context(), params.Period)
	if err != nil {
		respondError(c, err, "Failed to build analytics")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getAdvancedAnalytics godoc
// @Summary Advanced analytics
// @Description Adds transaction counts, average profit per transaction and the two busiest hours.
// @Tags analytics
// @Produce json
// @Param period query string false "3days, week or month" default(week)
// @Success 200 {object} domain.AdvancedAnalyticsReport
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /analytics/advanced [get]
func (h *analyticsHandler) getAdvancedAnalytics(c *gin.Context) {
	var params dto.AdvancedAnalyticsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	report, err := h.analyticsService.GetAdvancedAnalytics(c.Request.Context(), params.Period)
	if err != nil {
		respondError(c, err, "Failed to build advanced analytics")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getProfit godoc
// @Summary Profit of one currency
// @Description min(bought, sold) × (average sell rate − average buy rate) over an inclusive window.
// @Tags analytics
// @Produce json
// @Param currencyID query string true "Currency ID"
// @Param from query string true "Window start (RFC3339)"
// @Param to query string true "Window end (RFC3339)"
// @Success 200 {object} dto.ProfitResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /analytics/profit [get]
func (h *analyticsHandler) getProfit(c *gin.Context) {
	var params dto.ProfitParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	profit, err := h.analyticsService.ComputeProfit(c.Request.Context(), params.CurrencyID, params.From, params.To)
	if err != nil {
		respondError(c, err, "Failed to compute profit")
		return
	}
	c.JSON(http.StatusOK, dto.ProfitResponse{
		CurrencyID: params.CurrencyID,
		From:       params.From,
		To:         params.To,
		Profit:     profit,
	})
}
