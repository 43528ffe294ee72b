package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
	portssvc "github.com/SscSPs/exchange_kiosk_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_kiosk_app/internal/dto"
	"github.com/SscSPs/exchange_kiosk_app/internal/utils/pagination"
)

type historyHandler struct {
	historyService portssvc.HistorySvcFacade
}

func registerHistoryRoutes(rg *gin.RouterGroup, historyService portssvc.HistorySvcFacade) {
	h := &historyHandler{historyService: historyService}
	rg.GET("/histories", h.listHistory)
}

// listHistory godoc
// @Summary List audit history
// @Description Administrative events newest first. Pass nextToken from the previous page to continue.
// @Tags histories
// @Produce json
// @Param eventType query string false "Event type"
// @Param currency query string false "Currency name"
// @Param username query string false "Acting username"
// @Param from query string false "Only events at or after this RFC3339 time"
// @Param limit query int false "Page size" default(50)
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListHistoryResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /histories [get]
func (h *historyHandler) listHistory(c *gin.Context) {
	var params dto.ListHistoryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	filter := domain.HistoryFilter{
		EventType:    params.EventType,
		CurrencyName: params.Currency,
		Username:     params.Username,
		From:         params.From,
		Limit:        params.Limit,
	}
	if params.NextToken != "" {
		cursor, err := pagination.DecodeToken(params.NextToken)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid nextToken", Field: "nextToken"})
			return
		}
		filter.CursorTime = &cursor.Timestamp
		filter.CursorID = cursor.ID
	}

	events, err := h.historyService.ListHistory(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Failed to list history")
		return
	}

	var nextToken string
	if len(events) > 0 && len(events) == params.Limit {
		last := events[len(events)-1]
		nextToken = pagination.EncodeToken(last.Timestamp, last.EventID)
	}
	c.JSON(http.StatusOK, dto.ToListHistoryResponse(events, nextToken))
}
