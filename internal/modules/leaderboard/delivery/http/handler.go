package http

import (
	"net/http"

	"anoa.com/dailyguessr/internal/modules/leaderboard/dto"
	leaderboardService "anoa.com/dailyguessr/internal/modules/leaderboard/service"
	"anoa.com/dailyguessr/pkg/response"
	"github.com/gin-gonic/gin"
)

const (
	defaultLimit = 10
	maxLimit     = 50
)

type LeaderboardHandler struct {
	service leaderboardService.LeaderboardService
}

func NewLeaderboardHandler(service leaderboardService.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{service: service}
}

func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	var query dto.LeaderboardQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a number"})
		return
	}

	limit := query.Limit
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	top := h.service.GetLeaderboard(limit)
	c.JSON(http.StatusOK, gin.H{"data": dto.NewLeaderboardEntries(top)})
}

func (h *LeaderboardHandler) GetParticipant(c *gin.Context) {
	record, err := h.service.GetParticipant(c.Param("participant_id"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.NewParticipantResponse(record)})
}
