package http

import (
	"errors"
	"log"
	"net/http"

	"anoa.com/dailyguessr/internal/modules/command/dto"
	commandService "anoa.com/dailyguessr/internal/modules/command/service"
	"anoa.com/dailyguessr/pkg/apperror"
	"anoa.com/dailyguessr/pkg/response"
	"anoa.com/dailyguessr/pkg/validator"
	"github.com/gin-gonic/gin"
)

const submitFailedMessage = "❌ Your score could not be saved. Nothing was recorded, please try again."

type CommandHandler struct {
	service commandService.CommandService
}

func NewCommandHandler(service commandService.CommandService) *CommandHandler {
	return &CommandHandler{service: service}
}

func (h *CommandHandler) SubmitScore(c *gin.Context) {
	var req dto.SubmitScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	reply, err := h.service.SubmitScore(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperror.ErrStorageWrite) {
			log.Printf("[Internal Error]: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   apperror.ErrStorageWrite.Error(),
				"content": submitFailedMessage,
			})
			return
		}
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, reply)
}

func (h *CommandHandler) Leaderboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Leaderboard(c.Request.Context()))
}

func (h *CommandHandler) GameLink(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.GameLink())
}
