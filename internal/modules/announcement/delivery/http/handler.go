package http

import (
	"context"
	"log"
	"net/http"
	"time"

	announcementService "anoa.com/dailyguessr/internal/modules/announcement/service"
	"anoa.com/dailyguessr/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// JobRunner runs a registered job by name.
type JobRunner interface {
	RunJobByName(ctx context.Context, name string) error
}

type AnnouncementHandler struct {
	service  announcementService.AnnouncementService
	jobs     JobRunner
	upgrader websocket.Upgrader
}

func NewAnnouncementHandler(service announcementService.AnnouncementService, jobs JobRunner) *AnnouncementHandler {
	return &AnnouncementHandler{
		service: service,
		jobs:    jobs,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // feed is public and read-only
			},
		},
	}
}

func (h *AnnouncementHandler) GetLatest(c *gin.Context) {
	latest, ok := h.service.Latest()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "nothing has been posted yet"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": latest})
}

// PostDaily runs the daily post job now, outside its cron schedule.
func (h *AnnouncementHandler) PostDaily(c *gin.Context) {
	if err := h.jobs.RunJobByName(c.Request.Context(), announcementService.DailyPostJobName); err != nil {
		response.ResponseError(c, err)
		return
	}

	posted, _ := h.service.Latest()
	c.JSON(http.StatusCreated, gin.H{"data": posted})
}

// HandleWebSocket streams every announcement posted while the client is
// connected as a JSON text message.
func (h *AnnouncementHandler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade websocket: %v", err)
		return
	}
	defer conn.Close()

	announcements, unsubscribe := h.service.Subscribe()
	defer unsubscribe()

	clientClosed := make(chan struct{})
	go func() {
		defer close(clientClosed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case announcement, ok := <-announcements:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(announcement); err != nil {
				log.Printf("Failed to write announcement to websocket: %v", err)
				return
			}
		case <-clientClosed:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}
