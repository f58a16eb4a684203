package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"anoa.com/dailyguessr/internal/entity"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	DailyChannel     = "announcements:daily"
	DailyPostJobName = "daily-link"
	ColorDailyPost   = 0x1abc9c
)

type Options struct {
	GameName string
	GameURL  string
}

type AnnouncementService interface {
	// PostDaily builds today's game link post and publishes it.
	PostDaily(ctx context.Context) (*entity.Announcement, error)
	Latest() (*entity.Announcement, bool)
	Subscribe() (<-chan entity.Announcement, func())
}

type announcementService struct {
	hub         *Hub
	redisClient *redis.Client
	opts        Options
	now         func() time.Time

	mu     sync.RWMutex
	latest *entity.Announcement
}

func NewAnnouncementService(hub *Hub, redisClient *redis.Client, opts Options) AnnouncementService {
	return &announcementService{
		hub:         hub,
		redisClient: redisClient,
		opts:        opts,
		now:         time.Now,
	}
}

func (s *announcementService) PostDaily(ctx context.Context) (*entity.Announcement, error) {
	announcement := entity.Announcement{
		ID:          uuid.New(),
		Title:       fmt.Sprintf("🎮 Daily %s", s.opts.GameName),
		Description: fmt.Sprintf("Click the button below to play today's %s!", s.opts.GameName),
		URL:         s.opts.GameURL,
		ButtonLabel: fmt.Sprintf("Play %s", s.opts.GameName),
		Color:       ColorDailyPost,
		PostedAt:    s.now(),
	}

	s.mu.Lock()
	s.latest = &announcement
	s.mu.Unlock()

	delivered := s.hub.Broadcast(announcement)

	// The post is already live, so a Redis failure only costs the
	// cross-instance copy.
	if s.redisClient != nil {
		if err := s.publish(ctx, announcement); err != nil {
			log.Printf("⚠️ Failed to publish daily post %s to redis: %v", announcement.ID, err)
		}
	}

	log.Printf("📣 Daily post %s delivered to %d live subscribers", announcement.ID, delivered)
	return &announcement, nil
}

func (s *announcementService) publish(ctx context.Context, announcement entity.Announcement) error {
	payload, err := json.Marshal(announcement)
	if err != nil {
		return fmt.Errorf("encode announcement: %w", err)
	}
	return s.redisClient.Publish(ctx, DailyChannel, payload).Err()
}

func (s *announcementService) Latest() (*entity.Announcement, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latest == nil {
		return nil, false
	}
	latest := *s.latest
	return &latest, true
}

func (s *announcementService) Subscribe() (<-chan entity.Announcement, func()) {
	return s.hub.Subscribe()
}

// DailyPostJob runs PostDaily on a cron schedule.
type DailyPostJob struct {
	service  AnnouncementService
	schedule string
}

func NewDailyPostJob(service AnnouncementService, schedule string) *DailyPostJob {
	return &DailyPostJob{service: service, schedule: schedule}
}

func (j *DailyPostJob) Name() string {
	return DailyPostJobName
}

func (j *DailyPostJob) Schedule() string {
	return j.schedule
}

func (j *DailyPostJob) Execute(ctx context.Context) error {
	_, err := j.service.PostDaily(ctx)
	return err
}
