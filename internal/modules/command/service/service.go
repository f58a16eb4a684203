package service

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"
	"time"

	"anoa.com/dailyguessr/internal/modules/command/dto"
	leaderboardDto "anoa.com/dailyguessr/internal/modules/leaderboard/dto"
	leaderboardService "anoa.com/dailyguessr/internal/modules/leaderboard/service"
	"anoa.com/dailyguessr/pkg/apperror"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
)

const (
	ActionSubmitScore = "submit_score"

	ColorGameLink    = 0x1abc9c
	ColorLeaderboard = 0xf1c40f

	NoScoresMessage = "No scores yet. Use `/score <points>` to submit a score."
)

type Options struct {
	GameName        string
	GameURL         string
	LeaderboardSize int
	MinPoints       int64
	MaxPoints       int64
	SubmitCooldown  time.Duration
}

// CommandService turns chat commands into ledger calls and formats the
// replies the chat bridge posts.
type CommandService interface {
	SubmitScore(ctx context.Context, req dto.SubmitScoreRequest) (*dto.Reply, error)
	Leaderboard(ctx context.Context) *dto.Reply
	GameLink() *dto.Reply
}

type commandService struct {
	leaderboard leaderboardService.LeaderboardService
	redisClient *redis.Client
	sanitizer   *bluemonday.Policy
	opts        Options
}

func NewCommandService(leaderboard leaderboardService.LeaderboardService, redisClient *redis.Client, opts Options) CommandService {
	return &commandService{
		leaderboard: leaderboard,
		redisClient: redisClient,
		sanitizer:   bluemonday.StrictPolicy(),
		opts:        opts,
	}
}

func (s *commandService) SubmitScore(ctx context.Context, req dto.SubmitScoreRequest) (*dto.Reply, error) {
	if req.Points == nil {
		return nil, fmt.Errorf("%w: points is required", apperror.ErrInvalidInput)
	}
	points := *req.Points
	if points < s.opts.MinPoints || points > s.opts.MaxPoints {
		return nil, fmt.Errorf("%w: points must be between %d and %d", apperror.ErrInvalidInput, s.opts.MinPoints, s.opts.MaxPoints)
	}

	allowed, err := CheckAndSetRateLimit(ctx, s.redisClient, req.ParticipantID, ActionSubmitScore, s.opts.SubmitCooldown)
	if err != nil {
		return nil, err
	}
	if !allowed {
		ttl, err := GetRateLimitTTL(ctx, s.redisClient, req.ParticipantID, ActionSubmitScore)
		if err != nil {
			log.Printf("Failed to read submit cooldown for %s: %v", req.ParticipantID, err)
		}
		// TTL is negative when the key has no expiry or is already gone
		if err != nil || ttl <= 0 {
			return nil, fmt.Errorf("%w: try again later", apperror.ErrRateLimitExceeded)
		}
		return nil, fmt.Errorf("%w: try again in %s", apperror.ErrRateLimitExceeded, ttl.Round(time.Second))
	}

	record, err := s.leaderboard.SubmitScore(ctx, req.ParticipantID, req.DisplayName, points)
	if err != nil {
		// nothing was recorded, so the cooldown must not block a retry
		if clearErr := ClearRateLimit(ctx, s.redisClient, req.ParticipantID, ActionSubmitScore); clearErr != nil {
			log.Printf("Failed to clear submit cooldown for %s: %v", req.ParticipantID, clearErr)
		}
		return nil, err
	}

	response := leaderboardDto.NewParticipantResponse(record)
	return &dto.Reply{
		Content: fmt.Sprintf("✅ %s, your score of **%d** was recorded! (Best: %d)", s.displayName(record.DisplayName), points, record.BestScore),
		Record:  &response,
	}, nil
}

func (s *commandService) Leaderboard(ctx context.Context) *dto.Reply {
	top := s.leaderboard.GetLeaderboard(s.opts.LeaderboardSize)
	if len(top) == 0 {
		return &dto.Reply{Content: NoScoresMessage}
	}

	lines := make([]string, 0, len(top))
	for i, rec := range top {
		lines = append(lines, fmt.Sprintf("**%d. %s** — 🏅 %d pts (%d games)", i+1, s.displayName(rec.DisplayName), rec.BestScore, rec.TotalGames))
	}

	return &dto.Reply{
		Embed: &dto.Embed{
			Title:       fmt.Sprintf("🏆 %s Leaderboard", s.opts.GameName),
			Description: strings.Join(lines, "\n"),
			Color:       ColorLeaderboard,
		},
	}
}

func (s *commandService) GameLink() *dto.Reply {
	return &dto.Reply{
		Embed: &dto.Embed{
			Title:       fmt.Sprintf("🎮 %s – Guess the Location!", s.opts.GameName),
			Description: "Click to start playing:",
			URL:         s.opts.GameURL,
			Color:       ColorGameLink,
		},
	}
}

// displayName strips markup from a user supplied name before it is echoed
// into a message. Entities are decoded again since replies are plain text.
func (s *commandService) displayName(name string) string {
	clean := strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(name)))
	if clean == "" {
		return "Unknown"
	}
	return clean
}
