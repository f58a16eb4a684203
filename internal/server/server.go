package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"anoa.com/dailyguessr/internal/config"
	"anoa.com/dailyguessr/internal/scheduler"

	announcementHttp "anoa.com/dailyguessr/internal/modules/announcement/delivery/http"
	announcementService "anoa.com/dailyguessr/internal/modules/announcement/service"

	commandHttp "anoa.com/dailyguessr/internal/modules/command/delivery/http"
	commandService "anoa.com/dailyguessr/internal/modules/command/service"

	leaderboardHttp "anoa.com/dailyguessr/internal/modules/leaderboard/delivery/http"
	leaderboardRepo "anoa.com/dailyguessr/internal/modules/leaderboard/repository"
	leaderboardService "anoa.com/dailyguessr/internal/modules/leaderboard/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	engine      *gin.Engine
	httpServer  *http.Server
	scheduler   *scheduler.Scheduler
	leaderboard leaderboardService.LeaderboardService
}

// NewServer loads the ledger from repo and wires every module. It fails if
// the persisted ledger cannot be read, so the caller never serves an empty
// board over a corrupt file.
func NewServer(ctx context.Context, cfg *config.Config, repo leaderboardRepo.LedgerRepository, redisClient *redis.Client) (*Server, error) {
	leaderboardSvc := leaderboardService.NewLeaderboardService(repo)
	if err := leaderboardSvc.Load(ctx); err != nil {
		return nil, err
	}
	leaderboardHandler := leaderboardHttp.NewLeaderboardHandler(leaderboardSvc)

	commandSvc := commandService.NewCommandService(leaderboardSvc, redisClient, commandService.Options{
		GameName:        cfg.GameName,
		GameURL:         cfg.GameURL,
		LeaderboardSize: cfg.LeaderboardSize,
		MinPoints:       cfg.MinPoints,
		MaxPoints:       cfg.MaxPoints,
		SubmitCooldown:  cfg.SubmitCooldown,
	})
	commandHandler := commandHttp.NewCommandHandler(commandSvc)

	// Announcement Module
	hub := announcementService.NewHub()
	announcementSvc := announcementService.NewAnnouncementService(hub, redisClient, announcementService.Options{
		GameName: cfg.GameName,
		GameURL:  cfg.GameURL,
	})

	sched := scheduler.NewScheduler(cfg.Location)
	if err := sched.Register(announcementService.NewDailyPostJob(announcementSvc, cfg.DailyPostCron)); err != nil {
		return nil, fmt.Errorf("failed to register daily post: %w", err)
	}
	announcementHandler := announcementHttp.NewAnnouncementHandler(announcementSvc, sched)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/api/announcements/ws"},
	}))

	s := &Server{
		engine:      router,
		scheduler:   sched,
		leaderboard: leaderboardSvc,
	}

	router.GET("/healthz", s.health)

	api := router.Group("/api")
	{
		commands := api.Group("/commands")
		commands.POST("/score", commandHandler.SubmitScore)
		commands.GET("/leaderboard", commandHandler.Leaderboard)
		commands.GET("/link", commandHandler.GameLink)

		api.GET("/leaderboard", leaderboardHandler.GetLeaderboard)
		api.GET("/participants/:participant_id", leaderboardHandler.GetParticipant)

		announcements := api.Group("/announcements")
		announcements.GET("/latest", announcementHandler.GetLatest)
		announcements.POST("/daily", announcementHandler.PostDaily)
		announcements.GET("/ws", announcementHandler.HandleWebSocket)
	}

	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the scheduler and serves HTTP until Shutdown is called.
func (s *Server) Run(addr string) error {
	s.scheduler.Start()

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("🌐 Listening on %s", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.scheduler.Stop(ctx)
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) health(c *gin.Context) {
	body := gin.H{
		"status":       "ok",
		"participants": s.leaderboard.Snapshot().Len(),
		"jobs":         s.scheduler.Jobs(),
	}
	if next, ok := s.scheduler.NextRun(announcementService.DailyPostJobName); ok {
		body["next_daily_post"] = next
	}
	c.JSON(http.StatusOK, body)
}

func setupCORS(router *gin.Engine, origins []string) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
