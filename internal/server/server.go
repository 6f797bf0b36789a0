package server

import (
	"context"
	"net/http"
	"time"

	"gympresence/internal/auth"
	"gympresence/internal/checkin"
	"gympresence/internal/coins"
	"gympresence/internal/config"
	"gympresence/internal/gym"
	"gympresence/internal/location"
	"gympresence/internal/member"
	"gympresence/internal/membership"
	"gympresence/internal/timer"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	db         *sqlx.DB
	config     *config.Config
}

func New(db *sqlx.DB, cfg *config.Config) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(20, 40))

	memberHandler := member.NewHandler(member.NewService(member.NewRepository(db), cfg.JWTSecret))

	gymRepo := gym.NewRepository(db)
	gymHandler := gym.NewHandler(gym.NewService(gymRepo))

	membershipRepo := membership.NewRepository(db)
	membershipHandler := membership.NewHandler(membership.NewAccessGate(membershipRepo, cfg.FreeMemberLimit))

	coinsRepo := coins.NewRepository(db)
	coinsHandler := coins.NewHandler(coinsRepo)

	locationRepo := location.NewRepository(db)
	locationHandler := location.NewHandler(location.NewService(locationRepo, gymRepo, location.Config{
		AccuracyToleranceM: cfg.AccuracyToleranceM,
	}))

	checkinHandler := checkin.NewHandler(checkin.NewService(
		checkin.NewRepository(db, coinsRepo),
		gymRepo,
		membershipRepo,
		coinsRepo,
		locationRepo,
		timer.SystemClock(),
		checkin.Config{
			RequiredPresence: cfg.RequiredPresence,
			MaxSampleGap:     cfg.MaxSampleGap,
			HistoryWindow:    cfg.HistoryWindow,
			RewardCoins:      cfg.RewardCoins,
		},
	))

	public := router.Group("/auth")
	{
		public.POST("/register", memberHandler.Register)
		public.POST("/login", memberHandler.Login)
		public.POST("/refresh", memberHandler.RefreshToken)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", memberHandler.GetMe)
		protected.GET("/me/coins", coinsHandler.GetCoins)
		protected.GET("/me/checkins", checkinHandler.ListMyCheckIns)
		protected.GET("/gyms", gymHandler.ListGyms)
		protected.GET("/gyms/:gymID", gymHandler.GetGym)
		protected.GET("/gyms/:gymID/access", membershipHandler.CheckAccess)
		protected.POST("/gyms/:gymID/checkin", checkinHandler.CheckIn)
		protected.POST("/locations", locationHandler.ReportSample)
		protected.GET("/locations", locationHandler.RecentHistory)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireRole("admin"))
	{
		admin.POST("/gyms", gymHandler.CreateGym)
		admin.GET("/gyms", gymHandler.ListGyms)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
	}
}

func (s *Server) Start(port string) error {
	s.httpServer = &http.Server{
		Addr:              ":" + port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
