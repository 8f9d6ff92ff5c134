package server

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"smarthire/internal/config"
	"smarthire/internal/database"
	"smarthire/internal/middlewares"
	"smarthire/internal/repositories"
	"smarthire/internal/services"
	"smarthire/internal/utils"
)

const (
	signupKeyPrefix = "smarthire:pending:signup:"
	resetKeyPrefix  = "smarthire:pending:reset:"
)

type Server struct {
	cfg         *config.Config
	httpServer  *http.Server
	db          database.Service
	redis       *redis.Client
	jwt         *utils.JWTManager
	rateLimiter *middlewares.RateLimiter

	authService     services.AuthService
	otpService      services.OTPService
	matchService    services.MatchService
	questionService services.QuestionService
}

// NewServer connects the backing stores and wires every service. The caller
// owns the returned server and must call Close after shutdown.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	jwt, err := utils.NewJWTManager(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.AccessTokenExpiry)
	if err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}

	db, err := database.New(ctx, cfg.DatabaseURL, cfg.DatabaseName)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:          cfg,
		db:           db,
		jwt:          jwt,
		rateLimiter:  middlewares.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		matchService: services.NewMatchService(),
	}

	userRepo := repositories.NewUserRepository(db)
	otpRepo := repositories.NewOTPRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		s.Close(ctx)
		return nil, fmt.Errorf("user indexes: %w", err)
	}
	if err := otpRepo.EnsureIndexes(ctx); err != nil {
		s.Close(ctx)
		return nil, fmt.Errorf("otp indexes: %w", err)
	}

	signups, resets, err := s.pendingStores(ctx)
	if err != nil {
		s.Close(ctx)
		return nil, err
	}

	llm, err := services.NewLLM(ctx, cfg)
	if err != nil {
		s.Close(ctx)
		return nil, err
	}

	mailer := services.NewEmailService(cfg)
	opts := services.AuthOptions{OTPExpiry: cfg.OTPExpiry, PendingRetention: cfg.PendingRetention}

	s.authService = services.NewAuthService(userRepo, signups, resets, mailer, jwt, opts)
	s.otpService = services.NewOTPService(userRepo, otpRepo, mailer, opts)
	s.questionService = services.NewQuestionService(llm, cfg.LLMModel)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second,
	}

	return s, nil
}

func (s *Server) pendingStores(ctx context.Context) (signups, resets repositories.PendingRepository, err error) {
	if s.cfg.PendingStore != config.PendingStoreRedis {
		log.Info().Msg("Using in-memory pending registration store")
		return repositories.NewMemoryPendingRepository(), repositories.NewMemoryPendingRepository(), nil
	}

	opt, err := redis.ParseURL(s.cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("REDIS_URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}
	s.redis = client

	log.Info().Str("addr", opt.Addr).Msg("Using Redis pending registration store")
	return repositories.NewRedisPendingRepository(client, signupKeyPrefix, s.cfg.PendingRetention),
		repositories.NewRedisPendingRepository(client, resetKeyPrefix, s.cfg.PendingRetention),
		nil
}

func (s *Server) Start() error {
	log.Info().Int("port", s.cfg.Port).Msg("Starting server")
	return s.httpServer.ListenAndServe()
}

func (s *Server) GracefulShutdown(done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info().Msg("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown with error")
	}
	s.Close(ctx)

	log.Info().Msg("Server exiting")
	done <- true
}

// Close releases the database and Redis connections.
func (s *Server) Close(ctx context.Context) {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close Redis client")
		}
	}
	if s.db != nil {
		if err := s.db.Close(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to disconnect from MongoDB")
		}
	}
}
