package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	cacheadapter "github.com/SHANMUK026/career-match-ai-hub-sub001/internal/adapters/cache"
	eventadapter "github.com/SHANMUK026/career-match-ai-hub-sub001/internal/adapters/events"
	httpadapter "github.com/SHANMUK026/career-match-ai-hub-sub001/internal/adapters/http"
	identityadapter "github.com/SHANMUK026/career-match-ai-hub-sub001/internal/adapters/identity"
	"github.com/SHANMUK026/career-match-ai-hub-sub001/internal/adapters/postgres"
	"github.com/SHANMUK026/career-match-ai-hub-sub001/internal/adapters/security"
	"github.com/SHANMUK026/career-match-ai-hub-sub001/internal/application"
	"github.com/SHANMUK026/career-match-ai-hub-sub001/internal/domain"
	"github.com/SHANMUK026/career-match-ai-hub-sub001/internal/ports"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	grpcServer *grpc.Server
	grpcLis    net.Listener
	worker     *eventadapter.ConsumerWorker
	cleanupFn  func(context.Context)
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)
	logger.Info("bootstrapping signup service",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"identity_mode", cfg.IdentityMode,
		"signup_state_backend", cfg.SignupStateBackend,
	)

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	sqlDB, err := pool.DB()
	if err != nil {
		return nil, fmt.Errorf("gorm sql db: %w", err)
	}

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	var signups ports.SignupStore
	var redisClose func() error
	switch cfg.SignupStateBackend {
	case "redis":
		redisClient, err := cacheadapter.Connect(ctx, cfg.RedisURL)
		if err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		signups = cacheadapter.NewRedisSignupStore(redisClient)
		redisClose = redisClient.Close
	default:
		signups = cacheadapter.NewMemorySignupStore()
	}

	repos := postgres.NewRepositories(pool)

	handoffSigner, err := security.NewHandoffJWTSigner(cfg.JWTKeyID, cfg.JWTPrivateKeyPEM, cfg.JWTPublicKeyPEM)
	if err != nil {
		if !cfg.AllowEphemeralJWT {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("init jwt signer: %w", err)
		}
		logger.Warn("using ephemeral JWT keys for local/dev runtime")
		handoffSigner, err = security.NewEphemeralHandoffJWTSigner(cfg.JWTKeyID)
		if err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("init ephemeral jwt signer: %w", err)
		}
	}

	var identity ports.IdentityProvider
	switch cfg.IdentityMode {
	case "hosted":
		identity, err = identityadapter.NewHTTPProvider(cfg.IdentityBaseURL, cfg.IdentityServiceKey, cfg.IdentityHTTPTimeout)
	default:
		identity, err = identityadapter.NewLocalProvider(repos.Accounts, security.NewBcryptHasher(cfg.BcryptCost))
	}
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("init identity provider: %w", err)
	}

	var publisher ports.EventPublisher
	var publisherClose func() error
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, err := eventadapter.NewKafkaPublisher(cfg.KafkaBrokers, map[string]string{
			"signup.completed": cfg.TopicSignupCompleted,
		})
		if err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("init kafka publisher: %w", err)
		}
		publisher = kafkaPublisher
		publisherClose = kafkaPublisher.Close
	} else {
		publisher = eventadapter.NewLoggingPublisher(logger)
	}

	svc, err := application.NewService(application.Config{
		SignupTTL:       cfg.SignupTTL,
		HandoffTokenTTL: cfg.HandoffTokenTTL,
		PasswordPolicy: domain.PasswordPolicy{
			MinLength:      cfg.PasswordMinLength,
			MaxLength:      cfg.PasswordMaxLength,
			RequireUpper:   cfg.PasswordRequireUpper,
			RequireLower:   cfg.PasswordRequireLower,
			RequireDigit:   cfg.PasswordRequireDigit,
			RequireSpecial: cfg.PasswordRequireSpecial,
		},
	}, application.Dependencies{
		Signups:   signups,
		Identity:  identity,
		Profiles:  repos.Profiles,
		Publisher: publisher,
		Handoff:   handoffSigner,
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("init application service: %w", err)
	}

	handler := httpadapter.NewHandler(svc, func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return sqlDB.PingContext(pingCtx)
	})
	router := httpadapter.NewRouter(handler)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("listen gRPC: %w", err)
	}

	var consumer eventadapter.Consumer
	var consumerClose func() error
	if len(cfg.KafkaBrokers) > 0 {
		kafkaConsumer, err := eventadapter.NewKafkaConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, []string{cfg.TopicAccountCreated})
		if err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("init kafka consumer: %w", err)
		}
		consumer = kafkaConsumer
		consumerClose = kafkaConsumer.Close
	} else {
		consumer = eventadapter.NewNoopConsumer()
	}

	worker := eventadapter.NewConsumerWorker(logger, consumer, svc, cfg.ConsumerPollInterval)

	return &Runtime{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpServer,
		grpcServer: grpcServer,
		grpcLis:    lis,
		worker:     worker,
		cleanupFn: func(ctx context.Context) {
			if consumerClose != nil {
				_ = consumerClose()
			}
			if publisherClose != nil {
				_ = publisherClose()
			}
			if redisClose != nil {
				_ = redisClose()
			}
			_ = sqlDB.Close()
		},
	}, nil
}

func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() {
		r.logger.Info("http server started", "addr", r.httpServer.Addr)
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		r.logger.Info("grpc server started", "addr", r.grpcLis.Addr().String())
		if err := r.grpcServer.Serve(r.grpcLis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		r.logger.Info("shutdown signal received")
	case err := <-errCh:
		r.logger.Error("server failure", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.grpcServer.GracefulStop()
	r.cleanupFn(shutdownCtx)
	return nil
}

func (r *Runtime) RunWorker(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.logger.Info("event consumer worker started")
	err := r.worker.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	r.cleanupFn(shutdownCtx)
	return nil
}
