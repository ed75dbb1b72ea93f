package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/config"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/executor"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/grader"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/handler"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/repository"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/router"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/usecase"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/shared/auth"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/shared/logger"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/shared/mailer"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/shared/utilities"
)

func main() {
	cfg, err := config.NewPortalServiceConfig()
	if err != nil {
		bootLogger := logger.New("portal-service", logger.Config{})
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New("portal-service", cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, err := mongo.Connect(options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create mongo client")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Error().Err(err).Msg("failed to disconnect mongo client")
		}
	}()

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	err = mongoClient.Ping(pingCtx, readpref.Primary())
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongo")
	}

	db := mongoClient.Database(cfg.Mongo.Database)
	checks := map[string]handler.Check{
		"mongo": func(ctx context.Context) error { return mongoClient.Ping(ctx, readpref.Primary()) },
	}

	otpRepo, closeOTPStore := newOTPStore(ctx, cfg, log, db, checks)
	defer closeOTPStore()

	userRepo := repository.NewUserMongoRepository(ctx, log, db)
	questionRepo := repository.NewQuestionMongoRepository(ctx, log, db)
	stegRepo := repository.NewStegQuestionMongoRepository(ctx, log, db)
	attemptRepo := repository.NewRoundOneAttemptMongoRepository(ctx, log, db)
	answerKeyRepo := repository.NewAnswerKeyMongoRepository(ctx, log, db)
	progressRepo := repository.NewProgressMongoRepository(ctx, log, db)

	mailerCfg, err := mailer.NewConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load mailer configuration")
	}
	mail := mailer.NewMailer(log, mailerCfg)

	catalog, err := grader.DefaultCatalog()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load puzzle catalog")
	}

	var exec executor.Executor
	if cfg.Executor.Enabled {
		exec = executor.NewPistonClient(log, cfg.Executor.URL, cfg.Executor.Timeout)
	} else {
		log.Warn().Msg("code executor disabled, round two is graded on the reference fix only")
	}

	if cfg.Finale.FallbackPassword != "" {
		log.Warn().Msg("finale fallback password is enabled")
	}

	jwtAuth := auth.NewJWTAuthenticator(cfg.Token.Audience, cfg.Token.Issuer)
	validator := utilities.NewValidator()

	otpUsecase := usecase.NewOTPUsecase(userRepo, otpRepo, jwtAuth, mail, cfg, log)
	questionUsecase := usecase.NewQuestionUsecase(questionRepo, stegRepo, attemptRepo)
	answerKeyUsecase := usecase.NewAnswerKeyUsecase(answerKeyRepo)
	progressionUsecase := usecase.NewProgressionUsecase(progressRepo, grader.NewGrader(log, catalog, exec), cfg, log)

	handlers := router.Handlers{
		Auth:      handler.NewAuthHandler(otpUsecase, validator, log),
		Portal:    handler.NewPortalHandler(),
		Health:    handler.NewHealthHandler(checks, log),
		Question:  handler.NewQuestionHandler(questionUsecase, validator, log),
		AnswerKey: handler.NewAnswerKeyHandler(answerKeyUsecase, validator, log),
		Progress:  handler.NewProgressHandler(progressionUsecase, validator, log),
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.New(cfg, jwtAuth, handlers, log),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("portal service starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("portal service shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("portal service exited")
}

// newOTPStore selects the one-time code store. The returned func releases
// its connection.
func newOTPStore(
	ctx context.Context,
	cfg *config.PortalServiceConfig,
	log *zerolog.Logger,
	db *mongo.Database,
	checks map[string]handler.Check,
) (repository.OTPCredentialRepository, func()) {
	if cfg.OTP.Store != config.OTPStoreRedis {
		return repository.NewOTPCredentialMongoRepository(ctx, log, db), func() {}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("failed to connect to redis")
	}

	checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	log.Info().Str("addr", cfg.Redis.Addr).Msg("using redis otp store")

	return repository.NewOTPCredentialRedisRepository(rdb), func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close redis client")
		}
	}
}
