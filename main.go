package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/activity"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/apperrors"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/catalog"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/controllers"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/exam"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/gateway"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/middlewares"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/routers"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/session"
	"github.com/KrushanthAmalanathan/SkillShareCyberFrondend/util"
	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/rs/zerolog/log"
)

const (
	attemptIdle  = 2 * time.Hour
	pruneEvery   = 10 * time.Minute
	shutdownWait = 10 * time.Second
)

func main() {
	cfg, err := util.LoadConfig(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("couldn't load configuration")
	}
	util.InitLogger(cfg.LogLevel, cfg.LogFormat)
	logger := util.Logger()

	var storage fiber.Storage
	if cfg.Redis.Addr != "" {
		rs, err := session.NewRedisStorage(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("couldn't connect to redis")
		}
		storage = rs
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("Connected to redis")
	}

	sessions := session.NewStore(session.Config{
		RememberFor:  cfg.RememberFor,
		SessionIdle:  cfg.SessionIdle,
		CookieSecure: cfg.CookieSecure,
		Storage:      storage,
	})

	client := gateway.New(cfg.APIURL, gateway.WithLogger(logger))
	catalogService := catalog.NewService(client, catalog.NewResolver(client, logger))
	exams := exam.NewRegistry(client, logger)

	handlers := controllers.New(controllers.Deps{
		Config:   cfg,
		Sessions: sessions,
		Gateway:  client,
		Catalog:  catalogService,
		Exams:    exams,
		Activity: activity.NewService(client, time.Local),
		Log:      logger,
	})

	app := fiber.New(fiber.Config{
		AppName:      "SkillShare",
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		BodyLimit:    32 * 1024 * 1024,
		ErrorHandler: errorHandler,
	})
	middlewares.SetupMiddlewares(app, cfg)
	routers.SetupRoutes(app, handlers, sessions, storage)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		ticker := time.NewTicker(pruneEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := exams.Prune(attemptIdle); n > 0 {
					logger.Debug().Int("pruned", n).Msg("Dropped idle exam attempts")
				}
			}
		}
	}()

	go func() {
		logger.Info().Str("port", cfg.Port).Str("api", cfg.APIURL).Msg("Starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWait)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown failed")
	}
	if storage != nil {
		if err := storage.Close(); err != nil {
			logger.Warn().Err(err).Msg("closing session storage")
		}
	}
	logger.Info().Msg("Server exited")
}

// errorHandler renders errors that escape handlers (fiber errors, panics
// recovered upstream) in the same envelope the handlers use.
func errorHandler(c *fiber.Ctx, err error) error {
	status := apperrors.HTTPStatus(err)
	message := apperrors.Message(err, utils.StatusMessage(status))
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status, message = fe.Code, fe.Message
	}
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	}
	return c.Status(status).JSON(fiber.Map{
		"status":  "error",
		"message": message,
	})
}
