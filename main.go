package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"venue_pos/config"
	"venue_pos/database"
	"venue_pos/handler"
	"venue_pos/helper"
	"venue_pos/logger"
	"venue_pos/realtime"
	"venue_pos/router"
	"venue_pos/scheduler"
	"venue_pos/service"
	"venue_pos/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	settings, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(settings.AppEnv)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.ConnectDB(settings, log)
	if err != nil {
		return err
	}
	store := database.NewStore(db)
	svc := service.New(store, service.WithLogger(log))
	jwt := helper.NewJWT(settings.JWTSecret, settings.AccessTokenTTL)

	bus, err := newBus(ctx, settings, log)
	if err != nil {
		return err
	}
	defer bus.Close()
	notifier := realtime.NewNotifier(bus, log)
	hub := realtime.NewHub(log)
	go func() {
		if err := hub.Run(ctx, bus); err != nil {
			log.Error("order feed stopped", zap.Error(err))
		}
	}()

	var refundMailer handler.RefundMailer
	var summaryMailer scheduler.SummaryMailer
	if settings.SMTPEnabled() {
		mailer := utils.NewMailer(settings.SMTPHost, settings.SMTPPort, settings.SMTPUsername,
			settings.SMTPPassword, settings.SMTPFrom, settings.ReportEmail, log)
		refundMailer, summaryMailer = mailer, mailer
	}

	var uploader helper.ImageUploader
	if settings.CloudinaryEnabled() {
		cld, err := helper.InitCloudinary(settings.CloudinaryCloudName, settings.CloudinaryAPIKey, settings.CloudinaryAPISecret)
		if err != nil {
			return err
		}
		uploader = cld
	}

	jobs := scheduler.New(store, summaryMailer, notifier, settings.LowStockThreshold, log)
	hour, minute, _ := settings.SummaryTime()
	if err := jobs.Start(hour, minute, settings.LowStockCron); err != nil {
		return err
	}
	defer jobs.Shutdown()

	app := fiber.New(fiber.Config{
		AppName:   "venue-pos",
		BodyLimit: 10 * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     settings.CORSOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept",
		AllowCredentials: true,
		ExposeHeaders:    "Set-Cookie",
		MaxAge:           600,
	}))

	h := handler.New(handler.Deps{
		Service:  svc,
		Office:   store,
		JWT:      jwt,
		Settings: settings,
		Notifier: notifier,
		Hub:      hub,
		Mailer:   refundMailer,
		Uploader: uploader,
		Log:      log,
	})
	router.SetupRoutes(app, h, jwt)

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("port", settings.Port), zap.String("event_bus", settings.EventBus))
		errc <- app.Listen(":" + settings.Port)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}

func newBus(ctx context.Context, settings *config.Settings, log *zap.Logger) (realtime.Bus, error) {
	switch settings.EventBus {
	case config.BusRedis:
		return realtime.NewRedisBus(ctx, settings.RedisAddr, settings.RedisPassword, settings.RedisDB, log)
	case config.BusAMQP:
		return realtime.NewAMQPBus(settings.AMQPURL, log)
	}
	return realtime.NewLocalBus(), nil
}
