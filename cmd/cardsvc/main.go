package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"

	configs "github.com/teklemt/cardscan-service/configs"
	"github.com/teklemt/cardscan-service/internal/cardsvc/config"
	"github.com/teklemt/cardscan-service/internal/cardsvc/db"
	"github.com/teklemt/cardscan-service/internal/cardsvc/handlers"
	"github.com/teklemt/cardscan-service/internal/cardsvc/mailer"
	"github.com/teklemt/cardscan-service/internal/cardsvc/service"
	"github.com/teklemt/cardscan-service/internal/cardsvc/store"
	"github.com/teklemt/cardscan-service/internal/cardsvc/vision"
	log "github.com/sirupsen/logrus"
)

const SERVICE_NAME = "card"

var instanceId string

func init() {
	instanceId = configs.CreateUniqueInstance(SERVICE_NAME)
	configs.Logging(SERVICE_NAME + "_service_" + instanceId)
	configs.LoadEnv(SERVICE_NAME)
}

func main() {
	cfg := config.Load()

	// pg connection
	dbpool, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer dbpool.Close()
	log.Printf("pg connection established successfully")

	cardStore := store.NewCardStore(dbpool)
	cardService := service.NewCardService(cardStore)

	webInfoStore := store.NewWebInfoStore(dbpool)
	webInfoService := service.NewWebInfoService(webInfoStore)

	emailLogStore := store.NewEmailLogStore(dbpool)

	visionClient := vision.NewClient(cfg.VisionAPIURL, cfg.VisionAPIKey, cfg.VisionModel)
	if !visionClient.Configured() {
		log.Warn("vision API credentials not set, OCR endpoints will report upstream unavailable")
	}

	var m handlers.Mailer
	mailService, err := mailer.NewService(cfg, emailLogStore)
	if err != nil {
		if errors.Is(err, mailer.ErrNotConfigured) {
			log.Warn("sendgrid credentials not set, email endpoints disabled")
		} else {
			log.Errorf("unable to initialize email service: %v", err)
		}
	} else {
		m = mailService
	}

	if cfg.APIKey == "" {
		log.Fatal("API_KEY is not set, refusing to serve an unauthenticated API")
	}

	// Setup router
	r := chi.NewRouter()
	c := configs.CORS()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(configs.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(c.Handler)

	// to protect the service api from any over requests
	r.Use(httprate.LimitByIP(cfg.RateLimit, 1*time.Minute))

	// Init handlers and routes
	h := handlers.NewHandler(cardService, visionClient, m, webInfoService, emailLogStore, cfg.APIKey)
	h.SetRoutes(r)

	// Create server with timeout settings
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	log.Infof("%s service running at port %s", SERVICE_NAME, server.Addr)

	// Wait for interrupt signal to gracefully shutdown the server
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}
