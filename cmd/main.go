package main

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/garageos/workshop-manager/internal/analytics"
	"github.com/garageos/workshop-manager/internal/auth"
	"github.com/garageos/workshop-manager/internal/config"
	"github.com/garageos/workshop-manager/internal/db"
	"github.com/garageos/workshop-manager/internal/events"
	"github.com/garageos/workshop-manager/internal/handlers"
	"github.com/garageos/workshop-manager/internal/middleware"
)

func main() {
	cfg := config.Load()

	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	client, err := db.ConnectMongo(cfg.MongoURI)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	log.Info("Connected to MongoDB")

	database := client.Database(cfg.MongoDB)
	jobsCol := database.Collection("jobs")
	jobs := &db.MongoJobCollection{Collection: jobsCol}
	inventory := &db.MongoInventoryCollection{Collection: database.Collection("inventory")}
	users := &db.MongoUserCollection{Collection: database.Collection("users")}
	obd := &db.MongoOBDCollection{Collection: database.Collection("obd_codes")}

	authService, err := auth.NewService(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		log.WithError(err).Fatal("Failed to create auth service")
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.MQTTBroker != "" {
		mqttPub, err := events.NewMQTTPublisher(cfg.MQTTBroker, cfg.MQTTTopic)
		if err != nil {
			log.WithError(err).Warn("MQTT broker unreachable, status events disabled")
		} else {
			defer mqttPub.Close()
			publisher = mqttPub
			log.WithField("broker", cfg.MQTTBroker).Info("Publishing status events over MQTT")
		}
	}

	hours := analytics.ShopHours{OpeningHour: cfg.ShopOpeningHour, OpenHours: cfg.ShopOpenHours}
	router := &handlers.Router{
		Auth:      handlers.NewAuthHandler(authService, users),
		Jobs:      handlers.NewJobHandler(jobs, inventory, users, publisher),
		Inventory: handlers.NewInventoryHandler(inventory, cfg.LowStockThreshold),
		Analytics: handlers.NewAnalyticsHandler(jobs, hours),
		Billing:   handlers.NewBillingHandler(jobs),
		Track:     handlers.NewTrackHandler(jobs, jobsCol),
		OBD:       handlers.NewOBDHandler(obd),
		AuthMW:    middleware.NewAuthMiddleware(authService),
	}

	log.WithField("port", cfg.Port).Info("HTTP server listening")
	if err := http.ListenAndServe(":"+cfg.Port, router.Handler()); err != nil {
		log.WithError(err).Fatal("Server stopped")
	}
}
