package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/harborops/portfleet/internal/auth"
	"github.com/harborops/portfleet/internal/db"
	"github.com/harborops/portfleet/internal/handlers"
	"github.com/harborops/portfleet/internal/ids"
	"github.com/harborops/portfleet/internal/ingest"
	"github.com/harborops/portfleet/internal/middleware"
	"github.com/harborops/portfleet/internal/models"
	"github.com/harborops/portfleet/internal/store"
)

func setupLogging() {
	log.SetFormatter(&log.JSONFormatter{})
	if level, err := log.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	}
}

// seedAdmin creates the bootstrap administrator when the user collection is
// empty, so a fresh deployment can log in.
func seedAdmin(ctx context.Context, authService *auth.Service, users *store.UserStore) error {
	if len(users.Users()) > 0 {
		return nil
	}

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@portfleet.local"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "ChangeMe123!"
	}

	hash, err := authService.HashPassword(password)
	if err != nil {
		return err
	}
	admin, err := users.Add(ctx, models.User{
		Username:     "admin",
		Email:        email,
		FullName:     "Administrator",
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}, "system")
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"user_id": admin.UserID,
		"email":   admin.Email,
	}).Info("Seeded bootstrap administrator")
	return nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using environment")
	}
	setupLogging()

	client, err := db.ConnectMongo()
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	database := client.Database(db.DatabaseName())
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			log.WithError(err).Error("Failed to disconnect from MongoDB")
		}
	}()
	log.Info("Connected to MongoDB")

	counters := &db.MongoCounters{Collection: database.Collection("counters")}
	gen, err := ids.NewGenerator(counters)
	if err != nil {
		log.WithError(err).Fatal("Failed to load id counters")
	}

	state := db.NewMongoStateStore(database)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	users, err := state.LoadUsers(ctx)
	if err != nil {
		cancel()
		log.WithError(err).Fatal("Failed to load users")
	}
	auditLogs, err := state.LoadAuditLogs(ctx)
	cancel()
	if err != nil {
		log.WithError(err).Fatal("Failed to load audit logs")
	}

	authService, err := auth.NewService()
	if err != nil {
		log.WithError(err).Fatal("Failed to create auth service")
	}

	fuelStore := store.NewFuelStore()
	equipmentStore := store.NewEquipmentStore(gen)
	userStore := store.NewUserStore(gen, state)
	userStore.Restore(users, auditLogs)

	if err := seedAdmin(context.Background(), authService, userStore); err != nil {
		log.WithError(err).Fatal("Failed to seed administrator")
	}

	authHandler := handlers.NewAuthHandler(authService, userStore, state)
	fuelHandler := handlers.NewFuelHandler(fuelStore)
	equipmentHandler := handlers.NewEquipmentHandler(equipmentStore)
	documentsHandler := handlers.NewDocumentsHandler(equipmentStore)
	userHandler := handlers.NewUserHandler(authService, userStore)
	dashboardHandler := handlers.NewDashboardHandler(fuelStore, equipmentStore)
	settingsHandler := handlers.NewSettingsHandler(state)

	authMW := middleware.NewAuthMiddleware(authService)
	perm := authMW.RequirePermission

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/api/auth/login", authHandler.Login)
	mux.HandleFunc("/api/auth/logout", authHandler.Logout)
	mux.HandleFunc("/api/auth/password-reset", authHandler.RequestPasswordReset)
	mux.HandleFunc("/api/auth/password-reset/confirm", authHandler.ConfirmPasswordReset)
	mux.HandleFunc("/api/auth/change-password", authHandler.ChangePassword)

	mux.HandleFunc("/api/fuel", fuelHandler.Records)
	mux.HandleFunc("/api/fuel/export", fuelHandler.Export)
	mux.HandleFunc("/api/dashboard", dashboardHandler.Overview)
	mux.HandleFunc("/api/settings", settingsHandler.Settings)

	mux.Handle("GET /api/equipment", perm("equipment", "view")(http.HandlerFunc(equipmentHandler.Collection)))
	mux.Handle("POST /api/equipment", perm("equipment", "create")(http.HandlerFunc(equipmentHandler.Collection)))
	mux.Handle("GET /api/equipment/{id}", perm("equipment", "view")(http.HandlerFunc(equipmentHandler.Item)))
	mux.Handle("PUT /api/equipment/{id}", perm("equipment", "update")(http.HandlerFunc(equipmentHandler.Item)))
	mux.Handle("POST /api/equipment/{id}/documents", perm("documents", "create")(http.HandlerFunc(equipmentHandler.AddDocument)))
	mux.Handle("POST /api/equipment/{id}/maintenance", perm("maintenance", "create")(http.HandlerFunc(equipmentHandler.AddMaintenance)))

	mux.Handle("GET /api/documents", perm("documents", "view")(http.HandlerFunc(documentsHandler.List)))

	mux.Handle("GET /api/users", perm("users", "view")(http.HandlerFunc(userHandler.Collection)))
	mux.Handle("POST /api/users", perm("users", "create")(http.HandlerFunc(userHandler.Collection)))
	mux.Handle("GET /api/users/audit", perm("users", "view")(http.HandlerFunc(userHandler.AuditLog)))
	mux.Handle("POST /api/users/bulk-status", perm("users", "update")(http.HandlerFunc(userHandler.BulkStatus)))
	mux.Handle("GET /api/users/{id}", perm("users", "view")(http.HandlerFunc(userHandler.Item)))
	mux.Handle("PUT /api/users/{id}", perm("users", "update")(http.HandlerFunc(userHandler.Item)))
	mux.Handle("DELETE /api/users/{id}", perm("users", "delete")(http.HandlerFunc(userHandler.Item)))

	rateLimit := middleware.NewRateLimitMiddleware()
	handler := rateLimit.RateLimit(300, 60)(authMW.Authenticate(mux))

	if broker := os.Getenv("MQTT_BROKER"); broker != "" {
		sub, err := ingest.NewSubscriber(broker, "portfleet-server", os.Getenv("MQTT_TOPIC"), fuelStore)
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to MQTT broker")
		}
		defer sub.Close()
		if err := sub.Start(); err != nil {
			log.WithError(err).Fatal("Failed to subscribe to dispense topic")
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.WithField("port", port).Info("HTTP server listening")
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.WithError(err).Fatal("HTTP server failed")
	}
}
