package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/mindwellhq/mindwell-backend/internal/config"
	"github.com/mindwellhq/mindwell-backend/internal/database"
	"github.com/mindwellhq/mindwell-backend/internal/handlers"
	"github.com/mindwellhq/mindwell-backend/internal/middleware"
	"github.com/mindwellhq/mindwell-backend/internal/routes"
	"github.com/mindwellhq/mindwell-backend/internal/services"
	"github.com/mindwellhq/mindwell-backend/internal/storage"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	// Load configuration
	cfg := config.Load()

	ctx := context.Background()

	// Connect to MongoDB
	log.Printf("Connecting to MongoDB...")
	db := database.New(cfg.MongoURI)
	if err := db.Connect(ctx); err != nil {
		log.Fatal("Failed to connect to MongoDB: ", err)
	}
	defer db.Disconnect(context.Background())

	if err := storage.EnsureIndexes(ctx, db); err != nil {
		log.Printf("⚠️  WARNING: failed to ensure MongoDB indexes: %v", err)
	} else {
		log.Println("✅ MongoDB indexes ensured")
	}

	// Connect to Redis (sessions)
	log.Printf("Connecting to Redis...")
	redisClient, err := database.NewRedis(cfg.RedisURI)
	if err != nil {
		log.Fatal("Failed to connect to Redis: ", err)
	}
	defer redisClient.Close()

	sessions := services.NewSessionService(redisClient)

	// Chat relay (optional: without a key, /api/chat answers 503)
	var relay handlers.Relay
	if cfg.GeminiAPIKey != "" {
		chatRelay, err := services.NewChatRelay(ctx, cfg.GeminiAPIKey, cfg.ChatModel, cfg.ChatTimeout)
		if err != nil {
			log.Printf("⚠️  WARNING: failed to initialize chat relay: %v", err)
		} else {
			relay = chatRelay
			log.Printf("✅ Chat relay initialized (model %s, timeout %s)", cfg.ChatModel, cfg.ChatTimeout)
		}
	} else {
		log.Println("⚠️  WARNING: GEMINI_API_KEY not set. Chat will be unavailable.")
	}

	// Stores and handlers
	authHandler := handlers.NewAuthHandler(storage.NewUserStore(db), sessions, cfg.IsProduction())
	moodHandler := handlers.NewMoodHandler(storage.NewMoodStore(db), sessions)
	journalHandler := handlers.NewJournalHandler(storage.NewJournalStore(db), sessions)
	chatHandler := handlers.NewChatHandler(relay)

	// Setup router
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	if cfg.IsProduction() {
		r.Use(middleware.SecurityHeaders)
		log.Println("✅ Production security headers enabled")
	}

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Setup routes
	routes.Setup(r, authHandler, moodHandler, journalHandler, chatHandler)

	log.Printf("🚀 MindWell backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
