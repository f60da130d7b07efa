// Package app wires configuration, storage, knowledge and the message
// pipeline together for the HTTP server, the CLI and the MCP server.
package app

import (
	"fmt"
	"healthassistant/database"
	"healthassistant/internal/cache"
	"healthassistant/internal/config"
	"healthassistant/internal/generation"
	"healthassistant/internal/knowledge"
	"healthassistant/internal/openai"
	"healthassistant/internal/repository"
	"healthassistant/internal/services"
	"log"

	"gorm.io/gorm"
)

type App struct {
	Config    config.Config
	DB        *gorm.DB
	Knowledge *knowledge.Store
	Profiles  repository.UserProfileRepository
	Logs      repository.DailyLogRepository
	Pipeline  *services.Pipeline

	redis     *cache.RedisClient
	publisher *services.AMQPPublisher
}

// New opens the database, runs migrations, loads the knowledge base and
// builds the pipeline. Redis, RabbitMQ and the model are optional: without
// them conversation state stays in memory, replies are not published and
// every record turn uses the fallback path.
func New(cfg config.Config) (*App, error) {
	db, err := database.Open(cfg.Database, cfg.Location)
	if err != nil {
		return nil, err
	}
	if err := database.MigrateDatabase(db); err != nil {
		closeDB(db)
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	store, err := loadKnowledge(cfg.KnowledgeDir)
	if err != nil {
		closeDB(db)
		return nil, err
	}

	a := &App{
		Config:    cfg,
		DB:        db,
		Knowledge: store,
		Profiles:  repository.NewUserProfileRepository(db),
		Logs:      repository.NewDailyLogRepository(db),
	}

	var conversations cache.ConversationStore = cache.NewMemoryStore(cfg.ConversationTTL)
	if cfg.RedisURL != "" {
		redisClient, err := cache.NewRedisClient(cfg.RedisURL, cfg.ConversationTTL)
		if err != nil {
			log.Printf("Warning: Redis unavailable, keeping conversation state in memory: %v", err)
		} else {
			a.redis = redisClient
			conversations = redisClient
			log.Println("Conversation state stored in Redis")
		}
	}

	var publisher services.ReplyPublisher = services.NoopPublisher{}
	if cfg.RabbitMQURL != "" {
		amqpPublisher, err := services.NewAMQPPublisher(cfg.RabbitMQURL)
		if err != nil {
			log.Printf("Warning: RabbitMQ unavailable, replies will not be published: %v", err)
		} else {
			amqpPublisher.Start()
			a.publisher = amqpPublisher
			publisher = amqpPublisher
		}
	}

	var generator generation.Generator
	if cfg.LLM.APIKey != "" {
		client, err := openai.NewClient(openai.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
		})
		if err != nil {
			a.Close()
			return nil, err
		}
		generator = client
		log.Printf("Using model %s", cfg.LLM.Model)
	} else {
		log.Println("Warning: OPENAI_API_KEY not set, record turns will use the fallback path")
	}

	a.Pipeline = services.NewPipeline(services.PipelineDeps{
		Knowledge:     store,
		Generator:     generator,
		Profiles:      a.Profiles,
		Logs:          a.Logs,
		Conversations: conversations,
		Publisher:     publisher,
	}, services.PipelineConfig{
		RepairRetries:       cfg.RepairRetries,
		HistoryWindowDays:   cfg.HistoryWindowDays,
		WriteRetries:        cfg.WriteRetries,
		GenerationTimeout:   cfg.LLM.Timeout(),
		Location:            cfg.Location,
		ActivityMultipliers: cfg.ActivityMultipliers,
		Ranges:              cfg.Ranges,
	})

	return a, nil
}

func loadKnowledge(dir string) (*knowledge.Store, error) {
	if dir == "" {
		store, err := knowledge.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load built-in knowledge: %w", err)
		}
		return store, nil
	}
	store, err := knowledge.LoadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load knowledge from %s: %w", dir, err)
	}
	log.Printf("Loaded knowledge from %s", dir)
	return store, nil
}

// Status reports the health of each backing service.
func (a *App) Status() map[string]interface{} {
	status := map[string]interface{}{
		"database":      "ok",
		"conversations": "memory",
		"publisher":     "disabled",
	}
	if sqlDB, err := a.DB.DB(); err != nil || sqlDB.Ping() != nil {
		status["database"] = "unavailable"
	}
	if a.redis != nil {
		status["conversations"] = "redis"
	}
	if a.publisher != nil {
		status["publisher"] = "rabbitmq"
	}
	return status
}

// Close stops the publisher first so queued replies drain before the
// connections go away.
func (a *App) Close() {
	if a.publisher != nil {
		a.publisher.Stop()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Printf("Error closing Redis: %v", err)
		}
	}
	closeDB(a.DB)
}

func closeDB(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
