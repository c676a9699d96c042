package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/drossan/arena-ai/internal/ai"
	"github.com/drossan/arena-ai/internal/arena"
	"github.com/drossan/arena-ai/internal/config"
	"github.com/drossan/arena-ai/internal/db"
	"github.com/drossan/arena-ai/internal/httpapi"
	"github.com/drossan/arena-ai/internal/models"
	"github.com/drossan/arena-ai/internal/store/rabbitmq"
	"github.com/drossan/arena-ai/internal/store/redisstore"
)

func main() {
	cfg := config.Load()

	gdb := db.Connect(cfg.DBDSN)

	if err := gdb.AutoMigrate(
		&models.User{},
		&arena.Room{},
		&arena.Participant{},
		&arena.Message{},
		&arena.Vote{},
		&arena.TurnJob{},
	); err != nil {
		log.Fatalf("automigrate: %v", err)
	}

	rds := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer rds.Close()

	rabbit, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue)
	if err != nil {
		log.Fatalf("rabbit: %v", err)
	}
	defer rabbit.Close()

	// Provider registry (fighters route by participant model id)
	reg := ai.NewRegistry()
	reg.Register("ollama", func(ctx context.Context, model string) (ai.Provider, error) {
		_ = ctx
		m := strings.TrimSpace(model)
		if m == "" {
			m = cfg.OllamaModel
		}
		return ai.NewOllamaProvider(cfg.OllamaBaseURL, m), nil
	})
	reg.Register("openrouter", func(ctx context.Context, model string) (ai.Provider, error) {
		_ = ctx
		return ai.NewOpenRouterProvider(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, model, cfg.OpenRouterSiteURL, cfg.OpenRouterAppName), nil
	})

	repo := arena.NewRepo(gdb)
	svc := arena.NewService(repo, reg, rds, arena.Config{
		ProviderName:    cfg.AIProvider,
		RefereeMode:     cfg.RefereeMode,
		RefereeModel:    cfg.RefereeModel,
		CommentaryModel: cfg.CommentaryModel,
		TotalRounds:     cfg.TotalRounds,
		MaxHP:           cfg.MaxHP,
	})

	// Promote scheduled rooms whose start time has passed.
	go func() {
		ticker := time.NewTicker(cfg.SchedulerInterval)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if n := svc.StartDueRooms(ctx, time.Now()); n > 0 {
				log.Printf("scheduler: started %d room(s)", n)
			}
			cancel()
		}
	}()

	r := httpapi.NewRouter(gdb, cfg, svc, rabbit)

	log.Printf("arena server listening on %s", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
