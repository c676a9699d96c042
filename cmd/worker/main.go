package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/drossan/arena-ai/internal/ai"
	"github.com/drossan/arena-ai/internal/arena"
	"github.com/drossan/arena-ai/internal/config"
	"github.com/drossan/arena-ai/internal/db"
	"github.com/drossan/arena-ai/internal/store/rabbitmq"
	"github.com/drossan/arena-ai/internal/store/redisstore"
	amqp "github.com/rabbitmq/amqp091-go"
)

func workerConcurrency() int {
	v := os.Getenv("WORKER_CONCURRENCY")
	if v == "" {
		return 2
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 2
	}
	if n > 50 {
		return 50
	}
	return n
}

func main() {
	cfg := config.Load()

	gdb := db.Connect(cfg.DBDSN)

	repo := arena.NewRepo(gdb)

	rds := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer rds.Close()

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

	svc := arena.NewService(repo, reg, rds, arena.Config{
		ProviderName:    cfg.AIProvider,
		RefereeMode:     cfg.RefereeMode,
		RefereeModel:    cfg.RefereeModel,
		CommentaryModel: cfg.CommentaryModel,
		TotalRounds:     cfg.TotalRounds,
		MaxHP:           cfg.MaxHP,
	})

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("rabbit dial: %v", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("rabbit channel: %v", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(cfg.RabbitQueue, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": cfg.RabbitQueue + ".dlq",
	})
	if err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	concurrency := workerConcurrency()

	if err := ch.Qos(concurrency, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("worker started, queue=%s concurrency=%d", cfg.RabbitQueue, concurrency)

	// worker pool
	jobs := make(chan amqp.Delivery, concurrency*2)

	var wg sync.WaitGroup
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func(workerID int) {
			defer wg.Done()
			for d := range jobs {
				var m rabbitmq.TurnJobMessage
				if err := json.Unmarshal(d.Body, &m); err != nil || m.JobID == "" {
					log.Printf("worker=%d bad message: %v", workerID, err)
					_ = d.Nack(false, false)
					continue
				}

				start := time.Now()
				if err := svc.ExecuteTurnJob(ctx, m.JobID); err != nil {
					log.Printf("worker=%d room=%s job=%s failed cost=%s err=%v", workerID, m.RoomID, m.JobID, time.Since(start), err)
					_ = d.Nack(false, false)
					continue
				}

				log.Printf("worker=%d room=%s job=%s done cost=%s", workerID, m.RoomID, m.JobID, time.Since(start))

				if err := d.Ack(false); err != nil {
					log.Printf("worker=%d ack failed job=%s err=%v", workerID, m.JobID, err)
				}
			}
		}(i)
	}

	// dispatcher
	for {
		select {
		case <-ctx.Done():
			log.Printf("worker shutting down")
			close(jobs)
			wg.Wait()
			return

		case d, ok := <-msgs:
			if !ok {
				log.Printf("delivery channel closed")
				time.Sleep(1 * time.Second)
				continue
			}
			jobs <- d
		}
	}
}
