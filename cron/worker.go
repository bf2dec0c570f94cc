package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"slotline/config"
	"slotline/services/hold"
	"slotline/services/notification"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

// TypeHoldSweep is the periodic advisory sweep that flips expired holds and
// drops their lock documents. Correctness never depends on it: readers check
// expires_at themselves, and hold creation cleans stale locks on contention.
const TypeHoldSweep = "hold:sweep"

// InitWorker runs the asynq worker and scheduler in the background.
func InitWorker(holdSvc hold.HoldService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeHoldSweep, handleHoldSweep(holdSvc))
	mux.HandleFunc(notification.TypeDispatch, handleNotificationDispatch)

	go monitorRedisConnection()
	go runScheduler(redisOpts)

	// Start async worker with retry logic
	go func() {
		log.Println("[Worker] 🚀 Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[Worker] ❌ Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[Worker] ❗ Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

// runScheduler registers the periodic hold sweep.
func runScheduler(redisOpts asynq.RedisClientOpt) {
	scheduler := asynq.NewScheduler(redisOpts, nil)

	if _, err := scheduler.Register("@every 1m", asynq.NewTask(TypeHoldSweep, nil)); err != nil {
		log.Printf("[Scheduler] ❌ Failed to register hold sweep: %v", err)
		return
	}

	if err := scheduler.Run(); err != nil {
		log.Printf("[Scheduler] ❌ Scheduler stopped: %v", err)
	}
}

func handleHoldSweep(holdSvc hold.HoldService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		expired, err := holdSvc.ExpireStale(ctx)
		if err != nil {
			log.Printf("[HoldSweep] ❌ Sweep failed: %v", err)
			return err
		}
		if expired > 0 {
			log.Printf("[HoldSweep] 🧹 Expired %d stale holds", expired)
		}
		return nil
	}
}

// handleNotificationDispatch delivers one queued notification intent. Actual
// push delivery lives outside this service; the intent is logged so a delivery
// worker can be attached behind the same task type.
func handleNotificationDispatch(ctx context.Context, task *asynq.Task) error {
	var intent notification.Intent
	if err := json.Unmarshal(task.Payload(), &intent); err != nil {
		log.Printf("[NotificationDispatch] 🔴 Invalid payload: %v", err)
		return err
	}

	log.Printf("[NotificationDispatch] 📬 %s → %s: %s", intent.Type, intent.RecipientID, intent.Message)
	return nil
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[Worker] ⚠️ Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
