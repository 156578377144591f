package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"cinema-backend/internal/shared"
	"cinema-backend/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisAddress string) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddress},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{scheduler: scheduler}
}

func (s *Scheduler) RegisterJobs() error {
	return s.registerExpirePendingOrdersJob()
}

// ================================================
// JOB: Expire stale pending orders (hourly)
// ================================================
// Orders left PENDING past the configured TTL are moved to CANCELED
// so abandoned checkouts do not pile up.
func (s *Scheduler) registerExpirePendingOrdersJob() error {
	payload, err := json.Marshal(map[string]interface{}{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeExpirePendingOrders, payload)

	_, err = s.scheduler.Register(
		"0 * * * *", // hourly at minute 0
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(2),
		asynq.Timeout(10*time.Minute),
	)

	if err != nil {
		logger.Error("Failed to register ExpirePendingOrders job", err)
		return err
	}

	logger.Info("Registered ExpirePendingOrders: hourly", map[string]interface{}{})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
