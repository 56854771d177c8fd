package notify

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/zeneves1970/ocorrencias/internal/config"
	"github.com/zeneves1970/ocorrencias/internal/metrics"
)

// Worker drains the notification queue and delivers messages to Telegram.
type Worker struct {
	redisClient *redis.Client
	telegram    *TelegramClient
	logger      *logrus.Logger
	cfg         *config.Config
}

func NewWorker(redisClient *redis.Client, telegram *TelegramClient, logger *logrus.Logger, cfg *config.Config) *Worker {
	return &Worker{
		redisClient: redisClient,
		telegram:    telegram,
		logger:      logger,
		cfg:         cfg,
	}
}

// Start launches the delivery goroutine. It runs until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Starting notification worker...")
	go func() {
		for {
			select {
			case <-ctx.Done():
				w.logger.Info("Stopping notification worker.")
				return
			default:
				// Blocking pop from the right side of the queue; 0 waits forever.
				result, err := w.redisClient.BRPop(ctx, 0, notifyQueueKey).Result()
				if err != nil {
					if errors.Is(err, context.Canceled) {
						continue
					}
					w.logger.WithError(err).Error("Failed to pop notification event from Redis")
					time.Sleep(w.cfg.NotifyBaseDelay)
					continue
				}

				// result[0] is the key, result[1] the payload.
				var event Event
				if err := json.Unmarshal([]byte(result[1]), &event); err != nil {
					w.logger.WithError(err).Error("Failed to unmarshal notification event from Redis")
					continue
				}

				w.deliver(ctx, event)
			}
		}
	}()
}

// deliver sends one event with bounded retries and exponential backoff.
// Delivery failure is logged and the event is dropped; ingestion already
// succeeded and must not be held hostage by the messenger.
func (w *Worker) deliver(ctx context.Context, event Event) {
	log := w.logger.WithFields(logrus.Fields{
		"event_id":   event.ID,
		"event_kind": event.Kind,
		"concelho":   event.Concelho,
	})

	if !w.telegram.Configured() {
		log.Warn("Telegram is not configured. Skipping notification delivery.")
		return
	}

	maxRetries := w.cfg.NotifyRetries
	delay := w.cfg.NotifyBaseDelay

	for i := 0; i < maxRetries; i++ {
		err := w.telegram.Send(ctx, event.Message())
		if err == nil {
			log.Info("Notification delivered successfully.")
			metrics.NotificationsDelivered.WithLabelValues(string(event.Kind)).Inc()
			return
		}

		log.WithError(err).Warnf("Failed to send notification. Retrying in %v. Retries left: %d", delay, maxRetries-1-i)
		time.Sleep(delay)
		delay *= 2
	}

	log.Errorf("Failed to deliver notification after %d retries.", maxRetries)
	metrics.NotificationsFailed.WithLabelValues(string(event.Kind)).Inc()
}
