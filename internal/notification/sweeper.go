package notification

import (
	"context"
	"time"

	"github.com/fundlane/backend/internal/logger"
	"github.com/go-co-op/gocron"
)

// StartPurgeJob schedules an hourly sweep of expired notifications,
// standing in for the TTL index the storage layer does not provide.
// The returned scheduler should be stopped on shutdown.
func StartPurgeJob(repo *Repository) (*gocron.Scheduler, error) {
	scheduler := gocron.NewScheduler(time.UTC)

	_, err := scheduler.Every(1).Hour().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		purged, err := repo.DeleteExpired(ctx)
		if err != nil {
			logger.Log.Error("notification purge failed", "error", err.Error())
			return
		}
		if purged > 0 {
			logger.Log.Info("purged expired notifications", "count", purged)
		}
	})
	if err != nil {
		return nil, err
	}

	scheduler.StartAsync()
	return scheduler, nil
}
