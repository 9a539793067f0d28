package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"contesto/internal/models"

	"github.com/go-co-op/gocron/v2"
)

// PopularSource recomputes the popular-contest list
type PopularSource interface {
	RefreshPopular(ctx context.Context) ([]models.ContestSummary, error)
}

// PopularRefresher periodically rebuilds the popular-contest cache
type PopularRefresher struct {
	source    PopularSource
	interval  time.Duration
	timeout   time.Duration
	scheduler gocron.Scheduler
}

// NewPopularRefresher creates a refresher running every interval
func NewPopularRefresher(source PopularSource, interval time.Duration) *PopularRefresher {
	return &PopularRefresher{
		source:   source,
		interval: interval,
		timeout:  30 * time.Second,
	}
}

// Start schedules the refresh job and runs it once immediately
func (pr *PopularRefresher) Start() error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(pr.interval),
		gocron.NewTask(pr.refresh),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = sched.Shutdown()
		return fmt.Errorf("failed to schedule popular refresh: %w", err)
	}

	sched.Start()
	pr.scheduler = sched
	log.Printf("[PopularRefresher] Starting popular contest refresh (interval: %v)", pr.interval)
	return nil
}

// Stop shuts the scheduler down, waiting for a running refresh
func (pr *PopularRefresher) Stop() error {
	if pr.scheduler == nil {
		return nil
	}
	log.Println("[PopularRefresher] Stopping popular contest refresh")
	return pr.scheduler.Shutdown()
}

func (pr *PopularRefresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), pr.timeout)
	defer cancel()

	contests, err := pr.source.RefreshPopular(ctx)
	if err != nil {
		log.Printf("[PopularRefresher] Error refreshing popular contests: %v", err)
		return
	}
	log.Printf("[PopularRefresher] Cached %d popular contests", len(contests))
}
