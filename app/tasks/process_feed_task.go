package tasks

import (
	"context"
	"errors"
	"log/slog"

	"github.com/skillsfunding/contracts-feed-processor/app/engine"
	"github.com/skillsfunding/contracts-feed-processor/app/metrics"
)

// ProcessFeedTask runs one full pass of the feed engine: read the feed
// from the durable bookmark, forward new contract events, advance state.
type ProcessFeedTask struct {
	Task
	engine *engine.Engine
}

func NewProcessFeedTask(e *engine.Engine) *ProcessFeedTask {
	return &ProcessFeedTask{
		Task:   NewTask(TaskTypeProcessFeed),
		engine: e,
	}
}

func (t *ProcessFeedTask) Execute(ctx context.Context) error {
	err := t.engine.ExtractAndPopulateQueue(ctx)
	if err != nil {
		metrics.RunsTotal.WithLabelValues("failed").Inc()

		// A desynchronized bookmark needs operator intervention and
		// will not succeed on retry.
		if errors.Is(err, engine.ErrBookmarkDesync) {
			t.RetryCount = t.MaxRetries
		}
		return err
	}

	metrics.RunsTotal.WithLabelValues("succeeded").Inc()

	slog.Info("Task completed",
		"type", "ProcessFeed",
		"id", t.ID,
		"duration", t.GetDuration())

	return nil
}
