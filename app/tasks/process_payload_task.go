package tasks

import (
	"context"
	"log/slog"

	"github.com/skillsfunding/contracts-feed-processor/app/engine"
	"github.com/skillsfunding/contracts-feed-processor/app/metrics"
)

// ProcessPayloadTask forwards every entry of a feed page that was pushed
// to the service, without touching pagination state.
type ProcessPayloadTask struct {
	Task
	engine  *engine.Engine
	payload []byte
}

func NewProcessPayloadTask(e *engine.Engine, payload []byte) *ProcessPayloadTask {
	return &ProcessPayloadTask{
		Task:    NewTask(TaskTypeProcessPayload),
		engine:  e,
		payload: payload,
	}
}

func (t *ProcessPayloadTask) Execute(ctx context.Context) error {
	if err := t.engine.ExtractAndPopulateQueueFromPayload(ctx, t.payload); err != nil {
		metrics.RunsTotal.WithLabelValues("failed").Inc()
		return err
	}

	metrics.RunsTotal.WithLabelValues("succeeded").Inc()

	slog.Info("Task completed",
		"type", "ProcessPayload",
		"id", t.ID,
		"duration", t.GetDuration())

	return nil
}
