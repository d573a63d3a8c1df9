package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/skillsfunding/contracts-feed-processor/app/engine"
	"github.com/skillsfunding/contracts-feed-processor/app/tasks"
)

// StateReader exposes the durable run state for the health endpoint.
type StateReader interface {
	GetLastReadBookmarkID(ctx context.Context) (uuid.UUID, error)
	GetLastReadPage(ctx context.Context) (int, error)
}

type Handler struct {
	engine    *engine.Engine
	scheduler tasks.TaskSchedulerInterface
	state     StateReader
}
