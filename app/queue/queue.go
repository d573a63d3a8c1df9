// Package queue publishes accepted contract events to a JetStream stream
// for downstream consumers. Events for the same contract share a subject,
// which keeps them ordered per contract.
package queue

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nats-io/nats.go/jetstream"
)

type JetStreamPublisher struct {
	js            jetstream.JetStream
	subjectPrefix string
}

// NewJetStreamPublisher ensures the contract events stream exists and
// returns a publisher bound to it.
func NewJetStreamPublisher(ctx context.Context, js jetstream.JetStream, streamName, subjectPrefix string) (*JetStreamPublisher, error) {
	_, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      streamName,
		Subjects:  []string{subjectPrefix + ".>"},
		Retention: jetstream.LimitsPolicy,
		Storage:   jetstream.FileStorage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to ensure stream %s: %w", streamName, err)
	}

	return &JetStreamPublisher{
		js:            js,
		subjectPrefix: subjectPrefix,
	}, nil
}

func (p *JetStreamPublisher) Publish(ctx context.Context, key string, msgID string, payload []byte) error {
	subject := p.subjectPrefix + "." + sanitizeToken(key)

	opts := []jetstream.PublishOpt{}
	if msgID != "" {
		opts = append(opts, jetstream.WithMsgID(msgID))
	}

	ack, err := p.js.Publish(ctx, subject, payload, opts...)
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}

	slog.Debug("Published contract event", "subject", subject, "sequence", ack.Sequence, "duplicate", ack.Duplicate)
	return nil
}

// sanitizeToken rewrites a key into a single valid NATS subject token.
func sanitizeToken(key string) string {
	if key == "" {
		return "unknown"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t':
			return '-'
		}
		return r
	}, key)
}
