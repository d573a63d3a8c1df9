package engine

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillsfunding/contracts-feed-processor/app/contracts"
	"github.com/skillsfunding/contracts-feed-processor/app/feed"
)

type stubProcessor struct {
	results map[uuid.UUID][]contracts.ProcessResult
	err     error
}

func (p *stubProcessor) ProcessEntry(_ context.Context, entry feed.Entry) ([]contracts.ProcessResult, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.results[entry.ID], nil
}

type recordingPublisher struct {
	keys     []string
	msgIDs   []string
	payloads [][]byte
	err      error
}

func (p *recordingPublisher) Publish(_ context.Context, key, msgID string, payload []byte) error {
	if p.err != nil {
		return p.err
	}
	p.keys = append(p.keys, key)
	p.msgIDs = append(p.msgIDs, msgID)
	p.payloads = append(p.payloads, payload)
	return nil
}

func successResult(bookmark uuid.UUID, contractNumber string, version int) contracts.ProcessResult {
	return contracts.ProcessResult{
		Event: contracts.ContractEvent{
			BookmarkID:      bookmark,
			ContractNumber:  contractNumber,
			ContractVersion: version,
		},
		Result: contracts.ResultSuccessful,
	}
}

func TestPopulatePublishesAcceptedEventsKeyedByContract(t *testing.T) {
	proc := &stubProcessor{results: map[uuid.UUID][]contracts.ProcessResult{
		entryA.ID: {successResult(entryA.ID, "ESIF-9999", 1)},
		entryB.ID: {
			successResult(entryB.ID, "ESIF-8888", 3),
			{Event: contracts.ContractEvent{ContractNumber: "ESIF-7777"}, Result: contracts.ResultStatusValidationFailed},
		},
	}}
	publisher := &recordingPublisher{}
	settings := newMemorySettings(uuid.Nil, 1, 10)

	populator := NewQueuePopulator(proc, publisher, settings)
	require.NoError(t, populator.Populate(context.Background(), []feed.Entry{entryA, entryB}))

	assert.Equal(t, []string{"ESIF-9999", "ESIF-8888"}, publisher.keys)
	assert.Equal(t, entryA.ID.String()+"-ESIF-9999-1", publisher.msgIDs[0])
	assert.Equal(t, entryB.ID, settings.bookmark)

	var event contracts.ContractEvent
	require.NoError(t, json.Unmarshal(publisher.payloads[0], &event))
	assert.Equal(t, "ESIF-9999", event.ContractNumber)
	assert.Equal(t, entryA.ID, event.BookmarkID)
}

func TestPopulateAdvancesBookmarkPerEntry(t *testing.T) {
	proc := &stubProcessor{results: map[uuid.UUID][]contracts.ProcessResult{
		entryA.ID: {successResult(entryA.ID, "ESIF-9999", 1)},
		entryB.ID: {successResult(entryB.ID, "ESIF-8888", 1)},
	}}
	publisher := &recordingPublisher{}
	settings := newMemorySettings(uuid.Nil, 1, 10)

	// Fail the second entry's publish and confirm the bookmark stayed on
	// the first entry, so a retry resumes there.
	populator := NewQueuePopulator(proc, publisher, settings)
	require.NoError(t, populator.Populate(context.Background(), []feed.Entry{entryA}))
	assert.Equal(t, entryA.ID, settings.bookmark)

	publisher.err = errors.New("stream unavailable")
	err := populator.Populate(context.Background(), []feed.Entry{entryB})
	assert.ErrorContains(t, err, "failed to queue")
	assert.Equal(t, entryA.ID, settings.bookmark)
}

func TestPopulateSkipsRejectedEventsSilently(t *testing.T) {
	proc := &stubProcessor{results: map[uuid.UUID][]contracts.ProcessResult{
		entryA.ID: {
			{Event: contracts.ContractEvent{ContractNumber: "ESIF-9999"}, Result: contracts.ResultStatusValidationFailed},
			{Event: contracts.ContractEvent{ContractNumber: "ESIF-8888"}, Result: contracts.ResultFundingTypeValidationFailed},
		},
	}}
	publisher := &recordingPublisher{}
	settings := newMemorySettings(uuid.Nil, 1, 10)

	populator := NewQueuePopulator(proc, publisher, settings)
	require.NoError(t, populator.Populate(context.Background(), []feed.Entry{entryA}))

	assert.Empty(t, publisher.keys)
	assert.Equal(t, entryA.ID, settings.bookmark)
}

func TestPopulateEmptyBatchIsNoOp(t *testing.T) {
	settings := newMemorySettings(entryA.ID, 1, 10)

	populator := NewQueuePopulator(&stubProcessor{}, &recordingPublisher{}, settings)
	require.NoError(t, populator.Populate(context.Background(), nil))

	assert.Equal(t, entryA.ID, settings.bookmark)
}

func TestPopulateProcessorFailureStopsBatch(t *testing.T) {
	proc := &stubProcessor{err: errors.New("malformed entry")}
	settings := newMemorySettings(uuid.Nil, 1, 10)

	populator := NewQueuePopulator(proc, &recordingPublisher{}, settings)
	err := populator.Populate(context.Background(), []feed.Entry{entryA})

	assert.ErrorContains(t, err, "malformed entry")
	assert.Equal(t, uuid.Nil, settings.bookmark)
}
