package configstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

const (
	keyLastReadBookmarkID     = "LastReadBookmarkId"
	keyLastReadPage           = "LastReadPage"
	keyNumberOfPagesToProcess = "NumberOfPagesToProcess"
	keyValidationStatuses     = "ValidationServiceStatuses"
	keyValidationFundingTypes = "ValidationServiceFundingTypes"
)

// StatusRule is one allowed (parent status, status, amendment type) triple.
// Matching is case-insensitive on all three parts.
type StatusRule struct {
	ParentContractStatus string `json:"parentContractStatus"`
	ContractStatus       string `json:"contractStatus"`
	AmendmentType        string `json:"amendmentType"`
}

// Settings exposes the typed feed processing configuration on top of the raw
// key-value store.
type Settings struct {
	reader ConfigReader

	// defaultPageBudget is used when NumberOfPagesToProcess was never
	// configured.
	defaultPageBudget int
}

func NewSettings(reader ConfigReader, defaultPageBudget int) *Settings {
	return &Settings{reader: reader, defaultPageBudget: defaultPageBudget}
}

// GetLastReadBookmarkID returns the bookmark of the last processed entry.
// A key that was never written means the feed has never been read; the nil
// UUID signals a first-ever run to the engine.
func (s *Settings) GetLastReadBookmarkID(ctx context.Context) (uuid.UUID, error) {
	value, err := s.reader.GetConfig(ctx, keyLastReadBookmarkID)
	if errors.Is(err, ErrKeyNotFound) {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, err
	}

	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("stored bookmark %q is not a valid uuid: %w", value, err)
	}
	return id, nil
}

func (s *Settings) SetLastReadBookmarkID(ctx context.Context, id uuid.UUID) error {
	return s.reader.SetConfig(ctx, keyLastReadBookmarkID, id.String())
}

// GetLastReadPage returns the archive page number the last run advanced
// past. Page numbering starts at 1, which is also the first-run default.
func (s *Settings) GetLastReadPage(ctx context.Context) (int, error) {
	value, err := s.reader.GetConfig(ctx, keyLastReadPage)
	if errors.Is(err, ErrKeyNotFound) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}

	page, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("stored last read page %q is not a number: %w", value, err)
	}
	return page, nil
}

func (s *Settings) SetLastReadPage(ctx context.Context, page int) error {
	return s.reader.SetConfig(ctx, keyLastReadPage, strconv.Itoa(page))
}

// GetNumberOfPagesToProcess returns the per-run page budget.
func (s *Settings) GetNumberOfPagesToProcess(ctx context.Context) (int, error) {
	value, err := s.reader.GetConfig(ctx, keyNumberOfPagesToProcess)
	if errors.Is(err, ErrKeyNotFound) {
		return s.defaultPageBudget, nil
	}
	if err != nil {
		return 0, err
	}

	count, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("stored page budget %q is not a number: %w", value, err)
	}
	return count, nil
}

// GetValidationServiceStatuses returns the allowed status triples.
// ErrKeyNotFound propagates so the validator can write defaults back.
func (s *Settings) GetValidationServiceStatuses(ctx context.Context) ([]StatusRule, error) {
	value, err := s.reader.GetConfig(ctx, keyValidationStatuses)
	if err != nil {
		return nil, err
	}

	var rules []StatusRule
	if err := json.Unmarshal([]byte(value), &rules); err != nil {
		return nil, fmt.Errorf("stored validation statuses are not valid: %w", err)
	}
	return rules, nil
}

func (s *Settings) SetValidationServiceStatuses(ctx context.Context, rules []StatusRule) error {
	data, err := json.Marshal(rules)
	if err != nil {
		return fmt.Errorf("failed to encode validation statuses: %w", err)
	}
	return s.reader.SetConfig(ctx, keyValidationStatuses, string(data))
}

// GetValidationServiceFundingTypes returns the allowed funding type codes,
// lower-cased as stored. ErrKeyNotFound propagates so the validator can
// write defaults back.
func (s *Settings) GetValidationServiceFundingTypes(ctx context.Context) ([]string, error) {
	value, err := s.reader.GetConfig(ctx, keyValidationFundingTypes)
	if err != nil {
		return nil, err
	}

	var codes []string
	if err := json.Unmarshal([]byte(value), &codes); err != nil {
		return nil, fmt.Errorf("stored funding types are not valid: %w", err)
	}
	return codes, nil
}

func (s *Settings) SetValidationServiceFundingTypes(ctx context.Context, codes []string) error {
	data, err := json.Marshal(codes)
	if err != nil {
		return fmt.Errorf("failed to encode funding types: %w", err)
	}
	return s.reader.SetConfig(ctx, keyValidationFundingTypes, string(data))
}
