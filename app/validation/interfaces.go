package validation

import (
	"context"

	"github.com/skillsfunding/contracts-feed-processor/app/configstore"
)

// SettingsStore is the slice of the durable configuration the validator
// reads its allow-lists from and heals defaults into.
type SettingsStore interface {
	GetValidationServiceStatuses(ctx context.Context) ([]configstore.StatusRule, error)
	SetValidationServiceStatuses(ctx context.Context, rules []configstore.StatusRule) error
	GetValidationServiceFundingTypes(ctx context.Context) ([]string, error)
	SetValidationServiceFundingTypes(ctx context.Context, codes []string) error
}
