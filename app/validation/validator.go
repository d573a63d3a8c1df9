// Package validation decides whether a contract event's status triple and
// funding type are acceptable, against externally configured allow-lists.
package validation

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/skillsfunding/contracts-feed-processor/app/configstore"
)

// Validator checks contract events against the configured allow-lists. When
// an allow-list has never been configured it writes the build's defaults
// back to the store and retries once.
type Validator struct {
	settings SettingsStore
}

func New(settings SettingsStore) *Validator {
	return &Validator{settings: settings}
}

// ValidateContractStatus reports whether the (parent status, status,
// amendment type) triple is on the allow-list. Comparison is a
// case-insensitive exact match on the full triple.
func (v *Validator) ValidateContractStatus(ctx context.Context, parentStatus, status, amendmentType string) (bool, error) {
	slog.Info("Attempting to validate contract status",
		"parent_status", parentStatus, "status", status, "amendment_type", amendmentType)

	rules, err := v.loadStatusRules(ctx)
	if err != nil {
		return false, err
	}

	for _, rule := range rules {
		if strings.EqualFold(rule.ParentContractStatus, parentStatus) &&
			strings.EqualFold(rule.ContractStatus, status) &&
			strings.EqualFold(rule.AmendmentType, amendmentType) {
			slog.Info("Contract status is valid",
				"parent_status", parentStatus, "status", status, "amendment_type", amendmentType)
			return true, nil
		}
	}

	slog.Warn("Contract status is NOT valid",
		"parent_status", parentStatus, "status", status, "amendment_type", amendmentType)
	return false, nil
}

// ValidateFundingType reports whether the funding type code is on the
// allow-list, case-insensitively.
func (v *Validator) ValidateFundingType(ctx context.Context, fundingType string) (bool, error) {
	slog.Info("Attempting to validate funding type", "funding_type", fundingType)

	codes, err := v.loadFundingTypes(ctx)
	if err != nil {
		return false, err
	}

	needle := strings.ToLower(fundingType)
	for _, code := range codes {
		if strings.ToLower(code) == needle {
			slog.Info("Funding type is valid", "funding_type", fundingType)
			return true, nil
		}
	}

	slog.Warn("Funding type is NOT valid", "funding_type", fundingType)
	return false, nil
}

// loadStatusRules tries the store once; a missing key means the environment
// was never seeded, so defaults are written back and the read retried
// exactly once. The write is assumed to succeed.
func (v *Validator) loadStatusRules(ctx context.Context) ([]configstore.StatusRule, error) {
	rules, err := v.settings.GetValidationServiceStatuses(ctx)
	if err == nil {
		return rules, nil
	}
	if !errors.Is(err, configstore.ErrKeyNotFound) {
		return nil, err
	}

	slog.Warn("Status allow-list is not configured, writing defaults", "error", err)
	if err := v.settings.SetValidationServiceStatuses(ctx, defaultStatusRules()); err != nil {
		return nil, err
	}
	return v.settings.GetValidationServiceStatuses(ctx)
}

func (v *Validator) loadFundingTypes(ctx context.Context) ([]string, error) {
	codes, err := v.settings.GetValidationServiceFundingTypes(ctx)
	if err == nil {
		return codes, nil
	}
	if !errors.Is(err, configstore.ErrKeyNotFound) {
		return nil, err
	}

	slog.Warn("Funding type allow-list is not configured, writing defaults", "error", err)
	if err := v.settings.SetValidationServiceFundingTypes(ctx, defaultFundingTypes()); err != nil {
		return nil, err
	}
	return v.settings.GetValidationServiceFundingTypes(ctx)
}
