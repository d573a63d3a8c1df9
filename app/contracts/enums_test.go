package contracts

import "testing"

func TestParseStatus(t *testing.T) {
	tests := []struct {
		value string
		want  Status
	}{
		{"draft", StatusDraft},
		{"Approved", StatusApproved},
		{"published to provider", StatusPublishedToProvider},
		{"  Withdrawn By Agency  ", StatusWithdrawnByAgency},
		{"under termination", StatusUnderTermination},
		{"modified", StatusModified},
	}

	for _, tt := range tests {
		got, err := ParseStatus(tt.value)
		if err != nil {
			t.Errorf("ParseStatus(%q) returned error: %v", tt.value, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStatus(%q) = %q, want %q", tt.value, got, tt.want)
		}
	}

	if _, err := ParseStatus("live"); err == nil {
		t.Error("expected error for unknown status")
	}
	if _, err := ParseStatus(""); err == nil {
		t.Error("expected error for empty status")
	}
}

func TestParseParentStatus(t *testing.T) {
	got, err := ParseParentStatus("Withdrawn")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != ParentStatusWithdrawn {
		t.Errorf("unexpected parent status: %q", got)
	}

	if _, err := ParseParentStatus("archived"); err == nil {
		t.Error("expected error for unknown parent status")
	}
}

func TestParseAmendmentTypeEmptyMeansNone(t *testing.T) {
	got, err := ParseAmendmentType("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != AmendmentNone {
		t.Errorf("expected None for empty amendment type, got %q", got)
	}

	if _, err := ParseAmendmentType("correction"); err == nil {
		t.Error("expected error for unknown amendment type")
	}
}

func TestParseFundingType(t *testing.T) {
	tests := []struct {
		code string
		want FundingType
	}{
		{"main", FundingMainstream},
		{"ESF", FundingEsf},
		{"24+loans", FundingTwentyFourPlusLoan},
		{"1619fund", FundingSixteenNineteenFunding},
		{"19trn2020", FundingProcuredTraineeship},
		{"", FundingUnknown},
		{"brand-new-stream", FundingUnknown},
	}

	for _, tt := range tests {
		if got := ParseFundingType(tt.code); got != tt.want {
			t.Errorf("ParseFundingType(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}
