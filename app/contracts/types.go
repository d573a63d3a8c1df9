package contracts

import (
	"time"

	"github.com/antchfx/xmlquery"
	"github.com/google/uuid"
)

// ContractEvent is one business record describing a contract's state at a
// point in its version history, extracted from a single feed entry.
type ContractEvent struct {
	BookmarkID           uuid.UUID            `json:"bookmarkId"`
	UKPRN                int                  `json:"ukprn"`
	ContractNumber       string               `json:"contractNumber"`
	ParentContractNumber string               `json:"parentContractNumber"`
	ContractVersion      int                  `json:"contractVersion"`
	Status               Status               `json:"status"`
	ParentStatus         ParentStatus         `json:"parentStatus"`
	AmendmentType        AmendmentType        `json:"amendmentType"`
	FundingType          FundingType          `json:"fundingType"`
	StartDate            *time.Time           `json:"startDate"`
	EndDate              *time.Time           `json:"endDate"`
	SignedOn             *time.Time           `json:"signedOn"`
	Type                 string               `json:"type"`
	ContractAllocations  []ContractAllocation `json:"contractAllocations"`
	Value                float64              `json:"value"`
	ContractPeriodValue  string               `json:"contractPeriodValue"`

	// ContractEventXml is the archived blob name; set only after the raw
	// entry payload has been uploaded successfully.
	ContractEventXml string `json:"contractEventXml,omitempty"`
}

// ContractAllocation is one allocation sub-record of a contract event.
type ContractAllocation struct {
	ContractAllocationNumber string `json:"contractAllocationNumber"`
	FundingStreamPeriodCode  string `json:"fundingStreamPeriodCode"`
	LEPArea                  string `json:"lepArea,omitempty"`
	TenderSpecTitle          string `json:"tenderSpecTitle,omitempty"`
}

// ProcessResultType classifies the outcome of processing one contract record.
type ProcessResultType string

const (
	ResultSuccessful                  ProcessResultType = "Successful"
	ResultStatusValidationFailed      ProcessResultType = "StatusValidationFailed"
	ResultFundingTypeValidationFailed ProcessResultType = "FundingTypeValidationFailed"
	ResultOperationFailed             ProcessResultType = "OperationFailed"
)

// ProcessResult pairs one deserialized contract event with its outcome.
// Document is the parsed source XML, kept for downstream consumers that need
// schema-version-specific access; it is nil when the source was not parsed.
type ProcessResult struct {
	Event    ContractEvent
	Result   ProcessResultType
	Document *xmlquery.Node
}
