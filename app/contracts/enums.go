package contracts

import (
	"fmt"
	"strings"
)

// Status is the lifecycle status of a contract.
type Status string

const (
	StatusPublishedToProvider      Status = "PublishedToProvider"
	StatusWithdrawnByAgency        Status = "WithdrawnByAgency"
	StatusWithdrawnByProvider      Status = "WithdrawnByProvider"
	StatusApproved                 Status = "Approved"
	StatusModified                 Status = "Modified"
	StatusUnderTermination         Status = "UnderTermination"
	StatusClosed                   Status = "Closed"
	StatusTerminated               Status = "Terminated"
	StatusDraft                    Status = "Draft"
	StatusUnassigned               Status = "Unassigned"
	StatusInReview                 Status = "InReview"
	StatusAwaitingInternalApproval Status = "AwaitingInternalApproval"
)

var statusByFeedValue = map[string]Status{
	"draft":                      StatusDraft,
	"approved":                   StatusApproved,
	"unassigned":                 StatusUnassigned,
	"in review":                  StatusInReview,
	"awaiting internal approval": StatusAwaitingInternalApproval,
	"published to provider":      StatusPublishedToProvider,
	"withdrawn by provider":      StatusWithdrawnByProvider,
	"withdrawn by agency":        StatusWithdrawnByAgency,
	"closed":                     StatusClosed,
	"under termination":          StatusUnderTermination,
	"terminated":                 StatusTerminated,
	"modified":                   StatusModified,
}

// ParseStatus maps a feed status value to a Status. Unrecognized values are a
// contract schema violation and fail hard.
func ParseStatus(value string) (Status, error) {
	if s, ok := statusByFeedValue[strings.ToLower(strings.TrimSpace(value))]; ok {
		return s, nil
	}
	return "", fmt.Errorf("status [%s] is not valid", value)
}

// ParentStatus is the lifecycle status of a contract's parent.
type ParentStatus string

const (
	ParentStatusDraft     ParentStatus = "Draft"
	ParentStatusApproved  ParentStatus = "Approved"
	ParentStatusWithdrawn ParentStatus = "Withdrawn"
	ParentStatusClosed    ParentStatus = "Closed"
)

func ParseParentStatus(value string) (ParentStatus, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "draft":
		return ParentStatusDraft, nil
	case "approved":
		return ParentStatusApproved, nil
	case "withdrawn":
		return ParentStatusWithdrawn, nil
	case "closed":
		return ParentStatusClosed, nil
	}
	return "", fmt.Errorf("parent status [%s] is not valid", value)
}

// AmendmentType describes how a contract version amends its predecessor.
type AmendmentType string

const (
	AmendmentNone         AmendmentType = "None"
	AmendmentNotification AmendmentType = "Notification"
	AmendmentVariation    AmendmentType = "Variation"
)

func ParseAmendmentType(value string) (AmendmentType, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "none":
		return AmendmentNone, nil
	case "notification":
		return AmendmentNotification, nil
	case "variation":
		return AmendmentVariation, nil
	}
	return "", fmt.Errorf("amendment type [%s] is not valid", value)
}

// FundingType identifies the funding stream a contract is paid from.
type FundingType string

const (
	FundingUnknown                  FundingType = "Unknown"
	FundingMainstream               FundingType = "Mainstream"
	FundingEsf                      FundingType = "Esf"
	FundingTwentyFourPlusLoan       FundingType = "TwentyFourPlusLoan"
	FundingAge                      FundingType = "Age"
	FundingEop                      FundingType = "Eop"
	FundingEof                      FundingType = "Eof"
	FundingLevy                     FundingType = "Levy"
	FundingNcs                      FundingType = "Ncs"
	FundingSixteenNineteenFunding   FundingType = "SixteenNineteenFunding"
	FundingAebp                     FundingType = "Aebp"
	FundingNla                      FundingType = "Nla"
	FundingAdvancedLearnerLoans     FundingType = "AdvancedLearnerLoans"
	FundingEducationSkillsFunding   FundingType = "EducationAndSkillsFunding"
	FundingNonLearningGrant         FundingType = "NonLearningGrant"
	FundingSixteenEighteenForensic  FundingType = "SixteenEighteenForensicUnit"
	FundingDanceAndDramaAwards      FundingType = "DanceAndDramaAwards"
	FundingCollegeCollaborationFund FundingType = "CollegeCollaborationFund"
	FundingFeConditionAllocation    FundingType = "FurtherEducationConditionAllocation"
	FundingProcuredTraineeship      FundingType = "ProcuredNineteenToTwentyFourTraineeship"
)

var fundingTypeByCode = map[string]FundingType{
	"main":      FundingMainstream,
	"esf":       FundingEsf,
	"24+loans":  FundingTwentyFourPlusLoan,
	"age":       FundingAge,
	"eop":       FundingEop,
	"eof":       FundingEof,
	"levy":      FundingLevy,
	"ncs":       FundingNcs,
	"1619fund":  FundingSixteenNineteenFunding,
	"aeb":       FundingAebp,
	"nla":       FundingNla,
	"loans":     FundingAdvancedLearnerLoans,
	"edsk":      FundingEducationSkillsFunding,
	"nlg":       FundingNonLearningGrant,
	"16-18fu":   FundingSixteenEighteenForensic,
	"dada":      FundingDanceAndDramaAwards,
	"ccf":       FundingCollegeCollaborationFund,
	"feca":      FundingFeConditionAllocation,
	"19trn2020": FundingProcuredTraineeship,
}

// ParseFundingType maps a wire funding-type code to a FundingType. Codes not
// in the mapping table are new funding streams the build does not know about
// yet; they map to Unknown rather than failing the entry.
func ParseFundingType(code string) FundingType {
	if code == "" {
		return FundingUnknown
	}
	if ft, ok := fundingTypeByCode[strings.ToLower(strings.TrimSpace(code))]; ok {
		return ft
	}
	return FundingUnknown
}
