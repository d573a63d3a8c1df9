// Package deserializer turns validated contract event XML into typed domain
// records, one implementation per supported wire schema version.
package deserializer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/antchfx/xmlquery"

	"github.com/skillsfunding/contracts-feed-processor/app/audit"
	"github.com/skillsfunding/contracts-feed-processor/app/contracts"
	"github.com/skillsfunding/contracts-feed-processor/app/xmlutil"
)

const (
	contractsPath  = "content/contract/contracts/contract"
	allocationPath = "contractAllocations/contractAllocation"

	auditUser = "System - ContractsFeedProcessor"
)

// versioned is the shared deserialization core. The per-version types only
// differ in the parameters captured here.
type versioned struct {
	version   string
	schema    SchemaValidator
	validator StatusValidator
	auditor   audit.Auditor

	// v11.08 relaxed the allocation funding stream period code to optional.
	allocationFSPOptional bool
}

// Deserialize validates xml against the schema and extracts every contract
// record it carries, in document order, each classified by the status and
// funding type validators. Schema violations and missing required fields
// abort the whole call; classification failures are returned as per-record
// results.
func (d *versioned) Deserialize(ctx context.Context, xml string) ([]contracts.ProcessResult, error) {
	slog.Info("Deserializing contract event xml", "schema_version", d.version)

	doc, err := d.schema.ValidateXmlWithSchema(xml)
	if err != nil {
		return nil, err
	}

	nodes, err := xmlutil.SelectNodesIgnoreCase(doc, contractsPath)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("no contract elements found at '%s'", contractsPath)
	}

	results := make([]contracts.ProcessResult, 0, len(nodes))
	for _, node := range nodes {
		event, err := d.extractEvent(node)
		if err != nil {
			return nil, err
		}

		result, err := d.classify(ctx, node, event)
		if err != nil {
			return nil, err
		}

		results = append(results, contracts.ProcessResult{
			Event:    event,
			Result:   result,
			Document: doc,
		})
	}

	slog.Info("Deserialization completed", "schema_version", d.version, "records", len(results))
	return results, nil
}

func (d *versioned) extractEvent(node *xmlquery.Node) (contracts.ContractEvent, error) {
	var evt contracts.ContractEvent
	var err error

	if evt.UKPRN, err = xmlutil.GetValue(node, "contractor/ukprn", false, 0); err != nil {
		return evt, err
	}
	if evt.ContractNumber, err = xmlutil.GetValue(node, "contractNumber", false, ""); err != nil {
		return evt, err
	}
	if evt.ContractVersion, err = xmlutil.GetValue(node, "contractVersionNumber", false, 0); err != nil {
		return evt, err
	}
	if evt.ParentContractNumber, err = xmlutil.GetValue(node, "parentContractNumber", false, ""); err != nil {
		return evt, err
	}

	status, err := xmlutil.GetValue(node, "contractStatus/status", false, "")
	if err != nil {
		return evt, err
	}
	if evt.Status, err = contracts.ParseStatus(status); err != nil {
		return evt, err
	}

	parentStatus, err := xmlutil.GetValue(node, "contractStatus/parentStatus", false, "")
	if err != nil {
		return evt, err
	}
	if evt.ParentStatus, err = contracts.ParseParentStatus(parentStatus); err != nil {
		return evt, err
	}

	amendment, err := xmlutil.GetValue(node, "amendmentType", true, "None")
	if err != nil {
		return evt, err
	}
	if evt.AmendmentType, err = contracts.ParseAmendmentType(amendment); err != nil {
		return evt, err
	}

	if evt.ContractPeriodValue, err = xmlutil.GetValue(node, "period/period", false, ""); err != nil {
		return evt, err
	}
	if evt.Value, err = xmlutil.GetValue(node, "contractValue", true, 0.0); err != nil {
		return evt, err
	}
	if evt.Type, err = xmlutil.GetValue(node, "contractType", true, ""); err != nil {
		return evt, err
	}

	fundingType, err := xmlutil.GetValue(node, "fundingType/fundingTypeCode", false, "")
	if err != nil {
		return evt, err
	}
	evt.FundingType = contracts.ParseFundingType(fundingType)

	if evt.StartDate, err = optionalDate(node, "startDate"); err != nil {
		return evt, err
	}
	if evt.EndDate, err = optionalDate(node, "endDate"); err != nil {
		return evt, err
	}
	if evt.SignedOn, err = optionalDate(node, "ContractApprovalDate"); err != nil {
		return evt, err
	}

	if evt.ContractAllocations, err = d.extractAllocations(node); err != nil {
		return evt, err
	}

	return evt, nil
}

func (d *versioned) extractAllocations(node *xmlquery.Node) ([]contracts.ContractAllocation, error) {
	elements, err := xmlutil.SelectNodesIgnoreCase(node, allocationPath)
	if err != nil {
		return nil, err
	}

	allocations := make([]contracts.ContractAllocation, 0, len(elements))
	for _, element := range elements {
		var alloc contracts.ContractAllocation

		if alloc.ContractAllocationNumber, err = xmlutil.GetValue(element, "contractAllocationNumber", true, ""); err != nil {
			return nil, err
		}
		if alloc.FundingStreamPeriodCode, err = xmlutil.GetValue(element, "fundingStreamPeriodCode", d.allocationFSPOptional, ""); err != nil {
			return nil, err
		}
		if alloc.LEPArea, err = xmlutil.GetValue(element, "ProcurementAttrs/LEPName", true, ""); err != nil {
			return nil, err
		}
		if alloc.TenderSpecTitle, err = xmlutil.GetValue(element, "ProcurementAttrs/TenderSpecTitle", true, ""); err != nil {
			return nil, err
		}

		allocations = append(allocations, alloc)
	}

	return allocations, nil
}

// classify runs the configured validators over the record's raw field
// values. Status rejection takes priority over funding type rejection.
// Rejections are audited fire-and-forget and logged; they never fail the
// call.
func (d *versioned) classify(ctx context.Context, node *xmlquery.Node, evt contracts.ContractEvent) (contracts.ProcessResultType, error) {
	status, err := xmlutil.GetValue(node, "contractStatus/status", false, "")
	if err != nil {
		return contracts.ResultOperationFailed, err
	}
	parentStatus, err := xmlutil.GetValue(node, "contractStatus/parentStatus", false, "")
	if err != nil {
		return contracts.ResultOperationFailed, err
	}
	amendmentType, err := xmlutil.GetValue(node, "amendmentType", true, "None")
	if err != nil {
		return contracts.ResultOperationFailed, err
	}
	fundingType, err := xmlutil.GetValue(node, "fundingType/fundingTypeCode", false, "")
	if err != nil {
		return contracts.ResultOperationFailed, err
	}

	statusOK, err := d.validator.ValidateContractStatus(ctx, parentStatus, status, amendmentType)
	if err != nil {
		return contracts.ResultOperationFailed, err
	}

	result := contracts.ResultSuccessful
	var detail string
	if !statusOK {
		result = contracts.ResultStatusValidationFailed
		detail = fmt.Sprintf("with parent status [%s], status [%s], and amendment type [%s] has been ignored",
			parentStatus, status, amendmentType)
	} else {
		fundingOK, err := d.validator.ValidateFundingType(ctx, fundingType)
		if err != nil {
			return contracts.ResultOperationFailed, err
		}
		if !fundingOK {
			result = contracts.ResultFundingTypeValidationFailed
			detail = fmt.Sprintf("with funding type [%s] has been ignored", fundingType)
		}
	}

	if result != contracts.ResultSuccessful {
		msg := fmt.Sprintf("Contract event for Contract [%s] Version [%d] %s.",
			evt.ContractNumber, evt.ContractVersion, detail)
		slog.Warn(msg)
		d.auditor.TrySendAudit(ctx, audit.Record{
			Action:   audit.ActionContractFeedEventFilteredOut,
			Severity: audit.SeverityInformation,
			Message:  msg,
			UKPRN:    evt.UKPRN,
			User:     auditUser,
		})
	}

	return result, nil
}

func optionalDate(node *xmlquery.Node, path string) (*time.Time, error) {
	t, err := xmlutil.GetValue(node, path, true, time.Time{})
	if err != nil {
		return nil, err
	}
	if t.IsZero() {
		return nil, nil
	}
	return &t, nil
}
