package deserializer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/antchfx/xmlquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillsfunding/contracts-feed-processor/app/audit"
	"github.com/skillsfunding/contracts-feed-processor/app/contracts"
	"github.com/skillsfunding/contracts-feed-processor/app/xmlutil"
)

const esifContractXML = `<content type="application/vnd.sfa.contract.v1+atom+xml">
	<contract xmlns="urn:sfa:schemas:contract">
		<contracts>
			<contract>
				<contractNumber>ESIF-9999</contractNumber>
				<contractVersionNumber>1</contractVersionNumber>
				<parentContractNumber>ESFA-10001</parentContractNumber>
				<contractType>Contract for Services</contractType>
				<contractValue>9099922.0000</contractValue>
				<contractor><ukprn>10000001</ukprn></contractor>
				<contractStatus>
					<status>published to provider</status>
					<parentStatus>draft</parentStatus>
				</contractStatus>
				<amendmentType>Variation</amendmentType>
				<fundingType><fundingTypeCode>esf</fundingTypeCode></fundingType>
				<period><period>1426</period></period>
				<startDate>2024-06-01</startDate>
				<endDate>2025-03-31</endDate>
				<ContractApprovalDate>2024-06-02</ContractApprovalDate>
				<contractAllocations>
					<contractAllocation>
						<contractAllocationNumber>ESF-9999</contractAllocationNumber>
						<fundingStreamPeriodCode>ESF1420</fundingStreamPeriodCode>
						<ProcurementAttrs>
							<LEPName>LEP Name</LEPName>
							<TenderSpecTitle>SSW</TenderSpecTitle>
						</ProcurementAttrs>
					</contractAllocation>
				</contractAllocations>
			</contract>
		</contracts>
	</contract>
</content>`

type passthroughSchema struct{}

func (passthroughSchema) ValidateXmlWithSchema(contents string) (*xmlquery.Node, error) {
	return xmlquery.Parse(strings.NewReader(contents))
}

type failingSchema struct{ err error }

func (f failingSchema) ValidateXmlWithSchema(string) (*xmlquery.Node, error) {
	return nil, f.err
}

type fakeValidator struct {
	statusOK  bool
	fundingOK bool
}

func (f *fakeValidator) ValidateContractStatus(context.Context, string, string, string) (bool, error) {
	return f.statusOK, nil
}

func (f *fakeValidator) ValidateFundingType(context.Context, string) (bool, error) {
	return f.fundingOK, nil
}

type recordingAuditor struct {
	records []audit.Record
}

func (r *recordingAuditor) TrySendAudit(_ context.Context, record audit.Record) {
	r.records = append(r.records, record)
}

func newTestDeserializer(statusOK, fundingOK bool) (Deserializer, *recordingAuditor) {
	auditor := &recordingAuditor{}
	d := NewV1108(passthroughSchema{}, &fakeValidator{statusOK: statusOK, fundingOK: fundingOK}, auditor)
	return d, auditor
}

func TestDeserializeReturnsExpectedEvent(t *testing.T) {
	d, auditor := newTestDeserializer(true, true)

	results, err := d.Deserialize(context.Background(), esifContractXML)
	require.NoError(t, err)
	require.Len(t, results, 1)

	got := results[0]
	assert.Equal(t, contracts.ResultSuccessful, got.Result)
	assert.NotNil(t, got.Document)
	assert.Empty(t, auditor.records)

	evt := got.Event
	assert.Equal(t, "ESIF-9999", evt.ContractNumber)
	assert.Equal(t, 1, evt.ContractVersion)
	assert.Equal(t, "ESFA-10001", evt.ParentContractNumber)
	assert.Equal(t, 10000001, evt.UKPRN)
	assert.Equal(t, contracts.StatusPublishedToProvider, evt.Status)
	assert.Equal(t, contracts.ParentStatusDraft, evt.ParentStatus)
	assert.Equal(t, contracts.AmendmentVariation, evt.AmendmentType)
	assert.Equal(t, contracts.FundingEsf, evt.FundingType)
	assert.Equal(t, "1426", evt.ContractPeriodValue)
	assert.Equal(t, 9099922.0, evt.Value)
	assert.Equal(t, "Contract for Services", evt.Type)

	require.NotNil(t, evt.StartDate)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), *evt.StartDate)
	require.NotNil(t, evt.EndDate)
	assert.Equal(t, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), *evt.EndDate)
	require.NotNil(t, evt.SignedOn)
	assert.Equal(t, time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), *evt.SignedOn)

	require.Len(t, evt.ContractAllocations, 1)
	alloc := evt.ContractAllocations[0]
	assert.Equal(t, "ESF-9999", alloc.ContractAllocationNumber)
	assert.Equal(t, "ESF1420", alloc.FundingStreamPeriodCode)
	assert.Equal(t, "LEP Name", alloc.LEPArea)
	assert.Equal(t, "SSW", alloc.TenderSpecTitle)
}

func TestDeserializeUppercaseContentRoot(t *testing.T) {
	d, _ := newTestDeserializer(true, true)

	// Some publishers emit the entry wrapper as <Content>.
	xml := strings.Replace(esifContractXML, "<content ", "<Content ", 1)
	xml = strings.Replace(xml, "</content>", "</Content>", 1)

	results, err := d.Deserialize(context.Background(), xml)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, contracts.ResultSuccessful, results[0].Result)
	assert.Equal(t, "ESIF-9999", results[0].Event.ContractNumber)
}

func TestDeserializeStatusRejectionAudited(t *testing.T) {
	d, auditor := newTestDeserializer(false, true)

	results, err := d.Deserialize(context.Background(), esifContractXML)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, contracts.ResultStatusValidationFailed, results[0].Result)
	require.Len(t, auditor.records, 1)
	assert.Equal(t, audit.ActionContractFeedEventFilteredOut, auditor.records[0].Action)
	assert.Equal(t, 10000001, auditor.records[0].UKPRN)
	assert.Contains(t, auditor.records[0].Message, "ESIF-9999")
}

func TestDeserializeFundingRejection(t *testing.T) {
	d, auditor := newTestDeserializer(true, false)

	results, err := d.Deserialize(context.Background(), esifContractXML)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, contracts.ResultFundingTypeValidationFailed, results[0].Result)
	require.Len(t, auditor.records, 1)
	assert.Contains(t, auditor.records[0].Message, "funding type")
}

func TestStatusRejectionTakesPriorityOverFunding(t *testing.T) {
	// Both checks would fail: status must win.
	d, _ := newTestDeserializer(false, false)

	results, err := d.Deserialize(context.Background(), esifContractXML)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, contracts.ResultStatusValidationFailed, results[0].Result)
}

func TestDeserializeUnknownFundingCodeMapsToUnknown(t *testing.T) {
	d, _ := newTestDeserializer(true, true)
	xml := strings.Replace(esifContractXML, ">esf<", ">brand-new-stream<", 1)

	results, err := d.Deserialize(context.Background(), xml)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, contracts.FundingUnknown, results[0].Event.FundingType)
}

func TestDeserializeUnknownStatusFailsHard(t *testing.T) {
	d, _ := newTestDeserializer(true, true)
	xml := strings.Replace(esifContractXML, ">published to provider<", ">nonsense<", 1)

	_, err := d.Deserialize(context.Background(), xml)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nonsense")
}

func TestDeserializeMissingUKPRNFailsWithFieldName(t *testing.T) {
	d, _ := newTestDeserializer(true, true)
	xml := strings.Replace(esifContractXML, "<contractor><ukprn>10000001</ukprn></contractor>", "", 1)

	_, err := d.Deserialize(context.Background(), xml)
	require.Error(t, err)

	var fieldErr *xmlutil.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Contains(t, fieldErr.Path, "ukprn")
}

func TestFundingStreamPeriodCodeRequiredInV1103(t *testing.T) {
	xml := strings.Replace(esifContractXML,
		"<fundingStreamPeriodCode>ESF1420</fundingStreamPeriodCode>", "", 1)

	v1103 := NewV1103(passthroughSchema{}, &fakeValidator{statusOK: true, fundingOK: true}, &recordingAuditor{})
	_, err := v1103.Deserialize(context.Background(), xml)
	require.Error(t, err, "v11.03 requires the allocation funding stream period code")

	v1108, _ := newTestDeserializer(true, true)
	results, err := v1108.Deserialize(context.Background(), xml)
	require.NoError(t, err, "v11.08 relaxed the funding stream period code to optional")
	require.Len(t, results, 1)
	assert.Empty(t, results[0].Event.ContractAllocations[0].FundingStreamPeriodCode)
}

func TestDeserializeMultipleContractsPreservesOrder(t *testing.T) {
	d, _ := newTestDeserializer(true, true)
	xml := strings.Replace(esifContractXML, "</contracts>",
		`<contract>
			<contractNumber>ESIF-0001</contractNumber>
			<contractVersionNumber>2</contractVersionNumber>
			<parentContractNumber>ESFA-10002</parentContractNumber>
			<contractor><ukprn>10000002</ukprn></contractor>
			<contractStatus><status>approved</status><parentStatus>approved</parentStatus></contractStatus>
			<fundingType><fundingTypeCode>levy</fundingTypeCode></fundingType>
			<period><period>2021</period></period>
		</contract></contracts>`, 1)

	results, err := d.Deserialize(context.Background(), xml)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "ESIF-9999", results[0].Event.ContractNumber)
	assert.Equal(t, "ESIF-0001", results[1].Event.ContractNumber)
	assert.Equal(t, contracts.AmendmentNone, results[1].Event.AmendmentType)
}

func TestDeserializeSchemaErrorAbortsEntry(t *testing.T) {
	schemaErr := errors.New("schema validation failed: the 'bogus' attribute is not declared")
	d := NewV1108(failingSchema{err: schemaErr}, &fakeValidator{}, &recordingAuditor{})

	_, err := d.Deserialize(context.Background(), esifContractXML)
	require.ErrorIs(t, err, schemaErr)
}

func TestRegistryDispatch(t *testing.T) {
	registry := NewRegistry(passthroughSchema{}, &fakeValidator{statusOK: true, fundingOK: true}, &recordingAuditor{})

	for _, version := range []string{Version1103, Version1108} {
		d, err := registry.For(version)
		require.NoError(t, err, version)
		require.NotNil(t, d)
	}

	_, err := registry.For("v99.99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "v99.99")

	assert.ElementsMatch(t, []string{Version1103, Version1108}, registry.Versions())
}
