package validation

import "github.com/skillsfunding/contracts-feed-processor/app/configstore"

// defaultStatusRules is written back to the config store when no allow-list
// has been configured. The triples cover the contract lifecycle transitions
// the downstream service is prepared to receive.
func defaultStatusRules() []configstore.StatusRule {
	return []configstore.StatusRule{
		{ParentContractStatus: "draft", ContractStatus: "published to provider", AmendmentType: "none"},
		{ParentContractStatus: "draft", ContractStatus: "published to provider", AmendmentType: "variation"},
		{ParentContractStatus: "approved", ContractStatus: "approved", AmendmentType: "none"},
		{ParentContractStatus: "approved", ContractStatus: "approved", AmendmentType: "variation"},
		{ParentContractStatus: "approved", ContractStatus: "approved", AmendmentType: "notification"},
		{ParentContractStatus: "approved", ContractStatus: "modified", AmendmentType: "none"},
		{ParentContractStatus: "approved", ContractStatus: "modified", AmendmentType: "variation"},
		{ParentContractStatus: "approved", ContractStatus: "modified", AmendmentType: "notification"},
		{ParentContractStatus: "approved", ContractStatus: "under termination", AmendmentType: "none"},
		{ParentContractStatus: "approved", ContractStatus: "under termination", AmendmentType: "variation"},
		{ParentContractStatus: "approved", ContractStatus: "under termination", AmendmentType: "notification"},
		{ParentContractStatus: "withdrawn", ContractStatus: "withdrawn by agency", AmendmentType: "none"},
		{ParentContractStatus: "withdrawn", ContractStatus: "withdrawn by agency", AmendmentType: "variation"},
		{ParentContractStatus: "withdrawn", ContractStatus: "withdrawn by provider", AmendmentType: "none"},
		{ParentContractStatus: "withdrawn", ContractStatus: "withdrawn by provider", AmendmentType: "variation"},
	}
}

// defaultFundingTypes is the fallback allow-list of wire funding type codes,
// stored lower-cased.
func defaultFundingTypes() []string {
	return []string{
		"1619fund",
		"24+loans",
		"aeb",
		"age",
		"edsk",
		"eop",
		"esf",
		"levy",
		"loans",
		"main",
		"ncs",
		"nla",
		"nlg",
		"16-18fu",
		"dada",
		"ccf",
		"feca",
		"19trn2020",
		"aeb2021",
		"hte-pgf",
		"sadf",
		"fe-pdgp",
		"sdfii",
		"sb",
		"mult",
		"fe-aca",
		"hte-sif",
		"fe-rca",
		"fe-ctf",
		"aeb2023",
	}
}
