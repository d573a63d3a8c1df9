package deserializer

import (
	"context"

	"github.com/antchfx/xmlquery"

	"github.com/skillsfunding/contracts-feed-processor/app/contracts"
)

// Deserializer converts one feed entry's XML content into contract process
// results, one per contract record the entry carries.
type Deserializer interface {
	Deserialize(ctx context.Context, xml string) ([]contracts.ProcessResult, error)
}

// SchemaValidator parses and validates contract event XML.
type SchemaValidator interface {
	ValidateXmlWithSchema(contents string) (*xmlquery.Node, error)
}

// StatusValidator classifies contract events against configured allow-lists.
type StatusValidator interface {
	ValidateContractStatus(ctx context.Context, parentStatus, status, amendmentType string) (bool, error)
	ValidateFundingType(ctx context.Context, fundingType string) (bool, error)
}
