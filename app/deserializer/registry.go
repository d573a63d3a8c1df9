package deserializer

import (
	"fmt"

	"github.com/skillsfunding/contracts-feed-processor/app/audit"
)

// Supported wire schema versions.
const (
	Version1103 = "v11.03"
	Version1108 = "v11.08"
)

// NewV1103 returns the deserializer for the v11.03 contract schema, where
// every allocation must carry a funding stream period code.
func NewV1103(schema SchemaValidator, validator StatusValidator, auditor audit.Auditor) Deserializer {
	return &versioned{
		version:               Version1103,
		schema:                schema,
		validator:             validator,
		auditor:               auditor,
		allocationFSPOptional: false,
	}
}

// NewV1108 returns the deserializer for the v11.08 contract schema, which
// relaxed the allocation funding stream period code to optional.
func NewV1108(schema SchemaValidator, validator StatusValidator, auditor audit.Auditor) Deserializer {
	return &versioned{
		version:               Version1108,
		schema:                schema,
		validator:             validator,
		auditor:               auditor,
		allocationFSPOptional: true,
	}
}

// Registry dispatches to the deserializer for a schema version string.
type Registry struct {
	byVersion map[string]Deserializer
}

func NewRegistry(schema SchemaValidator, validator StatusValidator, auditor audit.Auditor) *Registry {
	return &Registry{byVersion: map[string]Deserializer{
		Version1103: NewV1103(schema, validator, auditor),
		Version1108: NewV1108(schema, validator, auditor),
	}}
}

// For returns the deserializer registered for version.
func (r *Registry) For(version string) (Deserializer, error) {
	d, ok := r.byVersion[version]
	if !ok {
		return nil, fmt.Errorf("no deserializer registered for schema version %q", version)
	}
	return d, nil
}

// Versions lists the registered schema versions.
func (r *Registry) Versions() []string {
	versions := make([]string, 0, len(r.byVersion))
	for v := range r.byVersion {
		versions = append(versions, v)
	}
	return versions
}
