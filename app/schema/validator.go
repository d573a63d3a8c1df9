// Package schema validates raw contract event XML against an embedded,
// versioned schema manifest before deserialization.
package schema

import (
	"embed"
	"fmt"
	"log/slog"
	"strings"

	"github.com/antchfx/xmlquery"
	"gopkg.in/yaml.v3"

	"github.com/skillsfunding/contracts-feed-processor/app/xmlutil"
)

//go:embed manifests/*.yml
var manifestFS embed.FS

// Manifest describes the structural requirements of one schema version.
type Manifest struct {
	Version    string          `yaml:"version"`
	Root       string          `yaml:"root"`
	Rules      []Rule          `yaml:"rules"`
	Attributes []AttributeRule `yaml:"attributes"`
}

// Rule requires at least one node at Path, matched case-insensitively.
type Rule struct {
	Path string `yaml:"path"`
}

// AttributeRule restricts the attributes allowed on the element at Path.
type AttributeRule struct {
	Path    string   `yaml:"path"`
	Allowed []string `yaml:"allowed"`
}

// ValidationError reports a document that does not conform to the loaded
// schema manifest.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validator parses contract event XML and, when a schema manifest for the
// configured version could be loaded, validates the document against it.
//
// The manifest is deliberately best-effort: a version mismatch or an
// unreadable manifest leaves the validator in soft mode, where well-formed
// documents pass with a warning. Ingestion keeps going when the feed starts
// emitting a schema variant this build does not know about.
type Validator struct {
	manifest *Manifest
	strict   bool
}

// New loads the manifest named by manifestFile for schemaVersion. strict
// controls whether manifest violations fail validation or only log.
func New(schemaVersion, manifestFile string, strict bool) *Validator {
	v := &Validator{strict: strict}

	data, err := manifestFS.ReadFile("manifests/" + manifestFile)
	if err != nil {
		slog.Error("Failed to read embedded schema manifest, continuing without schema validation",
			"manifest", manifestFile, "error", err)
		return v
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		slog.Error("Failed to parse schema manifest, continuing without schema validation",
			"manifest", manifestFile, "error", err)
		return v
	}

	if m.Version != schemaVersion {
		slog.Warn("Configured schema version does not match manifest, schema not loaded",
			"configured", schemaVersion, "manifest", m.Version)
		return v
	}

	slog.Info("Schema manifest loaded", "version", m.Version, "rules", len(m.Rules))
	v.manifest = &m
	return v
}

// ValidateXmlWithSchema parses contents into a document tree and validates
// it against the loaded manifest. Malformed XML always fails. Manifest
// violations fail only in strict mode; otherwise they are logged and the
// parsed document is returned anyway.
func (v *Validator) ValidateXmlWithSchema(contents string) (*xmlquery.Node, error) {
	doc, err := xmlquery.Parse(strings.NewReader(contents))
	if err != nil {
		return nil, fmt.Errorf("failed to parse xml: %w", err)
	}

	if v.manifest == nil {
		slog.Warn("Schema validation skipped, no schema manifest loaded")
		return doc, nil
	}

	if err := v.validate(doc); err != nil {
		if v.strict {
			return nil, err
		}
		slog.Warn("Schema validation is turned OFF, document accepted despite violation",
			"violation", err.Error())
	}

	return doc, nil
}

func (v *Validator) validate(doc *xmlquery.Node) error {
	for _, rule := range v.manifest.Rules {
		nodes, err := xmlutil.SelectNodesIgnoreCase(doc, rule.Path)
		if err != nil {
			return &ValidationError{Message: err.Error()}
		}
		if len(nodes) == 0 {
			return &ValidationError{Message: fmt.Sprintf("required element '%s' is missing", rule.Path)}
		}
	}

	for _, rule := range v.manifest.Attributes {
		nodes, err := xmlutil.SelectNodesIgnoreCase(doc, rule.Path)
		if err != nil {
			return &ValidationError{Message: err.Error()}
		}
		allowed := make(map[string]bool, len(rule.Allowed))
		for _, a := range rule.Allowed {
			allowed[strings.ToLower(a)] = true
		}
		for _, node := range nodes {
			for _, attr := range node.Attr {
				if attr.Name.Space == "xmlns" || attr.Name.Local == "xmlns" {
					continue
				}
				if !allowed[strings.ToLower(attr.Name.Local)] {
					return &ValidationError{
						Message: fmt.Sprintf("the '%s' attribute is not declared on element '%s'", attr.Name.Local, rule.Path),
					}
				}
			}
		}
	}

	return nil
}
