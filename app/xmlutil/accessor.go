// Package xmlutil provides safe typed extraction of scalar values from
// parsed XML documents, addressed by XPath.
package xmlutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/antchfx/xmlquery"
)

// FieldError reports a required node that is absent from the document. The
// XPath identifies the missing field to the operator.
type FieldError struct {
	Path string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("required node at '[%s]' is missing", e.Path)
}

// Scalar lists the value types the accessor can convert inner text to.
type Scalar interface {
	string | int | int64 | float64 | time.Time
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// GetValue extracts the inner text of the node at path below n, converted to
// T. A path that yields nothing is retried lowercased and then with
// case-folded segment matching before being treated as absent. An
// absent node is an error unless optional is set; an absent-but-optional or
// found-but-empty node yields def.
func GetValue[T Scalar](n *xmlquery.Node, path string, optional bool, def T) (T, error) {
	node, err := selectSingle(n, path)
	if err != nil {
		return def, err
	}

	if node == nil {
		if !optional {
			return def, &FieldError{Path: path}
		}
		return def, nil
	}

	raw := strings.TrimSpace(node.InnerText())
	if raw == "" {
		return def, nil
	}

	return convert[T](raw, path)
}

// SelectNodesIgnoreCase returns the node set at path below n. A path that
// yields nothing is retried lowercased, then matched segment by segment with
// case folding; feed publishers disagree on element name casing.
func SelectNodesIgnoreCase(n *xmlquery.Node, path string) ([]*xmlquery.Node, error) {
	nodes, err := xmlquery.QueryAll(n, path)
	if err != nil {
		return nil, fmt.Errorf("invalid xpath '%s': %w", path, err)
	}
	if len(nodes) > 0 {
		return nodes, nil
	}

	nodes, err = xmlquery.QueryAll(n, strings.ToLower(path))
	if err != nil {
		return nil, fmt.Errorf("invalid xpath '%s': %w", strings.ToLower(path), err)
	}
	if len(nodes) > 0 {
		return nodes, nil
	}
	return selectFold(n, path), nil
}

// selectFold walks plain a/b/c child paths matching element names
// case-insensitively. Paths with predicates, wildcards or axes yield nil;
// the XPath queries above already had their chance at those.
func selectFold(n *xmlquery.Node, path string) []*xmlquery.Node {
	current := []*xmlquery.Node{n}
	for _, segment := range strings.Split(path, "/") {
		if segment == "" || strings.ContainsAny(segment, "[]@*.:") {
			return nil
		}
		var next []*xmlquery.Node
		for _, parent := range current {
			for child := parent.FirstChild; child != nil; child = child.NextSibling {
				if child.Type == xmlquery.ElementNode && strings.EqualFold(child.Data, segment) {
					next = append(next, child)
				}
			}
		}
		if len(next) == 0 {
			return nil
		}
		current = next
	}
	return current
}

func selectSingle(n *xmlquery.Node, path string) (*xmlquery.Node, error) {
	node, err := xmlquery.Query(n, path)
	if err != nil {
		return nil, fmt.Errorf("invalid xpath '%s': %w", path, err)
	}
	if node != nil {
		return node, nil
	}

	node, err = xmlquery.Query(n, strings.ToLower(path))
	if err != nil {
		return nil, fmt.Errorf("invalid xpath '%s': %w", strings.ToLower(path), err)
	}
	if node != nil {
		return node, nil
	}

	if nodes := selectFold(n, path); len(nodes) > 0 {
		return nodes[0], nil
	}
	return nil, nil
}

func convert[T Scalar](raw, path string) (T, error) {
	var out T
	switch p := any(&out).(type) {
	case *string:
		*p = raw
	case *int:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return out, conversionError(raw, path, "int")
		}
		*p = v
	case *int64:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return out, conversionError(raw, path, "int64")
		}
		*p = v
	case *float64:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return out, conversionError(raw, path, "float64")
		}
		*p = v
	case *time.Time:
		t, err := parseDate(raw)
		if err != nil {
			return out, conversionError(raw, path, "time.Time")
		}
		*p = t
	}
	return out, nil
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date format %q", raw)
}

func conversionError(raw, path, typ string) error {
	return fmt.Errorf("value %q at '[%s]' cannot be converted to %s", raw, path, typ)
}
