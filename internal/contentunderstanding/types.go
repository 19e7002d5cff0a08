package contentunderstanding

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// operationEnvelope is the shape of analyzerResults status responses.
type operationEnvelope struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Result Result `json:"result"`
}

// Result is the payload of a completed analysis.
type Result struct {
	AnalyzerID string    `json:"analyzerId"`
	Contents   []Content `json:"contents"`
}

// Content is one analyzed item. A single image produces one content entry;
// multi-page documents may produce several.
type Content struct {
	Kind     string                `json:"kind,omitempty"`
	Markdown string                `json:"markdown,omitempty"`
	Fields   map[string]FieldValue `json:"fields,omitempty"`
}

// FieldValue is a typed extracted field. The service sets Type and exactly
// one of the type-specific value properties.
type FieldValue struct {
	Type         string                `json:"type"`
	ValueString  string                `json:"valueString,omitempty"`
	ValueNumber  *float64              `json:"valueNumber,omitempty"`
	ValueInteger *int64                `json:"valueInteger,omitempty"`
	ValueBoolean *bool                 `json:"valueBoolean,omitempty"`
	ValueDate    string                `json:"valueDate,omitempty"`
	ValueTime    string                `json:"valueTime,omitempty"`
	ValueArray   []FieldValue          `json:"valueArray,omitempty"`
	ValueObject  map[string]FieldValue `json:"valueObject,omitempty"`
}

// Format renders the field value for display according to its type.
// Array members are joined with ", "; object values render their members
// sorted by name. Unknown types fall back to the raw JSON encoding.
func (f FieldValue) Format() string {
	switch f.Type {
	case "string":
		return f.ValueString
	case "number":
		if f.ValueNumber == nil {
			return ""
		}
		return strconv.FormatFloat(*f.ValueNumber, 'f', -1, 64)
	case "integer":
		if f.ValueInteger == nil {
			return ""
		}
		return strconv.FormatInt(*f.ValueInteger, 10)
	case "boolean":
		if f.ValueBoolean == nil {
			return ""
		}
		return strconv.FormatBool(*f.ValueBoolean)
	case "date":
		return f.ValueDate
	case "time":
		return f.ValueTime
	case "array":
		parts := make([]string, 0, len(f.ValueArray))
		for _, member := range f.ValueArray {
			parts = append(parts, member.Format())
		}
		return strings.Join(parts, ", ")
	case "object":
		names := make([]string, 0, len(f.ValueObject))
		for name := range f.ValueObject {
			names = append(names, name)
		}
		sort.Strings(names)
		parts := make([]string, 0, len(names))
		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s: %s", name, f.ValueObject[name].Format()))
		}
		return strings.Join(parts, "; ")
	default:
		raw, err := json.Marshal(f)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}

// FieldNames returns the content's field names sorted alphabetically, for
// stable display order.
func (c Content) FieldNames() []string {
	names := make([]string, 0, len(c.Fields))
	for name := range c.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
