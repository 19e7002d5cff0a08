package contentunderstanding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldValueFormat(t *testing.T) {
	number := 12.5
	integer := int64(3)
	truthy := true

	testCases := map[string]struct {
		field FieldValue
		want  string
	}{
		"string": {
			field: FieldValue{Type: "string", ValueString: "Adventure Works"},
			want:  "Adventure Works",
		},
		"number": {
			field: FieldValue{Type: "number", ValueNumber: &number},
			want:  "12.5",
		},
		"number without value": {
			field: FieldValue{Type: "number"},
			want:  "",
		},
		"integer": {
			field: FieldValue{Type: "integer", ValueInteger: &integer},
			want:  "3",
		},
		"boolean": {
			field: FieldValue{Type: "boolean", ValueBoolean: &truthy},
			want:  "true",
		},
		"date": {
			field: FieldValue{Type: "date", ValueDate: "2026-04-01"},
			want:  "2026-04-01",
		},
		"time": {
			field: FieldValue{Type: "time", ValueTime: "14:30:00"},
			want:  "14:30:00",
		},
		"array": {
			field: FieldValue{Type: "array", ValueArray: []FieldValue{
				{Type: "string", ValueString: "sales"},
				{Type: "string", ValueString: "marketing"},
			}},
			want: "sales, marketing",
		},
		"empty array": {
			field: FieldValue{Type: "array"},
			want:  "",
		},
		"object sorts members": {
			field: FieldValue{Type: "object", ValueObject: map[string]FieldValue{
				"street": {Type: "string", ValueString: "Main St"},
				"city":   {Type: "string", ValueString: "Seattle"},
			}},
			want: "city: Seattle; street: Main St",
		},
		"unknown type falls back to JSON": {
			field: FieldValue{Type: "signature", ValueString: "signed"},
			want:  `{"type":"signature","valueString":"signed"}`,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.field.Format())
		})
	}
}

func TestContentFieldNames(t *testing.T) {
	content := Content{Fields: map[string]FieldValue{
		"Phone": {Type: "string"},
		"Email": {Type: "string"},
		"Name":  {Type: "string"},
	}}
	assert.Equal(t, []string{"Email", "Name", "Phone"}, content.FieldNames())
}
