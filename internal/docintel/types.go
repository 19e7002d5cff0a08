package docintel

import (
	"sort"
	"strconv"
)

// operationEnvelope is the shape of analyzeResults status responses.
type operationEnvelope struct {
	Status        string         `json:"status"`
	AnalyzeResult *AnalyzeResult `json:"analyzeResult"`
}

// AnalyzeResult is the payload of a completed document analysis.
type AnalyzeResult struct {
	APIVersion string     `json:"apiVersion"`
	ModelID    string     `json:"modelId"`
	Content    string     `json:"content"`
	Documents  []Document `json:"documents"`

	// Raw is the complete JSON body of the final operation response.
	Raw []byte `json:"-"`
}

// Document is one recognized document instance with its extracted fields.
type Document struct {
	DocType    string           `json:"docType"`
	Fields     map[string]Field `json:"fields"`
	Confidence float64          `json:"confidence"`
}

// Field is a typed extracted field with the model's confidence in it.
type Field struct {
	Type          string    `json:"type"`
	Content       string    `json:"content,omitempty"`
	Confidence    float64   `json:"confidence"`
	ValueString   string    `json:"valueString,omitempty"`
	ValueDate     string    `json:"valueDate,omitempty"`
	ValueNumber   *float64  `json:"valueNumber,omitempty"`
	ValueCurrency *Currency `json:"valueCurrency,omitempty"`
	ValueAddress  *Address  `json:"valueAddress,omitempty"`
}

// Currency is a structured monetary value.
type Currency struct {
	Amount float64 `json:"amount"`
	Symbol string  `json:"currencySymbol,omitempty"`
	Code   string  `json:"currencyCode,omitempty"`
}

// Address is a structured postal address. Only the fields the invoice
// model commonly fills are modeled; Content carries the full text.
type Address struct {
	HouseNumber   string `json:"houseNumber,omitempty"`
	Road          string `json:"road,omitempty"`
	City          string `json:"city,omitempty"`
	State         string `json:"state,omitempty"`
	PostalCode    string `json:"postalCode,omitempty"`
	CountryRegion string `json:"countryRegion,omitempty"`
}

// Format renders the field value for display according to its type.
// Fields whose type has no structured rendering fall back to the raw
// recognized text.
func (f Field) Format() string {
	switch f.Type {
	case "string":
		return f.ValueString
	case "date":
		return f.ValueDate
	case "number":
		if f.ValueNumber == nil {
			return f.Content
		}
		return strconv.FormatFloat(*f.ValueNumber, 'f', -1, 64)
	case "currency":
		if f.ValueCurrency == nil {
			return f.Content
		}
		return f.ValueCurrency.Symbol + strconv.FormatFloat(f.ValueCurrency.Amount, 'f', 2, 64)
	default:
		return f.Content
	}
}

// FieldNames returns the document's field names sorted alphabetically.
func (d Document) FieldNames() []string {
	names := make([]string, 0, len(d.Fields))
	for name := range d.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
