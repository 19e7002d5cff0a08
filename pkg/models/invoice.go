package models

// Invoice is the structured summary extracted from an analyzed invoice.
// Dates stay in the ISO form reported by the service (YYYY-MM-DD); amounts
// keep the service's structured currency values.
type Invoice struct {
	// Identifiers
	InvoiceID string `json:"invoice_id,omitempty"` // Human-readable invoice number

	// Parties
	Vendor   string `json:"vendor,omitempty"`   // Supplier name
	Customer string `json:"customer,omitempty"` // Recipient name

	// Dates
	InvoiceDate string `json:"invoice_date,omitempty"` // Date invoice was issued
	DueDate     string `json:"due_date,omitempty"`     // Payment due date

	// Amounts
	SubTotal  *Money `json:"sub_total,omitempty"`  // Amount before tax
	TotalTax  *Money `json:"total_tax,omitempty"`  // Tax amount
	Total     *Money `json:"total,omitempty"`      // Invoice total
	AmountDue *Money `json:"amount_due,omitempty"` // Outstanding amount
}

// Money is a monetary amount with its currency designation.
type Money struct {
	Amount float64 `json:"amount"`
	Symbol string  `json:"symbol,omitempty"` // Currency symbol as printed ($, €)
	Code   string  `json:"code,omitempty"`   // ISO currency code (USD, EUR)
}
