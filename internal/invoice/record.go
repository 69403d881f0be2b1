// Package invoice defines the structured invoice record and the response
// assembler that builds it from raw extractor output. The record is a tree
// of small immutable value structs; every optional field is a pointer or
// omitted slice so "absent" is always distinguishable from "invalid".
package invoice

// Processing confidence levels.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Document layout classifications.
const (
	LayoutStandard = "standard"
	LayoutComplex  = "complex"
	LayoutDamaged  = "damaged"
)

// Extraction issue types.
const (
	IssueInvalidField  = "invalid_field"
	IssueMissingData   = "missing_data"
	IssueDateOrder     = "date_order"
	IssueLowConfidence = "low_confidence"
	IssueLayoutComplex = "layout_complex"
)

// Suggested actions for extraction issues.
const (
	ActionManualReview = "manual_review"
	ActionReprocess    = "reprocess"
	ActionAcceptable   = "acceptable"
)

// TextValue is a recognized string with its OCR confidence. A confidence is
// only ever populated alongside non-empty text.
type TextValue struct {
	Text       string   `json:"text,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// LabeledValue is a TextValue plus the caption that identified it
// (e.g. "Invoice #").
type LabeledValue struct {
	TextValue
	ContextLabel string `json:"context_label,omitempty"`
}

// DatedValue is a TextValue whose Text is a normalized ISO date
// (YYYY-MM-DD); OriginalFormat preserves the source string.
type DatedValue struct {
	TextValue
	OriginalFormat string `json:"original_format,omitempty"`
}

// NumericText pairs a raw recognized string with its parsed numeric value.
type NumericText struct {
	Text         string   `json:"text,omitempty"`
	NumericValue *float64 `json:"numeric_value,omitempty"`
}

// QuantityValue is a NumericText with an integer value.
type QuantityValue struct {
	Text         string `json:"text,omitempty"`
	NumericValue *int   `json:"numeric_value,omitempty"`
}

// AmountValue is the monetary total with its label and confidence.
type AmountValue struct {
	Text         string   `json:"text,omitempty"`
	NumericValue *float64 `json:"numeric_value,omitempty"`
	Confidence   *float64 `json:"confidence,omitempty"`
	ContextLabel string   `json:"context_label,omitempty"`
}

// LineItem is one row of the invoice's item table.
type LineItem struct {
	Description *TextValue     `json:"description,omitempty"`
	Quantity    *QuantityValue `json:"quantity,omitempty"`
	Amount      *NumericText   `json:"amount,omitempty"`
}

// EarlyPayDiscount describes an early-payment discount clause.
type EarlyPayDiscount struct {
	Found      bool     `json:"found"`
	Text       string   `json:"text,omitempty"`
	Percentage *float64 `json:"percentage,omitempty"`
	Days       *int     `json:"days,omitempty"`
}

// PaymentTerms is the extracted payment terms block.
type PaymentTerms struct {
	TermsText        string            `json:"terms_text,omitempty"`
	Standardized     string            `json:"standardized,omitempty"`
	Confidence       *float64          `json:"confidence,omitempty"`
	EarlyPayDiscount *EarlyPayDiscount `json:"early_pay_discount,omitempty"`
}

// FinancialData groups the monetary fields of the invoice.
type FinancialData struct {
	TotalAmount  *AmountValue  `json:"total_amount,omitempty"`
	LineItems    []LineItem    `json:"line_items,omitempty"`
	Subtotal     *NumericText  `json:"subtotal,omitempty"`
	PaymentTerms *PaymentTerms `json:"payment_terms,omitempty"`
}

// ExtractionIssue is a non-fatal annotation describing uncertainty or a
// validation failure in one field. Issues never reject the record.
type ExtractionIssue struct {
	IssueType       string   `json:"issue_type"`
	Description     string   `json:"description"`
	AffectedFields  []string `json:"affected_fields,omitempty"`
	SuggestedAction string   `json:"suggested_action,omitempty"`
}

// Contact holds the vendor's contact detail.
type Contact struct {
	Phone *TextValue `json:"phone,omitempty"`
	Email *TextValue `json:"email,omitempty"`
}

// VendorInformation identifies the invoicing party.
type VendorInformation struct {
	CompanyName *TextValue  `json:"company_name,omitempty"`
	Address     []TextValue `json:"address,omitempty"`
	Contact     *Contact    `json:"contact,omitempty"`
}

// InvoiceDetails holds the invoice identifiers and financial data.
type InvoiceDetails struct {
	InvoiceNumber    *LabeledValue     `json:"invoice_number,omitempty"`
	InvoiceDate      *DatedValue       `json:"invoice_date,omitempty"`
	DueDate          *LabeledValue     `json:"due_date,omitempty"`
	FinancialData    FinancialData     `json:"financial_data"`
	ExtractionIssues []ExtractionIssue `json:"extraction_issues"`
}

// ExtractionMetadata summarizes the extraction pass. The element counts are
// always recomputed from the original token sequence, never taken from the
// extractor's claims. Invariant: HighConfidenceElements <= TotalTextElements.
type ExtractionMetadata struct {
	ProcessingConfidence   string `json:"processing_confidence"`
	DocumentLayout         string `json:"document_layout"`
	TotalTextElements      int    `json:"total_text_elements"`
	HighConfidenceElements int    `json:"high_confidence_elements"`
}

// InvoiceRecord is the assembled, schema-conformant output of one extraction
// request. Constructed fresh per request and immutable after assembly.
type InvoiceRecord struct {
	ExtractionMetadata ExtractionMetadata `json:"extraction_metadata"`
	VendorInformation  VendorInformation  `json:"vendor_information"`
	InvoiceDetails     InvoiceDetails     `json:"invoice_details"`
}
