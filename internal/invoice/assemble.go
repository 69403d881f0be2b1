package invoice

import (
	"fmt"
	"log/slog"

	"github.com/vendorsync/invoice-ocr/internal/ocr"
)

// AssemblerConfig holds the confidence thresholds used when re-deriving the
// record's processing confidence.
type AssemblerConfig struct {
	HighThreshold float64 // default 0.85
	LowThreshold  float64 // default 0.65
}

func (c AssemblerConfig) withDefaults() AssemblerConfig {
	if c.HighThreshold <= 0 {
		c.HighThreshold = 0.85
	}
	if c.LowThreshold <= 0 {
		c.LowThreshold = 0.65
	}
	return c
}

// Assembler validates raw extractor output against the record schema and
// produces an InvoiceRecord. Assembly never fails: leaves that fail type
// validation are dropped and reported as issues, and a maximally degenerate
// raw value (empty object) resolves to an all-absent record.
type Assembler struct {
	cfg    AssemblerConfig
	logger *slog.Logger
}

// NewAssembler creates an Assembler.
func NewAssembler(cfg AssemblerConfig, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{cfg: cfg.withDefaults(), logger: logger}
}

// builder accumulates validation issues during one assembly pass.
type builder struct {
	issues []ExtractionIssue
}

func (b *builder) invalid(path string) {
	b.issues = append(b.issues, ExtractionIssue{
		IssueType:       IssueInvalidField,
		Description:     fmt.Sprintf("field %s failed type validation and was dropped", path),
		AffectedFields:  []string{path},
		SuggestedAction: ActionManualReview,
	})
}

func (b *builder) missing(path, description string) {
	b.issues = append(b.issues, ExtractionIssue{
		IssueType:       IssueMissingData,
		Description:     description,
		AffectedFields:  []string{path},
		SuggestedAction: ActionManualReview,
	})
}

// Assemble builds an InvoiceRecord from the extractor's raw output and the
// original token sequence. Element counts in the metadata come from the
// tokens, never from the extractor's self-report.
func (a *Assembler) Assemble(raw map[string]any, tokens []ocr.TextToken) *InvoiceRecord {
	rec := &InvoiceRecord{}
	rec.InvoiceDetails.ExtractionIssues = []ExtractionIssue{}

	if len(tokens) == 0 {
		rec.ExtractionMetadata = ExtractionMetadata{
			ProcessingConfidence: ConfidenceLow,
			DocumentLayout:       LayoutStandard,
		}
		rec.InvoiceDetails.ExtractionIssues = append(rec.InvoiceDetails.ExtractionIssues, ExtractionIssue{
			IssueType:       IssueMissingData,
			Description:     "no text elements detected in document",
			SuggestedAction: ActionReprocess,
		})
		return rec
	}

	b := &builder{}
	rec.VendorInformation = a.assembleVendor(b, raw)
	a.assembleDetails(b, raw, rec)
	a.checkDateOrder(b, rec)

	rec.InvoiceDetails.ExtractionIssues = append(rec.InvoiceDetails.ExtractionIssues, b.issues...)
	rec.ExtractionMetadata = a.recomputeMetadata(raw, tokens, rec)

	if len(b.issues) > 0 {
		a.logger.Debug("assemble.issues", "count", len(b.issues))
	}
	return rec
}

func (a *Assembler) assembleVendor(b *builder, raw map[string]any) VendorInformation {
	var out VendorInformation
	vi := b.objectAt(raw, "vendor_information", "vendor_information")
	if vi == nil {
		return out
	}

	out.CompanyName = b.textValueAt(vi, "company_name", "vendor_information.company_name")

	switch addr := vi["address"].(type) {
	case nil:
	case []any:
		for i, item := range addr {
			path := fmt.Sprintf("vendor_information.address[%d]", i)
			obj, ok := item.(map[string]any)
			if !ok {
				b.invalid(path)
				continue
			}
			if tv := b.textValueFrom(obj, path); tv != nil {
				out.Address = append(out.Address, *tv)
			}
		}
	case map[string]any:
		// Tolerate the single-object variant by wrapping it.
		if tv := b.textValueFrom(addr, "vendor_information.address"); tv != nil {
			out.Address = []TextValue{*tv}
		}
	default:
		b.invalid("vendor_information.address")
	}

	if contact := b.objectAt(vi, "contact", "vendor_information.contact"); contact != nil {
		phone := b.textValueAt(contact, "phone", "vendor_information.contact.phone")
		email := b.textValueAt(contact, "email", "vendor_information.contact.email")
		if phone != nil || email != nil {
			out.Contact = &Contact{Phone: phone, Email: email}
		}
	}
	return out
}

func (a *Assembler) assembleDetails(b *builder, raw map[string]any, rec *InvoiceRecord) {
	det := b.objectAt(raw, "invoice_details", "invoice_details")
	if det == nil {
		return
	}

	rec.InvoiceDetails.InvoiceNumber = b.labeledValueAt(det, "invoice_number", "invoice_details.invoice_number")
	rec.InvoiceDetails.InvoiceDate = a.assembleDate(b, det, "invoice_date")
	rec.InvoiceDetails.DueDate = a.assembleDueDate(b, det)

	if fin := b.objectAt(det, "financial_data", "invoice_details.financial_data"); fin != nil {
		rec.InvoiceDetails.FinancialData = a.assembleFinancial(b, fin)
	}

	// Preserve well-formed advisory issues the extractor reported itself.
	if rawIssues, ok := det["extraction_issues"].([]any); ok {
		for i, item := range rawIssues {
			path := fmt.Sprintf("invoice_details.extraction_issues[%d]", i)
			obj, ok := item.(map[string]any)
			if !ok {
				b.invalid(path)
				continue
			}
			issueType, _ := obj["issue_type"].(string)
			desc, _ := obj["description"].(string)
			if issueType == "" {
				b.invalid(path)
				continue
			}
			issue := ExtractionIssue{IssueType: issueType, Description: desc}
			if action, ok := obj["suggested_action"].(string); ok {
				issue.SuggestedAction = action
			}
			if fields, ok := obj["affected_fields"].([]any); ok {
				for _, f := range fields {
					if s, ok := f.(string); ok {
						issue.AffectedFields = append(issue.AffectedFields, s)
					}
				}
			}
			rec.InvoiceDetails.ExtractionIssues = append(rec.InvoiceDetails.ExtractionIssues, issue)
		}
	}
}

// assembleDate builds a DatedValue with its Text normalized to ISO form.
func (a *Assembler) assembleDate(b *builder, det map[string]any, key string) *DatedValue {
	path := "invoice_details." + key
	o := b.objectAt(det, key, path)
	if o == nil {
		return nil
	}
	tv := b.textValueFrom(o, path)
	if tv == nil {
		return nil
	}

	original, _ := o["original_format"].(string)
	if original == "" {
		original = tv.Text
	}

	iso, ok := NormalizeDate(tv.Text)
	if !ok {
		b.missing(path, fmt.Sprintf("date %q did not match any recognized format", tv.Text))
		return nil
	}
	return &DatedValue{
		TextValue:      TextValue{Text: iso, Confidence: tv.Confidence},
		OriginalFormat: original,
	}
}

// assembleDueDate builds the due date, a LabeledValue whose text is a date.
func (a *Assembler) assembleDueDate(b *builder, det map[string]any) *LabeledValue {
	const path = "invoice_details.due_date"
	o := b.objectAt(det, "due_date", path)
	if o == nil {
		return nil
	}
	tv := b.textValueFrom(o, path)
	if tv == nil {
		return nil
	}

	iso, ok := NormalizeDate(tv.Text)
	if !ok {
		b.missing(path, fmt.Sprintf("date %q did not match any recognized format", tv.Text))
		return nil
	}

	out := &LabeledValue{TextValue: TextValue{Text: iso, Confidence: tv.Confidence}}
	if label, ok := o["context_label"].(string); ok {
		out.ContextLabel = label
	}
	return out
}

func (a *Assembler) assembleFinancial(b *builder, fin map[string]any) FinancialData {
	var out FinancialData

	if o := b.objectAt(fin, "total_amount", "invoice_details.financial_data.total_amount"); o != nil {
		path := "invoice_details.financial_data.total_amount"
		text, _ := o["text"].(string)
		if text != "" {
			amt := &AmountValue{Text: text}
			if v, ok := b.floatAt(o, "numeric_value", path+".numeric_value"); ok {
				amt.NumericValue = &v
			} else if v, ok := ParseAmount(text); ok {
				amt.NumericValue = &v
			}
			amt.Confidence = b.confidenceAt(o, path)
			if label, ok := o["context_label"].(string); ok {
				amt.ContextLabel = label
			}
			out.TotalAmount = amt
		} else {
			b.invalid(path)
		}
	}

	if items, ok := fin["line_items"].([]any); ok {
		for i, item := range items {
			path := fmt.Sprintf("invoice_details.financial_data.line_items[%d]", i)
			obj, ok := item.(map[string]any)
			if !ok {
				b.invalid(path)
				continue
			}
			li := a.assembleLineItem(b, obj, path)
			if li.Description != nil || li.Quantity != nil || li.Amount != nil {
				out.LineItems = append(out.LineItems, li)
			}
		}
	} else if _, present := fin["line_items"]; present {
		b.invalid("invoice_details.financial_data.line_items")
	}

	if o := b.objectAt(fin, "subtotal", "invoice_details.financial_data.subtotal"); o != nil {
		if nt := b.numericTextFrom(o, "invoice_details.financial_data.subtotal"); nt != nil {
			out.Subtotal = nt
		}
	}

	out.PaymentTerms = a.assemblePaymentTerms(b, fin)
	return out
}

func (a *Assembler) assembleLineItem(b *builder, obj map[string]any, path string) LineItem {
	var li LineItem
	li.Description = b.textValueAt(obj, "description", path+".description")

	if o := b.objectAt(obj, "quantity", path+".quantity"); o != nil {
		text, _ := o["text"].(string)
		if text != "" {
			q := &QuantityValue{Text: text}
			if v, ok := b.floatAt(o, "numeric_value", path+".quantity.numeric_value"); ok && v == float64(int(v)) {
				n := int(v)
				q.NumericValue = &n
			} else if n, ok := ParseQuantity(text); ok {
				q.NumericValue = &n
			}
			li.Quantity = q
		}
	}

	if o := b.objectAt(obj, "amount", path+".amount"); o != nil {
		li.Amount = b.numericTextFrom(o, path+".amount")
	}
	return li
}

func (a *Assembler) assemblePaymentTerms(b *builder, fin map[string]any) *PaymentTerms {
	const path = "invoice_details.financial_data.payment_terms"
	o := b.objectAt(fin, "payment_terms", path)
	if o == nil {
		return nil
	}

	terms := &PaymentTerms{}
	if s, ok := o["terms_text"].(string); ok {
		terms.TermsText = s
	}
	if s, ok := o["standardized"].(string); ok {
		terms.Standardized = s
	}
	if terms.TermsText != "" {
		terms.Confidence = b.confidenceAt(o, path)
	}

	if d := b.objectAt(o, "early_pay_discount", path+".early_pay_discount"); d != nil {
		disc := &EarlyPayDiscount{}
		if found, ok := d["found"].(bool); ok {
			disc.Found = found
		}
		if s, ok := d["text"].(string); ok {
			disc.Text = s
		}
		if v, ok := b.floatAt(d, "percentage", path+".early_pay_discount.percentage"); ok {
			disc.Percentage = &v
		}
		if v, ok := b.floatAt(d, "days", path+".early_pay_discount.days"); ok && v == float64(int(v)) {
			n := int(v)
			disc.Days = &n
		}
		terms.EarlyPayDiscount = disc
	}

	if terms.TermsText == "" && terms.Standardized == "" && terms.EarlyPayDiscount == nil {
		return nil
	}
	return terms
}

// checkDateOrder flags a due date earlier than the invoice date. Advisory
// only: both fields stay populated.
func (a *Assembler) checkDateOrder(b *builder, rec *InvoiceRecord) {
	inv := rec.InvoiceDetails.InvoiceDate
	due := rec.InvoiceDetails.DueDate
	if inv == nil || due == nil || inv.Text == "" || due.Text == "" {
		return
	}
	if dateBefore(due.Text, inv.Text) {
		b.issues = append(b.issues, ExtractionIssue{
			IssueType:       IssueDateOrder,
			Description:     fmt.Sprintf("due date %s is earlier than invoice date %s", due.Text, inv.Text),
			AffectedFields:  []string{"invoice_details.invoice_date", "invoice_details.due_date"},
			SuggestedAction: ActionManualReview,
		})
	}
}

// recomputeMetadata derives the extraction metadata from the original token
// sequence and the assembled record. The extractor's own counts are ignored.
func (a *Assembler) recomputeMetadata(raw map[string]any, tokens []ocr.TextToken, rec *InvoiceRecord) ExtractionMetadata {
	high := 0
	for _, t := range tokens {
		if float64(t.Confidence) > a.cfg.HighThreshold {
			high++
		}
	}

	layout := LayoutStandard
	if meta, ok := raw["extraction_metadata"].(map[string]any); ok {
		if s, ok := meta["document_layout"].(string); ok {
			switch s {
			case LayoutStandard, LayoutComplex, LayoutDamaged:
				layout = s
			}
		}
	}

	return ExtractionMetadata{
		ProcessingConfidence:   a.classifyConfidence(rec),
		DocumentLayout:         layout,
		TotalTextElements:      len(tokens),
		HighConfidenceElements: high,
	}
}

// classifyConfidence applies the confidence policy to the assembled record:
// high when every critical field (total amount, vendor name, due date) is
// present with confidence above the high threshold; low when any is absent
// or any known confidence sits below the low threshold; medium otherwise.
func (a *Assembler) classifyConfidence(rec *InvoiceRecord) string {
	var confs []*float64
	allPresent := true

	if tv := rec.VendorInformation.CompanyName; tv != nil && tv.Text != "" {
		confs = append(confs, tv.Confidence)
	} else {
		allPresent = false
	}
	if amt := rec.InvoiceDetails.FinancialData.TotalAmount; amt != nil && amt.Text != "" {
		confs = append(confs, amt.Confidence)
	} else {
		allPresent = false
	}
	if due := rec.InvoiceDetails.DueDate; due != nil && due.Text != "" {
		confs = append(confs, due.Confidence)
	} else {
		allPresent = false
	}

	if !allPresent {
		return ConfidenceLow
	}

	allHigh := true
	for _, c := range confs {
		if c == nil {
			allHigh = false
			continue
		}
		if *c < a.cfg.LowThreshold {
			return ConfidenceLow
		}
		if *c <= a.cfg.HighThreshold {
			allHigh = false
		}
	}
	if allHigh {
		return ConfidenceHigh
	}
	return ConfidenceMedium
}
