package llm

// BuildInvoiceJSONSchema returns the invoice output schema as a JSON-Schema
// (draft 2020-12 subset) generic map. Every leaf is optional: extraction is
// best-effort and the assembler drops what fails validation, so nothing is
// required here. The schema exists to shape the extractor's output and to
// flag drift early.
func BuildInvoiceJSONSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"extraction_metadata": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"processing_confidence":    enumProp("high", "medium", "low"),
					"document_layout":          enumProp("standard", "complex", "damaged"),
					"total_text_elements":      map[string]any{"type": "integer", "minimum": 0},
					"high_confidence_elements": map[string]any{"type": "integer", "minimum": 0},
				},
			},
			"vendor_information": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"company_name": textValueProp(),
					"address":      map[string]any{"type": "array", "items": textValueProp()},
					"contact": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"phone": textValueProp(),
							"email": textValueProp(),
						},
					},
				},
			},
			"invoice_details": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"invoice_number": labeledValueProp(),
					"invoice_date":   datedValueProp(),
					"due_date":       labeledValueProp(),
					"financial_data": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"total_amount": amountProp(),
							"line_items": map[string]any{
								"type": "array",
								"items": map[string]any{
									"type": "object",
									"properties": map[string]any{
										"description": textValueProp(),
										"quantity":    numericTextProp("integer"),
										"amount":      numericTextProp("number"),
									},
								},
							},
							"subtotal":      numericTextProp("number"),
							"payment_terms": paymentTermsProp(),
						},
					},
					"extraction_issues": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"issue_type":       map[string]any{"type": "string"},
								"description":      map[string]any{"type": "string"},
								"affected_fields":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
								"suggested_action": map[string]any{"type": "string"},
							},
						},
					},
				},
			},
		},
	}
}

func enumProp(values ...string) map[string]any {
	return map[string]any{"type": "string", "enum": values}
}

func confidenceProp() map[string]any {
	return map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0}
}

func textValueProp() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text":       map[string]any{"type": "string"},
			"confidence": confidenceProp(),
		},
	}
}

func labeledValueProp() map[string]any {
	p := textValueProp()
	p["properties"].(map[string]any)["context_label"] = map[string]any{"type": "string"}
	return p
}

func datedValueProp() map[string]any {
	p := textValueProp()
	p["properties"].(map[string]any)["original_format"] = map[string]any{"type": "string"}
	return p
}

func numericTextProp(numType string) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text":          map[string]any{"type": "string"},
			"numeric_value": map[string]any{"type": numType},
		},
	}
}

func amountProp() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text":          map[string]any{"type": "string"},
			"numeric_value": map[string]any{"type": "number"},
			"confidence":    confidenceProp(),
			"context_label": map[string]any{"type": "string"},
		},
	}
}

func paymentTermsProp() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"terms_text":   map[string]any{"type": "string"},
			"standardized": map[string]any{"type": "string"},
			"confidence":   confidenceProp(),
			"early_pay_discount": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"found":      map[string]any{"type": "boolean"},
					"text":       map[string]any{"type": "string"},
					"percentage": map[string]any{"type": "number"},
					"days":       map[string]any{"type": "integer"},
				},
			},
		},
	}
}
