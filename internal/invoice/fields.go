package invoice

// Typed readers over the decoded extractor output. Each reader returns the
// zero value when the key is absent, and records an invalid_field issue when
// the key is present but carries the wrong JSON type.

func (b *builder) objectAt(m map[string]any, key, path string) map[string]any {
	v, present := m[key]
	if !present || v == nil {
		return nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		b.invalid(path)
		return nil
	}
	return obj
}

func (b *builder) stringAt(m map[string]any, key, path string) (string, bool) {
	v, present := m[key]
	if !present || v == nil {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		b.invalid(path)
		return "", false
	}
	return s, true
}

func (b *builder) floatAt(m map[string]any, key, path string) (float64, bool) {
	v, present := m[key]
	if !present || v == nil {
		return 0, false
	}
	f, ok := v.(float64)
	if !ok {
		b.invalid(path)
		return 0, false
	}
	return f, true
}

// confidenceAt reads m["confidence"] and enforces the [0,1] range.
func (b *builder) confidenceAt(m map[string]any, path string) *float64 {
	f, ok := b.floatAt(m, "confidence", path+".confidence")
	if !ok {
		return nil
	}
	if f < 0 || f > 1 {
		b.invalid(path + ".confidence")
		return nil
	}
	return &f
}

// textValueFrom builds a TextValue from an already-resolved object. A value
// with no text is absent; a confidence riding on empty text is dropped and
// flagged, since confidence without content is meaningless.
func (b *builder) textValueFrom(o map[string]any, path string) *TextValue {
	text, _ := b.stringAt(o, "text", path+".text")
	conf := b.confidenceAt(o, path)
	if text == "" {
		if conf != nil {
			b.invalid(path + ".confidence")
		}
		return nil
	}
	return &TextValue{Text: text, Confidence: conf}
}

func (b *builder) textValueAt(m map[string]any, key, path string) *TextValue {
	o := b.objectAt(m, key, path)
	if o == nil {
		return nil
	}
	return b.textValueFrom(o, path)
}

func (b *builder) labeledValueAt(m map[string]any, key, path string) *LabeledValue {
	o := b.objectAt(m, key, path)
	if o == nil {
		return nil
	}
	tv := b.textValueFrom(o, path)
	if tv == nil {
		return nil
	}
	out := &LabeledValue{TextValue: *tv}
	if label, ok := b.stringAt(o, "context_label", path+".context_label"); ok {
		out.ContextLabel = label
	}
	return out
}

// numericTextFrom builds a NumericText, parsing the numeric value out of the
// text when the extractor did not supply one.
func (b *builder) numericTextFrom(o map[string]any, path string) *NumericText {
	text, _ := b.stringAt(o, "text", path+".text")
	if text == "" {
		return nil
	}
	nt := &NumericText{Text: text}
	if v, ok := b.floatAt(o, "numeric_value", path+".numeric_value"); ok {
		nt.NumericValue = &v
	} else if v, ok := ParseAmount(text); ok {
		nt.NumericValue = &v
	}
	return nt
}
