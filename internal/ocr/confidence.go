package ocr

import (
	"regexp"
	"strings"
)

var (
	reDate   = regexp.MustCompile(`\b\d{1,4}[/-]\d{1,2}[/-]\d{1,4}\b|\b(20\d{2})\b`)
	reCurr   = regexp.MustCompile(`\b(usd|eur|gbp|cad|aud|inr|jpy)\b|[$£€]`)
	reAmount = regexp.MustCompile(`\b\d{1,3}(,\d{3})*(\.\d{2})\b|\b\d+\.\d{2}\b`)
	reAlnum  = regexp.MustCompile(`[A-Za-z0-9]`)
)

func hasDatePattern(s string) bool     { return reDate.MatchString(s) }
func hasCurrencyPattern(s string) bool { return reCurr.MatchString(s) }
func hasAmountPattern(s string) bool   { return reAmount.MatchString(s) }

// heuristicConfidence scores a recognized token from text characteristics.
// The printed-text OCR API reports no per-word confidence, so tokens that
// look like dates, currency, or amounts get boosted above the base score.
func heuristicConfidence(txt string) float32 {
	txt = strings.TrimSpace(txt)
	if txt == "" || !reAlnum.MatchString(txt) {
		return 0.3
	}
	txtL := strings.ToLower(txt)
	score := float32(0.7) // base for any recognized alphanumeric token
	if hasDatePattern(txtL) {
		score += 0.1
	}
	if hasCurrencyPattern(txtL) {
		score += 0.1
	}
	if hasAmountPattern(txtL) {
		score += 0.1
	}
	if len(txt) >= 3 {
		score += 0.05
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
