// Package receipt extracts structured fields from recognized receipt text.
// Extraction is a best-effort heuristic over ordered regular expression
// lists: false positives and misses are expected, and every field degrades
// independently to "absent" instead of failing.
package receipt

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Wahiduz89/spendsmart/internal/models"
)

// Extraction holds the fields recovered from receipt text. Every field is
// optional; an empty Extraction is a valid outcome and signals that the
// caller should fall back to manual entry.
type Extraction struct {
	Amount             *decimal.Decimal      `json:"amount,omitempty"`
	AmountConfidence   float64               `json:"amount_confidence,omitempty"`
	Date               string                `json:"date,omitempty"`
	DateConfidence     float64               `json:"date_confidence,omitempty"`
	Merchant           string                `json:"merchant,omitempty"`
	MerchantConfidence float64               `json:"merchant_confidence,omitempty"`
	PaymentMethod      *models.PaymentMethod `json:"payment_method,omitempty"`
	PaymentConfidence  float64               `json:"payment_confidence,omitempty"`
	Description        string                `json:"description,omitempty"`
}

// Empty reports whether no field was extracted.
func (e *Extraction) Empty() bool {
	return e.Amount == nil && e.Date == "" && e.Merchant == "" && e.PaymentMethod == nil
}

// amountPattern pairs a pattern with the confidence assigned on a match.
// Keyword-anchored patterns come first so a "Grand Total" line beats a bare
// currency token earlier in the text (e.g. a subtotal). The bare "total"
// keyword needs a word boundary so it cannot match inside "Subtotal".
type amountPattern struct {
	re         *regexp.Regexp
	confidence float64
}

const currency = `(?:₹|rs\.?|inr)`
const number = `([0-9][0-9,]*(?:\.[0-9]{1,2})?)`

var amountPatterns = []amountPattern{
	{regexp.MustCompile(`(?i)grand\s*total[:\s]*` + currency + `?\s*` + number), 0.95},
	{regexp.MustCompile(`(?i)\b(?:net\s*payable|total\s*amount|total)[:\s]*` + currency + `?\s*` + number), 0.9},
	{regexp.MustCompile(`(?i)amount[:\s]*` + currency + `?\s*` + number), 0.8},
	{regexp.MustCompile(`(?i)sub\s*total[:\s]*` + currency + `?\s*` + number), 0.7},
	{regexp.MustCompile(`(?i)` + currency + `\s*` + number), 0.5},
	{regexp.MustCompile(`(?i)` + number + `\s*` + currency), 0.4},
}

var (
	dateKeywordRe = regexp.MustCompile(`(?i)date[:\s]*([0-9]{1,2})[-/.]([0-9]{1,2})[-/.]([0-9]{2,4})`)
	dateDMYRe     = regexp.MustCompile(`\b([0-9]{1,2})[-/]([0-9]{1,2})[-/]([0-9]{2,4})\b`)
	dateYMDRe     = regexp.MustCompile(`\b([0-9]{4})[-/]([0-9]{1,2})[-/]([0-9]{1,2})\b`)
	dateTextualRe = regexp.MustCompile(`(?i)\b([0-9]{1,2})(?:st|nd|rd|th)?\s+(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*[\s,]+([0-9]{2,4})\b`)

	merchantKeywordRe = regexp.MustCompile(`(?i)^(?:from|merchant|store|billed\s*to)\s*[:\-]\s*(.{3,49})$`)
	capitalizedLineRe = regexp.MustCompile(`^[A-Z][A-Za-z0-9&'.\- ]{2,48}$`)

	paymentKeywordRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)payment(?:\s*method)?\s*[:\-]\s*([a-z ]+)`),
		regexp.MustCompile(`(?i)paid\s*(?:by|via|through)\s*[:\-]?\s*([a-z ]+)`),
		regexp.MustCompile(`(?i)mode(?:\s*of\s*payment)?\s*[:\-]\s*([a-z ]+)`),
	}
	paymentBareRe = regexp.MustCompile(`(?i)\b(upi|gpay|google pay|phonepe|paytm|cash|credit card|debit card|net\s?banking|wallet)\b`)

	whitespaceRe = regexp.MustCompile(`\s+`)
)

// paymentSynonyms maps lowercase captured tokens to the closed payment
// method enumeration. Longer keys are checked first.
var paymentSynonyms = []struct {
	token  string
	method models.PaymentMethod
}{
	{"internet banking", models.PaymentNetBanking},
	{"net banking", models.PaymentNetBanking},
	{"netbanking", models.PaymentNetBanking},
	{"google pay", models.PaymentUPI},
	{"credit card", models.PaymentCreditCard},
	{"debit card", models.PaymentDebitCard},
	{"phonepe", models.PaymentUPI},
	{"mobikwik", models.PaymentWallet},
	{"credit", models.PaymentCreditCard},
	{"wallet", models.PaymentWallet},
	{"paytm", models.PaymentWallet},
	{"debit", models.PaymentDebitCard},
	{"gpay", models.PaymentUPI},
	{"bhim", models.PaymentUPI},
	{"cash", models.PaymentCash},
	{"card", models.PaymentCreditCard},
	{"neft", models.PaymentNetBanking},
	{"imps", models.PaymentNetBanking},
	{"upi", models.PaymentUPI},
}

// monthNumbers maps lowercase three-letter month prefixes to month numbers.
var monthNumbers = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// Extract parses recognized receipt text into structured candidate fields.
// It never fails: fields that cannot be recovered are simply absent.
func Extract(rawText string) *Extraction {
	result := &Extraction{}
	if strings.TrimSpace(rawText) == "" {
		return result
	}

	collapsed := whitespaceRe.ReplaceAllString(strings.TrimSpace(rawText), " ")
	lines := splitLines(rawText)

	result.Amount, result.AmountConfidence = extractAmount(collapsed)
	result.Date, result.DateConfidence = extractDate(collapsed)
	result.Merchant, result.MerchantConfidence = extractMerchant(collapsed, lines)
	result.PaymentMethod, result.PaymentConfidence = extractPaymentMethod(collapsed)

	if result.Merchant != "" {
		result.Description = fmt.Sprintf("Purchase at %s", result.Merchant)
		if result.Amount != nil {
			result.Description += fmt.Sprintf(" for ₹%s", result.Amount.String())
		}
	}

	return result
}

// splitLines returns the non-empty lines of the text with per-line
// whitespace collapsed. Line structure is preserved for the merchant
// heuristics, which reason about "the first capitalized line".
func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = whitespaceRe.ReplaceAllString(strings.TrimSpace(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// extractAmount tries the ordered amount patterns, first match wins.
// The parsed value must be a positive number to be accepted.
func extractAmount(text string) (*decimal.Decimal, float64) {
	for _, p := range amountPatterns {
		match := p.re.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		raw := strings.ReplaceAll(match[1], ",", "")
		amount, err := decimal.NewFromString(raw)
		if err != nil || amount.Sign() <= 0 {
			continue
		}
		return &amount, p.confidence
	}
	return nil, 0
}

// extractDate tries keyword-anchored D-M-Y, bare D-M-Y, bare Y-M-D, then a
// textual month form, normalizing the result to an ISO calendar date.
// Invalid dates (month 13, day 31 in February) are rejected, never raised.
func extractDate(text string) (string, float64) {
	if m := dateKeywordRe.FindStringSubmatch(text); m != nil {
		if iso, ok := buildDate(m[3], m[2], m[1]); ok {
			return iso, 0.9
		}
	}
	if m := dateDMYRe.FindStringSubmatch(text); m != nil {
		if iso, ok := buildDate(m[3], m[2], m[1]); ok {
			return iso, 0.7
		}
	}
	if m := dateYMDRe.FindStringSubmatch(text); m != nil {
		if iso, ok := buildDate(m[1], m[2], m[3]); ok {
			return iso, 0.7
		}
	}
	if m := dateTextualRe.FindStringSubmatch(text); m != nil {
		month := monthNumbers[strings.ToLower(m[2])[:3]]
		if iso, ok := buildDateParts(atoi(m[3]), month, atoi(m[1])); ok {
			return iso, 0.6
		}
	}
	return "", 0
}

// buildDate constructs an ISO date from year/month/day strings, expanding
// two-digit years: year < 50 becomes 2000+year, otherwise 1900+year.
func buildDate(yearStr, monthStr, dayStr string) (string, bool) {
	return buildDateParts(atoi(yearStr), atoi(monthStr), atoi(dayStr))
}

func buildDateParts(year, month, day int) (string, bool) {
	if year < 100 {
		if year < 50 {
			year += 2000
		} else {
			year += 1900
		}
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	// time.Date normalizes out-of-range days (Feb 30 -> Mar 2); a changed
	// component means the calendar date was invalid.
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

// extractMerchant checks the curated known-merchant list first (short
// branded names defeat free-text heuristics), then falls back to keyword
// lines and finally the first capitalized line. Candidates must be between
// 3 and 49 characters.
func extractMerchant(collapsed string, lines []string) (string, float64) {
	if known := matchKnownMerchant(collapsed); known != "" {
		return known, 0.95
	}

	for _, line := range lines {
		if m := merchantKeywordRe.FindStringSubmatch(line); m != nil {
			candidate := strings.TrimSpace(m[1])
			if len(candidate) >= 3 && len(candidate) < 50 {
				return candidate, 0.6
			}
		}
	}

	for _, line := range lines {
		if capitalizedLineRe.MatchString(line) && len(line) >= 3 && len(line) < 50 {
			return line, 0.5
		}
	}

	return "", 0
}

// extractPaymentMethod matches keyword-anchored patterns before bare method
// tokens and maps the capture through the synonym table. Unrecognized
// tokens yield no payment method.
func extractPaymentMethod(text string) (*models.PaymentMethod, float64) {
	for _, re := range paymentKeywordRes {
		if m := re.FindStringSubmatch(text); m != nil {
			if method := mapPaymentToken(m[1]); method != nil {
				return method, 0.9
			}
		}
	}
	if m := paymentBareRe.FindStringSubmatch(text); m != nil {
		if method := mapPaymentToken(m[1]); method != nil {
			return method, 0.6
		}
	}
	return nil, 0
}

// mapPaymentToken resolves a captured token against the synonym table.
func mapPaymentToken(token string) *models.PaymentMethod {
	token = strings.ToLower(strings.TrimSpace(token))
	for _, s := range paymentSynonyms {
		if strings.HasPrefix(token, s.token) {
			method := s.method
			return &method
		}
	}
	return nil
}
