package parsers

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/username/sadakatracker/backend/src/models"
)

// fieldPattern is one candidate in an ordered extraction chain. Chains are
// evaluated strictly in declaration order: the first pattern that matches and
// whose captured value passes validate wins, and evaluation stops. Patterns
// go from most structured (exact vendor template) to most permissive, so the
// structured form is preferred whenever both could match.
type fieldPattern struct {
	re       *regexp.Regexp
	validate func(captured string) bool
}

// find returns the first capture group of the pattern, or ("", false) when
// the pattern does not match or the capture fails validation. A pattern with
// no capture group that matches returns ("", true).
func (p fieldPattern) find(body string) (string, bool) {
	m := p.re.FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	captured := ""
	if len(m) > 1 {
		captured = m[1]
	}
	if p.validate != nil && !p.validate(captured) {
		return "", false
	}
	return captured, true
}

func minLen(n int) func(string) bool {
	return func(s string) bool { return len(s) >= n }
}

// ──────────────────────────────────────────────────────────────
//  Transaction identifier
// ──────────────────────────────────────────────────────────────

var idPatterns = []fieldPattern{
	// "TDB2BU7T7S Confirmed" style receipts at message start.
	{re: regexp.MustCompile(`(?i)^([A-Z0-9]{10})\s+Confirmed`), validate: minLen(8)},
	// Any id-looking token at message start.
	{re: regexp.MustCompile(`^([A-Z0-9]{8,12})\s+`), validate: minLen(8)},
	// "transaction code XY123..." and friends.
	{re: regexp.MustCompile(`(?i)(?:transaction|confirmation|reference)\s+(?:code|id)?\s*[:#]?\s*([A-Z0-9]{8,12})`), validate: minLen(8)},
	{re: regexp.MustCompile(`(?i)(?:receipt|confirmation)\s+(?:no|number|code)?\s*[:#]?\s*([A-Z0-9]{8,12})`), validate: minLen(8)},
	// Bare 10-char token anywhere in the body.
	{re: regexp.MustCompile(`([A-Z0-9]{10})`), validate: minLen(8)},
	// Letter-led alphanumeric token, loosest form.
	{re: regexp.MustCompile(`([A-Z][A-Z0-9]{7,11})`), validate: minLen(8)},
}

// ExtractID finds the vendor-assigned transaction identifier in body. The
// second return is false when no pattern yields an acceptable token; the
// caller is then expected to synthesize an identifier.
func ExtractID(body string) (string, bool) {
	for _, p := range idPatterns {
		if id, ok := p.find(body); ok {
			return id, true
		}
	}
	return "", false
}

// ──────────────────────────────────────────────────────────────
//  Date and time
// ──────────────────────────────────────────────────────────────

// Date and time are always captured jointly so a date from one part of the
// message can never be paired with a time from another.
var dateTimePatterns = []*regexp.Regexp{
	// "on 11/4/25 at 2:37 PM"
	regexp.MustCompile(`(?i)on\s+(\d{1,2}/\d{1,2}/\d{2,4})\s+at\s+(\d{1,2}:\d{2}\s*[AP]M)`),
	// "date: 11/4/2025 2:37PM"
	regexp.MustCompile(`(?i)date:\s*(\d{1,2}/\d{1,2}/\d{2,4})\s+(\d{1,2}:\d{2}\s*[AP]M)`),
}

var clockRe = regexp.MustCompile(`(?i)(\d{1,2}):(\d{2})\s*([AP]M)`)

// ExtractDateTime resolves the transaction instant from the message text.
// Dates are day-first; 2-digit years mean 2000+YY. When no template matches
// (or a matched template fails to parse) the caller-supplied fallback is
// returned verbatim, which is a normal outcome, not a parse failure.
func ExtractDateTime(body string, fallback time.Time) time.Time {
	for _, re := range dateTimePatterns {
		m := re.FindStringSubmatch(body)
		if m == nil {
			continue
		}
		if t, ok := parseDayFirst(m[1], m[2]); ok {
			return t
		}
	}
	return fallback
}

func parseDayFirst(dateStr, timeStr string) (time.Time, bool) {
	parts := strings.Split(dateStr, "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	day, errD := strconv.Atoi(parts[0])
	month, errM := strconv.Atoi(parts[1])
	year, errY := strconv.Atoi(parts[2])
	if errD != nil || errM != nil || errY != nil {
		return time.Time{}, false
	}
	if year < 100 {
		year += 2000
	}

	clock := clockRe.FindStringSubmatch(timeStr)
	if clock == nil {
		return time.Time{}, false
	}
	hour, _ := strconv.Atoi(clock[1])
	minute, _ := strconv.Atoi(clock[2])
	if strings.EqualFold(clock[3], "PM") && hour < 12 {
		hour += 12
	}
	if strings.EqualFold(clock[3], "AM") && hour == 12 {
		hour = 0
	}

	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.Local), true
}

// ──────────────────────────────────────────────────────────────
//  Amount
// ──────────────────────────────────────────────────────────────

var amountPatterns = []fieldPattern{
	// "Ksh5,000" / "KSh 5,000" / "KES 5000"
	{re: regexp.MustCompile(`(?i)(?:Ksh|KSh|KES)\s*([0-9,]+\.?[0-9]*)`)},
	// "Ksh received" with no numeral at all. No capture group on purpose:
	// a match here means the amount is explicitly zero, not a failure.
	{re: regexp.MustCompile(`(?i)Ksh\s+received`)},
	// "received Ksh5,000"
	{re: regexp.MustCompile(`(?i)received\s+(?:Ksh|KSh|KES)?\s*([0-9,]+\.?[0-9]*)`)},
	// "Ksh5000" with no space
	{re: regexp.MustCompile(`(?i)Ksh([0-9,]+\.?[0-9]*)`)},
	// "5,000 sent to ..."
	{re: regexp.MustCompile(`(?i)([0-9,]+\.?[0-9]*)\s+(?:sent|paid|received)`)},
	// "of Ksh5,000"
	{re: regexp.MustCompile(`(?i)of\s+(?:Ksh|KSh|KES)?\s*([0-9,]+\.?[0-9]*)`)},
}

// ExtractAmount finds the transaction amount. An unparseable or absent
// amount yields zero; it never rejects the message.
func ExtractAmount(body string) decimal.Decimal {
	for _, p := range amountPatterns {
		captured, ok := p.find(body)
		if !ok {
			continue
		}
		if captured == "" {
			return decimal.Zero
		}
		value, err := parseLocaleDecimal(captured)
		if err != nil {
			return decimal.Zero
		}
		return value
	}
	return decimal.Zero
}

// parseLocaleDecimal converts a locale-formatted numeral ("5,000.", "00")
// into an exact decimal: thousands separators stripped, a trailing bare dot
// tolerated, no rounding.
func parseLocaleDecimal(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, ".")
	return decimal.NewFromString(s)
}

// ──────────────────────────────────────────────────────────────
//  Sender name
// ──────────────────────────────────────────────────────────────

var senderPatterns = []fieldPattern{
	// "received from JOHN DOE 254..." with a trailing phone anchor, the
	// structured vendor form.
	{re: regexp.MustCompile(`(?i)received\s+from\s+([A-Z][A-Z\s]+)\s+(?:0|254|\+254)`)},
	{re: regexp.MustCompile(`(?i)from\s+([A-Z][A-Z\s]+)\s+(?:0|254|\+254)`)},
	// Looser forms without the phone anchor.
	{re: regexp.MustCompile(`(?i)from\s+([A-Z][A-Z\s]+)`)},
	{re: regexp.MustCompile(`(?i)received\s+from\s+([A-Z][A-Z\s]+)`)},
}

// DefaultSender is used when no sender name can be extracted.
const DefaultSender = "Unknown"

// ExtractSender finds the counterparty name, trimmed of surrounding
// whitespace. Returns DefaultSender when nothing matches.
func ExtractSender(body string) string {
	for _, p := range senderPatterns {
		if name, ok := p.find(body); ok && name != "" {
			return strings.TrimSpace(name)
		}
	}
	return DefaultSender
}

// ──────────────────────────────────────────────────────────────
//  Phone number
// ──────────────────────────────────────────────────────────────

var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)from\s+[A-Z][A-Z\s]+\s+(254[0-9]{9})`),
	regexp.MustCompile(`(254[0-9]{9})`),
	regexp.MustCompile(`(\+254[0-9]{9})`),
	regexp.MustCompile(`\b(0[0-9]{9})\b`),
}

// ExtractPhoneNumber finds the counterparty phone number and normalizes it
// to the canonical "254XXXXXXXXX" form. The highest-priority pattern is built
// from the already-resolved sender name, so this extractor must run after
// sender extraction. Returns DefaultSender ("Unknown") when nothing matches.
func ExtractPhoneNumber(body, sender string) string {
	patterns := phonePatterns
	if dyn := senderPhonePattern(sender); dyn != nil {
		patterns = append([]*regexp.Regexp{dyn}, phonePatterns...)
	}
	for _, re := range patterns {
		m := re.FindStringSubmatch(body)
		if m == nil || m[1] == "" {
			continue
		}
		return NormalizePhoneNumber(m[1])
	}
	return DefaultSender
}

// senderPhonePattern anchors a 254-prefixed number directly on the extracted
// sender name, e.g. "WYCLIFFE TAI 254721918757".
func senderPhonePattern(sender string) *regexp.Regexp {
	words := strings.Fields(sender)
	if len(words) == 0 {
		return nil
	}
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	re, err := regexp.Compile(strings.Join(words, `\s+`) + `\s+(254[0-9]{9})`)
	if err != nil {
		return nil
	}
	return re
}

// NormalizePhoneNumber converts a matched local ("07...") or international
// ("+254...") number into the canonical 254-prefixed form. Already canonical
// numbers pass through unchanged.
func NormalizePhoneNumber(number string) string {
	switch {
	case strings.HasPrefix(number, "0"):
		return "254" + number[1:]
	case strings.HasPrefix(number, "+254"):
		return number[1:]
	default:
		return number
	}
}

// ──────────────────────────────────────────────────────────────
//  Account label
// ──────────────────────────────────────────────────────────────

var accountPatterns = []fieldPattern{
	// "Account Number Building New Utility balance ..." - capture stops at
	// "New", a period, or end of message.
	{re: regexp.MustCompile(`(?i)Account\s+Number\s+([A-Za-z0-9\s\-_]+?)(?:\s+New|\.|$)`)},
	{re: regexp.MustCompile(`(?i)account\s+(?:number|no|#)?\s*[:#]?\s*([A-Za-z0-9\-_]+)`)},
	{re: regexp.MustCompile(`(?i)to\s+(?:account|acc)\s+([A-Za-z0-9\-_]+)`)},
	{re: regexp.MustCompile(`(?i)account\s+([A-Za-z0-9\-_]+)`)},
}

// ExtractAccount finds the account label a payment was posted to. The field
// is genuinely optional: absence yields "", never a synthesized default.
func ExtractAccount(body string) string {
	for _, p := range accountPatterns {
		if account, ok := p.find(body); ok && account != "" {
			return strings.TrimSpace(account)
		}
	}
	return ""
}

// ──────────────────────────────────────────────────────────────
//  Balance
// ──────────────────────────────────────────────────────────────

var balancePatterns = []fieldPattern{
	{re: regexp.MustCompile(`(?i)balance\s+is\s+(?:Ksh|KSh|KES)?\s*([0-9,]+\.?[0-9]*)`)},
	{re: regexp.MustCompile(`(?i)new\s+(?:utility\s+)?balance\s*(?::|is)?\s*(?:Ksh|KSh|KES)?\s*([0-9,]+\.?[0-9]*)`)},
	{re: regexp.MustCompile(`(?i)Available\s+balance\s*(?::|is)?\s*(?:Ksh|KSh|KES)?\s*([0-9,]+\.?[0-9]*)`)},
}

// ExtractBalance finds the post-transaction balance when the message reports
// one. An absent balance is a valid null, not zero.
func ExtractBalance(body string) decimal.NullDecimal {
	for _, p := range balancePatterns {
		captured, ok := p.find(body)
		if !ok || captured == "" {
			continue
		}
		value, err := parseLocaleDecimal(captured)
		if err != nil {
			return decimal.NullDecimal{}
		}
		return decimal.NullDecimal{Decimal: value, Valid: true}
	}
	return decimal.NullDecimal{}
}

// ──────────────────────────────────────────────────────────────
//  Transaction type
// ──────────────────────────────────────────────────────────────

var typeKeywords = []struct {
	keyword string
	txType  models.TransactionType
}{
	{"received", models.TypeReceived},
	{"sent to", models.TypeSent},
	{"paid to", models.TypePaid},
	{"withdraw", models.TypeWithdraw},
	{"buy goods", models.TypeGoods},
}

// ExtractType classifies the transaction by keyword, checked in fixed
// priority order. Only the first matching keyword wins even when several
// appear; the order encodes intent priority and is deliberately kept as-is.
func ExtractType(body string) models.TransactionType {
	lower := strings.ToLower(body)
	for _, tk := range typeKeywords {
		if strings.Contains(lower, tk.keyword) {
			return tk.txType
		}
	}
	return models.TypeUnknown
}
