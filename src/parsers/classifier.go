package parsers

import "strings"

// mpesaKeywords gates which bodies are worth running through the field
// extractors: known sender-id literals plus the generic transaction verbs.
// Matching is a plain case-insensitive substring test, no scoring.
var mpesaKeywords = []string{
	"mpkwa2c", "m-pesa", "mpesa", "received from", "paid to",
	"sent to", "paybill", "buy goods", "transaction", "confirmed",
}

// IsRelevant reports whether body looks like a mobile-money transaction
// message. Presence of any single keyword is sufficient.
func IsRelevant(body string) bool {
	lower := strings.ToLower(body)
	for _, keyword := range mpesaKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
