package normalize

import (
	"fmt"
	"strings"

	"invnorm/internal/domain"
)

// MACResult is the outcome of canonicalizing one raw mac field.
type MACResult struct {
	MAC    string
	Valid  bool
	Steps  []string
	Issues []domain.Issue
}

// CanonicalizeMAC accepts hyphen-, colon-, dot-, or unseparated 12-hex-digit
// MAC forms, case-insensitive, and normalizes to uppercase colon-separated
// pairs. Anything else keeps its trimmed original value with Valid=false.
func CanonicalizeMAC(raw string) MACResult {
	var r MACResult

	if domain.Missing(raw) {
		r.Steps = append(r.Steps, "mac_invalid_missing")
		return r
	}

	s := strings.ToUpper(strings.TrimSpace(raw))
	clean := strings.NewReplacer("-", "", ":", "", ".", "").Replace(s)

	if !isHex12(clean) {
		r.MAC = strings.TrimSpace(raw)
		r.Steps = append(r.Steps, "mac_invalid_invalid_format")
		r.Issues = append(r.Issues, domain.Issue{
			Field:             "mac",
			Kind:              domain.AnomalyInvalidMAC,
			Detail:            fmt.Sprintf("not a 12-hex-digit MAC: %q", raw),
			RecommendedAction: "Correct MAC address format (XX:XX:XX:XX:XX:XX)",
		})
		return r
	}

	pairs := make([]string, 6)
	for i := 0; i < 6; i++ {
		pairs[i] = clean[i*2 : i*2+2]
	}
	r.MAC = strings.Join(pairs, ":")
	r.Valid = true
	r.Steps = append(r.Steps, "mac_normalize")
	return r
}

func isHex12(s string) bool {
	if len(s) != 12 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
