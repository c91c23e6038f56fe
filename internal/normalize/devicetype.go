package normalize

import (
	"sort"
	"strings"

	"invnorm/internal/config"
	"invnorm/internal/domain"
)

// DeviceTypeResult is the outcome of the deterministic device-type pass.
type DeviceTypeResult struct {
	Type       string
	Confidence domain.Confidence
	// Resolved is false when the field was empty or unmapped and the
	// classification must escalate.
	Resolved bool
	Steps    []string
}

// ClassifyDeviceType maps a raw device-type string onto the canonical set via
// the synonym table. An exact (or synonym) match is high confidence; a
// partial substring match against a known synonym is medium; anything else is
// unresolved and left for escalation.
func ClassifyDeviceType(raw string, rules *config.Rules) DeviceTypeResult {
	var r DeviceTypeResult

	if domain.Missing(raw) {
		return r
	}

	s := strings.ToLower(strings.TrimSpace(raw))

	if canonical, ok := rules.DeviceSynonyms[s]; ok {
		r.Type = canonical
		r.Confidence = domain.ConfidenceHigh
		r.Resolved = true
		r.Steps = append(r.Steps, "device_type_normalized")
		return r
	}

	// Sorted iteration keeps partial matching deterministic when more than
	// one synonym could claim the input.
	synonyms := make([]string, 0, len(rules.DeviceSynonyms))
	for synonym := range rules.DeviceSynonyms {
		synonyms = append(synonyms, synonym)
	}
	sort.Strings(synonyms)

	for _, synonym := range synonyms {
		if strings.Contains(s, synonym) || strings.Contains(synonym, s) {
			r.Type = rules.DeviceSynonyms[synonym]
			r.Confidence = domain.ConfidenceMedium
			r.Resolved = true
			r.Steps = append(r.Steps, "device_type_normalized")
			return r
		}
	}

	return r
}
