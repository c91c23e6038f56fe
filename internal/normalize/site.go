package normalize

import (
	"regexp"
	"strings"

	"invnorm/internal/config"
	"invnorm/internal/domain"
)

var siteSeparators = regexp.MustCompile(`[\s_-]+`)

// SiteResult is the outcome of the deterministic site pass.
type SiteResult struct {
	Normalized string
	// Resolved is false when the pattern pass could not assign both a city
	// and a building/area component; the caller should escalate.
	Resolved bool
	Steps    []string
}

// NormalizeSite canonicalizes a site string to CITY-BUILDING-AREA: uppercase
// city abbreviation, title-case building/area components, single-hyphen
// separated. Whole-string mappings from the rules table win outright; the
// token pass then maps known city and building tokens, passes numerics
// through, and defaults a missing city to the configured default. Any
// unrecognized token leaves the pass unresolved.
func NormalizeSite(raw string, rules *config.Rules) SiteResult {
	var r SiteResult

	if domain.Missing(raw) {
		return r
	}

	s := strings.TrimSpace(raw)

	// Whole-string table first, keyed on the hyphen-collapsed lowercase form.
	key := strings.ToLower(siteSeparators.ReplaceAllString(s, "-"))
	spacedKey := strings.ToLower(siteSeparators.ReplaceAllString(s, " "))
	if canonical, ok := rules.SiteNames[key]; ok {
		return r.resolve(canonical)
	}
	if canonical, ok := rules.SiteNames[spacedKey]; ok {
		return r.resolve(canonical)
	}

	city := ""
	var parts []string
	for _, token := range siteSeparators.Split(strings.ToLower(s), -1) {
		if token == "" {
			continue
		}
		switch {
		case city == "" && rules.CityTokens[token] != "":
			city = rules.CityTokens[token]
		case rules.BuildingTokens[token] != "":
			parts = append(parts, rules.BuildingTokens[token])
		case isAllDigits(token):
			parts = append(parts, token)
		default:
			// Unrecognized token: the pattern pass has no claim here.
			return r
		}
	}

	if len(parts) == 0 {
		return r
	}

	if city == "" {
		city = rules.DefaultCity
		r.Steps = append(r.Steps, "site_default_city")
	}

	return r.resolve(city + "-" + strings.Join(parts, "-"))
}

func (r *SiteResult) resolve(canonical string) SiteResult {
	r.Normalized = canonical
	r.Resolved = true
	r.Steps = append(r.Steps, "site_normalized")
	return *r
}
