package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"invnorm/internal/config"
	"invnorm/internal/domain"
)

// labelPattern is the RFC 1123 label grammar: alphanumeric ends, hyphens inside.
var labelPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

var invalidHostChars = regexp.MustCompile(`[^a-z0-9-]`)
var hyphenRuns = regexp.MustCompile(`-+`)

// HostnameResult is the outcome of normalizing one raw hostname field.
type HostnameResult struct {
	Hostname string
	Valid    bool
	Steps    []string
	Issues   []domain.Issue
}

// NormalizeHostname lowercases, trims, and repairs a hostname toward the RFC
// 1123 label grammar: characters outside [a-z0-9-] become hyphens, hyphen
// runs collapse, edge hyphens are stripped, over-length names truncate to 63
// with a logged step. All-numeric names are kept but marked invalid.
func NormalizeHostname(raw string) HostnameResult {
	var r HostnameResult

	if domain.Missing(raw) {
		r.Steps = append(r.Steps, "hostname_invalid_missing")
		return r
	}

	s := strings.ToLower(strings.TrimSpace(raw))

	if !labelPattern.MatchString(s) {
		cleaned := invalidHostChars.ReplaceAllString(s, "-")
		cleaned = hyphenRuns.ReplaceAllString(cleaned, "-")
		cleaned = strings.Trim(cleaned, "-")
		if cleaned == "" {
			return r.fail(raw, "invalid_characters")
		}
		s = cleaned
	}

	if len(s) > 63 {
		s = strings.TrimRight(s[:63], "-")
		r.Steps = append(r.Steps, "hostname_truncate")
	}

	if isAllDigits(s) {
		r.Hostname = s
		r.Steps = append(r.Steps, "hostname_invalid_all_numeric")
		r.Issues = append(r.Issues, hostnameIssue(raw, "all_numeric"))
		return r
	}

	if !labelPattern.MatchString(s) {
		r.Hostname = s
		r.Steps = append(r.Steps, "hostname_invalid_invalid_format")
		r.Issues = append(r.Issues, hostnameIssue(raw, "invalid_format"))
		return r
	}

	r.Hostname = s
	r.Valid = true
	r.Steps = append(r.Steps, "hostname_normalize")
	return r
}

func (r *HostnameResult) fail(raw, reason string) HostnameResult {
	r.Hostname = strings.TrimSpace(raw)
	r.Steps = append(r.Steps, "hostname_invalid_"+reason)
	r.Issues = append(r.Issues, hostnameIssue(raw, reason))
	return *r
}

func hostnameIssue(raw, reason string) domain.Issue {
	return domain.Issue{
		Field:             "hostname",
		Kind:              domain.AnomalyInvalidHostname,
		Detail:            fmt.Sprintf("%s: %q", reason, raw),
		RecommendedAction: "Correct hostname format per RFC 1123",
	}
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// FQDNResult is the outcome of normalizing one raw fqdn field.
type FQDNResult struct {
	FQDN       string
	Valid      bool
	Consistent bool
	// Constructed is true when no fqdn was supplied and one must be built
	// from the hostname plus an inferred domain.
	Constructed bool
	Steps       []string
	Issues      []domain.Issue
}

// NormalizeFQDN validates a supplied fqdn against the hostname, or marks the
// result for construction when the fqdn is absent. Label rules follow the
// hostname grammar; total length is capped at 253; a trailing dot is
// stripped. A hostname/FQDN first-label mismatch is reported but both values
// are kept.
func NormalizeFQDN(raw, hostname string) FQDNResult {
	var r FQDNResult

	if domain.Missing(raw) {
		if hostname != "" {
			r.Constructed = true
		} else {
			r.Steps = append(r.Steps, "fqdn_invalid_missing")
		}
		return r
	}

	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimSuffix(s, ".")

	if s == "" {
		return r.fail(raw, "empty")
	}
	if len(s) > 253 {
		return r.fail(raw, "too_long")
	}

	for _, label := range strings.Split(s, ".") {
		switch {
		case label == "":
			return r.fail(raw, "empty_label")
		case len(label) > 63:
			return r.fail(raw, "label_too_long")
		case !labelPattern.MatchString(label):
			return r.fail(raw, "invalid_label_format")
		}
	}

	r.FQDN = s
	r.Valid = true
	r.Steps = append(r.Steps, "fqdn_normalize")

	if hostname != "" {
		first, _, _ := strings.Cut(s, ".")
		r.Consistent = first == hostname
		if !r.Consistent {
			r.Steps = append(r.Steps, "fqdn_inconsistent")
			r.Issues = append(r.Issues, domain.Issue{
				Field:             "fqdn",
				Kind:              domain.AnomalyFQDNMismatch,
				Detail:            fmt.Sprintf("fqdn %q does not begin with hostname %q", s, hostname),
				RecommendedAction: "Verify FQDN matches hostname",
			})
		}
	}

	return r
}

func (r *FQDNResult) fail(raw, reason string) FQDNResult {
	r.FQDN = strings.TrimSpace(strings.ToLower(raw))
	r.Steps = append(r.Steps, "fqdn_invalid_"+reason)
	r.Issues = append(r.Issues, domain.Issue{
		Field:             "fqdn",
		Kind:              domain.AnomalyInvalidHostname,
		Detail:            fmt.Sprintf("%s: %q", reason, raw),
		RecommendedAction: "Correct FQDN format",
	})
	return *r
}

// DomainSource identifies which rung of the domain inference chain produced a
// domain suffix.
type DomainSource string

const (
	DomainFromEmail   DomainSource = "owner_email"
	DomainFromSite    DomainSource = "site_mapping"
	DomainFromDefault DomainSource = "default"
	// DomainUndetermined means only the collaborator (or the default after a
	// failed escalation) can settle the domain.
	DomainUndetermined DomainSource = ""
)

// InferDomain runs the deterministic rungs of the domain inference chain:
// the validated owner email's domain, then the site->domain table keyed by
// the normalized site's city component. It does not fall through to the
// default; an undetermined result is the caller's cue to escalate first.
func InferDomain(ownerEmail, siteNormalized string, rules *config.Rules) (string, DomainSource) {
	if ownerEmail != "" {
		if _, dom, ok := strings.Cut(ownerEmail, "@"); ok && dom != "" {
			return strings.ToLower(dom), DomainFromEmail
		}
	}

	if siteNormalized != "" {
		city, _, _ := strings.Cut(siteNormalized, "-")
		if dom, ok := rules.SiteDomains[strings.ToUpper(city)]; ok {
			return dom, DomainFromSite
		}
	}

	return "", DomainUndetermined
}
