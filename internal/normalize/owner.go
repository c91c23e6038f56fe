package normalize

import (
	"regexp"
	"strings"

	"invnorm/internal/config"
	"invnorm/internal/domain"
)

var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
var parenToken = regexp.MustCompile(`\(([^)]*)\)`)

// OwnerResult is the outcome of the deterministic owner pass.
type OwnerResult struct {
	Owner string
	Email string
	Team  string
	// Ambiguous is true when the field held more than a bare token and the
	// deterministic pass could not assign a team; the caller should escalate.
	Ambiguous bool
	Steps     []string
}

// ResolveOwner runs the deterministic owner extraction: a well-formed email
// substring, a parenthesized team candidate, and whatever text remains as the
// owner name. A bare known team token claims the whole field. Names are
// canonicalized to lowercase throughout, including names derived from the
// email local part.
func ResolveOwner(raw string, rules *config.Rules) OwnerResult {
	var r OwnerResult

	if domain.Missing(raw) {
		return r
	}

	s := strings.TrimSpace(raw)
	r.Email = strings.ToLower(emailPattern.FindString(s))

	// The whole field is just the email address.
	if r.Email != "" && strings.EqualFold(s, r.Email) {
		r.Owner = NameFromEmail(r.Email)
		r.Steps = append(r.Steps, "owner_parsed")
		return r
	}

	// No email at all: either a bare team token or a bare name.
	if !strings.Contains(s, "@") {
		lower := strings.ToLower(s)
		if rules.IsTeamKeyword(lower) {
			r.Team = lower
			r.Steps = append(r.Steps, "owner_parsed")
			return r
		}
		for _, kw := range rules.TeamKeywords {
			if strings.Contains(lower, kw) {
				r.Team = kw
				r.Steps = append(r.Steps, "owner_parsed")
				return r
			}
		}
		r.Owner = lower
		r.Steps = append(r.Steps, "owner_parsed")
		r.Ambiguous = moreThanBareToken(s)
		return r
	}

	// Mixed form: strip the email, pull a parenthesized team candidate, and
	// treat the remainder as the name.
	rest := s
	if r.Email != "" {
		rest = strings.Replace(rest, emailPattern.FindString(s), "", 1)
	}
	if m := parenToken.FindStringSubmatch(rest); m != nil {
		candidate := strings.ToLower(strings.TrimSpace(m[1]))
		if rules.IsTeamKeyword(candidate) {
			r.Team = candidate
		}
		rest = strings.Replace(rest, m[0], "", 1)
	}
	rest = strings.ToLower(strings.TrimSpace(rest))
	if rest != "" {
		r.Owner = rest
	}

	if r.Owner != "" || r.Email != "" || r.Team != "" {
		r.Steps = append(r.Steps, "owner_parsed")
	}

	// Mixed name+role+email text without a resolved team is what the
	// collaborator exists for.
	r.Ambiguous = r.Team == "" && moreThanBareToken(s)
	return r
}

// ValidEmail reports whether s is, in its entirety, a well-formed email
// address by the same grammar the owner extraction uses.
func ValidEmail(s string) bool {
	return s != "" && emailPattern.FindString(s) == s
}

// moreThanBareToken reports whether the raw owner text holds anything beyond
// a single word.
func moreThanBareToken(s string) bool {
	return len(strings.Fields(s)) > 1
}

// NameFromEmail derives a lowercase display name from an email local part:
// separators '.', '_', '-' become single spaces.
//
//	jane@corp.example.com     -> jane
//	john.doe@corp.example.com -> john doe
func NameFromEmail(email string) string {
	local, _, ok := strings.Cut(email, "@")
	if !ok || local == "" {
		return ""
	}
	parts := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})
	for i, p := range parts {
		parts[i] = strings.ToLower(p)
	}
	return strings.Join(parts, " ")
}
