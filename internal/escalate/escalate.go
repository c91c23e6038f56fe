// Package escalate implements the policy that decides how ambiguous fields
// are delegated to the semantic-inference collaborator and how its answers
// (or failures) flow back into a record. Every call is a single bounded
// attempt: schema violations, transport failures, missing credentials, and
// timeouts all collapse into the same unresolved outcome, and the caller
// branches on the outcome tag, never on errors.
package escalate

import (
	"context"
	"strings"
	"time"

	"invnorm/internal/config"
	"invnorm/internal/domain"
	"invnorm/internal/normalize"
)

// Collaborator is the call contract with the external semantic-inference
// service. Implementations must validate response schemas strictly and return
// an error for any deviation; the policy treats every error identically.
type Collaborator interface {
	// ParseOwnerInfo extracts owner name/email/team from free text.
	ParseOwnerInfo(ctx context.Context, ownerStr string) (OwnerInfo, error)
	// ClassifyDeviceType classifies a device from bounded textual context.
	ClassifyDeviceType(ctx context.Context, contextStr string) (DeviceClass, error)
	// NormalizeSite canonicalizes a site string to CITY-BUILDING-AREA.
	NormalizeSite(ctx context.Context, siteStr string) (string, error)
	// InferDomain proposes a DNS domain suffix from hostname and site hints.
	InferDomain(ctx context.Context, hostname, site string) (string, error)
}

// OwnerInfo is the owner-parse response shape.
type OwnerInfo struct {
	Owner      string
	OwnerEmail string
	OwnerTeam  string
}

// DeviceClass is the device-classification response shape.
type DeviceClass struct {
	DeviceType string
	Confidence domain.Confidence
}

// Outcome is the shared tag for every escalation result: either the
// collaborator resolved the field, or the caller must fall back.
type Outcome struct {
	Resolved bool
	// Reason records why an unresolved call failed (disabled, timeout,
	// schema violation, ...). Empty when resolved.
	Reason string
}

func unresolved(err error) Outcome {
	if err == nil {
		return Outcome{Reason: "collaborator_disabled"}
	}
	return Outcome{Reason: err.Error()}
}

// OwnerOutcome is the result of an owner escalation.
type OwnerOutcome struct {
	Outcome
	Owner string
	Email string
	Team  string
}

// DeviceOutcome is the result of a device-type escalation.
type DeviceOutcome struct {
	Outcome
	Type       string
	Confidence domain.Confidence
}

// SiteOutcome is the result of a site escalation.
type SiteOutcome struct {
	Outcome
	Normalized string
}

// DomainOutcome is the result of a domain-inference escalation.
type DomainOutcome struct {
	Outcome
	Domain string
}

// Policy wraps a Collaborator with the per-call timeout and the
// canonicalization applied to every accepted response. A nil collaborator is
// a valid configuration: every escalation is then unresolved.
type Policy struct {
	collab  Collaborator
	timeout time.Duration
}

// NewPolicy builds an escalation policy. collab may be nil when the
// collaborator is not configured for the run.
func NewPolicy(collab Collaborator, timeout time.Duration) *Policy {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Policy{collab: collab, timeout: timeout}
}

// Enabled reports whether a collaborator is configured.
func (p *Policy) Enabled() bool {
	return p.collab != nil
}

func (p *Policy) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, p.timeout)
}

// ResolveOwner makes one owner-parse attempt. Accepted values are lowercased,
// the team re-checked against the known team set, and the email re-validated
// against the owner grammar; the collaborator's casing is never trusted.
func (p *Policy) ResolveOwner(ctx context.Context, raw string, rules *config.Rules) OwnerOutcome {
	if p.collab == nil {
		return OwnerOutcome{Outcome: unresolved(nil)}
	}

	callCtx, cancel := p.callCtx(ctx)
	defer cancel()

	info, err := p.collab.ParseOwnerInfo(callCtx, raw)
	if err != nil {
		return OwnerOutcome{Outcome: unresolved(err)}
	}

	team := strings.ToLower(strings.TrimSpace(info.OwnerTeam))
	if team != "" && !rules.IsTeamKeyword(team) {
		team = ""
	}

	email := strings.ToLower(strings.TrimSpace(info.OwnerEmail))
	if !normalize.ValidEmail(email) {
		email = ""
	}

	return OwnerOutcome{
		Outcome: Outcome{Resolved: true},
		Owner:   strings.ToLower(strings.TrimSpace(info.Owner)),
		Email:   email,
		Team:    team,
	}
}

// ClassifyDevice makes one device-classification attempt. The returned type
// must already be canonical (the client validates the enum); it is lowercased
// here regardless.
func (p *Policy) ClassifyDevice(ctx context.Context, contextStr string) DeviceOutcome {
	if p.collab == nil {
		return DeviceOutcome{Outcome: unresolved(nil)}
	}

	callCtx, cancel := p.callCtx(ctx)
	defer cancel()

	class, err := p.collab.ClassifyDeviceType(callCtx, contextStr)
	if err != nil {
		return DeviceOutcome{Outcome: unresolved(err)}
	}

	return DeviceOutcome{
		Outcome:    Outcome{Resolved: true},
		Type:       strings.ToLower(strings.TrimSpace(class.DeviceType)),
		Confidence: class.Confidence,
	}
}

// ResolveSite makes one site-normalization attempt. The accepted value is
// re-cased by the same rules a deterministic result would receive.
func (p *Policy) ResolveSite(ctx context.Context, raw string, rules *config.Rules) SiteOutcome {
	if p.collab == nil {
		return SiteOutcome{Outcome: unresolved(nil)}
	}

	callCtx, cancel := p.callCtx(ctx)
	defer cancel()

	normalized, err := p.collab.NormalizeSite(callCtx, raw)
	if err != nil {
		return SiteOutcome{Outcome: unresolved(err)}
	}

	return SiteOutcome{
		Outcome:    Outcome{Resolved: true},
		Normalized: recaseSite(normalized),
	}
}

// InferDomain makes one domain-inference attempt.
func (p *Policy) InferDomain(ctx context.Context, hostname, site string) DomainOutcome {
	if p.collab == nil {
		return DomainOutcome{Outcome: unresolved(nil)}
	}

	callCtx, cancel := p.callCtx(ctx)
	defer cancel()

	dom, err := p.collab.InferDomain(callCtx, hostname, site)
	if err != nil {
		return DomainOutcome{Outcome: unresolved(err)}
	}

	dom = strings.ToLower(strings.Trim(strings.TrimSpace(dom), "."))
	if dom == "" || !validDomain(dom) {
		return DomainOutcome{Outcome: Outcome{Reason: "malformed domain in response"}}
	}

	return DomainOutcome{Outcome: Outcome{Resolved: true}, Domain: dom}
}

// recaseSite reapplies the CITY-BUILDING-AREA casing to a collaborator
// answer: first component uppercased, the rest title-cased.
func recaseSite(s string) string {
	parts := strings.Split(strings.TrimSpace(s), "-")
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 {
			parts[i] = strings.ToUpper(p)
			continue
		}
		runes := []rune(p)
		parts[i] = strings.ToUpper(string(runes[0])) + strings.ToLower(string(runes[1:]))
	}
	return strings.Join(parts, "-")
}

func validDomain(dom string) bool {
	fr := normalize.NormalizeFQDN(dom, "")
	return fr.Valid && fr.FQDN == dom
}
