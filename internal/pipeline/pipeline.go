// Package pipeline orchestrates per-record normalization: each raw record
// flows through the address, MAC, hostname, owner, device-type, site, and
// FQDN stages in order, collecting steps and issues as it goes. Records are
// independent of each other; the audit ledger is the only shared state and
// receives exactly one append per record.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"invnorm/internal/config"
	"invnorm/internal/domain"
	"invnorm/internal/escalate"
	"invnorm/internal/ledger"
	"invnorm/internal/metric"
	"invnorm/internal/normalize"
)

// Pipeline normalizes raw inventory records against a shared read-only rules
// configuration. Safe for concurrent use: all per-record state is local.
type Pipeline struct {
	rules   *config.Rules
	policy  *escalate.Policy
	ledger  *ledger.Ledger
	metrics *metric.Metrics
	workers int
}

// New builds a pipeline. metrics may be nil to disable instrumentation.
func New(rules *config.Rules, policy *escalate.Policy, led *ledger.Ledger, metrics *metric.Metrics, workers int) *Pipeline {
	if workers <= 0 {
		workers = 1
	}
	return &Pipeline{
		rules:   rules,
		policy:  policy,
		ledger:  led,
		metrics: metrics,
		workers: workers,
	}
}

// Ledger exposes the run ledger for reporting after a run completes.
func (p *Pipeline) Ledger() *ledger.Ledger {
	return p.ledger
}

// Run processes all records across the worker pool and returns normalized
// records in input order. Records are never dropped; every failure degrades
// to flags and anomalies on the record itself.
func (p *Pipeline) Run(ctx context.Context, records []domain.RawRecord) []domain.NormalizedRecord {
	out := make([]domain.NormalizedRecord, len(records))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				rec, issues := p.Process(ctx, records[i], i)
				out[i] = rec
				p.ledger.Append(recordID(rec.SourceRowID, i), issues)
				if p.metrics != nil {
					p.metrics.RecordsProcessed.Inc()
					for _, issue := range issues {
						p.metrics.AnomaliesTotal.WithLabelValues(string(issue.Kind), issue.Field).Inc()
					}
				}
			}
		}()
	}

	for i := range records {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return out
}

// recordID falls back to a positional identity when the source row carried
// none, so anomalies always reference something.
func recordID(sourceRowID string, index int) string {
	if domain.Missing(sourceRowID) {
		return fmt.Sprintf("row:%d", index+1)
	}
	return sourceRowID
}

// Process normalizes one record. The returned issues are the caller's to
// append to the ledger; Process itself never touches shared state.
func (p *Pipeline) Process(ctx context.Context, raw domain.RawRecord, index int) (domain.NormalizedRecord, []domain.Issue) {
	var issues []domain.Issue
	rec := domain.NormalizedRecord{SourceRowID: raw.SourceRowID}

	if domain.Missing(raw.SourceRowID) {
		issues = append(issues, domain.Issue{
			Field:             "source_row_id",
			Kind:              domain.AnomalyMissingRequiredField,
			Detail:            fmt.Sprintf("record at position %d has no source_row_id", index+1),
			RecommendedAction: "Assign a unique source row identifier",
		})
	}

	issues = append(issues, p.applyAddress(&rec, raw)...)
	issues = append(issues, p.applyMAC(&rec, raw)...)
	issues = append(issues, p.applyHostname(&rec, raw)...)
	issues = append(issues, p.applyOwner(ctx, &rec, raw)...)
	issues = append(issues, p.applyDeviceType(ctx, &rec, raw)...)
	issues = append(issues, p.applySite(ctx, &rec, raw)...)
	// FQDN runs last: domain inference feeds on the resolved owner email and
	// normalized site.
	issues = append(issues, p.applyFQDN(ctx, &rec, raw)...)

	return rec, issues
}

func addSteps(rec *domain.NormalizedRecord, steps []string) {
	for _, s := range steps {
		rec.AddStep(s)
	}
}

func (p *Pipeline) applyAddress(rec *domain.NormalizedRecord, raw domain.RawRecord) []domain.Issue {
	res := normalize.CanonicalizeAddress(raw.IP, raw.Subnet, p.rules)
	rec.IP = res.IP
	rec.IPValid = res.Valid
	rec.IPVersion = res.Version
	rec.SubnetCIDR = res.SubnetCIDR
	rec.ReversePTR = res.ReversePTR
	addSteps(rec, res.Steps)
	return res.Issues
}

func (p *Pipeline) applyMAC(rec *domain.NormalizedRecord, raw domain.RawRecord) []domain.Issue {
	res := normalize.CanonicalizeMAC(raw.MAC)
	rec.MAC = res.MAC
	rec.MACValid = res.Valid
	addSteps(rec, res.Steps)
	return res.Issues
}

func (p *Pipeline) applyHostname(rec *domain.NormalizedRecord, raw domain.RawRecord) []domain.Issue {
	res := normalize.NormalizeHostname(raw.Hostname)
	rec.Hostname = res.Hostname
	rec.HostnameValid = res.Valid
	addSteps(rec, res.Steps)
	return res.Issues
}

func (p *Pipeline) applyOwner(ctx context.Context, rec *domain.NormalizedRecord, raw domain.RawRecord) []domain.Issue {
	res := normalize.ResolveOwner(raw.Owner, p.rules)
	rec.Owner = res.Owner
	rec.OwnerEmail = res.Email
	rec.OwnerTeam = res.Team
	addSteps(rec, res.Steps)

	if !res.Ambiguous {
		return nil
	}

	out := p.policy.ResolveOwner(ctx, strings.TrimSpace(raw.Owner), p.rules)
	if p.metrics != nil {
		p.metrics.ObserveEscalation("owner", out.Resolved)
	}
	if !out.Resolved {
		rec.AddStep("owner_llm_failed")
		return []domain.Issue{{
			Field:             "owner",
			Kind:              domain.AnomalyUnresolvedOwner,
			Detail:            fmt.Sprintf("escalation failed (%s): %q", out.Reason, raw.Owner),
			RecommendedAction: "Review owner field manually",
		}}
	}

	// Deterministic findings win where the collaborator came back empty.
	if out.Owner != "" {
		rec.Owner = out.Owner
	}
	if out.Email != "" {
		rec.OwnerEmail = out.Email
	}
	if out.Team != "" {
		rec.OwnerTeam = out.Team
	}
	rec.AddStep("owner_llm_inferred")
	return nil
}

func (p *Pipeline) applyDeviceType(ctx context.Context, rec *domain.NormalizedRecord, raw domain.RawRecord) []domain.Issue {
	res := normalize.ClassifyDeviceType(raw.DeviceType, p.rules)
	if res.Resolved {
		rec.DeviceType = res.Type
		rec.DeviceTypeConfidence = res.Confidence
		addSteps(rec, res.Steps)
		return nil
	}

	contextStr := deviceContext(rec.Hostname, raw.DeviceType, raw.Notes)
	out := p.policy.ClassifyDevice(ctx, contextStr)
	if p.metrics != nil {
		p.metrics.ObserveEscalation("device_type", out.Resolved)
	}
	if !out.Resolved {
		rec.DeviceType = string(domain.DeviceUnknown)
		rec.DeviceTypeConfidence = domain.ConfidenceLow
		rec.AddStep("device_type_llm_failed")
		return []domain.Issue{{
			Field:             "device_type",
			Kind:              domain.AnomalyUnresolvedDeviceType,
			Detail:            fmt.Sprintf("escalation failed (%s): %q", out.Reason, raw.DeviceType),
			RecommendedAction: "Classify device type manually",
		}}
	}

	rec.DeviceType = out.Type
	rec.DeviceTypeConfidence = out.Confidence
	rec.AddStep("device_type_llm_classified")
	return nil
}

// deviceContext assembles the bounded textual context handed to the
// collaborator for classification.
func deviceContext(hostname, deviceType, notes string) string {
	var parts []string
	if hostname != "" {
		parts = append(parts, "hostname: "+hostname)
	}
	if !domain.Missing(deviceType) {
		parts = append(parts, "provided_type: "+strings.TrimSpace(deviceType))
	}
	if !domain.Missing(notes) {
		parts = append(parts, "notes: "+strings.TrimSpace(notes))
	}
	return strings.Join(parts, ", ")
}

func (p *Pipeline) applySite(ctx context.Context, rec *domain.NormalizedRecord, raw domain.RawRecord) []domain.Issue {
	rec.Site = strings.TrimSpace(raw.Site)

	if domain.Missing(raw.Site) {
		return nil
	}

	res := normalize.NormalizeSite(raw.Site, p.rules)
	if res.Resolved {
		rec.SiteNormalized = res.Normalized
		addSteps(rec, res.Steps)
		return nil
	}

	out := p.policy.ResolveSite(ctx, rec.Site, p.rules)
	if p.metrics != nil {
		p.metrics.ObserveEscalation("site", out.Resolved)
	}
	if !out.Resolved {
		// Fallback keeps the site as given, with no confidence claim.
		rec.SiteNormalized = rec.Site
		rec.AddStep("site_llm_failed")
		return []domain.Issue{{
			Field:             "site",
			Kind:              domain.AnomalyUnresolvedSite,
			Detail:            fmt.Sprintf("escalation failed (%s): %q", out.Reason, raw.Site),
			RecommendedAction: "Normalize site name manually",
		}}
	}

	rec.SiteNormalized = out.Normalized
	rec.AddStep("site_llm_inferred")
	return nil
}

func (p *Pipeline) applyFQDN(ctx context.Context, rec *domain.NormalizedRecord, raw domain.RawRecord) []domain.Issue {
	hostname := ""
	if rec.HostnameValid {
		hostname = rec.Hostname
	}

	res := normalize.NormalizeFQDN(raw.FQDN, hostname)
	addSteps(rec, res.Steps)

	if !res.Constructed {
		rec.FQDN = res.FQDN
		rec.FQDNConsistent = res.Consistent
		return res.Issues
	}

	// No FQDN supplied: build hostname + inferred domain. The inference
	// chain is email domain, site mapping, collaborator, configured default;
	// everything past the email rung is a lower-confidence path.
	dom, source := normalize.InferDomain(rec.OwnerEmail, rec.SiteNormalized, p.rules)
	var issues []domain.Issue
	switch source {
	case normalize.DomainFromEmail:
		rec.AddStep("fqdn_domain_from_email")
	case normalize.DomainFromSite:
		rec.AddStep("fqdn_domain_from_site")
	default:
		out := p.policy.InferDomain(ctx, hostname, rec.SiteNormalized)
		if p.metrics != nil {
			p.metrics.ObserveEscalation("domain", out.Resolved)
		}
		if out.Resolved {
			dom = out.Domain
			rec.AddStep("domain_llm_inferred")
		} else {
			rec.AddStep("domain_llm_failed")
			issues = append(issues, domain.Issue{
				Field:             "fqdn",
				Kind:              domain.AnomalyUnresolvedDomain,
				Detail:            fmt.Sprintf("escalation failed (%s); using default domain", out.Reason),
				RecommendedAction: "Confirm DNS domain for this host",
			})
			dom = p.rules.DefaultDomain
			rec.AddStep("fqdn_domain_default")
		}
	}

	rec.FQDN = hostname + "." + dom
	rec.FQDNConsistent = true
	rec.AddStep("fqdn_constructed")
	return issues
}
