package normalize

import (
	"strings"
	"testing"

	"invnorm/internal/domain"
)

func TestNormalizeHostname(t *testing.T) {
	t.Run("repairs invalid characters", func(t *testing.T) {
		res := NormalizeHostname("  Host_01!")
		if res.Hostname != "host-01" {
			t.Errorf("expected host-01, got %q", res.Hostname)
		}
		if !res.Valid {
			t.Error("repaired form satisfies the label grammar, expected valid")
		}
	})

	t.Run("already canonical", func(t *testing.T) {
		res := NormalizeHostname("web01")
		if !res.Valid || res.Hostname != "web01" {
			t.Errorf("expected web01 valid, got %q valid=%v", res.Hostname, res.Valid)
		}
		if len(res.Steps) == 0 {
			t.Error("a no-op validation pass must still log a step")
		}
	})

	t.Run("all numeric rejected", func(t *testing.T) {
		res := NormalizeHostname("12345")
		if res.Valid {
			t.Fatal("expected invalid")
		}
		if res.Hostname != "12345" {
			t.Errorf("value should be kept, got %q", res.Hostname)
		}
		if len(res.Issues) != 1 || res.Issues[0].Kind != domain.AnomalyInvalidHostname {
			t.Errorf("expected invalid_hostname issue, got %v", res.Issues)
		}
	})

	t.Run("over-length truncates with step", func(t *testing.T) {
		res := NormalizeHostname(strings.Repeat("a", 70))
		if len(res.Hostname) != 63 {
			t.Errorf("expected 63 chars, got %d", len(res.Hostname))
		}
		if !hasStep(res.Steps, "hostname_truncate") {
			t.Errorf("expected truncate step, got %v", res.Steps)
		}
		if !res.Valid {
			t.Error("truncated form should be valid")
		}
	})

	t.Run("hyphen edges stripped", func(t *testing.T) {
		res := NormalizeHostname("-web-01-")
		if res.Hostname != "web-01" || !res.Valid {
			t.Errorf("expected web-01 valid, got %q valid=%v", res.Hostname, res.Valid)
		}
	})

	t.Run("nothing salvageable", func(t *testing.T) {
		res := NormalizeHostname("!!!")
		if res.Valid {
			t.Fatal("expected invalid")
		}
		if len(res.Issues) != 1 {
			t.Errorf("expected one issue, got %v", res.Issues)
		}
	})
}

func TestNormalizeFQDN(t *testing.T) {
	t.Run("lowercases and strips trailing dot", func(t *testing.T) {
		res := NormalizeFQDN("WEB01.Corp.Example.com.", "web01")
		if !res.Valid {
			t.Fatalf("expected valid, got %+v", res)
		}
		if res.FQDN != "web01.corp.example.com" {
			t.Errorf("unexpected fqdn %q", res.FQDN)
		}
		if !res.Consistent {
			t.Error("first label matches hostname, expected consistent")
		}
	})

	t.Run("mismatch reported but kept", func(t *testing.T) {
		res := NormalizeFQDN("db01.corp.example.com", "web01")
		if !res.Valid {
			t.Fatal("expected valid")
		}
		if res.Consistent {
			t.Error("expected inconsistent")
		}
		if len(res.Issues) != 1 || res.Issues[0].Kind != domain.AnomalyFQDNMismatch {
			t.Errorf("expected fqdn_mismatch issue, got %v", res.Issues)
		}
		if res.FQDN != "db01.corp.example.com" {
			t.Errorf("fqdn must be kept as given, got %q", res.FQDN)
		}
	})

	t.Run("absent fqdn with hostname marks construction", func(t *testing.T) {
		res := NormalizeFQDN("", "web01")
		if !res.Constructed {
			t.Error("expected construction marker")
		}
	})

	t.Run("consecutive dots rejected", func(t *testing.T) {
		res := NormalizeFQDN("web01..example.com", "web01")
		if res.Valid {
			t.Fatal("expected invalid")
		}
		if !hasStep(res.Steps, "fqdn_invalid_empty_label") {
			t.Errorf("expected empty_label step, got %v", res.Steps)
		}
	})

	t.Run("total length capped at 253", func(t *testing.T) {
		long := strings.Repeat("abcdefgh.", 30) + "com"
		res := NormalizeFQDN(long, "")
		if res.Valid {
			t.Fatal("expected invalid for over-length fqdn")
		}
	})
}

func TestInferDomain(t *testing.T) {
	rules := testRules()

	tests := []struct {
		name   string
		email  string
		site   string
		domain string
		source DomainSource
	}{
		{"email wins", "jane@corp.example.com", "BLR-Campus", "corp.example.com", DomainFromEmail},
		{"site mapping", "", "BLR-Campus", "blr.corp.example.com", DomainFromSite},
		{"site mapping dc", "", "DC-1", "dc.corp.example.com", DomainFromSite},
		{"nothing deterministic", "", "", "", DomainUndetermined},
		{"unknown city", "", "XYZ-Building-1", "", DomainUndetermined},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dom, source := InferDomain(tt.email, tt.site, rules)
			if dom != tt.domain || source != tt.source {
				t.Errorf("got (%q, %q), want (%q, %q)", dom, source, tt.domain, tt.source)
			}
		})
	}
}
