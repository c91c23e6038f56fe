package normalize

import "testing"

func TestNormalizeSite(t *testing.T) {
	rules := testRules()

	t.Run("known forms", func(t *testing.T) {
		tests := []struct {
			input string
			want  string
		}{
			{"HQ Bldg 1", "HQ-Building-1"},
			{"hq bldg 1", "HQ-Building-1"},
			{"BLR Campus", "BLR-Campus"},
			{"blr_campus", "BLR-Campus"},
			{"Lab-1", "HQ-Lab-1"},
			{"DC-1", "DC-1"},
		}
		for _, tt := range tests {
			res := NormalizeSite(tt.input, rules)
			if !res.Resolved {
				t.Errorf("%q: expected resolved", tt.input)
				continue
			}
			if res.Normalized != tt.want {
				t.Errorf("%q: got %q, want %q", tt.input, res.Normalized, tt.want)
			}
		}
	})

	t.Run("token pass defaults missing city", func(t *testing.T) {
		res := NormalizeSite("Lab 7", rules)
		if !res.Resolved || res.Normalized != "HQ-Lab-7" {
			t.Errorf("got (%q, resolved=%v), want HQ-Lab-7", res.Normalized, res.Resolved)
		}
		if !hasStep(res.Steps, "site_default_city") {
			t.Errorf("expected default-city step, got %v", res.Steps)
		}
	})

	t.Run("city plus building tokens", func(t *testing.T) {
		res := NormalizeSite("bangalore building 3", rules)
		if !res.Resolved || res.Normalized != "BLR-Building-3" {
			t.Errorf("got (%q, resolved=%v), want BLR-Building-3", res.Normalized, res.Resolved)
		}
	})

	t.Run("unrecognized token escalates", func(t *testing.T) {
		res := NormalizeSite("warehouse east", rules)
		if res.Resolved {
			t.Errorf("expected unresolved, got %q", res.Normalized)
		}
	})

	t.Run("city alone is not enough", func(t *testing.T) {
		res := NormalizeSite("bangalore", rules)
		if res.Resolved {
			t.Errorf("expected unresolved, got %q", res.Normalized)
		}
	})

	t.Run("missing site", func(t *testing.T) {
		for _, in := range []string{"", "N/A"} {
			res := NormalizeSite(in, rules)
			if res.Resolved || res.Normalized != "" {
				t.Errorf("%q: expected empty unresolved result", in)
			}
		}
	})
}
