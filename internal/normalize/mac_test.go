package normalize

import (
	"testing"

	"invnorm/internal/domain"
)

func TestCanonicalizeMAC(t *testing.T) {
	t.Run("all separator styles converge", func(t *testing.T) {
		inputs := []string{
			"aa:bb:cc:dd:ee:ff",
			"AA-BB-CC-DD-EE-FF",
			"aabb.ccdd.eeff",
			"aabbccddeeff",
		}
		for _, in := range inputs {
			res := CanonicalizeMAC(in)
			if !res.Valid {
				t.Errorf("%q: expected valid", in)
				continue
			}
			if res.MAC != "AA:BB:CC:DD:EE:FF" {
				t.Errorf("%q: expected AA:BB:CC:DD:EE:FF, got %s", in, res.MAC)
			}
		}
	})

	t.Run("invalid forms keep original value", func(t *testing.T) {
		invalids := []string{
			"aa:bb:cc:dd:ee",       // too short
			"aa:bb:cc:dd:ee:ff:00", // too long
			"gg:bb:cc:dd:ee:ff",    // non-hex
			"not a mac",
		}
		for _, in := range invalids {
			res := CanonicalizeMAC(in)
			if res.Valid {
				t.Errorf("%q: expected invalid", in)
				continue
			}
			if res.MAC != in {
				t.Errorf("%q: original value must be preserved, got %q", in, res.MAC)
			}
			if len(res.Issues) != 1 || res.Issues[0].Kind != domain.AnomalyInvalidMAC {
				t.Errorf("%q: expected one invalid_mac issue, got %v", in, res.Issues)
			}
		}
	})

	t.Run("missing value raises no issue", func(t *testing.T) {
		for _, in := range []string{"", "N/A"} {
			res := CanonicalizeMAC(in)
			if res.Valid || len(res.Issues) != 0 {
				t.Errorf("%q: missing should be invalid without issues", in)
			}
		}
	})
}
