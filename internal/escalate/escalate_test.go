package escalate

import (
	"context"
	"errors"
	"testing"
	"time"

	"invnorm/internal/config"
	"invnorm/internal/domain"
)

// fakeCollaborator scripts responses per call shape.
type fakeCollaborator struct {
	owner     OwnerInfo
	device    DeviceClass
	site      string
	domainStr string
	err       error
}

func (f *fakeCollaborator) ParseOwnerInfo(ctx context.Context, ownerStr string) (OwnerInfo, error) {
	return f.owner, f.err
}

func (f *fakeCollaborator) ClassifyDeviceType(ctx context.Context, contextStr string) (DeviceClass, error) {
	return f.device, f.err
}

func (f *fakeCollaborator) NormalizeSite(ctx context.Context, siteStr string) (string, error) {
	return f.site, f.err
}

func (f *fakeCollaborator) InferDomain(ctx context.Context, hostname, site string) (string, error) {
	return f.domainStr, f.err
}

func testRules() *config.Rules {
	r := config.DefaultRules()
	return &r
}

func TestPolicyDisabled(t *testing.T) {
	p := NewPolicy(nil, time.Second)
	ctx := context.Background()

	if p.Enabled() {
		t.Error("nil collaborator should report disabled")
	}

	if out := p.ResolveOwner(ctx, "someone", testRules()); out.Resolved {
		t.Error("disabled policy must not resolve owner")
	}
	if out := p.ClassifyDevice(ctx, "hostname: x"); out.Resolved {
		t.Error("disabled policy must not resolve device")
	}
	if out := p.ResolveSite(ctx, "somewhere", testRules()); out.Resolved {
		t.Error("disabled policy must not resolve site")
	}
	out := p.InferDomain(ctx, "web01", "")
	if out.Resolved {
		t.Error("disabled policy must not resolve domain")
	}
	if out.Reason != "collaborator_disabled" {
		t.Errorf("unexpected reason %q", out.Reason)
	}
}

func TestPolicyCollaboratorFailure(t *testing.T) {
	fake := &fakeCollaborator{err: errors.New("timeout")}
	p := NewPolicy(fake, time.Second)

	out := p.ClassifyDevice(context.Background(), "hostname: cam-lobby-2")
	if out.Resolved {
		t.Fatal("expected unresolved on collaborator error")
	}
	if out.Reason != "timeout" {
		t.Errorf("expected failure reason carried through, got %q", out.Reason)
	}
}

func TestPolicyOwnerCanonicalization(t *testing.T) {
	fake := &fakeCollaborator{owner: OwnerInfo{
		Owner:      " Priya ",
		OwnerEmail: "PRIYA@Corp.Example.COM",
		OwnerTeam:  "Platform",
	}}
	p := NewPolicy(fake, time.Second)

	out := p.ResolveOwner(context.Background(), "whatever", testRules())
	if !out.Resolved {
		t.Fatalf("expected resolved, got reason %q", out.Reason)
	}
	if out.Owner != "priya" || out.Email != "priya@corp.example.com" || out.Team != "platform" {
		t.Errorf("collaborator casing must be normalized, got %+v", out)
	}
}

func TestPolicyOwnerMalformedEmailDropped(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{"well-formed kept", "priya@corp.example.com", "priya@corp.example.com"},
		{"bare word dropped", "not-an-email", ""},
		{"missing tld dropped", "priya@corp", ""},
		{"trailing text dropped", "priya@corp.example.com oh and", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeCollaborator{owner: OwnerInfo{OwnerEmail: tt.email}}
			p := NewPolicy(fake, time.Second)

			out := p.ResolveOwner(context.Background(), "whatever", testRules())
			if !out.Resolved {
				t.Fatal("expected resolved")
			}
			if out.Email != tt.want {
				t.Errorf("expected email %q, got %q", tt.want, out.Email)
			}
		})
	}
}

func TestPolicyOwnerUnknownTeamDropped(t *testing.T) {
	fake := &fakeCollaborator{owner: OwnerInfo{OwnerTeam: "wizards"}}
	p := NewPolicy(fake, time.Second)

	out := p.ResolveOwner(context.Background(), "whatever", testRules())
	if !out.Resolved {
		t.Fatal("expected resolved")
	}
	if out.Team != "" {
		t.Errorf("unknown team must be dropped, got %q", out.Team)
	}
}

func TestPolicyDeviceResult(t *testing.T) {
	fake := &fakeCollaborator{device: DeviceClass{
		DeviceType: "camera",
		Confidence: domain.ConfidenceMedium,
	}}
	p := NewPolicy(fake, time.Second)

	out := p.ClassifyDevice(context.Background(), "hostname: cam-lobby-2")
	if !out.Resolved || out.Type != "camera" || out.Confidence != domain.ConfidenceMedium {
		t.Errorf("unexpected outcome %+v", out)
	}
}

func TestPolicySiteRecased(t *testing.T) {
	fake := &fakeCollaborator{site: "blr-campus"}
	p := NewPolicy(fake, time.Second)

	out := p.ResolveSite(context.Background(), "blr campus area", testRules())
	if !out.Resolved || out.Normalized != "BLR-Campus" {
		t.Errorf("expected BLR-Campus, got %+v", out)
	}
}

func TestPolicyDomainValidation(t *testing.T) {
	t.Run("well-formed domain accepted", func(t *testing.T) {
		fake := &fakeCollaborator{domainStr: "Corp.Example.COM."}
		p := NewPolicy(fake, time.Second)
		out := p.InferDomain(context.Background(), "web01", "")
		if !out.Resolved || out.Domain != "corp.example.com" {
			t.Errorf("unexpected outcome %+v", out)
		}
	})

	t.Run("malformed domain rejected", func(t *testing.T) {
		fake := &fakeCollaborator{domainStr: "not a domain"}
		p := NewPolicy(fake, time.Second)
		out := p.InferDomain(context.Background(), "web01", "")
		if out.Resolved {
			t.Errorf("expected unresolved, got %+v", out)
		}
	})
}

func TestRecaseSite(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hq-building-1", "HQ-Building-1"},
		{"BLR-CAMPUS", "BLR-Campus"},
		{"dc-1", "DC-1"},
		{"muc-münchen-1", "MUC-München-1"},
	}
	for _, tt := range tests {
		if got := recaseSite(tt.in); got != tt.want {
			t.Errorf("recaseSite(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
