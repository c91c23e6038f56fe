package llm

import "testing"

func TestParseExactObject(t *testing.T) {
	tests := []struct {
		name    string
		content string
		keys    []string
		wantErr bool
	}{
		{
			name:    "exact keys",
			content: `{"owner": "jane doe", "owner_email": "jane@corp.example.com", "owner_team": "ops"}`,
			keys:    []string{"owner", "owner_email", "owner_team"},
		},
		{
			name:    "empty string values accepted",
			content: `{"owner": "", "owner_email": "", "owner_team": ""}`,
			keys:    []string{"owner", "owner_email", "owner_team"},
		},
		{
			name:    "extra key rejected",
			content: `{"owner": "jane", "owner_email": "", "owner_team": "", "note": "hi"}`,
			keys:    []string{"owner", "owner_email", "owner_team"},
			wantErr: true,
		},
		{
			name:    "missing key rejected",
			content: `{"owner": "jane", "owner_email": ""}`,
			keys:    []string{"owner", "owner_email", "owner_team"},
			wantErr: true,
		},
		{
			name:    "wrong key name rejected",
			content: `{"owner": "jane", "email": "", "owner_team": ""}`,
			keys:    []string{"owner", "owner_email", "owner_team"},
			wantErr: true,
		},
		{
			name:    "non-string value rejected",
			content: `{"device_type": "server", "device_type_confidence": 3}`,
			keys:    []string{"device_type", "device_type_confidence"},
			wantErr: true,
		},
		{
			name:    "nested value rejected",
			content: `{"owner": {"name": "jane"}, "owner_email": "", "owner_team": ""}`,
			keys:    []string{"owner", "owner_email", "owner_team"},
			wantErr: true,
		},
		{
			name:    "array rejected",
			content: `["server", "high"]`,
			keys:    []string{"device_type", "device_type_confidence"},
			wantErr: true,
		},
		{
			name:    "markdown fenced reply rejected",
			content: "```json\n{\"domain\": \"corp.example.com\"}\n```",
			keys:    []string{"domain"},
			wantErr: true,
		},
		{
			name:    "plain text rejected",
			content: `The device is a server.`,
			keys:    []string{"device_type", "device_type_confidence"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseExactObject(tt.content, tt.keys...)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.keys) {
				t.Errorf("expected %d fields, got %d", len(tt.keys), len(got))
			}
		})
	}
}

func TestValidateTeam(t *testing.T) {
	for _, team := range []string{"", "platform", "ops", "operations", "sec", "security", "facilities"} {
		if err := validateTeam(team); err != nil {
			t.Errorf("validateTeam(%q) = %v", team, err)
		}
	}
	for _, team := range []string{"engineering", "OPS", "it"} {
		if err := validateTeam(team); err == nil {
			t.Errorf("validateTeam(%q) should fail", team)
		}
	}
}

func TestValidateDeviceType(t *testing.T) {
	for _, dt := range []string{"server", "switch", "router", "printer", "iot", "camera", "firewall", "load_balancer", "unknown"} {
		if err := validateDeviceType(dt); err != nil {
			t.Errorf("validateDeviceType(%q) = %v", dt, err)
		}
	}
	if err := validateDeviceType("mainframe"); err == nil {
		t.Error("validateDeviceType(mainframe) should fail")
	}
}

func TestValidateConfidence(t *testing.T) {
	for _, c := range []string{"high", "medium", "low"} {
		if err := validateConfidence(c); err != nil {
			t.Errorf("validateConfidence(%q) = %v", c, err)
		}
	}
	for _, c := range []string{"", "certain", "High"} {
		if err := validateConfidence(c); err == nil {
			t.Errorf("validateConfidence(%q) should fail", c)
		}
	}
}
