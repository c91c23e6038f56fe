package domain

import "strings"

// Confidence is the coarse certainty tier attached to an inferred classification.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// IPVersion tags a validated address as IPv4 or IPv6. Empty means invalid or missing.
type IPVersion string

const (
	IPv4      IPVersion = "4"
	IPv6      IPVersion = "6"
	IPUnknown IPVersion = ""
)

// DeviceType is the canonical device classification set.
type DeviceType string

const (
	DeviceServer       DeviceType = "server"
	DeviceSwitch       DeviceType = "switch"
	DeviceRouter       DeviceType = "router"
	DevicePrinter      DeviceType = "printer"
	DeviceIoT          DeviceType = "iot"
	DeviceCamera       DeviceType = "camera"
	DeviceFirewall     DeviceType = "firewall"
	DeviceLoadBalancer DeviceType = "load_balancer"
	DeviceUnknown      DeviceType = "unknown"
)

// CanonicalDeviceTypes lists every value a classified device type may take.
var CanonicalDeviceTypes = []DeviceType{
	DeviceServer, DeviceSwitch, DeviceRouter, DevicePrinter,
	DeviceIoT, DeviceCamera, DeviceFirewall, DeviceLoadBalancer, DeviceUnknown,
}

// IsCanonicalDeviceType reports whether s is a member of the canonical set.
func IsCanonicalDeviceType(s string) bool {
	for _, t := range CanonicalDeviceTypes {
		if string(t) == s {
			return true
		}
	}
	return false
}

// RawRecord is one immutable inventory row as ingested. Every field except
// SourceRowID is optional; "N/A" (any case) is treated the same as empty.
type RawRecord struct {
	SourceRowID string `json:"source_row_id"`
	IP          string `json:"ip,omitempty"`
	MAC         string `json:"mac,omitempty"`
	Hostname    string `json:"hostname,omitempty"`
	FQDN        string `json:"fqdn,omitempty"`
	Owner       string `json:"owner,omitempty"`
	DeviceType  string `json:"device_type,omitempty"`
	Notes       string `json:"notes,omitempty"`
	Site        string `json:"site,omitempty"`
	Subnet      string `json:"subnet,omitempty"`
}

// Missing reports whether a raw field value should be treated as absent.
func Missing(s string) bool {
	t := strings.TrimSpace(s)
	return t == "" || strings.EqualFold(t, "N/A")
}

// NormalizedRecord is the canonicalized output for one RawRecord. Derived
// fields are reproducible from the raw record, the rules configuration, and
// (when escalation occurred) the recorded collaborator response.
type NormalizedRecord struct {
	SourceRowID string `json:"source_row_id"`

	IP         string    `json:"ip"`
	IPValid    bool      `json:"ip_valid"`
	IPVersion  IPVersion `json:"ip_version"`
	SubnetCIDR string    `json:"subnet_cidr"`
	ReversePTR string    `json:"reverse_ptr"`

	MAC      string `json:"mac"`
	MACValid bool   `json:"mac_valid"`

	Hostname       string `json:"hostname"`
	HostnameValid  bool   `json:"hostname_valid"`
	FQDN           string `json:"fqdn"`
	FQDNConsistent bool   `json:"fqdn_consistent"`

	Owner      string `json:"owner"`
	OwnerEmail string `json:"owner_email"`
	OwnerTeam  string `json:"owner_team"`

	DeviceType           string     `json:"device_type"`
	DeviceTypeConfidence Confidence `json:"device_type_confidence"`

	Site           string `json:"site"`
	SiteNormalized string `json:"site_normalized"`

	// Steps records every applied transformation in application order.
	Steps []string `json:"normalization_steps"`
}

// AddStep appends a step identifier, skipping exact duplicates. Step names are
// field-prefixed, so an identical string means the same operation on the same
// field was already recorded.
func (r *NormalizedRecord) AddStep(step string) {
	for _, s := range r.Steps {
		if s == step {
			return
		}
	}
	r.Steps = append(r.Steps, step)
}

// StepList renders the step sequence in the pipe-joined wire form used by the
// CSV output table.
func (r *NormalizedRecord) StepList() string {
	return strings.Join(r.Steps, "|")
}
