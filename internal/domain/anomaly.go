package domain

// AnomalyKind classifies a detected data problem.
type AnomalyKind string

const (
	AnomalyInvalidIP            AnomalyKind = "invalid_ip"
	AnomalyInvalidMAC           AnomalyKind = "invalid_mac"
	AnomalyInvalidHostname      AnomalyKind = "invalid_hostname"
	AnomalyFQDNMismatch         AnomalyKind = "fqdn_mismatch"
	AnomalyUnresolvedOwner      AnomalyKind = "unresolved_owner"
	AnomalyUnresolvedDeviceType AnomalyKind = "unresolved_device_type"
	AnomalyUnresolvedSite       AnomalyKind = "unresolved_site"
	AnomalyUnresolvedDomain     AnomalyKind = "unresolved_domain"
	AnomalyMissingRequiredField AnomalyKind = "missing_required_field"
	AnomalyDataConflict         AnomalyKind = "data_conflict"
)

// Issue is a field-scoped problem detected while normalizing a single record.
// The pipeline attaches the record identity and run identity when it turns an
// Issue into a ledger Anomaly.
type Issue struct {
	Field             string      `json:"field"`
	Kind              AnomalyKind `json:"kind"`
	Detail            string      `json:"detail"`
	RecommendedAction string      `json:"recommended_action"`
}

// Anomaly is one immutable entry in the run-wide anomaly report.
type Anomaly struct {
	ID                string      `json:"id"`
	RecordID          string      `json:"record_id"`
	Field             string      `json:"field"`
	Kind              AnomalyKind `json:"kind"`
	Detail            string      `json:"detail"`
	RecommendedAction string      `json:"recommended_action"`
}
