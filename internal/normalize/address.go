package normalize

import (
	"fmt"
	"net/netip"
	"strconv"
	"strings"

	"invnorm/internal/config"
	"invnorm/internal/domain"
)

// AddressClass is the special-use classification of a validated address.
// It is context for the audit trail, not an error.
type AddressClass string

const (
	ClassPrivate   AddressClass = "private_rfc1918"
	ClassLinkLocal AddressClass = "link_local_apipa"
	ClassLoopback  AddressClass = "loopback"
	ClassNetworkID AddressClass = "network_id"
	ClassBroadcast AddressClass = "broadcast"
	ClassPublic    AddressClass = "public_or_other"
)

// AddressResult is the outcome of canonicalizing one raw ip field.
type AddressResult struct {
	IP         string
	Valid      bool
	Version    domain.IPVersion
	SubnetCIDR string
	ReversePTR string
	// Zone holds an IPv6 zone identifier stripped from the canonical form.
	Zone string
	// Class is set for valid IPv4 addresses.
	Class  AddressClass
	Steps  []string
	Issues []domain.Issue
}

func (r *AddressResult) step(s string) {
	r.Steps = append(r.Steps, s)
}

func (r *AddressResult) invalid(raw, reason string) AddressResult {
	r.IP = strings.TrimSpace(raw)
	r.Valid = false
	r.Version = domain.IPUnknown
	r.step("ip_invalid_" + reason)
	r.Issues = append(r.Issues, domain.Issue{
		Field:             "ip",
		Kind:              domain.AnomalyInvalidIP,
		Detail:            fmt.Sprintf("%s: %q", reason, raw),
		RecommendedAction: "Correct IP address or mark record for review",
	})
	return *r
}

// CanonicalizeAddress validates and canonicalizes a raw IP field.
//
// IPv4 must be exactly four dot-separated decimal octets in [0,255]; octets
// with leading zeros are repaired to their canonical decimal form rather than
// rejected, and the repair is logged. A ':' or '%' routes the value to IPv6
// handling: RFC 4291 structure with at most one '::', an optional zone after
// '%' (stripped and kept separately), canonical form fully expanded to 8
// lowercase hex groups.
//
// explicitSubnet, when present and parseable, overrides the subnet heuristic;
// a valid address outside the declared subnet raises a data_conflict issue.
func CanonicalizeAddress(raw, explicitSubnet string, rules *config.Rules) AddressResult {
	var r AddressResult

	if domain.Missing(raw) {
		r.step("ip_invalid_missing")
		return r
	}

	s := strings.TrimSpace(raw)
	r.step("ip_trim")

	if strings.ContainsAny(s, ":%") {
		return canonicalizeIPv6(s, explicitSubnet, &r, rules)
	}

	parts := strings.Split(s, ".")
	switch {
	case len(parts) < 4:
		return r.invalid(raw, "wrong_part_count")
	case len(parts) > 4:
		return r.invalid(raw, "too_many_parts")
	}

	octets := make([]string, 4)
	repaired := false
	for i, p := range parts {
		if p == "" {
			return r.invalid(raw, "empty_octet")
		}
		for _, c := range p {
			if c < '0' || c > '9' {
				return r.invalid(raw, "non_numeric_or_negative")
			}
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return r.invalid(raw, "non_decimal_format")
		}
		if v > 255 {
			return r.invalid(raw, "octet_out_of_range")
		}
		canon := strconv.Itoa(v)
		if canon != p {
			repaired = true
		}
		octets[i] = canon
	}

	r.step("ip_parse")
	if repaired {
		r.step("ip_leading_zeros_normalized")
	}
	r.step("ip_normalize")

	r.IP = strings.Join(octets, ".")
	r.Valid = true
	r.Version = domain.IPv4
	r.Class = classifyIPv4(octets)
	if r.Class != ClassPublic {
		r.step("ip_special_use_" + string(r.Class))
	}

	r.deriveSubnet(explicitSubnet, octets, rules)
	r.ReversePTR = reversePTRv4(octets)
	r.step("reverse_ptr_generated")

	return r
}

func canonicalizeIPv6(s, explicitSubnet string, r *AddressResult, rules *config.Rules) AddressResult {
	if !strings.Contains(s, ":") {
		return r.invalid(s, "unknown_format")
	}

	addr, err := netip.ParseAddr(s)
	if err != nil || !addr.Is6() || addr.Is4In6() {
		return r.invalid(s, "invalid_ipv6_format")
	}

	if zone := addr.Zone(); zone != "" {
		r.Zone = zone
		addr = addr.WithZone("")
		r.step("ip_zone_stripped")
	}

	r.step("ip_parse")
	r.step("ip_normalize")

	// Canonical form is the full 8-group expansion, lowercase.
	r.IP = addr.StringExpanded()
	r.Valid = true
	r.Version = domain.IPv6

	r.deriveSubnet(explicitSubnet, nil, rules)
	r.ReversePTR = reversePTRv6(r.IP)
	r.step("reverse_ptr_generated")

	return *r
}

func classifyIPv4(octets []string) AddressClass {
	o := make([]int, 4)
	for i, p := range octets {
		o[i], _ = strconv.Atoi(p)
	}

	switch {
	case o[0] == 127:
		return ClassLoopback
	case o[0] == 169 && o[1] == 254:
		return ClassLinkLocal
	case o[0] == 10,
		o[0] == 172 && o[1] >= 16 && o[1] <= 31,
		o[0] == 192 && o[1] == 168:
		// Host-bit forms are judged within an assumed /24.
		switch o[3] {
		case 0:
			return ClassNetworkID
		case 255:
			return ClassBroadcast
		}
		return ClassPrivate
	default:
		return ClassPublic
	}
}

// deriveSubnet applies the explicit subnet when one was supplied, otherwise
// the IPv4 heuristic: private /24, link-local /16, loopback /8, public per
// policy. IPv6 carries no heuristic; octets may be nil then. The heuristic is
// a policy choice for downstream IPAM seeding, not a claim about actual
// network topology.
func (r *AddressResult) deriveSubnet(explicit string, octets []string, rules *config.Rules) {
	if !domain.Missing(explicit) {
		prefix, err := netip.ParsePrefix(strings.TrimSpace(explicit))
		if err == nil {
			r.SubnetCIDR = prefix.Masked().String()
			r.step("subnet_from_input")
			if addr, aerr := netip.ParseAddr(r.IP); aerr == nil && !prefix.Contains(addr) {
				r.Issues = append(r.Issues, domain.Issue{
					Field:             "subnet",
					Kind:              domain.AnomalyDataConflict,
					Detail:            fmt.Sprintf("ip %s not within declared subnet %s", r.IP, r.SubnetCIDR),
					RecommendedAction: "Verify subnet assignment for this host",
				})
			}
			return
		}
		r.Issues = append(r.Issues, domain.Issue{
			Field:             "subnet",
			Kind:              domain.AnomalyDataConflict,
			Detail:            fmt.Sprintf("unparseable declared subnet %q", explicit),
			RecommendedAction: "Correct subnet CIDR notation",
		})
	}

	if r.Version != domain.IPv4 {
		return
	}

	switch r.Class {
	case ClassPrivate, ClassNetworkID, ClassBroadcast:
		r.SubnetCIDR = fmt.Sprintf("%s.%s.%s.0/24", octets[0], octets[1], octets[2])
	case ClassLinkLocal:
		r.SubnetCIDR = "169.254.0.0/16"
	case ClassLoopback:
		r.SubnetCIDR = "127.0.0.0/8"
	case ClassPublic:
		if rules != nil && rules.SubnetPublicPolicy == config.SubnetPublicHostRoute {
			r.SubnetCIDR = r.IP + "/32"
		}
	}

	if r.SubnetCIDR != "" {
		r.step("subnet_derived")
	}
}

func reversePTRv4(octets []string) string {
	return fmt.Sprintf("%s.%s.%s.%s.in-addr.arpa", octets[3], octets[2], octets[1], octets[0])
}

// reversePTRv6 expects the fully expanded canonical form.
func reversePTRv6(expanded string) string {
	hex := strings.ReplaceAll(expanded, ":", "")
	nibbles := make([]string, 0, len(hex))
	for i := len(hex) - 1; i >= 0; i-- {
		nibbles = append(nibbles, string(hex[i]))
	}
	return strings.Join(nibbles, ".") + ".ip6.arpa"
}
