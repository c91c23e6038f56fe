// Package normalize implements the deterministic field canonicalizers: IP
// address, MAC address, hostname/FQDN, owner, device type, and site. Each
// canonicalizer is a pure function over a raw string plus the shared rules
// tables; it reports the transformation steps it applied and any issues it
// found, and never returns an error for bad data: invalid input degrades to
// a validity flag plus an issue.
package normalize
