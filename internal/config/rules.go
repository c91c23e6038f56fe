package config

// Rules holds the read-only canonical mapping tables shared by every
// normalization component. Tables left empty in the config file fall back to
// the compiled-in defaults, so a partial rules section only overrides what it
// names.
type Rules struct {
	// DeviceSynonyms maps raw device-type strings (lowercased) to canonical types.
	DeviceSynonyms map[string]string `yaml:"device_synonyms"`

	// SiteNames maps whole raw site strings (lowercased, hyphen-collapsed) to
	// their canonical CITY-BUILDING-AREA form.
	SiteNames map[string]string `yaml:"site_names"`

	// CityTokens maps recognized city tokens to uppercase abbreviations.
	CityTokens map[string]string `yaml:"city_tokens"`

	// BuildingTokens maps recognized building/area tokens to their title-case
	// expansion (bldg -> Building).
	BuildingTokens map[string]string `yaml:"building_tokens"`

	// SiteDomains maps a normalized site's city abbreviation to a DNS domain.
	SiteDomains map[string]string `yaml:"site_domains"`

	// TeamKeywords are the owner-team tokens accepted verbatim.
	TeamKeywords []string `yaml:"team_keywords"`

	// DefaultDomain is the last-resort FQDN suffix.
	DefaultDomain string `yaml:"default_domain"`

	// DefaultCity is applied when a site string carries no city token.
	DefaultCity string `yaml:"default_city"`

	// SubnetPublicPolicy picks the heuristic for public IPv4 subnet derivation.
	SubnetPublicPolicy SubnetPolicy `yaml:"subnet_public_policy"`
}

// DefaultRules returns the built-in mapping tables.
func DefaultRules() Rules {
	return Rules{
		DeviceSynonyms: map[string]string{
			"server":        "server",
			"srv":           "server",
			"switch":        "switch",
			"router":        "router",
			"gw":            "router",
			"gateway":       "router",
			"printer":       "printer",
			"iot":           "iot",
			"camera":        "camera",
			"cam":           "camera",
			"firewall":      "firewall",
			"fw":            "firewall",
			"load_balancer": "load_balancer",
			"lb":            "load_balancer",
		},
		SiteNames: map[string]string{
			"blr campus":    "BLR-Campus",
			"blr":           "BLR-Campus",
			"hq bldg 1":     "HQ-Building-1",
			"hq-building-1": "HQ-Building-1",
			"hq":            "HQ-Building-1",
			"lab-1":         "HQ-Lab-1",
			"dc-1":          "DC-1",
		},
		CityTokens: map[string]string{
			"blr":          "BLR",
			"bangalore":    "BLR",
			"hq":           "HQ",
			"headquarters": "HQ",
			"dc":           "DC",
			"datacenter":   "DC",
		},
		BuildingTokens: map[string]string{
			"bldg":     "Building",
			"building": "Building",
			"lab":      "Lab",
			"campus":   "Campus",
			"floor":    "Floor",
			"wing":     "Wing",
		},
		SiteDomains: map[string]string{
			"BLR": "blr.corp.example.com",
			"HQ":  "hq.corp.example.com",
			"DC":  "dc.corp.example.com",
		},
		TeamKeywords: []string{
			"platform", "ops", "operations", "sec", "security", "facilities",
		},
		DefaultDomain:      "corp.example.com",
		DefaultCity:        "HQ",
		SubnetPublicPolicy: SubnetPublicEmpty,
	}
}

// applyDefaults fills any table the config file left empty.
func (r *Rules) applyDefaults() {
	def := DefaultRules()
	if r.DeviceSynonyms == nil {
		r.DeviceSynonyms = def.DeviceSynonyms
	}
	if r.SiteNames == nil {
		r.SiteNames = def.SiteNames
	}
	if r.CityTokens == nil {
		r.CityTokens = def.CityTokens
	}
	if r.BuildingTokens == nil {
		r.BuildingTokens = def.BuildingTokens
	}
	if r.SiteDomains == nil {
		r.SiteDomains = def.SiteDomains
	}
	if r.TeamKeywords == nil {
		r.TeamKeywords = def.TeamKeywords
	}
	if r.DefaultDomain == "" {
		r.DefaultDomain = def.DefaultDomain
	}
	if r.DefaultCity == "" {
		r.DefaultCity = def.DefaultCity
	}
	if r.SubnetPublicPolicy == "" {
		r.SubnetPublicPolicy = def.SubnetPublicPolicy
	}
}

// IsTeamKeyword reports whether token is a recognized owner team.
func (r *Rules) IsTeamKeyword(token string) bool {
	for _, kw := range r.TeamKeywords {
		if kw == token {
			return true
		}
	}
	return false
}
