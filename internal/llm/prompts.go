package llm

import (
	"context"
	"fmt"
	"strings"

	"invnorm/internal/domain"
	"invnorm/internal/escalate"
)

const ownerSystemPrompt = "You are a data parsing assistant specialized in extracting structured " +
	"information from unstructured text. You must always return valid JSON that strictly adheres " +
	"to the specified format. Do not include any explanatory text, markdown code blocks, or " +
	"formatting outside the JSON object."

const deviceSystemPrompt = "You are a network device classification assistant with expertise in IT " +
	"infrastructure. Classify devices based on hostname patterns, naming conventions, and contextual " +
	"clues. You must always return valid JSON that strictly adheres to the specified format. Do not " +
	"include any explanatory text, markdown code blocks, or formatting outside the JSON object."

const siteSystemPrompt = "You are a location normalization assistant specialized in standardizing " +
	"site and building names for IT infrastructure management. You must always return valid JSON " +
	"that strictly adheres to the specified format. Do not include any explanatory text, markdown " +
	"code blocks, or formatting outside the JSON object."

const domainSystemPrompt = "You are a DNS planning assistant. Given hints about a host, propose the " +
	"most plausible DNS domain suffix for it. You must always return valid JSON that strictly " +
	"adheres to the specified format. Do not include any explanatory text, markdown code blocks, or " +
	"formatting outside the JSON object."

// ParseOwnerInfo implements escalate.Collaborator.
func (c *Client) ParseOwnerInfo(ctx context.Context, ownerStr string) (escalate.OwnerInfo, error) {
	prompt := fmt.Sprintf(`Parse the following owner information and extract structured data into a JSON object.

Input: %q

STRICT REQUIREMENTS:
1. Return ONLY valid JSON, no additional text, explanations, or markdown formatting
2. JSON must contain exactly these three keys: "owner", "owner_email", "owner_team"
3. All values must be strings (use empty string "" if a field is not found)
4. Email addresses must be valid format
5. Team names must be one of: platform, ops, operations, sec, security, facilities, or empty string

Expected JSON structure:
{
  "owner": "person name or empty string",
  "owner_email": "email@domain.com or empty string",
  "owner_team": "team name or empty string"
}

Return JSON only, no other text.`, ownerStr)

	content, err := c.complete(ctx, ownerSystemPrompt, prompt)
	if err != nil {
		return escalate.OwnerInfo{}, err
	}

	fields, err := parseExactObject(content, "owner", "owner_email", "owner_team")
	if err != nil {
		return escalate.OwnerInfo{}, err
	}
	if err := validateTeam(strings.ToLower(fields["owner_team"])); err != nil {
		return escalate.OwnerInfo{}, err
	}

	return escalate.OwnerInfo{
		Owner:      fields["owner"],
		OwnerEmail: fields["owner_email"],
		OwnerTeam:  fields["owner_team"],
	}, nil
}

// ClassifyDeviceType implements escalate.Collaborator.
func (c *Client) ClassifyDeviceType(ctx context.Context, contextStr string) (escalate.DeviceClass, error) {
	prompt := fmt.Sprintf(`Classify the network device type based on the following context information.

Context: %s

STRICT REQUIREMENTS:
1. Return ONLY valid JSON, no additional text, explanations, or markdown formatting
2. JSON must contain exactly these two keys: "device_type", "device_type_confidence"
3. "device_type" must be exactly one of: server, switch, router, printer, iot, camera, firewall, load_balancer, unknown
4. "device_type_confidence" must be exactly one of: high, medium, low
5. Use "unknown" only when no reasonable inference can be made
6. Use "high" confidence when hostname/notes provide clear device type indicators
7. Use "medium" confidence when inference is reasonable but not definitive
8. Use "low" confidence when inference is speculative

Expected JSON structure:
{
  "device_type": "server|switch|router|printer|iot|camera|firewall|load_balancer|unknown",
  "device_type_confidence": "high|medium|low"
}

Return JSON only, no other text.`, contextStr)

	content, err := c.complete(ctx, deviceSystemPrompt, prompt)
	if err != nil {
		return escalate.DeviceClass{}, err
	}

	fields, err := parseExactObject(content, "device_type", "device_type_confidence")
	if err != nil {
		return escalate.DeviceClass{}, err
	}

	dt := strings.ToLower(fields["device_type"])
	conf := strings.ToLower(fields["device_type_confidence"])
	if err := validateDeviceType(dt); err != nil {
		return escalate.DeviceClass{}, err
	}
	if err := validateConfidence(conf); err != nil {
		return escalate.DeviceClass{}, err
	}

	return escalate.DeviceClass{
		DeviceType: dt,
		Confidence: domain.Confidence(conf),
	}, nil
}

// NormalizeSite implements escalate.Collaborator.
func (c *Client) NormalizeSite(ctx context.Context, siteStr string) (string, error) {
	prompt := fmt.Sprintf(`Normalize the following site/location name to a standard format following the pattern: CITY-BUILDING-AREA

Input: %q

STRICT REQUIREMENTS:
1. Return ONLY valid JSON, no additional text, explanations, or markdown formatting
2. JSON must contain exactly one key: "site_normalized"
3. The normalized value must follow format: CITY-BUILDING-AREA (e.g., "BLR-Campus", "HQ-Building-1", "DC-1")
4. Use uppercase for city abbreviations (BLR, HQ, DC, etc.)
5. Use title case for building/area names (Campus, Building-1, Lab-1, etc.)
6. Separate components with single hyphens
7. If city cannot be determined, use "HQ" as default
8. Expand common abbreviations: "Bldg" -> "Building", "Lab" -> "Lab"

Examples:
- "BLR Campus" -> "BLR-Campus"
- "HQ Bldg 1" -> "HQ-Building-1"
- "Lab-1" -> "HQ-Lab-1" (infer HQ if missing)
- "DC-1" -> "DC-1"

Expected JSON structure:
{
  "site_normalized": "CITY-BUILDING-AREA"
}

Return JSON only, no other text.`, siteStr)

	content, err := c.complete(ctx, siteSystemPrompt, prompt)
	if err != nil {
		return "", err
	}

	fields, err := parseExactObject(content, "site_normalized")
	if err != nil {
		return "", err
	}
	if fields["site_normalized"] == "" {
		return "", fmt.Errorf("empty site_normalized in response")
	}

	return fields["site_normalized"], nil
}

// InferDomain implements escalate.Collaborator.
func (c *Client) InferDomain(ctx context.Context, hostname, site string) (string, error) {
	var hints []string
	if hostname != "" {
		hints = append(hints, "hostname: "+hostname)
	}
	if site != "" {
		hints = append(hints, "site: "+site)
	}

	prompt := fmt.Sprintf(`Infer the most plausible DNS domain suffix for a host from the following hints.

Hints: %s

STRICT REQUIREMENTS:
1. Return ONLY valid JSON, no additional text, explanations, or markdown formatting
2. JSON must contain exactly one key: "domain"
3. The value must be a lowercase DNS domain (e.g. "corp.example.com") with no leading or trailing dot
4. Use empty string "" when no reasonable inference can be made

Expected JSON structure:
{
  "domain": "corp.example.com"
}

Return JSON only, no other text.`, strings.Join(hints, ", "))

	content, err := c.complete(ctx, domainSystemPrompt, prompt)
	if err != nil {
		return "", err
	}

	fields, err := parseExactObject(content, "domain")
	if err != nil {
		return "", err
	}
	if fields["domain"] == "" {
		return "", fmt.Errorf("collaborator could not infer a domain")
	}

	return fields["domain"], nil
}
