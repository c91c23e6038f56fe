package llm

import (
	"fmt"

	"github.com/valyala/fastjson"

	"invnorm/internal/domain"
)

// schemaParsers are pooled per call site; fastjson parsers are not
// concurrency-safe, so each validation parses with its own.

// parseExactObject parses content as a JSON object holding exactly the given
// keys, every value a string. Extra keys, missing keys, nested values, or
// non-string values all fail.
func parseExactObject(content string, keys ...string) (map[string]string, error) {
	var p fastjson.Parser
	v, err := p.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("malformed JSON: %w", err)
	}

	obj, err := v.Object()
	if err != nil {
		return nil, fmt.Errorf("response is not a JSON object")
	}

	got := make(map[string]string, obj.Len())
	var visitErr error
	obj.Visit(func(key []byte, val *fastjson.Value) {
		if visitErr != nil {
			return
		}
		sb, err := val.StringBytes()
		if err != nil {
			visitErr = fmt.Errorf("key %q is not a string", key)
			return
		}
		got[string(key)] = string(sb)
	})
	if visitErr != nil {
		return nil, visitErr
	}

	if len(got) != len(keys) {
		return nil, fmt.Errorf("expected exactly %d keys, got %d", len(keys), len(got))
	}
	for _, k := range keys {
		if _, ok := got[k]; !ok {
			return nil, fmt.Errorf("missing key %q", k)
		}
	}

	return got, nil
}

// allowedTeams is the closed set for the owner_team response value.
var allowedTeams = map[string]bool{
	"":           true,
	"platform":   true,
	"ops":        true,
	"operations": true,
	"sec":        true,
	"security":   true,
	"facilities": true,
}

func validateTeam(team string) error {
	if !allowedTeams[team] {
		return fmt.Errorf("owner_team %q outside allowed set", team)
	}
	return nil
}

func validateDeviceType(dt string) error {
	if !domain.IsCanonicalDeviceType(dt) {
		return fmt.Errorf("device_type %q outside canonical set", dt)
	}
	return nil
}

func validateConfidence(c string) error {
	switch domain.Confidence(c) {
	case domain.ConfidenceHigh, domain.ConfidenceMedium, domain.ConfidenceLow:
		return nil
	}
	return fmt.Errorf("device_type_confidence %q outside allowed set", c)
}
