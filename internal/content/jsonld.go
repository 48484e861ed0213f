package content

import (
	"encoding/json"
	"strings"
)

// businessNameFromJSONLD pulls the declared business name out of a JSON-LD
// block, walking @graph containers and arrays the way sites actually nest
// them. Returns "" when the block declares no recognizable business.
func businessNameFromJSONLD(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	var payload any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return ""
	}
	return findBusinessName(payload)
}

func findBusinessName(payload any) string {
	switch t := payload.(type) {
	case map[string]any:
		if isBusinessType(t["@type"]) {
			if name, ok := t["name"].(string); ok && strings.TrimSpace(name) != "" {
				return strings.TrimSpace(name)
			}
		}
		if graph, ok := t["@graph"].([]any); ok {
			for _, item := range graph {
				if name := findBusinessName(item); name != "" {
					return name
				}
			}
		}
	case []any:
		for _, item := range t {
			if name := findBusinessName(item); name != "" {
				return name
			}
		}
	}
	return ""
}

func isBusinessType(t any) bool {
	switch v := t.(type) {
	case string:
		return isBusinessTypeName(v)
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && isBusinessTypeName(s) {
				return true
			}
		}
	}
	return false
}

// isBusinessTypeName accepts schema.org Organization, LocalBusiness, and the
// LocalBusiness subtypes small businesses actually publish (Restaurant,
// Store, *Business, *Service).
func isBusinessTypeName(name string) bool {
	switch name {
	case "Organization", "LocalBusiness", "Corporation", "Restaurant", "Store":
		return true
	}
	return strings.HasSuffix(name, "Business") || strings.HasSuffix(name, "Service")
}
