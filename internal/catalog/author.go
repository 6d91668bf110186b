package catalog

import (
	"encoding/json"
	"strings"
)

// NormalizeAuthor flattens the main_author field of a raw catalog record
// into a comparable string key. The field arrives in one of three shapes:
// a plain string, a structured person object, or nothing at all.
//
// Resolution order for objects: display name, then email, then a canonical
// serialization of the whole object. Returns "" when no usable author can
// be derived; callers treat "" as absent.
func NormalizeAuthor(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return ""
	}
	if name, ok := obj["name"].(string); ok && strings.TrimSpace(name) != "" {
		return strings.TrimSpace(name)
	}
	if email, ok := obj["email"].(string); ok && strings.TrimSpace(email) != "" {
		return strings.TrimSpace(email)
	}

	// encoding/json writes map keys in sorted order, so this serialization
	// is stable across runs and usable as an identity key.
	b, err := json.Marshal(obj)
	if err != nil {
		return ""
	}
	return string(b)
}
