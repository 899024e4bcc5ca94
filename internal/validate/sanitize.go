package validate

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"strings"
)

// draftSynonyms renames keys found in recipe JSON from other tools to draft
// field names. Earlier entries win when several map to the same field.
var draftSynonyms = [][2]string{
	{"name", "title"},
	{"recipe_name", "title"},
	{"summary", "description"},
	{"recipeIngredient", "ingredients"},
	{"directions", "instructions"},
	{"steps", "instructions"},
	{"method", "instructions"},
	{"recipeInstructions", "instructions"},
	{"note", "notes"},
	{"tips", "notes"},
}

var draftListFields = []string{"ingredients", "instructions", "notes"}

// SanitizeDraftJSON rewrites a loosely shaped recipe document so it can pass
// DraftSchema: synonym keys are renamed, strings trimmed, list fields given
// as one multi-line string are split into lines, and null, empty and unknown
// keys are dropped. The second return lists every change, e.g.
// "directions->instructions" or "servings(unknown)".
func SanitizeDraftJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	changes := make([]string, 0, 4)
	for _, syn := range draftSynonyms {
		from, to := syn[0], syn[1]
		v, ok := m[from]
		if !ok {
			continue
		}
		// an explicit canonical key wins
		if _, exists := m[to]; !exists {
			m[to] = v
		}
		delete(m, from)
		changes = append(changes, from+"->"+to)
	}

	for _, k := range []string{"title", "description"} {
		switch t := m[k].(type) {
		case string:
			s := strings.TrimSpace(t)
			if s == "" {
				delete(m, k)
				changes = append(changes, k+"(empty)")
			} else {
				m[k] = s
			}
		case nil:
			if _, ok := m[k]; ok {
				delete(m, k)
				changes = append(changes, k+"(null)")
			}
		}
	}

	for _, k := range draftListFields {
		v, ok := m[k]
		if !ok {
			continue
		}
		items, note := toStringList(v)
		if note != "" {
			changes = append(changes, k+"("+note+")")
		}
		if items == nil {
			delete(m, k)
			continue
		}
		m[k] = items
	}

	for k := range maps.Clone(m) {
		switch k {
		case "title", "description", "ingredients", "instructions", "notes":
		default:
			delete(m, k)
			changes = append(changes, k+"(unknown)")
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, changes, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(changes) > 0 {
		logger.Warn("validate.draft.sanitized", "changes", changes)
	}
	return out, changes, nil
}

// toStringList coerces a JSON value into a list of non-blank trimmed strings.
// A nil result means the field should be dropped.
func toStringList(v any) ([]string, string) {
	switch t := v.(type) {
	case nil:
		return nil, "null"
	case string:
		var items []string
		for _, line := range strings.Split(t, "\n") {
			if s := strings.TrimSpace(line); s != "" {
				items = append(items, s)
			}
		}
		if items == nil {
			return nil, "empty"
		}
		return items, "split"
	case []any:
		items := make([]string, 0, len(t))
		note := ""
		for _, e := range t {
			switch s := e.(type) {
			case string:
				if s = strings.TrimSpace(s); s != "" {
					items = append(items, s)
				} else {
					note = "blank-items"
				}
			case map[string]any:
				// schema.org HowToStep and similar objects carry their text here
				if txt, ok := s["text"].(string); ok && strings.TrimSpace(txt) != "" {
					items = append(items, strings.TrimSpace(txt))
					note = "objects"
				} else {
					note = "dropped-items"
				}
			default:
				note = "dropped-items"
			}
		}
		return items, note
	default:
		return nil, "type"
	}
}
