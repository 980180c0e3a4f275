package grooming

import (
	"fmt"
	"strconv"
	"time"
)

// Payload is the decoded body of a public booking submission. Clients nest
// fields inconsistently, so every accessor degrades to empty values instead
// of failing on absent or mistyped fields.
type Payload map[string]any

// PetFields carries the pet attributes of a submission.
type PetFields struct {
	Type   string
	Breed  string
	Name   string
	Weight *float64
	Coat   string
}

// phoneRules are the recognized phone locations in priority order.
var phoneRules = [][]string{
	{"personal", "phone"},
	{"owner", "phone"},
	{"phone"},
}

// Phone extracts the canonical contact phone. Returns "" when no rule matches;
// whether an empty phone is acceptable is decided at the persistence layer.
func (p Payload) Phone() string {
	for _, path := range phoneRules {
		if v := lookupString(p, path...); v != "" {
			return v
		}
	}
	return ""
}

// Pet extracts the nested pet attributes.
func (p Payload) Pet() PetFields {
	return PetFields{
		Type:   lookupString(p, "pet", "type"),
		Breed:  lookupString(p, "pet", "breed"),
		Name:   lookupString(p, "pet", "name"),
		Weight: lookupFloat(p, "pet", "weight"),
		Coat:   lookupString(p, "pet", "coat"),
	}
}

// Date returns the submitted booking date, or nil when absent or unparseable.
func (p Payload) Date() *time.Time {
	raw := lookupString(p, "date")
	if raw == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

// Notes returns the free-text notes field.
func (p Payload) Notes() string {
	return lookupString(p, "notes")
}

// Services coerces the services field to an ordered string slice.
// Anything that is not an array yields an empty slice.
func (p Payload) Services() []string {
	raw, ok := lookup(p, "services")
	if !ok {
		return []string{}
	}
	items, ok := raw.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, stringify(item))
	}
	return out
}

// MatchKey is the pet identity within one customer: the explicit name when
// given, otherwise "<type> - <breed>" with empty strings for missing parts.
func (f PetFields) MatchKey() string {
	if f.Name != "" {
		return f.Name
	}
	return f.Type + " - " + f.Breed
}

func lookup(m map[string]any, path ...string) (any, bool) {
	var current any = m
	for _, key := range path {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func lookupString(m map[string]any, path ...string) string {
	v, ok := lookup(m, path...)
	if !ok || v == nil {
		return ""
	}
	return stringify(v)
}

func lookupFloat(m map[string]any, path ...string) *float64 {
	v, ok := lookup(m, path...)
	if !ok || v == nil {
		return nil
	}
	switch n := v.(type) {
	case float64:
		return &n
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return &f
		}
	}
	return nil
}

func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", s)
	}
}
