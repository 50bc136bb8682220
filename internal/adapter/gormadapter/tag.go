package gormadapter

import (
	"strings"
)

// Setting is one `key:value` entry of a gorm struct tag.
type Setting struct {
	Key      string
	Value    string
	HasValue bool
}

// Tag is a parsed gorm struct tag. Settings keep their source order and
// duplicates, since GORM reads index settings from the raw tag.
type Tag struct {
	Settings []Setting
}

// ParseTag splits a gorm tag the way GORM does: settings are separated by
// ';' (a '\;' is kept literally), keys and values by the first ':'.
func ParseTag(s string) *Tag {
	t := &Tag{}

	parts := strings.Split(s, ";")
	for i := 0; i < len(parts); i++ {
		part := parts[i]
		for strings.HasSuffix(part, `\`) && i+1 < len(parts) {
			i++
			part = part[:len(part)-1] + ";" + parts[i]
		}

		key, value, hasValue := strings.Cut(part, ":")

		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}

		t.Settings = append(t.Settings, Setting{Key: key, Value: value, HasValue: hasValue})
	}

	return t
}

// normalizeKey folds the spellings GORM accepts for one key
// ("primaryKey", "PRIMARY_KEY", "not null", "NOTNULL").
func normalizeKey(k string) string {
	k = strings.ToUpper(k)
	k = strings.ReplaceAll(k, "_", "")

	return strings.ReplaceAll(k, " ", "")
}

// Get returns the value of the first setting named key.
func (t *Tag) Get(key string) (string, bool) {
	if t == nil {
		return "", false
	}

	want := normalizeKey(key)
	for _, s := range t.Settings {
		if normalizeKey(s.Key) == want {
			return s.Value, true
		}
	}

	return "", false
}

// Has reports whether a setting named key is present.
func (t *Tag) Has(key string) bool {
	_, ok := t.Get(key)
	return ok
}

// All returns every setting named key in source order.
func (t *Tag) All(key string) []Setting {
	if t == nil {
		return nil
	}

	want := normalizeKey(key)

	var out []Setting

	for _, s := range t.Settings {
		if normalizeKey(s.Key) == want {
			out = append(out, s)
		}
	}

	return out
}

// Truthy reports whether key is set to a value GORM treats as true: present
// without a value, or with any value except "false".
func (t *Tag) Truthy(key string) (truthy, present bool) {
	v, ok := t.Get(key)
	if !ok {
		return false, false
	}

	return !strings.EqualFold(strings.TrimSpace(v), "false"), true
}

// Add appends a key-only setting.
func (t *Tag) Add(key string) *Tag {
	t.Settings = append(t.Settings, Setting{Key: key})
	return t
}

// AddValue appends a key:value setting.
func (t *Tag) AddValue(key, value string) *Tag {
	t.Settings = append(t.Settings, Setting{Key: key, Value: value, HasValue: true})
	return t
}

// Empty reports whether the tag has no settings.
func (t *Tag) Empty() bool {
	return t == nil || len(t.Settings) == 0
}

// String renders the tag value, escaping ';' inside values.
func (t *Tag) String() string {
	if t == nil {
		return ""
	}

	parts := make([]string, len(t.Settings))

	for i, s := range t.Settings {
		if !s.HasValue {
			parts[i] = s.Key
			continue
		}

		parts[i] = s.Key + ":" + strings.ReplaceAll(s.Value, ";", `\;`)
	}

	return strings.Join(parts, ";")
}
