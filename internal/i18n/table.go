package i18n

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Table is a translation tree keyed by dot-path segments. Values are either
// strings (leaves) or nested Tables.
type Table map[string]any

// Lookup walks the dot-separated key path and returns the leaf string.
// A path that ends on a nested table, or on nothing, is a miss.
func (t Table) Lookup(key string) (string, bool) {
	var current any = t
	for _, segment := range strings.Split(key, ".") {
		node, ok := current.(Table)
		if !ok {
			return "", false
		}
		current, ok = node[segment]
		if !ok {
			return "", false
		}
	}
	s, ok := current.(string)
	return s, ok
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	for k, v := range t {
		if sub, ok := v.(Table); ok {
			out[k] = sub.Clone()
			continue
		}
		out[k] = v
	}
	return out
}

// Keys returns every leaf key path in the table.
func (t Table) Keys() []string {
	var keys []string
	var walk func(prefix string, node Table)
	walk = func(prefix string, node Table) {
		for k, v := range node {
			path := k
			if prefix != "" {
				path = prefix + "." + k
			}
			if sub, ok := v.(Table); ok {
				walk(path, sub)
				continue
			}
			keys = append(keys, path)
		}
	}
	walk("", t)
	return keys
}

// mergeOneLevel overlays overrides onto base without touching either.
// When both sides hold a table under the same key, the two tables are
// merged key by key; anything deeper than that is replaced wholesale.
// Every other override value replaces the base value.
func mergeOneLevel(base, overrides Table) Table {
	result := make(Table, len(base)+len(overrides))
	for k, v := range base {
		result[k] = v
	}
	for k, ov := range overrides {
		oSub, oIsTable := ov.(Table)
		bSub, bIsTable := base[k].(Table)
		if oIsTable && bIsTable {
			merged := make(Table, len(bSub)+len(oSub))
			for sk, sv := range bSub {
				merged[sk] = sv
			}
			for sk, sv := range oSub {
				merged[sk] = sv
			}
			result[k] = merged
			continue
		}
		result[k] = ov
	}
	return result
}

// Normalize converts a decoded YAML/JSON document into a Table. Nested maps
// become Tables and scalar leaves are rendered as strings.
func Normalize(doc map[string]any) Table {
	out := make(Table, len(doc))
	for k, v := range doc {
		switch val := v.(type) {
		case Table:
			out[k] = Normalize(val)
		case map[string]any:
			out[k] = Normalize(val)
		case map[any]any:
			converted := make(map[string]any, len(val))
			for mk, mv := range val {
				converted[fmt.Sprint(mk)] = mv
			}
			out[k] = Normalize(converted)
		case string:
			out[k] = val
		case nil:
			// Null leaves carry no translation.
		default:
			out[k] = fmt.Sprint(val)
		}
	}
	return out
}

// ParseYAML decodes a YAML (or JSON, which is valid YAML) translation table.
func ParseYAML(data []byte) (Table, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse translations: %w", err)
	}
	return Normalize(doc), nil
}

// LoadTableFile reads a custom translation table from a .yaml, .yml or
// .json file.
func LoadTableFile(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read translations: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		var doc map[string]any
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse translations: %w", err)
		}
		return Normalize(doc), nil
	}
	return ParseYAML(data)
}
