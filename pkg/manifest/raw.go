// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// RawManifest is the parsed root of manifest.json: a mapping from string keys
// to JSON values (object, array, string, number, bool, null). It is owned by
// the descriptor and must not be mutated after parse; resolvers capture
// values out of it rather than holding references into it.
type RawManifest map[string]any

// ParseRawManifest decodes manifest.json bytes into a RawManifest. The root
// value must be a JSON object.
func ParseRawManifest(data []byte) (RawManifest, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	var raw RawManifest
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("manifest is not a JSON object: %w", err)
	}
	// A bare null decodes into a nil map without error.
	if raw == nil {
		return nil, fmt.Errorf("manifest is not a JSON object: root is null")
	}
	return raw, nil
}

// stringValue returns the value for key when it is a string.
func (m RawManifest) stringValue(key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	return asString(v)
}

// objectValue returns the value for key when it is a JSON object.
func (m RawManifest) objectValue(key string) (map[string]any, bool) {
	v, ok := m[key]
	if !ok {
		return nil, false
	}
	return asObject(v)
}

// arrayValue returns the value for key when it is a JSON array.
func (m RawManifest) arrayValue(key string) ([]any, bool) {
	v, ok := m[key]
	if !ok {
		return nil, false
	}
	return asArray(v)
}

// has reports whether the key is present at all, regardless of type.
func (m RawManifest) has(key string) bool {
	_, ok := m[key]
	return ok
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// toString returns the string value, or "" for any other type.
func toString(v any) string {
	s, _ := asString(v)
	return s
}

func asBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

func asObject(v any) (map[string]any, bool) {
	o, ok := v.(map[string]any)
	return o, ok
}

func asArray(v any) ([]any, bool) {
	a, ok := v.([]any)
	return a, ok
}

// asInteger returns the value as an int when it is an integral JSON number.
func asInteger(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

// stringList extracts the non-empty string elements of a JSON array,
// dropping everything else. The second result is false when v is not an
// array at all.
func stringList(v any) ([]string, bool) {
	arr, ok := asArray(v)
	if !ok {
		return nil, false
	}
	var out []string
	for _, item := range arr {
		if s, ok := asString(item); ok && s != "" {
			out = append(out, s)
		}
	}
	return out, true
}

// sortedKeys returns an object's keys in lexicographic order so iteration is
// deterministic across runs.
func sortedKeys(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// stringOrList normalizes a value that may be a single string or an array of
// strings into a slice. Unknown shapes yield nil, false.
func stringOrList(v any) ([]string, bool) {
	if s, ok := asString(v); ok {
		if s == "" {
			return nil, true
		}
		return []string{s}, true
	}
	return stringList(v)
}
