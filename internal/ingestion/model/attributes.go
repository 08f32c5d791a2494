/*
 * Copyright (c) 2026, Heartscope Labs.
 *
 * Heartscope Labs licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Attributes is an insertion-ordered map of unrecognized raw fields.
// Scalars are stored as-is; arrays and objects are canonicalized to
// deterministic JSON text (object keys sorted) so that re-parsing
// identical bytes always yields identical attribute values.
type Attributes struct {
	keys   []string
	values map[string]interface{}
}

func NewAttributes() *Attributes {
	return &Attributes{values: map[string]interface{}{}}
}

// Set stores a value under key, canonicalizing non-scalar values.
// Setting an existing key overwrites its value but keeps its position.
func (a *Attributes) Set(key string, value interface{}) {
	if a.values == nil {
		a.values = map[string]interface{}{}
	}
	if _, exists := a.values[key]; !exists {
		a.keys = append(a.keys, key)
	}
	a.values[key] = canonicalize(value)
}

// SetIfAbsent stores a value only when the key is not already present.
func (a *Attributes) SetIfAbsent(key string, value interface{}) {
	if a == nil {
		return
	}
	if _, exists := a.values[key]; exists {
		return
	}
	a.Set(key, value)
}

// Get returns the stored value for key.
func (a *Attributes) Get(key string) (interface{}, bool) {
	if a == nil {
		return nil, false
	}
	v, ok := a.values[key]
	return v, ok
}

// Keys returns the attribute keys in insertion order.
func (a *Attributes) Keys() []string {
	if a == nil {
		return nil
	}
	out := make([]string, len(a.keys))
	copy(out, a.keys)
	return out
}

// Len returns the number of stored attributes.
func (a *Attributes) Len() int {
	if a == nil {
		return 0
	}
	return len(a.keys)
}

// MarshalJSON emits the attributes as a JSON object preserving
// insertion order.
func (a *Attributes) MarshalJSON() ([]byte, error) {
	if a == nil || len(a.keys) == 0 {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range a.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		valJSON, err := json.Marshal(a.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(valJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON restores attributes from a JSON object. Key order
// follows the document order of the input.
func (a *Attributes) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("attributes: expected JSON object")
	}

	a.keys = nil
	a.values = map[string]interface{}{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key := keyTok.(string)
		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return err
		}
		a.Set(key, value)
	}
	_, err = dec.Token() // consume closing brace
	return err
}

// canonicalize keeps scalars and renders everything else as canonical
// JSON text with sorted object keys.
func canonicalize(value interface{}) interface{} {
	switch v := value.(type) {
	case nil, string, bool, float64, float32, int, int32, int64:
		return v
	case json.Number:
		if n, err := v.Float64(); err == nil {
			return n
		}
		return v.String()
	default:
		return canonicalJSON(value)
	}
}

// canonicalJSON renders a value as deterministic JSON text.
func canonicalJSON(value interface{}) string {
	var buf bytes.Buffer
	writeCanonical(&buf, value)
	return buf.String()
}

func writeCanonical(buf *bytes.Buffer, value interface{}) {
	switch v := value.(type) {
	case nil:
		buf.WriteString("null")
	case string:
		b, _ := json.Marshal(v)
		buf.Write(b)
	case bool:
		buf.WriteString(strconv.FormatBool(v))
	case float64:
		b, _ := json.Marshal(v)
		buf.Write(b)
	case json.Number:
		buf.WriteString(v.String())
	case []interface{}:
		buf.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeCanonical(buf, item)
		}
		buf.WriteByte(']')
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, _ := json.Marshal(k)
			buf.Write(kb)
			buf.WriteByte(':')
			writeCanonical(buf, v[k])
		}
		buf.WriteByte('}')
	default:
		b, err := json.Marshal(v)
		if err != nil {
			b, _ = json.Marshal(fmt.Sprintf("%v", v))
		}
		buf.Write(b)
	}
}
