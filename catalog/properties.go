package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Properties is an insertion ordered string map. The zero value is ready
// to use.
type Properties struct {
	keys   []string
	values map[string]string
}

func NewProperties() *Properties { return &Properties{values: map[string]string{}} }

// PropertiesOf builds a map from alternating keys and values.
func PropertiesOf(kv ...string) *Properties {
	p := NewProperties()
	for i := 0; i+1 < len(kv); i += 2 {
		p.Set(kv[i], kv[i+1])
	}
	return p
}

func (p *Properties) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Value returns the value of key or the empty string.
func (p *Properties) Value(key string) string { return p.values[key] }

func (p *Properties) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

// Set adds or replaces key. A replaced key keeps its position.
func (p *Properties) Set(key, value string) {
	if p.values == nil {
		p.values = map[string]string{}
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

func (p *Properties) Delete(key string) {
	if _, ok := p.values[key]; !ok {
		return
	}
	delete(p.values, key)
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			break
		}
	}
}

func (p *Properties) Len() int { return len(p.keys) }

// Keys returns the keys in insertion order.
func (p *Properties) Keys() []string { return append([]string(nil), p.keys...) }

// Map returns an unordered copy.
func (p *Properties) Map() map[string]string {
	out := make(map[string]string, len(p.keys))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}

func (p *Properties) Clone() *Properties {
	c := NewProperties()
	for _, k := range p.keys {
		c.Set(k, p.values[k])
	}
	return c
}

func (p *Properties) String() string {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, k := range p.keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%s", k, p.values[k])
	}
	b.WriteByte('}')
	return b.String()
}

// MarshalJSON writes an object with keys in insertion order.
func (p *Properties) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, k := range p.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(p.values[k])
		if err != nil {
			return nil, err
		}
		b.Write(kb)
		b.WriteByte(':')
		b.Write(vb)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// UnmarshalJSON reads an object of string values keeping document order.
func (p *Properties) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("properties: expected object")
	}
	*p = Properties{values: map[string]string{}}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		var v string
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("properties: %s: %w", kt, err)
		}
		p.Set(kt.(string), v)
	}
	_, err = dec.Token()
	return err
}
