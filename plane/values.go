// ABOUTME: JSON value types tolerant of the compute service's output: null-as-NaN numeric grids
// ABOUTME: and order-preserving named-value objects (special values, important facts).
package plane

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Vector is a list of coordinates; JSON null decodes to NaN.
type Vector []float64

// UnmarshalJSON decodes a numeric array whose entries may be null.
func (v *Vector) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*v = nil
		return nil
	}
	var raw []*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Vector, len(raw))
	for i, p := range raw {
		if p == nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = *p
	}
	*v = out
	return nil
}

// MarshalJSON encodes non-finite entries as null.
func (v Vector) MarshalJSON() ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	writeFloats(&buf, v)
	return buf.Bytes(), nil
}

// Matrix is a row-major grid (rows follow y, columns follow x); JSON null decodes to NaN.
type Matrix [][]float64

// UnmarshalJSON decodes a nested numeric array whose entries may be null.
func (m *Matrix) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*m = nil
		return nil
	}
	var rows []Vector
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	out := make(Matrix, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	*m = out
	return nil
}

// MarshalJSON encodes non-finite entries as null.
func (m Matrix) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeFloats(&buf, row)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// Zeros returns a rows×cols matrix of zeros.
func Zeros(rows, cols int) Matrix {
	m := make(Matrix, rows)
	for i := range m {
		m[i] = make([]float64, cols)
	}
	return m
}

// Map returns a copy with fn applied to every entry.
func (m Matrix) Map(fn func(float64) float64) Matrix {
	if m == nil {
		return nil
	}
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			out[i][j] = fn(v)
		}
	}
	return out
}

func (m Matrix) checkDims(rows, cols int) error {
	if len(m) != rows {
		return fmt.Errorf("has %d rows, want %d", len(m), rows)
	}
	for i, row := range m {
		if len(row) != cols {
			return fmt.Errorf("row %d has %d columns, want %d", i, len(row), cols)
		}
	}
	return nil
}

func writeFloats(buf *bytes.Buffer, vals []float64) {
	buf.WriteByte('[')
	for i, f := range vals {
		if i > 0 {
			buf.WriteByte(',')
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			buf.WriteString("null")
			continue
		}
		b, _ := json.Marshal(f)
		buf.Write(b)
	}
	buf.WriteByte(']')
}

// NamedValue is one entry of an ordered JSON object. String values land in Value,
// string arrays in List; anything else keeps its raw JSON text in Value.
type NamedValue struct {
	Name  string
	Value string
	List  []string
}

// NamedValues is a JSON object decoded with its key order preserved.
type NamedValues []NamedValue

// Get returns the entry with the given name.
func (nv NamedValues) Get(name string) (NamedValue, bool) {
	for _, v := range nv {
		if v.Name == name {
			return v, true
		}
	}
	return NamedValue{}, false
}

// UnmarshalJSON walks the object's tokens so key order survives decoding.
func (nv *NamedValues) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*nv = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("named values: expected object, got %v", tok)
	}

	out := NamedValues{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("named values: expected string key, got %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("named values: value for %q: %w", key, err)
		}
		out = append(out, decodeNamedValue(key, raw))
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*nv = out
	return nil
}

// MarshalJSON writes the entries back as an object in order.
func (nv NamedValues) MarshalJSON() ([]byte, error) {
	if nv == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, v := range nv {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(v.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		var val []byte
		if v.List != nil {
			val, err = json.Marshal(v.List)
		} else {
			val, err = json.Marshal(v.Value)
		}
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func decodeNamedValue(key string, raw json.RawMessage) NamedValue {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return NamedValue{Name: key, Value: s}
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		if list == nil {
			list = []string{}
		}
		return NamedValue{Name: key, List: list}
	}
	return NamedValue{Name: key, Value: string(bytes.TrimSpace(raw))}
}
