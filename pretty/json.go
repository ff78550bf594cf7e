package pretty

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/alecthomas/chroma/v2/quick"
)

// Indent renders v as JSON indented by four spaces. Mapping order is kept.
// Non-finite floats become the strings "NaN", "Infinity" and "-Infinity".
func Indent(v any) (string, error) {
	b, err := json.MarshalIndent(Of(v), "", "    ")
	if err != nil {
		return "", fmt.Errorf("marshal json: %w", err)
	}

	return string(b), nil
}

// Highlight renders v like [Indent] and colors the result for a terminal.
func Highlight(v any) (string, error) {
	src, err := Indent(v)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer

	err = quick.Highlight(&buf, src, "json", "terminal", "monokai")
	if err != nil {
		return "", fmt.Errorf("highlight json: %w", err)
	}

	return buf.String(), nil
}

// MarshalJSON encodes m as a JSON object in entry order.
func (m Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, e := range m {
		if i > 0 {
			buf.WriteByte(',')
		}

		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}

		v, err := json.Marshal(e.Value)
		if err != nil {
			return nil, fmt.Errorf("key %s: %w", k, err)
		}

		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// MarshalJSON encodes s as a JSON array.
func (s Seq) MarshalJSON() ([]byte, error) {
	if s.Items == nil {
		return []byte("[]"), nil
	}

	return json.Marshal(s.Items)
}

// MarshalJSON encodes None as null.
func (None) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// MarshalJSON encodes f as a JSON number, or as a string for values JSON
// numbers cannot hold.
func (f Float) MarshalJSON() ([]byte, error) {
	x := float64(f)

	switch {
	case math.IsNaN(x):
		return []byte(`"NaN"`), nil
	case math.IsInf(x, 1):
		return []byte(`"Infinity"`), nil
	case math.IsInf(x, -1):
		return []byte(`"-Infinity"`), nil
	}

	return json.Marshal(x)
}
