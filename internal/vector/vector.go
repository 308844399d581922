// Package vector converts embedding vectors to and from the bracketed
// comma-separated form that HeatWave's string_to_vector() parses.
package vector

import (
	"fmt"
	"strconv"
	"strings"
)

// Serialize renders v as "[c1,c2,...]" using the shortest decimal form that
// round-trips each float32 component. The output is reproducible byte-for-byte
// for the same component values.
func Serialize(v []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, c := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(c), 'g', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}

// Parse is the inverse of Serialize.
func Parse(s string) ([]float32, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, fmt.Errorf("vector %q is not bracketed", s)
	}
	body := s[1 : len(s)-1]
	if strings.TrimSpace(body) == "" {
		return nil, nil
	}

	parts := strings.Split(body, ",")
	out := make([]float32, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, fmt.Errorf("parse vector component %d failed: %w", i, err)
		}
		out[i] = float32(f)
	}
	return out, nil
}
