package load

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/openswoop/pensum/pkg/catalog"
)

// object is a JSON object whose fields are decoded lazily so the same value
// can be looked up under several aliases.
type object map[string]json.RawMessage

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

// raw returns the first alias present with a non-null, non-blank value.
func (o object) raw(keys []string) (json.RawMessage, bool) {
	for _, k := range keys {
		v, ok := o[k]
		if !ok || isNull(v) {
			continue
		}
		if s, err := text(v); err == nil && strings.TrimSpace(s) == "" && bytes.HasPrefix(bytes.TrimSpace(v), []byte(`"`)) {
			continue
		}
		return v, true
	}
	return nil, false
}

func (o object) text(keys []string) (string, error) {
	v, ok := o.raw(keys)
	if !ok {
		return "", nil
	}
	s, err := text(v)
	if err != nil {
		return "", fmt.Errorf("field %s: %w", keys[0], err)
	}
	return strings.TrimSpace(s), nil
}

func (o object) int(keys []string) (int, error) {
	v, ok := o.raw(keys)
	if !ok {
		return 0, nil
	}
	n, err := integer(v)
	if err != nil {
		return 0, fmt.Errorf("field %s: %w", keys[0], err)
	}
	return n, nil
}

func (o object) codes(keys []string) ([]string, error) {
	v, ok := o.raw(keys)
	if !ok {
		return nil, nil
	}
	c, err := codes(v)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", keys[0], err)
	}
	return c, nil
}

func (o object) list(keys []string) ([]json.RawMessage, error) {
	v, ok := o.raw(keys)
	if !ok {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(v, &items); err != nil {
		return nil, fmt.Errorf("field %s is not a list", keys[0])
	}
	return items, nil
}

// text decodes a JSON string or number. Portal exports write course codes
// both ways.
func text(raw json.RawMessage) (string, error) {
	if isNull(raw) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", fmt.Errorf("expected a string or number, got %s", bytes.TrimSpace(raw))
}

// integer decodes numbers and numeric strings. Blank or non-numeric strings
// count as zero, the way the scraper writes an empty cell, and so do values
// that are negative, NaN or out of range.
func integer(raw json.RawMessage) (int, error) {
	s, err := text(raw)
	if err != nil {
		return 0, err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || f < 0 || f > math.MaxInt32 {
		return 0, nil
	}
	return int(f), nil
}

// codes decodes a list of course codes, or a single comma separated string.
func codes(raw json.RawMessage) ([]string, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err == nil {
		var out []string
		for _, item := range items {
			s, err := text(item)
			if err != nil {
				return nil, err
			}
			if s = catalog.NormalizeSKU(s); s != "" {
				out = append(out, s)
			}
		}
		return out, nil
	}
	s, err := text(raw)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = catalog.NormalizeSKU(part); part != "" {
			out = append(out, part)
		}
	}
	return out, nil
}

func asObject(raw json.RawMessage) (object, error) {
	var o object
	if err := json.Unmarshal(raw, &o); err != nil || o == nil {
		return nil, fmt.Errorf("expected an object, got %.40s", bytes.TrimSpace(raw))
	}
	return o, nil
}
