package product

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a numeric form field. Browsers post numbers as strings, so it
// accepts JSON numbers, numeric strings, "" and null; the last two mean unset.
// Infinity and NaN are invalid.
type Number struct {
	Present bool
	Set     bool
	Value   float64
	Invalid bool
}

func (n *Number) UnmarshalJSON(b []byte) error {
	*n = Number{Present: true}
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}

	var raw string
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			n.Invalid = true
			return nil
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil
		}
	} else {
		raw = string(b)
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		n.Invalid = true
		return nil
	}
	n.Set = true
	n.Value = v
	return nil
}

func NumberOf(v float64) Number {
	return Number{Present: true, Set: true, Value: v}
}

// Or returns the value, or def when unset.
func (n Number) Or(def float64) float64 {
	if n.Set {
		return n.Value
	}
	return def
}

// Ptr returns nil when unset.
func (n Number) Ptr() *float64 {
	if !n.Set {
		return nil
	}
	v := n.Value
	return &v
}
