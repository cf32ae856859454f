package bind

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Text is a request field that arrives as a string from forms but may be a
// string, number, bool or null in JSON. Numbers keep their literal text.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*t = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	case bytes.Equal(b, []byte("true")), bytes.Equal(b, []byte("false")):
		*t = Text(b)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("bind: expected a string or number, got %s", b)
	}
	*t = Text(n.String())
	return nil
}

func (t Text) String() string { return string(t) }

// Blank reports whether t is empty after trimming.
func (t Text) Blank() bool { return strings.TrimSpace(string(t)) == "" }

// Ptr returns nil for a blank value and the value otherwise.
func (t Text) Ptr() *string {
	if t.Blank() {
		return nil
	}
	s := string(t)
	return &s
}

// Float parses t as a finite number. "Inf" and "NaN" are rejected.
func (t Text) Float() (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(t)), 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("bind: %q is not a finite number", string(t))
	}
	return f, nil
}

func (t Text) Int() (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(string(t)), 10, 64)
}
