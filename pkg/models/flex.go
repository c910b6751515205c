package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var jsonNull = []byte("null")

// FlexInt decodes from a JSON number, a numeric string or null.
// The live feed reports running scores as strings ("102") and team scores as numbers.
type FlexInt int

func (n *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, jsonNull) {
		*n = 0
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding int string: %w", err)
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*n = 0
			return nil
		}
	}

	if i, err := strconv.Atoi(raw); err == nil {
		*n = FlexInt(i)
		return nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid integer value %s", string(data))
	}
	f = math.Round(f)
	if math.IsNaN(f) || f < math.MinInt || f >= math.MaxInt {
		return fmt.Errorf("integer value out of range %s", string(data))
	}
	*n = FlexInt(f)
	return nil
}

// FlexBool decodes from a JSON bool, 0/1, "0"/"1", "true"/"false" or null
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, jsonNull) {
		*b = false
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding bool string: %w", err)
		}
		raw = strings.TrimSpace(s)
	}

	switch strings.ToLower(raw) {
	case "", "0", "false":
		*b = false
		return nil
	case "1", "true":
		*b = true
		return nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid boolean value %s", string(data))
	}
	*b = f != 0
	return nil
}

// Text is a free-form feed string that remembers whether it was present at all.
// Numbers and booleans are kept in their literal JSON form.
type Text struct {
	value   string
	present bool
}

// NewText returns a present Text holding s
func NewText(s string) Text {
	return Text{value: s, present: true}
}

// String returns the text, or "" when absent
func (t Text) String() string {
	return t.value
}

// Present reports whether the field carried a non-null value
func (t Text) Present() bool {
	return t.present
}

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, jsonNull) {
		*t = Text{}
		return nil
	}
	if len(data) == 0 {
		return fmt.Errorf("empty text value")
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding text: %w", err)
		}
		*t = NewText(s)
	case '{', '[':
		return fmt.Errorf("text value must be scalar, got %s", string(data))
	default:
		*t = NewText(string(data))
	}
	return nil
}

func (t Text) MarshalJSON() ([]byte, error) {
	if !t.present {
		return jsonNull, nil
	}
	return json.Marshal(t.value)
}
