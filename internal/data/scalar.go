package data

import (
	"bytes"
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Text is a string field that also accepts a JSON number, kept as its
// literal text, so {"zipcode": 58102} reads the same as {"zipcode": "58102"}.
// null and the number zero decode to "" and count as missing.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(b []byte) error {
	s, err := scalarText(bytes.TrimSpace(b))
	if err != nil {
		return &json.UnmarshalTypeError{Value: jsonKind(b), Type: reflect.TypeOf("")}
	}
	*t = Text(s)
	return nil
}

// Quantity is a stock count that accepts a JSON integer or a string holding
// one, so {"quantity": "3"} reads the same as {"quantity": 3}. null and ""
// decode to 0 and count as missing.
type Quantity int

// UnmarshalJSON implements json.Unmarshaler.
func (q *Quantity) UnmarshalJSON(b []byte) error {
	s, err := scalarText(bytes.TrimSpace(b))
	if err != nil {
		return &json.UnmarshalTypeError{Value: jsonKind(b), Type: reflect.TypeOf(0)}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*q = 0
		return nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return &json.UnmarshalTypeError{Value: jsonKind(b), Type: reflect.TypeOf(0)}
	}
	*q = Quantity(f)
	return nil
}

// scalarText returns the contents of a JSON string, or the literal text of a
// JSON number. null and numeric zero give "". Other JSON values are an error.
func scalarText(b []byte) (string, error) {
	switch {
	case bytes.Equal(b, []byte("null")):
		return "", nil

	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", err
		}
		return s, nil

	case isJSONNumber(b):
		if f, err := strconv.ParseFloat(string(b), 64); err == nil && f == 0 {
			return "", nil
		}
		return string(b), nil
	}

	return "", &json.UnmarshalTypeError{Value: jsonKind(b), Type: reflect.TypeOf("")}
}

func isJSONNumber(b []byte) bool {
	return len(b) > 0 && (b[0] == '-' || (b[0] >= '0' && b[0] <= '9')) && json.Valid(b)
}

// jsonKind names a raw JSON value the way encoding/json does in type errors.
func jsonKind(b []byte) string {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return "value"
	}
	switch b[0] {
	case '"':
		return "string"
	case '{':
		return "object"
	case '[':
		return "array"
	case 't', 'f':
		return "bool"
	case 'n':
		return "null"
	}
	return "number"
}
