package types

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// OptionValue is the stable token of an answer option within a question
type OptionValue string

// Validate checks if the OptionValue is valid
func (v OptionValue) Validate() error {
	if strings.TrimSpace(string(v)) == "" {
		return goerr.New("option value cannot be empty")
	}
	if strings.TrimSpace(string(v)) != string(v) {
		return goerr.New("option value must not have surrounding spaces", goerr.V("value", v))
	}
	return nil
}

// String returns the string representation of OptionValue
func (v OptionValue) String() string {
	return string(v)
}

// OptionValueFromNumber returns the canonical token of a numeric value, so
// 2, 2.0 and 2e0 all become "2"
func OptionValueFromNumber(f float64) OptionValue {
	return OptionValue(strconv.FormatFloat(f, 'f', -1, 64))
}

// OptionValueOf converts a decoded scalar into an OptionValue. Strings are
// kept verbatim and numbers are canonicalised with OptionValueFromNumber.
func OptionValueOf(raw any) (OptionValue, error) {
	switch v := raw.(type) {
	case string:
		return OptionValue(v), nil
	case OptionValue:
		return v, nil
	case int:
		return OptionValueFromNumber(float64(v)), nil
	case int64:
		return OptionValueFromNumber(float64(v)), nil
	case uint64:
		return OptionValueFromNumber(float64(v)), nil
	case float64:
		return OptionValueFromNumber(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return "", goerr.Wrap(err, "invalid numeric option value", goerr.V("value", v))
		}
		return OptionValueFromNumber(f), nil
	default:
		return "", goerr.New("option value must be a string or a number", goerr.V("value", raw))
	}
}

// UnmarshalJSON accepts both JSON strings and JSON numbers. Numbers are
// canonicalised, so {"iam-001": 10}, {"iam-001": 10.0} and {"iam-001": "10"}
// are equal.
func (v *OptionValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return goerr.Wrap(err, "failed to decode option value")
		}
		*v = OptionValue(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return goerr.New("option value must be a string or a number", goerr.V("raw", string(data)))
	}
	parsed, err := OptionValueOf(n)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
