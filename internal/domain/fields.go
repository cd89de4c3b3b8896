package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

var jsonNull = []byte("null")

// StringList decodes a JSON array of strings. Anything that is not an array
// decodes to nil, and non-string elements are dropped.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	*l = nil
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	out := make(StringList, 0, len(raw))
	for _, item := range raw {
		if bytes.Equal(bytes.TrimSpace(item), jsonNull) {
			continue
		}
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, s)
		}
	}
	*l = out
	return nil
}

// ViewCount is an integer view count that tolerates the string and float
// encodings found in scraped data. Unparseable values become 0.
type ViewCount int64

func (v *ViewCount) UnmarshalJSON(data []byte) error {
	*v = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		*v = ViewCount(ParseLeadingInt(s))
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	switch {
	case f >= math.MaxInt64:
		*v = math.MaxInt64
	case f <= math.MinInt64:
		*v = math.MinInt64
	default:
		*v = ViewCount(math.Trunc(f))
	}
	return nil
}

// ParseLeadingInt parses an optional sign followed by decimal digits at the start
// of s, ignoring leading whitespace and anything after the digits. It returns 0
// when there are no digits.
func ParseLeadingInt(s string) int64 {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		// overflow: saturate like a very large view count would
		if s[0] == '-' {
			return math.MinInt64
		}
		return math.MaxInt64
	}
	return n
}

// UnmarshalJSON keeps only keys whose value is an array. A non-object
// classification decodes to nil, the same as an absent one.
func (c *Classification) UnmarshalJSON(data []byte) error {
	*c = nil
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	out := make(Classification, len(raw))
	for key, value := range raw {
		var list StringList
		_ = list.UnmarshalJSON(value)
		if list != nil {
			out[key] = list
		}
	}
	*c = out
	return nil
}
