package entity

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID identifies a server-side record. The backend emits either JSON numbers or
// strings, so the raw text is kept and numeric values are written back as numbers.
type ID string

// canonicalNumber reports whether the ID is an integer already written the way
// JSON writes numbers, so "12" qualifies and "007" or "+5" do not.
func (id ID) canonicalNumber() bool {
	n, err := strconv.ParseInt(string(id), 10, 64)
	return err == nil && strconv.FormatInt(n, 10) == string(id)
}

// String returns the raw identifier.
func (id ID) String() string {
	return string(id)
}

// Compare orders two IDs and returns -1, 0 or +1. Integers sort before
// everything else and compare by value, with the raw text breaking ties
// ("5" and "05"). Other IDs compare lexicographically.
func (id ID) Compare(other ID) int {
	a, errA := strconv.ParseInt(string(id), 10, 64)
	b, errB := strconv.ParseInt(string(other), 10, 64)

	switch {
	case errA == nil && errB == nil:
		if c := cmp.Compare(a, b); c != 0 {
			return c
		}
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return strings.Compare(string(id), string(other))
}

// MarshalJSON implements json.Marshaler.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.canonicalNumber() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("failed to decode id: %w", err)
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("failed to decode id: %w", err)
	}
	*id = ID(n.String())
	return nil
}
