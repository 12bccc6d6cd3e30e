package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_MarshalJSON(t *testing.T) {
	tests := []struct {
		id       ID
		expected string
	}{
		{"12", `12`},
		{"-3", `-3`},
		{"0", `0`},
		{"007", `"007"`},
		{"+5", `"+5"`},
		{"-0", `"-0"`},
		{"abc", `"abc"`},
		{"", `""`},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			data, err := json.Marshal(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(data))

			var back ID
			require.NoError(t, json.Unmarshal(data, &back))
			assert.Equal(t, tt.id, back)
		})
	}
}

func TestID_UnmarshalJSON(t *testing.T) {
	var ids []ID
	require.NoError(t, json.Unmarshal([]byte(`[7, "7", "x-1", null]`), &ids))
	assert.Equal(t, []ID{"7", "7", "x-1", ""}, ids)

	var id ID
	assert.Error(t, json.Unmarshal([]byte(`true`), &id))
}

func TestID_Compare(t *testing.T) {
	assert.Equal(t, -1, ID("2").Compare("10"))
	assert.Equal(t, 1, ID("10").Compare("2"))
	assert.Equal(t, 0, ID("10").Compare("10"))
	assert.Equal(t, -1, ID("abc").Compare("abd"))
	assert.Equal(t, -1, ID("10").Compare("1a"))
	assert.Equal(t, 1, ID("1a").Compare("2"))
	assert.Equal(t, 1, ID("5").Compare("05"), "equal values fall back to the raw text")
}

func TestID_CompareIsTransitive(t *testing.T) {
	ids := []ID{"2", "10", "1a", "05", "5", "abc", "-1", ""}

	for _, a := range ids {
		for _, b := range ids {
			assert.Equal(t, -a.Compare(b), b.Compare(a), "antisymmetry for %q %q", a, b)
			for _, c := range ids {
				if a.Compare(b) <= 0 && b.Compare(c) <= 0 {
					assert.LessOrEqual(t, a.Compare(c), 0, "%q <= %q <= %q", a, b, c)
				}
			}
		}
	}
}
