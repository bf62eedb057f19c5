package partition

import (
	"errors"
	"testing"

	"github.com/ValentinKolb/hivemeta/rpc/hmsapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keys(names ...string) []*hmsapi.FieldSchema {
	fs := make([]*hmsapi.FieldSchema, len(names))
	for i, name := range names {
		fs[i] = &hmsapi.FieldSchema{Name: name, Type: "string"}
	}
	return fs
}

func TestPartitionPath(t *testing.T) {
	testCases := []struct {
		name     string
		keys     []*hmsapi.FieldSchema
		values   map[string]string
		expected string
	}{
		{
			name:     "SingleKey",
			keys:     keys("ds"),
			values:   map[string]string{"ds": "2024-01-01"},
			expected: "ds=2024-01-01",
		},
		{
			name:     "KeyOrderWins",
			keys:     keys("ds", "country"),
			values:   map[string]string{"country": "US", "ds": "2024-01-01"},
			expected: "ds=2024-01-01/country=US",
		},
		{
			name:     "ExtraValuesIgnored",
			keys:     keys("ds"),
			values:   map[string]string{"ds": "x", "hr": "01"},
			expected: "ds=x",
		},
		{
			name:     "KeyLowerCased",
			keys:     keys("DS"),
			values:   map[string]string{"DS": "Mixed"},
			expected: "ds=Mixed",
		},
		{
			name:     "Escaped",
			keys:     keys("p"),
			values:   map[string]string{"p": "a/b:c"},
			expected: "p=a%2Fb%3Ac",
		},
		{
			name:     "EmptyValue",
			keys:     keys("p"),
			values:   map[string]string{"p": ""},
			expected: "p=" + DefaultPartitionName,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path, err := PartitionPath(tc.keys, tc.values)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, path)
		})
	}
}

func TestPartitionPathMissingValue(t *testing.T) {
	_, err := PartitionPath(keys("ds", "hr"), map[string]string{"ds": "2024-01-01"})

	var mve *MissingValueError
	require.ErrorAs(t, err, &mve)
	assert.Equal(t, "hr", mve.Key)

	// the lookup is case-sensitive
	_, err = PartitionPath(keys("ds"), map[string]string{"DS": "x"})
	require.ErrorAs(t, err, &mve)
}

func TestMakePartNameErrors(t *testing.T) {
	_, err := MakePartName(nil, nil)
	assert.True(t, errors.Is(err, ErrNoKeys))

	_, err = MakePartName(keys("a", "b"), []string{"1"})
	assert.True(t, errors.Is(err, ErrSizeMismatch))

	_, err = PartitionPath(nil, map[string]string{"a": "1"})
	assert.True(t, errors.Is(err, ErrNoKeys))
}

func TestEscapePathName(t *testing.T) {
	testCases := []struct {
		in, expected string
	}{
		{"plain-value_1.0", "plain-value_1.0"},
		{"a b", "a b"},
		{"\"#%'*/:=?\\", "%22%23%25%27%2A%2F%3A%3D%3F%5C"},
		{"{[]^", "%7B%5B%5D%5E"},
		{"\x01\x1f\x7f", "%01%1F%7F"},
		{"}", "}"},
		{"über", "über"},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			escaped := EscapePathName(tc.in)
			assert.Equal(t, tc.expected, escaped)
			assert.Equal(t, tc.in, UnescapePathName(escaped))
		})
	}
}

func TestUnescapePathName(t *testing.T) {
	assert.Equal(t, "a/b", UnescapePathName("a%2fb"))
	assert.Equal(t, "100%", UnescapePathName("100%"))
	assert.Equal(t, "%2", UnescapePathName("%2"))
	assert.Equal(t, "%zz", UnescapePathName("%zz"))
}

func TestParsePartName(t *testing.T) {
	values := map[string]string{"ds": "2024/01/01", "country": "", "hr": "a=b"}
	name, err := PartitionPath(keys("ds", "country", "hr"), values)
	require.NoError(t, err)

	parsed, parsedValues, err := ParsePartName(name)
	require.NoError(t, err)
	assert.Equal(t, []string{"ds", "country", "hr"}, parsed)
	assert.Equal(t, map[string]string{"ds": "2024/01/01", "country": DefaultPartitionName, "hr": "a=b"}, parsedValues)

	for _, invalid := range []string{"", "/", "ds", "ds=", "=x", "ds=1/ds=2"} {
		_, _, err := ParsePartName(invalid)
		assert.Error(t, err, invalid)
	}
}

func TestPartitionLocation(t *testing.T) {
	loc, err := PartitionLocation("hdfs://nn/warehouse/db.db/events/", keys("ds"), map[string]string{"ds": "2024-01-01"})
	require.NoError(t, err)
	assert.Equal(t, "hdfs://nn/warehouse/db.db/events/ds=2024-01-01", loc)
}
