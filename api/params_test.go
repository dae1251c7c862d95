package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamsStrings(t *testing.T) {
	p := Params{
		"page":  2,
		"q":     "kot",
		"date":  time.Date(2013, 5, 1, 0, 0, 0, 0, time.UTC),
		"plus":  true,
		"empty": nil,
	}

	got, err := p.Strings()

	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"page":  "2",
		"q":     "kot",
		"date":  "2013-05-01",
		"plus":  "true",
		"empty": "",
	}, got)
}

func TestParamsStrings_InvalidValue(t *testing.T) {
	_, err := Params{"bad": []byte{0xff}}.Strings()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"bad"`)
}

func TestFlatEncoder(t *testing.T) {
	tests := []struct {
		name     string
		params   map[string]string
		expected []string
	}{
		{"empty", map[string]string{}, []string{""}},
		{
			"defaults",
			map[string]string{"userkey": "", "output": "", "format": "json", "appkey": "123456app"},
			[]string{"appkey,123456app,format,json,output,,userkey,"},
		},
		{"single", map[string]string{"page": "2"}, []string{"page,2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FlatEncoder{}.Encode(tt.params))
		})
	}
}

func TestParamsCompact(t *testing.T) {
	day := time.Time{}
	p := Params{
		"zero":    0,
		"zerof":   0.0,
		"zerou":   uint8(0),
		"false":   false,
		"nil":     nil,
		"empty":   "",
		"nilptr":  (*int)(nil),
		"noslice": []string{},
		"page":    2,
		"plus18":  true,
		"q":       "kot",
		"date":    day,
	}

	got := p.Compact()

	assert.Equal(t, Params{"page": 2, "plus18": true, "q": "kot", "date": day}, got)
	assert.Len(t, p, 12, "Compact must not modify the receiver")
}

func TestSegmentEncoder(t *testing.T) {
	params := map[string]string{
		"userkey": "",
		"output":  "",
		"format":  "json",
		"appkey":  "123456app",
		"page":    "3",
	}

	got := SegmentEncoder{}.Encode(params)

	assert.Equal(t, []string{"appkey", "123456app", "format", "json", "page", "3"}, got)
}

func TestSegmentEncoder_AllEmpty(t *testing.T) {
	got := SegmentEncoder{}.Encode(map[string]string{"userkey": ""})
	assert.Empty(t, got)
}

func TestFlatRoundTrip(t *testing.T) {
	inputs := []map[string]string{
		{},
		{"appkey": "123456app", "format": "json", "output": "", "userkey": ""},
		{"a": "1", "b": "zażółć", "c": "x y"},
	}

	for _, in := range inputs {
		encoded := EncodeFlat(in)
		decoded, err := DecodeFlat(encoded)
		require.NoError(t, err)
		assert.Equal(t, in, decoded, "encoded: %q", encoded)
	}
}

func TestSegmentRoundTrip(t *testing.T) {
	in := map[string]string{"appkey": "k", "page": "2", "sort": "votes"}

	decoded, err := DecodeSegments(SegmentEncoder{}.Encode(in))

	require.NoError(t, err)
	assert.Equal(t, in, decoded)
}

func TestDecodeFlat_OddTokens(t *testing.T) {
	_, err := DecodeFlat("appkey,1,format")
	assert.Error(t, err)
}

func TestDecodeSegments_OddSegments(t *testing.T) {
	_, err := DecodeSegments([]string{"appkey"})
	assert.Error(t, err)
}

// A separator inside a value shifts every following pair; the encoders do not escape.
func TestFlatEncoder_SeparatorInValueCorruptsPairs(t *testing.T) {
	encoded := EncodeFlat(map[string]string{"a": "x,y", "b": "z"})

	_, err := DecodeFlat(encoded)

	assert.Error(t, err)
}
