// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package isbn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		want       string
		wantFormat Format
		wantErr    error
	}{
		{"hyphenated 13", "978-0-06-231609-7", "9780062316097", ISBN13, nil},
		{"spaced 13", "978 0 06 231609 7", "9780062316097", ISBN13, nil},
		{"labelled 13", "ISBN 978-0-06-231609-7", "9780062316097", ISBN13, nil},
		{"qualifier", "9780062316097 (inb.)", "9780062316097", ISBN13, nil},
		{"compact 10", "0062316095", "0062316095", ISBN10, nil},
		{"hyphenated 10", "0-06-231609-5", "0062316095", ISBN10, nil},
		{"x check digit", "0-8044-2957-x", "080442957X", ISBN10, nil},
		{"bad checksum 13", "978-0-06-231609-8", "", 0, ErrChecksum},
		{"bad checksum 10", "0062316096", "", 0, ErrChecksum},
		{"wrong prefix", "1230062316097", "", 0, ErrFormat},
		{"too short", "12345", "", 0, ErrFormat},
		{"letters", "97800623160AB", "", 0, ErrFormat},
		{"empty", "", "", 0, ErrFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Compact)
			assert.Equal(t, tt.wantFormat, got.Format)
		})
	}
}

func TestNormalizationIsIdempotent(t *testing.T) {
	for _, raw := range []string{"978-0-06-231609-7", "0-8044-2957-X"} {
		first, err := Parse(raw)
		require.NoError(t, err)
		second, err := Parse(first.Compact)
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, first.Compact, Compact(first.Compact))
	}
}

func TestDifferentPunctuationSameKey(t *testing.T) {
	a, err := Parse("978-0-06-231609-7")
	require.NoError(t, err)
	b, err := Parse("978 006 2316097")
	require.NoError(t, err)
	assert.Equal(t, a.Compact, b.Compact)
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("9780062316097"))
	assert.False(t, Valid("9780062316098"))
}
