package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCadastralNumberAccepts(t *testing.T) {
	valid := []string{
		"12:34:567890:10",
		"12:34:567890:1011",
		"12:34:5678901:1",
		"00:00:000000:0",
		"99:99:9999999:1234567890",
	}
	for _, number := range valid {
		assert.NoError(t, ValidateCadastralNumber(number), number)
	}
}

func TestValidateCadastralNumberRejects(t *testing.T) {
	invalid := []string{
		"",
		"invalid_format_",
		"12:34:567890",        // missing parcel group
		"12:34:567890:",       // empty parcel group
		"1:34:567890:1011",    // short district
		"123:34:567890:10",    // long district
		"12:3:567890:1011",    // short area
		"12:34:56789:1011",    // short quarter
		"12:34:56789012:1011", // long quarter
		"12-34-567890-1011",   // wrong separators
		"12:34:567890:10a",    // trailing garbage
		"a12:34:567890:10",    // leading garbage
		"12:ab:567890:1011",   // letters inside
	}
	for _, number := range invalid {
		err := ValidateCadastralNumber(number)
		require.Error(t, err, number)
		assert.EqualError(t, err, "cadastral number does not match the required format")
	}
}
