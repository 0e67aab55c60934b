package main

import (
	"errors"
	"regexp"
)

// Grammar of a cadastral number: district, area, quarter, parcel,
// e.g. "12:34:567890:1011".
var cadastralNumberRe = regexp.MustCompile(`^\d{2}:\d{2}:\d{6,7}:\d+$`)

var ErrCadastralFormat = errors.New("cadastral number does not match the required format")

// ValidateCadastralNumber checks a candidate against the cadastral-number
// grammar. The input is never normalized; callers use it as-is on success.
func ValidateCadastralNumber(value string) error {
	if !cadastralNumberRe.MatchString(value) {
		return ErrCadastralFormat
	}
	return nil
}
