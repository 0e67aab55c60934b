package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// JsonDetail is the body of every error response.
type JsonDetail struct {
	Detail string `json:"detail"`
}

func MarshalDetail(detail string) []byte {
	enc, err := json.Marshal(JsonDetail{Detail: detail})
	if err != nil {
		panic(err)
	}
	return enc
}

func WriteDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(MarshalDetail(detail))
}

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	enc, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(enc)
}

// QueryCreate is the body of POST /query. Coordinates are kept as
// json.Number so significant-digit limits can be checked on the exact
// text the client sent.
type QueryCreate struct {
	CadastralNumber string       `json:"cadastralNumber"`
	Latitude        *json.Number `json:"latitude"`
	Longitude       *json.Number `json:"longitude"`
}

// Validate applies the length, grammar, and coordinate rules.
func (q *QueryCreate) Validate() error {
	if l := len(q.CadastralNumber); l < 15 || l > 25 {
		return errors.New("cadastral number must be between 15 and 25 characters")
	}
	if err := ValidateCadastralNumber(q.CadastralNumber); err != nil {
		return err
	}
	if q.Latitude != nil {
		if err := validateCoordinate("latitude", string(*q.Latitude), 8, 90); err != nil {
			return err
		}
	}
	if q.Longitude != nil {
		if err := validateCoordinate("longitude", string(*q.Longitude), 9, 180); err != nil {
			return err
		}
	}
	return nil
}

const COORDINATE_DECIMAL_PLACES = 6

// validateCoordinate checks a decimal coordinate literal: at most
// maxDigits digits total with 6 decimal places, then strictly inside
// (-bound, bound). Digit limits are checked before the range, so an
// over-wide value like 100 for latitude reports a digit error, not a
// range error.
func validateCoordinate(name, value string, maxDigits int, bound float64) error {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(value, "-"), "+")
	if trimmed == "" || strings.ContainsAny(trimmed, "eE") {
		return fmt.Errorf("%s must be a decimal number", name)
	}

	whole := trimmed
	frac := ""
	if i := strings.IndexByte(trimmed, '.'); i >= 0 {
		whole, frac = trimmed[:i], trimmed[i+1:]
	}
	for _, part := range []string{whole, frac} {
		for _, c := range part {
			if c < '0' || c > '9' {
				return fmt.Errorf("%s must be a decimal number", name)
			}
		}
	}

	if len(frac) > COORDINATE_DECIMAL_PLACES {
		return fmt.Errorf("%s must have at most %d decimal places", name, COORDINATE_DECIMAL_PLACES)
	}
	if len(strings.TrimLeft(whole, "0")) > maxDigits-COORDINATE_DECIMAL_PLACES {
		return fmt.Errorf("%s must have at most %d digits before the decimal point", name, maxDigits-COORDINATE_DECIMAL_PLACES)
	}

	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("%s must be a decimal number", name)
	}
	if v <= -bound || v >= bound {
		return fmt.Errorf("%s must be in the range -%g to %g", name, bound, bound)
	}
	return nil
}

// coordinateValue converts a validated json.Number into the stored form.
func coordinateValue(n *json.Number) *float64 {
	if n == nil {
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil
	}
	return &f
}
