// Package http provides the JSON REST API.
//
// This file implements utilities for parsing and validating request data:
// JSON bodies, path ids and year/month query parameters.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Maverick2506/Fintrack-backend/internal/clock"
	"github.com/Maverick2506/Fintrack-backend/internal/core"
	"github.com/shopspring/decimal"
)

// errBadRequest marks malformed requests that never reached the services.
var errBadRequest = errors.New("bad request")

type badRequestError struct {
	msg string
}

func (e *badRequestError) Error() string        { return e.msg }
func (e *badRequestError) Is(target error) bool { return target == errBadRequest }

func badRequest(format string, args ...any) error {
	return &badRequestError{msg: fmt.Sprintf(format, args...)}
}

// MonthParams holds parsed year/month values from request parameters.
type MonthParams struct {
	Year  int
	Month int
}

// ParseMonthParams extracts year and month from query parameters, using the
// current month of clk for missing values. Present but malformed values are
// an error.
func ParseMonthParams(query url.Values, clk clock.Clock) (MonthParams, error) {
	today := clock.Today(clk)
	params := MonthParams{Year: today.Year(), Month: today.Month()}

	if v := strings.TrimSpace(query.Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return MonthParams{}, badRequest("Invalid year %q.", v)
		}
		params.Year = y
	}
	if v := strings.TrimSpace(query.Get("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			return MonthParams{}, badRequest("Invalid month %q.", v)
		}
		params.Month = m
	}
	return params, nil
}

// ParseID reads the {id} path value.
func ParseID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, badRequest("Invalid id %q.", raw)
	}
	return id, nil
}

// DecodeJSON reads a bounded JSON body into dst. Domain validation errors
// raised while decoding (bad dates, bad link ids) pass through unchanged.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var (
			validation *core.ValidationError
			tooLarge   *http.MaxBytesError
			syntax     *json.SyntaxError
			typeErr    *json.UnmarshalTypeError
		)
		switch {
		case errors.As(err, &validation), errors.As(err, &tooLarge):
			return err
		case errors.Is(err, io.EOF):
			return badRequest("Request body is required.")
		case errors.As(err, &syntax):
			return badRequest("Malformed JSON at offset %d.", syntax.Offset)
		case errors.As(err, &typeErr):
			return badRequest("Invalid value for field %q.", typeErr.Field)
		default:
			return badRequest("Invalid request body.")
		}
	}
	return nil
}

// AmountRequest is the body of payment and contribution requests.
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}
