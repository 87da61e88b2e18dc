package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	maxBodyBytes = 1 << 20

	// amounts are stored as NUMERIC(14,2)
	amountScale = 2
)

var amountLimit = decimal.New(1, 12)

var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeJSON reads a JSON body into dst and runs its validate tags. The
// returned error is safe to show to the client.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New("Invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		return errors.New(validationMessage(err))
	}
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body"
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := jsonFieldName(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "email":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid email address", field))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return strings.Join(msgs, "; ")
}

// jsonFieldName lowercases the first letter so messages use the wire names.
func jsonFieldName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// checkAmount rejects values the money columns cannot hold exactly: more than
// two decimal places, or a magnitude of 10^12 or more.
func checkAmount(field string, d decimal.Decimal) error {
	if !d.Equal(d.Truncate(amountScale)) {
		return fmt.Errorf("%s must have at most %d decimal places", field, amountScale)
	}
	if d.Abs().GreaterThanOrEqual(amountLimit) {
		return fmt.Errorf("%s must be less than %s", field, amountLimit)
	}
	return nil
}
