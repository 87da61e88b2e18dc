package transaction

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

var ErrInvalidType = errors.New("type must be income or expense")

func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeIncome, TypeExpense:
		return Type(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
}

// Transaction is a single income or expense entry. Amount keeps its exact
// decimal value; the sign is implied by Type.
type Transaction struct {
	ID        int64
	UserID    int64
	Amount    decimal.Decimal
	Type      Type
	Category  string
	Note      string
	Date      time.Time // calendar date, time of day is zero
	CreatedAt time.Time
}

// Params carries the client-editable fields for create and full-replace update.
type Params struct {
	Amount   decimal.Decimal
	Type     Type
	Category string
	Note     string
	Date     time.Time
}
