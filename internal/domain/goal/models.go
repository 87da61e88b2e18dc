package goal

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal is a savings target. CurrentAmount is not capped by TargetAmount.
type Goal struct {
	ID            int64
	UserID        int64
	Title         string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	Deadline      time.Time
	CreatedAt     time.Time
}

type Params struct {
	Title         string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	Deadline      time.Time
}

// Progress returns CurrentAmount / TargetAmount, or zero for a zero target.
func (g *Goal) Progress() decimal.Decimal {
	if g.TargetAmount.IsZero() {
		return decimal.Zero
	}
	return g.CurrentAmount.Div(g.TargetAmount)
}
