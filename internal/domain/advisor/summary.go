package advisor

import (
	"strings"

	"github.com/shopspring/decimal"

	"moneymind/internal/domain/transaction"
)

const (
	recentCount     = 5
	noExpenses      = "No expenses recorded"
	noRecentEntries = "No recent transactions"
)

// Summary is the financial context handed to the model.
type Summary struct {
	Income      decimal.Decimal
	Expenses    decimal.Decimal
	Balance     decimal.Decimal
	TopCategory string
	Recent      string
}

// Summarize expects transactions ordered most recent first. The top expense
// category is the one with the largest summed amount; on a tie the category
// seen first wins.
func Summarize(txs []*transaction.Transaction) Summary {
	s := Summary{
		Income:      decimal.Zero,
		Expenses:    decimal.Zero,
		TopCategory: noExpenses,
		Recent:      noRecentEntries,
	}

	var order, recent []string
	byCategory := make(map[string]decimal.Decimal)
	for i, t := range txs {
		switch t.Type {
		case transaction.TypeIncome:
			s.Income = s.Income.Add(t.Amount)
		case transaction.TypeExpense:
			s.Expenses = s.Expenses.Add(t.Amount)
			if _, seen := byCategory[t.Category]; !seen {
				order = append(order, t.Category)
			}
			byCategory[t.Category] = byCategory[t.Category].Add(t.Amount)
		}
		if i < recentCount {
			recent = append(recent, recentLine(t))
		}
	}
	s.Balance = s.Income.Sub(s.Expenses)

	if len(order) > 0 {
		top := order[0]
		for _, c := range order[1:] {
			if byCategory[c].GreaterThan(byCategory[top]) {
				top = c
			}
		}
		s.TopCategory = top
	}
	if len(recent) > 0 {
		s.Recent = strings.Join(recent, ", ")
	}
	return s
}

func recentLine(t *transaction.Transaction) string {
	sign := "-"
	if t.Type == transaction.TypeIncome {
		sign = "+"
	}
	return sign + "₹" + FormatINR(t.Amount) + " in " + t.Category
}
