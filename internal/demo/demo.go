// Package demo holds the fixed sample account used by the seed-demo command.
package demo

import (
	"time"

	"github.com/shopspring/decimal"

	"moneymind/internal/domain/transaction"
)

const (
	Email    = "moneymind@gmail.com"
	Password = "happytransactions"
	Name     = "Demo User"
	Phone    = "+1234567890"
	Bio      = "This is a demo account with sample transactions"
)

type entry struct {
	amount   string
	typ      transaction.Type
	category string
	note     string
	date     string
}

var entries = []entry{
	{"45.50", transaction.TypeExpense, "Food & Dining", "Lunch at Cafe Milano", "2026-01-28"},
	{"3500.00", transaction.TypeIncome, "Salary", "Monthly salary", "2026-01-25"},
	{"120.00", transaction.TypeExpense, "Shopping", "New shoes", "2026-01-27"},
	{"65.00", transaction.TypeExpense, "Transportation", "Uber rides", "2026-01-26"},
	{"200.00", transaction.TypeIncome, "Freelance", "Web design project", "2026-01-24"},
	{"89.99", transaction.TypeExpense, "Entertainment", "Movie tickets and dinner", "2026-01-23"},
	{"1200.00", transaction.TypeExpense, "Housing", "Monthly rent", "2026-01-01"},
	{"35.00", transaction.TypeExpense, "Food & Dining", "Grocery shopping", "2026-01-22"},
	{"150.00", transaction.TypeExpense, "Healthcare", "Medical checkup", "2026-01-20"},
	{"50.00", transaction.TypeIncome, "Gift", "Birthday gift from friend", "2026-01-19"},
	{"85.00", transaction.TypeExpense, "Utilities", "Electricity bill", "2026-01-15"},
	{"29.99", transaction.TypeExpense, "Entertainment", "Netflix subscription", "2026-01-10"},
	{"42.50", transaction.TypeExpense, "Food & Dining", "Coffee and pastries", "2026-01-18"},
	{"180.00", transaction.TypeExpense, "Shopping", "Winter jacket", "2026-01-12"},
	{"500.00", transaction.TypeIncome, "Bonus", "Performance bonus", "2026-01-05"},
}

// Transactions returns the fifteen sample transactions in insertion order.
func Transactions() []transaction.Params {
	out := make([]transaction.Params, 0, len(entries))
	for _, e := range entries {
		date, err := time.Parse(time.DateOnly, e.date)
		if err != nil {
			panic(err)
		}
		out = append(out, transaction.Params{
			Amount:   decimal.RequireFromString(e.amount),
			Type:     e.typ,
			Category: e.category,
			Note:     e.note,
			Date:     date,
		})
	}
	return out
}
