package demo

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"

	"moneymind/internal/domain/transaction"
)

var (
	expenseCategories = []string{
		"Food & Dining", "Shopping", "Transportation", "Entertainment",
		"Housing", "Healthcare", "Utilities", "Education", "Travel",
	}
	incomeCategories = []string{"Salary", "Freelance", "Gift", "Bonus", "Investments"}
)

// RandomTransactions generates count plausible transactions dated within the
// window ending at end. Roughly one in five is income.
func RandomTransactions(faker *gofakeit.Faker, count int, end time.Time, window time.Duration) []transaction.Params {
	start := end.Add(-window)
	out := make([]transaction.Params, 0, count)

	for range count {
		p := transaction.Params{
			Type:     transaction.TypeExpense,
			Category: faker.RandomString(expenseCategories),
			Amount:   decimal.NewFromFloat(faker.Price(1, 500)).Round(2),
			Note:     faker.Sentence(4),
		}
		if faker.Number(1, 5) == 1 {
			p.Type = transaction.TypeIncome
			p.Category = faker.RandomString(incomeCategories)
			p.Amount = decimal.NewFromFloat(faker.Price(100, 4000)).Round(2)
		}
		if p.Amount.LessThan(decimal.NewFromInt(1)) {
			p.Amount = decimal.NewFromInt(1)
		}

		d := faker.DateRange(start, end).UTC()
		p.Date = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)

		out = append(out, p)
	}
	return out
}
