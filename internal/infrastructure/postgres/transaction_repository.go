package postgres

import (
	"context"
	"fmt"
	"strings"

	"moneymind/internal/domain/transaction"
)

const transactionColumns = `id, user_id, amount, type, category, note, date, created_at`

type TransactionRepository struct {
	db *DB
}

func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func scanTransaction(row interface{ Scan(...any) error }) (*transaction.Transaction, error) {
	var t transaction.Transaction
	err := row.Scan(&t.ID, &t.UserID, &t.Amount, &t.Type, &t.Category, &t.Note, &t.Date, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepository) Create(ctx context.Context, userID int64, params transaction.Params) (*transaction.Transaction, error) {
	query := `
		INSERT INTO transactions (user_id, amount, type, category, note, date)
		VALUES ($1, $2, $3, $4, $5, $6::date)
		RETURNING ` + transactionColumns

	t, err := scanTransaction(r.db.QueryRowContext(ctx, query,
		userID, params.Amount, params.Type, params.Category, params.Note, params.Date,
	))
	if err != nil {
		return nil, mapError("failed to create transaction", err)
	}
	return t, nil
}

// Update matches on both id and owner in one statement, so another user's
// id behaves exactly like a missing one.
func (r *TransactionRepository) Update(ctx context.Context, userID, id int64, params transaction.Params) (*transaction.Transaction, error) {
	query := `
		UPDATE transactions
		SET amount = $1, type = $2, category = $3, note = $4, date = $5::date
		WHERE id = $6 AND user_id = $7
		RETURNING ` + transactionColumns

	t, err := scanTransaction(r.db.QueryRowContext(ctx, query,
		params.Amount, params.Type, params.Category, params.Note, params.Date, id, userID,
	))
	if err != nil {
		return nil, mapError("failed to update transaction", err)
	}
	return t, nil
}

func (r *TransactionRepository) Delete(ctx context.Context, userID, id int64) error {
	query := `DELETE FROM transactions WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return mapError("failed to delete transaction", err)
	}
	return requireRow(result)
}

func (r *TransactionRepository) Count(ctx context.Context, q transaction.ListQuery) (int64, error) {
	where, args := buildWhere(q)
	query := `SELECT COUNT(*) FROM transactions WHERE ` + where

	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, mapError("failed to count transactions", err)
	}
	return count, nil
}

func (r *TransactionRepository) List(ctx context.Context, q transaction.ListQuery) ([]*transaction.Transaction, error) {
	where, args := buildWhere(q)
	query := fmt.Sprintf(
		`SELECT %s FROM transactions WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		transactionColumns, where, orderClause(q), len(args)+1, len(args)+2,
	)
	args = append(args, q.Limit, q.Offset())

	return r.query(ctx, query, args...)
}

func (r *TransactionRepository) ListAllByUser(ctx context.Context, userID int64) ([]*transaction.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY date DESC, created_at DESC`

	return r.query(ctx, query, userID)
}

func (r *TransactionRepository) query(ctx context.Context, query string, args ...any) ([]*transaction.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError("failed to list transactions", err)
	}
	defer rows.Close()

	txs := []*transaction.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return txs, nil
}

// buildWhere returns the predicate for a normalized query. The owner
// condition is always present; every value is passed as a parameter.
func buildWhere(q transaction.ListQuery) (string, []any) {
	conds := []string{"user_id = $1"}
	args := []any{q.UserID}

	if q.Filter == transaction.FilterIncome || q.Filter == transaction.FilterExpense {
		args = append(args, string(q.Filter))
		conds = append(conds, fmt.Sprintf("type = $%d", len(args)))
	}

	if q.Search != "" {
		args = append(args, "%"+escapeLike(q.Search)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(`(category ILIKE $%d ESCAPE '\' OR note ILIKE $%d ESCAPE '\')`, n, n))
	}

	return strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// orderClause maps the sort field onto a fixed column list so that no
// client input reaches the SQL text.
func orderClause(q transaction.ListQuery) string {
	column := "created_at"
	switch q.SortBy {
	case transaction.SortByDate:
		column = "date"
	case transaction.SortByAmount:
		column = "amount"
	}

	dir := "DESC"
	if q.SortOrder == transaction.SortAsc {
		dir = "ASC"
	}
	return column + " " + dir
}
