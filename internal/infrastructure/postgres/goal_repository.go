package postgres

import (
	"context"
	"fmt"

	"moneymind/internal/domain/goal"
)

const goalColumns = `id, user_id, title, target_amount, current_amount, deadline, created_at`

const (
	insertGoalSQL = `
		INSERT INTO goals (user_id, title, target_amount, current_amount, deadline)
		VALUES ($1, $2, $3, $4, $5::date)
		RETURNING ` + goalColumns

	listGoalsSQL = `
		SELECT ` + goalColumns + `
		FROM goals
		WHERE user_id = $1
		ORDER BY created_at DESC`

	updateGoalSQL = `
		UPDATE goals
		SET title = $1, target_amount = $2, current_amount = $3, deadline = $4::date
		WHERE id = $5 AND user_id = $6
		RETURNING ` + goalColumns

	deleteGoalSQL = `DELETE FROM goals WHERE id = $1 AND user_id = $2`
)

type GoalRepository struct {
	db *DB
}

func NewGoalRepository(db *DB) *GoalRepository {
	return &GoalRepository{db: db}
}

func scanGoal(row interface{ Scan(...any) error }) (*goal.Goal, error) {
	var g goal.Goal
	err := row.Scan(&g.ID, &g.UserID, &g.Title, &g.TargetAmount, &g.CurrentAmount, &g.Deadline, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GoalRepository) Create(ctx context.Context, userID int64, params goal.Params) (*goal.Goal, error) {
	g, err := scanGoal(r.db.QueryRowContext(ctx, insertGoalSQL,
		userID, params.Title, params.TargetAmount, params.CurrentAmount, params.Deadline,
	))
	if err != nil {
		return nil, mapError("failed to create goal", err)
	}
	return g, nil
}

func (r *GoalRepository) ListByUser(ctx context.Context, userID int64) ([]*goal.Goal, error) {
	rows, err := r.db.QueryContext(ctx, listGoalsSQL, userID)
	if err != nil {
		return nil, mapError("failed to list goals", err)
	}
	defer rows.Close()

	goals := []*goal.Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goals: %w", err)
	}

	return goals, nil
}

func (r *GoalRepository) Update(ctx context.Context, userID, id int64, params goal.Params) (*goal.Goal, error) {
	g, err := scanGoal(r.db.QueryRowContext(ctx, updateGoalSQL,
		params.Title, params.TargetAmount, params.CurrentAmount, params.Deadline, id, userID,
	))
	if err != nil {
		return nil, mapError("failed to update goal", err)
	}
	return g, nil
}

func (r *GoalRepository) Delete(ctx context.Context, userID, id int64) error {
	result, err := r.db.ExecContext(ctx, deleteGoalSQL, id, userID)
	if err != nil {
		return mapError("failed to delete goal", err)
	}
	return requireRow(result)
}
