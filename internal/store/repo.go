package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SessionRecord is one finished practice round.
type SessionRecord struct {
	ID            string
	Learner       string
	Mode          string
	QuestionCount int
	Total         int
	Correct       int
	Accuracy      float64
	Synthetic     bool
	FinishedAt    time.Time

	Outcomes []OutcomeRecord
}

// OutcomeRecord is one answered item. Grade fields are zero for score
// practice and score fields are zero for grade practice.
type OutcomeRecord struct {
	Category       string
	ItemID         int
	SubmittedGrade int
	CorrectGrade   int

	SubmittedContent      int
	SubmittedOrganization int
	SubmittedExpression   int
	CorrectContent        int
	CorrectOrganization   int
	CorrectExpression     int

	Correct bool
}

// ResultRepo persists finished sessions.
type ResultRepo interface {
	// SaveSession stores rec and its outcomes in one transaction. An empty
	// ID is filled with a new UUID; a zero FinishedAt with the current time.
	SaveSession(ctx context.Context, rec *SessionRecord) error

	// RecentSessions returns up to limit sessions, newest first, without outcomes.
	RecentSessions(ctx context.Context, limit int) ([]SessionRecord, error)

	// Outcomes returns the outcomes of one session in answer order.
	Outcomes(ctx context.Context, sessionID string) ([]OutcomeRecord, error)

	// Reset deletes all recorded sessions and returns how many were removed.
	Reset(ctx context.Context) (int64, error)
}

type resultRepo struct {
	db *sql.DB
}

func (r *resultRepo) SaveSession(ctx context.Context, rec *SessionRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.FinishedAt.IsZero() {
		rec.FinishedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (id, learner, mode, question_count, total, correct, accuracy, synthetic, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Learner, rec.Mode, rec.QuestionCount, rec.Total, rec.Correct,
		rec.Accuracy, rec.Synthetic, rec.FinishedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	for i, o := range rec.Outcomes {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO outcomes (session_id, seq, category, item_id, submitted_grade, correct_grade,
			   submitted_content, submitted_org, submitted_expr, correct_content, correct_org, correct_expr, is_correct)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, i, o.Category, o.ItemID, o.SubmittedGrade, o.CorrectGrade,
			o.SubmittedContent, o.SubmittedOrganization, o.SubmittedExpression,
			o.CorrectContent, o.CorrectOrganization, o.CorrectExpression, o.Correct,
		)
		if err != nil {
			return fmt.Errorf("save outcome %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *resultRepo) RecentSessions(ctx context.Context, limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, learner, mode, question_count, total, correct, accuracy, synthetic, finished_at
		 FROM sessions ORDER BY finished_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		var (
			rec      SessionRecord
			finished int64
		)
		if err := rows.Scan(&rec.ID, &rec.Learner, &rec.Mode, &rec.QuestionCount,
			&rec.Total, &rec.Correct, &rec.Accuracy, &rec.Synthetic, &finished); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		rec.FinishedAt = time.Unix(0, finished).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *resultRepo) Outcomes(ctx context.Context, sessionID string) ([]OutcomeRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category, item_id, submitted_grade, correct_grade,
		   submitted_content, submitted_org, submitted_expr, correct_content, correct_org, correct_expr, is_correct
		 FROM outcomes WHERE session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	var out []OutcomeRecord
	for rows.Next() {
		var o OutcomeRecord
		if err := rows.Scan(&o.Category, &o.ItemID, &o.SubmittedGrade, &o.CorrectGrade,
			&o.SubmittedContent, &o.SubmittedOrganization, &o.SubmittedExpression,
			&o.CorrectContent, &o.CorrectOrganization, &o.CorrectExpression, &o.Correct); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *resultRepo) Reset(ctx context.Context) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// foreign_keys is per connection, so cascades are not relied on.
	if _, err := tx.ExecContext(ctx, `DELETE FROM outcomes`); err != nil {
		return 0, fmt.Errorf("delete outcomes: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM sessions`)
	if err != nil {
		return 0, fmt.Errorf("delete sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, tx.Commit()
}
