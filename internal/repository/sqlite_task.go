package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkoziel/dayflow/internal/db"
	"github.com/pkoziel/dayflow/internal/domain"
)

// taskColumns is the canonical SELECT column list for tasks.
const taskColumns = `id, title, priority, is_must, is_important, estimate_min,
		cognitive_load, context_type, due_date, completed, completed_at,
		actual_min, postpone_count, subtasks, position, created_at, updated_at`

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

// NewSQLiteTaskRepo creates a new SQLiteTaskRepo.
func NewSQLiteTaskRepo(conn db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: conn}
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	subtasks, err := json.Marshal(t.Subtasks)
	if err != nil {
		return fmt.Errorf("encoding subtasks: %w", err)
	}
	query := `INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		t.ID,
		t.Title,
		domain.ClampPriority(t.Priority),
		boolToInt(t.IsMust),
		boolToInt(t.IsImportant),
		t.EstimateMin,
		domain.ClampLoad(t.CognitiveLoad),
		t.ContextType,
		timeOrNull(t.DueDate, dateLayout),
		boolToInt(t.Completed),
		timeOrNull(t.CompletedAt, time.RFC3339),
		t.ActualMin,
		t.PostponeCount,
		string(subtasks),
		t.Position,
		t.CreatedAt.Format(time.RFC3339),
		t.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	return r.scanTask(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteTaskRepo) List(ctx context.Context, includeCompleted bool) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	if !includeCompleted {
		query += ` WHERE completed = 0`
	}
	query += ` ORDER BY position, created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()
	return r.scanTasks(rows)
}

func (r *SQLiteTaskRepo) ListDueOn(ctx context.Context, day time.Time) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE due_date = ? ORDER BY position, created_at`
	rows, err := r.db.QueryContext(ctx, query, day.UTC().Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("listing tasks by due date: %w", err)
	}
	defer rows.Close()
	return r.scanTasks(rows)
}

func (r *SQLiteTaskRepo) ListCompletedOn(ctx context.Context, day time.Time) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE completed = 1 AND completed_at >= ? AND completed_at < ?
		ORDER BY completed_at`
	start := domain.DateOf(day)
	end := start.AddDate(0, 0, 1)
	rows, err := r.db.QueryContext(ctx, query,
		start.Format(time.RFC3339), end.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("listing completed tasks: %w", err)
	}
	defer rows.Close()
	return r.scanTasks(rows)
}

func (r *SQLiteTaskRepo) ListRecentCompleted(ctx context.Context, limit int) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE completed = 1 ORDER BY completed_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent completed tasks: %w", err)
	}
	defer rows.Close()
	tasks, err := r.scanTasks(rows)
	if err != nil {
		return nil, err
	}
	// Newest-first from the query; callers want oldest-first sequences.
	for i, j := 0, len(tasks)-1; i < j; i, j = i+1, j-1 {
		tasks[i], tasks[j] = tasks[j], tasks[i]
	}
	return tasks, nil
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	subtasks, err := json.Marshal(t.Subtasks)
	if err != nil {
		return fmt.Errorf("encoding subtasks: %w", err)
	}
	query := `UPDATE tasks SET
		title = ?, priority = ?, is_must = ?, is_important = ?, estimate_min = ?,
		cognitive_load = ?, context_type = ?, due_date = ?, completed = ?,
		completed_at = ?, actual_min = ?, postpone_count = ?, subtasks = ?,
		position = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		t.Title,
		domain.ClampPriority(t.Priority),
		boolToInt(t.IsMust),
		boolToInt(t.IsImportant),
		t.EstimateMin,
		domain.ClampLoad(t.CognitiveLoad),
		t.ContextType,
		timeOrNull(t.DueDate, dateLayout),
		boolToInt(t.Completed),
		timeOrNull(t.CompletedAt, time.RFC3339),
		t.ActualMin,
		t.PostponeCount,
		string(subtasks),
		t.Position,
		t.UpdatedAt.Format(time.RFC3339),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking task update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("task %s: %w", t.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return nil
}

// scanTask scans a single task from a *sql.Row.
func (r *SQLiteTaskRepo) scanTask(row *sql.Row) (*domain.Task, error) {
	var t domain.Task
	var isMust, isImportant, completed int
	var dueDate, completedAt sql.NullString
	var subtasks, createdAt, updatedAt string

	err := row.Scan(
		&t.ID, &t.Title, &t.Priority, &isMust, &isImportant, &t.EstimateMin,
		&t.CognitiveLoad, &t.ContextType, &dueDate, &completed, &completedAt,
		&t.ActualMin, &t.PostponeCount, &subtasks, &t.Position, &createdAt, &updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("task: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}
	return r.hydrate(&t, isMust, isImportant, completed, dueDate, completedAt, subtasks, createdAt, updatedAt)
}

// scanTasks scans all tasks from *sql.Rows.
func (r *SQLiteTaskRepo) scanTasks(rows *sql.Rows) ([]*domain.Task, error) {
	var tasks []*domain.Task
	for rows.Next() {
		var t domain.Task
		var isMust, isImportant, completed int
		var dueDate, completedAt sql.NullString
		var subtasks, createdAt, updatedAt string

		err := rows.Scan(
			&t.ID, &t.Title, &t.Priority, &isMust, &isImportant, &t.EstimateMin,
			&t.CognitiveLoad, &t.ContextType, &dueDate, &completed, &completedAt,
			&t.ActualMin, &t.PostponeCount, &subtasks, &t.Position, &createdAt, &updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		task, err := r.hydrate(&t, isMust, isImportant, completed, dueDate, completedAt, subtasks, createdAt, updatedAt)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (r *SQLiteTaskRepo) hydrate(t *domain.Task, isMust, isImportant, completed int,
	dueDate, completedAt sql.NullString, subtasks, createdAt, updatedAt string) (*domain.Task, error) {

	t.IsMust = intToBool(isMust)
	t.IsImportant = intToBool(isImportant)
	t.Completed = intToBool(completed)
	t.DueDate = timeFromNullString(dueDate, dateLayout)
	t.CompletedAt = timeFromNullString(completedAt, time.RFC3339)

	if err := json.Unmarshal([]byte(subtasks), &t.Subtasks); err != nil {
		return nil, fmt.Errorf("decoding subtasks: %w", err)
	}

	var err error
	if t.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing task created_at: %w", err)
	}
	if t.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing task updated_at: %w", err)
	}
	return t, nil
}
