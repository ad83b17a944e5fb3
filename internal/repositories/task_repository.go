package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"crmhub/internal/models"
)

type TaskRepository interface {
	Store(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id string) (*models.Task, error)
	FindAll(ctx context.Context, filter models.TaskFilter, limit, offset int) ([]models.Task, int, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id string) error

	StoreComment(ctx context.Context, comment *models.TaskComment) error
	FindComments(ctx context.Context, taskID string, limit, offset int) ([]models.TaskComment, int, error)

	CountByStatus(ctx context.Context) (map[models.TaskStatus]int, error)
	CountByPriority(ctx context.Context) (map[models.TaskPriority]int, error)
	CountOverdue(ctx context.Context) (int, error)
}

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `id, title, description, status, priority, due_date, completed_at,
       completion_note, created_by_id, assigned_to_id, created_at, updated_at`

func (r *taskRepository) Store(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`
	_, err := r.db.ExecContext(ctx, query,
		task.ID, task.Title, task.Description, task.Status, task.Priority,
		task.DueDate, task.CompletedAt, task.CompletionNote,
		task.CreatedByID, task.AssignedToID, task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *taskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	task := &models.Task{}
	var note sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&task.ID, &task.Title, &task.Description, &task.Status, &task.Priority,
		&task.DueDate, &task.CompletedAt, &note,
		&task.CreatedByID, &task.AssignedToID, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	task.CompletionNote = note.String
	return task, nil
}

func (r *taskRepository) FindAll(ctx context.Context, filter models.TaskFilter, limit, offset int) ([]models.Task, int, error) {
	conditions := []string{}
	args := []interface{}{}
	argID := 1

	add := func(cond string, vals ...interface{}) {
		conditions = append(conditions, cond)
		args = append(args, vals...)
		argID += len(vals)
	}

	if filter.VisibleToID != "" {
		add(fmt.Sprintf("(created_by_id = $%d OR assigned_to_id = $%d)", argID, argID+1),
			filter.VisibleToID, filter.VisibleToID)
	}
	if len(filter.Statuses) > 0 {
		add(fmt.Sprintf("status = ANY($%d)", argID), pq.Array(statusStrings(filter.Statuses)))
	}
	if len(filter.Priorities) > 0 {
		add(fmt.Sprintf("priority = ANY($%d)", argID), pq.Array(priorityStrings(filter.Priorities)))
	}
	if len(filter.AssignedTo) > 0 {
		add(fmt.Sprintf("assigned_to_id = ANY($%d)", argID), pq.Array(filter.AssignedTo))
	}
	if len(filter.CreatedBy) > 0 {
		add(fmt.Sprintf("created_by_id = ANY($%d)", argID), pq.Array(filter.CreatedBy))
	}
	if filter.Search != "" {
		add(fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", argID, argID+1),
			"%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	if filter.Overdue {
		add("due_date < NOW() AND status <> 'COMPLETED'")
	}
	if filter.DateFrom != nil {
		add(fmt.Sprintf("created_at >= $%d", argID), *filter.DateFrom)
	}
	if filter.DateTo != nil {
		add(fmt.Sprintf("created_at <= $%d", argID), *filter.DateTo)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + taskColumns + ` FROM tasks` + where +
		fmt.Sprintf(` ORDER BY status ASC, priority DESC, due_date ASC NULLS LAST, created_at DESC LIMIT $%d OFFSET $%d`,
			argID, argID+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		var note sql.NullString
		if err := rows.Scan(
			&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority,
			&t.DueDate, &t.CompletedAt, &note,
			&t.CreatedByID, &t.AssignedToID, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		t.CompletionNote = note.String
		tasks = append(tasks, t)
	}
	return tasks, total, rows.Err()
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	query := `
		UPDATE tasks SET
			title=$1, description=$2, status=$3, priority=$4, due_date=$5,
			completed_at=$6, completion_note=$7, assigned_to_id=$8, updated_at=$9
		WHERE id=$10`
	_, err := r.db.ExecContext(ctx, query,
		task.Title, task.Description, task.Status, task.Priority, task.DueDate,
		task.CompletedAt, task.CompletionNote, task.AssignedToID, task.UpdatedAt, task.ID,
	)
	return err
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	// comments cascade via FK
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return err
}

func (r *taskRepository) StoreComment(ctx context.Context, comment *models.TaskComment) error {
	query := `
		INSERT INTO task_comments (id, task_id, user_id, comment, created_at)
		VALUES ($1,$2,$3,$4,$5)`
	_, err := r.db.ExecContext(ctx, query,
		comment.ID, comment.TaskID, comment.UserID, comment.Comment, comment.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert task comment: %w", err)
	}
	return nil
}

func (r *taskRepository) FindComments(ctx context.Context, taskID string, limit, offset int) ([]models.TaskComment, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM task_comments WHERE task_id = $1`, taskID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, task_id, user_id, comment, created_at
		FROM task_comments WHERE task_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, taskID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var comments []models.TaskComment
	for rows.Next() {
		var c models.TaskComment
		if err := rows.Scan(&c.ID, &c.TaskID, &c.UserID, &c.Comment, &c.CreatedAt); err != nil {
			return nil, 0, err
		}
		comments = append(comments, c)
	}
	return comments, total, rows.Err()
}

func (r *taskRepository) CountByStatus(ctx context.Context) (map[models.TaskStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM tasks GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[models.TaskStatus]int{}
	for rows.Next() {
		var s models.TaskStatus
		var n int
		if err := rows.Scan(&s, &n); err != nil {
			return nil, err
		}
		out[s] = n
	}
	return out, rows.Err()
}

func (r *taskRepository) CountByPriority(ctx context.Context) (map[models.TaskPriority]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT priority, COUNT(*) FROM tasks GROUP BY priority`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[models.TaskPriority]int{}
	for rows.Next() {
		var p models.TaskPriority
		var n int
		if err := rows.Scan(&p, &n); err != nil {
			return nil, err
		}
		out[p] = n
	}
	return out, rows.Err()
}

func (r *taskRepository) CountOverdue(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE due_date < NOW() AND status <> 'COMPLETED'`).Scan(&n)
	return n, err
}

func statusStrings(in []models.TaskStatus) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}

func priorityStrings(in []models.TaskPriority) []string {
	out := make([]string, len(in))
	for i, p := range in {
		out[i] = string(p)
	}
	return out
}
