package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"crmhub/internal/models"
)

type LeadRepository interface {
	Create(ctx context.Context, lead *models.Lead) error
	GetByID(ctx context.Context, id string) (*models.Lead, error)
	List(ctx context.Context, filter models.LeadFilter, limit, offset int) ([]models.Lead, error)
	Update(ctx context.Context, lead *models.Lead) error
	Delete(ctx context.Context, id string) error
	GetCount(ctx context.Context) (int, error)
	CountByRating(ctx context.Context) (map[models.LeadRating]int, error)
}

type leadRepository struct {
	db *sql.DB
}

func NewLeadRepository(db *sql.DB) LeadRepository {
	return &leadRepository{db: db}
}

const leadColumns = `id, first_name, last_name, email, phone, company, job_title, source,
       status, score, rating, owner_id, created_at, updated_at`

func (r *leadRepository) Create(ctx context.Context, lead *models.Lead) error {
	query := `
		INSERT INTO leads (` + leadColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`
	_, err := r.db.ExecContext(ctx, query,
		lead.ID, lead.FirstName, lead.LastName, lead.Email, lead.Phone,
		lead.Company, lead.JobTitle, lead.Source, lead.Status, lead.Score,
		lead.Rating, lead.OwnerID, lead.CreatedAt, lead.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func (r *leadRepository) GetByID(ctx context.Context, id string) (*models.Lead, error) {
	lead := &models.Lead{}
	err := r.db.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id).Scan(
		&lead.ID, &lead.FirstName, &lead.LastName, &lead.Email, &lead.Phone,
		&lead.Company, &lead.JobTitle, &lead.Source, &lead.Status, &lead.Score,
		&lead.Rating, &lead.OwnerID, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return lead, nil
}

func (r *leadRepository) List(ctx context.Context, filter models.LeadFilter, limit, offset int) ([]models.Lead, error) {
	baseQuery := `SELECT ` + leadColumns + ` FROM leads`

	conditions := []string{}
	args := []interface{}{}
	argID := 1

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argID))
		args = append(args, *filter.Status)
		argID++
	}
	if filter.Rating != nil {
		conditions = append(conditions, fmt.Sprintf("rating = $%d", argID))
		args = append(args, *filter.Rating)
		argID++
	}
	if filter.OwnerID != nil {
		conditions = append(conditions, fmt.Sprintf("owner_id = $%d", argID))
		args = append(args, *filter.OwnerID)
		argID++
	}

	if len(conditions) > 0 {
		baseQuery += " WHERE " + strings.Join(conditions, " AND ")
	}
	baseQuery += fmt.Sprintf(" ORDER BY score DESC, created_at DESC LIMIT $%d OFFSET $%d", argID, argID+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, baseQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []models.Lead
	for rows.Next() {
		var l models.Lead
		if err := rows.Scan(
			&l.ID, &l.FirstName, &l.LastName, &l.Email, &l.Phone,
			&l.Company, &l.JobTitle, &l.Source, &l.Status, &l.Score,
			&l.Rating, &l.OwnerID, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

func (r *leadRepository) Update(ctx context.Context, lead *models.Lead) error {
	query := `
		UPDATE leads SET
			first_name=$1, last_name=$2, email=$3, phone=$4, company=$5,
			job_title=$6, source=$7, status=$8, score=$9, rating=$10, owner_id=$11, updated_at=$12
		WHERE id=$13`
	_, err := r.db.ExecContext(ctx, query,
		lead.FirstName, lead.LastName, lead.Email, lead.Phone, lead.Company,
		lead.JobTitle, lead.Source, lead.Status, lead.Score, lead.Rating,
		lead.OwnerID, lead.UpdatedAt, lead.ID,
	)
	return err
}

func (r *leadRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	return err
}

func (r *leadRepository) GetCount(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads`).Scan(&n)
	return n, err
}

func (r *leadRepository) CountByRating(ctx context.Context) (map[models.LeadRating]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT rating, COUNT(*) FROM leads GROUP BY rating`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[models.LeadRating]int{}
	for rows.Next() {
		var rating models.LeadRating
		var n int
		if err := rows.Scan(&rating, &n); err != nil {
			return nil, err
		}
		out[rating] = n
	}
	return out, rows.Err()
}
