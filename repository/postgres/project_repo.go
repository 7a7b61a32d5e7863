package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
)

type projectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository returns a Postgres-backed implementation of ProjectRepository.
func NewProjectRepository(pool *pgxpool.Pool) repository.ProjectRepository {
	return &projectRepository{pool: pool}
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	const query = `
	SELECT id, user_id, name, description, created_at
	FROM projects
	WHERE id = $1
	`
	return scanProject(r.pool.QueryRow(ctx, query, id))
}

func (r *projectRepository) ListByOwner(ctx context.Context, userID string) ([]domain.Project, error) {
	const query = `
	SELECT id, user_id, name, description, created_at
	FROM projects
	WHERE user_id = $1
	ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *project)
	}
	return projects, rows.Err()
}

func (r *projectRepository) CreateUnderQuota(ctx context.Context, project *domain.Project, maxPerOwner int) error {
	if project == nil {
		return domain.ErrInvalidPayload
	}
	if project.ID == "" {
		project.ID = uuid.NewString()
	}

	// The owner's project count is evaluated inside the INSERT itself, so
	// two concurrent creations cannot both slip under the quota.
	const query = `
	INSERT INTO projects (id, user_id, name, description)
	SELECT $1, $2, $3, $4
	WHERE (SELECT COUNT(*) FROM projects WHERE user_id = $2) < $5
	RETURNING created_at
	`

	if err := r.pool.QueryRow(ctx, query,
		project.ID,
		project.UserID,
		project.Name,
		project.Description,
		maxPerOwner,
	).Scan(&project.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrProjectQuotaExceeded
		}
		return err
	}
	return nil
}

func (r *projectRepository) Update(ctx context.Context, project *domain.Project) error {
	if project == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE projects
	SET name = $2,
		description = $3
	WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, project.ID, project.Name, project.Description)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func (r *projectRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM tasks WHERE project_id = $1`, id); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}

	return tx.Commit(ctx)
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var project domain.Project
	if err := row.Scan(
		&project.ID,
		&project.UserID,
		&project.Name,
		&project.Description,
		&project.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}
