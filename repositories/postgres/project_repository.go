package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/ideaforge/dashboard/models"
	"github.com/ideaforge/dashboard/repositories"
	"go.uber.org/zap"
)

// ProjectRepository implements the repositories.ProjectRepository interface
type ProjectRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *DB, logger *zap.Logger) repositories.ProjectRepository {
	return &ProjectRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new project
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	query := `
		INSERT INTO projects (id, user_id, name, description, domain, skill_level, available_time, budget, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		project.ID,
		project.UserID,
		project.Name,
		project.Description,
		project.Domain,
		project.SkillLevel,
		project.AvailableTime,
		project.Budget,
		project.Status,
		project.CreatedAt,
		project.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	r.logger.Debug("project created", zap.String("id", project.ID.String()), zap.String("name", project.Name))
	return nil
}

// GetByID retrieves a project by ID
func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	query := `
		SELECT id, user_id, name, description, domain, skill_level, available_time, budget, status, created_at, updated_at
		FROM projects
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	project := &models.Project{}

	err := executor.QueryRowContext(ctx, query, id).Scan(
		&project.ID,
		&project.UserID,
		&project.Name,
		&project.Description,
		&project.Domain,
		&project.SkillLevel,
		&project.AvailableTime,
		&project.Budget,
		&project.Status,
		&project.CreatedAt,
		&project.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("project not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return project, nil
}

// ListByUser retrieves all projects owned by the user
func (r *ProjectRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Project, error) {
	query := `
		SELECT id, user_id, name, description, domain, skill_level, available_time, budget, status, created_at, updated_at
		FROM projects
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		project := &models.Project{}
		err := rows.Scan(
			&project.ID,
			&project.UserID,
			&project.Name,
			&project.Description,
			&project.Domain,
			&project.SkillLevel,
			&project.AvailableTime,
			&project.Budget,
			&project.Status,
			&project.CreatedAt,
			&project.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return projects, nil
}

// Update updates a project
func (r *ProjectRepository) Update(ctx context.Context, project *models.Project) error {
	query := `
		UPDATE projects
		SET name = $2,
		    description = $3,
		    domain = $4,
		    skill_level = $5,
		    available_time = $6,
		    budget = $7,
		    status = $8,
		    updated_at = $9
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		project.ID,
		project.Name,
		project.Description,
		project.Domain,
		project.SkillLevel,
		project.AvailableTime,
		project.Budget,
		project.Status,
		project.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("project not found: %s", project.ID)
	}

	r.logger.Debug("project updated", zap.String("id", project.ID.String()))
	return nil
}

// Delete deletes a project
func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM projects WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("project not found: %s", id)
	}

	r.logger.Debug("project deleted", zap.String("id", id.String()))
	return nil
}
