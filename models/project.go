package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectStatus tracks where a project is in its lifecycle
type ProjectStatus string

const (
	ProjectStatusPlanning   ProjectStatus = "planning"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusAbandoned  ProjectStatus = "abandoned"
)

// Project is a user's tracked project idea with the parameters the agent
// used to generate or assess it.
type Project struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	UserID        uuid.UUID     `json:"user_id" db:"user_id"`
	Name          string        `json:"name" db:"name"`
	Description   string        `json:"description" db:"description"`
	Domain        string        `json:"domain" db:"domain"`
	SkillLevel    string        `json:"skill_level" db:"skill_level"`
	AvailableTime string        `json:"available_time" db:"available_time"`
	Budget        string        `json:"budget" db:"budget"`
	Status        ProjectStatus `json:"status" db:"status"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Project model
func (Project) TableName() string {
	return "projects"
}

// NewProject creates a new Project in planning status
func NewProject(userID uuid.UUID, name, description string) *Project {
	now := time.Now()
	return &Project{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        name,
		Description: description,
		Status:      ProjectStatusPlanning,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
