package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/ideaforge/dashboard/middleware"
	"github.com/ideaforge/dashboard/models"
	"github.com/ideaforge/dashboard/repositories"
	"github.com/ideaforge/dashboard/services"
	"github.com/ideaforge/dashboard/utils"
	"go.uber.org/zap"
)

// CreateProjectRequest represents a project creation request
type CreateProjectRequest struct {
	Name          string `json:"name" validate:"required,min=1,max=255"`
	Description   string `json:"description" validate:"required"`
	Domain        string `json:"domain"`
	SkillLevel    string `json:"skill_level"`
	AvailableTime string `json:"available_time"`
	Budget        string `json:"budget"`
}

// UpdateProjectRequest represents a project update request
type UpdateProjectRequest struct {
	Name          string `json:"name" validate:"required,min=1,max=255"`
	Description   string `json:"description" validate:"required"`
	Domain        string `json:"domain"`
	SkillLevel    string `json:"skill_level"`
	AvailableTime string `json:"available_time"`
	Budget        string `json:"budget"`
	Status        string `json:"status" validate:"required,oneof=planning in_progress completed abandoned"`
}

// ProjectHandler handles project CRUD requests
type ProjectHandler struct {
	projects repositories.ProjectRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(projects repositories.ProjectRepository, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		projects: projects,
		logger:   logger,
		now:      time.Now,
	}
}

// HandleCreate handles POST /api/projects
func (h *ProjectHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	userID := middleware.GetUserIDFromContext(r.Context())

	project := models.NewProject(userID, req.Name, req.Description)
	project.Domain = req.Domain
	project.SkillLevel = req.SkillLevel
	project.AvailableTime = req.AvailableTime
	project.Budget = req.Budget

	if err := h.projects.Create(r.Context(), project); err != nil {
		h.logger.Error("Failed to create project", zap.Error(err))
		HandleServiceError(w, services.WrapInternal("failed to create project", err), h.logger)
		return
	}

	_ = utils.WriteCreated(w, project)
}

// HandleList handles GET /api/projects
func (h *ProjectHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	list, err := h.projects.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list projects", zap.Error(err))
		HandleServiceError(w, services.WrapInternal("failed to list projects", err), h.logger)
		return
	}

	_ = utils.WriteOK(w, list)
}

// HandleGet handles GET /api/projects/{id}
func (h *ProjectHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	project, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	_ = utils.WriteOK(w, project)
}

// HandleUpdate handles PUT /api/projects/{id}
func (h *ProjectHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	project, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	var req UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	project.Name = req.Name
	project.Description = req.Description
	project.Domain = req.Domain
	project.SkillLevel = req.SkillLevel
	project.AvailableTime = req.AvailableTime
	project.Budget = req.Budget
	project.Status = models.ProjectStatus(req.Status)
	project.UpdatedAt = h.now()

	if err := h.projects.Update(r.Context(), project); err != nil {
		h.logger.Error("Failed to update project", zap.Error(err), zap.String("project_id", project.ID.String()))
		HandleServiceError(w, services.WrapInternal("failed to update project", err), h.logger)
		return
	}

	_ = utils.WriteOK(w, project)
}

// HandleDelete handles DELETE /api/projects/{id}
func (h *ProjectHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	project, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	if err := h.projects.Delete(r.Context(), project.ID); err != nil {
		h.logger.Error("Failed to delete project", zap.Error(err), zap.String("project_id", project.ID.String()))
		HandleServiceError(w, services.WrapInternal("failed to delete project", err), h.logger)
		return
	}

	utils.WriteNoContent(w)
}

// loadOwned fetches the project named in the URL and enforces ownership.
// Non-owners get the same 404 as missing projects so project IDs are not
// enumerable across accounts.
func (h *ProjectHandler) loadOwned(w http.ResponseWriter, r *http.Request) (*models.Project, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid project ID", nil)
		return nil, false
	}

	project, err := h.projects.GetByID(r.Context(), id)
	if err != nil {
		HandleServiceError(w, services.ErrProjectNotFound, h.logger)
		return nil, false
	}

	userID := middleware.GetUserIDFromContext(r.Context())
	if project.UserID != userID {
		HandleServiceError(w, services.ErrProjectNotFound, h.logger)
		return nil, false
	}

	return project, true
}
