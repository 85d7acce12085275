package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/ideaforge/dashboard/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// withURLParam injects a chi route parameter into the request context
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestHandleCreateProject(t *testing.T) {
	logger := zap.NewNop()
	userID := uuid.New()

	t.Run("creates project for the authenticated user", func(t *testing.T) {
		projects := new(MockProjectRepository)
		projects.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Project) bool {
			return p.UserID == userID && p.Name == "Habit tracker" && p.Status == models.ProjectStatusPlanning
		})).Return(nil)

		handler := NewProjectHandler(projects, logger)

		w := httptest.NewRecorder()
		handler.HandleCreate(w, authedRequest(t, http.MethodPost, "/api/projects", CreateProjectRequest{
			Name:        "Habit tracker",
			Description: "A small web app to track habits",
			Domain:      "web development",
			SkillLevel:  "beginner",
		}, userID))

		require.Equal(t, http.StatusCreated, w.Code)

		var response struct {
			Data models.Project `json:"data"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "Habit tracker", response.Data.Name)
		assert.Equal(t, userID, response.Data.UserID)
		projects.AssertExpectations(t)
	})

	t.Run("rejects missing name", func(t *testing.T) {
		handler := NewProjectHandler(new(MockProjectRepository), logger)

		w := httptest.NewRecorder()
		handler.HandleCreate(w, authedRequest(t, http.MethodPost, "/api/projects", CreateProjectRequest{
			Description: "no name",
		}, userID))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleListProjects(t *testing.T) {
	logger := zap.NewNop()
	userID := uuid.New()

	projects := new(MockProjectRepository)
	owned := []*models.Project{
		models.NewProject(userID, "First", "desc"),
		models.NewProject(userID, "Second", "desc"),
	}
	projects.On("ListByUser", mock.Anything, userID).Return(owned, nil)

	handler := NewProjectHandler(projects, logger)

	w := httptest.NewRecorder()
	handler.HandleList(w, authedRequest(t, http.MethodGet, "/api/projects", nil, userID))

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data []models.Project `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	require.Len(t, response.Data, 2)
	assert.Equal(t, "First", response.Data[0].Name)
}

func TestHandleGetProject(t *testing.T) {
	logger := zap.NewNop()
	userID := uuid.New()

	t.Run("returns owned project", func(t *testing.T) {
		project := models.NewProject(userID, "Mine", "desc")
		projects := new(MockProjectRepository)
		projects.On("GetByID", mock.Anything, project.ID).Return(project, nil)

		handler := NewProjectHandler(projects, logger)

		req := authedRequest(t, http.MethodGet, "/api/projects/"+project.ID.String(), nil, userID)
		req = withURLParam(req, "id", project.ID.String())

		w := httptest.NewRecorder()
		handler.HandleGet(w, req)

		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("404 for another user's project", func(t *testing.T) {
		project := models.NewProject(uuid.New(), "Not mine", "desc")
		projects := new(MockProjectRepository)
		projects.On("GetByID", mock.Anything, project.ID).Return(project, nil)

		handler := NewProjectHandler(projects, logger)

		req := authedRequest(t, http.MethodGet, "/api/projects/"+project.ID.String(), nil, userID)
		req = withURLParam(req, "id", project.ID.String())

		w := httptest.NewRecorder()
		handler.HandleGet(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("404 for missing project", func(t *testing.T) {
		missing := uuid.New()
		projects := new(MockProjectRepository)
		projects.On("GetByID", mock.Anything, missing).Return(nil, errors.New("not found"))

		handler := NewProjectHandler(projects, logger)

		req := authedRequest(t, http.MethodGet, "/api/projects/"+missing.String(), nil, userID)
		req = withURLParam(req, "id", missing.String())

		w := httptest.NewRecorder()
		handler.HandleGet(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("400 for malformed id", func(t *testing.T) {
		handler := NewProjectHandler(new(MockProjectRepository), logger)

		req := authedRequest(t, http.MethodGet, "/api/projects/not-a-uuid", nil, userID)
		req = withURLParam(req, "id", "not-a-uuid")

		w := httptest.NewRecorder()
		handler.HandleGet(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleUpdateProject(t *testing.T) {
	logger := zap.NewNop()
	userID := uuid.New()

	t.Run("updates owned project", func(t *testing.T) {
		project := models.NewProject(userID, "Old name", "old desc")
		projects := new(MockProjectRepository)
		projects.On("GetByID", mock.Anything, project.ID).Return(project, nil)
		projects.On("Update", mock.Anything, mock.MatchedBy(func(p *models.Project) bool {
			return p.ID == project.ID && p.Name == "New name" && p.Status == models.ProjectStatusInProgress
		})).Return(nil)

		handler := NewProjectHandler(projects, logger)

		req := authedRequest(t, http.MethodPut, "/api/projects/"+project.ID.String(), UpdateProjectRequest{
			Name:        "New name",
			Description: "new desc",
			Status:      "in_progress",
		}, userID)
		req = withURLParam(req, "id", project.ID.String())

		w := httptest.NewRecorder()
		handler.HandleUpdate(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		projects.AssertExpectations(t)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		project := models.NewProject(userID, "Name", "desc")
		projects := new(MockProjectRepository)
		projects.On("GetByID", mock.Anything, project.ID).Return(project, nil)

		handler := NewProjectHandler(projects, logger)

		req := authedRequest(t, http.MethodPut, "/api/projects/"+project.ID.String(), UpdateProjectRequest{
			Name:        "Name",
			Description: "desc",
			Status:      "paused",
		}, userID)
		req = withURLParam(req, "id", project.ID.String())

		w := httptest.NewRecorder()
		handler.HandleUpdate(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		projects.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestHandleDeleteProject(t *testing.T) {
	logger := zap.NewNop()
	userID := uuid.New()

	t.Run("deletes owned project", func(t *testing.T) {
		project := models.NewProject(userID, "Doomed", "desc")
		projects := new(MockProjectRepository)
		projects.On("GetByID", mock.Anything, project.ID).Return(project, nil)
		projects.On("Delete", mock.Anything, project.ID).Return(nil)

		handler := NewProjectHandler(projects, logger)

		req := authedRequest(t, http.MethodDelete, "/api/projects/"+project.ID.String(), nil, userID)
		req = withURLParam(req, "id", project.ID.String())

		w := httptest.NewRecorder()
		handler.HandleDelete(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		projects.AssertExpectations(t)
	})

	t.Run("does not delete another user's project", func(t *testing.T) {
		project := models.NewProject(uuid.New(), "Not mine", "desc")
		projects := new(MockProjectRepository)
		projects.On("GetByID", mock.Anything, project.ID).Return(project, nil)

		handler := NewProjectHandler(projects, logger)

		req := authedRequest(t, http.MethodDelete, "/api/projects/"+project.ID.String(), nil, userID)
		req = withURLParam(req, "id", project.ID.String())

		w := httptest.NewRecorder()
		handler.HandleDelete(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		projects.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
