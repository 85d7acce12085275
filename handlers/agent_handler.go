package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ideaforge/dashboard/middleware"
	"github.com/ideaforge/dashboard/services/agent"
	"github.com/ideaforge/dashboard/services/history"
	"github.com/ideaforge/dashboard/services/tools"
	"github.com/ideaforge/dashboard/utils"
	"go.uber.org/zap"
)

// GenerateIdeasRequest represents an idea generation request.
// Trend research is on unless the caller opts out.
type GenerateIdeasRequest struct {
	Domain      string `json:"domain" validate:"required"`
	SkillLevel  string `json:"skill_level" validate:"required"`
	Constraints string `json:"constraints"`
	UseTrends   *bool  `json:"use_trends"`
}

// CreateRoadmapRequest represents a roadmap request.
// The GitHub similar-project search is on unless the caller opts out.
type CreateRoadmapRequest struct {
	ProjectDescription string `json:"project_description" validate:"required"`
	CheckSimilar       *bool  `json:"check_similar"`
}

// AssessFeasibilityRequest represents a feasibility assessment request
type AssessFeasibilityRequest struct {
	ProjectDescription string   `json:"project_description" validate:"required"`
	AvailableTime      string   `json:"available_time"`
	CurrentSkills      []string `json:"current_skills"`
	Budget             string   `json:"budget"`
	ProjectType        string   `json:"project_type"`
}

// ChatRequest represents a chat message
type ChatRequest struct {
	Message string `json:"message" validate:"required"`
}

// BudgetToolRequest represents a direct budget calculator call
type BudgetToolRequest struct {
	ProjectType    string `json:"project_type"`
	DurationMonths int    `json:"duration_months" validate:"omitempty,gte=1"`
	TeamSize       int    `json:"team_size" validate:"omitempty,gte=1"`
}

// SkillToolRequest represents a direct skill assessment call
type SkillToolRequest struct {
	CurrentSkills  []string `json:"current_skills"`
	RequiredSkills []string `json:"required_skills" validate:"required,min=1"`
}

// GitHubToolRequest represents a direct similar-project search
type GitHubToolRequest struct {
	Query      string `json:"query" validate:"required"`
	MaxResults int    `json:"max_results" validate:"omitempty,gte=1,lte=20"`
}

// AgentHandler exposes the project-planning agent over HTTP
type AgentHandler struct {
	agent    *agent.Service
	history  *history.Service
	searcher agent.ProjectSearcher
	logger   *zap.Logger
}

// NewAgentHandler creates a new AgentHandler
func NewAgentHandler(agentSvc *agent.Service, historySvc *history.Service, searcher agent.ProjectSearcher, logger *zap.Logger) *AgentHandler {
	return &AgentHandler{
		agent:    agentSvc,
		history:  historySvc,
		searcher: searcher,
		logger:   logger,
	}
}

// HandleGenerateIdeas handles POST /api/agent/ideas
func (h *AgentHandler) HandleGenerateIdeas(w http.ResponseWriter, r *http.Request) {
	var req GenerateIdeasRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	userID := middleware.GetUserIDFromContext(r.Context())

	result, err := h.agent.GenerateIdeas(r.Context(), userID, agent.IdeasRequest{
		Domain:      req.Domain,
		SkillLevel:  req.SkillLevel,
		Constraints: req.Constraints,
		UseTrends:   req.UseTrends == nil || *req.UseTrends,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, map[string]string{"result": result})
}

// HandleCreateRoadmap handles POST /api/agent/roadmap
func (h *AgentHandler) HandleCreateRoadmap(w http.ResponseWriter, r *http.Request) {
	var req CreateRoadmapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	userID := middleware.GetUserIDFromContext(r.Context())

	checkSimilar := req.CheckSimilar == nil || *req.CheckSimilar
	result, err := h.agent.CreateRoadmap(r.Context(), userID, req.ProjectDescription, checkSimilar)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, result)
}

// HandleAssessFeasibility handles POST /api/agent/feasibility
func (h *AgentHandler) HandleAssessFeasibility(w http.ResponseWriter, r *http.Request) {
	var req AssessFeasibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	userID := middleware.GetUserIDFromContext(r.Context())

	result, err := h.agent.AssessFeasibility(r.Context(), userID, agent.FeasibilityRequest{
		ProjectDescription: req.ProjectDescription,
		AvailableTime:      req.AvailableTime,
		CurrentSkills:      req.CurrentSkills,
		Budget:             req.Budget,
		ProjectType:        req.ProjectType,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, result)
}

// HandleChat handles POST /api/agent/chat
func (h *AgentHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	userID := middleware.GetUserIDFromContext(r.Context())

	result, err := h.agent.Chat(r.Context(), userID, req.Message)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, map[string]string{"response": result})
}

// HandleHistorySummary handles GET /api/agent/history/summary
func (h *AgentHandler) HandleHistorySummary(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	summary, err := h.history.Summarize(r.Context(), userID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, summary)
}

// HandleHistoryRecent handles GET /api/agent/history?limit=N
func (h *AgentHandler) HandleHistoryRecent(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			_ = utils.WriteBadRequest(w, "limit must be a positive integer", nil)
			return
		}
		limit = parsed
	}

	messages, err := h.history.Recent(r.Context(), userID, limit)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, messages)
}

// HandleBudgetTool handles POST /api/tools/budget
// Exposes the budget calculator directly, without a model round trip.
func (h *AgentHandler) HandleBudgetTool(w http.ResponseWriter, r *http.Request) {
	var req BudgetToolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	if req.ProjectType == "" {
		req.ProjectType = "web_development"
	}
	if req.DurationMonths == 0 {
		req.DurationMonths = 3
	}
	if req.TeamSize == 0 {
		req.TeamSize = 1
	}

	_ = utils.WriteOK(w, tools.CalculateBudget(req.ProjectType, req.DurationMonths, req.TeamSize))
}

// HandleSkillTool handles POST /api/tools/skills
func (h *AgentHandler) HandleSkillTool(w http.ResponseWriter, r *http.Request) {
	var req SkillToolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, tools.AssessSkills(req.CurrentSkills, req.RequiredSkills))
}

// HandleGitHubTool handles POST /api/tools/github
// Exposes the similar-project search directly.
func (h *AgentHandler) HandleGitHubTool(w http.ResponseWriter, r *http.Request) {
	var req GitHubToolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	result, err := h.searcher.SearchSimilarProjects(r.Context(), req.Query, req.MaxResults)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, result)
}
