// Package agent implements the project-planning agent: idea generation,
// roadmaps, feasibility assessment and free-form chat, with conversation
// history persisted per user.
package agent

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ideaforge/dashboard/models"
	"github.com/ideaforge/dashboard/repositories"
	"github.com/ideaforge/dashboard/services"
	"github.com/ideaforge/dashboard/services/tools"
	"go.uber.org/zap"
)

// systemContext frames the chat action. The structured actions carry their
// own instructions inside the prompt instead.
const systemContext = `You are a helpful AI assistant specializing in project planning and development.
You help users brainstorm project ideas, create roadmaps, and assess feasibility.
Be encouraging, practical, and provide actionable advice.`

// commonSkills are the technologies scanned for in project descriptions to
// estimate required skills for feasibility assessment.
var commonSkills = []string{
	"python", "javascript", "react", "node.js", "sql",
	"html", "css", "git", "api", "docker",
}

var durationPattern = regexp.MustCompile(`(\d+)\s*(month|mo)`)

// IdeasRequest holds the parameters for idea generation.
type IdeasRequest struct {
	Domain      string
	SkillLevel  string
	Constraints string

	// UseTrends asks the model for current trends in the domain first and
	// feeds them into the idea prompt.
	UseTrends bool
}

// ProjectSearcher finds existing projects similar to a description. The
// GitHub search tool implements it.
type ProjectSearcher interface {
	SearchSimilarProjects(ctx context.Context, query string, maxResults int) (*tools.ProjectSearchResult, error)
}

// RoadmapResult carries the generated roadmap together with the similar
// projects that informed it.
type RoadmapResult struct {
	Roadmap         string            `json:"roadmap"`
	SimilarProjects []tools.RepoMatch `json:"similar_projects"`
}

// FeasibilityRequest holds the parameters for a feasibility assessment.
type FeasibilityRequest struct {
	ProjectDescription string
	AvailableTime      string
	CurrentSkills      []string
	Budget             string
	ProjectType        string
}

// FeasibilityResult combines the model's assessment with the local tool
// calculations that informed it.
type FeasibilityResult struct {
	Assessment     string                `json:"assessment"`
	SkillAnalysis  tools.SkillAssessment `json:"skill_analysis"`
	BudgetAnalysis tools.BudgetBreakdown `json:"budget_analysis"`
}

// Service coordinates the agent actions against the model and persists
// the interaction history.
type Service struct {
	generator     Generator
	searcher      ProjectSearcher
	conversations repositories.ConversationRepository
	logger        *zap.Logger
	now           func() time.Time
}

// NewService creates the agent service.
func NewService(generator Generator, searcher ProjectSearcher, conversations repositories.ConversationRepository, logger *zap.Logger) *Service {
	return &Service{
		generator:     generator,
		searcher:      searcher,
		conversations: conversations,
		logger:        logger,
		now:           time.Now,
	}
}

// GenerateIdeas produces project ideas for a domain and skill level.
func (s *Service) GenerateIdeas(ctx context.Context, userID uuid.UUID, req IdeasRequest) (string, error) {
	if strings.TrimSpace(req.Domain) == "" || strings.TrimSpace(req.SkillLevel) == "" {
		return "", services.NewDomainError(services.ErrorTypeValidation, "domain and skill level are required", nil)
	}

	constraints := req.Constraints
	if constraints == "" {
		constraints = "None"
	}

	trendContext := ""
	if req.UseTrends {
		if trends, err := s.researchTrends(ctx, req.Domain); err != nil {
			s.logger.Warn("trend research failed, generating without it",
				zap.String("domain", req.Domain),
				zap.Error(err))
		} else {
			trendContext = "\n\nLatest Trends:\n" + trends + "\n"
		}
	}

	prompt := fmt.Sprintf(`Generate 5 innovative project ideas for the following specifications:

Domain: %s
Skill Level: %s
Additional Constraints: %s
%s
For each project idea, provide:
1. Project Name
2. Brief Description (2-3 sentences)
3. Key Technologies Required
4. Estimated Timeline
5. Learning Outcomes

Consider current trends and practical implementation.
Format the response in a clear, structured way.`, req.Domain, req.SkillLevel, constraints, trendContext)

	result, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	s.recordInteraction(ctx, userID, models.ActionGenerateIdeas, prompt, result)
	return result, nil
}

// researchTrends asks the model for current trends in a domain.
func (s *Service) researchTrends(ctx context.Context, domain string) (string, error) {
	prompt := fmt.Sprintf(`Provide the latest trends and insights about: %s project ideas trends

Focus on:
1. Current industry trends
2. Popular technologies and frameworks
3. Best practices
4. Emerging patterns
5. Market demand

Keep it concise and actionable.`, domain)

	return s.generator.Generate(ctx, prompt)
}

// CreateRoadmap produces a phase-by-phase roadmap for a project. When
// checkSimilar is set, existing projects found on GitHub are fed into the
// prompt and returned alongside the roadmap; a failed search is logged and
// the roadmap proceeds without it.
func (s *Service) CreateRoadmap(ctx context.Context, userID uuid.UUID, projectDescription string, checkSimilar bool) (*RoadmapResult, error) {
	if strings.TrimSpace(projectDescription) == "" {
		return nil, services.ErrEmptyPrompt
	}

	similar := []tools.RepoMatch{}
	if checkSimilar && s.searcher != nil {
		result, err := s.searcher.SearchSimilarProjects(ctx, searchQuery(projectDescription), 5)
		if err != nil {
			s.logger.Warn("similar-project search failed, continuing without it", zap.Error(err))
		} else {
			similar = result.Projects
		}
	}

	similarContext := ""
	if len(similar) > 0 {
		var sb strings.Builder
		sb.WriteString("\n\nSimilar Projects Found on GitHub:\n")
		for i, proj := range similar {
			if i == 3 {
				break
			}
			fmt.Fprintf(&sb, "- %s: %s (%d stars)\n", proj.Name, proj.Description, proj.Stars)
		}
		sb.WriteString("\nConsider insights from similar projects above.")
		similarContext = sb.String()
	}

	prompt := fmt.Sprintf(`Create a comprehensive project roadmap for the following project:

Project: %s
%s
Provide:
1. Project Overview
2. Prerequisites and Setup
3. Phase-by-phase breakdown with:
   - Phase name
   - Duration estimate
   - Key tasks and deliverables
   - Technologies/tools to learn
   - Success criteria
4. Testing and Deployment strategy
5. Potential challenges and solutions
6. Resources for learning

Make the roadmap practical and actionable.`, projectDescription, similarContext)

	roadmap, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	s.recordInteraction(ctx, userID, models.ActionCreateRoadmap, prompt, roadmap)
	return &RoadmapResult{Roadmap: roadmap, SimilarProjects: similar}, nil
}

// searchQuery reduces a project description to its leading words for the
// repository search.
func searchQuery(description string) string {
	words := strings.Fields(description)
	if len(words) > 5 {
		words = words[:5]
	}
	return strings.Join(words, " ")
}

// AssessFeasibility runs the local skill and budget tools, then asks the
// model for an assessment informed by their output.
func (s *Service) AssessFeasibility(ctx context.Context, userID uuid.UUID, req FeasibilityRequest) (*FeasibilityResult, error) {
	if strings.TrimSpace(req.ProjectDescription) == "" {
		return nil, services.ErrEmptyPrompt
	}
	if req.Budget == "" {
		req.Budget = "Limited"
	}
	if req.ProjectType == "" {
		req.ProjectType = "web_development"
	}

	requiredSkills := extractRequiredSkills(req.ProjectDescription)
	skillAnalysis := tools.AssessSkills(req.CurrentSkills, requiredSkills)
	budgetAnalysis := tools.CalculateBudget(req.ProjectType, parseDurationMonths(req.AvailableTime), 1)

	prompt := fmt.Sprintf(`Assess the feasibility of the following project:

Project Description: %s
Available Time: %s
Current Skills: %s
Budget: %s

Skill Assessment Results:
- Proficiency Score: %.2f%%
- Difficulty Level: %s
- Missing Skills: %s
- Learning Time Needed: %d weeks

Budget Estimation:
- Estimated Total Budget: $%.2f
- Monthly Burn Rate: $%.2f
- Development Cost: $%.2f

Provide a detailed feasibility analysis including:

1. Feasibility Score (1-10 scale with justification)
2. Technical Feasibility (considering skill assessment above)
3. Time Feasibility (realistic timeline)
4. Resource Feasibility (budget analysis)
5. Risk Analysis
6. Recommendations

Be honest and practical in your assessment.`,
		req.ProjectDescription,
		req.AvailableTime,
		strings.Join(req.CurrentSkills, ", "),
		req.Budget,
		skillAnalysis.ProficiencyScore,
		skillAnalysis.DifficultyLevel,
		strings.Join(skillAnalysis.MissingSkills, ", "),
		skillAnalysis.LearningTimeWeeks,
		budgetAnalysis.TotalBudget,
		budgetAnalysis.MonthlyBurnRate,
		budgetAnalysis.Development,
	)

	assessment, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	s.recordInteraction(ctx, userID, models.ActionAssessFeasibility, prompt, assessment)

	return &FeasibilityResult{
		Assessment:     assessment,
		SkillAnalysis:  skillAnalysis,
		BudgetAnalysis: budgetAnalysis,
	}, nil
}

// Chat answers a free-form message using the user's stored conversation
// history as context.
func (s *Service) Chat(ctx context.Context, userID uuid.UUID, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", services.ErrEmptyPrompt
	}

	history, err := s.loadHistory(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to load chat history, continuing without it",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		history = nil
	}

	if len(history) == 0 {
		message = systemContext + "\n\nUser: " + message
	}

	result, err := s.generator.Chat(ctx, history, message)
	if err != nil {
		return "", err
	}

	s.recordInteraction(ctx, userID, models.ActionChat, message, result)
	return result, nil
}

// loadHistory converts the user's most recent conversation into chat turns.
func (s *Service) loadHistory(ctx context.Context, userID uuid.UUID) ([]Turn, error) {
	conv, err := s.conversations.GetLatestForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, nil
	}

	messages, err := s.conversations.ListMessages(ctx, conv.ID)
	if err != nil {
		return nil, err
	}

	turns := make([]Turn, 0, len(messages)*2)
	for _, msg := range messages {
		turns = append(turns,
			Turn{Role: "user", Content: msg.Prompt},
			Turn{Role: "model", Content: msg.Response},
		)
	}
	return turns, nil
}

// recordInteraction persists the exchange. Failures are logged, not
// surfaced: the user already has the model's answer.
func (s *Service) recordInteraction(ctx context.Context, userID uuid.UUID, action models.AgentAction, prompt, response string) {
	conv, err := s.conversations.GetLatestForUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to look up conversation",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return
	}

	if conv == nil {
		conv = models.NewConversation(userID)
		if err := s.conversations.Create(ctx, conv); err != nil {
			s.logger.Error("failed to create conversation",
				zap.String("user_id", userID.String()),
				zap.Error(err))
			return
		}
	} else if err := s.conversations.Touch(ctx, conv.ID, s.now()); err != nil {
		s.logger.Error("failed to touch conversation",
			zap.String("conversation_id", conv.ID.String()),
			zap.Error(err))
	}

	msg := models.NewMessage(conv.ID, action, prompt, response)
	if err := s.conversations.AddMessage(ctx, msg); err != nil {
		s.logger.Error("failed to record interaction",
			zap.String("conversation_id", conv.ID.String()),
			zap.String("action", string(action)),
			zap.Error(err))
	}
}

func extractRequiredSkills(description string) []string {
	lower := strings.ToLower(description)
	var found []string
	for _, skill := range commonSkills {
		if strings.Contains(lower, skill) {
			found = append(found, skill)
		}
	}
	if len(found) == 0 {
		found = []string{"programming"}
	}
	return found
}

func parseDurationMonths(availableTime string) int {
	match := durationPattern.FindStringSubmatch(strings.ToLower(availableTime))
	if match == nil {
		return 3
	}
	months, err := strconv.Atoi(match[1])
	if err != nil || months < 1 {
		return 3
	}
	return months
}
