// Package tools contains local helpers the agent composes into its prompts:
// deterministic calculations the model should not be asked to improvise.
package tools

import (
	"math"
	"strings"
)

// Monthly base development cost per project type, in dollars.
var baseCosts = map[string]float64{
	"web_development":  500,
	"mobile_app":       800,
	"ai_ml":            1200,
	"data_science":     1000,
	"game_development": 900,
	"iot":              700,
	"blockchain":       1500,
}

const defaultBaseCost = 600

// BudgetBreakdown itemizes an estimated project budget.
type BudgetBreakdown struct {
	TotalBudget     float64 `json:"total_budget"`
	Development     float64 `json:"development"`
	Infrastructure  float64 `json:"infrastructure"`
	ToolsLicenses   float64 `json:"tools_and_licenses"`
	Contingency     float64 `json:"contingency"`
	MonthlyBurnRate float64 `json:"monthly_burn_rate"`
	PerPersonCost   float64 `json:"per_person_cost"`
}

// CalculateBudget estimates a project budget from its type, duration and
// team size. Unknown project types fall back to a default base cost, and a
// 20% contingency is added on top of the itemized costs.
func CalculateBudget(projectType string, durationMonths, teamSize int) BudgetBreakdown {
	if durationMonths < 1 {
		durationMonths = 1
	}
	if teamSize < 1 {
		teamSize = 1
	}

	key := strings.ReplaceAll(strings.ToLower(projectType), " ", "_")
	base, ok := baseCosts[key]
	if !ok {
		base = defaultBaseCost
	}

	development := base * float64(durationMonths) * float64(teamSize)
	infrastructure := (50 + float64(teamSize)*20) * float64(durationMonths)
	toolsLicenses := 100 * float64(durationMonths)
	contingency := (development + infrastructure + toolsLicenses) * 0.2
	total := development + infrastructure + toolsLicenses + contingency

	return BudgetBreakdown{
		TotalBudget:     round2(total),
		Development:     round2(development),
		Infrastructure:  round2(infrastructure),
		ToolsLicenses:   round2(toolsLicenses),
		Contingency:     round2(contingency),
		MonthlyBurnRate: round2(total / float64(durationMonths)),
		PerPersonCost:   round2(total / float64(teamSize)),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
