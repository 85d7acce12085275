package tools

import (
	"math"
	"sort"
	"strings"
)

// weeksPerSkill is the average learning time assumed per missing skill.
const weeksPerSkill = 3

// SkillAssessment compares a user's skills against a project's requirements.
type SkillAssessment struct {
	ProficiencyScore  float64  `json:"proficiency_score"`
	DifficultyLevel   string   `json:"difficulty_level"`
	MatchedSkills     []string `json:"matched_skills"`
	MissingSkills     []string `json:"missing_skills"`
	AdditionalSkills  []string `json:"additional_skills"`
	LearningTimeWeeks int      `json:"estimated_learning_time_weeks"`
	Recommendation    string   `json:"recommendation"`
}

// AssessSkills compares current skills with required skills and estimates
// the learning effort to close the gap. Skill names are matched
// case-insensitively after trimming whitespace.
func AssessSkills(currentSkills, requiredSkills []string) SkillAssessment {
	current := normalizeSkills(currentSkills)
	required := normalizeSkills(requiredSkills)

	var matched, missing, extra []string
	for skill := range required {
		if _, ok := current[skill]; ok {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}
	for skill := range current {
		if _, ok := required[skill]; !ok {
			extra = append(extra, skill)
		}
	}
	sort.Strings(matched)
	sort.Strings(missing)
	sort.Strings(extra)

	score := 100.0
	if len(required) > 0 {
		score = float64(len(matched)) / float64(len(required)) * 100
	}
	score = math.Round(score*100) / 100

	var difficulty string
	switch {
	case score >= 80:
		difficulty = "Easy - You have most required skills"
	case score >= 50:
		difficulty = "Moderate - Some learning required"
	default:
		difficulty = "Challenging - Significant skill development needed"
	}

	var recommendation string
	switch {
	case score >= 70:
		recommendation = "Ready to start!"
	case score < 40:
		recommendation = "Complete skill development first"
	default:
		recommendation = "Start with tutorials alongside development"
	}

	return SkillAssessment{
		ProficiencyScore:  score,
		DifficultyLevel:   difficulty,
		MatchedSkills:     matched,
		MissingSkills:     missing,
		AdditionalSkills:  extra,
		LearningTimeWeeks: len(missing) * weeksPerSkill,
		Recommendation:    recommendation,
	}
}

func normalizeSkills(skills []string) map[string]struct{} {
	out := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out[s] = struct{}{}
		}
	}
	return out
}
