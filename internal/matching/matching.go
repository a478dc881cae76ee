// Package matching scores candidate projects against a user's skill
// signature.
package matching

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/pkondratev/contrib-compass/internal/github"
	"github.com/pkondratev/contrib-compass/internal/skills"
)

// languageBonus is added on top of the base score when the project's primary
// language is among the user's skills. The final score is clamped at 100.
const languageBonus = 20

// Match pairs a candidate project with its score against the user's skills.
// GoodFirstIssues starts empty; the analysis pipeline attaches issues for the
// top matches afterwards.
type Match struct {
	Project         *github.Repository `json:"project"`
	Score           int                `json:"score"`
	MatchingSkills  []string           `json:"matchingSkills"`
	MissingSkills   []string           `json:"missingSkills"`
	Reason          string             `json:"reason"`
	GoodFirstIssues []*github.Issue    `json:"goodFirstIssues"`
}

// Rank scores every project against the user's skills and returns matches
// sorted by descending score.
//
// A project's skill set is its lower-cased primary language united with its
// lower-cased topics; user skill names are compared case-insensitively. The
// base score is the rounded percentage of project skills the user has, plus
// the language bonus when the primary language matches.
func Rank(userSkills []skills.Skill, projects []*github.Repository) []Match {
	userSkillNames := make(map[string]struct{}, len(userSkills))
	for _, s := range userSkills {
		userSkillNames[strings.ToLower(s.Name)] = struct{}{}
	}

	matches := make([]Match, 0, len(projects))
	for _, project := range projects {
		matches = append(matches, rankOne(userSkillNames, project))
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches
}

func rankOne(userSkillNames map[string]struct{}, project *github.Repository) Match {
	projectSkills := make(map[string]struct{})
	// Iteration order decides list order, so keep insertion order by hand.
	ordered := make([]string, 0, len(project.Topics)+1)

	add := func(name string) {
		if _, ok := projectSkills[name]; ok {
			return
		}
		projectSkills[name] = struct{}{}
		ordered = append(ordered, name)
	}

	if project.Language != "" {
		add(strings.ToLower(project.Language))
	}
	for _, topic := range project.Topics {
		add(strings.ToLower(topic))
	}

	matching := []string{}
	missing := []string{}
	for _, skill := range ordered {
		if _, ok := userSkillNames[skill]; ok {
			matching = append(matching, skill)
		} else {
			missing = append(missing, skill)
		}
	}

	score := 0
	if len(ordered) > 0 {
		score = int(math.Round(float64(len(matching)) / float64(len(ordered)) * 100))
	}

	if project.Language != "" {
		if _, ok := userSkillNames[strings.ToLower(project.Language)]; ok {
			score += languageBonus
			if score > 100 {
				score = 100
			}
		}
	}

	return Match{
		Project:         project,
		Score:           score,
		MatchingSkills:  matching,
		MissingSkills:   missing,
		Reason:          fmt.Sprintf("Matches %d of %d skills.", len(matching), len(ordered)),
		GoodFirstIssues: []*github.Issue{},
	}
}
