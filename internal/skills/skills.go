// Package skills derives a ranked skill signature from a user's repositories.
package skills

import (
	"sort"

	"github.com/pkondratev/contrib-compass/internal/github"
)

// Category is a coarse skill classification. Topics carry no real taxonomy,
// so anything that is not a primary language defaults to CategoryFramework.
type Category string

const (
	CategoryLanguage  Category = "language"
	CategoryFramework Category = "framework"
	CategoryTool      Category = "tool"
	CategoryOther     Category = "other"
)

// Skill is a normalized token (language or topic name) with the number of
// repositories exhibiting it.
type Skill struct {
	Name     string   `json:"name"`
	Count    int      `json:"count"`
	Category Category `json:"category"`
}

// Extract counts languages and topics across the given repositories and
// returns skills ranked by descending count.
//
// A language always owns its key: a topic spelled exactly like a key already
// marked as a language is dropped, not merged into the language count. Plain
// topics accumulate one count per repository carrying them.
func Extract(repos []*github.Repository) []Skill {
	counts := make(map[string]int)
	categories := make(map[string]Category)

	for _, repo := range repos {
		if repo == nil {
			continue
		}

		if repo.Language != "" {
			counts[repo.Language]++
			categories[repo.Language] = CategoryLanguage
		}

		for _, topic := range repo.Topics {
			if categories[topic] == CategoryLanguage {
				continue
			}
			counts[topic]++
			categories[topic] = CategoryFramework
		}
	}

	result := make([]Skill, 0, len(counts))
	for name, count := range counts {
		category, ok := categories[name]
		if !ok {
			category = CategoryOther
		}
		result = append(result, Skill{Name: name, Count: count, Category: category})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})

	return result
}
