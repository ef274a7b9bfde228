package palette

import (
	"sort"
	"strings"
	"unicode"
)

// Field weights: a title hit beats an ID hit beats a description hit.
const (
	titleBoost = 50
	idBoost    = 25
)

// SearchResult is a matched command with its score.
type SearchResult struct {
	Command *Command
	Score   int
	// Matches holds the rune indices of matched characters in the field
	// that produced the score.
	Matches []int
}

// Filter scores commands against a query.
type Filter struct {
	// MinScore is the exclusive lower bound for a result to be kept.
	MinScore int
}

// NewFilter creates a filter with default settings.
func NewFilter() *Filter {
	return &Filter{}
}

// Search returns the commands matching query, best first.
func (f *Filter) Search(commands []*Command, query string, limit int) []SearchResult {
	query = strings.ToLower(strings.TrimSpace(query))
	results := make([]SearchResult, 0, len(commands))
	for _, cmd := range commands {
		if query == "" {
			results = append(results, SearchResult{Command: cmd})
			continue
		}
		if score, matches := f.score(query, cmd); score > f.MinScore {
			results = append(results, SearchResult{Command: cmd, Score: score, Matches: matches})
		}
	}
	sortResults(results)
	return truncate(results, limit)
}

func (f *Filter) score(query string, cmd *Command) (int, []int) {
	q := []rune(query)
	if s, m := fuzzyScore(q, cmd.Title); s > 0 {
		return s + titleBoost, m
	}
	if s, m := fuzzyScore(q, cmd.ID); s > 0 {
		return s + idBoost, m
	}
	if s, m := fuzzyScore(q, cmd.Description); s > 0 {
		return s, m
	}
	return fuzzyScore(q, cmd.Category)
}

// fuzzyScore matches query as a subsequence of text, case-insensitively,
// and scores the match. Zero means no match.
func fuzzyScore(query []rune, text string) (int, []int) {
	if text == "" || len(query) == 0 {
		return 0, nil
	}
	original := []rune(text)
	lower := []rune(strings.ToLower(text))

	matches := make([]int, 0, len(query))
	qi := 0
	for i := 0; i < len(lower) && qi < len(query); i++ {
		if lower[i] == query[qi] {
			matches = append(matches, i)
			qi++
		}
	}
	if qi != len(query) {
		return 0, nil
	}

	score := 100
	for i := 1; i < len(matches); i++ {
		if matches[i] == matches[i-1]+1 {
			score += 20
		}
	}
	for _, idx := range matches {
		if wordBoundary(original, idx) {
			score += 15
		}
	}
	if matches[0] == 0 {
		score += 25
	}
	if gap := matches[len(matches)-1] - matches[0] - len(matches) + 1; gap > 0 {
		score -= gap * 2
	}
	score -= matches[0]
	if len(lower) < 20 {
		score += 20 - len(lower)
	}
	if strings.HasPrefix(string(lower), string(query)) {
		score += 50
	}
	return max(score, 1), matches
}

func wordBoundary(runes []rune, idx int) bool {
	if idx == 0 {
		return true
	}
	prev, cur := runes[idx-1], runes[idx]
	if unicode.IsSpace(prev) || unicode.IsPunct(prev) {
		return true
	}
	// camelCase and letter-to-digit ("HL1") boundaries
	return (unicode.IsLower(prev) && unicode.IsUpper(cur)) ||
		(unicode.IsLetter(prev) && unicode.IsDigit(cur))
}

func sortResults(results []SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Command.Title < results[j].Command.Title
	})
}

func truncate(results []SearchResult, limit int) []SearchResult {
	if limit > 0 && len(results) > limit {
		return results[:limit]
	}
	return results
}
