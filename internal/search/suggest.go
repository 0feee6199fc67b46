package search

import (
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/johnconnor-sec/cmdmenu/internal/menu"
)

// Suggestion is a menu label that loosely matches a query.
type Suggestion struct {
	Path  menu.Path
	Label string
	Kind  menu.Kind
	Match Match
	// Score is Match.Score plus ranking boosts and may exceed 1.
	Score float64
}

// Suggester ranks the navigable labels of a table against a query. Labels
// the user picks more often rank higher.
type Suggester struct {
	fuzzy        *Fuzzy
	acronymBoost float64
	prefixBoost  float64

	mu        sync.Mutex
	frequency map[string]int
}

// NewSuggester creates a suggester with a case-insensitive matcher.
func NewSuggester() *Suggester {
	return &Suggester{
		fuzzy:        NewFuzzy().SetMinScore(0.3),
		acronymBoost: 0.3,
		prefixBoost:  0.2,
		frequency:    make(map[string]int),
	}
}

// Record notes that label was picked, boosting it in later suggestions.
func (s *Suggester) Record(label string) {
	s.mu.Lock()
	s.frequency[label]++
	s.mu.Unlock()
}

// Frequency returns how many times label was recorded.
func (s *Suggester) Frequency(label string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frequency[label]
}

// Suggest returns at most limit labels from t that resemble query, best
// first. Raw command text is never suggested; the entry that owns it is.
func (s *Suggester) Suggest(t *menu.Table, query string, limit int) []Suggestion {
	if strings.TrimSpace(query) == "" || limit <= 0 {
		return nil
	}

	var suggestions []Suggestion
	for _, entry := range t.Entries() {
		for _, label := range entry.Children {
			kind := menu.Classify(t, entry.Path, label)
			if kind == menu.ActualCommand && !entry.Path.IsRoot() {
				continue
			}
			match, ok := s.fuzzy.SmartMatch(query, label)
			if !ok {
				continue
			}
			suggestions = append(suggestions, Suggestion{
				Path:  entry.Path,
				Label: label,
				Kind:  kind,
				Match: *match,
				Score: s.score(query, label, match.Score),
			})
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if len(a.Path) != len(b.Path) {
			return len(a.Path) < len(b.Path)
		}
		if c := menu.ComparePaths(a.Path, b.Path); c != 0 {
			return c < 0
		}
		return a.Label < b.Label
	})

	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}

func (s *Suggester) score(query, label string, base float64) float64 {
	score := base
	if isAcronymMatch(query, label) {
		score += s.acronymBoost
	}
	if strings.HasPrefix(strings.ToLower(label), strings.ToLower(query)) {
		score += s.prefixBoost
	}
	if matchesWordBoundary(query, label) {
		score += 0.1
	}
	if count := s.Frequency(label); count > 0 {
		score += min(float64(count)/20.0, 0.25)
	}
	return score
}

// isAcronymMatch reports whether query spells the initials of text, so
// "ts" finds "tail syslog".
func isAcronymMatch(query, text string) bool {
	if query == "" {
		return false
	}

	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) < 2 {
		return false
	}

	var acronym strings.Builder
	for _, word := range words {
		r := []rune(word)[0]
		acronym.WriteRune(unicode.ToLower(r))
	}
	return strings.EqualFold(query, acronym.String())
}

func matchesWordBoundary(query, text string) bool {
	if query == "" {
		return false
	}
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(strings.ToLower(query)))
	if err != nil {
		return false
	}
	return re.MatchString(strings.ToLower(text))
}
