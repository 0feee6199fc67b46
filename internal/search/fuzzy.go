// Package search ranks menu labels against a loose query. It backs the
// "did you mean" hints shown when a pattern search finds nothing.
package search

import (
	"sort"
	"strings"
	"unicode"
)

// Match represents a fuzzy search match with score and positions
type Match struct {
	Text       string  // The original text that was matched
	Score      float64 // Match score (higher is better)
	Positions  []int   // Rune positions that matched the query
	Highlights []Range // Rune ranges to highlight in the text
}

// Range is a half-open rune range.
type Range struct {
	Start int
	End   int
}

// Fuzzy performs fuzzy string matching
type Fuzzy struct {
	caseSensitive    bool
	normalizeSpaces  bool
	highlightMatches bool
	minScore         float64
}

// NewFuzzy creates a new fuzzy matcher with default settings
func NewFuzzy() *Fuzzy {
	return &Fuzzy{
		normalizeSpaces:  true,
		highlightMatches: true,
		minScore:         0.1,
	}
}

// SetCaseSensitive enables or disables case-sensitive matching
func (f *Fuzzy) SetCaseSensitive(enabled bool) *Fuzzy {
	f.caseSensitive = enabled
	return f
}

// SetNormalizeSpaces enables or disables space normalization
func (f *Fuzzy) SetNormalizeSpaces(enabled bool) *Fuzzy {
	f.normalizeSpaces = enabled
	return f
}

// SetMinScore sets the minimum score threshold for matches
func (f *Fuzzy) SetMinScore(score float64) *Fuzzy {
	f.minScore = score
	return f
}

// Match performs fuzzy matching of query against text
func (f *Fuzzy) Match(query, text string) (*Match, bool) {
	if query == "" {
		return &Match{Text: text, Score: 1.0, Positions: []int{}}, true
	}

	positions, score := f.calculateMatch(f.normalize(query), f.normalize(text))
	if score < f.minScore {
		return nil, false
	}

	match := &Match{
		Text:      text,
		Score:     score,
		Positions: positions,
	}
	if f.highlightMatches {
		match.Highlights = calculateHighlights(positions)
	}
	return match, true
}

// Search matches query against every text and sorts the hits, best first.
func (f *Fuzzy) Search(query string, texts []string) []Match {
	return f.SearchWithLimit(query, texts, len(texts))
}

// SearchWithLimit is Search capped at limit results.
func (f *Fuzzy) SearchWithLimit(query string, texts []string, limit int) []Match {
	if len(texts) == 0 || limit <= 0 {
		return []Match{}
	}

	matches := make([]Match, 0, min(limit, 64))
	for _, text := range texts {
		if match, ok := f.SmartMatch(query, text); ok {
			matches = append(matches, *match)
		}
	}

	sortMatches(matches)

	if len(matches) > limit {
		return matches[:limit]
	}
	return matches
}

func sortMatches(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score == matches[j].Score {
			// prefer shorter strings
			return len(matches[i].Text) < len(matches[j].Text)
		}
		return matches[i].Score > matches[j].Score
	})
}

// normalize lowercases and collapses runs of whitespace. Space collapsing
// can move rune positions, so highlights are only exact for single-spaced
// labels.
func (f *Fuzzy) normalize(text string) []rune {
	result := text
	if !f.caseSensitive {
		result = strings.ToLower(result)
	}
	if f.normalizeSpaces {
		result = strings.Join(strings.Fields(result), " ")
	}
	return []rune(result)
}

// calculateMatch walks text once, consuming query runes in order.
func (f *Fuzzy) calculateMatch(query, text []rune) ([]int, float64) {
	if len(query) == 0 {
		return []int{}, 1.0
	}
	if len(text) == 0 {
		return []int{}, 0.0
	}

	var positions []int
	queryIndex := 0
	consecutive := 0
	bestConsecutive := 0

	for textIndex, r := range text {
		if queryIndex < len(query) && query[queryIndex] == r {
			positions = append(positions, textIndex)
			queryIndex++
			consecutive++
			bestConsecutive = max(bestConsecutive, consecutive)
		} else {
			consecutive = 0
		}
	}

	if queryIndex < len(query) {
		return []int{}, 0.0
	}

	return positions, calculateScore(len(query), len(text), positions, bestConsecutive)
}

func calculateScore(queryLen, textLen int, positions []int, bestConsecutive int) float64 {
	if len(positions) == 0 {
		return 0.0
	}

	base := float64(len(positions)) / float64(queryLen)
	consecutiveBonus := float64(bestConsecutive) / float64(queryLen) * 0.5

	startBonus := 0.0
	if positions[0] == 0 {
		startBonus = 0.2
	}

	lengthBonus := float64(queryLen) / float64(textLen) * 0.3

	gapPenalty := 0.0
	if len(positions) > 1 {
		gaps := positions[len(positions)-1] - positions[0] + 1 - len(positions)
		gapPenalty = float64(gaps) / float64(textLen) * 0.3
	}

	score := base + consecutiveBonus + startBonus + lengthBonus - gapPenalty
	return clamp(score)
}

func clamp(score float64) float64 {
	switch {
	case score > 1.0:
		return 1.0
	case score < 0.0:
		return 0.0
	default:
		return score
	}
}

// calculateHighlights merges adjacent positions into ranges.
func calculateHighlights(positions []int) []Range {
	if len(positions) == 0 {
		return []Range{}
	}

	var highlights []Range
	start := positions[0]
	end := positions[0] + 1

	for _, p := range positions[1:] {
		if p == end {
			end++
			continue
		}
		highlights = append(highlights, Range{Start: start, End: end})
		start, end = p, p+1
	}

	return append(highlights, Range{Start: start, End: end})
}

// HighlightString wraps each highlighted rune range in startTag and endTag.
func HighlightString(text string, highlights []Range, startTag, endTag string) string {
	if len(highlights) == 0 {
		return text
	}

	runes := []rune(text)
	var result strings.Builder
	lastEnd := 0

	for _, h := range highlights {
		if h.Start >= len(runes) {
			break
		}
		end := min(h.End, len(runes))
		if h.Start > lastEnd {
			result.WriteString(string(runes[lastEnd:h.Start]))
		}
		result.WriteString(startTag)
		result.WriteString(string(runes[h.Start:end]))
		result.WriteString(endTag)
		lastEnd = end
	}

	if lastEnd < len(runes) {
		result.WriteString(string(runes[lastEnd:]))
	}
	return result.String()
}

// SmartMatch tries an exact substring first, then per-word matching, then
// plain subsequence matching.
func (f *Fuzzy) SmartMatch(query, text string) (*Match, bool) {
	if match, ok := f.exactSubstringMatch(query, text); ok {
		return match, true
	}
	if match, ok := f.wordBoundaryMatch(query, text); ok {
		return match, true
	}
	return f.Match(query, text)
}

func (f *Fuzzy) exactSubstringMatch(query, text string) (*Match, bool) {
	q := f.normalize(query)
	t := f.normalize(text)
	if len(q) == 0 {
		return nil, false
	}

	index := runeIndex(t, q)
	if index == -1 {
		return nil, false
	}

	positions := make([]int, len(q))
	for i := range positions {
		positions[i] = index + i
	}

	score := 0.9
	if index == 0 {
		score = 1.0
	}

	match := &Match{Text: text, Score: score, Positions: positions}
	if f.highlightMatches {
		match.Highlights = []Range{{Start: index, End: index + len(q)}}
	}
	return match, true
}

func runeIndex(haystack, needle []rune) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if string(haystack[i:i+len(needle)]) == string(needle) {
			return i
		}
	}
	return -1
}

func (f *Fuzzy) wordBoundaryMatch(query, text string) (*Match, bool) {
	words := splitIntoWords(f.normalize(text))
	queryWords := splitIntoWords(f.normalize(query))
	if len(queryWords) == 0 {
		return nil, false
	}

	var allPositions []int
	totalScore := 0.0
	matchedWords := 0

	for _, queryWord := range queryWords {
		bestWordScore := 0.0
		var bestPositions []int

		for _, word := range words {
			positions, score := f.calculateMatch(queryWord.Text, word.Text)
			if score <= bestWordScore {
				continue
			}
			bestWordScore = score
			bestPositions = make([]int, len(positions))
			for i, pos := range positions {
				bestPositions[i] = word.Start + pos
			}
		}

		if bestWordScore > 0 {
			allPositions = append(allPositions, bestPositions...)
			totalScore += bestWordScore
			matchedWords++
		}
	}

	if matchedWords == 0 {
		return nil, false
	}

	avgScore := totalScore / float64(len(queryWords))
	if matchedWords == len(queryWords) {
		avgScore *= 1.2
	}
	avgScore = clamp(avgScore)

	sort.Ints(allPositions)

	match := &Match{Text: text, Score: avgScore, Positions: allPositions}
	if f.highlightMatches {
		match.Highlights = calculateHighlights(allPositions)
	}
	return match, avgScore >= f.minScore
}

// Word is a run of letters or digits and its rune offsets.
type Word struct {
	Text  []rune
	Start int
	End   int
}

func splitIntoWords(text []rune) []Word {
	var words []Word
	start := -1

	for i, r := range text {
		inWord := unicode.IsLetter(r) || unicode.IsDigit(r)
		switch {
		case inWord && start < 0:
			start = i
		case !inWord && start >= 0:
			words = append(words, Word{Text: text[start:i], Start: start, End: i})
			start = -1
		}
	}
	if start >= 0 {
		words = append(words, Word{Text: text[start:], Start: start, End: len(text)})
	}
	return words
}
