// Package sentiment scores free text against keyword lexicons and groups
// scored articles into topic buckets.
package sentiment

import (
	"regexp"
	"strings"
)

// Score bounds and the neutral midpoint.
const (
	Neutral  = 50
	MinScore = 5
	MaxScore = 95

	wordWeight   = 8
	minTokenSize = 3
)

var nonWord = regexp.MustCompile(`\W+`)

// PhraseRule adds Delta to the raw score when every one of All appears as a
// substring of the lowercased text.
type PhraseRule struct {
	All   []string
	Delta int
}

func (p PhraseRule) matches(lower string) bool {
	if len(p.All) == 0 {
		return false
	}
	for _, s := range p.All {
		if !strings.Contains(lower, s) {
			return false
		}
	}
	return true
}

// Lexicon parameterizes the scorer. Word sets hold lowercase tokens.
type Lexicon struct {
	Name             string
	Positive         map[string]struct{}
	Negative         map[string]struct{}
	Phrases          []PhraseRule
	AmplificationCap int
}

// Score maps text to an integer in [5, 95]; 50 is neutral.
//
// Each positive token adds 8 and each negative token subtracts 8. Phrase
// rules then apply their fixed deltas. When any token matched, the distance
// from neutral is widened by min(2*matches, cap) before clamping.
func (l Lexicon) Score(text string) int {
	if strings.TrimSpace(text) == "" {
		return Neutral
	}

	lower := strings.ToLower(text)
	score := Neutral
	matches := 0

	for _, field := range strings.Fields(lower) {
		token := nonWord.ReplaceAllString(field, "")
		if len(token) < minTokenSize {
			continue
		}
		if _, ok := l.Positive[token]; ok {
			score += wordWeight
			matches++
		}
		if _, ok := l.Negative[token]; ok {
			score -= wordWeight
			matches++
		}
	}

	for _, p := range l.Phrases {
		if p.matches(lower) {
			score += p.Delta
		}
	}

	if matches > 0 {
		adj := min(matches*2, l.AmplificationCap)
		switch {
		case score > Neutral:
			score = min(score+adj, MaxScore)
		case score < Neutral:
			score = max(score-adj, MinScore)
		}
	}

	return max(MinScore, min(MaxScore, score))
}

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
