package domain

import (
	"math/rand/v2"
	"sort"
	"strings"
)

const (
	suggestionsLimit = 10

	// suggestScoreBar qualifies a candidate on name/code overlap alone
	// when it shares no category with the focal product.
	suggestScoreBar = 30

	categoryMatchScore  = 50
	sharedTokenScore    = 10
	strongKeywordScore  = 15
	sharedBrandScore    = 5
	sharedTypeScore     = 10
	sameCodeScore       = 30
	sameCodeSeriesScore = 10
	codePrefixLen       = 4
)

// nameStopWords are dropped during name tokenization.
var nameStopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "of": {},
	"in": {}, "on": {}, "at": {}, "by": {}, "from": {}, "to": {},
}

// strongKeywords are product type and bundle words that make a shared
// name token count extra.
var strongKeywords = map[string]struct{}{
	"set": {}, "combo": {}, "pack": {}, "pair": {},
	"lotion": {}, "oil": {}, "cream": {},
	"tv": {}, "speaker": {}, "watch": {},
	"shoe": {}, "shirt": {}, "jeans": {},
}

// A Suggester ranks "suggested for you" candidates for a focal product
// with a weighted heuristic score. The small random jitter breaks ties
// between near-identical candidates so the shelf varies across views;
// tests pin it to zero.
type Suggester struct {
	jitter func() float64
}

// NewSuggester returns a Suggester with the default jitter in [0, 2).
func NewSuggester() Suggester {
	return Suggester{jitter: func() float64 { return rand.Float64() * 2 }}
}

// NewSuggesterWithJitter returns a Suggester with an injected jitter
// source.
func NewSuggesterWithJitter(jitter func() float64) Suggester {
	return Suggester{jitter: jitter}
}

type scoredProduct struct {
	product  Product
	score    float64
	catMatch bool
}

// SuggestFor ranks the collection against the focal product and
// returns up to ten suggestions, never including the focal product.
// Candidates qualify on a shared real category or on a score above
// the name/code overlap bar.
func (s Suggester) SuggestFor(focal Product, all []Product) []Product {
	target := focal.RealCategories()
	focalTokens := tokenizeName(focal.Name)

	var scored []scoredProduct
	for _, candidate := range all {
		if candidate.ID == focal.ID {
			continue
		}

		sp := s.score(focal, focalTokens, target, candidate)
		if !sp.catMatch && sp.score <= suggestScoreBar {
			continue
		}
		scored = append(scored, sp)
	}

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	n := min(len(scored), suggestionsLimit)
	suggestions := make([]Product, 0, n)
	for _, sp := range scored[:n] {
		suggestions = append(suggestions, sp.product)
	}
	return suggestions
}

func (s Suggester) score(
	focal Product, focalTokens []string, target []Category, candidate Product,
) scoredProduct {
	sp := scoredProduct{product: candidate}

	for _, c := range target {
		if candidate.HasCategory(c) {
			sp.catMatch = true
			sp.score += categoryMatchScore
			break
		}
	}

	candTokens := tokenizeName(candidate.Name)
	candSet := make(map[string]struct{}, len(candTokens))
	for _, t := range candTokens {
		candSet[t] = struct{}{}
	}

	seen := make(map[string]struct{}, len(focalTokens))
	for _, t := range focalTokens {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if _, shared := candSet[t]; !shared {
			continue
		}
		sp.score += sharedTokenScore
		if _, strong := strongKeywords[t]; strong {
			sp.score += strongKeywordScore
		}
	}

	if len(focalTokens) > 0 && len(candTokens) > 0 {
		if focalTokens[0] == candTokens[0] {
			sp.score += sharedBrandScore
		}
		if focalTokens[len(focalTokens)-1] == candTokens[len(candTokens)-1] {
			sp.score += sharedTypeScore
		}
	}

	switch {
	case focal.Code != "" && focal.Code == candidate.Code:
		sp.score += sameCodeScore
	case len(focal.Code) >= codePrefixLen && len(candidate.Code) >= codePrefixLen &&
		focal.Code[:codePrefixLen] == candidate.Code[:codePrefixLen]:
		sp.score += sameCodeSeriesScore
	}

	sp.score += s.jitter()
	return sp
}

// tokenizeName lowercases the name, strips non-alphanumeric runes and
// drops short tokens and stop words.
func tokenizeName(name string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return ' '
		}
	}, name)

	var tokens []string
	for _, t := range strings.Fields(cleaned) {
		if len(t) < 2 {
			continue
		}
		if _, stop := nameStopWords[t]; stop {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}
