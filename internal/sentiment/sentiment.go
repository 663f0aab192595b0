package sentiment

import (
	"regexp"
	"sort"
	"strings"

	"review_spider/internal/models"

	"github.com/jonreiter/govader"
)

// maxKeywords bounds the ranked keyword map attached to a review.
const maxKeywords = 4

// Compound-score thresholds for the overall label; both bounds inclusive.
const (
	positiveThreshold = 0.05
	negativeThreshold = -0.05
)

var punctuation = regexp.MustCompile(`[^\p{L}\p{N}_\s]+`)

// Analyzer scores review text with the VADER lexical polarity model.
type Analyzer struct {
	vader *govader.SentimentIntensityAnalyzer
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{vader: govader.NewSentimentIntensityAnalyzer()}
}

// Analyze derives the overall sentiment label and the ranked keyword
// weights for one review text. The label comes from scoring the original,
// unstripped text as a whole; the keywords from scoring each cleaned token
// on its own.
func (a *Analyzer) Analyze(text string) (string, []models.KeywordWeight) {
	keywords := make([]models.KeywordWeight, 0, maxKeywords)
	for _, token := range Tokenize(text) {
		keywords = append(keywords, models.KeywordWeight{
			Word:  token,
			Score: a.vader.PolarityScores(token).Compound,
		})
	}

	keywords = rankKeywords(keywords)

	compound := a.vader.PolarityScores(text).Compound
	return LabelForScore(compound), keywords
}

// rankKeywords orders entries by descending |score| and truncates to the
// keyword budget. The stable sort keeps original token order on ties.
func rankKeywords(keywords []models.KeywordWeight) []models.KeywordWeight {
	sort.SliceStable(keywords, func(i, j int) bool {
		return abs(keywords[i].Score) > abs(keywords[j].Score)
	})
	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}
	return keywords
}

// LabelForScore maps a compound score in [-1, 1] to its label.
func LabelForScore(compound float64) string {
	switch {
	case compound >= positiveThreshold:
		return models.SentimentPositive
	case compound <= negativeThreshold:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

// Tokenize strips punctuation, lower-cases and splits on whitespace,
// returning distinct tokens in first-occurrence order.
func Tokenize(text string) []string {
	cleaned := punctuation.ReplaceAllString(text, "")
	fields := strings.Fields(strings.ToLower(cleaned))

	seen := make(map[string]bool, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if !seen[f] {
			seen[f] = true
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
