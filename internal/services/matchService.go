package services

import (
	"sort"

	"github.com/rs/zerolog/log"

	"smarthire/internal/metrics"
	"smarthire/internal/models"
	"smarthire/internal/utils"
)

const (
	strongThreshold   = 0.7
	moderateThreshold = 0.4
	maxKeywords       = 50
)

var recommendations = map[models.MatchTier]string{
	models.TierStrong:   "Strong match. Consider shortlisting this candidate.",
	models.TierModerate: "Moderate match. Review manually for final decision.",
	models.TierLow:      "Low match. Candidate may not fit this role closely.",
}

var stopwords = map[string]struct{}{
	"and": {}, "the": {}, "for": {}, "with": {}, "this": {}, "that": {},
	"from": {}, "have": {}, "will": {}, "your": {}, "you": {}, "our": {},
	"are": {}, "job": {}, "role": {}, "work": {}, "team": {},
}

// MatchService scores resumes against job descriptions.
type MatchService interface {
	Analyze(resumeText string) string
	Match(resumeText, jobText string) models.MatchResult
}

type matchService struct{}

func NewMatchService() MatchService {
	return &matchService{}
}

func (s *matchService) Analyze(resumeText string) string {
	return utils.Normalize(resumeText)
}

func (s *matchService) Match(resumeText, jobText string) models.MatchResult {
	score, ok := tfidfCosine(utils.Normalize(resumeText), utils.Normalize(jobText))
	if !ok {
		log.Debug().Msg("Match input has no terms, scoring as low")
		metrics.MatchesComputedTotal.WithLabelValues(string(models.TierLow)).Inc()
		return models.MatchResult{
			Score:           0,
			Tier:            models.TierLow,
			Recommendation:  recommendations[models.TierLow],
			MissingKeywords: []string{},
			MatchedKeywords: []string{},
		}
	}

	tier := TierFor(score)
	missing, matched := keywordDiff(resumeText, jobText)
	metrics.MatchesComputedTotal.WithLabelValues(string(tier)).Inc()

	return models.MatchResult{
		Score:           score,
		Tier:            tier,
		Recommendation:  recommendations[tier],
		MissingKeywords: missing,
		MatchedKeywords: matched,
	}
}

// TierFor buckets a similarity score.
func TierFor(score float64) models.MatchTier {
	switch {
	case score > strongThreshold:
		return models.TierStrong
	case score > moderateThreshold:
		return models.TierModerate
	default:
		return models.TierLow
	}
}

// keywordDiff returns the job keywords absent from the resume and those
// present in both, sorted and capped.
func keywordDiff(resumeText, jobText string) (missing, matched []string) {
	resumeWords := utils.Tokenize(resumeText)
	missing, matched = []string{}, []string{}

	for w := range utils.Tokenize(jobText) {
		if _, stop := stopwords[w]; stop || len(w) <= 2 {
			continue
		}
		if _, in := resumeWords[w]; in {
			matched = append(matched, w)
		} else {
			missing = append(missing, w)
		}
	}
	sort.Strings(missing)
	sort.Strings(matched)
	return capKeywords(missing), capKeywords(matched)
}

func capKeywords(words []string) []string {
	if len(words) > maxKeywords {
		return words[:maxKeywords]
	}
	return words
}
