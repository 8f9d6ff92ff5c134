package models

type MatchTier string

const (
	TierStrong   MatchTier = "strong"
	TierModerate MatchTier = "moderate"
	TierLow      MatchTier = "low"
)

type MatchResult struct {
	Score           float64   `json:"score"`
	Tier            MatchTier `json:"tier"`
	Recommendation  string    `json:"recommendation"`
	MissingKeywords []string  `json:"missing_keywords"`
	MatchedKeywords []string  `json:"matched_keywords"`
}

type AnalyzeResumeRequest struct {
	ResumeText string `json:"resume_text"`
}

type AnalyzeResumeResponse struct {
	CleanedText string `json:"cleaned_text"`
}

type MatchJobRequest struct {
	ResumeText     string `json:"resume_text"`
	JobDescription string `json:"job_description"`
}

type MatchJobResponse struct {
	MatchResult
	ResumeText string `json:"resume_text"`
}
