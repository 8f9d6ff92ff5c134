package models

type InterviewQuestionsRequest struct {
	ResumeText           string  `json:"resume_text"`
	JobDescription       string  `json:"job_description"`
	ExperienceLevel      *string `json:"experience_level,omitempty"`
	QuestionsPerCategory *int    `json:"questions_per_category,omitempty"`
}

type QuestionAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type QuestionCategory struct {
	Category  string           `json:"category"`
	Questions []QuestionAnswer `json:"questions"`
}

// InterviewQuestions is the structure the language model is asked to return,
// annotated with the model that produced it.
type InterviewQuestions struct {
	CandidateExperienceLevel string             `json:"candidate_experience_level"`
	Categories               []QuestionCategory `json:"categories"`
	ModelUsed                string             `json:"model_used"`
}
