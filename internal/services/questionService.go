package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"

	"smarthire/internal/metrics"
	"smarthire/internal/models"
)

const (
	defaultExperienceLevel      = "mid"
	DefaultQuestionsPerCategory = 3
	MaxQuestionsPerCategory     = 10

	questionTemperature = 0.2
	questionMaxTokens   = 800

	questionSystemPrompt = "You are a helpful assistant that outputs valid JSON, and nothing else."
)

// QuestionService asks a language model for interview questions tailored to
// a resume and job description.
type QuestionService interface {
	Generate(ctx context.Context, resumeText, jobText, experienceLevel string, perCategory int) (*models.InterviewQuestions, error)
}

type questionService struct {
	llm       llms.Model
	modelName string
}

// NewQuestionService accepts a nil model; Generate then fails with
// ErrProviderUnavailable.
func NewQuestionService(llm llms.Model, modelName string) QuestionService {
	return &questionService{llm: llm, modelName: modelName}
}

func buildQuestionPrompt(resumeText, jobText, level string, perCategory int) string {
	return fmt.Sprintf(`You are an assistant that creates concise interview questions with short model answers. Input: a resume summary and a job description. Output MUST be valid JSON **only** with the following structure:

{ "candidate_experience_level": "<junior|mid|senior>",
  "categories": [
    {"category": "Technical depth", "questions": [{"question":"...","answer":"..."}]},
    {"category": "Problem-solving", "questions": [{"question":"...","answer":"..."}]},
    {"category": "Communication skills", "questions": [{"question":"...","answer":"..."}] }
  ]
}

Use the candidate_experience_level: %s. Provide %d questions per category. Make questions relevant to the resume and job description, and keep answers concise (1-3 sentences). Do not include any extra commentary or text outside the JSON.

Resume summary:
%s

Job description:
%s`, level, perCategory, resumeText, jobText)
}

func (s *questionService) Generate(ctx context.Context, resumeText, jobText, experienceLevel string, perCategory int) (*models.InterviewQuestions, error) {
	if s.llm == nil {
		metrics.InterviewGenerationsTotal.WithLabelValues("unavailable").Inc()
		return nil, ErrProviderUnavailable
	}

	level := strings.TrimSpace(experienceLevel)
	if level == "" {
		level = defaultExperienceLevel
	}
	if perCategory == 0 {
		perCategory = DefaultQuestionsPerCategory
	}
	if perCategory < 1 || perCategory > MaxQuestionsPerCategory {
		return nil, invalid("questions_per_category", fmt.Errorf("questions_per_category must be between 1 and %d", MaxQuestionsPerCategory))
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, questionSystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, buildQuestionPrompt(resumeText, jobText, level, perCategory)),
	}
	resp, err := s.llm.GenerateContent(ctx, messages,
		llms.WithTemperature(questionTemperature),
		llms.WithMaxTokens(questionMaxTokens),
	)
	if err != nil {
		metrics.InterviewGenerationsTotal.WithLabelValues("upstream_error").Inc()
		log.Error().Err(err).Str("model", s.modelName).Msg("LLM request failed")
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if len(resp.Choices) == 0 {
		metrics.InterviewGenerationsTotal.WithLabelValues("malformed").Inc()
		return nil, fmt.Errorf("%w: no choices returned", ErrMalformedResponse)
	}

	questions, err := parseInterviewQuestions(resp.Choices[0].Content)
	if err != nil {
		metrics.InterviewGenerationsTotal.WithLabelValues("malformed").Inc()
		log.Error().Err(err).Str("raw_response", resp.Choices[0].Content).Msg("Failed to parse LLM response")
		return nil, err
	}
	if questions.CandidateExperienceLevel == "" {
		questions.CandidateExperienceLevel = level
	}
	questions.ModelUsed = s.modelName

	metrics.InterviewGenerationsTotal.WithLabelValues("success").Inc()
	return questions, nil
}

// parseInterviewQuestions decodes the model reply, tolerating a surrounding
// markdown code fence. The reply must carry a "categories" key.
func parseInterviewQuestions(content string) (*models.InterviewQuestions, error) {
	cleaned := stripCodeFence(content)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if _, ok := raw["categories"]; !ok {
		return nil, fmt.Errorf("%w: response did not include 'categories'", ErrMalformedResponse)
	}

	var questions models.InterviewQuestions
	if err := json.Unmarshal([]byte(cleaned), &questions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &questions, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// drop the language tag line, e.g. ```json
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
