package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"smarthire/internal/models"
	"smarthire/internal/services"
	"smarthire/internal/utils"
)

type AIHandler struct {
	matchService    services.MatchService
	questionService services.QuestionService
	maxUploadBytes  int64
}

func NewAIHandler(matchService services.MatchService, questionService services.QuestionService, maxUploadBytes int64) *AIHandler {
	return &AIHandler{
		matchService:    matchService,
		questionService: questionService,
		maxUploadBytes:  maxUploadBytes,
	}
}

func (h *AIHandler) AnalyzeResume(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeResumeRequest
	if !decode(w, r, &req) {
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, models.AnalyzeResumeResponse{
		CleanedText: h.matchService.Analyze(req.ResumeText),
	})
}

func (h *AIHandler) MatchJob(w http.ResponseWriter, r *http.Request) {
	var req models.MatchJobRequest
	if !decode(w, r, &req) {
		return
	}
	h.respondMatch(w, req.ResumeText, req.JobDescription)
}

// MatchJobFile accepts a multipart form with a PDF or DOCX resume in "file"
// and the job description in "job_description".
func (h *AIHandler) MatchJobFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			utils.SendJSONError(w, fmt.Sprintf("Upload exceeds %d MB", h.maxUploadBytes>>20), http.StatusRequestEntityTooLarge)
			return
		}
		utils.SendJSONError(w, "Invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.SendJSONError(w, "file is required (pdf or docx)", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		log.Error().Err(err).Str("filename", header.Filename).Msg("Failed to read uploaded resume")
		utils.SendJSONError(w, "Failed to read uploaded file", http.StatusBadRequest)
		return
	}
	if int64(len(data)) > h.maxUploadBytes {
		utils.SendJSONError(w, fmt.Sprintf("Upload exceeds %d MB", h.maxUploadBytes>>20), http.StatusRequestEntityTooLarge)
		return
	}

	resumeText, err := utils.ExtractResumeText(header.Filename, data)
	if err != nil {
		log.Warn().Err(err).Str("filename", header.Filename).Msg("Failed to extract resume text")
		utils.SendJSONError(w, "Failed to read resume: "+err.Error(), http.StatusBadRequest)
		return
	}

	h.respondMatch(w, resumeText, r.FormValue("job_description"))
}

func (h *AIHandler) respondMatch(w http.ResponseWriter, resumeText, jobText string) {
	result := h.matchService.Match(resumeText, jobText)
	utils.RespondWithJSON(w, http.StatusOK, models.MatchJobResponse{
		MatchResult: result,
		ResumeText:  resumeText,
	})
}

func (h *AIHandler) InterviewQuestions(w http.ResponseWriter, r *http.Request) {
	var req models.InterviewQuestionsRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.ResumeText) == "" || strings.TrimSpace(req.JobDescription) == "" {
		utils.SendJSONError(w, "resume_text and job_description are required", http.StatusBadRequest)
		return
	}

	level := ""
	if req.ExperienceLevel != nil {
		level = *req.ExperienceLevel
	}
	perCategory := services.DefaultQuestionsPerCategory
	if req.QuestionsPerCategory != nil {
		perCategory = *req.QuestionsPerCategory
		if perCategory < 1 || perCategory > services.MaxQuestionsPerCategory {
			utils.SendJSONError(w, fmt.Sprintf("questions_per_category must be between 1 and %d", services.MaxQuestionsPerCategory), http.StatusBadRequest)
			return
		}
	}

	questions, err := h.questionService.Generate(r.Context(), req.ResumeText, req.JobDescription, level, perCategory)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, questions)
}
