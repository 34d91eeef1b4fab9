package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"jobgate/internal/filtering"
	"jobgate/internal/job"
	"jobgate/internal/matcher"
	"jobgate/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type classifyRequest struct {
	Title        string `json:"title"`
	CompanyName  string `json:"company_name"`
	Description  string `json:"description"`
	Requirements string `json:"requirements"`
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json payload")
		return
	}

	verdict := s.classifier.Classify(req.Title, req.Description, req.Requirements, req.CompanyName)
	writeJSON(w, http.StatusOK, verdict)
}

func (s *Server) handleCreatePosting(w http.ResponseWriter, r *http.Request) {
	var posting job.Posting
	if err := json.NewDecoder(r.Body).Decode(&posting); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json payload")
		return
	}
	if strings.TrimSpace(posting.Title) == "" || strings.TrimSpace(posting.CompanyName) == "" {
		writeError(w, http.StatusBadRequest, "title and company_name are required")
		return
	}
	if posting.JobType == "" {
		posting.JobType = job.JobTypeFullTime
	}
	if posting.ExperienceLevel == "" {
		posting.ExperienceLevel = job.ExperienceEntry
	}
	posting.IsActive = true

	verdict := s.classifier.Classify(posting.Title, posting.Description, posting.Requirements, posting.CompanyName)
	posting.IsVerified = verdict.IsReal
	posting.Confidence = verdict.Confidence

	if err := s.store.CreatePosting(r.Context(), &posting); err != nil {
		s.logger.Error("creating posting", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not create posting")
		return
	}

	writeJSON(w, http.StatusCreated, &posting)
}

func (s *Server) handleUpdatePosting(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid posting id")
		return
	}

	existing, err := s.store.GetPosting(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "posting not found")
		return
	}
	if err != nil {
		s.logger.Error("loading posting", zap.Int64("posting_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load posting")
		return
	}

	// IsActive is a pointer so that a payload omitting it keeps the stored
	// flag instead of silently deactivating the posting.
	var req struct {
		job.Posting
		IsActive *bool `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json payload")
		return
	}

	posting := req.Posting
	posting.ID = existing.ID
	posting.PostedAt = existing.PostedAt
	if posting.JobType == "" {
		posting.JobType = existing.JobType
	}
	if posting.ExperienceLevel == "" {
		posting.ExperienceLevel = existing.ExperienceLevel
	}
	posting.IsActive = existing.IsActive
	if req.IsActive != nil {
		posting.IsActive = *req.IsActive
	}

	// Edits re-run the classifier so the verdict always reflects the
	// current text.
	verdict := s.classifier.Classify(posting.Title, posting.Description, posting.Requirements, posting.CompanyName)
	posting.IsVerified = verdict.IsReal
	posting.Confidence = verdict.Confidence

	if err := s.store.UpdatePosting(r.Context(), &posting); err != nil {
		s.logger.Error("updating posting", zap.Int64("posting_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not update posting")
		return
	}

	writeJSON(w, http.StatusOK, &posting)
}

func (s *Server) handleGetPosting(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid posting id")
		return
	}

	posting, err := s.store.GetPosting(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "posting not found")
		return
	}
	if err != nil {
		s.logger.Error("loading posting", zap.Int64("posting_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load posting")
		return
	}

	writeJSON(w, http.StatusOK, posting)
}

func (s *Server) handleListPostings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.PostingFilter{
		Search:          q.Get("search"),
		Location:        q.Get("location"),
		JobType:         job.JobType(q.Get("job_type")),
		ExperienceLevel: job.ExperienceLevel(q.Get("experience_level")),
		ActiveOnly:      q.Get("include_inactive") != "true",
	}

	postings, err := s.store.ListPostings(r.Context(), filter)
	if err != nil {
		s.logger.Error("listing postings", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not list postings")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":    postings.Len(),
		"postings": postings.Items,
	})
}

func (s *Server) handleDeletePosting(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid posting id")
		return
	}

	if err := s.store.DeletePosting(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "posting not found")
			return
		}
		s.logger.Error("deleting posting", zap.Int64("posting_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not delete posting")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type applyRequest struct {
	ProfileID   int64  `json:"profile_id"`
	CoverLetter string `json:"cover_letter"`
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	postingID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid posting id")
		return
	}

	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json payload")
		return
	}

	if _, err := s.store.GetPosting(r.Context(), postingID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "posting not found")
			return
		}
		s.logger.Error("loading posting", zap.Int64("posting_id", postingID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load posting")
		return
	}
	if _, err := s.store.GetProfile(r.Context(), req.ProfileID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "profile not found")
			return
		}
		s.logger.Error("loading profile", zap.Int64("profile_id", req.ProfileID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load profile")
		return
	}

	application := &job.Application{
		ProfileID:   req.ProfileID,
		PostingID:   postingID,
		CoverLetter: req.CoverLetter,
	}
	if err := s.store.CreateApplication(r.Context(), application); err != nil {
		if errors.Is(err, store.ErrDuplicateApplication) {
			writeError(w, http.StatusConflict, "already applied to this posting")
			return
		}
		s.logger.Error("creating application", zap.Int64("posting_id", postingID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not create application")
		return
	}

	writeJSON(w, http.StatusCreated, application)
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var profile job.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json payload")
		return
	}
	if strings.TrimSpace(profile.FullName) == "" || strings.TrimSpace(profile.Email) == "" {
		writeError(w, http.StatusBadRequest, "full_name and email are required")
		return
	}
	if profile.ExperienceYears < 0 {
		writeError(w, http.StatusBadRequest, "experience_years must be non-negative")
		return
	}

	if err := s.store.CreateProfile(r.Context(), &profile); err != nil {
		s.logger.Error("creating profile", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not create profile")
		return
	}

	writeJSON(w, http.StatusCreated, &profile)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid profile id")
		return
	}

	profile, err := s.store.GetProfile(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}
	if err != nil {
		s.logger.Error("loading profile", zap.Int64("profile_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load profile")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

type recommendationItem struct {
	PostingID       int64  `json:"posting_id"`
	Title           string `json:"title"`
	CompanyName     string `json:"company_name"`
	Location        string `json:"location,omitempty"`
	RawScore        int    `json:"raw_score"`
	NormalizedScore int    `json:"normalized_score"`
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid profile id")
		return
	}

	profile, err := s.store.GetProfile(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}
	if err != nil {
		s.logger.Error("loading profile", zap.Int64("profile_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load profile")
		return
	}

	postings, err := s.store.ListPostings(r.Context(), store.PostingFilter{})
	if err != nil {
		s.logger.Error("listing postings", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not list postings")
		return
	}

	cfg := &filtering.Config{ExcludeApplied: s.cfg.ExcludeApplied}
	deps := filtering.Deps{
		Applications: s.store,
		Logger:       s.logger,
		Profile:      profile,
	}
	eligible, err := filtering.Run(r.Context(), cfg, deps, filtering.DefaultSteps(), postings)
	if err != nil {
		s.logger.Error("filtering postings", zap.Int64("profile_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not prepare recommendations")
		return
	}

	results := matcher.Recommend(profile, eligible)

	items := make([]recommendationItem, 0, len(results))
	for _, result := range results {
		items = append(items, recommendationItem{
			PostingID:       result.Posting.ID,
			Title:           result.Posting.Title,
			CompanyName:     result.Posting.CompanyName,
			Location:        result.Posting.Location,
			RawScore:        result.RawScore,
			NormalizedScore: result.NormalizedScore,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"profile_id":      profile.ID,
		"count":           len(items),
		"recommendations": items,
	})
}
