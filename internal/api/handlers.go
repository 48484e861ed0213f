package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"promomailer/internal/ai"
	"promomailer/internal/core"
	"promomailer/internal/httpx"
)

// fallbackGuidance is shown whenever the website cannot serve as the source
// of business details and the request carried no usable description.
const fallbackGuidance = "We couldn't gather enough text from that website " +
	"(this can happen due to site protections or dynamic pages). " +
	"Please describe your business in the description field, then try again."

type GenerateEmailRequest struct {
	WebsiteURL          string `json:"website_url"`
	PromotionDetails    string `json:"promotion_details"`
	FallbackDescription string `json:"fallback_description"`
	APIKey              string `json:"api_key"`
}

type ScrapeRequest struct {
	WebsiteURL string `json:"website_url"`
}

type DownloadRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.emails.Generate(r.Context(), core.GenerateRequest{
		WebsiteURL:          req.WebsiteURL,
		PromotionDetails:    req.PromotionDetails,
		FallbackDescription: req.FallbackDescription,
		APIKey:              req.APIKey,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	var req ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	preview, err := s.emails.PreviewWebsite(r.Context(), req.WebsiteURL)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, preview)
}

// handleDownload hands the generated email back as a plain-text attachment.
// The text comes from the client because nothing is stored server-side.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	var req DownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Email) == "" {
		respondError(w, http.StatusBadRequest, "Email text is required")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="promotional_email.txt"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(req.Email))
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
// Website problems come back as 422 with fallback_required so the client
// knows a business description would unblock the request.
func respondServiceError(w http.ResponseWriter, err error) {
	var invalid *core.InvalidInputError
	if errors.As(err, &invalid) {
		respondError(w, http.StatusBadRequest, invalid.Error())
		return
	}

	var insufficient *core.InsufficientContentError
	var fetchErr *httpx.FetchError
	if errors.As(err, &insufficient) || errors.As(err, &fetchErr) {
		respondJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":             fallbackGuidance,
			"detail":            err.Error(),
			"fallback_required": true,
		})
		return
	}

	if errors.Is(err, core.ErrEmptyResult) {
		respondError(w, http.StatusBadGateway,
			"No email text was returned. Please try again (or simplify your promotion details).")
		return
	}

	var genErr *ai.GenerationError
	if errors.As(err, &genErr) {
		respondError(w, http.StatusBadGateway, genErr.Error())
		return
	}

	respondError(w, http.StatusInternalServerError, "Unexpected error: "+err.Error())
}
