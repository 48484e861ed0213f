package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"promomailer/internal/ai"
	"promomailer/internal/content"
	"promomailer/internal/httpx"
	"promomailer/internal/observability"
	"promomailer/internal/urlutil"
)

// DefaultMinBusinessTextChars is the smallest amount of extracted website
// text considered enough to describe a business. Pages below it trigger the
// fallback-description path.
const DefaultMinBusinessTextChars = 300

const (
	SourceWebsite  = "website"
	SourceFallback = "fallback"
)

type Config struct {
	// MinBusinessTextChars overrides DefaultMinBusinessTextChars when > 0.
	MinBusinessTextChars int

	// RequireAPIKey rejects requests that carry no key and have no
	// DefaultAPIKey to fall back on. Off for the mock provider.
	RequireAPIKey bool

	// DefaultAPIKey is used when a request does not bring its own key.
	DefaultAPIKey string
}

// EmailService turns a website URL and promotion details into a ready-to-send
// promotional email. Each call is self-contained: one fetch, one completion,
// nothing persisted between calls.
type EmailService struct {
	fetcher  *httpx.CollyFetcher
	aiClient ai.Client
	cfg      Config
}

func NewEmailService(fetcher *httpx.CollyFetcher, aiClient ai.Client, cfg Config) *EmailService {
	if cfg.MinBusinessTextChars <= 0 {
		cfg.MinBusinessTextChars = DefaultMinBusinessTextChars
	}
	return &EmailService{fetcher: fetcher, aiClient: aiClient, cfg: cfg}
}

type GenerateRequest struct {
	WebsiteURL          string
	PromotionDetails    string
	FallbackDescription string
	APIKey              string
}

type GenerateResult struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	WebsiteURL     string    `json:"website_url"`
	BusinessName   string    `json:"business_name"`
	BusinessSource string    `json:"business_source"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// Generate runs one end-to-end action: validate the request, collect business
// text from the website (or the fallback description), and ask the completion
// service for the email. Input problems surface as *InvalidInputError before
// any network work happens; an unusable website without a fallback surfaces
// as *httpx.FetchError or *InsufficientContentError so callers can prompt the
// user for a description and resubmit.
func (s *EmailService) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	apiKey := strings.TrimSpace(req.APIKey)
	if apiKey == "" {
		apiKey = s.cfg.DefaultAPIKey
	}
	if s.cfg.RequireAPIKey && apiKey == "" {
		observability.IncGeneration("invalid_input")
		observability.IncError(observability.ErrorInput, "validation")
		return nil, &InvalidInputError{Field: "api_key", Reason: "required"}
	}

	normalized, _, err := urlutil.Normalize(req.WebsiteURL)
	if err != nil {
		observability.IncGeneration("invalid_input")
		observability.IncError(observability.ErrorInput, "validation")
		return nil, &InvalidInputError{Field: "website_url", Reason: err.Error()}
	}

	promo := strings.TrimSpace(req.PromotionDetails)
	if promo == "" {
		observability.IncGeneration("invalid_input")
		observability.IncError(observability.ErrorInput, "validation")
		return nil, &InvalidInputError{Field: "promotion_details", Reason: "required"}
	}

	text, source, page, err := s.businessText(ctx, normalized, req.FallbackDescription)
	if err != nil {
		observability.IncGeneration("fallback_required")
		return nil, err
	}

	observability.IncAICall("generate_email")
	email, err := s.aiClient.GenerateEmail(ctx, ai.EmailRequest{
		BusinessText: text,
		PromoDetails: promo,
		APIKey:       apiKey,
	})
	if err != nil {
		observability.IncGeneration("generation_failed")
		observability.IncError(observability.ClassifyGenerationError(err), "completion")
		return nil, fmt.Errorf("generate email: %w", err)
	}
	if email == "" {
		observability.IncGeneration("empty_result")
		return nil, ErrEmptyResult
	}

	observability.IncGeneration("ok")
	slog.Info("email generated",
		"url", normalized,
		"source", source,
		"business_chars", len(text),
		"email_chars", len(email),
	)

	return &GenerateResult{
		ID:             uuid.NewString(),
		Email:          email,
		WebsiteURL:     normalized,
		BusinessName:   businessName(page, normalized),
		BusinessSource: source,
		GeneratedAt:    time.Now().UTC(),
	}, nil
}

// businessName prefers the name the site declares in structured data over
// one guessed from the domain.
func businessName(page *content.Page, pageURL string) string {
	if page != nil && page.BusinessName != "" {
		return page.BusinessName
	}
	return urlutil.DisplayName(pageURL)
}

// businessText prefers website text and falls back to the user's own
// description when the page cannot be fetched or is too thin. With no
// fallback available the gating error itself is returned, so the completion
// service is never called with nothing to say.
func (s *EmailService) businessText(ctx context.Context, pageURL, fallback string) (string, string, *content.Page, error) {
	fallback = strings.TrimSpace(fallback)

	page, err := s.fetchPage(ctx, pageURL)
	var gateErr error
	switch {
	case err != nil:
		gateErr = err
	case len(page.Text) < s.cfg.MinBusinessTextChars:
		gateErr = &InsufficientContentError{Chars: len(page.Text), Min: s.cfg.MinBusinessTextChars}
	default:
		return page.Text, SourceWebsite, page, nil
	}

	if fallback == "" {
		return "", "", nil, gateErr
	}

	slog.Warn("using fallback business description", "url", pageURL, "reason", gateErr.Error())
	return fallback, SourceFallback, page, nil
}

func (s *EmailService) fetchPage(ctx context.Context, pageURL string) (*content.Page, error) {
	start := time.Now()
	body, status, err := s.fetcher.FetchBytes(ctx, pageURL)
	observability.ObserveFetchDuration(time.Since(start).Seconds())
	if err != nil {
		observability.IncPageFetched("error")
		observability.IncError(observability.ClassifyFetchError(err), "fetch")
		return nil, err
	}

	page, err := content.Extract(body, pageURL)
	if err != nil {
		observability.IncPageFetched("parse_error")
		observability.IncError(observability.ErrorParsing, "extract")
		return nil, &httpx.FetchError{Err: err}
	}

	observability.IncPageFetched("ok")
	slog.Debug("page fetched", "url", pageURL, "status", status, "chars", len(page.Text))
	return page, nil
}

type WebsitePreview struct {
	URL             string `json:"url"`
	BusinessName    string `json:"business_name"`
	Title           string `json:"title"`
	MetaDescription string `json:"meta_description"`
	Text            string `json:"text"`
	Chars           int    `json:"chars"`
	Sufficient      bool   `json:"sufficient"`
}

// PreviewWebsite fetches and extracts a page without generating anything,
// so the UI can show what the email would be grounded on.
func (s *EmailService) PreviewWebsite(ctx context.Context, rawURL string) (*WebsitePreview, error) {
	normalized, _, err := urlutil.Normalize(rawURL)
	if err != nil {
		return nil, &InvalidInputError{Field: "website_url", Reason: err.Error()}
	}

	page, err := s.fetchPage(ctx, normalized)
	if err != nil {
		return nil, err
	}

	return &WebsitePreview{
		URL:             normalized,
		BusinessName:    businessName(page, normalized),
		Title:           page.Title,
		MetaDescription: page.MetaDescription,
		Text:            page.Text,
		Chars:           len(page.Text),
		Sufficient:      len(page.Text) >= s.cfg.MinBusinessTextChars,
	}, nil
}
