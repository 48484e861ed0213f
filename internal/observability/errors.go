package observability

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"promomailer/internal/ai"
	"promomailer/internal/httpx"
)

const (
	ErrorNetwork   = "network"
	ErrorParsing   = "parsing"
	ErrorAI        = "ai"
	ErrorRateLimit = "rate_limit"
	ErrorInput     = "input"
	ErrorUnknown   = "unknown"
)

func ClassifyFetchError(err error) string {
	if err == nil {
		return ErrorUnknown
	}
	var fe *httpx.FetchError
	if errors.As(err, &fe) {
		switch {
		case fe.Status == http.StatusTooManyRequests:
			return ErrorRateLimit
		case fe.Status == 0 && strings.Contains(strings.ToLower(fe.Error()), "parse"):
			return ErrorParsing
		default:
			return ErrorNetwork
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorNetwork
	}
	return ErrorUnknown
}

func ClassifyGenerationError(err error) string {
	if err == nil {
		return ErrorUnknown
	}
	var genErr *ai.GenerationError
	if errors.As(err, &genErr) {
		return ErrorAI
	}
	if kind := ClassifyFetchError(err); kind != ErrorUnknown {
		return kind
	}
	return ErrorAI
}
