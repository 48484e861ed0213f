package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildUserPrompt(t *testing.T) {
	got := BuildUserPrompt("We sell rare teas.", "20% off all items this weekend")

	want := "BUSINESS DETAILS (from website and/or user):\n" +
		"We sell rare teas.\n\n" +
		"PROMOTION DETAILS:\n" +
		"20% off all items this weekend\n\n" +
		"TASK:\n" +
		"Write one promotional email suitable for a small business to send to customers.\n" +
		"Requirements:\n" +
		"- Subject line + email body.\n" +
		"- Clear offer and timeframe.\n" +
		"- Professional, concise, persuasive.\n" +
		"- No spammy words (e.g., 'ACT NOW!!!', 'FREE MONEY', 'guaranteed').\n" +
		"- Include a clear call-to-action.\n" +
		"- If the business type is unclear, keep it broadly applicable.\n"

	assert.Equal(t, want, got)
}

func TestBuildUserPromptTrimsInputs(t *testing.T) {
	got := BuildUserPrompt("  corner bakery  ", "\n\tfree coffee with any pastry \n")

	assert.Contains(t, got, "BUSINESS DETAILS (from website and/or user):\ncorner bakery\n\n")
	assert.Contains(t, got, "PROMOTION DETAILS:\nfree coffee with any pastry\n\n")
}

func TestBuildUserPromptTruncation(t *testing.T) {
	tests := []struct {
		name       string
		length     int
		wantMarker bool
	}{
		{name: "under the limit", length: 6999, wantMarker: false},
		{name: "exactly the limit", length: 7000, wantMarker: false},
		{name: "one over the limit", length: 7001, wantMarker: true},
		{name: "far over the limit", length: 40000, wantMarker: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			business := strings.Repeat("a", tt.length)
			got := BuildUserPrompt(business, "promo")

			if tt.wantMarker {
				prefix := "BUSINESS DETAILS (from website and/or user):\n" +
					strings.Repeat("a", 7000) + "\n...(truncated)...\n\nPROMOTION DETAILS:\n"
				assert.True(t, strings.HasPrefix(got, prefix), "business text must be cut at exactly 7000 chars")
			} else {
				assert.NotContains(t, got, "...(truncated)...")
				assert.Contains(t, got, business)
			}
		})
	}
}

func TestBuildUserPromptNeverTruncatesPromo(t *testing.T) {
	promo := strings.Repeat("b", 9000)
	got := BuildUserPrompt("short business", promo)

	assert.Contains(t, got, promo)
	assert.NotContains(t, got, "...(truncated)...")
}

func TestSystemPrompt(t *testing.T) {
	want := "You are a Senior CRM Professional with 10+ years of experience in high-end marketing. " +
		"You write concise, persuasive, and professional email copy. " +
		"You never use cheesy or spammy language. " +
		"Use the provided business details to tailor the tone."

	assert.Equal(t, want, SystemPrompt)
}
