package ai

import (
	"fmt"
	"strings"
)

// SystemPrompt is the fixed persona sent with every completion request.
const SystemPrompt = "You are a Senior CRM Professional with 10+ years of experience in high-end marketing. " +
	"You write concise, persuasive, and professional email copy. " +
	"You never use cheesy or spammy language. " +
	"Use the provided business details to tailor the tone."

// Business text beyond this many bytes is cut before prompting. Promotion
// details are never truncated.
const maxBusinessChars = 7000

const truncationMarker = "\n...(truncated)..."

const userPromptTemplate = `BUSINESS DETAILS (from website and/or user):
%s

PROMOTION DETAILS:
%s

TASK:
Write one promotional email suitable for a small business to send to customers.
Requirements:
- Subject line + email body.
- Clear offer and timeframe.
- Professional, concise, persuasive.
- No spammy words (e.g., 'ACT NOW!!!', 'FREE MONEY', 'guaranteed').
- Include a clear call-to-action.
- If the business type is unclear, keep it broadly applicable.
`

// BuildUserPrompt renders the two-section instruction payload. The template
// text and section ordering are design constants, not configuration.
func BuildUserPrompt(businessText, promoDetails string) string {
	return fmt.Sprintf(userPromptTemplate,
		truncateBusinessText(strings.TrimSpace(businessText)),
		strings.TrimSpace(promoDetails))
}

func truncateBusinessText(text string) string {
	if len(text) <= maxBusinessChars {
		return text
	}
	return text[:maxBusinessChars] + truncationMarker
}
