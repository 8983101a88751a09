package security

import (
	"bytes"
	"errors"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// SecurityService sanitizes user-supplied market text before it reaches
// storage or other clients.
type SecurityService struct {
	strict   *bluemonday.Policy
	rendered *bluemonday.Policy
	markdown goldmark.Markdown
}

// MarketInput is the raw market text a client submitted.
type MarketInput struct {
	Title       string
	Description string
}

// NewSecurityService builds the sanitation policies: titles are stripped to
// plain text, descriptions are rendered from markdown and then cleaned with
// the UGC policy.
func NewSecurityService() *SecurityService {
	return &SecurityService{
		strict:   bluemonday.StrictPolicy(),
		rendered: bluemonday.UGCPolicy(),
		markdown: goldmark.New(),
	}
}

// ValidateAndSanitizeMarketInput cleans a market's title and description.
// The returned description is sanitized HTML rendered from the submitted
// markdown.
func (s *SecurityService) ValidateAndSanitizeMarketInput(input MarketInput) (MarketInput, error) {
	title := strings.TrimSpace(s.strict.Sanitize(input.Title))
	if title == "" {
		return MarketInput{}, errors.New("title is empty after sanitization")
	}

	description := strings.TrimSpace(input.Description)
	if description != "" {
		var buf bytes.Buffer
		if err := s.markdown.Convert([]byte(description), &buf); err != nil {
			return MarketInput{}, err
		}
		description = strings.TrimSpace(s.rendered.Sanitize(buf.String()))
	}

	return MarketInput{Title: title, Description: description}, nil
}
