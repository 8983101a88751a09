package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeStripsScriptFromTitle(t *testing.T) {
	s := NewSecurityService()

	out, err := s.ValidateAndSanitizeMarketInput(MarketInput{
		Title: `Will BTC <script>alert(1)</script> hit 100k?`,
	})
	require.NoError(t, err)
	assert.NotContains(t, out.Title, "<script>")
	assert.Contains(t, out.Title, "Will BTC")
}

func TestSanitizeRejectsEmptyTitle(t *testing.T) {
	s := NewSecurityService()

	_, err := s.ValidateAndSanitizeMarketInput(MarketInput{Title: "<b></b>"})
	assert.Error(t, err)
}

func TestSanitizeRendersMarkdownDescription(t *testing.T) {
	s := NewSecurityService()

	out, err := s.ValidateAndSanitizeMarketInput(MarketInput{
		Title:       "Will it rain?",
		Description: "Resolution uses **official** data.",
	})
	require.NoError(t, err)
	assert.Contains(t, out.Description, "<strong>official</strong>")
}
