package enrich

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSectionsFullResponse(t *testing.T) {
	response := `TITLE: Compounding Fundamentals
EXECUTIVE SUMMARY: The session argued that consistency beats brilliance. Three case studies backed the claim.
PODCAST SCRIPT: Hey everyone, welcome back to the show. Today I want to talk about fundamentals.
LINKEDIN POST: Just left a great session. Here are my takeaways. #learning
TWITTER THREAD: 1/ Consistency wins. 2/ Fundamentals compound. #thread
BLOG CONTENT: # Fundamentals

They compound. Here is why.
KEY QUOTES:
- "Consistency beats brilliance."
- "Fundamentals compound."
- "Strategy fails in execution."`

	sections := ParseSections(response)

	require.True(t, sections.Usable())
	assert.Equal(t, "Compounding Fundamentals", sections.Title)
	assert.Contains(t, sections.Summary, "consistency beats brilliance")
	assert.Contains(t, sections.PodcastScript, "welcome back to the show")
	assert.Contains(t, sections.LinkedInPost, "#learning")
	assert.Contains(t, sections.TwitterThread, "1/ Consistency wins")
	assert.Contains(t, sections.BlogContent, "They compound")
	require.Len(t, sections.KeyQuotes, 3)
	assert.Equal(t, "Consistency beats brilliance.", sections.KeyQuotes[0])
}

func TestParseSectionsTitleOnly(t *testing.T) {
	sections := ParseSections("Some preamble the model added.\nTITLE: Only a Title Came Back\nAnd a trailing remark.")

	assert.True(t, sections.Usable())
	assert.Equal(t, "Only a Title Came Back", sections.Title)
	assert.Empty(t, sections.Summary)
	assert.Empty(t, sections.PodcastScript)
	assert.Empty(t, sections.BlogContent)
	assert.Empty(t, sections.KeyQuotes)
}

func TestParseSectionsMarkdownDecoration(t *testing.T) {
	response := "**TITLE:** Decorated Title\n\n**EXECUTIVE SUMMARY:** A summary wrapped in markdown."

	sections := ParseSections(response)

	assert.Equal(t, "Decorated Title", sections.Title)
	assert.Equal(t, "A summary wrapped in markdown.", sections.Summary)
}

func TestParseSectionsGarbage(t *testing.T) {
	sections := ParseSections("I'm sorry, I can't help with that request.")

	assert.False(t, sections.Usable())
	assert.Empty(t, sections.Title)
	assert.Empty(t, sections.Summary)
}

func TestParseSectionsEmptySectionIsAbsent(t *testing.T) {
	sections := ParseSections("TITLE:\nEXECUTIVE SUMMARY: Real summary text.")

	assert.Empty(t, sections.Title)
	assert.Equal(t, "Real summary text.", sections.Summary)
}

func TestParseSectionsWidthChangingRunes(t *testing.T) {
	// "ȿ" (U+023F) is 2 bytes but its uppercase form is 3; label offsets must
	// survive runes like this appearing before a label.
	sections := ParseSections("ȿȿ\nTITLE: Real Title Here")

	assert.Equal(t, "Real Title Here", sections.Title)

	// A label close to the end of the response must not push slicing past the
	// end of the string.
	sections = ParseSections(strings.Repeat("ȿ", 8) + "TITLE:x")
	assert.Equal(t, "x", sections.Title)

	response := "ȿ TITLE: Unicode Safe\nEXECUTIVE SUMMARY: Body text ȿ intact.\nKEY QUOTES:\n- \"One quote\""
	sections = ParseSections(response)
	assert.Equal(t, "Unicode Safe", sections.Title)
	assert.Equal(t, "Body text ȿ intact.", sections.Summary)
	require.Len(t, sections.KeyQuotes, 1)
}

func TestParseQuotesBulletsAndCap(t *testing.T) {
	block := `1. "First quote"
2) Second quote
- Third quote
• Fourth quote
* Fifth quote
- Sixth quote never makes it`

	quotes := parseQuotes(block)

	require.Len(t, quotes, 5)
	assert.Equal(t, "First quote", quotes[0])
	assert.Equal(t, "Second quote", quotes[1])
	assert.Equal(t, "Fifth quote", quotes[4])
}
