package enrich

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackTitle(t *testing.T) {
	t.Run("known title wins", func(t *testing.T) {
		got := FallbackTitle("Network_Effects_Strategy.pdf", "first line of content")
		assert.Equal(t, "Network Effects Strategy", got)
	})

	t.Run("first line of content", func(t *testing.T) {
		got := FallbackTitle("", "\n\nThe Actual First Line\nsecond line")
		assert.Equal(t, "The Actual First Line", got)
	})

	t.Run("truncated to 100 characters", func(t *testing.T) {
		long := strings.Repeat("abcde ", 40)
		got := FallbackTitle("", long)
		assert.LessOrEqual(t, len([]rune(got)), 100)
	})

	t.Run("empty everything", func(t *testing.T) {
		assert.Equal(t, defaultTitle, FallbackTitle("", ""))
	})
}

func TestFallbackSummaryShortContentVerbatim(t *testing.T) {
	content := "Fifty words of raw session notes. " + strings.Repeat("word ", 40)
	content = strings.TrimSpace(content)

	assert.Equal(t, content, FallbackSummary(content))
}

func TestFallbackSummaryLongContentFirstThreeSentences(t *testing.T) {
	long := "First sentence here. Second sentence follows! Third one asks a question? Fourth sentence must not appear. " +
		strings.Repeat("filler word padding ", 100)

	got := FallbackSummary(long)

	assert.Contains(t, got, "First sentence here.")
	assert.Contains(t, got, "Second sentence follows!")
	assert.Contains(t, got, "Third one asks a question?")
	assert.NotContains(t, got, "Fourth sentence")
}

func TestPodcastScriptEmbedsTitleAndSummary(t *testing.T) {
	script := PodcastScript("Platform_Strategy_Deck.pdf", "Networks compound value.")

	assert.Contains(t, script, "Platform Strategy Deck")
	assert.Contains(t, script, "Networks compound value.")
	assert.NotContains(t, script, "_", "spoken text must not contain file-derived tokens")
	assert.NotContains(t, script, ".pdf")

	words := len(strings.Fields(script))
	assert.Greater(t, words, 350, "script should be a substantial narration")
	assert.Less(t, words, 600)
}

func TestSocialTemplates(t *testing.T) {
	linkedin := LinkedInPost("Growth Review", "Retention drives growth.")
	twitter := TwitterThread("Growth Review", "Retention drives growth.")
	blog := BlogContent("Growth Review", "Retention drives growth.")

	assert.Contains(t, linkedin, "Growth Review")
	assert.Contains(t, linkedin, "#")
	assert.Contains(t, twitter, "1/")
	assert.Contains(t, blog, "# Growth Review")
	assert.Contains(t, blog, "## ")
}

func TestKeyQuotesCount(t *testing.T) {
	quotes := KeyQuotes("Any Session", "Any summary")

	require.GreaterOrEqual(t, len(quotes), 3)
	require.LessOrEqual(t, len(quotes), 5)
	for _, q := range quotes {
		assert.NotEmpty(t, q)
	}
}

func TestTemplatesAreDeterministic(t *testing.T) {
	a := PodcastScript("Title", "Summary.")
	b := PodcastScript("Title", "Summary.")
	assert.Equal(t, a, b)

	assert.Equal(t, BlogContent("T", "S"), BlogContent("T", "S"))
	assert.Equal(t, KeyQuotes("T", "S"), KeyQuotes("T", "S"))
}

func TestSynthesizeFromFilename(t *testing.T) {
	tests := []struct {
		filename  string
		wantTitle string
	}{
		{"Network_Effects_Strategy.pdf", "Network Effects and Platform Strategy"},
		{"leading-teams-workshop.docx", "Leading Teams Through Change"},
		{"AI_Transformation_Roadmap.pdf", "AI and Digital Transformation in Practice"},
		{"zzzz_unmatchable_qqqq.pdf", "Business Strategy Session"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			title, body := SynthesizeFromFilename(tt.filename)
			assert.Equal(t, tt.wantTitle, title)
			assert.NotEmpty(t, body)
		})
	}
}
