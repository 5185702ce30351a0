package enrich

import (
	"sort"
	"strings"
)

// Labels the provider is instructed to emit. Parsing is label -> text until
// the next recognized label.
const (
	labelTitle    = "TITLE:"
	labelSummary  = "EXECUTIVE SUMMARY:"
	labelPodcast  = "PODCAST SCRIPT:"
	labelLinkedIn = "LINKEDIN POST:"
	labelTwitter  = "TWITTER THREAD:"
	labelBlog     = "BLOG CONTENT:"
	labelQuotes   = "KEY QUOTES:"
)

var sectionLabels = []string{
	labelTitle,
	labelSummary,
	labelPodcast,
	labelLinkedIn,
	labelTwitter,
	labelBlog,
	labelQuotes,
}

// Sections holds whatever the provider managed to emit. A missing or mangled
// label leaves its field empty; the fallback layer fills the gaps.
type Sections struct {
	Title         string
	Summary       string
	PodcastScript string
	LinkedInPost  string
	TwitterThread string
	BlogContent   string
	KeyQuotes     []string
}

// Usable reports whether the response recovered enough structure to count as
// an AI-enhanced result.
func (s Sections) Usable() bool {
	return s.Title != "" || s.Summary != "" || s.PodcastScript != ""
}

type labelPos struct {
	label string
	start int
	end   int
}

// ParseSections locates each known label and captures the text up to the next
// recognized label. Pure function: garbage in means absent fields out, never
// an error.
func ParseSections(response string) Sections {
	upper := asciiUpper(response)

	var found []labelPos
	for _, label := range sectionLabels {
		idx := strings.Index(upper, label)
		if idx < 0 {
			continue
		}
		found = append(found, labelPos{label: label, start: idx, end: idx + len(label)})
	}

	sort.Slice(found, func(i, j int) bool { return found[i].start < found[j].start })

	var sections Sections
	for i, pos := range found {
		end := len(response)
		if i+1 < len(found) {
			end = found[i+1].start
		}

		value := cleanSectionValue(response[pos.end:end])
		if value == "" {
			continue
		}

		switch pos.label {
		case labelTitle:
			sections.Title = firstLine(value)
		case labelSummary:
			sections.Summary = value
		case labelPodcast:
			sections.PodcastScript = value
		case labelLinkedIn:
			sections.LinkedInPost = value
		case labelTwitter:
			sections.TwitterThread = value
		case labelBlog:
			sections.BlogContent = value
		case labelQuotes:
			sections.KeyQuotes = parseQuotes(value)
		}
	}

	return sections
}

// asciiUpper upcases ASCII letters only. The labels are pure ASCII, and
// unlike strings.ToUpper this never changes byte length, so offsets found in
// the copy stay valid in the original even when the response carries
// multibyte runes whose uppercase form is a different width.
func asciiUpper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'a' <= c && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}

// cleanSectionValue strips the markdown decoration models habitually wrap
// around section bodies.
func cleanSectionValue(raw string) string {
	value := strings.TrimSpace(raw)
	value = strings.Trim(value, "*#")
	return strings.TrimSpace(value)
}

func firstLine(value string) string {
	if idx := strings.IndexByte(value, '\n'); idx >= 0 {
		value = value[:idx]
	}
	return strings.TrimSpace(value)
}

// parseQuotes splits a quotes block into individual pull-quotes, dropping
// bullets, numbering and wrapping quote marks. Capped at five.
func parseQuotes(block string) []string {
	var quotes []string

	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-•*0123456789.) \t")
		line = strings.Trim(line, `"“”'`)
		line = strings.TrimSpace(line)

		if line == "" {
			continue
		}
		quotes = append(quotes, line)
		if len(quotes) == 5 {
			break
		}
	}

	return quotes
}
