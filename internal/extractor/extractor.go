package extractor

import (
	"strings"
	"unicode"

	"github.com/sessionforge/session-enrichment-api/internal/utils"
)

// DefaultMinWords is the minimum number of alphabetic tokens a strategy must
// yield before its output is considered usable.
const DefaultMinWords = 20

// Strategy attempts to pull human-readable text out of a raw document using
// one heuristic. Strategies are cheap-and-precise first, noisy-and-permissive
// last; the cascade stops at the first one that clears its threshold.
type Strategy interface {
	Name() string
	MinWords() int
	Extract(data []byte) (string, error)
}

// ExtractionResult is transient: created and discarded within one pipeline
// run. Only its text survives, persisted as extracted_text.
type ExtractionResult struct {
	Text     string
	Strategy string
	Words    int
}

type Cascade struct {
	logger *utils.Logger
}

func NewCascade(logger *utils.Logger) *Cascade {
	return &Cascade{logger: logger}
}

// Extract returns the first usable result for the declared MIME type, or nil
// when every strategy yields below threshold.
func (c *Cascade) Extract(data []byte, contentType string) *ExtractionResult {
	return c.Run(c.strategiesFor(contentType), data)
}

// Run tries strategies in order and stops at the first usable result.
func (c *Cascade) Run(strategies []Strategy, data []byte) *ExtractionResult {
	for _, s := range strategies {
		text, err := s.Extract(data)
		if err != nil {
			c.logger.Debug("Extraction strategy failed", "strategy", s.Name(), "error", err)
			continue
		}

		text = Clean(text)
		words := CountAlphaWords(text)
		if words < s.MinWords() {
			c.logger.Debug("Extraction strategy below threshold",
				"strategy", s.Name(), "words", words, "min_words", s.MinWords())
			continue
		}

		c.logger.Info("Extraction strategy succeeded", "strategy", s.Name(), "words", words)
		return &ExtractionResult{Text: text, Strategy: s.Name(), Words: words}
	}

	return nil
}

func (c *Cascade) strategiesFor(contentType string) []Strategy {
	switch {
	case contentType == "application/pdf":
		return []Strategy{NativePDF{}, TextObjectScan{}, OCRScan{}, ASCIIScan{}}
	case IsDOCXContentType(contentType):
		return []Strategy{DOCXScan{}, ASCIIScan{}}
	case IsTextContentType(contentType):
		return []Strategy{PlainText{}}
	default:
		return []Strategy{ASCIIScan{}}
	}
}

// MethodFor names the processing method recorded when extraction succeeds for
// the given MIME type.
func MethodFor(contentType string) string {
	switch {
	case contentType == "application/pdf":
		return "pdf_extraction"
	case IsDOCXContentType(contentType):
		return "docx_extraction"
	case IsTextContentType(contentType):
		return "text_extraction"
	default:
		return "document_extraction"
	}
}

// IsDOCXContentType handles the MIME variations browsers report for DOCX.
func IsDOCXContentType(contentType string) bool {
	docxTypes := []string{
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.openxmlformats-officedocument.wordprocessingml",
		"application/docx",
		"application/x-docx",
	}

	for _, docxType := range docxTypes {
		if contentType == docxType {
			return true
		}
	}

	return false
}

func IsTextContentType(contentType string) bool {
	switch contentType {
	case "text/plain", "text/txt", "application/txt", "application/x-txt", "text/markdown":
		return true
	}
	return strings.HasPrefix(contentType, "text/")
}

// Clean collapses whitespace and strips non-printable characters.
func Clean(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	for _, r := range text {
		switch {
		case r == '\n' || r == '\t' || r == '\r':
			b.WriteRune(' ')
		case unicode.IsPrint(r):
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// CountAlphaWords counts purely alphabetic tokens. Numbers, coordinates and
// operator soup from binary formats do not count toward a strategy's yield.
func CountAlphaWords(text string) int {
	count := 0

	for _, field := range strings.Fields(text) {
		token := strings.TrimFunc(field, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if token == "" {
			continue
		}

		alpha := true
		for _, r := range token {
			if !unicode.IsLetter(r) {
				alpha = false
				break
			}
		}
		if alpha {
			count++
		}
	}

	return count
}
