package extractor

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// TextObjectScan walks the document's text-drawing operators directly: BT/ET
// blocks containing literal string operands. Precise for text-native PDFs,
// blind to anything drawn from embedded fonts or images.
type TextObjectScan struct{}

var (
	textBlockRe     = regexp.MustCompile(`(?s)BT(.*?)ET`)
	literalStringRe = regexp.MustCompile(`\(((?:\\.|[^()\\])*)\)`)
)

func (TextObjectScan) Name() string { return "pdf_text_objects" }

func (TextObjectScan) MinWords() int { return DefaultMinWords }

func (TextObjectScan) Extract(data []byte) (string, error) {
	blocks := textBlockRe.FindAllSubmatch(data, -1)
	if len(blocks) == 0 {
		return "", fmt.Errorf("no text objects found")
	}

	var parts []string
	for _, block := range blocks {
		for _, literal := range literalStringRe.FindAllSubmatch(block[1], -1) {
			s := unescapeLiteral(string(literal[1]))
			if hasLetter(s) {
				parts = append(parts, s)
			}
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("text objects contained no readable operands")
	}

	return strings.Join(parts, " "), nil
}

// unescapeLiteral resolves the escape sequences PDF literal strings allow.
func unescapeLiteral(s string) string {
	replacer := strings.NewReplacer(
		`\(`, "(",
		`\)`, ")",
		`\\`, `\`,
		`\n`, " ",
		`\r`, " ",
		`\t`, " ",
	)
	return replacer.Replace(s)
}

// hasLetter reports whether the operand is worth keeping: purely
// numeric/punctuation operands are positioning noise, not content.
func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
