package extractor

import (
	"fmt"
	"regexp"
	"strings"
)

// ASCIIScan is the last, most permissive strategy: sweep the entire byte
// stream for longer printable runs, throw away structural document keywords,
// and pick up anything sitting behind common prose labels. Noisy, but a
// garbage-in document that still carries readable fragments ends here.
type ASCIIScan struct{}

const asciiMinRun = 8

var labeledRegionRe = regexp.MustCompile(`(?i)(?:Title|Abstract|Summary|Introduction|Conclusion):[ \t]*([ -~]{4,400})`)

var structuralTokens = map[string]bool{
	"obj": true, "endobj": true,
	"stream": true, "endstream": true,
	"xref": true, "startxref": true, "trailer": true,
	"BT": true, "ET": true, "Tj": true, "TJ": true, "Td": true, "TD": true,
	"Tf": true, "Tm": true, "Tc": true, "Tw": true,
	"re": true, "cm": true, "gs": true,
}

func (ASCIIScan) Name() string { return "ascii_scan" }

func (ASCIIScan) MinWords() int { return DefaultMinWords }

func (ASCIIScan) Extract(data []byte) (string, error) {
	var parts []string

	for _, run := range printableRuns(data, asciiMinRun) {
		kept := filterStructural(run)
		if kept != "" && hasLetter(kept) {
			parts = append(parts, kept)
		}
	}

	// Targeted pass: regions following prose labels are high-value even when
	// the surrounding stream is noise.
	for _, match := range labeledRegionRe.FindAllSubmatch(data, -1) {
		region := strings.TrimSpace(string(match[1]))
		if region != "" {
			parts = append(parts, region)
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no printable content found")
	}

	return strings.Join(parts, " "), nil
}

// filterStructural drops document-format keywords and name tokens from a run.
func filterStructural(run string) string {
	var kept []string

	for _, token := range strings.Fields(run) {
		if structuralTokens[token] || strings.HasPrefix(token, "/") ||
			strings.HasPrefix(token, "<<") || strings.HasPrefix(token, ">>") {
			continue
		}
		kept = append(kept, token)
	}

	return strings.Join(kept, " ")
}

func isStructuralToken(s string) bool {
	return structuralTokens[strings.TrimSpace(s)]
}
