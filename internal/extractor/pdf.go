package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// NativePDF parses the PDF with a real reader. Cheapest and most precise for
// text-native documents; scanned or malformed files fall through to the
// pattern-scanning strategies behind it.
type NativePDF struct{}

func (NativePDF) Name() string { return "pdf_native" }

func (NativePDF) MinWords() int { return DefaultMinWords }

func (NativePDF) Extract(data []byte) (text string, err error) {
	// The reader panics on some malformed cross-reference tables; a broken
	// file must fall through to the next strategy, not kill the run.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	reader := bytes.NewReader(data)

	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to create PDF reader: %w", err)
	}

	var textBuilder strings.Builder
	numPages := pdfReader.NumPage()

	for i := 1; i <= numPages; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// Log-free skip: a single bad page should not sink the rest
			continue
		}

		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n")
	}

	extracted := strings.TrimSpace(textBuilder.String())
	if extracted == "" {
		return "", fmt.Errorf("no text could be extracted from PDF")
	}

	return extracted, nil
}
