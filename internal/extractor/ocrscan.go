package extractor

import (
	"bytes"
	"fmt"
	"strings"
)

// OCRScan is the integration seam for a real OCR service. It performs no
// optical character recognition today: it re-runs the literal-operand scan
// without requiring BT/ET framing, and additionally sweeps stream, annotation
// and font-table regions for short printable-ASCII runs. Swapping this
// strategy for a genuine OCR client changes nothing in the cascade.
type OCRScan struct{}

const ocrMinRun = 6

// Regions whose neighborhood tends to carry stray readable text in scanned
// or generator-mangled files.
var ocrRegionMarkers = [][]byte{
	[]byte("stream"),
	[]byte("/Annots"),
	[]byte("/Contents"),
	[]byte("/FontDescriptor"),
	[]byte("/BaseFont"),
}

const ocrRegionWindow = 2048

func (OCRScan) Name() string { return "ocr_scan" }

func (OCRScan) MinWords() int { return DefaultMinWords }

func (OCRScan) Extract(data []byte) (string, error) {
	var parts []string

	// Relaxed superset of the text-object scan: literal strings anywhere.
	for _, literal := range literalStringRe.FindAllSubmatch(data, -1) {
		s := unescapeLiteral(string(literal[1]))
		if hasLetter(s) {
			parts = append(parts, s)
		}
	}

	for _, marker := range ocrRegionMarkers {
		offset := 0
		for {
			idx := bytes.Index(data[offset:], marker)
			if idx < 0 {
				break
			}
			start := offset + idx + len(marker)
			end := start + ocrRegionWindow
			if end > len(data) {
				end = len(data)
			}

			for _, run := range printableRuns(data[start:end], ocrMinRun) {
				if hasLetter(run) && !isStructuralToken(run) {
					parts = append(parts, run)
				}
			}

			offset = start
			if offset >= len(data) {
				break
			}
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no readable regions found")
	}

	return strings.Join(parts, " "), nil
}

// printableRuns returns maximal runs of printable ASCII at least minRun long.
func printableRuns(data []byte, minRun int) []string {
	var runs []string
	start := -1

	for i, b := range data {
		printable := b >= 0x20 && b <= 0x7e
		if printable && start < 0 {
			start = i
		}
		if !printable && start >= 0 {
			if i-start >= minRun {
				runs = append(runs, string(data[start:i]))
			}
			start = -1
		}
	}

	if start >= 0 && len(data)-start >= minRun {
		runs = append(runs, string(data[start:]))
	}

	return runs
}
