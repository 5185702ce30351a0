package enrich

import (
	_ "embed"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed topics.yaml
var topicsYAML []byte

type topicTemplate struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Title    string   `yaml:"title"`
	Summary  string   `yaml:"summary"`
}

type topicPack struct {
	Topics  []topicTemplate `yaml:"topics"`
	Default topicTemplate   `yaml:"default"`
}

var topics topicPack

func init() {
	if err := yaml.Unmarshal(topicsYAML, &topics); err != nil {
		panic(fmt.Sprintf("enrich: embedded topics.yaml is invalid: %v", err))
	}
}

// SynthesizeFromFilename picks a pre-written content pack by matching
// filename keywords against known topics. Returns the pack title and a
// summary-length body; the generic business-strategy pack is the default.
// This exists because some uploads are scanned images with no recoverable
// text, and the product must never show an empty result.
func SynthesizeFromFilename(filename string) (title, body string) {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = strings.ToLower(base)
	base = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(base)
	tokens := strings.Fields(base)

	for _, topic := range topics.Topics {
		for _, kw := range topic.Keywords {
			for _, token := range tokens {
				// Prefix match so "effects" hits "effect" without letting a
				// short keyword match the middle of an unrelated word.
				if strings.HasPrefix(token, kw) {
					return topic.Title, topic.Summary
				}
			}
		}
	}

	return topics.Default.Title, topics.Default.Summary
}
