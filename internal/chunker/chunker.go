// Package chunker splits documents into word-budgeted segments so each
// segment fits a generative model's input window.
package chunker

import "strings"

// DefaultMaxWords approximates the 1024-token input budget of the common
// summarization models.
const DefaultMaxWords = 1024

// sentenceMargin is the per-sentence estimate overhead covering the
// delimiter punctuation restored on rejoin.
const sentenceMargin = 2

// Split breaks text into chunks whose estimated word length stays at or
// under maxWords, preferring sentence boundaries. A sentence longer than the
// budget becomes a chunk of its own. The returned slice is never empty for
// non-empty input.
func Split(text string, maxWords int) []string {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}

	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return []string{text}
	}

	var chunks []string
	var current []string
	currentLen := 0

	for _, sentence := range sentences {
		estimate := len(strings.Fields(sentence)) + sentenceMargin
		if currentLen+estimate > maxWords && len(current) > 0 {
			chunks = append(chunks, joinSentences(current))
			current = nil
			currentLen = 0
		}
		current = append(current, sentence)
		currentLen += estimate
	}

	if len(current) > 0 {
		chunks = append(chunks, joinSentences(current))
	}

	return chunks
}

// splitSentences splits on the period-plus-space delimiter. Text without the
// delimiter is treated as a single sentence.
func splitSentences(text string) []string {
	parts := strings.Split(text, ". ")
	var sentences []string
	for _, p := range parts {
		p = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(p), "."))
		if p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

func joinSentences(sentences []string) string {
	return strings.Join(sentences, ". ") + "."
}
