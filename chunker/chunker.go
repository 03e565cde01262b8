// Package chunker splits cleaned page text into bounded,
// sentence-respecting segments for embedding.
package chunker

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Split divides text into ordered chunks of at most maxChars characters,
// counted in runes, never splitting inside a sentence. Sentences accumulate greedily until
// adding the next one would exceed the bound; that sentence then starts
// the next chunk. The final partial accumulation is always flushed.
//
// Deterministic: the same text and size always yield the same sequence.
// Joining the chunks with single spaces reproduces the normalized text.
func Split(text string, maxChars int) []string {
	text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
	if text == "" {
		return nil
	}
	if maxChars <= 0 {
		return []string{text}
	}

	sentences := splitSentences(text)

	var chunks []string
	var current []string
	currentLen := 0

	for _, sentence := range sentences {
		// Lengths are in runes, so multibyte text packs as densely as
		// ASCII.
		runes := utf8.RuneCountInString(sentence)
		add := runes
		if currentLen > 0 {
			add++ // joining space
		}

		if currentLen+add > maxChars && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			current = []string{sentence}
			currentLen = runes
			continue
		}

		current = append(current, sentence)
		currentLen += add
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}

// splitSentences splits whitespace-normalized text at punctuation
// boundaries: '.', '!' or '?' followed by a space. A sentence longer
// than any chunk bound is still kept whole.
func splitSentences(text string) []string {
	var sentences []string
	start := 0

	for i := 0; i < len(text)-1; i++ {
		c := text[i]
		if (c == '.' || c == '!' || c == '?') && text[i+1] == ' ' {
			sentences = append(sentences, text[start:i+1])
			start = i + 2
			i++ // skip the boundary space
		}
	}

	if start < len(text) {
		sentences = append(sentences, text[start:])
	}
	return sentences
}
