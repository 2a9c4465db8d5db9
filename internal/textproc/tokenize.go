package textproc

import (
	"strings"
	"unicode"

	"github.com/blevesearch/segment"
)

// Punctuation is the ASCII punctuation set; single-character tokens from it are never kept.
const Punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Tokenize splits text into word units using Unicode word boundaries.
// Clitics are split off the way the Penn Treebank tokenizer does it:
// "don't" becomes "do" and "n't", "john's" becomes "john" and "'s".
// Whitespace segments are discarded; punctuation segments are kept.
func Tokenize(text string) []string {
	var tokens []string
	consumed := 0

	seg := segment.NewWordSegmenter(strings.NewReader(text))
	for seg.Segment() {
		word := string(seg.Bytes())
		consumed += len(seg.Bytes())
		if strings.TrimSpace(word) == "" {
			continue
		}
		tokens = append(tokens, splitClitic(word)...)
	}

	// The segmenter gives up on pathologically long segments; whatever is
	// left is split on whitespace so no input is silently lost.
	if seg.Err() != nil && consumed < len(text) {
		tokens = append(tokens, strings.Fields(text[consumed:])...)
	}
	return tokens
}

func splitClitic(word string) []string {
	for _, neg := range []string{"n't", "n’t"} {
		if strings.HasSuffix(word, neg) && len(word) > len(neg) {
			return []string{word[:len(word)-len(neg)], neg}
		}
	}

	i := strings.IndexAny(word, "'’")
	if i <= 0 {
		return []string{word}
	}
	return []string{word[:i], word[i:]}
}

// IsAlnum reports whether s is non-empty and made only of letters and digits.
func IsAlnum(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			return false
		}
	}
	return true
}

func isPunctuation(s string) bool {
	return len(s) == 1 && strings.Contains(Punctuation, s)
}
