package tfidf

import (
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
)

// MaxTokenBytes caps a single token's length (spec §4.8 "Tokenization":
// "cap token length at a configured bound (default 40 bytes)").
const MaxTokenBytes = 40

// Tokenize splits text on non-word characters, lowercases, and caps
// each token at MaxTokenBytes. Callers may bypass this with their own
// pre-tokenized term list (spec §4.8: "Caller-provided or built-in").
func Tokenize(text string) []string {
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r))
	})
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.ToLower(tok)
		if len(tok) > MaxTokenBytes {
			tok = tok[:MaxTokenBytes]
		}
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// TermHash returns the 32-bit term hash used to address the radix
// trie (spec §4.8: "Term hash is a 32-bit hash of the token"), the
// low 32 bits of xxhash.Sum64 rather than a hand-rolled hash.
func TermHash(term string) uint32 {
	return uint32(xxhash.Sum64String(term))
}

// SplitHash divides a term hash into the radix trie's storage
// dimension (the lower 16 bits) and the node-local quotient (the
// upper 16 bits), per spec §4.8 "Structure".
func SplitHash(hash uint32) (storageDim uint16, quotient uint16) {
	return uint16(hash & 0xFFFF), uint16(hash >> 16)
}
