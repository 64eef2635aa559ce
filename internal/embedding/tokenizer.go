package embedding

import (
	"hash/fnv"
	"strings"
)

// Tokenizer produces the three BERT-style input sequences (input_ids,
// attention_mask, token_type_ids) for a sentence-embedding model.
type Tokenizer interface {
	Tokenize(text string, maxTokens int) (inputIDs, attentionMask, tokenTypeIDs []int64)
}

const (
	clsTokenID = 101
	sepTokenID = 102
	// vocabSize bounds the hashed token IDs to a BERT-base sized vocabulary.
	vocabSize = 30000
)

// SimpleTokenizer hashes whitespace-split words into token IDs. It is not a
// real wordpiece tokenizer; it exists so the embedder can run against models
// exported with their tokenization folded in, and as the test tokenizer.
type SimpleTokenizer struct{}

// Tokenize lowercases and splits text, then emits padded sequences of length
// maxTokens with [CLS] and [SEP] framing. Feedback posts longer than the
// window are cut at maxTokens-2 words.
func (t *SimpleTokenizer) Tokenize(text string, maxTokens int) (inputIDs, attentionMask, tokenTypeIDs []int64) {
	if maxTokens <= 0 {
		maxTokens = 256
	}
	inputIDs = make([]int64, maxTokens)
	attentionMask = make([]int64, maxTokens)
	tokenTypeIDs = make([]int64, maxTokens)

	inputIDs[0] = clsTokenID
	attentionMask[0] = 1

	pos := 1
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if pos >= maxTokens-1 {
			break
		}
		inputIDs[pos] = int64(TokenID(word))
		attentionMask[pos] = 1
		pos++
	}
	if pos < maxTokens {
		inputIDs[pos] = sepTokenID
		attentionMask[pos] = 1
	}
	return inputIDs, attentionMask, tokenTypeIDs
}

// TokenID maps a word to a stable pseudo-vocabulary ID.
func TokenID(word string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(word))
	return h.Sum32() % vocabSize
}
