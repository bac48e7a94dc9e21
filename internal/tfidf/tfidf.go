// Package tfidf implements term weighting and extractive analysis over a
// document set: unigram+bigram features, smoothed inverse document
// frequency, and L2-normalized document vectors.
package tfidf

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// maxFeatures caps the learned vocabulary, keeping the most frequent terms
// across the corpus.
const maxFeatures = 1000

var (
	// ErrNotFitted is returned when a query operation runs before Fit.
	ErrNotFitted = errors.New("analyzer not fitted")
	// ErrZeroVector is returned when a similarity operand has zero norm.
	ErrZeroVector = errors.New("document vector has zero norm")
)

var (
	nonAlphaRe = regexp.MustCompile(`[^a-z\s]`)
	sentenceRe = regexp.MustCompile(`[.!?]+(?:\s+|$)`)
)

// TermWeight pairs a vocabulary term with its weight in one document.
type TermWeight struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
}

// Stats holds basic document statistics.
type Stats struct {
	WordCount             int     `json:"word_count"`
	SentenceCount         int     `json:"sentence_count"`
	AverageSentenceLength float64 `json:"average_sentence_length"`
}

// Report is the composite result of Analyze.
type Report struct {
	TopTerms     []TermWeight `json:"top_terms"`
	KeySentences []string     `json:"key_sentences"`
	Stats        Stats        `json:"statistics"`
}

// Analyzer fits a TF-IDF model over a document set and answers term,
// similarity, and key-sentence queries against it.
type Analyzer struct {
	vocab  []string
	index  map[string]int
	idf    []float64
	matrix [][]float64
	fitted bool
}

// New creates an unfitted analyzer.
func New() *Analyzer {
	return &Analyzer{}
}

// Fit learns the vocabulary and IDF weights from documents and computes each
// document's normalized weight vector. It must be called before any query.
func (a *Analyzer) Fit(documents []string) error {
	if len(documents) == 0 {
		return fmt.Errorf("fitting analyzer: no documents")
	}

	tokenized := make([][]string, len(documents))
	for i, doc := range documents {
		tokenized[i] = featurize(preprocess(doc))
	}

	// Document frequency and total frequency per feature.
	df := make(map[string]int)
	total := make(map[string]int)
	for _, tokens := range tokenized {
		seen := make(map[string]struct{})
		for _, t := range tokens {
			total[t]++
			if _, ok := seen[t]; !ok {
				df[t]++
				seen[t] = struct{}{}
			}
		}
	}

	if len(total) == 0 {
		return fmt.Errorf("fitting analyzer: empty vocabulary")
	}

	// Keep the most frequent features up to the cap, then sort the surviving
	// vocabulary for stable feature indices.
	vocab := make([]string, 0, len(total))
	for t := range total {
		vocab = append(vocab, t)
	}
	if len(vocab) > maxFeatures {
		sort.Slice(vocab, func(i, j int) bool {
			if total[vocab[i]] != total[vocab[j]] {
				return total[vocab[i]] > total[vocab[j]]
			}
			return vocab[i] < vocab[j]
		})
		vocab = vocab[:maxFeatures]
	}
	sort.Strings(vocab)

	index := make(map[string]int, len(vocab))
	for i, t := range vocab {
		index[t] = i
	}

	// Smoothed IDF: ln((1+N)/(1+df)) + 1.
	n := float64(len(documents))
	idf := make([]float64, len(vocab))
	for i, t := range vocab {
		idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}

	a.vocab = vocab
	a.index = index
	a.idf = idf
	a.matrix = make([][]float64, len(documents))
	for i, tokens := range tokenized {
		a.matrix[i] = a.vectorize(tokens)
	}
	a.fitted = true
	return nil
}

// TopTerms returns, for each fitted document, up to n (term, weight) pairs
// in descending weight order. Zero-weight terms are omitted.
func (a *Analyzer) TopTerms(n int) ([][]TermWeight, error) {
	if !a.fitted {
		return nil, ErrNotFitted
	}

	result := make([][]TermWeight, len(a.matrix))
	for i, vec := range a.matrix {
		result[i] = a.topTermsOf(vec, n)
	}
	return result, nil
}

// Similarity returns the cosine similarity between two fitted documents.
func (a *Analyzer) Similarity(i, j int) (float64, error) {
	if !a.fitted {
		return 0, ErrNotFitted
	}
	if i < 0 || i >= len(a.matrix) || j < 0 || j >= len(a.matrix) {
		return 0, fmt.Errorf("document index out of range: %d, %d", i, j)
	}

	vi, vj := a.matrix[i], a.matrix[j]
	ni := floats.Norm(vi, 2)
	nj := floats.Norm(vj, 2)
	if ni == 0 || nj == 0 {
		return 0, ErrZeroVector
	}
	if i == j {
		return 1.0, nil
	}
	return floats.Dot(vi, vj) / (ni * nj), nil
}

// KeySentences scores each sentence of document through the fitted
// vocabulary and returns the n highest-scoring sentences, descending by
// score with ties kept in original order.
func (a *Analyzer) KeySentences(document string, n int) ([]string, error) {
	if !a.fitted {
		return nil, ErrNotFitted
	}

	sentences := SplitSentences(document)
	type scored struct {
		sentence string
		score    float64
	}
	items := make([]scored, len(sentences))
	for i, s := range sentences {
		vec := a.vectorize(featurize(preprocess(s)))
		items[i] = scored{sentence: s, score: floats.Sum(vec)}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].score > items[j].score
	})

	if n > len(items) {
		n = len(items)
	}
	result := make([]string, n)
	for i := 0; i < n; i++ {
		result[i] = items[i].sentence
	}
	return result, nil
}

// Analyze returns top terms, key sentences, and basic statistics for a
// single document against the fitted model.
func (a *Analyzer) Analyze(document string) (*Report, error) {
	if !a.fitted {
		return nil, ErrNotFitted
	}

	vec := a.vectorize(featurize(preprocess(document)))
	keySentences, err := a.KeySentences(document, 3)
	if err != nil {
		return nil, err
	}

	wordCount := len(strings.Fields(document))
	sentenceCount := len(SplitSentences(document))
	avg := 0.0
	if sentenceCount > 0 {
		avg = float64(wordCount) / float64(sentenceCount)
	}

	return &Report{
		TopTerms:     a.topTermsOf(vec, 10),
		KeySentences: keySentences,
		Stats: Stats{
			WordCount:             wordCount,
			SentenceCount:         sentenceCount,
			AverageSentenceLength: avg,
		},
	}, nil
}

// vectorize maps features to a raw-count*IDF vector, L2-normalized.
func (a *Analyzer) vectorize(features []string) []float64 {
	vec := make([]float64, len(a.vocab))
	for _, f := range features {
		if i, ok := a.index[f]; ok {
			vec[i] += a.idf[i]
		}
	}
	if norm := floats.Norm(vec, 2); norm > 0 {
		floats.Scale(1/norm, vec)
	}
	return vec
}

func (a *Analyzer) topTermsOf(vec []float64, n int) []TermWeight {
	var terms []TermWeight
	for i, w := range vec {
		if w > 0 {
			terms = append(terms, TermWeight{Term: a.vocab[i], Weight: w})
		}
	}
	sort.SliceStable(terms, func(i, j int) bool {
		return terms[i].Weight > terms[j].Weight
	})
	if n < len(terms) {
		terms = terms[:n]
	}
	return terms
}

// preprocess lowercases, strips non-alphabetic characters, tokenizes, and
// removes stopwords.
func preprocess(text string) []string {
	text = nonAlphaRe.ReplaceAllString(strings.ToLower(text), "")
	var tokens []string
	for _, t := range strings.Fields(text) {
		if !isStopword(t) {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// featurize expands a token stream into unigram and bigram features.
func featurize(tokens []string) []string {
	features := make([]string, 0, len(tokens)*2)
	features = append(features, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		features = append(features, tokens[i]+" "+tokens[i+1])
	}
	return features
}

// SplitSentences splits text on terminal punctuation followed by
// whitespace. Text without terminal punctuation is a single sentence.
func SplitSentences(text string) []string {
	parts := sentenceRe.Split(text, -1)
	var sentences []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}
