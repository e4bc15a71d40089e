package usecase

import (
	"log"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/mitra/backend/internal/domain"
)

// Package-level compiled regex pattern for tokenization: words of at least
// two alphanumeric characters, matching the usual vectorizer token rule.
var termRegex = regexp.MustCompile(`[a-z0-9]{2,}`)

const defaultMaxFeatures = 5000

// englishStopWords are excluded from the TF-IDF vocabulary
var englishStopWords = map[string]bool{
	"about": true, "above": true, "after": true, "again": true, "against": true,
	"all": true, "also": true, "am": true, "an": true, "and": true,
	"any": true, "are": true, "as": true, "at": true, "be": true,
	"because": true, "been": true, "before": true, "being": true, "below": true,
	"between": true, "both": true, "but": true, "by": true, "can": true,
	"cannot": true, "could": true, "did": true, "do": true, "does": true,
	"doing": true, "down": true, "during": true, "each": true, "few": true,
	"for": true, "from": true, "further": true, "had": true, "has": true,
	"have": true, "having": true, "he": true, "her": true, "here": true,
	"hers": true, "him": true, "his": true, "how": true, "if": true,
	"in": true, "into": true, "is": true, "it": true, "its": true,
	"itself": true, "just": true, "me": true, "more": true, "most": true,
	"my": true, "myself": true, "no": true, "nor": true, "not": true,
	"now": true, "of": true, "off": true, "on": true, "once": true,
	"only": true, "or": true, "other": true, "our": true, "ours": true,
	"out": true, "over": true, "own": true, "same": true, "she": true,
	"should": true, "so": true, "some": true, "such": true, "than": true,
	"that": true, "the": true, "their": true, "theirs": true, "them": true,
	"themselves": true, "then": true, "there": true, "these": true, "they": true,
	"this": true, "those": true, "through": true, "to": true, "too": true,
	"under": true, "until": true, "up": true, "very": true, "was": true,
	"we": true, "were": true, "what": true, "when": true, "where": true,
	"which": true, "while": true, "who": true, "whom": true, "why": true,
	"will": true, "with": true, "would": true, "you": true, "your": true,
	"yours": true, "yourself": true, "yourselves": true,
}

// sparseVector maps vocabulary term index to L2-normalized TF-IDF weight
type sparseVector map[int]float64

// indexSnapshot is one complete, immutable fit of the vocabulary space.
// Readers always see either the previous snapshot or the new one, never a
// partially-rebuilt index.
type indexSnapshot struct {
	vocabulary     map[string]int
	idf            []float64
	productVectors []sparseVector
	byProductID    map[int64]int
}

// SimilarityConfig holds configuration for the similarity index
type SimilarityConfig struct {
	MaxFeatures        int
	EnableDebugLogging bool
}

// SimilarityIndex is a TF-IDF vector space over the product catalog. Fitting
// is a single-writer operation; lookups are lock-free reads of the current
// snapshot and are safe for unlimited concurrent readers.
type SimilarityIndex struct {
	maxFeatures int
	debug       bool

	fitMu    sync.Mutex
	snapshot atomic.Pointer[indexSnapshot]
}

// NewSimilarityIndex creates an unfitted similarity index
func NewSimilarityIndex(config SimilarityConfig) *SimilarityIndex {
	maxFeatures := config.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = defaultMaxFeatures
	}

	return &SimilarityIndex{
		maxFeatures: maxFeatures,
		debug:       config.EnableDebugLogging,
	}
}

// ProductDescription builds the corpus document for one product:
// name + brand + category + tags.
func ProductDescription(p domain.Product) string {
	return p.Name + " " + p.Brand + " " + p.Category + " " + strings.Join(p.Tags, " ")
}

// Fit builds the TF-IDF vocabulary and the per-product vectors from the
// catalog, then swaps the snapshot atomically. Must be re-run whenever the
// catalog changes.
func (x *SimilarityIndex) Fit(products []domain.Product) {
	x.fitMu.Lock()
	defer x.fitMu.Unlock()

	docs := make([][]string, len(products))
	for i, p := range products {
		docs[i] = ngramTerms(ProductDescription(p))
	}

	// Document frequency and total frequency per term
	df := make(map[string]int)
	tf := make(map[string]int)
	for _, terms := range docs {
		seen := make(map[string]bool)
		for _, term := range terms {
			tf[term]++
			if !seen[term] {
				df[term]++
				seen[term] = true
			}
		}
	}

	vocabulary := buildVocabulary(tf, x.maxFeatures)

	// Smoothed inverse document frequency
	n := float64(len(docs))
	idf := make([]float64, len(vocabulary))
	for term, idx := range vocabulary {
		idf[idx] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	snap := &indexSnapshot{
		vocabulary:  vocabulary,
		idf:         idf,
		byProductID: make(map[int64]int, len(products)),
	}

	snap.productVectors = make([]sparseVector, len(docs))
	for i, terms := range docs {
		snap.productVectors[i] = embedTerms(snap, terms)
	}
	for i, p := range products {
		snap.byProductID[p.ID] = i
	}

	x.snapshot.Store(snap)

	if x.debug {
		log.Printf("[TFIDF] Fitted %d products, vocabulary size %d", len(products), len(vocabulary))
	}
}

// Fitted reports whether the index has been fit at least once
func (x *SimilarityIndex) Fitted() bool {
	return x.snapshot.Load() != nil
}

// Similarity re-embeds both strings into the fitted vocabulary space and
// returns their cosine similarity in [0,1]. Returns 0.0 when the index is
// unfitted, either string is empty, or no vocabulary terms are shared.
func (x *SimilarityIndex) Similarity(textA, textB string) float64 {
	snap := x.snapshot.Load()
	if snap == nil {
		return 0.0
	}

	va := embedTerms(snap, ngramTerms(textA))
	vb := embedTerms(snap, ngramTerms(textB))
	return dot(va, vb)
}

// SimilarityToProduct returns cosine similarity between a query and the
// precomputed vector of the given product, avoiding re-embedding the product
// side. Returns 0.0 when the index is unfitted or the product is unknown.
func (x *SimilarityIndex) SimilarityToProduct(query string, productID int64) float64 {
	snap := x.snapshot.Load()
	if snap == nil {
		return 0.0
	}

	idx, ok := snap.byProductID[productID]
	if !ok {
		return 0.0
	}

	qv := embedTerms(snap, ngramTerms(query))
	return dot(qv, snap.productVectors[idx])
}

// ngramTerms tokenizes text into lowercase unigrams and bigrams with English
// stop words removed
func ngramTerms(text string) []string {
	words := termRegex.FindAllString(strings.ToLower(text), -1)

	var tokens []string
	for _, w := range words {
		if englishStopWords[w] {
			continue
		}
		tokens = append(tokens, w)
	}

	terms := make([]string, 0, 2*len(tokens))
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}
	return terms
}

// buildVocabulary selects up to maxFeatures terms, keeping the most frequent
// across the corpus; ties break alphabetically for determinism
func buildVocabulary(tf map[string]int, maxFeatures int) map[string]int {
	terms := make([]string, 0, len(tf))
	for term := range tf {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if tf[terms[i]] != tf[terms[j]] {
			return tf[terms[i]] > tf[terms[j]]
		}
		return terms[i] < terms[j]
	})

	if len(terms) > maxFeatures {
		terms = terms[:maxFeatures]
	}

	vocabulary := make(map[string]int, len(terms))
	for i, term := range terms {
		vocabulary[term] = i
	}
	return vocabulary
}

// embedTerms builds the L2-normalized TF-IDF vector for a term sequence
func embedTerms(snap *indexSnapshot, terms []string) sparseVector {
	counts := make(map[int]float64)
	for _, term := range terms {
		if idx, ok := snap.vocabulary[term]; ok {
			counts[idx]++
		}
	}
	if len(counts) == 0 {
		return nil
	}

	var norm float64
	vec := make(sparseVector, len(counts))
	for idx, count := range counts {
		w := count * snap.idf[idx]
		vec[idx] = w
		norm += w * w
	}

	norm = math.Sqrt(norm)
	for idx := range vec {
		vec[idx] /= norm
	}
	return vec
}

// dot computes the dot product of two normalized sparse vectors, which is
// their cosine similarity
func dot(a, b sparseVector) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	if len(b) < len(a) {
		a, b = b, a
	}

	var sum float64
	for idx, wa := range a {
		if wb, ok := b[idx]; ok {
			sum += wa * wb
		}
	}

	// Guard against floating point drift past 1.0
	if sum > 1.0 {
		sum = 1.0
	}
	return sum
}
