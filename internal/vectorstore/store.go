// Package vectorstore finds templates that say nearly the same thing, using
// TF-IDF vectors compared by cosine similarity.
package vectorstore

import (
	"fmt"
	"sort"
)

// DefaultDimensions bounds the vocabulary of a store
const DefaultDimensions = 512

// DefaultThreshold is the cosine similarity at which two texts count as similar
const DefaultThreshold = 0.75

// Entry is one indexed text
type Entry struct {
	Text   string
	Vector []float32
}

// Pair is two distinct texts whose similarity reached the threshold
type Pair struct {
	A     string  `json:"a"`
	B     string  `json:"b"`
	Score float32 `json:"score"`
}

// Store holds the vectors of a fixed set of texts
type Store struct {
	entries []Entry
}

// Build vectorizes texts into a new store
func Build(texts []string, dimensions int) (*Store, error) {
	vectorizer := NewTFIDFVectorizer(dimensions)
	vectors, err := vectorizer.FitTransform(texts)
	if err != nil {
		return nil, fmt.Errorf("failed to build vector store: %w", err)
	}

	entries := make([]Entry, len(texts))
	for i, text := range texts {
		entries[i] = Entry{Text: text, Vector: vectors[i]}
	}
	return &Store{entries: entries}, nil
}

// Len returns the number of indexed texts
func (s *Store) Len() int {
	return len(s.entries)
}

// SimilarPairs returns every pair of distinct texts scoring at least
// threshold, highest score first. Identical texts are skipped.
func (s *Store) SimilarPairs(threshold float32) []Pair {
	var pairs []Pair
	for i := 0; i < len(s.entries); i++ {
		for j := i + 1; j < len(s.entries); j++ {
			a, b := s.entries[i], s.entries[j]
			if a.Text == b.Text {
				continue
			}
			score := CosineSimilarity(a.Vector, b.Vector)
			if score >= threshold {
				pairs = append(pairs, Pair{A: a.Text, B: b.Text, Score: score})
			}
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Score > pairs[j].Score
	})
	return pairs
}
