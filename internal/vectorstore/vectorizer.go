package vectorstore

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode"
)

var (
	separatorPattern = regexp.MustCompile(`[^\p{L}\p{N}]+`)
	numberPattern    = regexp.MustCompile(`^\d+$`)
)

// TFIDFVectorizer implements text vectorization using TF-IDF
type TFIDFVectorizer struct {
	mu            sync.RWMutex
	dimensions    int
	vocabulary    map[string]int
	idf           []float32
	documentCount int
	fitted        bool
	minWordLength int
	maxWordLength int
}

// NewTFIDFVectorizer creates a new TF-IDF vectorizer with specified dimensions
func NewTFIDFVectorizer(dimensions int) *TFIDFVectorizer {
	return &TFIDFVectorizer{
		dimensions:    dimensions,
		vocabulary:    make(map[string]int),
		minWordLength: 2,
		maxWordLength: 50,
	}
}

// Dimension returns the vector dimension
func (v *TFIDFVectorizer) Dimension() int {
	return v.dimensions
}

// Fit trains the vectorizer on a corpus of documents
func (v *TFIDFVectorizer) Fit(documents []string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if len(documents) == 0 {
		return fmt.Errorf("cannot fit on empty document corpus")
	}

	v.vocabulary = make(map[string]int)
	v.idf = nil
	v.documentCount = len(documents)
	v.fitted = false

	wordDocCounts := make(map[string]int)
	for _, doc := range documents {
		uniqueWords := make(map[string]bool)
		for _, word := range v.tokenize(doc) {
			uniqueWords[word] = true
		}
		for word := range uniqueWords {
			wordDocCounts[word]++
		}
	}

	type wordFreq struct {
		word  string
		count int
	}

	wordFreqs := make([]wordFreq, 0, len(wordDocCounts))
	for word, count := range wordDocCounts {
		wordFreqs = append(wordFreqs, wordFreq{word: word, count: count})
	}

	// Most common first; ties by word so the vocabulary is deterministic
	sort.Slice(wordFreqs, func(i, j int) bool {
		if wordFreqs[i].count != wordFreqs[j].count {
			return wordFreqs[i].count > wordFreqs[j].count
		}
		return wordFreqs[i].word < wordFreqs[j].word
	})

	vocabSize := min(v.dimensions, len(wordFreqs))
	for i := 0; i < vocabSize; i++ {
		v.vocabulary[wordFreqs[i].word] = i
	}

	// Smoothed IDF keeps terms shared by every document above zero
	v.idf = make([]float32, len(v.vocabulary))
	for word, index := range v.vocabulary {
		docCount := wordDocCounts[word]
		v.idf[index] = float32(math.Log(float64(1+v.documentCount)/float64(1+docCount)) + 1)
	}

	v.fitted = true
	return nil
}

// FitTransform fits the vectorizer and transforms the documents
func (v *TFIDFVectorizer) FitTransform(documents []string) ([][]float32, error) {
	if err := v.Fit(documents); err != nil {
		return nil, err
	}

	vectors := make([][]float32, len(documents))
	for i, doc := range documents {
		vector, err := v.Vectorize(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to vectorize document %d: %w", i, err)
		}
		vectors[i] = vector
	}

	return vectors, nil
}

// Vectorize converts text to a TF-IDF vector
func (v *TFIDFVectorizer) Vectorize(text string) ([]float32, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if !v.fitted {
		return nil, fmt.Errorf("vectorizer must be fitted before vectorizing")
	}

	vector := make([]float32, v.dimensions)

	wordCounts := make(map[string]int)
	totalWords := 0
	for _, word := range v.tokenize(text) {
		wordCounts[word]++
		totalWords++
	}

	if totalWords == 0 {
		return vector, nil
	}

	for word, count := range wordCounts {
		if index, exists := v.vocabulary[word]; exists {
			tf := float32(count) / float32(totalWords)
			vector[index] = tf * v.idf[index]
		}
	}

	return vector, nil
}

// tokenize splits text into terms. Runs of Han, Hiragana or Katakana have
// no spaces between words, so they contribute character bigrams instead.
func (v *TFIDFVectorizer) tokenize(text string) []string {
	text = strings.ToLower(text)
	text = separatorPattern.ReplaceAllString(text, " ")

	var terms []string
	for _, word := range strings.Fields(text) {
		if isCJK(word) {
			terms = append(terms, bigrams(word)...)
			continue
		}
		if v.isValidWord(word) {
			terms = append(terms, word)
		}
	}
	return terms
}

// isValidWord checks if a word should be included in the vocabulary
func (v *TFIDFVectorizer) isValidWord(word string) bool {
	n := len([]rune(word))
	if n < v.minWordLength || n > v.maxWordLength {
		return false
	}
	return !numberPattern.MatchString(word)
}

func isCJK(word string) bool {
	for _, r := range word {
		if unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana) {
			return true
		}
	}
	return false
}

func bigrams(word string) []string {
	runes := []rune(word)
	if len(runes) < 2 {
		return []string{word}
	}
	grams := make([]string, 0, len(runes)-1)
	for i := 0; i+1 < len(runes); i++ {
		grams = append(grams, string(runes[i:i+2]))
	}
	return grams
}

// GetVocabularySize returns the current vocabulary size
func (v *TFIDFVectorizer) GetVocabularySize() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.vocabulary)
}

// IsFitted returns whether the vectorizer has been fitted
func (v *TFIDFVectorizer) IsFitted() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.fitted
}
