package services

import (
	"math"
	"unicode"
)

// vectorizerTerms splits text into maximal runs of word characters (letters,
// digits, underscore) and keeps runs of at least two characters.
func vectorizerTerms(text string) []string {
	var (
		terms []string
		run   []rune
	)
	flush := func() {
		if len(run) >= 2 {
			terms = append(terms, string(run))
		}
		run = run[:0]
	}
	for _, r := range text {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			run = append(run, r)
			continue
		}
		flush()
	}
	flush()
	return terms
}

func termCounts(terms []string) map[string]float64 {
	counts := make(map[string]float64, len(terms))
	for _, t := range terms {
		counts[t]++
	}
	return counts
}

// tfidfCosine fits a TF-IDF space over exactly the two documents (raw counts,
// smoothed idf, L2-normalized rows) and returns their cosine similarity
// clamped to [0,1]. ok is false when either document has no terms.
func tfidfCosine(a, b string) (score float64, ok bool) {
	ta, tb := vectorizerTerms(a), vectorizerTerms(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0, false
	}
	ca, cb := termCounts(ta), termCounts(tb)

	const n = 2.0
	idf := func(term string) float64 {
		df := 0.0
		if _, in := ca[term]; in {
			df++
		}
		if _, in := cb[term]; in {
			df++
		}
		return math.Log((1+n)/(1+df)) + 1
	}

	weigh := func(counts map[string]float64) (map[string]float64, float64) {
		w := make(map[string]float64, len(counts))
		norm := 0.0
		for term, c := range counts {
			v := c * idf(term)
			w[term] = v
			norm += v * v
		}
		return w, math.Sqrt(norm)
	}
	wa, na := weigh(ca)
	wb, nb := weigh(cb)

	dot := 0.0
	for term, va := range wa {
		if vb, in := wb[term]; in {
			dot += va * vb
		}
	}
	score = dot / (na * nb)
	return math.Max(0, math.Min(1, score)), true
}
