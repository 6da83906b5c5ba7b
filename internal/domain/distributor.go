package domain

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

const (
	keywordWeight         = 0.3
	retrievalWeight       = 0.7
	defaultRetrievalScore = 0.5
)

// Distribute assigns each article to exactly one preference bucket and
// ranks within each bucket, best first. Every requested preference gets
// a key, empty buckets included.
//
// Assignment scans preferences in caller order and only a strictly
// greater combined score replaces the running best, so equal scores keep
// the earlier preference. The running best starts at zero, which means
// an article that never scores above zero lands in no bucket at all.
func Distribute(articles []AggregatedArticle, preferences []string) Distribution {
	dist := make(Distribution, len(preferences))
	for _, pref := range preferences {
		dist[pref] = []RankedArticle{}
	}

	for _, article := range articles {
		content := strings.ToLower(article.SummaryOrContent(0))

		retrievalScore := defaultRetrievalScore
		if article.Scored {
			retrievalScore = article.Score
		}

		bestPref := ""
		bestScore := 0.0
		for _, pref := range preferences {
			keywordScore := 0.0
			if strings.Contains(content, strings.ToLower(pref)) {
				keywordScore = 1.0
			}
			combined := keywordWeight*keywordScore + retrievalWeight*retrievalScore
			if combined > bestScore {
				bestScore = combined
				bestPref = pref
			}
		}

		if bestPref != "" {
			dist[bestPref] = append(dist[bestPref], RankedArticle{
				AggregatedArticle:  article,
				AssignedPreference: bestPref,
				AssignmentScore:    bestScore,
			})
		}
	}

	for pref := range dist {
		bucket := dist[pref]
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].AssignmentScore > bucket[j].AssignmentScore
		})
	}

	return dist
}

// ScoredArticle is an article with its pairwise similarity to the joined
// preference text, produced by RankByPreference.
type ScoredArticle struct {
	AggregatedArticle
	PreferenceScore float64
}

// RankByPreference is the non-partitioning companion to Distribute: it
// scores every article against the full joined preference text using a
// term-frequency bag-of-words with English stop words removed and cosine
// similarity, then returns all articles in one global order, best first.
func RankByPreference(articles []AggregatedArticle, preferences []string) []ScoredArticle {
	scored := make([]ScoredArticle, len(articles))
	for i, a := range articles {
		scored[i] = ScoredArticle{AggregatedArticle: a}
	}
	if len(articles) == 0 || len(preferences) == 0 {
		return scored
	}

	prefVector := termFrequencies(strings.Join(preferences, " "))
	for i := range scored {
		text := scored[i].SummaryOrContent(RankingTextLimit)
		scored[i].PreferenceScore = cosineSimilarity(prefVector, termFrequencies(text))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].PreferenceScore > scored[j].PreferenceScore
	})
	return scored
}

// termFrequencies tokenizes text into lowercase word counts, dropping
// single characters and English stop words.
func termFrequencies(text string) map[string]float64 {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	freq := make(map[string]float64, len(tokens))
	for _, tok := range tokens {
		if len(tok) < 2 || englishStopWords[tok] {
			continue
		}
		freq[tok]++
	}
	return freq
}

func cosineSimilarity(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for term, wa := range a {
		normA += wa * wa
		if wb, ok := b[term]; ok {
			dot += wa * wb
		}
	}
	for _, wb := range b {
		normB += wb * wb
	}
	if dot == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
