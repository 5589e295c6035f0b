// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

// stopwords is the NLTK English stop-word list restricted to entries that
// survive cleaning (no apostrophes).
var stopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"i", "me", "my", "myself", "we", "our", "ours", "ourselves", "you",
		"your", "yours", "yourself", "yourselves", "he", "him", "his",
		"himself", "she", "her", "hers", "herself", "it", "its", "itself",
		"they", "them", "their", "theirs", "themselves", "what", "which",
		"who", "whom", "this", "that", "these", "those", "am", "is", "are",
		"was", "were", "be", "been", "being", "have", "has", "had", "having",
		"do", "does", "did", "doing", "a", "an", "the", "and", "but", "if",
		"or", "because", "as", "until", "while", "of", "at", "by", "for",
		"with", "about", "against", "between", "into", "through", "during",
		"before", "after", "above", "below", "to", "from", "up", "down", "in",
		"out", "on", "off", "over", "under", "again", "further", "then",
		"once", "here", "there", "when", "where", "why", "how", "all", "any",
		"both", "each", "few", "more", "most", "other", "some", "such", "no",
		"nor", "not", "only", "own", "same", "so", "than", "too", "very", "s",
		"t", "can", "will", "just", "don", "should", "now", "d", "ll", "m",
		"o", "re", "ve", "y", "ain", "aren", "couldn", "didn", "doesn",
		"hadn", "hasn", "haven", "isn", "ma", "mightn", "mustn", "needn",
		"shan", "shouldn", "wasn", "weren", "won", "wouldn",
	} {
		stopwords[w] = struct{}{}
	}
}

// IsStopword reports whether tok is an English stop word.
func IsStopword(tok string) bool {
	_, ok := stopwords[tok]
	return ok
}
