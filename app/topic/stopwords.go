package topic

var stopWords = toSet(
	"a", "about", "above", "after", "again", "against", "ain", "all", "am", "an", "and", "any", "are",
	"aren", "as", "at", "be", "because", "been", "before", "being", "below", "between", "both", "but",
	"by", "can", "couldn", "did", "didn", "do", "does", "doesn", "doing", "don", "down", "during",
	"each", "few", "for", "from", "further", "had", "hadn", "has", "hasn", "have", "haven", "having",
	"he", "her", "here", "hers", "herself", "him", "himself", "his", "how", "i", "if", "in", "into",
	"is", "isn", "it", "its", "itself", "just", "ll", "ma", "me", "mightn", "more", "most", "mustn",
	"my", "myself", "needn", "no", "nor", "not", "now", "of", "off", "on", "once", "only", "or",
	"other", "our", "ours", "ourselves", "out", "over", "own", "re", "same", "shan", "she", "should",
	"shouldn", "so", "some", "such", "than", "that", "the", "their", "theirs", "them", "themselves",
	"then", "there", "these", "they", "this", "those", "through", "to", "too", "under", "until", "up",
	"ve", "very", "was", "wasn", "we", "were", "weren", "what", "when", "where", "which", "while",
	"who", "whom", "why", "will", "with", "won", "wouldn", "you", "your", "yours", "yourself",
	"yourselves",
	// conversational filler common in question titles
	"please", "someone", "anyone", "would", "could", "really", "also", "like", "get", "got", "know",
	"think", "want", "need", "thing", "things", "one", "even", "still", "much", "many", "way",
	"define", "definition", "meaning", "mean", "means", "explain", "eli",
)

func toSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
