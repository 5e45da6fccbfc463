package articles

// Stats is an aggregate snapshot of the article corpus
type Stats struct {
	Total       int            `json:"total"`
	Published   int            `json:"published"`
	Draft       int            `json:"draft"`
	ByType      map[string]int `json:"byType"`
	ByCategory  map[string]int `json:"byCategory"`
	BySentiment map[string]int `json:"bySentiment"`
}

// GroupCount is one row of a GROUP BY aggregate
type GroupCount struct {
	Key   string
	Count int
}

// PublicationCounts is the published/draft split read in one pass
type PublicationCounts struct {
	Published int
	Draft     int
}

// ToMap folds group rows into a map, summing duplicate keys
func ToMap(rows []GroupCount) map[string]int {
	m := make(map[string]int, len(rows))
	for _, r := range rows {
		m[r.Key] += r.Count
	}
	return m
}
