package analytics

import "salesdash/internal/model"

// Views holds every grouped series the report displays.
type Views struct {
	Monthly      []MonthPoint   `json:"monthly"`
	TopSuppliers []Ranked       `json:"top_suppliers"`
	TopArticles  []Ranked       `json:"top_articles"`
	Daily        []DayPoint     `json:"daily"`
	PriceBuckets []BucketStat   `json:"price_buckets"`
	Leaderboard  []SupplierStat `json:"leaderboard"`
}

// ComputeViews runs each aggregation over the same lines. The input is only
// read.
func ComputeViews(lines []model.OrderLine, buckets []PriceBucket) Views {
	if buckets == nil {
		buckets = DefaultPriceBuckets
	}
	return Views{
		Monthly:      Monthly(lines),
		TopSuppliers: TopSuppliers(lines, TopSuppliersLimit),
		TopArticles:  TopArticles(lines, TopArticlesLimit),
		Daily:        Daily(lines),
		PriceBuckets: ByPriceBucket(lines, buckets),
		Leaderboard:  Leaderboard(lines, LeaderboardLimit),
	}
}
