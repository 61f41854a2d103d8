package contracts

// RatingEngine turns a product record into a rating snapshot
// ⭐ SSOT: 스코어링 인터페이스
type RatingEngine interface {
	ComputeRating(record ProductRecord) RatingSnapshot
	AlgoVersion() string
}
