package rating

import (
	"fmt"
	"time"

	"github.com/karlseguin/ccache/v3"
	"gorm.io/gorm"
)

// Summary is a spot's aggregate rating. AverageStars is nil when the spot
// has no reviews; the presentation layer renders that as "New". The average
// is the unrounded arithmetic mean; any display rounding happens at the
// boundary.
type Summary struct {
	AverageStars *float64 `json:"avgStarRating"`
	Count        int      `json:"numReviews"`
}

// ReviewStore supplies the star values of all reviews for a spot
type ReviewStore interface {
	StarsForSpot(spotID uint) ([]int, error)
}

// CacheMetric is invoked with "hit" or "miss" on every Aggregate call.
// main wires it to the service metrics; it defaults to a no-op.
var CacheMetric = func(outcome string) {}

// Aggregator computes rating summaries with a small read-through cache.
// Every review create/delete for a spot must call Invalidate for that spot.
type Aggregator struct {
	store ReviewStore
	cache *ccache.Cache[Summary]
	ttl   time.Duration
}

// New creates an aggregator over the given review store
func New(store ReviewStore, ttl time.Duration) *Aggregator {
	return &Aggregator{
		store: store,
		cache: ccache.New(ccache.Configure[Summary]().MaxSize(10000)),
		ttl:   ttl,
	}
}

// Aggregate returns the spot's rating summary, recomputing on cache miss
func (a *Aggregator) Aggregate(spotID uint) (Summary, error) {
	key := cacheKey(spotID)
	if item := a.cache.Get(key); item != nil && !item.Expired() {
		CacheMetric("hit")
		return item.Value(), nil
	}
	CacheMetric("miss")

	stars, err := a.store.StarsForSpot(spotID)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Count: len(stars)}
	if len(stars) > 0 {
		total := 0
		for _, s := range stars {
			total += s
		}
		avg := float64(total) / float64(len(stars))
		summary.AverageStars = &avg
	}

	a.cache.Set(key, summary, a.ttl)
	return summary, nil
}

// Invalidate drops the cached summary for a spot
func (a *Aggregator) Invalidate(spotID uint) {
	a.cache.Delete(cacheKey(spotID))
}

func cacheKey(spotID uint) string {
	return fmt.Sprintf("spot:%d", spotID)
}

// GormReviewStore reads review stars straight from the database
type GormReviewStore struct {
	db *gorm.DB
}

// NewGormReviewStore creates a ReviewStore backed by the given gorm connection
func NewGormReviewStore(db *gorm.DB) *GormReviewStore {
	return &GormReviewStore{db: db}
}

func (s *GormReviewStore) StarsForSpot(spotID uint) ([]int, error) {
	var stars []int
	if err := s.db.Table("reviews").Where("spot_id = ?", spotID).Pluck("stars", &stars).Error; err != nil {
		return nil, err
	}
	return stars, nil
}
