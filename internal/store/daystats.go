package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/storepulse/storepulse/internal/model"
	"github.com/storepulse/storepulse/internal/timebucket"
)

// EmptyProductKey is the tally key for clicks recorded without a product
// name. MongoDB rejects an empty field name in an update path, so the
// degraded entry is stored under this sentinel instead of "".
const EmptyProductKey = "(none)"

// Field names a per-bucket counter that can be atomically incremented.
type Field string

const (
	// FieldVisitors is the per-minute visitor counter.
	FieldVisitors Field = "visitors"
	// FieldClicks is the per-minute product-click counter.
	FieldClicks Field = "clicks"
)

// Store errors.
var (
	// ErrInvalidField is returned for a bucket field outside the known set.
	ErrInvalidField = errors.New("invalid bucket field")

	// ErrInvalidMinute is returned for a minute index outside [0, 1440).
	ErrInvalidMinute = errors.New("minute index out of range")
)

// EnsureDocument creates the day document if it does not exist yet. The
// upsert writes only through $setOnInsert, so concurrent callers for the
// same day cannot create duplicates and an existing document is never
// touched. Safe to call before every increment.
func (s *Store) EnsureDocument(ctx context.Context, day string) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"day": day},
		bson.M{"$setOnInsert": bson.M{
			"day":           day,
			"buckets":       timebucket.InitialBuckets(),
			"productClicks": bson.M{},
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("ensure day document %s: %w", day, err)
	}
	return nil
}

// EnsureBuckets backfills the bucket array on a legacy document that was
// created before the per-minute schema existed. The $exists filter makes
// it a no-op for documents that already carry buckets; a populated array
// is never overwritten.
func (s *Store) EnsureBuckets(ctx context.Context, day string) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"day": day, "buckets": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"buckets": timebucket.InitialBuckets()}},
	)
	if err != nil {
		return fmt.Errorf("ensure buckets for %s: %w", day, err)
	}
	return nil
}

// IncrementBucketField atomically increments one counter of one minute
// bucket by 1. The document and its bucket array are assumed to exist;
// callers go through EnsureDocument/EnsureBuckets first.
func (s *Store) IncrementBucketField(ctx context.Context, day string, minuteIndex int, field Field) error {
	if field != FieldVisitors && field != FieldClicks {
		return fmt.Errorf("%w: %q", ErrInvalidField, field)
	}
	if minuteIndex < 0 || minuteIndex >= timebucket.MinutesPerDay {
		return fmt.Errorf("%w: %d", ErrInvalidMinute, minuteIndex)
	}

	path := "buckets." + strconv.Itoa(minuteIndex) + "." + string(field)
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"day": day},
		bson.M{"$inc": bson.M{path: 1}},
	)
	if err != nil {
		return fmt.Errorf("increment %s for %s bucket %d: %w", field, day, minuteIndex, err)
	}
	return nil
}

// IncrementProductClick atomically increments the per-product tally,
// creating the entry at 1 when absent. An empty product name is accepted
// and lands under EmptyProductKey; the recorder flags it upstream.
func (s *Store) IncrementProductClick(ctx context.Context, day, productName string) error {
	path := "productClicks." + SanitizeProductKey(productName)
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"day": day},
		bson.M{"$inc": bson.M{path: 1}},
	)
	if err != nil {
		return fmt.Errorf("increment product click %q for %s: %w", productName, day, err)
	}
	return nil
}

// GetDocument returns the document for day, or the canonical zeroed
// document when none exists. Absence is not a failure state for reads.
func (s *Store) GetDocument(ctx context.Context, day string) (*model.DayStats, error) {
	var doc model.DayStats
	err := s.coll.FindOne(ctx, bson.M{"day": day}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return timebucket.EmptyDay(day), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get day document %s: %w", day, err)
	}
	if doc.ProductClicks == nil {
		doc.ProductClicks = map[string]int64{}
	}
	return &doc, nil
}

// SanitizeProductKey maps a free-form product name to a legal Mongo map
// key. Dots would be parsed as path separators, a leading "$" as an
// operator, and an empty name as an empty field name, so all three are
// replaced deterministically. Names that need no rewriting pass through
// unchanged.
func SanitizeProductKey(name string) string {
	if name == "" {
		return EmptyProductKey
	}
	key := strings.ReplaceAll(name, ".", "．")
	if strings.HasPrefix(key, "$") {
		key = "＄" + key[1:]
	}
	return key
}
