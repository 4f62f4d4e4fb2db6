// Package testutil provides helpers shared by integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/storepulse/storepulse/internal/model"
	"github.com/storepulse/storepulse/internal/timebucket"
)

// statsCollection mirrors the collection name used by the store package.
const statsCollection = "stats"

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// TestDatabase returns the database name used by integration tests.
// Override with MONGO_TEST_DATABASE to avoid clobbering a shared instance.
func TestDatabase() string {
	if db := os.Getenv("MONGO_TEST_DATABASE"); db != "" {
		return db
	}
	return "storepulse_test"
}

// DropStats removes the stats collection so each test starts clean.
func DropStats(ctx context.Context, client *mongo.Client, database string) error {
	if err := client.Database(database).Collection(statsCollection).Drop(ctx); err != nil {
		return fmt.Errorf("drop stats collection: %w", err)
	}
	return nil
}

// InsertLegacyDay writes a day document in the pre-minute hourly layout,
// the shape produced before per-minute buckets existed.
func InsertLegacyDay(ctx context.Context, client *mongo.Client, database, day string) error {
	hours := make([]model.LegacyHour, timebucket.HoursPerDay)
	for h := range hours {
		hours[h] = model.LegacyHour{Time: timebucket.HourLabel(h)}
	}

	doc := bson.M{
		"day":           day,
		"hours":         hours,
		"productClicks": bson.M{},
	}

	_, err := client.Database(database).Collection(statsCollection).InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert legacy day %s: %w", day, err)
	}
	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}
