package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTimeout = 10 * time.Second

const (
	collectionUsers        = "users"
	collectionClients      = "clients"
	collectionTransactions = "transactions"
	collectionCounters     = "counters"
)

// maxUpdateAttempts bounds the optimistic retries of a guarded replace.
const maxUpdateAttempts = 8

var errUpdateConflict = errors.New("record kept changing during update")

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// EnsureIndexes creates the unique email index and the owner indexes used by
// every scoped query.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := db.Collection(collectionUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("users index: %w", err)
	}

	ownerIndex := mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "seq", Value: 1}}}
	for _, name := range []string{collectionClients, collectionTransactions} {
		if _, err := db.Collection(name).Indexes().CreateOne(ctx, ownerIndex); err != nil {
			return fmt.Errorf("%s index: %w", name, err)
		}
	}
	return nil
}

// byCreation is the sort used for every owner listing. seq comes from
// nextSeq, so it follows insertion order even when timestamps tie.
var byCreation = options.Find().SetSort(bson.D{{Key: "seq", Value: 1}})

// nextSeq atomically increments and returns the counter named name.
func nextSeq(ctx context.Context, counters *mongo.Collection, name string) (int64, error) {
	var out struct {
		Seq int64 `bson:"seq"`
	}
	err := counters.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&out)
	if err != nil {
		return 0, fmt.Errorf("next %s seq: %w", name, err)
	}
	return out.Seq, nil
}

// atRevision narrows filter to the revision that was read, so a replace
// matches only if nobody wrote in between.
func atRevision(filter bson.M, rev int64) bson.M {
	out := bson.M{"rev": rev}
	for k, v := range filter {
		out[k] = v
	}
	return out
}

func nanosToTime(ns int64) time.Time {
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns).UTC()
}

func timeToNanos(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}
