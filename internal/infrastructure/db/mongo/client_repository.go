package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ledgerdesk/backoffice/internal/core/domain"
)

type ClientRepository struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewClientRepository(db *mongo.Database) *ClientRepository {
	return &ClientRepository{
		col:      db.Collection(collectionClients),
		counters: db.Collection(collectionCounters),
	}
}

type mongoClient struct {
	ID             string `bson:"_id"`
	UserID         string `bson:"user_id"`
	Name           string `bson:"name"`
	Email          string `bson:"email"`
	Phone          string `bson:"phone"`
	Status         string `bson:"status"`
	SensitiveNotes string `bson:"sensitive_notes"`
	CreatedAt      int64  `bson:"created_at"`
	UpdatedAt      int64  `bson:"updated_at"`
	Seq            int64  `bson:"seq"`
	Rev            int64  `bson:"rev"`
}

func toMongoClient(c *domain.Client) mongoClient {
	return mongoClient{
		ID:             c.ID,
		UserID:         c.UserID,
		Name:           c.Name,
		Email:          c.Email,
		Phone:          c.Phone,
		Status:         string(c.Status),
		SensitiveNotes: c.SensitiveNotes,
		CreatedAt:      timeToNanos(c.CreatedAt),
		UpdatedAt:      timeToNanos(c.UpdatedAt),
	}
}

func (m mongoClient) toDomain() domain.Client {
	return domain.Client{
		ID:             m.ID,
		UserID:         m.UserID,
		Name:           m.Name,
		Email:          m.Email,
		Phone:          m.Phone,
		Status:         domain.ClientStatus(m.Status),
		SensitiveNotes: m.SensitiveNotes,
		CreatedAt:      nanosToTime(m.CreatedAt),
		UpdatedAt:      nanosToTime(m.UpdatedAt),
	}
}

// ownedBy is the filter behind every scoped lookup.
func ownedBy(ownerID, id string) bson.M {
	return bson.M{"_id": id, "user_id": ownerID}
}

func (r *ClientRepository) Create(ctx context.Context, c *domain.Client) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	seq, err := nextSeq(ctx, r.counters, collectionClients)
	if err != nil {
		return domain.NewStorageError("mongo.clients.seq", err)
	}

	doc := toMongoClient(c)
	doc.Seq = seq
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return domain.NewStorageError("mongo.clients.insert", err)
	}
	return nil
}

func (r *ClientRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"user_id": ownerID}, byCreation)
	if err != nil {
		return nil, domain.NewStorageError("mongo.clients.find", err)
	}
	var docs []mongoClient
	if err := cur.All(ctx, &docs); err != nil {
		return nil, domain.NewStorageError("mongo.clients.decode", err)
	}

	out := make([]domain.Client, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *ClientRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"user_id": ownerID})
	if err != nil {
		return 0, domain.NewStorageError("mongo.clients.count", err)
	}
	return int(n), nil
}

// Update replaces the document only if it still belongs to ownerID and is
// still at the revision that was read. On a lost race mutate runs again on the
// fresh document.
func (r *ClientRepository) Update(ctx context.Context, ownerID, id string, mutate func(*domain.Client) error) (*domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	for i := 0; i < maxUpdateAttempts; i++ {
		var doc mongoClient
		if err := r.col.FindOne(ctx, ownedBy(ownerID, id)).Decode(&doc); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, domain.ErrClientNotFound
			}
			return nil, domain.NewStorageError("mongo.clients.find", err)
		}

		c := doc.toDomain()
		if err := mutate(&c); err != nil {
			return nil, err
		}
		c.ID, c.UserID = doc.ID, doc.UserID

		replacement := toMongoClient(&c)
		replacement.Seq, replacement.Rev = doc.Seq, doc.Rev+1

		res, err := r.col.ReplaceOne(ctx, atRevision(ownedBy(ownerID, id), doc.Rev), replacement)
		if err != nil {
			return nil, domain.NewStorageError("mongo.clients.replace", err)
		}
		if res.MatchedCount == 1 {
			return &c, nil
		}
	}
	return nil, domain.NewStorageError("mongo.clients.replace", errUpdateConflict)
}

func (r *ClientRepository) Delete(ctx context.Context, ownerID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, ownedBy(ownerID, id))
	if err != nil {
		return domain.NewStorageError("mongo.clients.delete", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}
