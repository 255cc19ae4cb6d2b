package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ledgerdesk/backoffice/internal/core/domain"
)

type TransactionRepository struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{
		col:      db.Collection(collectionTransactions),
		counters: db.Collection(collectionCounters),
	}
}

type mongoTransaction struct {
	ID          string               `bson:"_id"`
	UserID      string               `bson:"user_id"`
	Type        string               `bson:"type"`
	Amount      primitive.Decimal128 `bson:"amount"`
	Description string               `bson:"description"`
	Date        string               `bson:"date"` // YYYY-MM-DD
	CreatedAt   int64                `bson:"created_at"`
	UpdatedAt   int64                `bson:"updated_at"`
	Seq         int64                `bson:"seq"`
	Rev         int64                `bson:"rev"`
}

func toMongoTransaction(t *domain.Transaction) (mongoTransaction, error) {
	amount, err := primitive.ParseDecimal128(t.Amount.String())
	if err != nil {
		return mongoTransaction{}, fmt.Errorf("encode amount %s: %w", t.Amount, err)
	}
	return mongoTransaction{
		ID:          t.ID,
		UserID:      t.UserID,
		Type:        string(t.Type),
		Amount:      amount,
		Description: t.Description,
		Date:        t.Date.String(),
		CreatedAt:   timeToNanos(t.CreatedAt),
		UpdatedAt:   timeToNanos(t.UpdatedAt),
	}, nil
}

func (m mongoTransaction) toDomain() (domain.Transaction, error) {
	amount, err := decimal.NewFromString(m.Amount.String())
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("decode amount of %s: %w", m.ID, err)
	}
	date, err := domain.ParseDate(m.Date)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("decode date of %s: %w", m.ID, err)
	}
	return domain.Transaction{
		ID:          m.ID,
		UserID:      m.UserID,
		Type:        domain.TransactionType(m.Type),
		Amount:      amount,
		Description: m.Description,
		Date:        date,
		CreatedAt:   nanosToTime(m.CreatedAt),
		UpdatedAt:   nanosToTime(m.UpdatedAt),
	}, nil
}

func (r *TransactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toMongoTransaction(t)
	if err != nil {
		return domain.NewStorageError("mongo.transactions.encode", err)
	}
	if doc.Seq, err = nextSeq(ctx, r.counters, collectionTransactions); err != nil {
		return domain.NewStorageError("mongo.transactions.seq", err)
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return domain.NewStorageError("mongo.transactions.insert", err)
	}
	return nil
}

func (r *TransactionRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"user_id": ownerID}, byCreation)
	if err != nil {
		return nil, domain.NewStorageError("mongo.transactions.find", err)
	}
	var docs []mongoTransaction
	if err := cur.All(ctx, &docs); err != nil {
		return nil, domain.NewStorageError("mongo.transactions.decode", err)
	}

	out := make([]domain.Transaction, 0, len(docs))
	for _, d := range docs {
		t, err := d.toDomain()
		if err != nil {
			return nil, domain.NewStorageError("mongo.transactions.decode", err)
		}
		out = append(out, t)
	}
	return out, nil
}

// Update is a guarded replace, like ClientRepository.Update.
func (r *TransactionRepository) Update(ctx context.Context, ownerID, id string, mutate func(*domain.Transaction) error) (*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	for i := 0; i < maxUpdateAttempts; i++ {
		var doc mongoTransaction
		if err := r.col.FindOne(ctx, ownedBy(ownerID, id)).Decode(&doc); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, domain.ErrTransactionNotFound
			}
			return nil, domain.NewStorageError("mongo.transactions.find", err)
		}

		t, err := doc.toDomain()
		if err != nil {
			return nil, domain.NewStorageError("mongo.transactions.decode", err)
		}
		if err := mutate(&t); err != nil {
			return nil, err
		}
		t.ID, t.UserID = doc.ID, doc.UserID

		replacement, err := toMongoTransaction(&t)
		if err != nil {
			return nil, domain.NewStorageError("mongo.transactions.encode", err)
		}
		replacement.Seq, replacement.Rev = doc.Seq, doc.Rev+1

		res, err := r.col.ReplaceOne(ctx, atRevision(ownedBy(ownerID, id), doc.Rev), replacement)
		if err != nil {
			return nil, domain.NewStorageError("mongo.transactions.replace", err)
		}
		if res.MatchedCount == 1 {
			return &t, nil
		}
	}
	return nil, domain.NewStorageError("mongo.transactions.replace", errUpdateConflict)
}

func (r *TransactionRepository) Delete(ctx context.Context, ownerID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, ownedBy(ownerID, id))
	if err != nil {
		return domain.NewStorageError("mongo.transactions.delete", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}
