package db

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotConnected is returned when a collection is requested before the
	// store connection succeeded.
	ErrNotConnected = errors.New("DB not connected")

	// ErrInvalidID is returned when an identifier is not a valid ObjectID.
	ErrInvalidID = errors.New("invalid identifier")
)

// IDField is the store-assigned identifier key.
const IDField = "_id"

// Document is a schema-less record as stored and returned.
type Document map[string]any

// InsertResult acknowledges a create.
type InsertResult struct {
	Acknowledged bool `json:"acknowledged"`
	InsertedID   any  `json:"insertedId"`
}

// UpdateResult acknowledges an update. A missing record is reported with
// zero counts, not an error.
type UpdateResult struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
	UpsertedCount int64 `json:"upsertedCount"`
	UpsertedID    any   `json:"upsertedId"`
}

// DeleteResult acknowledges a delete.
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// Collection is the set of operations the HTTP layer performs on one
// collection. FindByID returns a nil Document when the record is absent.
type Collection interface {
	Find(ctx context.Context, filter Document) ([]Document, error)
	FindByID(ctx context.Context, id string) (Document, error)
	Insert(ctx context.Context, doc Document) (*InsertResult, error)
	UpdateByID(ctx context.Context, id string, fields Document) (*UpdateResult, error)
	DeleteByID(ctx context.Context, id string) (*DeleteResult, error)
}

// Store hands out collections and reports connectivity.
type Store interface {
	Collection(name string) (Collection, error)
	Ping(ctx context.Context) error
}

// ParseID converts a hex identifier into an ObjectID.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, errors.Wrapf(ErrInvalidID, "%q", id)
	}
	return oid, nil
}

// WithoutID returns a shallow copy of doc with any client-supplied
// identifier removed; identifiers are assigned by the store and immutable.
func WithoutID(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		if k == IDField {
			continue
		}
		out[k] = v
	}
	return out
}
