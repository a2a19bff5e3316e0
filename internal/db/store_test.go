package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CollectionSuite checks the Collection contract; it runs against the
// in-process store always and against MongoDB when MONGO_TEST_URI is set.
type CollectionSuite struct {
	suite.Suite
	ctx   context.Context
	store Store
	name  string
	coll  Collection

	teardown func(name string)
}

func TestMemoryCollectionSuite(t *testing.T) {
	suite.Run(t, &CollectionSuite{store: NewMemory()})
}

func TestMongoCollectionSuite(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	m := NewManager(Options{URI: uri, Database: "touravels_test", ConnectTimeout: 5 * time.Second})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := m.Connect(ctx); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer m.Close(context.Background())

	s := &CollectionSuite{store: m}
	s.teardown = func(name string) {
		m.mu.RLock()
		defer m.mu.RUnlock()
		_ = m.db.Collection(name).Drop(context.Background())
	}
	suite.Run(t, s)
}

func (s *CollectionSuite) SetupTest() {
	s.ctx = context.Background()
	s.name = "test_" + uuid.NewString()
	coll, err := s.store.Collection(s.name)
	s.Require().NoError(err)
	s.coll = coll
}

func (s *CollectionSuite) TearDownTest() {
	if s.teardown != nil {
		s.teardown(s.name)
	}
}

func (s *CollectionSuite) insert(doc Document) string {
	res, err := s.coll.Insert(s.ctx, doc)
	s.Require().NoError(err)
	s.Require().True(res.Acknowledged)
	oid, ok := res.InsertedID.(primitive.ObjectID)
	s.Require().True(ok, "inserted id is %T", res.InsertedID)
	return oid.Hex()
}

func (s *CollectionSuite) TestFindOnEmptyCollectionIsEmptyNotNil() {
	docs, err := s.coll.Find(s.ctx, nil)
	s.NoError(err)
	s.NotNil(docs)
	s.Len(docs, 0)
}

func (s *CollectionSuite) TestInsertThenFindByIDReturnsPayload() {
	id := s.insert(Document{"name": "Cox's Bazar", "country": "Bangladesh"})

	doc, err := s.coll.FindByID(s.ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(doc)
	s.Equal("Cox's Bazar", doc["name"])
	s.Equal("Bangladesh", doc["country"])
	s.Equal(id, doc[IDField].(primitive.ObjectID).Hex())
}

func (s *CollectionSuite) TestInsertIgnoresClientID() {
	id := s.insert(Document{IDField: "mine", "name": "Sajek"})
	s.NotEqual("mine", id)

	doc, err := s.coll.FindByID(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("Sajek", doc["name"])
}

func (s *CollectionSuite) TestUpdateMergesFields() {
	id := s.insert(Document{"name": "Cox's Bazar", "country": "Bangladesh"})

	res, err := s.coll.UpdateByID(s.ctx, id, Document{"name": "Cox's Bazar Beach", IDField: "ignored"})
	s.Require().NoError(err)
	s.EqualValues(1, res.MatchedCount)
	s.EqualValues(1, res.ModifiedCount)

	doc, err := s.coll.FindByID(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("Cox's Bazar Beach", doc["name"])
	s.Equal("Bangladesh", doc["country"])
	s.Equal(id, doc[IDField].(primitive.ObjectID).Hex())
}

func (s *CollectionSuite) TestUpdateWithSameValuesMatchesWithoutModifying() {
	id := s.insert(Document{"name": "Srimangal"})

	res, err := s.coll.UpdateByID(s.ctx, id, Document{"name": "Srimangal"})
	s.Require().NoError(err)
	s.EqualValues(1, res.MatchedCount)
	s.EqualValues(0, res.ModifiedCount)
}

func (s *CollectionSuite) TestUpdateWithNoFields() {
	id := s.insert(Document{"name": "Srimangal"})

	res, err := s.coll.UpdateByID(s.ctx, id, Document{})
	s.Require().NoError(err)
	s.EqualValues(1, res.MatchedCount)
	s.EqualValues(0, res.ModifiedCount)

	res, err = s.coll.UpdateByID(s.ctx, primitive.NewObjectID().Hex(), Document{})
	s.Require().NoError(err)
	s.EqualValues(0, res.MatchedCount)
}

func (s *CollectionSuite) TestMissingIDIsZeroCountNotError() {
	missing := primitive.NewObjectID().Hex()

	doc, err := s.coll.FindByID(s.ctx, missing)
	s.NoError(err)
	s.Nil(doc)

	upd, err := s.coll.UpdateByID(s.ctx, missing, Document{"name": "x"})
	s.NoError(err)
	s.EqualValues(0, upd.MatchedCount)
	s.EqualValues(0, upd.ModifiedCount)

	del, err := s.coll.DeleteByID(s.ctx, missing)
	s.NoError(err)
	s.EqualValues(0, del.DeletedCount)
}

func (s *CollectionSuite) TestDeleteThenFindByIDIsAbsent() {
	id := s.insert(Document{"name": "Bandarban"})

	res, err := s.coll.DeleteByID(s.ctx, id)
	s.Require().NoError(err)
	s.EqualValues(1, res.DeletedCount)

	doc, err := s.coll.FindByID(s.ctx, id)
	s.NoError(err)
	s.Nil(doc)

	docs, err := s.coll.Find(s.ctx, nil)
	s.NoError(err)
	s.Len(docs, 0)
}

func (s *CollectionSuite) TestFindFiltersByField() {
	s.insert(Document{"email": "a@b.com", "title": "Sylhet"})
	s.insert(Document{"email": "c@d.com", "title": "Khulna"})
	s.insert(Document{"email": "a@b.com", "title": "Rangamati"})

	docs, err := s.coll.Find(s.ctx, Document{"email": "a@b.com"})
	s.Require().NoError(err)
	s.Require().Len(docs, 2)
	for _, d := range docs {
		s.Equal("a@b.com", d["email"])
	}

	all, err := s.coll.Find(s.ctx, nil)
	s.NoError(err)
	s.Len(all, 3)
}

func (s *CollectionSuite) TestMalformedIDIsInvalid() {
	_, err := s.coll.FindByID(s.ctx, "not-an-id")
	s.True(errors.Is(err, ErrInvalidID))

	_, err = s.coll.UpdateByID(s.ctx, "123", Document{"a": 1})
	s.True(errors.Is(err, ErrInvalidID))

	_, err = s.coll.DeleteByID(s.ctx, "")
	s.True(errors.Is(err, ErrInvalidID))
}
