package db

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoCollection struct {
	coll *mongo.Collection
}

func (c *mongoCollection) Find(ctx context.Context, filter Document) ([]Document, error) {
	if filter == nil {
		filter = Document{}
	}
	cur, err := c.coll.Find(ctx, bson.M(filter))
	if err != nil {
		return nil, errors.Wrapf(err, "finding in %s", c.coll.Name())
	}
	out := []Document{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrapf(err, "reading cursor for %s", c.coll.Name())
	}
	return out, nil
}

func (c *mongoCollection) FindByID(ctx context.Context, id string) (Document, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	var doc Document
	err = c.coll.FindOne(ctx, bson.M{IDField: oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "finding %s in %s", id, c.coll.Name())
	}
	return doc, nil
}

func (c *mongoCollection) Insert(ctx context.Context, doc Document) (*InsertResult, error) {
	res, err := c.coll.InsertOne(ctx, bson.M(WithoutID(doc)))
	if err != nil {
		return nil, errors.Wrapf(err, "inserting into %s", c.coll.Name())
	}
	return &InsertResult{Acknowledged: true, InsertedID: res.InsertedID}, nil
}

func (c *mongoCollection) UpdateByID(ctx context.Context, id string, fields Document) (*UpdateResult, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	filter := bson.M{IDField: oid}

	set := WithoutID(fields)
	if len(set) == 0 {
		// an empty $set is rejected by the server; report the match only
		n, err := c.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
		if err != nil {
			return nil, errors.Wrapf(err, "counting %s in %s", id, c.coll.Name())
		}
		return &UpdateResult{Acknowledged: true, MatchedCount: n}, nil
	}

	res, err := c.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M(set)})
	if err != nil {
		return nil, errors.Wrapf(err, "updating %s in %s", id, c.coll.Name())
	}
	return &UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    res.UpsertedID,
	}, nil
}

func (c *mongoCollection) DeleteByID(ctx context.Context, id string) (*DeleteResult, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	res, err := c.coll.DeleteOne(ctx, bson.M{IDField: oid})
	if err != nil {
		return nil, errors.Wrapf(err, "deleting %s from %s", id, c.coll.Name())
	}
	return &DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}
