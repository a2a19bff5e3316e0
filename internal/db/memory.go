package db

import (
	"context"
	"reflect"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory is an in-process Store with the same identifier and acknowledgment
// semantics as the MongoDB collections. Data lives only as long as the value.
type Memory struct {
	mu          sync.Mutex
	collections map[string]*memoryCollection
}

// NewMemory returns an empty in-process store.
func NewMemory() *Memory {
	return &Memory{collections: map[string]*memoryCollection{}}
}

func (m *Memory) Collection(name string) (Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.collections[name]
	if !ok {
		c = &memoryCollection{docs: map[primitive.ObjectID]Document{}}
		m.collections[name] = c
	}
	return c, nil
}

func (m *Memory) Ping(context.Context) error { return nil }

type memoryCollection struct {
	mu    sync.RWMutex
	order []primitive.ObjectID
	docs  map[primitive.ObjectID]Document
}

func (c *memoryCollection) Find(_ context.Context, filter Document) ([]Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := []Document{}
	for _, id := range c.order {
		doc := c.docs[id]
		if matches(doc, filter) {
			out = append(out, clone(doc))
		}
	}
	return out, nil
}

func (c *memoryCollection) FindByID(_ context.Context, id string) (Document, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	doc, ok := c.docs[oid]
	if !ok {
		return nil, nil
	}
	return clone(doc), nil
}

func (c *memoryCollection) Insert(_ context.Context, doc Document) (*InsertResult, error) {
	oid := primitive.NewObjectID()
	stored := WithoutID(doc)
	stored[IDField] = oid

	c.mu.Lock()
	defer c.mu.Unlock()

	c.docs[oid] = stored
	c.order = append(c.order, oid)
	return &InsertResult{Acknowledged: true, InsertedID: oid}, nil
}

func (c *memoryCollection) UpdateByID(_ context.Context, id string, fields Document) (*UpdateResult, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	doc, ok := c.docs[oid]
	if !ok {
		return &UpdateResult{Acknowledged: true}, nil
	}
	res := &UpdateResult{Acknowledged: true, MatchedCount: 1}
	modified := false
	for k, v := range WithoutID(fields) {
		if old, ok := doc[k]; ok && reflect.DeepEqual(old, v) {
			continue
		}
		doc[k] = v
		modified = true
	}
	if modified {
		res.ModifiedCount = 1
	}
	return res, nil
}

func (c *memoryCollection) DeleteByID(_ context.Context, id string) (*DeleteResult, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.docs[oid]; !ok {
		return &DeleteResult{Acknowledged: true}, nil
	}
	delete(c.docs, oid)
	for i, o := range c.order {
		if o == oid {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return &DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

// matches implements top-level equality filters, the only kind the API issues.
func matches(doc, filter Document) bool {
	for k, want := range filter {
		got, ok := doc[k]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

func clone(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
