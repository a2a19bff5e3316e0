package handlers

import (
	"github.com/Jeomhps/touravels/api-go/internal/db"
	"github.com/Jeomhps/touravels/api-go/internal/handlers/resource"
)

// NewSpots serves /touristsSpot.
func NewSpots(s db.Store) *resource.Handler {
	return resource.New(s, resource.Options{
		Collection: db.SpotsCollection,
		Noun:       "spot",
	})
}

// NewPlans serves /tourPlans; ?email= narrows the list to one owner.
func NewPlans(s db.Store) *resource.Handler {
	return resource.New(s, resource.Options{
		Collection: db.PlansCollection,
		Noun:       "plan",
		Filters:    []string{"email"},
	})
}
