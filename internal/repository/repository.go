package repository

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned when a document does not exist. A syntactically
// invalid id maps to the same error so callers cannot distinguish the two.
var ErrNotFound = errors.New("record not found")

func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}

func now() time.Time {
	return time.Now().UTC()
}
