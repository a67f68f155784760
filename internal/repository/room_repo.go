package repository

import (
	"context"
	"errors"

	"hostel-management-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RoomRepository struct {
	coll *mongo.Collection
}

func NewRoomRepo(db *mongo.Database) *RoomRepository {
	return &RoomRepository{coll: db.Collection(models.Room{}.CollectionName())}
}

// FindByID retrieves a room by id.
func (r *RoomRepository) FindByID(ctx context.Context, id string) (*models.Room, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	var room models.Room
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&room); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &room, nil
}

// FindOwned retrieves a room only if it belongs to the given hostel.
func (r *RoomRepository) FindOwned(ctx context.Context, id string, hostelID primitive.ObjectID) (*models.Room, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	var room models.Room
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid, "hostelId": hostelID}).Decode(&room); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &room, nil
}

// ExistsByNumber reports whether a room number is already taken in the hostel.
func (r *RoomRepository) ExistsByNumber(ctx context.Context, hostelID primitive.ObjectID, number string, excludeID primitive.ObjectID) (bool, error) {
	filter := bson.M{"hostelId": hostelID, "number": number}
	if !excludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListByHostel returns the rooms of a hostel ordered by room number.
func (r *RoomRepository) ListByHostel(ctx context.Context, hostelID primitive.ObjectID) ([]models.Room, error) {
	opts := options.Find().SetSort(bson.D{{Key: "number", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"hostelId": hostelID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	rooms := []models.Room{}
	if err := cursor.All(ctx, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// ListVacant returns the rooms of a hostel that still have at least one vacant bed.
func (r *RoomRepository) ListVacant(ctx context.Context, hostelID primitive.ObjectID) ([]models.Room, error) {
	filter := bson.M{
		"hostelId": hostelID,
		"beds":     bson.M{"$elemMatch": bson.M{"status": models.BedVacant}},
	}
	opts := options.Find().SetSort(bson.D{{Key: "number", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	rooms := []models.Room{}
	if err := cursor.All(ctx, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	room.CreatedAt = now()
	room.UpdatedAt = room.CreatedAt
	res, err := r.coll.InsertOne(ctx, room)
	if err != nil {
		return err
	}
	room.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// ReplaceBeds overwrites the bed list of an owned room and recomputes the
// occupied counter from it.
func (r *RoomRepository) ReplaceBeds(ctx context.Context, id primitive.ObjectID, hostelID primitive.ObjectID, beds []models.Bed) (*models.Room, error) {
	update := bson.M{"$set": bson.M{
		"beds":      beds,
		"capacity":  len(beds),
		"occupied":  models.CountOccupied(beds),
		"updatedAt": now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var room models.Room
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id, "hostelId": hostelID}, update, opts).Decode(&room)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &room, nil
}

// UpdateFields applies a partial update to an owned room and returns the updated document.
func (r *RoomRepository) UpdateFields(ctx context.Context, id string, hostelID primitive.ObjectID, fields bson.M) (*models.Room, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	fields["updatedAt"] = now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var room models.Room
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid, "hostelId": hostelID}, bson.M{"$set": fields}, opts).Decode(&room)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &room, nil
}

// SetBedStatus flips the status of one bed in a room and adjusts the occupied
// counter in the same write. The bed must currently be in fromStatus for the
// update to match, which keeps concurrent reservations of the same bed from
// both succeeding.
func (r *RoomRepository) SetBedStatus(ctx context.Context, id primitive.ObjectID, bedNumber, fromStatus, toStatus string) (*models.Room, error) {
	delta := 1
	if toStatus == models.BedVacant {
		delta = -1
	}
	filter := bson.M{
		"_id":  id,
		"beds": bson.M{"$elemMatch": bson.M{"number": bedNumber, "status": fromStatus}},
	}
	update := bson.M{
		"$set": bson.M{
			"beds.$.status": toStatus,
			"updatedAt":     now(),
		},
		"$inc": bson.M{"occupied": delta},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var room models.Room
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&room)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (r *RoomRepository) Delete(ctx context.Context, id string, hostelID primitive.ObjectID) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid, "hostelId": hostelID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RoomRepository) CountByHostel(ctx context.Context, hostelID primitive.ObjectID) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"hostelId": hostelID})
}
