package repository

import (
	"context"
	"errors"
	"strings"

	"hostel-management-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type StudentRepository struct {
	coll *mongo.Collection
}

func NewStudentRepo(db *mongo.Database) *StudentRepository {
	return &StudentRepository{coll: db.Collection(models.Student{}.CollectionName())}
}

// FindByID retrieves a student by id.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	var student models.Student
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&student); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &student, nil
}

// FindOwned retrieves a student only if it belongs to the given hostel.
func (r *StudentRepository) FindOwned(ctx context.Context, id string, hostelID primitive.ObjectID) (*models.Student, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	var student models.Student
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid, "hostelId": hostelID}).Decode(&student); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &student, nil
}

// FindByEmail retrieves a student by email.
func (r *StudentRepository) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	var student models.Student
	err := r.coll.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}).Decode(&student)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &student, nil
}

// ExistsByUserID reports whether a device enrollment id is already taken.
// The check is global: device identifiers must be unique across hostels so
// punch documents resolve to exactly one student.
func (r *StudentRepository) ExistsByUserID(ctx context.Context, userID string, excludeID primitive.ObjectID) (bool, error) {
	filter := bson.M{"user_id": userID}
	if !excludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListByHostel returns the students of a hostel, newest first.
func (r *StudentRepository) ListByHostel(ctx context.Context, hostelID primitive.ObjectID) ([]models.Student, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"hostelId": hostelID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	students := []models.Student{}
	if err := cursor.All(ctx, &students); err != nil {
		return nil, err
	}
	return students, nil
}

// ListByRoom returns the students currently allocated to a room.
func (r *StudentRepository) ListByRoom(ctx context.Context, roomID primitive.ObjectID) ([]models.Student, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"room": roomID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	students := []models.Student{}
	if err := cursor.All(ctx, &students); err != nil {
		return nil, err
	}
	return students, nil
}

func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	student.Email = strings.ToLower(strings.TrimSpace(student.Email))
	student.CreatedAt = now()
	student.UpdatedAt = student.CreatedAt
	res, err := r.coll.InsertOne(ctx, student)
	if err != nil {
		return err
	}
	student.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// UpdateFields applies a partial update to an owned student record and returns the updated document.
func (r *StudentRepository) UpdateFields(ctx context.Context, id string, hostelID primitive.ObjectID, fields bson.M) (*models.Student, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	fields["updatedAt"] = now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var student models.Student
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid, "hostelId": hostelID}, bson.M{"$set": fields}, opts).Decode(&student)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &student, nil
}

// Allocate assigns the student to a room bed and appends an allocation history entry.
func (r *StudentRepository) Allocate(ctx context.Context, id primitive.ObjectID, entry models.AllocationEntry) error {
	update := bson.M{
		"$set": bson.M{
			"room":      entry.Room,
			"bedNumber": entry.BedNumber,
			"updatedAt": now(),
		},
		"$push": bson.M{"allocationHistory": entry},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Deallocate clears the student's room assignment and closes the latest open history entry.
func (r *StudentRepository) Deallocate(ctx context.Context, id primitive.ObjectID) error {
	ts := now()
	update := bson.M{
		"$set": bson.M{
			"allocationHistory.$[open].deallocatedAt": ts,
			"updatedAt":                               ts,
		},
		"$unset": bson.M{"room": "", "bedNumber": ""},
	}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"open.deallocatedAt": nil}},
	})
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update, opts)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPassword stores a new password hash for the student.
func (r *StudentRepository) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	update := bson.M{"$set": bson.M{"passwordHash": hash, "updatedAt": now()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearPassword removes the stored hash, used to roll back a failed invite resend.
func (r *StudentRepository) ClearPassword(ctx context.Context, id primitive.ObjectID, previousHash string) error {
	var update bson.M
	if previousHash == "" {
		update = bson.M{"$unset": bson.M{"passwordHash": ""}, "$set": bson.M{"updatedAt": now()}}
	} else {
		update = bson.M{"$set": bson.M{"passwordHash": previousHash, "updatedAt": now()}}
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendWhatsAppHistory records a sent alert on the student document.
func (r *StudentRepository) AppendWhatsAppHistory(ctx context.Context, id primitive.ObjectID, entry models.WhatsAppHistoryEntry) error {
	update := bson.M{"$push": bson.M{"whatsappHistory": entry}, "$set": bson.M{"updatedAt": now()}}
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

func (r *StudentRepository) Delete(ctx context.Context, id string, hostelID primitive.ObjectID) error {
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

func (r *StudentRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *StudentRepository) CountByHostel(ctx context.Context, hostelID primitive.ObjectID) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"hostelId": hostelID})
}

func (r *StudentRepository) CountAllocated(ctx context.Context, hostelID primitive.ObjectID) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"hostelId": hostelID, "room": bson.M{"$ne": nil}})
}

// RoomDistribution summarizes how many students occupy each room of the hostel.
type RoomDistribution struct {
	RoomID     primitive.ObjectID `bson:"_id" json:"roomId"`
	RoomNumber string             `bson:"roomNumber" json:"roomNumber"`
	Count      int64              `bson:"count" json:"count"`
}

// Distribution aggregates allocated students per room for reporting.
func (r *StudentRepository) Distribution(ctx context.Context, hostelID primitive.ObjectID) ([]RoomDistribution, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"hostelId": hostelID, "room": bson.M{"$ne": nil}}}},
		{{Key: "$group", Value: bson.M{"_id": "$room", "count": bson.M{"$sum": 1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         models.Room{}.CollectionName(),
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "room",
		}}},
		{{Key: "$unwind", Value: "$room"}},
		{{Key: "$project", Value: bson.M{"roomNumber": "$room.number", "count": 1}}},
		{{Key: "$sort", Value: bson.M{"roomNumber": 1}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	dist := []RoomDistribution{}
	if err := cursor.All(ctx, &dist); err != nil {
		return nil, err
	}
	return dist, nil
}
