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

type StaffRepository struct {
	coll *mongo.Collection
}

func NewStaffRepo(db *mongo.Database) *StaffRepository {
	return &StaffRepository{coll: db.Collection(models.Staff{}.CollectionName())}
}

// FindByID retrieves a staff member by id.
func (r *StaffRepository) FindByID(ctx context.Context, id string) (*models.Staff, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	var staff models.Staff
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&staff); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &staff, nil
}

// FindOwned retrieves a staff member only if it belongs to the given hostel.
func (r *StaffRepository) FindOwned(ctx context.Context, id string, hostelID primitive.ObjectID) (*models.Staff, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	var staff models.Staff
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid, "hostelId": hostelID}).Decode(&staff); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &staff, nil
}

// FindByEmail retrieves a staff member by email, case insensitive on the stored form.
func (r *StaffRepository) FindByEmail(ctx context.Context, email string) (*models.Staff, error) {
	var staff models.Staff
	err := r.coll.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}).Decode(&staff)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &staff, nil
}

// ListByHostel returns all staff of a hostel, newest first.
func (r *StaffRepository) ListByHostel(ctx context.Context, hostelID primitive.ObjectID) ([]models.Staff, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"hostelId": hostelID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	staff := []models.Staff{}
	if err := cursor.All(ctx, &staff); err != nil {
		return nil, err
	}
	return staff, nil
}

func (r *StaffRepository) Create(ctx context.Context, staff *models.Staff) error {
	staff.Email = strings.ToLower(strings.TrimSpace(staff.Email))
	staff.CreatedAt = now()
	staff.UpdatedAt = staff.CreatedAt
	res, err := r.coll.InsertOne(ctx, staff)
	if err != nil {
		return err
	}
	staff.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// UpdateFields applies a partial update to an owned staff record and returns the updated document.
func (r *StaffRepository) UpdateFields(ctx context.Context, id string, hostelID primitive.ObjectID, fields bson.M) (*models.Staff, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	fields["updatedAt"] = now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var staff models.Staff
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid, "hostelId": hostelID}, bson.M{"$set": fields}, opts).Decode(&staff)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &staff, nil
}

// SetPassword stores a new password hash for the staff member.
func (r *StaffRepository) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
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

func (r *StaffRepository) Delete(ctx context.Context, id string, hostelID primitive.ObjectID) error {
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

func (r *StaffRepository) CountByHostel(ctx context.Context, hostelID primitive.ObjectID) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"hostelId": hostelID})
}
