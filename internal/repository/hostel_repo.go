package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"hostel-management-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type HostelRepository struct {
	coll *mongo.Collection
}

func NewHostelRepo(db *mongo.Database) *HostelRepository {
	return &HostelRepository{coll: db.Collection(models.Hostel{}.CollectionName())}
}

// FindByID retrieves a hostel by its id.
func (r *HostelRepository) FindByID(ctx context.Context, id string) (*models.Hostel, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	var hostel models.Hostel
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&hostel); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &hostel, nil
}

// FindByContactEmail retrieves a hostel by its admin login email. Contact
// emails are stored lowercase, so the lookup is case-insensitive.
func (r *HostelRepository) FindByContactEmail(ctx context.Context, email string) (*models.Hostel, error) {
	var hostel models.Hostel
	err := r.coll.FindOne(ctx, bson.M{"contactEmail": strings.ToLower(email)}).Decode(&hostel)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &hostel, nil
}

// ExistsByCode reports whether a hostel with the given code already exists.
func (r *HostelRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"code": code})
	return count > 0, err
}

// List retrieves all hostels, newest first.
func (r *HostelRepository) List(ctx context.Context) ([]models.Hostel, error) {
	cursor, err := r.coll.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var hostels []models.Hostel
	if err := cursor.All(ctx, &hostels); err != nil {
		return nil, err
	}
	return hostels, nil
}

// Create inserts a new hostel and fills in its id and timestamps.
func (r *HostelRepository) Create(ctx context.Context, hostel *models.Hostel) error {
	hostel.ContactEmail = strings.ToLower(hostel.ContactEmail)
	hostel.CreatedAt = now()
	hostel.UpdatedAt = hostel.CreatedAt
	res, err := r.coll.InsertOne(ctx, hostel)
	if err != nil {
		return err
	}
	hostel.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// UpdateFields applies a partial update and returns the updated document.
func (r *HostelRepository) UpdateFields(ctx context.Context, id string, set bson.M) (*models.Hostel, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	set["updatedAt"] = now()
	var updated models.Hostel
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
}

// SetPassword stores a new password hash for the hostel-admin login.
func (r *HostelRepository) SetPassword(ctx context.Context, id, hash string, at time.Time) error {
	_, err := r.UpdateFields(ctx, id, bson.M{"passwordHash": hash, "passwordSetAt": at})
	return err
}

// Delete removes a hostel document.
func (r *HostelRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of hostels.
func (r *HostelRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

// PingRoundtrip issues a trivial read used by the dashboard to approximate the
// database roundtrip latency.
func (r *HostelRepository) PingRoundtrip(ctx context.Context) error {
	err := r.coll.FindOne(ctx, bson.M{}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	return err
}
