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

type DeviceRepository struct {
	coll *mongo.Collection
}

func NewDeviceRepo(db *mongo.Database) *DeviceRepository {
	return &DeviceRepository{coll: db.Collection(models.Device{}.CollectionName())}
}

// FindOwned retrieves a device only if it belongs to the given hostel.
func (r *DeviceRepository) FindOwned(ctx context.Context, id string, hostelID primitive.ObjectID) (*models.Device, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	var device models.Device
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid, "hostelId": hostelID}).Decode(&device); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &device, nil
}

// ListByHostel returns the devices of a hostel, newest first.
func (r *DeviceRepository) ListByHostel(ctx context.Context, hostelID primitive.ObjectID) ([]models.Device, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"hostelId": hostelID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	devices := []models.Device{}
	if err := cursor.All(ctx, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

func (r *DeviceRepository) Create(ctx context.Context, device *models.Device) error {
	device.CreatedAt = now()
	device.UpdatedAt = device.CreatedAt
	res, err := r.coll.InsertOne(ctx, device)
	if err != nil {
		return err
	}
	device.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// UpdateFields applies a partial update to an owned device and returns the updated document.
func (r *DeviceRepository) UpdateFields(ctx context.Context, id string, hostelID primitive.ObjectID, fields bson.M) (*models.Device, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	fields["updatedAt"] = now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var device models.Device
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid, "hostelId": hostelID}, bson.M{"$set": fields}, opts).Decode(&device)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &device, nil
}

func (r *DeviceRepository) Delete(ctx context.Context, id string, hostelID primitive.ObjectID) error {
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

func (r *DeviceRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *DeviceRepository) CountByHostel(ctx context.Context, hostelID primitive.ObjectID) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"hostelId": hostelID})
}
