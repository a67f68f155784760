package repository

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// attendanceSuffix is appended to the sanitized hostel display name to form
// the per-hostel punch log collection.
const attendanceSuffix = "_attendance_logs"

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// AttendanceCollectionName derives the punch log collection for a hostel from
// its display name. Every run of the system must produce the same name for
// the same hostel, so this is the only place the mapping lives.
func AttendanceCollectionName(displayName string) string {
	return nonAlphanumeric.ReplaceAllString(displayName, "_") + attendanceSuffix
}

// BuildIdentifierFilter matches punch documents whose device-side identifier
// equals any of the candidate ids. Devices write the identifier under
// different field names and sometimes pad it with whitespace, so each
// candidate is matched with a trimming anchor regex across all known fields.
// An empty candidate set returns nil; callers treat that as no results rather
// than a match-all.
func BuildIdentifierFilter(candidateIDs []string) bson.M {
	if len(candidateIDs) == 0 {
		return nil
	}
	fields := []string{"user_id", "uid", "deviceUserId"}
	clauses := make([]bson.M, 0, len(candidateIDs)*len(fields))
	for _, id := range candidateIDs {
		pattern := primitive.Regex{Pattern: `^\s*` + regexp.QuoteMeta(id) + `\s*$`}
		for _, f := range fields {
			clauses = append(clauses, bson.M{f: pattern})
		}
	}
	return bson.M{"$or": clauses}
}

type AttendanceRepository struct {
	db *mongo.Database
}

func NewAttendanceRepo(db *mongo.Database) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// FindPunches returns raw punch documents from the hostel's log collection,
// newest first by device timestamp, capped at limit.
func (r *AttendanceRepository) FindPunches(ctx context.Context, collection string, filter bson.M, limit int64) ([]bson.M, error) {
	if filter == nil {
		return []bson.M{}, nil
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp_utc", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := []bson.M{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// FindPunchesBetween returns punch documents within [from, to), oldest first,
// used by the curfew evaluation which replays a night in order.
func (r *AttendanceRepository) FindPunchesBetween(ctx context.Context, collection string, filter bson.M, from, to time.Time) ([]bson.M, error) {
	if filter == nil {
		return []bson.M{}, nil
	}
	filter = bson.M{
		"$and": []bson.M{
			filter,
			{"timestamp_utc": bson.M{"$gte": from, "$lt": to}},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp_utc", Value: 1}})
	cursor, err := r.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := []bson.M{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// CountPunches counts matching punch documents in the hostel's log collection.
func (r *AttendanceRepository) CountPunches(ctx context.Context, collection string, filter bson.M) (int64, error) {
	if filter == nil {
		return 0, nil
	}
	return r.db.Collection(collection).CountDocuments(ctx, filter)
}

// CollectionExists reports whether the hostel's log collection has been
// created yet. Devices create it lazily on first punch.
func (r *AttendanceRepository) CollectionExists(ctx context.Context, collection string) (bool, error) {
	names, err := r.db.ListCollectionNames(ctx, bson.M{"name": collection})
	if err != nil {
		return false, err
	}
	return len(names) > 0, nil
}

// Rename moves a hostel's log collection after the hostel display name
// changes. The rename runs against the admin database and requires fully
// qualified namespaces.
func (r *AttendanceRepository) Rename(ctx context.Context, oldCollection, newCollection string) error {
	exists, err := r.CollectionExists(ctx, oldCollection)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	admin := r.db.Client().Database("admin")
	cmd := bson.D{
		{Key: "renameCollection", Value: r.db.Name() + "." + oldCollection},
		{Key: "to", Value: r.db.Name() + "." + newCollection},
	}
	return admin.RunCommand(ctx, cmd).Err()
}

// Ping verifies the underlying connection, surfaced on the health endpoint.
func (r *AttendanceRepository) Ping(ctx context.Context) error {
	return r.db.Client().Ping(ctx, readpref.Primary())
}
