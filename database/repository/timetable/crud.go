// File: database/repository/timetable/crud.go
package timetableRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"clinicsite/models"
)

func (r *mongoTimetableRepo) Get(ctx context.Context) (*models.TimetableDocument, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc models.TimetableDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": models.TimetableDocumentID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrTimetableNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrStoreUnavailable, err)
	}
	materialize(&doc)
	return &doc, nil
}

// Replace overwrites the whole schedule in one findAndModify. The document is
// created on first write; a stale ExpectedVersion leaves it untouched.
func (r *mongoTimetableRepo) Replace(ctx context.Context, schedule []models.DaySchedule, opts ReplaceOptions) (*models.TimetableDocument, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"_id": models.TimetableDocumentID}
	upsert := true
	if opts.ExpectedVersion != nil {
		if *opts.ExpectedVersion == 0 {
			filter["version"] = bson.M{"$exists": false}
		} else {
			filter["version"] = *opts.ExpectedVersion
			upsert = false
		}
	}

	set := bson.M{
		"schedule":  normalizeForStore(schedule),
		"revision":  uuid.New().String(),
		"updatedAt": time.Now().UTC(),
		"updatedBy": opts.UpdatedBy,
	}
	update := bson.M{"$set": set, "$inc": bson.M{"version": int64(1)}}
	findOpts := options.FindOneAndUpdate().
		SetUpsert(upsert).
		SetReturnDocument(options.After)

	var doc models.TimetableDocument
	err := r.coll.FindOneAndUpdate(ctx, filter, update, findOpts).Decode(&doc)
	switch {
	case err == nil:
	case opts.ExpectedVersion != nil && (errors.Is(err, mongo.ErrNoDocuments) || mongo.IsDuplicateKeyError(err)):
		return nil, models.ErrVersionConflict
	default:
		return nil, fmt.Errorf("%w: %w", models.ErrStoreUnavailable, err)
	}
	materialize(&doc)
	return &doc, nil
}

// normalizeForStore makes sure nil slices are written as empty arrays.
func normalizeForStore(schedule []models.DaySchedule) []models.DaySchedule {
	out := make([]models.DaySchedule, len(schedule))
	for i, day := range schedule {
		out[i] = day
		if out[i].Timings == nil {
			out[i].Timings = []models.Timing{}
		}
	}
	return out
}

func materialize(doc *models.TimetableDocument) {
	if doc.Schedule == nil {
		doc.Schedule = []models.DaySchedule{}
	}
	for i := range doc.Schedule {
		if doc.Schedule[i].Timings == nil {
			doc.Schedule[i].Timings = []models.Timing{}
		}
	}
}
