// File: database/repository/timetable/interface.go
package timetableRepo

import (
	"context"

	"clinicsite/database"
	"clinicsite/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ReplaceOptions controls a singleton write. A nil ExpectedVersion means last
// writer wins; 0 means the document must not exist yet.
type ReplaceOptions struct {
	ExpectedVersion *int64
	UpdatedBy       string
}

type TimetableRepository interface {
	Get(ctx context.Context) (*models.TimetableDocument, error)
	Replace(ctx context.Context, schedule []models.DaySchedule, opts ReplaceOptions) (*models.TimetableDocument, error)
}

type mongoTimetableRepo struct {
	coll *mongo.Collection
}

// NewMongoTimetableRepo constructs a new MongoDB TimetableRepository.
func NewMongoTimetableRepo() TimetableRepository {
	return NewMongoTimetableRepoWithCollection(database.Database().Collection("timetable"))
}

// NewMongoTimetableRepoWithCollection binds the repository to an explicit collection.
func NewMongoTimetableRepoWithCollection(coll *mongo.Collection) TimetableRepository {
	return &mongoTimetableRepo{coll: coll}
}
