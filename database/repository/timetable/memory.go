// File: database/repository/timetable/memory.go
package timetableRepo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"clinicsite/models"
)

// memoryTimetableRepo keeps the singleton in process. It backs STORE_BACKEND=memory
// for local runs and the service tests, with the same version rules as Mongo.
type memoryTimetableRepo struct {
	mu  sync.Mutex
	doc *models.TimetableDocument
}

// NewInMemoryTimetableRepo constructs an empty in-process TimetableRepository.
func NewInMemoryTimetableRepo() TimetableRepository {
	return &memoryTimetableRepo{}
}

func (r *memoryTimetableRepo) Get(ctx context.Context) (*models.TimetableDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.doc == nil {
		return nil, models.ErrTimetableNotFound
	}
	return cloneDoc(r.doc), nil
}

func (r *memoryTimetableRepo) Replace(ctx context.Context, schedule []models.DaySchedule, opts ReplaceOptions) (*models.TimetableDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var current int64
	if r.doc != nil {
		current = r.doc.Version
	}
	if opts.ExpectedVersion != nil && *opts.ExpectedVersion != current {
		return nil, models.ErrVersionConflict
	}

	r.doc = cloneDoc(&models.TimetableDocument{
		ID:        models.TimetableDocumentID,
		Schedule:  normalizeForStore(schedule),
		Version:   current + 1,
		Revision:  uuid.New().String(),
		UpdatedAt: time.Now().UTC(),
		UpdatedBy: opts.UpdatedBy,
	})
	return cloneDoc(r.doc), nil
}

func cloneDoc(doc *models.TimetableDocument) *models.TimetableDocument {
	out := *doc
	out.Schedule = make([]models.DaySchedule, len(doc.Schedule))
	for i, day := range doc.Schedule {
		out.Schedule[i] = models.DaySchedule{
			Day:     day.Day,
			Timings: append([]models.Timing{}, day.Timings...),
		}
	}
	return &out
}
