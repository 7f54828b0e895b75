package timetable

import (
	"context"
	"fmt"

	timetableRepo "clinicsite/database/repository/timetable"
	"clinicsite/models"

	"go.uber.org/zap"
)

// ReplaceInput is a full-replacement write. ExpectedVersion, when set, turns the
// write into a compare-and-swap against the stored version.
type ReplaceInput struct {
	Schedule        any
	ExpectedVersion *int64
	Actor           string
}

// ReplaceResult is what was persisted plus everything that was dropped or merged.
type ReplaceResult struct {
	Document *models.TimetableDocument
	Warnings []models.TimetableWarning
}

type TimetableService interface {
	GetTimetable(ctx context.Context) (*models.TimetableDocument, error)
	ReplaceTimetable(ctx context.Context, in ReplaceInput) (*ReplaceResult, error)
}

// DefaultTimetableService is the production implementation. Cache and Metrics
// are optional.
type DefaultTimetableService struct {
	Repo    timetableRepo.TimetableRepository
	Cache   TimetableCache
	Metrics *Metrics
	Logger  *zap.Logger
}

func NewDefaultTimetableService(
	repo timetableRepo.TimetableRepository,
	cache TimetableCache,
	metrics *Metrics,
	logger *zap.Logger,
) (*DefaultTimetableService, error) {
	if repo == nil {
		return nil, fmt.Errorf("timetable service initialization error: repository is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultTimetableService{
		Repo:    repo,
		Cache:   cache,
		Metrics: metrics,
		Logger:  logger,
	}, nil
}
