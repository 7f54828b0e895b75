// File: services/timetable/service.go
package timetable

import (
	"context"
	"errors"
	"fmt"
	"time"

	timetableRepo "clinicsite/database/repository/timetable"
	"clinicsite/models"

	"go.uber.org/zap"
)

// GetTimetable returns the singleton, preferring the cache. Cache failures are
// logged and the store is consulted instead.
func (s *DefaultTimetableService) GetTimetable(ctx context.Context) (*models.TimetableDocument, error) {
	if s.Cache != nil {
		doc, err := s.Cache.Get(ctx)
		if err != nil {
			s.Logger.Warn("timetable cache read failed", zap.Error(err))
		} else if doc != nil {
			s.Metrics.ObserveOperation("fetch", "cache_hit")
			return doc, nil
		}
	}

	start := time.Now()
	doc, err := s.Repo.Get(ctx)
	s.Metrics.ObserveStoreLatency("fetch", time.Since(start).Seconds())
	switch {
	case errors.Is(err, models.ErrTimetableNotFound):
		s.Metrics.ObserveOperation("fetch", "not_found")
		return nil, err
	case err != nil:
		s.Metrics.ObserveOperation("fetch", "error")
		s.Logger.Error("failed to load timetable", zap.Error(err))
		return nil, storeError(err)
	}

	s.Metrics.ObserveOperation("fetch", "ok")
	s.fillCache(ctx, doc)
	return doc, nil
}

// ReplaceTimetable filters the submitted schedule and, if anything valid is
// left, replaces the stored one wholesale.
func (s *DefaultTimetableService) ReplaceTimetable(ctx context.Context, in ReplaceInput) (*ReplaceResult, error) {
	schedule, warnings, err := Normalize(in.Schedule)
	for _, w := range warnings {
		s.Metrics.ObserveDropped(w.Reason)
	}
	if err != nil {
		s.Metrics.ObserveOperation("replace", "rejected")
		s.Logger.Info("timetable write rejected",
			zap.Error(err),
			zap.Int("warnings", len(warnings)),
			zap.String("actor", in.Actor))
		return nil, err
	}

	start := time.Now()
	doc, err := s.Repo.Replace(ctx, schedule, timetableRepo.ReplaceOptions{
		ExpectedVersion: in.ExpectedVersion,
		UpdatedBy:       in.Actor,
	})
	s.Metrics.ObserveStoreLatency("replace", time.Since(start).Seconds())
	switch {
	case errors.Is(err, models.ErrVersionConflict):
		s.Metrics.ObserveOperation("replace", "conflict")
		s.Logger.Info("timetable write lost a version race",
			zap.Int64p("expectedVersion", in.ExpectedVersion),
			zap.String("actor", in.Actor))
		return nil, err
	case err != nil:
		s.Metrics.ObserveOperation("replace", "error")
		s.Logger.Error("failed to replace timetable", zap.Error(err))
		return nil, storeError(err)
	}

	// A stale cached copy must not outlive a failed refresh.
	if !s.fillCache(ctx, doc) && s.Cache != nil {
		if err := s.Cache.Invalidate(ctx); err != nil {
			s.Logger.Warn("timetable cache invalidation failed", zap.Error(err))
		}
	}

	s.Metrics.ObserveOperation("replace", "ok")
	s.Logger.Info("timetable replaced",
		zap.Int64("version", doc.Version),
		zap.Int("days", len(doc.Schedule)),
		zap.Int("warnings", len(warnings)),
		zap.String("actor", in.Actor))
	return &ReplaceResult{Document: doc, Warnings: warnings}, nil
}

func (s *DefaultTimetableService) fillCache(ctx context.Context, doc *models.TimetableDocument) bool {
	if s.Cache == nil {
		return false
	}
	if err := s.Cache.Set(ctx, doc); err != nil {
		s.Logger.Warn("timetable cache write failed", zap.Error(err))
		return false
	}
	return true
}

func storeError(err error) error {
	if errors.Is(err, models.ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", models.ErrStoreUnavailable, err)
}
