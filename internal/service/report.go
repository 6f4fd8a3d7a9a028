package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tnvu/storefront/internal/apperr"
	"github.com/tnvu/storefront/internal/model"
	"github.com/tnvu/storefront/internal/repository"
)

const (
	bestSellersMinLimit = 1
	bestSellersMaxLimit = 100
)

// ReportService answers the owner-scoped sale aggregates. Calendar-day
// boundaries are computed in the configured reporting timezone, never in
// whatever zone the server or database happens to run in.
type ReportService interface {
	DailyReport(ctx context.Context, ownerID uuid.UUID) (model.DailySales, error)
	// PeriodReport covers sales created within the inclusive [start, end]
	// date range.
	PeriodReport(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]model.PeriodSaleRow, error)
	BestSellers(ctx context.Context, ownerID uuid.UUID, limit int) ([]model.BestSeller, error)
}

type reportService struct {
	reportRepo repository.ReportRepository
	loc        *time.Location
	now        func() time.Time
}

func NewReportService(reportRepo repository.ReportRepository, loc *time.Location) ReportService {
	return &reportService{
		reportRepo: reportRepo,
		loc:        loc,
		now:        time.Now,
	}
}

func (s *reportService) DailyReport(ctx context.Context, ownerID uuid.UUID) (model.DailySales, error) {
	dayStart := startOfDay(s.now().In(s.loc))
	dayEnd := dayStart.AddDate(0, 0, 1)

	report, err := s.reportRepo.DailyTotals(ctx, ownerID, dayStart, dayEnd)
	if err != nil {
		return model.DailySales{}, fmt.Errorf("daily report: %w", err)
	}

	return report, nil
}

func (s *reportService) PeriodReport(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]model.PeriodSaleRow, error) {
	if end.Before(start) {
		return nil, apperr.ValidationErr.WithMsg("end date must not be before start date")
	}

	// The caller supplies calendar dates; reinterpret their components in the
	// reporting timezone instead of converting the parsed instant, which
	// would shift the day in zones behind UTC. The inclusive end date
	// becomes an exclusive next-day bound.
	rangeStart := dateIn(start, s.loc)
	rangeEnd := dateIn(end, s.loc).AddDate(0, 0, 1)

	rows, err := s.reportRepo.PeriodRows(ctx, ownerID, rangeStart, rangeEnd)
	if err != nil {
		return nil, fmt.Errorf("period report: %w", err)
	}

	return rows, nil
}

func (s *reportService) BestSellers(ctx context.Context, ownerID uuid.UUID, limit int) ([]model.BestSeller, error) {
	if limit < bestSellersMinLimit || limit > bestSellersMaxLimit {
		return nil, apperr.ValidationErr.WithMsg(
			"limit must be between %d and %d", bestSellersMinLimit, bestSellersMaxLimit)
	}

	sellers, err := s.reportRepo.BestSellers(ctx, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("best sellers: %w", err)
	}

	return sellers, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// dateIn rebuilds t's calendar date at midnight in loc.
func dateIn(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
