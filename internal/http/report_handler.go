package http

import (
	"net/http"
	"time"

	"github.com/tnvu/storefront/internal/apperr"
	"github.com/tnvu/storefront/internal/http/middleware"
)

const reportDateLayout = "2006-01-02"

func (s *Service) dailyReport(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerFromContext(r.Context())
	if !ok {
		s.respondError(w, r, apperr.InvalidTokenErr)
		return
	}

	report, err := s.reportSvc.DailyReport(r.Context(), ownerID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, r, http.StatusOK, report)
}

func (s *Service) periodReport(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerFromContext(r.Context())
	if !ok {
		s.respondError(w, r, apperr.InvalidTokenErr)
		return
	}

	start, err := parseReportDate(r, "start")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	end, err := parseReportDate(r, "end")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	rows, err := s.reportSvc.PeriodReport(r.Context(), ownerID, start, end)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, r, http.StatusOK, rows)
}

func (s *Service) bestSellers(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerFromContext(r.Context())
	if !ok {
		s.respondError(w, r, apperr.InvalidTokenErr)
		return
	}

	limit := queryInt(r, "limit", 10)

	sellers, err := s.reportSvc.BestSellers(r.Context(), ownerID, limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, r, http.StatusOK, sellers)
}

func parseReportDate(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, apperr.ValidationErr.WithMsg("%s date is required", name)
	}

	t, err := time.Parse(reportDateLayout, raw)
	if err != nil {
		return time.Time{}, apperr.ValidationErr.WithMsg("%s must be a date in %s format", name, reportDateLayout)
	}

	return t, nil
}
