package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/capstone-go-api/internal/dto"
	"github.com/noah-isme/capstone-go-api/internal/lifecycle"
	"github.com/noah-isme/capstone-go-api/internal/repository"
)

// ErrReportNotFound indicates a report could not be found.
var ErrReportNotFound = errors.New("report not found")

// ReportService drives the report confirmation machine: submitted, then
// confirmed (terminal). Confirming twice is a no-op success.
type ReportService interface {
	ConfirmSingle(ctx context.Context, reportID uint) (dto.ReportResponse, error)
	ConfirmAllForSubmitter(ctx context.Context, payload dto.ConfirmAllReportsRequest) (dto.ConfirmAllReportsResponse, error)
}

type reportService struct {
	reports   repository.ReportRepository
	validator *validator.Validate
	clock     lifecycle.Clock
	logger    zerolog.Logger
}

// NewReportService constructs a ReportService instance.
func NewReportService(reportRepo repository.ReportRepository, validate *validator.Validate, clock lifecycle.Clock, logger zerolog.Logger) ReportService {
	return &reportService{
		reports:   reportRepo,
		validator: validate,
		clock:     clock,
		logger:    logger.With().Str("component", "report_service").Logger(),
	}
}

func (s *reportService) ConfirmSingle(ctx context.Context, reportID uint) (dto.ReportResponse, error) {
	affected, err := s.reports.Confirm(ctx, reportID, s.clock.Now())
	if err != nil {
		return dto.ReportResponse{}, err
	}

	report, getErr := s.reports.GetByID(ctx, reportID)
	if getErr != nil {
		if errors.Is(getErr, gorm.ErrRecordNotFound) {
			return dto.ReportResponse{}, ErrReportNotFound
		}
		return dto.ReportResponse{}, getErr
	}

	if affected > 0 {
		s.logger.Info().Uint("report_id", reportID).Msg("report confirmed")
	}

	return dto.NewReportResponse(report), nil
}

// ConfirmAllForSubmitter confirms every unconfirmed report of one account.
// The bulk operation is best effort: one report's failure is recorded and
// the rest proceed.
func (s *reportService) ConfirmAllForSubmitter(ctx context.Context, payload dto.ConfirmAllReportsRequest) (dto.ConfirmAllReportsResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ConfirmAllReportsResponse{}, err
	}

	reports, err := s.reports.ListUnconfirmedByAccount(ctx, payload.AccountID)
	if err != nil {
		return dto.ConfirmAllReportsResponse{}, err
	}

	response := dto.ConfirmAllReportsResponse{
		Succeeded: make([]uint, 0, len(reports)),
		Failed:    make([]dto.ReportFailure, 0),
	}

	for _, report := range reports {
		if _, err := s.reports.Confirm(ctx, report.ID, s.clock.Now()); err != nil {
			s.logger.Warn().Err(err).Uint("report_id", report.ID).Msg("failed to confirm report")
			response.Failed = append(response.Failed, dto.ReportFailure{
				ReportID: report.ID,
				Reason:   err.Error(),
			})
			continue
		}
		response.Succeeded = append(response.Succeeded, report.ID)
	}

	return response, nil
}
