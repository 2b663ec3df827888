package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/capstone-go-api/internal/models"
)

// ReportRepository defines data operations for progress reports.
type ReportRepository interface {
	GetByID(ctx context.Context, id uint) (models.Report, error)
	ListUnconfirmedByAccount(ctx context.Context, accountID uint) ([]models.Report, error)
	Confirm(ctx context.Context, id uint, now time.Time) (int64, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository instantiates the repository.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) GetByID(ctx context.Context, id uint) (models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).First(&report, id).Error; err != nil {
		return models.Report{}, err
	}

	return report, nil
}

func (r *reportRepository) ListUnconfirmedByAccount(ctx context.Context, accountID uint) ([]models.Report, error) {
	var reports []models.Report
	if err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Where("status_code <> ?", models.ReportStatusConfirmed).
		Order("created_at ASC").
		Find(&reports).Error; err != nil {
		return nil, err
	}

	return reports, nil
}

// Confirm is a guarded update: zero rows affected means the report is either
// absent or already confirmed, which the service tells apart with a re-read.
func (r *reportRepository) Confirm(ctx context.Context, id uint, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Report{}).
		Where("id = ?", id).
		Where("status_code <> ?", models.ReportStatusConfirmed).
		Updates(map[string]interface{}{
			"status_code": models.ReportStatusConfirmed,
			"updated_at":  now,
		})

	return result.RowsAffected, result.Error
}
