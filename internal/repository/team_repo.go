package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/capstone-go-api/internal/models"
)

// TeamRepository exposes the roster lookups the engine needs. Roster
// management itself lives in another service.
type TeamRepository interface {
	GetByID(ctx context.Context, id uint) (models.Team, error)
	ListByGrade(ctx context.Context, gradeID uint) ([]models.Team, error)
	GetForAccount(ctx context.Context, accountID uint) (models.Team, error)
}

type teamRepository struct {
	db *gorm.DB
}

// NewTeamRepository instantiates the repository.
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) GetByID(ctx context.Context, id uint) (models.Team, error) {
	var team models.Team
	if err := r.db.WithContext(ctx).First(&team, id).Error; err != nil {
		return models.Team{}, err
	}

	return team, nil
}

func (r *teamRepository) ListByGrade(ctx context.Context, gradeID uint) ([]models.Team, error) {
	var teams []models.Team
	if err := r.db.WithContext(ctx).
		Where("grade_id = ?", gradeID).
		Order("name ASC").
		Find(&teams).Error; err != nil {
		return nil, err
	}

	return teams, nil
}

func (r *teamRepository) GetForAccount(ctx context.Context, accountID uint) (models.Team, error) {
	var team models.Team
	if err := r.db.WithContext(ctx).
		Joins("JOIN team_members ON team_members.team_id = teams.id").
		Where("team_members.account_id = ?", accountID).
		First(&team).Error; err != nil {
		return models.Team{}, err
	}

	return team, nil
}
