package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"crmhub/internal/models"
	"crmhub/internal/repositories"
)

type LeadService struct {
	Repo     repositories.LeadRepository
	criteria models.LeadScoringCriteria
}

func NewLeadService(repo repositories.LeadRepository) *LeadService {
	return &LeadService{Repo: repo, criteria: models.DefaultScoringCriteria}
}

// CalculateLeadScore sums the per-field points and the source weight,
// clamped to 0..100.
func CalculateLeadScore(lead *models.Lead, criteria models.LeadScoringCriteria) int {
	score := 0
	if lead.Email != "" {
		score += criteria.HasEmail
	}
	if lead.Phone != "" {
		score += criteria.HasPhone
	}
	if lead.Company != "" {
		score += criteria.HasCompany
	}
	if lead.JobTitle != "" {
		score += criteria.HasJobTitle
	}
	if lead.Source != "" {
		score += criteria.SourceWeights[lead.Source]
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// RatingFromScore: HOT >= 70, WARM >= 40, otherwise COLD.
func RatingFromScore(score int) models.LeadRating {
	switch {
	case score >= 70:
		return models.RatingHot
	case score >= 40:
		return models.RatingWarm
	default:
		return models.RatingCold
	}
}

func (s *LeadService) rescore(lead *models.Lead) {
	lead.Score = CalculateLeadScore(lead, s.criteria)
	lead.Rating = RatingFromScore(lead.Score)
}

func (s *LeadService) Create(ctx context.Context, lead *models.Lead) error {
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	if lead.Status == "" {
		lead.Status = models.LeadStatusNew
	}
	now := time.Now()
	lead.CreatedAt = now
	lead.UpdatedAt = now
	s.rescore(lead)
	return s.Repo.Create(ctx, lead)
}

func (s *LeadService) GetByID(ctx context.Context, id string) (*models.Lead, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *LeadService) List(ctx context.Context, filter models.LeadFilter, limit, offset int) ([]models.Lead, error) {
	return s.Repo.List(ctx, filter, limit, offset)
}

func (s *LeadService) Update(ctx context.Context, lead *models.Lead) error {
	lead.UpdatedAt = time.Now()
	s.rescore(lead)
	return s.Repo.Update(ctx, lead)
}

func (s *LeadService) Delete(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}
