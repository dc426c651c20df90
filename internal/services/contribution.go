package services

import (
	"errors"
	"fmt"

	"github.com/njeri-dev/tafsiri/internal/models"
	"github.com/njeri-dev/tafsiri/pkg/response"
	"gorm.io/gorm"
)

// ContributionService owns contribution CRUD. Status changes go through
// ModerationService so every transition leaves an audit row.
type ContributionService struct {
	db *gorm.DB
}

func NewContributionService(db *gorm.DB) *ContributionService {
	return &ContributionService{db: db}
}

type CreateContributionRequest struct {
	SourceText      string `json:"source_text" binding:"required"`
	TargetText      string `json:"target_text" binding:"required"`
	Language        string `json:"language"`
	DifficultyLevel string `json:"difficulty_level"`
	ContextNotes    string `json:"context_notes"`
	CulturalNotes   string `json:"cultural_notes"`
	CategoryIDs     []uint `json:"category_ids"`
}

type UpdateContributionRequest struct {
	SourceText      *string `json:"source_text"`
	TargetText      *string `json:"target_text"`
	DifficultyLevel *string `json:"difficulty_level"`
	ContextNotes    *string `json:"context_notes"`
	CulturalNotes   *string `json:"cultural_notes"`
	CategoryIDs     []uint  `json:"category_ids"`
}

type ContributionListRequest struct {
	Page       int    `form:"page" binding:"min=0"`
	PageSize   int    `form:"page_size" binding:"min=0,max=100"`
	Status     string `form:"status"`
	Difficulty string `form:"difficulty"`
	CategoryID uint   `form:"category_id"`
	CreatedBy  uint   `form:"created_by"`
	Search     string `form:"search"`
}

type ContributionListResponse struct {
	Total    int64                 `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
	Items    []models.Contribution `json:"items"`
}

// Create stores a new pending contribution owned by the caller.
func (s *ContributionService) Create(req *CreateContributionRequest, userID uint) (*models.Contribution, error) {
	difficulty := req.DifficultyLevel
	if difficulty == "" {
		difficulty = models.DifficultyBeginner
	}
	if _, err := models.ParseDifficulty(difficulty); err != nil {
		return nil, response.NewBadRequest(err.Error())
	}

	language := req.Language
	if language == "" {
		language = "kikuyu"
	}

	contribution := models.Contribution{
		SourceText:      req.SourceText,
		TargetText:      req.TargetText,
		Language:        language,
		Status:          models.StatusPending,
		DifficultyLevel: difficulty,
		ContextNotes:    req.ContextNotes,
		CulturalNotes:   req.CulturalNotes,
		CreatedBy:       userID,
	}

	if len(req.CategoryIDs) > 0 {
		var categories []models.Category
		if err := s.db.Find(&categories, req.CategoryIDs).Error; err != nil {
			return nil, err
		}
		contribution.Categories = categories
	}

	if err := s.db.Create(&contribution).Error; err != nil {
		return nil, err
	}
	return &contribution, nil
}

// GetByID loads a contribution with its categories and creator.
func (s *ContributionService) GetByID(id uint) (*models.Contribution, error) {
	var contribution models.Contribution
	err := s.db.Preload("Categories").Preload("Creator").First(&contribution, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewNotFound(fmt.Sprintf("contribution %d not found", id))
	}
	if err != nil {
		return nil, err
	}
	return &contribution, nil
}

// List returns a filtered, paginated page of contributions.
func (s *ContributionService) List(req *ContributionListRequest) (*ContributionListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	query := s.db.Model(&models.Contribution{})

	if req.Status != "" {
		if _, err := models.ParseStatus(req.Status); err != nil {
			return nil, response.NewBadRequest(err.Error())
		}
		query = query.Where("status = ?", req.Status)
	}
	if req.Difficulty != "" {
		if _, err := models.ParseDifficulty(req.Difficulty); err != nil {
			return nil, response.NewBadRequest(err.Error())
		}
		query = query.Where("difficulty_level = ?", req.Difficulty)
	}
	if req.CreatedBy != 0 {
		query = query.Where("created_by = ?", req.CreatedBy)
	}
	if req.CategoryID != 0 {
		query = query.
			Joins("JOIN contribution_categories cc ON cc.contribution_id = contributions.id").
			Where("cc.category_id = ?", req.CategoryID)
	}
	if req.Search != "" {
		like := "%" + req.Search + "%"
		query = query.Where("source_text LIKE ? OR target_text LIKE ?", like, like)
	}

	var total int64
	query.Count(&total)

	var items []models.Contribution
	offset := (req.Page - 1) * req.PageSize
	if err := query.Preload("Categories").
		Offset(offset).Limit(req.PageSize).
		Order("contributions.created_at DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}

	return &ContributionListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    items,
	}, nil
}

// Update edits a pending contribution. Only the owner may edit, and only
// while the contribution is pending.
func (s *ContributionService) Update(id uint, req *UpdateContributionRequest, userID uint) (*models.Contribution, error) {
	contribution, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if contribution.CreatedBy != userID {
		return nil, response.NewForbidden("only the owner can edit a contribution")
	}
	if contribution.Status != models.StatusPending {
		return nil, response.NewConflict("only pending contributions can be edited")
	}

	updates := map[string]interface{}{}
	if req.SourceText != nil {
		updates["source_text"] = *req.SourceText
	}
	if req.TargetText != nil {
		updates["target_text"] = *req.TargetText
	}
	if req.DifficultyLevel != nil {
		if _, err := models.ParseDifficulty(*req.DifficultyLevel); err != nil {
			return nil, response.NewBadRequest(err.Error())
		}
		updates["difficulty_level"] = *req.DifficultyLevel
	}
	if req.ContextNotes != nil {
		updates["context_notes"] = *req.ContextNotes
	}
	if req.CulturalNotes != nil {
		updates["cultural_notes"] = *req.CulturalNotes
	}

	if len(updates) > 0 {
		if err := s.db.Model(contribution).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	if req.CategoryIDs != nil {
		var categories []models.Category
		if err := s.db.Find(&categories, req.CategoryIDs).Error; err != nil {
			return nil, err
		}
		if err := s.db.Model(contribution).Association("Categories").Replace(categories); err != nil {
			return nil, err
		}
	}

	return s.GetByID(id)
}

// Delete removes a pending contribution. Owner-only; approved and rejected
// contributions are permanent.
func (s *ContributionService) Delete(id uint, userID uint) error {
	contribution, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if contribution.CreatedBy != userID {
		return response.NewForbidden("only the owner can delete a contribution")
	}
	if contribution.Status != models.StatusPending {
		return response.NewConflict("only pending contributions can be deleted")
	}
	return s.db.Delete(&models.Contribution{}, id).Error
}

// ApprovedTexts returns source texts of approved contributions, used to train
// the spell checker at startup.
func (s *ContributionService) ApprovedTexts(limit int) ([]string, error) {
	if limit <= 0 {
		limit = 5000
	}
	var texts []string
	err := s.db.Model(&models.Contribution{}).
		Where("status = ?", models.StatusApproved).
		Order("id").
		Limit(limit).
		Pluck("source_text", &texts).Error
	return texts, err
}
