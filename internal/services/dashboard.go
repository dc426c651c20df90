package services

import (
	"time"

	"github.com/njeri-dev/tafsiri/internal/models"
	"gorm.io/gorm"
)

type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

type DashboardStatsRequest struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

type DashboardStats struct {
	TotalContributions int64   `json:"total_contributions"`
	Pending            int64   `json:"pending"`
	Approved           int64   `json:"approved"`
	Rejected           int64   `json:"rejected"`
	Contributors       int64   `json:"contributors"`
	AverageScore       float64 `json:"average_score"`
}

type DifficultyStats struct {
	DifficultyLevel string `json:"difficulty_level"`
	Count           int64  `json:"count"`
}

type CategoryStats struct {
	CategoryID   uint   `json:"category_id"`
	CategoryName string `json:"category_name"`
	Count        int64  `json:"count"`
}

type DashboardResponse struct {
	Stats           DashboardStats    `json:"stats"`
	DifficultyStats []DifficultyStats `json:"difficulty_stats"`
	CategoryStats   []CategoryStats   `json:"category_stats"`
}

func (s *DashboardService) GetStats(req *DashboardStatsRequest) (*DashboardResponse, error) {
	var startDate, endDate time.Time
	var err error

	if req.StartDate != "" {
		startDate, err = time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			startDate = time.Now().AddDate(0, 0, -30)
		}
	} else {
		startDate = time.Now().AddDate(0, 0, -30)
	}

	if req.EndDate != "" {
		endDate, err = time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			endDate = time.Now()
		}
		endDate = endDate.Add(24*time.Hour - time.Second)
	} else {
		endDate = time.Now()
	}

	inRange := func() *gorm.DB {
		return s.db.Model(&models.Contribution{}).
			Where("created_at BETWEEN ? AND ?", startDate, endDate)
	}

	var stats DashboardStats
	inRange().Count(&stats.TotalContributions)
	inRange().Where("status = ?", models.StatusPending).Count(&stats.Pending)
	inRange().Where("status = ?", models.StatusApproved).Count(&stats.Approved)
	inRange().Where("status = ?", models.StatusRejected).Count(&stats.Rejected)
	inRange().Distinct("created_by").Count(&stats.Contributors)

	var avg *float64
	inRange().Select("AVG(quality_score)").Scan(&avg)
	if avg != nil {
		stats.AverageScore = *avg
	}

	var difficultyStats []DifficultyStats
	if err := inRange().
		Select("difficulty_level, count(*) as count").
		Group("difficulty_level").
		Scan(&difficultyStats).Error; err != nil {
		return nil, err
	}

	var categoryStats []CategoryStats
	if err := s.db.Model(&models.Category{}).
		Select("categories.id as category_id, categories.name as category_name, count(cc.contribution_id) as count").
		Joins("LEFT JOIN contribution_categories cc ON cc.category_id = categories.id").
		Group("categories.id, categories.name").
		Order("count DESC").
		Scan(&categoryStats).Error; err != nil {
		return nil, err
	}

	return &DashboardResponse{
		Stats:           stats,
		DifficultyStats: difficultyStats,
		CategoryStats:   categoryStats,
	}, nil
}
