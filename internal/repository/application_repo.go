package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/PriyanshuSingh9/enrollio/internal/model"
)

// ApplicationRepository 申请数据访问接口
type ApplicationRepository interface {
	// CreateWithResponses 申请与答卷在同一事务内写入：要么全部落库，要么全部回滚
	CreateWithResponses(ctx context.Context, app *model.Application, responses []model.ApplicationResponse) error
	GetByID(ctx context.Context, id int64) (*model.Application, error)
	// GetByUserAndProgram 重复申请快路径检查
	GetByUserAndProgram(ctx context.Context, userID, programID int64) (*model.Application, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Application, error)
	ListByProgram(ctx context.Context, programID int64, offset, limit int) ([]model.Application, int64, error)
	UpdateStatus(ctx context.Context, app *model.Application) error
}

// applicationRepo ApplicationRepository 的 GORM 实现
type applicationRepo struct {
	db *gorm.DB
}

// NewApplicationRepo 创建 ApplicationRepository 实例
func NewApplicationRepo(db *gorm.DB) ApplicationRepository {
	return &applicationRepo{db: db}
}

func (r *applicationRepo) CreateWithResponses(ctx context.Context, app *model.Application, responses []model.ApplicationResponse) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(app).Error; err != nil {
			return err
		}
		if len(responses) > 0 {
			for i := range responses {
				responses[i].ApplicationID = app.ID
			}
			if err := tx.Create(&responses).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *applicationRepo) GetByID(ctx context.Context, id int64) (*model.Application, error) {
	var app model.Application
	err := r.db.WithContext(ctx).
		Preload("Program").
		Where("id = ?", id).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepo) GetByUserAndProgram(ctx context.Context, userID, programID int64) (*model.Application, error) {
	var app model.Application
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND program_id = ?", userID, programID).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepo) ListByUser(ctx context.Context, userID int64) ([]model.Application, error) {
	var apps []model.Application
	err := r.db.WithContext(ctx).
		Preload("Program").
		Where("user_id = ?", userID).
		Order("applied_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *applicationRepo) ListByProgram(ctx context.Context, programID int64, offset, limit int) ([]model.Application, int64, error) {
	var apps []model.Application
	var total int64

	db := r.db.WithContext(ctx).
		Model(&model.Application{}).
		Where("program_id = ?", programID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("User").
		Preload("Responses").
		Preload("Responses.CustomField").
		Offset(offset).Limit(limit).
		Order("applied_at DESC").
		Find(&apps).Error; err != nil {
		return nil, 0, err
	}

	return apps, total, nil
}

func (r *applicationRepo) UpdateStatus(ctx context.Context, app *model.Application) error {
	return r.db.WithContext(ctx).
		Model(app).
		Select("status", "reviewed_at", "certificate_issued_at").
		Updates(app).Error
}

