package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/PriyanshuSingh9/enrollio/internal/model"
)

// ProgramFilter 项目列表过滤条件（精确匹配）
type ProgramFilter struct {
	Type     string
	Category string
	Mode     string
}

// ProgramRepository 项目数据访问接口
type ProgramRepository interface {
	// CreateWithFields 项目与其自定义问题在同一事务内创建
	CreateWithFields(ctx context.Context, program *model.Program, fields []model.CustomField) error
	GetByID(ctx context.Context, id int64) (*model.Program, error)
	// GetWithFields 返回项目及其自定义问题，问题按 (order_index, id) 排序
	GetWithFields(ctx context.Context, id int64) (*model.Program, error)
	ListActive(ctx context.Context, filter ProgramFilter, offset, limit int) ([]model.Program, int64, error)
	ListFields(ctx context.Context, programID int64) ([]model.CustomField, error)
}

// programRepo ProgramRepository 的 GORM 实现
type programRepo struct {
	db *gorm.DB
}

// NewProgramRepo 创建 ProgramRepository 实例
func NewProgramRepo(db *gorm.DB) ProgramRepository {
	return &programRepo{db: db}
}

func (r *programRepo) CreateWithFields(ctx context.Context, program *model.Program, fields []model.CustomField) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(program).Error; err != nil {
			return err
		}
		if len(fields) > 0 {
			for i := range fields {
				fields[i].ProgramID = program.ID
			}
			if err := tx.Create(&fields).Error; err != nil {
				return err
			}
			program.CustomFields = fields
		}
		return nil
	})
}

func (r *programRepo) GetByID(ctx context.Context, id int64) (*model.Program, error) {
	var program model.Program
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&program).Error
	if err != nil {
		return nil, err
	}
	return &program, nil
}

func (r *programRepo) GetWithFields(ctx context.Context, id int64) (*model.Program, error) {
	var program model.Program
	err := r.db.WithContext(ctx).
		Preload("CustomFields", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC, id ASC")
		}).
		Where("id = ?", id).
		First(&program).Error
	if err != nil {
		return nil, err
	}
	return &program, nil
}

func (r *programRepo) ListActive(ctx context.Context, filter ProgramFilter, offset, limit int) ([]model.Program, int64, error) {
	var programs []model.Program
	var total int64

	db := r.db.WithContext(ctx).
		Model(&model.Program{}).
		Where("is_active = ?", true).
		Where("type = ?", filter.Type)

	if filter.Category != "" {
		db = db.Where("category = ?", filter.Category)
	}
	if filter.Mode != "" {
		db = db.Where("mode = ?", filter.Mode)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&programs).Error; err != nil {
		return nil, 0, err
	}

	return programs, total, nil
}

func (r *programRepo) ListFields(ctx context.Context, programID int64) ([]model.CustomField, error) {
	var fields []model.CustomField
	err := r.db.WithContext(ctx).
		Where("program_id = ?", programID).
		Order("order_index ASC, id ASC").
		Find(&fields).Error
	if err != nil {
		return nil, err
	}
	return fields, nil
}

