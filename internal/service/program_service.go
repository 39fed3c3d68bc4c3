package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/PriyanshuSingh9/enrollio/config"
	"github.com/PriyanshuSingh9/enrollio/internal/dto"
	"github.com/PriyanshuSingh9/enrollio/internal/model"
	"github.com/PriyanshuSingh9/enrollio/internal/repository"
	"github.com/PriyanshuSingh9/enrollio/pkg/redis"
)

// ── 项目模块业务错误 ──

var (
	ErrProgramNotFound = errors.New("项目不存在")
	ErrMissingFields   = errors.New("缺少必填字段")
	ErrInvalidDate     = errors.New("日期格式无效")
)

const dateLayout = "2006-01-02"

// ProgramService 项目目录业务接口
type ProgramService interface {
	// Create 创建项目（仅管理员）；必填项按类型校验，自定义问题随项目一并建表
	Create(ctx context.Context, caller *model.User, req *dto.CreateProgramRequest) (*dto.ProgramResponse, error)
	// GetWithFields 项目详情 + 按 (order_index, id) 排序的自定义问题；带视图缓存
	GetWithFields(ctx context.Context, id int64) (*dto.ProgramResponse, error)
	// ListActive 在线项目列表，按创建时间倒序；支持 category/mode 精确过滤
	ListActive(ctx context.Context, req *dto.ProgramListRequest) ([]dto.ProgramResponse, int64, error)
}

type programService struct {
	cfg    *config.Config
	repo   *repository.Repository
	cache  ViewCache
	logger *zap.Logger
}

// NewProgramService 创建 ProgramService 实例；cache 为 nil 时视图缓存停用
func NewProgramService(cfg *config.Config, repo *repository.Repository, cache ViewCache, logger *zap.Logger) ProgramService {
	return &programService{cfg: cfg, repo: repo, cache: cache, logger: logger}
}

func (s *programService) Create(ctx context.Context, caller *model.User, req *dto.CreateProgramRequest) (*dto.ProgramResponse, error) {
	// 1. 鉴权：内部角色记录是唯一事实来源
	if !caller.IsAdmin() {
		return nil, ErrNotAdmin
	}

	// 2. 必填项按类型校验
	if err := validateRequired(req); err != nil {
		return nil, err
	}

	deadline, err := time.Parse(time.RFC3339, req.Deadline)
	if err != nil {
		return nil, fmt.Errorf("%w: deadline", ErrInvalidDate)
	}

	program := &model.Program{
		AdminID:     caller.ID,
		Type:        req.Type,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		Mode:        req.Mode,
		Deadline:    deadline,
		IsActive:    true,
	}

	if program.StartDate, err = parseOptionalDate(req.StartDate, "start_date"); err != nil {
		return nil, err
	}
	if program.EndDate, err = parseOptionalDate(req.EndDate, "end_date"); err != nil {
		return nil, err
	}

	// 实习专属字段只在 internship 类型写入，event 提交的值直接丢弃
	if req.Type == model.ProgramTypeInternship {
		program.Stipend = req.Stipend
		program.Duration = req.Duration
		program.RequiredSkills = req.RequiredSkills
	}

	fields := make([]model.CustomField, 0, len(req.CustomFields))
	for i, f := range req.CustomFields {
		required := true
		if f.IsRequired != nil {
			required = *f.IsRequired
		}
		step := f.StepNumber
		if step == 0 {
			step = 3 // 默认归入"简历与附加信息"步骤
		}
		// 0 是合法排序值，缺省判断走指针而非零值
		order := i
		if f.OrderIndex != nil {
			order = *f.OrderIndex
		}
		fields = append(fields, model.CustomField{
			Label:      f.Label,
			FieldType:  f.FieldType,
			Options:    f.Options,
			IsRequired: required,
			StepNumber: step,
			OrderIndex: order,
		})
	}

	if err := s.repo.Program.CreateWithFields(ctx, program, fields); err != nil {
		s.logger.Error("创建项目失败", zap.String("type", req.Type), zap.Error(err))
		return nil, err
	}

	s.logger.Info("项目已创建",
		zap.Int64("program_id", program.ID),
		zap.String("type", program.Type),
		zap.Int64("admin_id", caller.ID),
	)
	return ToProgramResponse(program), nil
}

// validateRequired 校验必填字段：event 要求 title/description/mode/deadline，
// internship 额外要求 stipend/duration/required_skills
func validateRequired(req *dto.CreateProgramRequest) error {
	var missing []string
	if strings.TrimSpace(req.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(req.Description) == "" {
		missing = append(missing, "description")
	}
	if req.Mode == "" {
		missing = append(missing, "mode")
	}
	if req.Deadline == "" {
		missing = append(missing, "deadline")
	}
	if req.Type == model.ProgramTypeInternship {
		if strings.TrimSpace(req.Stipend) == "" {
			missing = append(missing, "stipend")
		}
		if strings.TrimSpace(req.Duration) == "" {
			missing = append(missing, "duration")
		}
		if strings.TrimSpace(req.RequiredSkills) == "" {
			missing = append(missing, "required_skills")
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(missing, ", "))
	}
	return nil
}

func parseOptionalDate(value, name string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDate, name)
	}
	return &t, nil
}

func (s *programService) GetWithFields(ctx context.Context, id int64) (*dto.ProgramResponse, error) {
	cacheKey := redis.ViewKey("program", id)

	// 1. 视图缓存快路径
	if s.cache != nil {
		if data, err := s.cache.GetView(ctx, cacheKey); err == nil {
			var resp dto.ProgramResponse
			if err := json.Unmarshal(data, &resp); err == nil {
				return &resp, nil
			}
		}
	}

	program, err := s.repo.Program.GetWithFields(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgramNotFound
		}
		s.logger.Error("查询项目失败", zap.Int64("program_id", id), zap.Error(err))
		return nil, err
	}

	resp := ToProgramResponse(program)

	// 2. 回填缓存；失败不影响主流程
	if s.cache != nil {
		if data, err := json.Marshal(resp); err == nil {
			ttl := time.Duration(s.cfg.Feature.ViewCacheTTLSeconds) * time.Second
			_ = s.cache.CacheView(ctx, cacheKey, data, ttl)
		}
	}

	return resp, nil
}

func (s *programService) ListActive(ctx context.Context, req *dto.ProgramListRequest) ([]dto.ProgramResponse, int64, error) {
	filter := repository.ProgramFilter{
		Type:     req.Type,
		Category: req.Category,
		Mode:     req.Mode,
	}

	programs, total, err := s.repo.Program.ListActive(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询项目列表失败", zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.ProgramResponse, 0, len(programs))
	for i := range programs {
		list = append(list, *ToProgramResponse(&programs[i]))
	}
	return list, total, nil
}

// ToProgramResponse 项目模型 → 响应 DTO
func ToProgramResponse(p *model.Program) *dto.ProgramResponse {
	resp := &dto.ProgramResponse{
		ID:             p.ID,
		AdminID:        p.AdminID,
		Type:           p.Type,
		Title:          p.Title,
		Description:    p.Description,
		Category:       p.Category,
		Location:       p.Location,
		Mode:           p.Mode,
		Deadline:       p.Deadline.Format(time.RFC3339),
		Stipend:        p.Stipend,
		Duration:       p.Duration,
		RequiredSkills: p.RequiredSkills,
		IsActive:       p.IsActive,
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
	}
	if p.StartDate != nil {
		resp.StartDate = p.StartDate.Format(dateLayout)
	}
	if p.EndDate != nil {
		resp.EndDate = p.EndDate.Format(dateLayout)
	}
	for _, f := range p.CustomFields {
		resp.CustomFields = append(resp.CustomFields, dto.CustomFieldResponse{
			ID:         f.ID,
			Label:      f.Label,
			FieldType:  f.FieldType,
			Options:    f.Options,
			IsRequired: f.IsRequired,
			StepNumber: f.StepNumber,
			OrderIndex: f.OrderIndex,
		})
	}
	return resp
}
