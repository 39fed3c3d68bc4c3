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
	"github.com/PriyanshuSingh9/enrollio/pkg/database"
	"github.com/PriyanshuSingh9/enrollio/pkg/idtoken"
	"github.com/PriyanshuSingh9/enrollio/pkg/redis"
)

// ── 申请模块业务错误 ──

var (
	ErrNotSignedIn         = errors.New("请先登录")
	ErrAlreadyApplied      = errors.New("你已申请过该项目")
	ErrProgramClosed       = errors.New("该项目已停止报名")
	ErrSubmitFailed        = errors.New("提交申请失败，请稍后重试")
	ErrMissingAnswers      = errors.New("必填问题未作答")
	ErrUnknownField        = errors.New("回答引用了不存在的问题")
	ErrApplicationNotFound = errors.New("申请记录不存在")
	ErrNotOwner            = errors.New("只有项目创建者可执行此操作")
)

// ApplicationService 申请提交与审核业务接口
type ApplicationService interface {
	// Submit 提交申请 — 申请流水线的服务端入口
	// 重复申请防护：先做读检查（快路径提示），插入时以 (user_id, program_id)
	// 唯一约束作为权威保证；申请与答卷同事务写入
	Submit(ctx context.Context, principal *idtoken.Principal, programID int64, responses []dto.FieldResponse) (*dto.SubmitResult, error)
	// ListMine 申请人面板：我的申请列表，按申请时间倒序
	ListMine(ctx context.Context, userID int64) ([]dto.ApplicationResponse, error)
	// ListByProgram 管理员侧申请人名单（仅项目创建者）
	ListByProgram(ctx context.Context, caller *model.User, programID int64, page *dto.PaginationRequest) ([]dto.ApplicationResponse, int64, error)
	// Review 管理员审核：accepted / rejected / completed；completed 同时记发证时间
	Review(ctx context.Context, caller *model.User, applicationID int64, status string) (*dto.ApplicationResponse, error)
}

type applicationService struct {
	cfg    *config.Config
	repo   *repository.Repository
	cache  ViewCache
	logger *zap.Logger
}

// NewApplicationService 创建 ApplicationService 实例；cache 为 nil 时视图缓存停用
func NewApplicationService(cfg *config.Config, repo *repository.Repository, cache ViewCache, logger *zap.Logger) ApplicationService {
	return &applicationService{cfg: cfg, repo: repo, cache: cache, logger: logger}
}

func (s *applicationService) Submit(ctx context.Context, principal *idtoken.Principal, programID int64, responses []dto.FieldResponse) (*dto.SubmitResult, error) {
	// 1. 认证
	if principal == nil {
		return nil, ErrNotSignedIn
	}

	// 2. 解析内部用户（不建档；未同步过的主体视为不存在）
	user, err := s.repo.User.GetByExternalID(ctx, principal.ExternalID())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 3. 项目必须存在且在线
	program, err := s.repo.Program.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgramNotFound
		}
		s.logger.Error("查询项目失败", zap.Error(err))
		return nil, err
	}
	if !program.IsActive {
		return nil, ErrProgramClosed
	}

	// 4. 重复申请快路径检查（友好提示用；权威保证在第 6 步的唯一约束）
	if _, err := s.repo.Application.GetByUserAndProgram(ctx, user.ID, programID); err == nil {
		return nil, ErrAlreadyApplied
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("重复申请检查失败", zap.Error(err))
		return nil, err
	}

	// 5. 回答预处理：校验引用的问题存在；空白回答静默丢弃
	fields, err := s.repo.Program.ListFields(ctx, programID)
	if err != nil {
		s.logger.Error("查询自定义问题失败", zap.Error(err))
		return nil, err
	}
	rows, err := s.buildResponseRows(fields, responses)
	if err != nil {
		return nil, err
	}

	// 6. 申请 + 答卷单事务写入：全部落库或全部回滚
	app := &model.Application{
		UserID:    user.ID,
		ProgramID: programID,
		Status:    model.StatusPending,
		AppliedAt: time.Now(),
	}
	if err := s.repo.Application.CreateWithResponses(ctx, app, rows); err != nil {
		// 读检查与插入之间的竞态窗口由唯一约束兜底
		if database.IsUniqueViolation(err) {
			return nil, ErrAlreadyApplied
		}
		s.logger.Error("写入申请失败",
			zap.Int64("user_id", user.ID),
			zap.Int64("program_id", programID),
			zap.Error(err),
		)
		return nil, ErrSubmitFailed
	}

	// 7. 失效相关视图缓存（申请人面板、项目详情）
	if s.cache != nil {
		s.cache.InvalidateViews(ctx,
			redis.ViewKey("dashboard", user.ID),
			redis.ViewKey("program", programID),
		)
	}

	s.logger.Info("申请已提交",
		zap.Int64("application_id", app.ID),
		zap.Int64("user_id", user.ID),
		zap.Int64("program_id", programID),
		zap.Int("responses", len(rows)),
	)

	return &dto.SubmitResult{
		Success:       true,
		Message:       "申请提交成功，请在面板中查看进度",
		ApplicationID: app.ID,
	}, nil
}

// buildResponseRows 把提交的回答整理为答卷行
// 严格模式下必填问题必须有非空白回答；宽松模式（默认）沿用既有行为放行
func (s *applicationService) buildResponseRows(fields []model.CustomField, responses []dto.FieldResponse) ([]model.ApplicationResponse, error) {
	known := make(map[int64]*model.CustomField, len(fields))
	for i := range fields {
		known[fields[i].ID] = &fields[i]
	}

	answered := make(map[int64]string, len(responses))
	for _, r := range responses {
		if _, ok := known[r.FieldID]; !ok {
			return nil, fmt.Errorf("%w: field_id=%d", ErrUnknownField, r.FieldID)
		}
		answered[r.FieldID] = r.Value
	}

	if s.cfg.Feature.StrictRequiredFields {
		var missing []string
		for _, f := range fields {
			if f.IsRequired && strings.TrimSpace(answered[f.ID]) == "" {
				missing = append(missing, f.Label)
			}
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingAnswers, strings.Join(missing, ", "))
		}
	}

	// 空白回答不落库；按问题排列顺序写入
	rows := make([]model.ApplicationResponse, 0, len(answered))
	for _, f := range fields {
		value, ok := answered[f.ID]
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		rows = append(rows, model.ApplicationResponse{
			CustomFieldID: f.ID,
			ResponseValue: value,
		})
	}
	return rows, nil
}

func (s *applicationService) ListMine(ctx context.Context, userID int64) ([]dto.ApplicationResponse, error) {
	cacheKey := redis.ViewKey("dashboard", userID)

	// 1. 面板视图缓存快路径；提交与审核都会把这个键失效掉
	if s.cache != nil {
		if data, err := s.cache.GetView(ctx, cacheKey); err == nil {
			var list []dto.ApplicationResponse
			if err := json.Unmarshal(data, &list); err == nil {
				return list, nil
			}
		}
	}

	apps, err := s.repo.Application.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询我的申请失败", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}

	list := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		list = append(list, *toApplicationResponse(&apps[i], true))
	}

	// 2. 回填缓存；失败不影响主流程
	if s.cache != nil {
		if data, err := json.Marshal(list); err == nil {
			ttl := time.Duration(s.cfg.Feature.ViewCacheTTLSeconds) * time.Second
			_ = s.cache.CacheView(ctx, cacheKey, data, ttl)
		}
	}
	return list, nil
}

func (s *applicationService) ListByProgram(ctx context.Context, caller *model.User, programID int64, page *dto.PaginationRequest) ([]dto.ApplicationResponse, int64, error) {
	program, err := s.repo.Program.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrProgramNotFound
		}
		return nil, 0, err
	}
	if !caller.IsAdmin() {
		return nil, 0, ErrNotAdmin
	}
	if program.AdminID != caller.ID {
		return nil, 0, ErrNotOwner
	}

	apps, total, err := s.repo.Application.ListByProgram(ctx, programID, page.GetOffset(), page.GetPageSize())
	if err != nil {
		s.logger.Error("查询申请人名单失败", zap.Int64("program_id", programID), zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		list = append(list, *toApplicationResponse(&apps[i], false))
	}
	return list, total, nil
}

func (s *applicationService) Review(ctx context.Context, caller *model.User, applicationID int64, status string) (*dto.ApplicationResponse, error) {
	app, err := s.repo.Application.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	if !caller.IsAdmin() {
		return nil, ErrNotAdmin
	}
	if app.Program == nil || app.Program.AdminID != caller.ID {
		return nil, ErrNotOwner
	}

	now := time.Now()
	app.Status = status
	app.ReviewedAt = &now
	if status == model.StatusCompleted {
		// 结业即记发证时间；证书生成本身不在范围内
		app.CertificateIssuedAt = &now
	}

	if err := s.repo.Application.UpdateStatus(ctx, app); err != nil {
		s.logger.Error("更新申请状态失败", zap.Int64("application_id", applicationID), zap.Error(err))
		return nil, err
	}

	// 审核结果影响申请人面板视图
	if s.cache != nil {
		s.cache.InvalidateViews(ctx, redis.ViewKey("dashboard", app.UserID))
	}

	s.logger.Info("申请已审核",
		zap.Int64("application_id", applicationID),
		zap.String("status", status),
		zap.Int64("reviewer", caller.ID),
	)
	return toApplicationResponse(app, true), nil
}

// toApplicationResponse 申请模型 → 响应 DTO
// withProgram 控制是否内嵌项目信息（申请人视角需要，管理员名单视角不需要）
func toApplicationResponse(a *model.Application, withProgram bool) *dto.ApplicationResponse {
	resp := &dto.ApplicationResponse{
		ID:        a.ID,
		UserID:    a.UserID,
		ProgramID: a.ProgramID,
		Status:    a.Status,
		AppliedAt: a.AppliedAt.Format(time.RFC3339),
	}
	if a.ReviewedAt != nil {
		resp.ReviewedAt = a.ReviewedAt.Format(time.RFC3339)
	}
	if a.CertificateIssuedAt != nil {
		resp.CertificateIssuedAt = a.CertificateIssuedAt.Format(time.RFC3339)
	}
	if withProgram && a.Program != nil {
		resp.Program = ToProgramResponse(a.Program)
	}
	if a.User != nil {
		resp.Applicant = &dto.ApplicantBrief{
			ID:    a.User.ID,
			Name:  a.User.Name,
			Email: a.User.Email,
		}
	}
	for _, r := range a.Responses {
		answer := dto.ApplicationAnswer{
			FieldID: r.CustomFieldID,
			Value:   r.ResponseValue,
		}
		if r.CustomField != nil {
			answer.Label = r.CustomField.Label
		}
		resp.Answers = append(resp.Answers, answer)
	}
	return resp
}
