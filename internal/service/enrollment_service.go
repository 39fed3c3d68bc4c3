package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/PriyanshuSingh9/enrollio/config"
	"github.com/PriyanshuSingh9/enrollio/internal/dto"
	"github.com/PriyanshuSingh9/enrollio/internal/model"
	"github.com/PriyanshuSingh9/enrollio/internal/repository"
	"github.com/PriyanshuSingh9/enrollio/pkg/idtoken"
)

// ErrNoSession 会话不存在（未开始或已过期）
var ErrNoSession = repository.ErrSessionNotFound

// EnrollmentService 报名向导业务接口
//
// 向导是申请流水线的客户端侧：四步线性表单（个人信息 → 学业信息 →
// 简历与附加信息 → 确认提交），状态按 (user, program) 存于会话存储，
// 提交动作桥接到 ApplicationService。可恢复的提交失败以结构化结果
// 返回给调用方内联展示，不作为错误抛出
type EnrollmentService interface {
	// Start 开始（或恢复）一次报名：已申请过的项目直接快失败
	Start(ctx context.Context, user *model.User, programID int64) (*dto.WizardStateResponse, error)
	Get(ctx context.Context, user *model.User, programID int64) (*dto.WizardStateResponse, error)
	Next(ctx context.Context, user *model.User, programID int64) (*dto.WizardStateResponse, error)
	Back(ctx context.Context, user *model.User, programID int64) (*dto.WizardStateResponse, error)
	UpdateForm(ctx context.Context, user *model.User, programID int64, req *dto.WizardFormRequest) (*dto.WizardStateResponse, error)
	SetResponses(ctx context.Context, user *model.User, programID int64, req *dto.WizardResponsesRequest) (*dto.WizardStateResponse, error)
	// Submit 在 review 步骤发起提交；提交期间的重复 Submit 被拒绝
	Submit(ctx context.Context, user *model.User, principal *idtoken.Principal, programID int64) (*dto.WizardStateResponse, error)
	Abandon(ctx context.Context, user *model.User, programID int64) error
}

type enrollmentService struct {
	cfg    *config.Config
	repo   *repository.Repository
	appSvc ApplicationService
	logger *zap.Logger
}

// NewEnrollmentService 创建 EnrollmentService 实例
func NewEnrollmentService(cfg *config.Config, repo *repository.Repository, appSvc ApplicationService, logger *zap.Logger) EnrollmentService {
	return &enrollmentService{cfg: cfg, repo: repo, appSvc: appSvc, logger: logger}
}

func (s *enrollmentService) sessionTTL() time.Duration {
	hours := s.cfg.Feature.WizardSessionTTLHours
	if hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}

func (s *enrollmentService) Start(ctx context.Context, user *model.User, programID int64) (*dto.WizardStateResponse, error) {
	// 项目必须存在且在线
	program, err := s.repo.Program.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	if !program.IsActive {
		return nil, ErrProgramClosed
	}

	// 已申请过直接快失败，避免走完四步才发现重复
	if _, err := s.repo.Application.GetByUserAndProgram(ctx, user.ID, programID); err == nil {
		return nil, ErrAlreadyApplied
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 已有会话则恢复（浏览器刷新/中断续填场景）
	if session, err := s.repo.Wizard.Get(ctx, user.ID, programID); err == nil {
		return toWizardState(session, nil), nil
	} else if !errors.Is(err, repository.ErrSessionNotFound) {
		return nil, err
	}

	session := model.NewWizardSession(user, programID)
	if err := s.repo.Wizard.Save(ctx, session, s.sessionTTL()); err != nil {
		s.logger.Error("保存向导会话失败", zap.Int64("user_id", user.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("报名向导已开始",
		zap.Int64("user_id", user.ID),
		zap.Int64("program_id", programID),
	)
	return toWizardState(session, nil), nil
}

func (s *enrollmentService) Get(ctx context.Context, user *model.User, programID int64) (*dto.WizardStateResponse, error) {
	session, err := s.repo.Wizard.Get(ctx, user.ID, programID)
	if err != nil {
		return nil, err
	}
	return toWizardState(session, nil), nil
}

func (s *enrollmentService) Next(ctx context.Context, user *model.User, programID int64) (*dto.WizardStateResponse, error) {
	return s.mutate(ctx, user, programID, func(w *model.WizardSession) error {
		return w.Next()
	})
}

func (s *enrollmentService) Back(ctx context.Context, user *model.User, programID int64) (*dto.WizardStateResponse, error) {
	return s.mutate(ctx, user, programID, func(w *model.WizardSession) error {
		return w.Back()
	})
}

func (s *enrollmentService) UpdateForm(ctx context.Context, user *model.User, programID int64, req *dto.WizardFormRequest) (*dto.WizardStateResponse, error) {
	return s.mutate(ctx, user, programID, func(w *model.WizardSession) error {
		if w.IsTerminal() {
			return model.ErrWizardTerminal
		}
		set := func(key string, v *string) {
			if v != nil {
				w.SetField(key, *v)
			}
		}
		set("name", req.Name)
		set("email", req.Email)
		set("gender", req.Gender)
		set("location", req.Location)
		set("profession", req.Profession)
		set("domain", req.Domain)
		set("course", req.Course)
		set("specialization", req.Specialization)
		set("organization", req.Organization)
		set("course_start_year", req.CourseStartYear)
		set("course_end_year", req.CourseEndYear)
		set("resume_url", req.ResumeURL)
		return nil
	})
}

func (s *enrollmentService) SetResponses(ctx context.Context, user *model.User, programID int64, req *dto.WizardResponsesRequest) (*dto.WizardStateResponse, error) {
	return s.mutate(ctx, user, programID, func(w *model.WizardSession) error {
		if w.IsTerminal() {
			return model.ErrWizardTerminal
		}
		for _, r := range req.Responses {
			w.SetResponse(r.FieldID, r.Value)
		}
		return nil
	})
}

// mutate 读出会话 → 应用变更 → 写回；向导的所有小步操作共用此骨架
func (s *enrollmentService) mutate(ctx context.Context, user *model.User, programID int64, fn func(*model.WizardSession) error) (*dto.WizardStateResponse, error) {
	session, err := s.repo.Wizard.Get(ctx, user.ID, programID)
	if err != nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	if err := s.repo.Wizard.Save(ctx, session, s.sessionTTL()); err != nil {
		s.logger.Error("保存向导会话失败", zap.Int64("user_id", user.ID), zap.Error(err))
		return nil, err
	}
	return toWizardState(session, nil), nil
}

func (s *enrollmentService) Submit(ctx context.Context, user *model.User, principal *idtoken.Principal, programID int64) (*dto.WizardStateResponse, error) {
	session, err := s.repo.Wizard.Get(ctx, user.ID, programID)
	if err != nil {
		return nil, err
	}

	// 进入提交态并立刻持久化：提交期间的第二次 Submit 读到 pending 被拒绝
	if err := session.BeginSubmit(); err != nil {
		return nil, err
	}
	if err := s.repo.Wizard.Save(ctx, session, s.sessionTTL()); err != nil {
		return nil, err
	}

	// 桥接到提交服务：空白回答已在 CollectResponses 过滤
	responses := make([]dto.FieldResponse, 0)
	for fieldID, value := range session.CollectResponses() {
		responses = append(responses, dto.FieldResponse{FieldID: fieldID, Value: value})
	}

	result, err := s.appSvc.Submit(ctx, principal, programID, responses)
	if err != nil {
		// 认证类失败是阻断性的，原样外抛；其余失败回到 review 步骤内联展示
		if errors.Is(err, ErrNotSignedIn) || errors.Is(err, ErrUserNotFound) {
			session.FinishSubmit(false, err.Error())
			_ = s.repo.Wizard.Save(ctx, session, s.sessionTTL())
			return nil, err
		}

		session.FinishSubmit(false, err.Error())
		if serr := s.repo.Wizard.Save(ctx, session, s.sessionTTL()); serr != nil {
			s.logger.Error("保存向导会话失败", zap.Int64("user_id", user.ID), zap.Error(serr))
		}
		return toWizardState(session, &dto.SubmitResult{Success: false, Message: err.Error()}), nil
	}

	session.FinishSubmit(true, "")
	if serr := s.repo.Wizard.Save(ctx, session, s.sessionTTL()); serr != nil {
		// 申请已落库，会话状态丢失只影响确认页展示
		s.logger.Warn("保存向导终态失败", zap.Int64("user_id", user.ID), zap.Error(serr))
	}

	return toWizardState(session, result), nil
}

func (s *enrollmentService) Abandon(ctx context.Context, user *model.User, programID int64) error {
	return s.repo.Wizard.Delete(ctx, user.ID, programID)
}

// toWizardState 会话 → 状态 DTO
func toWizardState(w *model.WizardSession, result *dto.SubmitResult) *dto.WizardStateResponse {
	form := make(map[string]dto.WizardFieldValue, len(w.Form))
	for key, f := range w.Form {
		form[key] = dto.WizardFieldValue{Value: f.Value, AutoFilled: f.AutoFilled}
	}
	responses := make(map[int64]string, len(w.Responses))
	for id, v := range w.Responses {
		responses[id] = v
	}
	return &dto.WizardStateResponse{
		ProgramID:     w.ProgramID,
		Step:          w.Step,
		StepIndex:     w.StepIndex(),
		StepCount:     w.StepCount(),
		Form:          form,
		Responses:     responses,
		Pending:       w.Pending,
		FailureReason: w.FailureReason,
		Result:        result,
	}
}
