package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/PriyanshuSingh9/enrollio/internal/dto"
	"github.com/PriyanshuSingh9/enrollio/internal/model"
	"github.com/PriyanshuSingh9/enrollio/internal/repository"
	"github.com/PriyanshuSingh9/enrollio/pkg/database"
	"github.com/PriyanshuSingh9/enrollio/pkg/idtoken"
)

// ── 用户模块业务错误 ──

var (
	ErrUserNotFound = errors.New("用户不存在")
	ErrNameRequired = errors.New("姓名不能为空")
	ErrNotAdmin     = errors.New("仅管理员可执行此操作")
)

// IdentityService 身份桥接业务接口
// 负责外部身份提供商主体与内部用户记录的映射（首次登录建档）
type IdentityService interface {
	// ResolveOrCreate 按外部身份 ID 查找用户，不存在则建档；幂等
	ResolveOrCreate(ctx context.Context, principal *idtoken.Principal) (*model.User, error)
	// Resolve 按外部身份 ID 查找用户，不建档
	Resolve(ctx context.Context, externalID string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	// AssignRole 管理员单向设置内部角色；内部记录是角色的唯一事实来源
	AssignRole(ctx context.Context, caller *model.User, targetID int64, role string) error
}

type identityService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewIdentityService 创建 IdentityService 实例
func NewIdentityService(repo *repository.Repository, logger *zap.Logger) IdentityService {
	return &identityService{repo: repo, logger: logger}
}

func (s *identityService) ResolveOrCreate(ctx context.Context, principal *idtoken.Principal) (*model.User, error) {
	// 1. 已有记录直接返回，无副作用
	user, err := s.repo.User.GetByExternalID(ctx, principal.ExternalID())
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 首次登录建档：角色固定为 user，资料从主体声明取
	newUser := &model.User{
		ExternalID:   principal.ExternalID(),
		Name:         principal.DisplayName(),
		Email:        principal.PrimaryEmail(),
		ProfilePhoto: principal.Picture,
		Role:         model.RoleUser,
	}

	if err := s.repo.User.Create(ctx, newUser); err != nil {
		// 并发首次登录：唯一约束(external_id)冲突视为"已存在"，重新读取
		if database.IsUniqueViolation(err) {
			existing, ferr := s.repo.User.GetByExternalID(ctx, principal.ExternalID())
			if ferr != nil {
				return nil, ferr
			}
			return existing, nil
		}
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("新用户建档",
		zap.Int64("user_id", newUser.ID),
		zap.String("role", newUser.Role),
	)
	return newUser, nil
}

func (s *identityService) Resolve(ctx context.Context, externalID string) (*model.User, error) {
	user, err := s.repo.User.GetByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (s *identityService) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	if _, err := s.repo.User.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	fields := make(map[string]interface{})
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		fields["name"] = name
	}
	setIf := func(col string, v *string) {
		if v != nil {
			fields[col] = strings.TrimSpace(*v)
		}
	}
	setIf("bio", req.Bio)
	setIf("gender", req.Gender)
	setIf("location", req.Location)
	setIf("profession", req.Profession)
	setIf("domain", req.Domain)
	setIf("course", req.Course)
	setIf("specialization", req.Specialization)
	setIf("organization", req.Organization)
	setIf("course_start_year", req.CourseStartYear)
	setIf("course_end_year", req.CourseEndYear)

	if len(fields) > 0 {
		if err := s.repo.User.UpdateFields(ctx, userID, fields); err != nil {
			s.logger.Error("更新个人资料失败", zap.Int64("user_id", userID), zap.Error(err))
			return nil, err
		}
	}

	updated, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(updated), nil
}

func (s *identityService) AssignRole(ctx context.Context, caller *model.User, targetID int64, role string) error {
	if !caller.IsAdmin() {
		return ErrNotAdmin
	}

	if err := s.repo.User.UpdateRole(ctx, targetID, role); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("设置角色失败", zap.Int64("target_id", targetID), zap.Error(err))
		return err
	}

	s.logger.Info("角色已变更",
		zap.Int64("operator", caller.ID),
		zap.Int64("target", targetID),
		zap.String("role", role),
	)
	return nil
}

// ToUserResponse 用户模型 → 响应 DTO
func ToUserResponse(u *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Role:            u.Role,
		ProfilePhoto:    u.ProfilePhoto,
		Bio:             u.Bio,
		Gender:          u.Gender,
		Location:        u.Location,
		Profession:      u.Profession,
		Domain:          u.Domain,
		Course:          u.Course,
		Specialization:  u.Specialization,
		Organization:    u.Organization,
		CourseStartYear: u.CourseStartYear,
		CourseEndYear:   u.CourseEndYear,
		CreatedAt:       u.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
