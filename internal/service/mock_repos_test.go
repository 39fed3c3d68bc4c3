package service

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/PriyanshuSingh9/enrollio/internal/model"
	"github.com/PriyanshuSingh9/enrollio/internal/repository"
	"github.com/PriyanshuSingh9/enrollio/pkg/redis"
)

// uniqueViolation 模拟 PostgreSQL 唯一约束冲突
func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505"}
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users       map[int64]*model.User
	nextID      int64
	createErr   error // 注入 Create 失败
	missNextGet bool  // 下一次 GetByExternalID 强制未命中，模拟并发建档竞态
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*model.User), nextID: 1}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, u := range m.users {
		if u.ExternalID == user.ExternalID || u.Email == user.Email {
			return uniqueViolation()
		}
	}
	user.ID = m.nextID
	m.nextID++
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByExternalID(_ context.Context, externalID string) (*model.User, error) {
	if m.missNextGet {
		m.missNextGet = false
		return nil, gorm.ErrRecordNotFound
	}
	for _, u := range m.users {
		if u.ExternalID == externalID {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) UpdateFields(_ context.Context, id int64, fields map[string]interface{}) error {
	u, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for col, v := range fields {
		s, _ := v.(string)
		switch col {
		case "name":
			u.Name = s
		case "bio":
			u.Bio = s
		case "gender":
			u.Gender = s
		case "location":
			u.Location = s
		case "profession":
			u.Profession = s
		case "domain":
			u.Domain = s
		case "course":
			u.Course = s
		case "specialization":
			u.Specialization = s
		case "organization":
			u.Organization = s
		case "course_start_year":
			u.CourseStartYear = s
		case "course_end_year":
			u.CourseEndYear = s
		}
	}
	return nil
}

func (m *mockUserRepo) UpdateRole(_ context.Context, id int64, role string) error {
	u, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Role = role
	return nil
}

// ── Mock ProgramRepository ──

type mockProgramRepo struct {
	programs    map[int64]*model.Program
	fields      map[int64][]model.CustomField // programID → 问题定义
	nextID      int64
	nextFieldID int64
}

func newMockProgramRepo() *mockProgramRepo {
	return &mockProgramRepo{
		programs:    make(map[int64]*model.Program),
		fields:      make(map[int64][]model.CustomField),
		nextID:      1,
		nextFieldID: 1,
	}
}

func (m *mockProgramRepo) CreateWithFields(_ context.Context, program *model.Program, fields []model.CustomField) error {
	program.ID = m.nextID
	m.nextID++
	m.programs[program.ID] = program
	for i := range fields {
		fields[i].ID = m.nextFieldID
		m.nextFieldID++
		fields[i].ProgramID = program.ID
	}
	m.fields[program.ID] = fields
	if len(fields) > 0 {
		program.CustomFields = fields
	}
	return nil
}

func (m *mockProgramRepo) GetByID(_ context.Context, id int64) (*model.Program, error) {
	if p, ok := m.programs[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProgramRepo) GetWithFields(_ context.Context, id int64) (*model.Program, error) {
	p, ok := m.programs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	fields, _ := m.ListFields(context.Background(), id)
	cp := *p
	cp.CustomFields = fields
	return &cp, nil
}

func (m *mockProgramRepo) ListActive(_ context.Context, filter repository.ProgramFilter, offset, limit int) ([]model.Program, int64, error) {
	var result []model.Program
	for _, p := range m.programs {
		if !p.IsActive || p.Type != filter.Type {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Mode != "" && p.Mode != filter.Mode {
			continue
		}
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	total := int64(len(result))
	if offset >= len(result) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (m *mockProgramRepo) ListFields(_ context.Context, programID int64) ([]model.CustomField, error) {
	fields := append([]model.CustomField(nil), m.fields[programID]...)
	sort.Slice(fields, func(i, j int) bool {
		if fields[i].OrderIndex != fields[j].OrderIndex {
			return fields[i].OrderIndex < fields[j].OrderIndex
		}
		return fields[i].ID < fields[j].ID
	})
	return fields, nil
}

// ── Mock ApplicationRepository ──

type mockApplicationRepo struct {
	apps      map[int64]*model.Application
	nextID    int64
	createErr error // 注入 CreateWithResponses 失败
}

func newMockApplicationRepo() *mockApplicationRepo {
	return &mockApplicationRepo{apps: make(map[int64]*model.Application), nextID: 1}
}

func (m *mockApplicationRepo) CreateWithResponses(_ context.Context, app *model.Application, responses []model.ApplicationResponse) error {
	if m.createErr != nil {
		return m.createErr
	}
	// 唯一约束 (user_id, program_id)
	for _, a := range m.apps {
		if a.UserID == app.UserID && a.ProgramID == app.ProgramID {
			return uniqueViolation()
		}
	}
	app.ID = m.nextID
	m.nextID++
	for i := range responses {
		responses[i].ApplicationID = app.ID
	}
	app.Responses = responses
	m.apps[app.ID] = app
	return nil
}

func (m *mockApplicationRepo) GetByID(_ context.Context, id int64) (*model.Application, error) {
	if a, ok := m.apps[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockApplicationRepo) GetByUserAndProgram(_ context.Context, userID, programID int64) (*model.Application, error) {
	for _, a := range m.apps {
		if a.UserID == userID && a.ProgramID == programID {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockApplicationRepo) ListByUser(_ context.Context, userID int64) ([]model.Application, error) {
	var result []model.Application
	for _, a := range m.apps {
		if a.UserID == userID {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].AppliedAt.After(result[j].AppliedAt)
	})
	return result, nil
}

func (m *mockApplicationRepo) ListByProgram(_ context.Context, programID int64, offset, limit int) ([]model.Application, int64, error) {
	var result []model.Application
	for _, a := range m.apps {
		if a.ProgramID == programID {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].AppliedAt.After(result[j].AppliedAt)
	})
	total := int64(len(result))
	if offset >= len(result) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (m *mockApplicationRepo) UpdateStatus(_ context.Context, app *model.Application) error {
	stored, ok := m.apps[app.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Status = app.Status
	stored.ReviewedAt = app.ReviewedAt
	stored.CertificateIssuedAt = app.CertificateIssuedAt
	return nil
}

// ── Mock ViewCache ──

type mockViewCache struct {
	store map[string][]byte
}

func newMockViewCache() *mockViewCache {
	return &mockViewCache{store: make(map[string][]byte)}
}

func (m *mockViewCache) GetView(_ context.Context, key string) ([]byte, error) {
	data, ok := m.store[key]
	if !ok {
		return nil, redis.ErrKeyNotFound
	}
	return data, nil
}

func (m *mockViewCache) CacheView(_ context.Context, key string, data []byte, _ time.Duration) error {
	m.store[key] = data
	return nil
}

func (m *mockViewCache) InvalidateViews(_ context.Context, keys ...string) {
	for _, k := range keys {
		delete(m.store, k)
	}
}

// has 断言辅助：键是否仍在缓存中
func (m *mockViewCache) has(key string) bool {
	_, ok := m.store[key]
	return ok
}
