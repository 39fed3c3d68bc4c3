package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/PriyanshuSingh9/enrollio/internal/model"
	"github.com/PriyanshuSingh9/enrollio/internal/repository"
)

// ── 测试辅助 ──

func setupTestExportService() (ExportService, *mockProgramRepo, *mockApplicationRepo) {
	progRepo := newMockProgramRepo()
	appRepo := newMockApplicationRepo()
	repo := &repository.Repository{
		User:        newMockUserRepo(),
		Program:     progRepo,
		Application: appRepo,
		Wizard:      repository.NewMemoryWizardStore(),
	}
	svc := NewExportService(repo, zap.NewNop())
	return svc, progRepo, appRepo
}

func seedExportProgram(progRepo *mockProgramRepo) *model.Program {
	program := &model.Program{
		ID: 1, AdminID: 2, Type: model.ProgramTypeEvent,
		Title: "开源工作坊", Description: "为期一天的动手实践工作坊",
		Location: "线上", IsActive: true,
		Deadline: time.Date(2026, 10, 1, 18, 0, 0, 0, time.UTC),
	}
	progRepo.programs[1] = program
	return program
}

// ── ApplicantsXLSX 测试 ──

func TestExportService_ApplicantsXLSX_Success(t *testing.T) {
	svc, progRepo, appRepo := setupTestExportService()
	seedExportProgram(progRepo)
	progRepo.fields[1] = []model.CustomField{
		{ID: 1, ProgramID: 1, Label: "作品集", OrderIndex: 0},
	}
	appRepo.apps[1] = &model.Application{
		ID: 1, UserID: 10, ProgramID: 1,
		Status: model.StatusPending, AppliedAt: time.Now(),
		User: &model.User{ID: 10, Name: "Jane Doe", Email: "jane@example.com"},
		Responses: []model.ApplicationResponse{
			{ApplicationID: 1, CustomFieldID: 1, ResponseValue: "https://example.com"},
		},
	}
	owner := &model.User{ID: 2, Role: model.RoleAdmin}

	buf, filename, err := svc.ApplicantsXLSX(context.Background(), owner, 1)
	if err != nil {
		t.Fatalf("ApplicantsXLSX 应成功: %v", err)
	}
	if buf == nil || buf.Len() == 0 {
		t.Error("导出的 Excel buffer 不应为空")
	}
	if !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("文件名应以 .xlsx 结尾，实际=%s", filename)
	}
	// Excel .xlsx 文件以 PK (0x504B) 开头
	if buf.Len() > 2 {
		header := buf.Bytes()[:2]
		if header[0] != 0x50 || header[1] != 0x4B {
			t.Error("导出内容不是合法的 xlsx 文件")
		}
	}
}

func TestExportService_ApplicantsXLSX_NoApplicants(t *testing.T) {
	svc, progRepo, _ := setupTestExportService()
	seedExportProgram(progRepo)
	owner := &model.User{ID: 2, Role: model.RoleAdmin}

	_, _, err := svc.ApplicantsXLSX(context.Background(), owner, 1)
	if !errors.Is(err, ErrExportNoApplicants) {
		t.Errorf("期望 ErrExportNoApplicants，实际: %v", err)
	}
}

func TestExportService_ApplicantsXLSX_Authz(t *testing.T) {
	svc, progRepo, appRepo := setupTestExportService()
	seedExportProgram(progRepo) // AdminID = 2
	appRepo.apps[1] = &model.Application{
		ID: 1, UserID: 10, ProgramID: 1,
		Status: model.StatusPending, AppliedAt: time.Now(),
	}

	plainUser := &model.User{ID: 10, Role: model.RoleUser}
	if _, _, err := svc.ApplicantsXLSX(context.Background(), plainUser, 1); !errors.Is(err, ErrNotAdmin) {
		t.Errorf("普通用户期望 ErrNotAdmin，实际: %v", err)
	}

	otherAdmin := &model.User{ID: 3, Role: model.RoleAdmin}
	if _, _, err := svc.ApplicantsXLSX(context.Background(), otherAdmin, 1); !errors.Is(err, ErrNotOwner) {
		t.Errorf("非创建者管理员期望 ErrNotOwner，实际: %v", err)
	}
}

func TestExportService_ApplicantsXLSX_ProgramNotFound(t *testing.T) {
	svc, _, _ := setupTestExportService()
	owner := &model.User{ID: 2, Role: model.RoleAdmin}

	_, _, err := svc.ApplicantsXLSX(context.Background(), owner, 999)
	if !errors.Is(err, ErrProgramNotFound) {
		t.Errorf("期望 ErrProgramNotFound，实际: %v", err)
	}
}

// ── ProgramICS 测试 ──

func TestExportService_ProgramICS_DeadlineFallback(t *testing.T) {
	svc, progRepo, _ := setupTestExportService()
	seedExportProgram(progRepo) // 无起止日期，退化为截止时间单点事件

	buf, filename, err := svc.ProgramICS(context.Background(), 1)
	if err != nil {
		t.Fatalf("ProgramICS 应成功: %v", err)
	}
	if filename != "program_1.ics" {
		t.Errorf("期望文件名=program_1.ics，实际=%s", filename)
	}

	content := buf.String()
	if !strings.Contains(content, "BEGIN:VCALENDAR") || !strings.Contains(content, "BEGIN:VEVENT") {
		t.Error("导出内容应为合法的 iCalendar")
	}
	if !strings.Contains(content, "SUMMARY:开源工作坊") {
		t.Error("事件摘要应为项目标题")
	}
	if !strings.Contains(content, "program-1@enrollio") {
		t.Error("事件 UID 应按项目 ID 生成")
	}
}

func TestExportService_ProgramICS_AllDayDates(t *testing.T) {
	svc, progRepo, _ := setupTestExportService()
	program := seedExportProgram(progRepo)
	start := time.Date(2026, 11, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 11, 7, 0, 0, 0, 0, time.UTC)
	program.StartDate = &start
	program.EndDate = &end

	buf, _, err := svc.ProgramICS(context.Background(), 1)
	if err != nil {
		t.Fatalf("ProgramICS 应成功: %v", err)
	}

	content := buf.String()
	if !strings.Contains(content, "20261105") {
		t.Error("应包含全天事件的开始日期")
	}
	// DTEND 为排他边界：结束日期 +1 天
	if !strings.Contains(content, "20261108") {
		t.Error("DTEND 应为结束日期的次日")
	}
}

func TestExportService_ProgramICS_NotFound(t *testing.T) {
	svc, _, _ := setupTestExportService()

	_, _, err := svc.ProgramICS(context.Background(), 999)
	if !errors.Is(err, ErrProgramNotFound) {
		t.Errorf("期望 ErrProgramNotFound，实际: %v", err)
	}
}
