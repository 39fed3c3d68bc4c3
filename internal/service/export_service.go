package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/PriyanshuSingh9/enrollio/internal/model"
	"github.com/PriyanshuSingh9/enrollio/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoApplicants = errors.New("该项目暂无申请人")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 申请人名单导出为 Excel (.xlsx)：固定列 + 每个自定义问题一列
//   - 项目日程导出为 iCalendar (.ics)：有起止日期用起止日期，否则以报名
//     截止时间作为单点事件，供申请人加入日历
//   - 均以 bytes.Buffer 返回，由 Handler 层设置响应头后写入 Response
type ExportService interface {
	// ApplicantsXLSX 导出项目申请人名单（仅项目创建者）
	ApplicantsXLSX(ctx context.Context, caller *model.User, programID int64) (*bytes.Buffer, string, error)
	// ProgramICS 导出项目日历
	ProgramICS(ctx context.Context, programID int64) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

const exportPageSize = 1000 // 单次导出上限，超出按申请时间取最近一批

func (s *exportService) ApplicantsXLSX(ctx context.Context, caller *model.User, programID int64) (*bytes.Buffer, string, error) {
	// 1. 鉴权：管理员且为项目创建者
	program, err := s.repo.Program.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrProgramNotFound
		}
		return nil, "", err
	}
	if !caller.IsAdmin() {
		return nil, "", ErrNotAdmin
	}
	if program.AdminID != caller.ID {
		return nil, "", ErrNotOwner
	}

	// 2. 查询申请与问题定义
	apps, _, err := s.repo.Application.ListByProgram(ctx, programID, 0, exportPageSize)
	if err != nil {
		s.logger.Error("查询申请人名单失败", zap.Int64("program_id", programID), zap.Error(err))
		return nil, "", err
	}
	if len(apps) == 0 {
		return nil, "", ErrExportNoApplicants
	}

	fields, err := s.repo.Program.ListFields(ctx, programID)
	if err != nil {
		return nil, "", err
	}

	// 3. 生成工作簿：固定列 + 每个自定义问题一列
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Applicants"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, "", ErrExportGenerateFail
	}

	headers := []string{"姓名", "邮箱", "状态", "申请时间"}
	for _, field := range fields {
		headers = append(headers, field.Label)
	}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, "", ErrExportGenerateFail
		}
	}

	for row, app := range apps {
		answerByField := make(map[int64]string, len(app.Responses))
		for _, r := range app.Responses {
			answerByField[r.CustomFieldID] = r.ResponseValue
		}

		values := make([]interface{}, 0, len(headers))
		if app.User != nil {
			values = append(values, app.User.Name, app.User.Email)
		} else {
			values = append(values, "", "")
		}
		values = append(values, app.Status, app.AppliedAt.Format("2006-01-02 15:04"))
		for _, field := range fields {
			values = append(values, answerByField[field.ID])
		}

		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, "", ErrExportGenerateFail
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("写出 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("applicants_%d_%s.xlsx", programID, time.Now().Format("20060102"))
	return buf, filename, nil
}

func (s *exportService) ProgramICS(ctx context.Context, programID int64) (*bytes.Buffer, string, error) {
	program, err := s.repo.Program.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrProgramNotFound
		}
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//enrollio//program-calendar//EN")

	event := cal.AddEvent(fmt.Sprintf("program-%d@enrollio", program.ID))
	event.SetCreatedTime(program.CreatedAt)
	event.SetDtStampTime(time.Now())
	event.SetSummary(program.Title)
	event.SetDescription(program.Description)
	if program.Location != "" {
		event.SetLocation(program.Location)
	}

	// 有起止日期用起止日期（全天事件），否则退化为截止时间单点事件
	if program.StartDate != nil {
		event.SetAllDayStartAt(*program.StartDate)
		if program.EndDate != nil {
			// DTEND 为排他边界，结束日期 +1 天
			event.SetAllDayEndAt(program.EndDate.AddDate(0, 0, 1))
		} else {
			event.SetAllDayEndAt(program.StartDate.AddDate(0, 0, 1))
		}
	} else {
		event.SetStartAt(program.Deadline)
		event.SetEndAt(program.Deadline.Add(time.Hour))
	}

	var buf bytes.Buffer
	if err := cal.SerializeTo(&buf); err != nil {
		s.logger.Error("序列化 iCalendar 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("program_%d.ics", program.ID)
	return &buf, filename, nil
}
