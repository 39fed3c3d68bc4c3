package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/PriyanshuSingh9/enrollio/internal/dto"
	"github.com/PriyanshuSingh9/enrollio/internal/service"
	"github.com/PriyanshuSingh9/enrollio/pkg/response"
)

// ProgramHandler 项目目录 HTTP 处理器
type ProgramHandler struct {
	identitySvc service.IdentityService
	programSvc  service.ProgramService
	exportSvc   service.ExportService
}

// NewProgramHandler 创建 ProgramHandler
func NewProgramHandler(identitySvc service.IdentityService, programSvc service.ProgramService, exportSvc service.ExportService) *ProgramHandler {
	return &ProgramHandler{identitySvc: identitySvc, programSvc: programSvc, exportSvc: exportSvc}
}

// List 在线项目列表
// GET /api/v1/programs?type=event&category=&mode=&page=&page_size=
func (h *ProgramHandler) List(c *gin.Context) {
	var req dto.ProgramListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.programSvc.ListActive(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Get 项目详情（含按序自定义问题）
// GET /api/v1/programs/:id
func (h *ProgramHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, 10001, "项目 ID 无效")
		return
	}

	result, err := h.programSvc.GetWithFields(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProgramNotFound) {
			response.NotFound(c, 13001, "项目不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Create 创建项目
// POST /api/v1/programs （仅管理员）
func (h *ProgramHandler) Create(c *gin.Context) {
	caller, ok := MustResolveUser(c, h.identitySvc)
	if !ok {
		return
	}

	var req dto.CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.programSvc.Create(c.Request.Context(), caller, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAdmin):
			response.Forbidden(c, 10003, "仅管理员可创建项目")
		case errors.Is(err, service.ErrMissingFields):
			response.ErrorWithDetails(c, http.StatusBadRequest, 13002, "缺少必填字段", err.Error())
		case errors.Is(err, service.ErrInvalidDate):
			response.ErrorWithDetails(c, http.StatusBadRequest, 13002, "日期格式无效", err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, result)
}

// Calendar 项目日历导出
// GET /api/v1/programs/:id/calendar.ics
func (h *ProgramHandler) Calendar(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, 10001, "项目 ID 无效")
		return
	}

	buf, filename, err := h.exportSvc.ProgramICS(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProgramNotFound) {
			response.NotFound(c, 13001, "项目不存在")
			return
		}
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", buf.Bytes())
}
