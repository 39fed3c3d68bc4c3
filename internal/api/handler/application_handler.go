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

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ApplicationHandler 申请查询、审核与导出相关接口
type ApplicationHandler struct {
	identitySvc    service.IdentityService
	applicationSvc service.ApplicationService
	exportSvc      service.ExportService
}

// NewApplicationHandler 创建 ApplicationHandler
func NewApplicationHandler(identitySvc service.IdentityService, applicationSvc service.ApplicationService, exportSvc service.ExportService) *ApplicationHandler {
	return &ApplicationHandler{
		identitySvc:    identitySvc,
		applicationSvc: applicationSvc,
		exportSvc:      exportSvc,
	}
}

// ListMine 当前用户的申请列表
// GET /api/v1/applications/my
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	user, ok := MustResolveUser(c, h.identitySvc)
	if !ok {
		return
	}

	list, err := h.applicationSvc.ListMine(c.Request.Context(), user.ID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, list)
}

// ListByProgram 某项目的申请人列表（仅项目创建者）
// GET /api/v1/programs/:id/applications
func (h *ApplicationHandler) ListByProgram(c *gin.Context) {
	user, ok := MustResolveUser(c, h.identitySvc)
	if !ok {
		return
	}
	programID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, 10001, "项目 ID 无效")
		return
	}

	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.applicationSvc.ListByProgram(c.Request.Context(), user, programID, &page)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAdmin), errors.Is(err, service.ErrNotOwner):
			response.Forbidden(c, 10003, "无权查看该项目的申请")
		case errors.Is(err, service.ErrProgramNotFound):
			response.NotFound(c, 13001, "项目不存在")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OKPage(c, list, total, page.GetPage(), page.GetPageSize())
}

// Review 审核申请状态
// PUT /api/v1/applications/:id/status
func (h *ApplicationHandler) Review(c *gin.Context) {
	user, ok := MustResolveUser(c, h.identitySvc)
	if !ok {
		return
	}
	applicationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, 10001, "申请 ID 无效")
		return
	}

	var req dto.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.applicationSvc.Review(c.Request.Context(), user, applicationID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAdmin), errors.Is(err, service.ErrNotOwner):
			response.Forbidden(c, 10003, "无权审核该申请")
		case errors.Is(err, service.ErrApplicationNotFound):
			response.NotFound(c, 13001, "申请不存在")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, result)
}

// ExportApplicants 导出某项目的申请人 Excel（仅项目创建者）
// GET /api/v1/programs/:id/applications/export
func (h *ApplicationHandler) ExportApplicants(c *gin.Context) {
	user, ok := MustResolveUser(c, h.identitySvc)
	if !ok {
		return
	}
	programID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, 10001, "项目 ID 无效")
		return
	}

	buf, filename, err := h.exportSvc.ApplicantsXLSX(c.Request.Context(), user, programID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAdmin), errors.Is(err, service.ErrNotOwner):
			response.Forbidden(c, 10003, "无权导出该项目的申请")
		case errors.Is(err, service.ErrProgramNotFound):
			response.NotFound(c, 13001, "项目不存在")
		case errors.Is(err, service.ErrExportNoApplicants):
			response.NotFound(c, 13001, "该项目暂无申请记录")
		default:
			response.InternalError(c)
		}
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
