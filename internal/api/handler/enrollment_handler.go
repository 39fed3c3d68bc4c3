package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/PriyanshuSingh9/enrollio/internal/dto"
	"github.com/PriyanshuSingh9/enrollio/internal/model"
	"github.com/PriyanshuSingh9/enrollio/internal/service"
	"github.com/PriyanshuSingh9/enrollio/pkg/response"
)

// EnrollmentHandler 报名向导 HTTP 处理器
// 向导会话按 (当前用户, 项目) 定位，路由统一挂在 /programs/:id/enrollment 下
type EnrollmentHandler struct {
	identitySvc   service.IdentityService
	enrollmentSvc service.EnrollmentService
}

// NewEnrollmentHandler 创建 EnrollmentHandler
func NewEnrollmentHandler(identitySvc service.IdentityService, enrollmentSvc service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{identitySvc: identitySvc, enrollmentSvc: enrollmentSvc}
}

func (h *EnrollmentHandler) programID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, 10001, "项目 ID 无效")
		return 0, false
	}
	return id, true
}

// writeWizardError 向导操作的统一错误映射
func writeWizardError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProgramNotFound):
		response.NotFound(c, 13001, "项目不存在")
	case errors.Is(err, service.ErrProgramClosed):
		response.BadRequest(c, 13003, "该项目已停止报名")
	case errors.Is(err, service.ErrAlreadyApplied):
		response.Conflict(c, 14001, "你已申请过该项目")
	case errors.Is(err, service.ErrNoSession):
		response.NotFound(c, 14003, "报名向导会话不存在或已过期")
	case errors.Is(err, model.ErrWizardAtFirstStep),
		errors.Is(err, model.ErrWizardAtLastStep),
		errors.Is(err, model.ErrWizardNotAtReview),
		errors.Is(err, model.ErrWizardTerminal):
		response.BadRequest(c, 14003, err.Error())
	case errors.Is(err, model.ErrWizardSubmitPending):
		response.Conflict(c, 14004, "提交正在处理中，请勿重复操作")
	case errors.Is(err, service.ErrNotSignedIn):
		response.Unauthorized(c, 10002, "请先登录")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 12001, "用户不存在，请先完成账号同步")
	default:
		response.InternalError(c)
	}
}

// Start 开始（或恢复）报名向导
// POST /api/v1/programs/:id/enrollment
func (h *EnrollmentHandler) Start(c *gin.Context) {
	user, ok := MustResolveUser(c, h.identitySvc)
	if !ok {
		return
	}
	programID, ok := h.programID(c)
	if !ok {
		return
	}

	state, err := h.enrollmentSvc.Start(c.Request.Context(), user, programID)
	if err != nil {
		writeWizardError(c, err)
		return
	}
	response.Created(c, state)
}

// Get 当前向导状态
// GET /api/v1/programs/:id/enrollment
func (h *EnrollmentHandler) Get(c *gin.Context) {
	user, ok := MustResolveUser(c, h.identitySvc)
	if !ok {
		return
	}
	programID, ok := h.programID(c)
	if !ok {
		return
	}

	state, err := h.enrollmentSvc.Get(c.Request.Context(), user, programID)
	if err != nil {
		writeWizardError(c, err)
		return
	}
	response.OK(c, state)
}

// Next 前进一步
// POST /api/v1/programs/:id/enrollment/next
func (h *EnrollmentHandler) Next(c *gin.Context) {
	user, ok := MustResolveUser(c, h.identitySvc)
	if !ok {
		return
	}
	programID, ok := h.programID(c)
	if !ok {
		return
	}

	state, err := h.enrollmentSvc.Next(c.Request.Context(), user, programID)
	if err != nil {
		writeWizardError(c, err)
		return
	}
	response.OK(c, state)
}

// Back 后退一步
// POST /api/v1/programs/:id/enrollment/back
func (h *EnrollmentHandler) Back(c *gin.Context) {
	user, ok := MustResolveUser(c, h.identitySvc)
	if !ok {
		return
	}
	programID, ok := h.programID(c)
	if !ok {
		return
	}

	state, err := h.enrollmentSvc.Back(c.Request.Context(), user, programID)
	if err != nil {
		writeWizardError(c, err)
		return
	}
	response.OK(c, state)
}

// UpdateForm 合并更新表单字段
// PUT /api/v1/programs/:id/enrollment/form
func (h *EnrollmentHandler) UpdateForm(c *gin.Context) {
	user, ok := MustResolveUser(c, h.identitySvc)
	if !ok {
		return
	}
	programID, ok := h.programID(c)
	if !ok {
		return
	}

	var req dto.WizardFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	state, err := h.enrollmentSvc.UpdateForm(c.Request.Context(), user, programID, &req)
	if err != nil {
		writeWizardError(c, err)
		return
	}
	response.OK(c, state)
}

// SetResponses 设置自定义问题回答
// PUT /api/v1/programs/:id/enrollment/responses
func (h *EnrollmentHandler) SetResponses(c *gin.Context) {
	user, ok := MustResolveUser(c, h.identitySvc)
	if !ok {
		return
	}
	programID, ok := h.programID(c)
	if !ok {
		return
	}

	var req dto.WizardResponsesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	state, err := h.enrollmentSvc.SetResponses(c.Request.Context(), user, programID, &req)
	if err != nil {
		writeWizardError(c, err)
		return
	}
	response.OK(c, state)
}

// Submit 在确认页发起提交
// POST /api/v1/programs/:id/enrollment/submit
// 可恢复的失败（重复申请、存储故障等）以 state.Result 内联返回，HTTP 仍为 200
func (h *EnrollmentHandler) Submit(c *gin.Context) {
	user, ok := MustResolveUser(c, h.identitySvc)
	if !ok {
		return
	}
	principal, ok := MustGetPrincipal(c)
	if !ok {
		return
	}
	programID, ok := h.programID(c)
	if !ok {
		return
	}

	state, err := h.enrollmentSvc.Submit(c.Request.Context(), user, principal, programID)
	if err != nil {
		writeWizardError(c, err)
		return
	}
	response.OK(c, state)
}

// Abandon 放弃报名，清除会话
// DELETE /api/v1/programs/:id/enrollment
func (h *EnrollmentHandler) Abandon(c *gin.Context) {
	user, ok := MustResolveUser(c, h.identitySvc)
	if !ok {
		return
	}
	programID, ok := h.programID(c)
	if !ok {
		return
	}

	if err := h.enrollmentSvc.Abandon(c.Request.Context(), user, programID); err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}
