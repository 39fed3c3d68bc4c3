package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/PriyanshuSingh9/enrollio/internal/api/middleware"
	"github.com/PriyanshuSingh9/enrollio/internal/model"
	"github.com/PriyanshuSingh9/enrollio/internal/service"
	"github.com/PriyanshuSingh9/enrollio/pkg/idtoken"
	"github.com/PriyanshuSingh9/enrollio/pkg/response"
)

// resolvedUserKey 请求级缓存键：同一请求内内部用户只解析一次
const resolvedUserKey = "resolved_user"

// MustGetPrincipal 从 Gin 上下文中安全提取已认证主体。
// 如果认证中间件未正确注入，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetPrincipal(c *gin.Context) (*idtoken.Principal, bool) {
	v, exists := c.Get(middleware.PrincipalKey)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	p, ok := v.(*idtoken.Principal)
	if !ok || p == nil {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	return p, true
}

// MustResolveUser 把主体解析为内部用户记录，并缓存在请求上下文中
// （显式的请求级记忆化，避免同一请求多次查库；绝不跨请求共享）。
// 未建档的主体返回 404，调用方在 ok=false 时直接 return。
func MustResolveUser(c *gin.Context, identitySvc service.IdentityService) (*model.User, bool) {
	if v, exists := c.Get(resolvedUserKey); exists {
		if user, ok := v.(*model.User); ok {
			return user, true
		}
	}

	principal, ok := MustGetPrincipal(c)
	if !ok {
		return nil, false
	}

	user, err := identitySvc.Resolve(c.Request.Context(), principal.ExternalID())
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 12001, "用户不存在，请先完成账号同步")
			return nil, false
		}
		response.InternalError(c)
		return nil, false
	}

	c.Set(resolvedUserKey, user)
	return user, true
}
