package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/user-identity-service/internal/interface/http"
)

// AuthModule wires registration, login and e-mail verification.
// POST /api/auth/register, POST /api/auth/login,
// POST /api/auth/verify/init, POST /api/auth/verify/confirm
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", m.Handler.Register)
		auth.POST("/login", m.Handler.Login)
		auth.POST("/verify/init", m.Handler.VerifyInit)
		auth.POST("/verify/confirm", m.Handler.VerifyConfirm)
	}
}
