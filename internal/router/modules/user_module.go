package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/user-identity-service/internal/interface/http"
)

// UserModule wires the user directory CRUD and search routes.
// GET /api/users, GET /api/users/search, GET /api/users/:id,
// POST /api/users, PUT /api/users/:id, DELETE /api/users/:id
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.GET("", m.Handler.FindAll)
		users.GET("/search", m.Handler.Search)
		users.GET("/:id", m.Handler.FindOne)
		users.POST("", m.Handler.Create)
		users.PUT("/:id", m.Handler.Update)
		users.DELETE("/:id", m.Handler.Remove)
	}
}
