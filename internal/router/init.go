package router

import (
	"github.com/oksasatya/user-identity-service/internal/application"
	"github.com/oksasatya/user-identity-service/internal/container"
	pginfra "github.com/oksasatya/user-identity-service/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/user-identity-service/internal/interface/http"
	"github.com/oksasatya/user-identity-service/internal/router/modules"
)

// InitModules initializes all application modules and registers them with
// the router registry. Called once during application startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	repo := pginfra.NewUserRepository(container.GetPGPool())
	users := application.NewUserService(repo, logger, container.GetES(), cfg.ESUsersIndex, cfg.BcryptCost)
	auth := application.NewAuthService(users, repo, container.GetRedis(), container.GetRabbitPub(), logger, cfg.VerifyEmailURL, cfg.MailSendEnabled)

	userHandler := handlers.NewUserHandler(users, logger)
	authHandler := handlers.NewAuthHandler(auth, logger)
	healthHandler := handlers.NewHealthHandler(container.GetPGPool(), container.GetRedis())

	r.Add(modules.NewUserModule(userHandler))
	r.Add(modules.NewAuthModule(authHandler))
	r.Add(modules.NewHealthModule(healthHandler))
}
