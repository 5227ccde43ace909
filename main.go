package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/netgrid/backend/internal/config"
	"github.com/netgrid/backend/internal/core"
	"github.com/netgrid/backend/internal/handler"
	"github.com/netgrid/backend/internal/offline"
	"github.com/netgrid/backend/internal/store"
)

// sweepInterval drives the periodic hard-timeout sweep of the session
// store.
const sweepInterval = time.Minute

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.Auth.JWTSecret == "" {
		log.Fatal("[Main] JWT_SECRET is required")
	}

	users, err := store.NewUserStore(cfg.Store.UserDBDir, cfg.Auth.PasswordKey)
	if err != nil {
		log.Fatalf("[Main] user store: %v", err)
	}
	if err := users.EnsureBuiltins(); err != nil {
		log.Fatalf("[Main] ensure builtin users: %v", err)
	}
	projects, err := store.NewProjectStore(cfg.Store.ProjectDBDir)
	if err != nil {
		log.Fatalf("[Main] project store: %v", err)
	}

	builder := offline.NewBuilder(cfg.Export.ScratchDir)
	c := core.New(users, projects, builder, core.Options{
		JWTSecret:          cfg.Auth.JWTSecret,
		HardTimeoutMinutes: cfg.Auth.HardTimeoutMinutes,
		ScratchDir:         cfg.Export.ScratchDir,
	})

	go func() {
		for range time.Tick(sweepInterval) {
			c.CheckTokenHardTimeout()
		}
	}()

	router := gin.Default()
	router.GET("/", handler.Root)
	router.GET("/ping", handler.Ping)

	authHandler := handler.NewAuthHandler(c)
	userHandler := handler.NewUserHandler(c)
	projectHandler := handler.NewProjectHandler(c, projects)

	api := router.Group("/api/v1")
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/cli/login", authHandler.CLILogin)

	authed := api.Group("", handler.Authenticate(c, cfg.Auth.BypassTokens))
	authed.POST("/auth/logout", authHandler.Logout)
	authed.GET("/auth/verify", authHandler.Verify)
	authed.POST("/auth/renew", authHandler.Renew)
	authed.GET("/auth/cli/session", authHandler.CLISession)

	authed.GET("/projects/:id", projectHandler.Get)

	elevated := authed.Group("", handler.RequireSupervisor())
	elevated.GET("/users", userHandler.List)
	elevated.POST("/users", userHandler.Create)
	elevated.PUT("/users/:id/password", userHandler.ChangePassword)
	elevated.PUT("/users/:id/role", userHandler.SetRole)
	elevated.PUT("/users/:id/profiles", userHandler.SetProfiles)
	elevated.DELETE("/users/:id/:username", userHandler.Delete)
	elevated.PUT("/projects/:id", projectHandler.Put)
	elevated.POST("/projects/:id/export", projectHandler.Export)
	elevated.POST("/projects/:id/baselines/:baselineId/export", projectHandler.ExportBaseline)
	elevated.POST("/projects/:id/import", projectHandler.Import)

	if err := router.Run(cfg.Server.Addr); err != nil {
		log.Fatalf("[Main] server: %v", err)
	}
}
