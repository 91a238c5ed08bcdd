package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"k8s.io/klog/v2"

	"github.com/teamtacles/teamtacles-api/dao/query"
	"github.com/teamtacles/teamtacles-api/dao/store"
	"github.com/teamtacles/teamtacles-api/internal"
	"github.com/teamtacles/teamtacles-api/internal/handler"
	"github.com/teamtacles/teamtacles-api/internal/service"
	"github.com/teamtacles/teamtacles-api/internal/util"
	"github.com/teamtacles/teamtacles-api/pkg/config"
	"github.com/teamtacles/teamtacles-api/pkg/taskservice"
)

var (
	readHeaderTimeout = 10 * time.Second // 设置读取头部的超时时间
	cancelTimeout     = 10 * time.Second // 设置取消操作的超时时间
)

// @title						TeamTacles API
// @version						1.0.0
// @description					Multi-tenant project/task management backend.
// @securityDefinitions.apikey	Bearer
// @in							header
// @name						Authorization
// @description					访问 /api/user/login 并获取 TOKEN 后，填入 'Bearer ${TOKEN}' 以访问受保护的接口
func main() {
	// Load debug environment if needed
	if gin.Mode() == gin.DebugMode {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			klog.Warningf("Failed to load .env: %s", err)
		}
	}

	backendConfig := config.GetConfig()

	// Database and schema
	db := query.GetDB()
	if err := query.Migrate(db); err != nil {
		klog.Fatalf("Failed to migrate schema: %s", err)
	}

	// Wire stores, gateway and services
	userStore := store.NewUserStore(db)
	projectStore := store.NewProjectStore(db)
	taskClient := taskservice.NewClient(backendConfig)

	registerConfig := &handler.RegisterConfig{
		UserService:    service.NewUserService(userStore),
		ProjectService: service.NewProjectService(projectStore, userStore, taskClient),
		TokenMgr:       util.GetTokenMgr(),
	}

	startServer(backendConfig, registerConfig)
}

// startServer runs the gin server until SIGINT/SIGTERM, then shuts it down
// gracefully.
// reference: https://gin-gonic.com/en/docs/examples/graceful-restart-or-stop
func startServer(backendConfig *config.Config, registerConfig *handler.RegisterConfig) {
	klog.Info("starting server")
	backend := internal.Register(registerConfig)

	srv := &http.Server{
		Addr:              backendConfig.ServerAddr,
		Handler:           backend.R,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			klog.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server.
	quit := make(chan os.Signal, 1)
	// kill (no params) by default sends syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall.SIGKILL but can't be caught, so don't need add it
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	klog.Info("Shutdown Gin Server ...")

	ctx, cancel := context.WithTimeout(context.Background(), cancelTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		klog.Info("Gin Server Shutdown:", err)
	}
	klog.Info("Gin Server exiting")
}
