package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/teamtacles/teamtacles-api/internal/service"
	"github.com/teamtacles/teamtacles-api/internal/util"
)

type Manager interface {
	GetName() string
	RegisterPublic(group *gin.RouterGroup)
	RegisterProtected(group *gin.RouterGroup)
	RegisterAdmin(group *gin.RouterGroup)
}

// RegisterConfig carries the shared dependencies handed to every manager.
type RegisterConfig struct {
	UserService    *service.UserService
	ProjectService *service.ProjectService
	TokenMgr       *util.TokenManager
}

type ManagerRegister func(conf *RegisterConfig) Manager

// Registers collects the manager constructors; each handler file appends
// its own in init().
var Registers []ManagerRegister
