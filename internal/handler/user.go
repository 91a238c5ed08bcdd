package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/teamtacles/teamtacles-api/dao/model"
	"github.com/teamtacles/teamtacles-api/internal/payload"
	"github.com/teamtacles/teamtacles-api/internal/resputil"
	"github.com/teamtacles/teamtacles-api/internal/service"
	"github.com/teamtacles/teamtacles-api/internal/util"
	"github.com/teamtacles/teamtacles-api/pkg/logutils"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewUserMgr)
}

type UserMgr struct {
	name        string
	userService *service.UserService
	tokenMgr    *util.TokenManager
}

func NewUserMgr(conf *RegisterConfig) Manager {
	return &UserMgr{
		name:        "user",
		userService: conf.UserService,
		tokenMgr:    conf.TokenMgr,
	}
}

func (mgr *UserMgr) GetName() string { return mgr.name }

func (mgr *UserMgr) RegisterPublic(g *gin.RouterGroup) {
	g.POST("/register", mgr.Register)
	g.POST("/login", mgr.Login)
	g.POST("/refresh", mgr.RefreshToken)
}

func (mgr *UserMgr) RegisterProtected(_ *gin.RouterGroup) {}

func (mgr *UserMgr) RegisterAdmin(g *gin.RouterGroup) {
	g.GET("", mgr.ListUsers)
	g.PATCH("/:id/role", mgr.ExchangeRole)
}

type (
	UserRegisterReq struct {
		UserName        string `json:"userName" binding:"required,min=3,max=32"`
		Email           string `json:"email" binding:"required,email"`
		Password        string `json:"password" binding:"required,min=8,max=64"`
		PasswordConfirm string `json:"passwordConfirm" binding:"required"`
	}

	RoleExchangeReq struct {
		Role string `json:"role" binding:"required"`
	}

	UserIDReq struct {
		ID uint `uri:"id" binding:"required"`
	}

	UserResp struct {
		ID        uint             `json:"id"`        // 用户ID
		UserName  string           `json:"userName"`  // 用户名称
		Email     string           `json:"email"`     // 邮箱
		Roles     []model.RoleName `json:"roles"`     // 用户角色
		CreatedAt time.Time        `json:"createdAt"` // 创建时间
	}
)

func newUserResp(user *model.User) UserResp {
	return UserResp{
		ID:        user.ID,
		UserName:  user.Name,
		Email:     user.Email,
		Roles:     user.RoleNames(),
		CreatedAt: user.CreatedAt,
	}
}

// Register godoc
// @Summary 注册新用户
// @Description 校验用户名、邮箱唯一性和密码确认，创建带默认 USER 角色的用户
// @Tags User
// @Accept json
// @Produce json
// @Param data body UserRegisterReq true "注册信息"
// @Success 201 {object} resputil.Response[UserResp] "注册成功"
// @Failure 400 {object} resputil.Response[any] "请求参数错误"
// @Failure 409 {object} resputil.Response[any] "用户名或邮箱已存在"
// @Router /api/user/register [post]
func (mgr *UserMgr) Register(c *gin.Context) {
	var req UserRegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	user, err := mgr.userService.Register(c.Request.Context(), service.RegisterParams{
		UserName:        req.UserName,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		resputil.AppError(c, err)
		return
	}

	logutils.Log.Infof("register user success, username: %s", user.Name)
	resputil.Created(c, newUserResp(user))
}

// ExchangeRole godoc
// @Summary 更换用户角色
// @Description 用新角色完整替换用户的角色集合（非追加）
// @Tags User
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "用户ID"
// @Param data body RoleExchangeReq true "新角色"
// @Success 200 {object} resputil.Response[UserResp] "更换角色成功"
// @Failure 400 {object} resputil.Response[any] "请求参数错误"
// @Failure 403 {object} resputil.Response[any] "非管理员"
// @Failure 404 {object} resputil.Response[any] "用户或角色不存在"
// @Router /api/user/{id}/role [patch]
func (mgr *UserMgr) ExchangeRole(c *gin.Context) {
	var idReq UserIDReq
	if err := c.ShouldBindUri(&idReq); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req RoleExchangeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	user, err := mgr.userService.ExchangeRole(c.Request.Context(), idReq.ID, req.Role)
	if err != nil {
		resputil.AppError(c, err)
		return
	}

	logutils.Log.Infof("exchange role success, user: %s, role: %s", user.Name, req.Role)
	resputil.Success(c, newUserResp(user))
}

// ListUsers godoc
// @Summary 列出用户信息
// @Description 分页列出所有用户
// @Tags User
// @Accept json
// @Produce json
// @Security Bearer
// @Param page query payload.ListReqQuery true "分页参数"
// @Success 200 {object} resputil.Response[payload.ListResp[UserResp]] "用户列表"
// @Failure 400 {object} resputil.Response[any] "请求参数错误"
// @Failure 403 {object} resputil.Response[any] "非管理员"
// @Router /api/user [get]
func (mgr *UserMgr) ListUsers(c *gin.Context) {
	var req payload.ListReqQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	users, count, err := mgr.userService.List(c.Request.Context(), *req.PageIndex, *req.PageSize)
	if err != nil {
		resputil.AppError(c, err)
		return
	}

	rows := lo.Map(users, func(u model.User, _ int) UserResp {
		return newUserResp(&u)
	})
	resputil.Success(c, payload.ListResp[UserResp]{Rows: rows, Count: count})
}

type (
	LoginReq struct {
		Username string `json:"username" binding:"required"` // 用户名
		Password string `json:"password" binding:"required"` // 密码
	}

	LoginResp struct {
		AccessToken  string           `json:"accessToken"`
		RefreshToken string           `json:"refreshToken"`
		Roles        []model.RoleName `json:"roles"`
	}
)

// Login godoc
// @Summary 用户登录
// @Description 校验用户身份，生成包含当前用户和角色的 JWT Token
// @Tags User
// @Accept json
// @Produce json
// @Param data body LoginReq true "登录信息"
// @Success 200 {object} resputil.Response[LoginResp] "登录成功，返回 JWT Token"
// @Failure 400 {object} resputil.Response[any] "请求参数错误"
// @Failure 401 {object} resputil.Response[any] "用户名或密码错误"
// @Router /api/user/login [post]
func (mgr *UserMgr) Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	user, err := mgr.userService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		logutils.Log.WithFields(logutils.Fields{"username": req.Username}).
			Error("invalid credentials: ", err)
		resputil.HTTPError(c, http.StatusUnauthorized, "Invalid credentials", resputil.InvalidCredentials)
		return
	}

	jwtMessage := util.JWTMessage{
		UserID:   user.ID,
		Username: user.Name,
		Roles:    user.RoleNames(),
	}
	accessToken, refreshToken, err := mgr.tokenMgr.CreateTokens(&jwtMessage)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}

	resputil.Success(c, LoginResp{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Roles:        user.RoleNames(),
	})
}

type (
	RefreshReq struct {
		RefreshToken string `json:"refreshToken" binding:"required"` // 不需要添加 `Bearer ` 前缀
	}

	RefreshResp struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
)

// RefreshToken godoc
// @Summary 刷新 Token
// @Description 校验 Refresh Token 并重新签发
// @Tags User
// @Accept json
// @Produce json
// @Param data body RefreshReq true "Refresh Token"
// @Success 200 {object} resputil.Response[RefreshResp] "刷新成功"
// @Failure 401 {object} resputil.Response[any] "Token 无效"
// @Router /api/user/refresh [post]
func (mgr *UserMgr) RefreshToken(c *gin.Context) {
	var req RefreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	claims, err := mgr.tokenMgr.CheckToken(req.RefreshToken)
	if err != nil {
		resputil.HTTPError(c, http.StatusUnauthorized, "Invalid refresh token", resputil.TokenInvalid)
		return
	}

	accessToken, refreshToken, err := mgr.tokenMgr.CreateTokens(&claims)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}

	resputil.Success(c, RefreshResp{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}
