package handler

import (
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
	Registers = append(Registers, NewProjectMgr)
}

type ProjectMgr struct {
	name           string
	projectService *service.ProjectService
}

func NewProjectMgr(conf *RegisterConfig) Manager {
	return &ProjectMgr{
		name:           "project",
		projectService: conf.ProjectService,
	}
}

func (mgr *ProjectMgr) GetName() string { return mgr.name }

func (mgr *ProjectMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *ProjectMgr) RegisterProtected(g *gin.RouterGroup) {
	g.POST("", mgr.Create)
	g.GET("/all", mgr.ListAll)
	g.GET("/:id", mgr.GetByID)
	g.PUT("/:id", mgr.Update)
	g.PATCH("/:id", mgr.PartialUpdate)
	g.DELETE("/:id", mgr.Delete)
}

func (mgr *ProjectMgr) RegisterAdmin(_ *gin.RouterGroup) {}

type (
	ProjectCreateReq struct {
		Name        string `json:"name" binding:"required,max=32"`
		Description string `json:"description" binding:"required,max=128"`
		Team        []uint `json:"team"` // 团队成员的用户ID
	}

	ProjectUpdateReq struct {
		Name        string       `json:"name" binding:"required,max=32"`
		Description string       `json:"description" binding:"required,max=128"`
		Status      model.Status `json:"status" binding:"required,oneof=1 2"`
		Team        []uint       `json:"team"`
	}

	// ProjectPatchReq 中缺席的字段保持原值不变
	ProjectPatchReq struct {
		Name        *string       `json:"name" binding:"omitempty,max=32"`
		Description *string       `json:"description" binding:"omitempty,max=128"`
		Status      *model.Status `json:"status" binding:"omitempty,oneof=1 2"`
		Team        *[]uint       `json:"team"`
	}

	ProjectIDReq struct {
		ID uint `uri:"id" binding:"required"`
	}

	TeamMemberResp struct {
		ID       uint   `json:"id"`
		UserName string `json:"userName"`
	}

	ProjectResp struct {
		ID          uint             `json:"id"`          // 项目ID
		Name        string           `json:"name"`        // 项目名
		Description *string          `json:"description"` // 项目描述
		Status      model.Status     `json:"status"`      // 项目状态
		Creator     TeamMemberResp   `json:"creator"`     // 创建者
		Team        []TeamMemberResp `json:"team"`        // 团队成员
		CreatedAt   time.Time        `json:"createdAt"`   // 创建时间
		UpdatedAt   time.Time        `json:"updatedAt"`   // 更新时间
	}
)

func newProjectResp(p *model.Project) ProjectResp {
	return ProjectResp{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status,
		Creator:     TeamMemberResp{ID: p.CreatorID, UserName: p.Creator.Name},
		Team: lo.Map(p.Team, func(u model.User, _ int) TeamMemberResp {
			return TeamMemberResp{ID: u.ID, UserName: u.Name}
		}),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// Create godoc
// @Summary 创建项目
// @Description 以当前用户为创建者，创建一个项目
// @Tags Project
// @Accept json
// @Produce json
// @Security Bearer
// @Param data body ProjectCreateReq true "项目信息"
// @Success 201 {object} resputil.Response[ProjectResp] "成功创建项目"
// @Failure 400 {object} resputil.Response[any] "请求参数错误"
// @Failure 401 {object} resputil.Response[any] "未认证"
// @Router /api/project [post]
func (mgr *ProjectMgr) Create(c *gin.Context) {
	var req ProjectCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	principal := util.GetPrincipal(c)
	project, err := mgr.projectService.Create(c.Request.Context(), service.CreateProjectParams{
		Name:        req.Name,
		Description: req.Description,
		Team:        req.Team,
	}, principal)
	if err != nil {
		resputil.AppError(c, err)
		return
	}

	logutils.Log.Infof("create project success, project: %d, creator: %s", project.ID, principal.Username)
	resputil.Created(c, newProjectResp(project))
}

// GetByID godoc
// @Summary 获取单个项目
// @Description 创建者、团队成员或管理员可查看项目
// @Tags Project
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "项目ID"
// @Success 200 {object} resputil.Response[ProjectResp] "项目详情"
// @Failure 403 {object} resputil.Response[any] "无查看权限"
// @Failure 404 {object} resputil.Response[any] "项目不存在"
// @Router /api/project/{id} [get]
func (mgr *ProjectMgr) GetByID(c *gin.Context) {
	var idReq ProjectIDReq
	if err := c.ShouldBindUri(&idReq); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	project, err := mgr.projectService.GetByID(c.Request.Context(), idReq.ID, util.GetPrincipal(c))
	if err != nil {
		resputil.AppError(c, err)
		return
	}
	resputil.Success(c, newProjectResp(project))
}

// ListAll godoc
// @Summary 获取项目列表
// @Description 管理员获取所有项目；其他用户获取自己创建或参与的项目
// @Tags Project
// @Accept json
// @Produce json
// @Security Bearer
// @Param page query payload.ListReqQuery true "分页参数"
// @Success 200 {object} resputil.Response[payload.ListResp[ProjectResp]] "项目列表"
// @Failure 400 {object} resputil.Response[any] "请求参数错误"
// @Router /api/project/all [get]
func (mgr *ProjectMgr) ListAll(c *gin.Context) {
	var req payload.ListReqQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	projects, count, err := mgr.projectService.List(
		c.Request.Context(), *req.PageIndex, *req.PageSize, util.GetPrincipal(c))
	if err != nil {
		resputil.AppError(c, err)
		return
	}

	rows := lo.Map(projects, func(p model.Project, _ int) ProjectResp {
		return newProjectResp(&p)
	})
	resputil.Success(c, payload.ListResp[ProjectResp]{Rows: rows, Count: count})
}

// Update godoc
// @Summary 更新项目
// @Description 完整替换项目字段，仅创建者或管理员可操作
// @Tags Project
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "项目ID"
// @Param data body ProjectUpdateReq true "项目信息"
// @Success 200 {object} resputil.Response[ProjectResp] "更新成功"
// @Failure 400 {object} resputil.Response[any] "请求参数错误"
// @Failure 403 {object} resputil.Response[any] "无修改权限"
// @Failure 404 {object} resputil.Response[any] "项目不存在"
// @Router /api/project/{id} [put]
func (mgr *ProjectMgr) Update(c *gin.Context) {
	var idReq ProjectIDReq
	if err := c.ShouldBindUri(&idReq); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req ProjectUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	project, err := mgr.projectService.Update(c.Request.Context(), idReq.ID, service.UpdateProjectParams{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		Team:        req.Team,
	}, util.GetPrincipal(c))
	if err != nil {
		resputil.AppError(c, err)
		return
	}
	resputil.Success(c, newProjectResp(project))
}

// PartialUpdate godoc
// @Summary 部分更新项目
// @Description 只更新请求中出现的字段，仅创建者或管理员可操作
// @Tags Project
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "项目ID"
// @Param data body ProjectPatchReq true "要更新的字段"
// @Success 200 {object} resputil.Response[ProjectResp] "更新成功"
// @Failure 400 {object} resputil.Response[any] "请求参数错误"
// @Failure 403 {object} resputil.Response[any] "无修改权限"
// @Failure 404 {object} resputil.Response[any] "项目不存在"
// @Router /api/project/{id} [patch]
func (mgr *ProjectMgr) PartialUpdate(c *gin.Context) {
	var idReq ProjectIDReq
	if err := c.ShouldBindUri(&idReq); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req ProjectPatchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	project, err := mgr.projectService.PartialUpdate(c.Request.Context(), idReq.ID, service.PatchProjectParams{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		Team:        req.Team,
	}, util.GetPrincipal(c))
	if err != nil {
		resputil.AppError(c, err)
		return
	}
	resputil.Success(c, newProjectResp(project))
}

// Delete godoc
// @Summary 删除项目
// @Description 先级联删除远端任务，成功后再删除本地项目记录；任一失败则整体失败
// @Tags Project
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "项目ID"
// @Success 204 "删除成功"
// @Failure 403 {object} resputil.Response[any] "无删除权限"
// @Failure 404 {object} resputil.Response[any] "项目不存在"
// @Failure 502 {object} resputil.Response[any] "任务服务级联删除失败"
// @Failure 503 {object} resputil.Response[any] "任务服务暂不可用"
// @Router /api/project/{id} [delete]
func (mgr *ProjectMgr) Delete(c *gin.Context) {
	var idReq ProjectIDReq
	if err := c.ShouldBindUri(&idReq); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	principal := util.GetPrincipal(c)
	err := mgr.projectService.Delete(c.Request.Context(), idReq.ID, principal, util.GetRawToken(c))
	if err != nil {
		resputil.AppError(c, err)
		return
	}

	logutils.Log.Infof("delete project success, project: %d, user: %s", idReq.ID, principal.Username)
	resputil.NoContent(c)
}
