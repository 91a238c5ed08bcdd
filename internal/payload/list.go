package payload

// 分页请求统一接口
type (
	// ListReqQuery 分页请求参数（从 query 中获取）
	// 如果需要包含其他参数，不能通过组合的方式，需要直接定义在结构体中（否则无法通过 Gin 校验）
	ListReqQuery struct {
		PageIndex *int `form:"pageIndex" binding:"required"` // 第几页（从0开始）
		PageSize  *int `form:"pageSize" binding:"required"`  // 每页大小
	}
	ListResp[T any] struct {
		Rows  []T   `json:"rows"`
		Count int64 `json:"count"`
	}
)
