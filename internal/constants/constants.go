package constants

// 请求上下文与请求头
const (
	RequestIDKey           = "request_id"
	RequestIDHeader        = "X-Request-ID"
	DashboardSessionHeader = "X-Dashboard-Session"
)

// 远端文档类型
const (
	DocumentTypePost = "post"
	DocumentTypeSlug = "slug"
)
