package admin

import (
	"strings"

	"github.com/postdesk/internal/constants"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionHeader 仪表盘会话标识请求头
const SessionHeader = constants.DashboardSessionHeader

// dashboardSessionID 读取会话 ID，缺失或非法时生成新 ID，并回写到响应头
func dashboardSessionID(c *gin.Context) string {
	id := strings.TrimSpace(c.GetHeader(SessionHeader))
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	c.Header(SessionHeader, id)
	return id
}

func pathParam(c *gin.Context, name string) string {
	return strings.TrimSpace(c.Param(name))
}
