package admin

import (
	"io"

	"github.com/postdesk/internal/dashboard"
	"github.com/postdesk/internal/http/response"
	"github.com/postdesk/internal/service"

	"github.com/gin-gonic/gin"
)

const defaultPendingImageBytes = 10 << 20

// DashboardAddCategoryRequest 仪表盘追加分类请求
type DashboardAddCategoryRequest struct {
	Category string `json:"category" binding:"required"`
}

// DashboardImportResponse 导入结果与会话
type DashboardImportResponse struct {
	Session dashboard.SessionView `json:"session"`
	Result  *service.ImportResult `json:"result,omitempty"`
}

// DashboardExportResponse 导出结果与会话
type DashboardExportResponse struct {
	Session dashboard.SessionView `json:"session"`
	Result  *service.ExportResult `json:"result,omitempty"`
}

func respondSession(c *gin.Context, session *dashboard.Session, err error) {
	if err != nil {
		respondError(c, response.CodeInternal, "dashboard session unavailable", err)
		return
	}
	response.Success(c, session.View())
}

// GetDashboard 获取会话、文章列表与分类词表
func (h *Handler) GetDashboard(c *gin.Context) {
	overview, err := h.DashboardController.Overview(c.Request.Context(), dashboardSessionID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, overview)
}

// UpdateDashboardDraft 更新新建文章表单
func (h *Handler) UpdateDashboardDraft(c *gin.Context) {
	var patch dashboard.DraftPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", nil)
		return
	}
	session, err := h.DashboardController.UpdateDraft(c.Request.Context(), dashboardSessionID(c), patch)
	respondSession(c, session, err)
}

// ToggleDashboardDraftCategory 切换表单分类
func (h *Handler) ToggleDashboardDraftCategory(c *gin.Context) {
	session, err := h.DashboardController.ToggleCategory(c.Request.Context(), dashboardSessionID(c), pathParam(c, "category"))
	respondSession(c, session, err)
}

// SelectDashboardImage 选择待上传图片
func (h *Handler) SelectDashboardImage(c *gin.Context) {
	id := dashboardSessionID(c)
	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "Please select an image file first", nil)
		return
	}
	limit := h.Config.Upload.MaxSize
	if limit <= 0 {
		limit = defaultPendingImageBytes
	}
	if file.Size > limit {
		respondError(c, response.CodeBadRequest, "file exceeds size limit", nil)
		return
	}
	src, err := file.Open()
	if err != nil {
		respondError(c, response.CodeBadRequest, "failed to read image file", nil)
		return
	}
	defer src.Close()
	data, err := io.ReadAll(io.LimitReader(src, limit))
	if err != nil {
		respondError(c, response.CodeBadRequest, "failed to read image file", nil)
		return
	}
	session, err := h.DashboardController.SelectImage(c.Request.Context(), id, file.Filename, file.Header.Get("Content-Type"), data)
	respondSession(c, session, err)
}

// UploadDashboardImage 上传已选择的图片
func (h *Handler) UploadDashboardImage(c *gin.Context) {
	session, err := h.DashboardController.UploadImage(c.Request.Context(), dashboardSessionID(c))
	respondSession(c, session, err)
}

// SubmitDashboardDraft 提交表单创建文章
func (h *Handler) SubmitDashboardDraft(c *gin.Context) {
	session, err := h.DashboardController.Submit(c.Request.Context(), dashboardSessionID(c))
	respondSession(c, session, err)
}

// ResetDashboardDraft 清空表单
func (h *Handler) ResetDashboardDraft(c *gin.Context) {
	session, err := h.DashboardController.Reset(c.Request.Context(), dashboardSessionID(c))
	respondSession(c, session, err)
}

// StartDashboardCategoryEdit 进入文章分类编辑
func (h *Handler) StartDashboardCategoryEdit(c *gin.Context) {
	session, err := h.DashboardController.StartCategoryEdit(c.Request.Context(), dashboardSessionID(c), pathParam(c, "id"))
	respondSession(c, session, err)
}

// ToggleDashboardEditCategory 切换编辑中的分类
func (h *Handler) ToggleDashboardEditCategory(c *gin.Context) {
	session, err := h.DashboardController.ToggleEditCategory(c.Request.Context(), dashboardSessionID(c), pathParam(c, "category"))
	respondSession(c, session, err)
}

// SaveDashboardCategoryEdit 保存分类编辑
func (h *Handler) SaveDashboardCategoryEdit(c *gin.Context) {
	session, err := h.DashboardController.SaveCategoryEdit(c.Request.Context(), dashboardSessionID(c))
	respondSession(c, session, err)
}

// CancelDashboardCategoryEdit 取消分类编辑
func (h *Handler) CancelDashboardCategoryEdit(c *gin.Context) {
	session, err := h.DashboardController.CancelCategoryEdit(c.Request.Context(), dashboardSessionID(c))
	respondSession(c, session, err)
}

// AddDashboardPostCategory 为文章追加分类
func (h *Handler) AddDashboardPostCategory(c *gin.Context) {
	var req DashboardAddCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "category is required", nil)
		return
	}
	session, err := h.DashboardController.AddCategory(c.Request.Context(), dashboardSessionID(c), pathParam(c, "id"), req.Category)
	respondSession(c, session, err)
}

// RemoveDashboardPostCategory 从文章移除分类
func (h *Handler) RemoveDashboardPostCategory(c *gin.Context) {
	session, err := h.DashboardController.RemoveCategory(c.Request.Context(), dashboardSessionID(c), pathParam(c, "id"), pathParam(c, "category"))
	respondSession(c, session, err)
}

// DeleteDashboardPost 删除文章
func (h *Handler) DeleteDashboardPost(c *gin.Context) {
	session, err := h.DashboardController.DeletePost(c.Request.Context(), dashboardSessionID(c), pathParam(c, "id"))
	respondSession(c, session, err)
}

// ImportDashboardCSV 导入 CSV 并在会话中记录结果
func (h *Handler) ImportDashboardCSV(c *gin.Context) {
	id := dashboardSessionID(c)
	text, err := readImportText(c)
	if err != nil {
		respondError(c, response.CodeBadRequest, err.Error(), nil)
		return
	}
	session, result, err := h.DashboardController.ImportCSV(c.Request.Context(), id, text)
	if err != nil {
		respondError(c, response.CodeInternal, "dashboard session unavailable", err)
		return
	}
	response.Success(c, DashboardImportResponse{Session: session.View(), Result: result})
}

// ExportDashboardCSV 导出 CSV，文件内容随响应返回由前端下载
func (h *Handler) ExportDashboardCSV(c *gin.Context) {
	session, result, err := h.DashboardController.ExportCSV(c.Request.Context(), dashboardSessionID(c))
	if err != nil {
		respondError(c, response.CodeInternal, "dashboard session unavailable", err)
		return
	}
	response.Success(c, DashboardExportResponse{Session: session.View(), Result: result})
}
