package admin

import (
	"github.com/postdesk/internal/http/response"

	"github.com/gin-gonic/gin"
)

// UploadImage 上传图片到远端资源库并返回地址
func (h *Handler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "Please select an image file first", nil)
		return
	}
	result, err := h.UploadService.UploadFile(c.Request.Context(), file)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	requestLog(c).Infow("admin_image_uploaded", "filename", file.Filename, "asset_id", result.AssetID)
	response.SuccessWithMsg(c, "Image uploaded successfully!", result)
}
