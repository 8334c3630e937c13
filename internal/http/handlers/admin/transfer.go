package admin

import (
	"fmt"
	"io"
	"strings"

	"github.com/postdesk/internal/http/response"

	"github.com/gin-gonic/gin"
)

const maxImportBytes = 10 << 20

// ExportPosts 导出全部文章为 CSV 附件
func (h *Handler) ExportPosts(c *gin.Context) {
	result, err := h.PostTransferService.ExportCSV(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	requestLog(c).Infow("admin_posts_exported", "count", result.Count, "filename", result.Filename)
	response.CSV(c, result.Filename, result.CSV)
}

// ImportPosts 导入 CSV，支持 multipart 字段 file 或原始请求体
func (h *Handler) ImportPosts(c *gin.Context) {
	text, err := readImportText(c)
	if err != nil {
		respondError(c, response.CodeBadRequest, err.Error(), nil)
		return
	}
	result, err := h.PostTransferService.ImportCSV(c.Request.Context(), text)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	requestLog(c).Infow("admin_posts_imported", "imported", result.Imported, "failed", len(result.Errors))
	response.SuccessWithMsg(c, fmt.Sprintf("Successfully imported %d post(s)", result.Imported), result)
}

func readImportText(c *gin.Context) (string, error) {
	var reader io.Reader
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		file, err := c.FormFile("file")
		if err != nil {
			return "", fmt.Errorf("please select a CSV file")
		}
		if file.Size > maxImportBytes {
			return "", fmt.Errorf("CSV file exceeds size limit")
		}
		src, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("failed to read CSV file")
		}
		defer src.Close()
		reader = src
	} else {
		reader = c.Request.Body
	}
	data, err := io.ReadAll(io.LimitReader(reader, maxImportBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read CSV file")
	}
	if len(data) > maxImportBytes {
		return "", fmt.Errorf("CSV file exceeds size limit")
	}
	return string(data), nil
}
