// Package csvcodec 文章 CSV 交换格式的编码与解码
package csvcodec

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/postdesk/internal/models"
)

// Header 导出表头
const Header = "ID,Title,Slug,Content,Image,Price,Categories,CreatedAt"

const (
	minFields         = 7
	categorySeparator = ";"
	headerLines       = 1
)

var (
	ErrNoDataRows   = errors.New("CSV file is empty or invalid")
	ErrInvalidRow   = errors.New("invalid CSV format")
	ErrInvalidPrice = errors.New("invalid price")
)

// Encode 将文章列表编码为 CSV 文本，行之间用 \n 分隔，末尾无换行
func Encode(posts []models.Post) string {
	lines := make([]string, 0, len(posts)+headerLines)
	lines = append(lines, Header)
	for i := range posts {
		lines = append(lines, encodeRow(&posts[i]))
	}
	return strings.Join(lines, "\n")
}

func encodeRow(post *models.Post) string {
	createdAt := ""
	if !post.CreatedAt.IsZero() {
		createdAt = post.CreatedAt.UTC().Format(time.RFC3339)
	}
	return strings.Join([]string{
		post.ID,
		quote(post.Title),
		post.Slug,
		quote(post.Content),
		post.Image,
		post.Price.Plain(),
		quote(post.Categories.Join(categorySeparator)),
		createdAt,
	}, ",")
}

func quote(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

// Row 解码后的一行，Err 非空表示该行无法导入
type Row struct {
	Line       int // 源文件中的 1 起行号（含表头）
	Title      string
	Slug       string
	Content    string
	Image      string
	Price      models.Money
	Categories models.Categories
	Err        error
}

// RowError 行级错误
type RowError struct {
	Line  int
	Title string
	Err   error
}

func (e *RowError) Error() string {
	if e.Title != "" {
		return fmt.Sprintf("Row %d (%s): %v", e.Line, e.Title, e.Err)
	}
	return fmt.Sprintf("Row %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Decode 解码 CSV 文本；第一行无条件视为表头，空行跳过
// 单行解析失败记录在 Row.Err 中，不影响其他行
func Decode(text string) ([]Row, error) {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(strings.TrimSpace(normalized), "\n")
	if len(lines) <= headerLines {
		return nil, ErrNoDataRows
	}

	rows := make([]Row, 0, len(lines)-headerLines)
	for idx := headerLines; idx < len(lines); idx++ {
		line := strings.TrimSpace(lines[idx])
		if line == "" {
			continue
		}
		rows = append(rows, decodeLine(line, idx+1))
	}
	if len(rows) == 0 {
		return nil, ErrNoDataRows
	}
	return rows, nil
}

func decodeLine(line string, lineNo int) Row {
	row := Row{Line: lineNo}

	fields, err := splitFields(line)
	if err != nil || len(fields) < minFields {
		row.Err = &RowError{Line: lineNo, Err: ErrInvalidRow}
		return row
	}

	price, err := models.ParseMoney(fields[5])
	if err != nil {
		row.Err = &RowError{Line: lineNo, Err: fmt.Errorf("%w %q", ErrInvalidPrice, strings.TrimSpace(fields[5]))}
		return row
	}

	row.Title = strings.TrimSpace(fields[1])
	row.Slug = strings.TrimSpace(fields[2])
	row.Content = strings.TrimSpace(fields[3])
	row.Image = strings.TrimSpace(fields[4])
	row.Price = price
	row.Categories = models.NewCategories(strings.Split(fields[6], categorySeparator)...)
	return row
}

func splitFields(line string) ([]string, error) {
	reader := csv.NewReader(strings.NewReader(line))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	return reader.Read()
}

// Filename 导出文件名：<prefix>-posts-<YYYY-MM-DD>.csv
func Filename(prefix string, now time.Time) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "content"
	}
	return fmt.Sprintf("%s-posts-%s.csv", prefix, now.Format("2006-01-02"))
}
