package dashboard

import (
	"encoding/base64"
	"time"

	"github.com/postdesk/internal/models"
)

// MessageKind 提示类型
type MessageKind string

const (
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
	MessageInfo    MessageKind = "info"
)

// Message 展示给操作员的纯文本提示
type Message struct {
	Kind MessageKind `json:"kind"`
	Text string      `json:"text"`
}

// Form 新建文章表单
type Form struct {
	Title      string            `json:"title"`
	Slug       string            `json:"slug"`
	Content    string            `json:"content"`
	Price      string            `json:"price"`
	Image      string            `json:"image"`
	Categories models.Categories `json:"categories"`
}

// PendingImage 已选择但尚未上传的图片
type PendingImage struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

// CategoryEdit 分类编辑状态
type CategoryEdit struct {
	PostID     string            `json:"post_id"`
	Categories models.Categories `json:"categories"`
}

// Session 单个操作员会话的临时状态
type Session struct {
	ID           string        `json:"id"`
	Form         Form          `json:"form"`
	Preview      string        `json:"preview,omitempty"` // data:<type>;base64,...
	PendingImage *PendingImage `json:"pending_image,omitempty"`
	Editing      *CategoryEdit `json:"editing,omitempty"`
	Message      *Message      `json:"message,omitempty"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// SessionView 返回给前端的会话视图，不含待上传文件内容
type SessionView struct {
	ID               string        `json:"id"`
	Form             Form          `json:"form"`
	Preview          string        `json:"preview,omitempty"`
	PendingImageName string        `json:"pending_image_name,omitempty"`
	Editing          *CategoryEdit `json:"editing,omitempty"`
	Message          *Message      `json:"message,omitempty"`
}

// NewSession 创建空会话
func NewSession(id string) *Session {
	return &Session{ID: id, Form: Form{Categories: models.Categories{}}}
}

// View 生成前端视图
func (s *Session) View() SessionView {
	view := SessionView{
		ID:      s.ID,
		Form:    s.Form,
		Preview: s.Preview,
		Editing: s.Editing,
		Message: s.Message,
	}
	if s.PendingImage != nil {
		view.PendingImageName = s.PendingImage.Filename
	}
	return view
}

func (s *Session) resetForm() {
	s.Form = Form{Categories: models.Categories{}}
	s.Preview = ""
	s.PendingImage = nil
}

func (s *Session) success(text string) {
	s.Message = &Message{Kind: MessageSuccess, Text: text}
}

func (s *Session) info(text string) {
	s.Message = &Message{Kind: MessageInfo, Text: text}
}

func (s *Session) fail(text string) {
	s.Message = &Message{Kind: MessageError, Text: text}
}

func previewDataURL(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func toggle(categories models.Categories, value string) models.Categories {
	if categories.Contains(value) {
		return categories.Without(value)
	}
	return categories.With(value)
}
