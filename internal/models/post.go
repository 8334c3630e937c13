package models

import (
	"time"
)

// Post 文章（存储于远端内容平台）
type Post struct {
	ID         string     `json:"id"`         // 远端文档 ID
	Revision   string     `json:"revision"`   // 远端修订号（乐观并发）
	CreatedAt  time.Time  `json:"created_at"` // 远端创建时间
	Title      string     `json:"title"`      // 标题
	Slug       string     `json:"slug"`       // 唯一标识（小写）
	Content    string     `json:"content"`    // 正文
	Image      string     `json:"image"`      // 图片地址（可选）
	Price      Money      `json:"price"`      // 价格
	Categories Categories `json:"categories"` // 分类集合
}

// HasImage 是否已关联图片
func (p *Post) HasImage() bool {
	return p != nil && p.Image != ""
}
