package contentstore

import (
	"encoding/json"
)

// Mutation 单个变更操作，三个字段互斥
type Mutation struct {
	Create interface{} `json:"create,omitempty"`
	Delete *DeleteOp   `json:"delete,omitempty"`
	Patch  *PatchOp    `json:"patch,omitempty"`
}

// DeleteOp 按 ID 删除
type DeleteOp struct {
	ID string `json:"id"`
}

// PatchOp 按 ID 局部更新
type PatchOp struct {
	ID           string                 `json:"id"`
	IfRevisionID string                 `json:"ifRevisionID,omitempty"` // 修订号不匹配时远端返回 409
	Set          map[string]interface{} `json:"set,omitempty"`
	Unset        []string               `json:"unset,omitempty"`
}

// Create 创建文档
func Create(doc interface{}) Mutation {
	return Mutation{Create: doc}
}

// Delete 删除文档
func Delete(id string) Mutation {
	return Mutation{Delete: &DeleteOp{ID: id}}
}

// Patch 更新文档字段
func Patch(id string, set map[string]interface{}) Mutation {
	return Mutation{Patch: &PatchOp{ID: id, Set: set}}
}

// PatchIfRevision 带修订号条件的更新
func PatchIfRevision(id, revision string, set map[string]interface{}) Mutation {
	return Mutation{Patch: &PatchOp{ID: id, IfRevisionID: revision, Set: set}}
}

// 只有带修订号条件的批次，409 才表示修订冲突
func hasRevisionCondition(mutations []Mutation) bool {
	for _, m := range mutations {
		if m.Patch != nil && m.Patch.IfRevisionID != "" {
			return true
		}
	}
	return false
}

// MutateResult 变更接口返回
type MutateResult struct {
	TransactionID string           `json:"transactionId"`
	Results       []MutationResult `json:"results"`
}

// MutationResult 单个变更结果
type MutationResult struct {
	ID        string          `json:"id"`
	Operation string          `json:"operation"`
	Document  json.RawMessage `json:"document,omitempty"`
}

// FirstDocument 解析第一个返回的文档
func (r *MutateResult) FirstDocument(dest interface{}) (bool, error) {
	if r == nil {
		return false, nil
	}
	for _, item := range r.Results {
		if len(item.Document) == 0 || string(item.Document) == "null" {
			continue
		}
		if err := json.Unmarshal(item.Document, dest); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// Asset 上传后的资源文档
type Asset struct {
	ID               string `json:"_id"`
	URL              string `json:"url"`
	OriginalFilename string `json:"originalFilename"`
	MimeType         string `json:"mimeType"`
	Size             int64  `json:"size"`
}
