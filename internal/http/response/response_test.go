package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestErrorAttachesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Set("request_id", "req-1")

	Error(c, CodeConflict, "conflict")

	if rec.Code != http.StatusOK {
		t.Fatalf("business errors use http 200, got %d", rec.Code)
	}
	var body struct {
		StatusCode int               `json:"status_code"`
		Msg        string            `json:"msg"`
		Data       map[string]string `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v", err)
	}
	if body.StatusCode != CodeConflict || body.Data["request_id"] != "req-1" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestCSVSetsAttachmentHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	CSV(c, "content-posts-2025-01-01.csv", "ID,Title")

	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="content-posts-2025-01-01.csv"` {
		t.Fatalf("unexpected disposition: %s", got)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/csv; charset=utf-8" {
		t.Fatalf("unexpected content type: %s", got)
	}
	if rec.Body.String() != "ID,Title" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestWrapErrorDefaults(t *testing.T) {
	cause := errors.New("remote down")
	appErr := WrapError(0, "", cause)
	if appErr.Code != CodeInternal {
		t.Fatalf("invalid code should fall back to internal, got %d", appErr.Code)
	}
	if appErr.Message != "remote down" {
		t.Fatalf("empty message should use cause, got %q", appErr.Message)
	}

	wrapped := fmt.Errorf("handler: %w", WrapError(CodeConflict, "slug taken", nil))
	got, ok := AsAppError(wrapped)
	if !ok || got.Code != CodeConflict || got.Message != "slug taken" {
		t.Fatalf("unexpected app error: %+v ok=%v", got, ok)
	}
	if _, ok := AsAppError(cause); ok {
		t.Fatalf("plain error should not match")
	}
}
