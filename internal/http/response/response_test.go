package response

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestErrorCarriesRequestIDOnEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-9")

	Error(c, CodeBadRequest, "bad request")

	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if resp.StatusCode != CodeBadRequest {
		t.Fatalf("status_code want %d got %d", CodeBadRequest, resp.StatusCode)
	}
	if resp.RequestID != "req-9" {
		t.Fatalf("request_id want req-9 got %s", resp.RequestID)
	}
}

func TestErrorWithDataKeepsPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ErrorWithData(c, CodeConflict, "conflict", gin.H{"order_no": "SHK-1"})

	var resp struct {
		StatusCode int               `json:"status_code"`
		Data       map[string]string `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if resp.Data["order_no"] != "SHK-1" {
		t.Fatalf("data payload lost: %s", w.Body.String())
	}
}

func TestSuccessOmitsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-9")

	Success(c, gin.H{"ok": true})

	if strings.Contains(w.Body.String(), "request_id") {
		t.Fatalf("success response should not carry request_id: %s", w.Body.String())
	}
}
