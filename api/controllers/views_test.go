package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nazmulcodes/deshcart-backend/internal/views"
)

func newViewsTestService(t *testing.T) *views.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	schema := `
CREATE TABLE IF NOT EXISTS dashboard_views (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  division TEXT,
  timeframe_months INTEGER NOT NULL DEFAULT 6,
  playback_speed_ms INTEGER NOT NULL DEFAULT 500,
  created_by_email TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	if err := db.Exec(schema).Error; err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return views.NewService(views.NewRepository(db), testLogger())
}

func TestViewsCreateAndList(t *testing.T) {
	svc := newViewsTestService(t)

	body := strings.NewReader(`{"name":"Dhaka last quarter","division":"Dhaka","timeframe_months":3,"playback_speed_ms":250,"created_by_email":"admin@deshcart.com.bd"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/views", body)
	resp := httptest.NewRecorder()
	ViewsCreate(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}

	var created struct {
		Data views.ViewDTO `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if created.Data.Name != "Dhaka last quarter" {
		t.Fatalf("unexpected name %q", created.Data.Name)
	}

	listReq := httptest.NewRequest(http.MethodGet, "/api/admin/v1/views?limit=10", nil)
	listResp := httptest.NewRecorder()
	ViewsList(svc, testLogger())(listResp, listReq)

	if listResp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", listResp.Code)
	}
	var page struct {
		Data views.ViewsPageDTO `json:"data"`
	}
	if err := json.Unmarshal(listResp.Body.Bytes(), &page); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(page.Data.Items) != 1 {
		t.Fatalf("expected 1 preset got %d", len(page.Data.Items))
	}
}

func TestViewsCreateRejectsInvalidBody(t *testing.T) {
	svc := newViewsTestService(t)

	body := strings.NewReader(`{"name":"","timeframe_months":3,"created_by_email":"not-an-email"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/views", body)
	resp := httptest.NewRecorder()
	ViewsCreate(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestViewsDeleteInvalidID(t *testing.T) {
	req := addRouteParam(httptest.NewRequest(http.MethodDelete, "/api/admin/v1/views/bad", nil), "viewId", "bad")
	resp := httptest.NewRecorder()
	ViewsDelete(nil, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestViewsDeleteNotFound(t *testing.T) {
	svc := newViewsTestService(t)

	id := "0e8dd1f7-66cb-4e0e-b9be-0d41caebc8a4"
	req := addRouteParam(httptest.NewRequest(http.MethodDelete, "/api/admin/v1/views/"+id, nil), "viewId", id)
	resp := httptest.NewRecorder()
	ViewsDelete(svc, testLogger())(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
