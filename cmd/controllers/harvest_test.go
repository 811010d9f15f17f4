package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type stubHarvestService struct {
	err   error
	calls int
}

func (s *stubHarvestService) Refresh(ctx context.Context) error {
	s.calls++
	return s.err
}

func TestHarvestHandlerSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)

	service := &stubHarvestService{}
	controller, err := NewHarvestController(service)
	if err != nil {
		t.Fatalf("NewHarvestController: %v", err)
	}

	router := gin.New()
	if err := controller.RegisterRoutes(router); err != nil {
		t.Fatalf("register harvest routes: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/harvest", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, recorder.Code)
	}
	if service.calls != 1 {
		t.Fatalf("refresh calls = %d, want 1", service.calls)
	}

	var resp HarvestResponse
	if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "ok" {
		t.Fatalf("status = %q, want %q", resp.Status, "ok")
	}
}

func TestHarvestHandlerError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	controller, err := NewHarvestController(&stubHarvestService{err: errors.New("boom")})
	if err != nil {
		t.Fatalf("NewHarvestController: %v", err)
	}

	router := gin.New()
	if err := controller.RegisterRoutes(router); err != nil {
		t.Fatalf("register harvest routes: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/harvest", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, recorder.Code)
	}
}

func TestNewHarvestControllerNilService(t *testing.T) {
	if _, err := NewHarvestController(nil); err == nil {
		t.Fatalf("NewHarvestController nil service: expected error")
	}
}
