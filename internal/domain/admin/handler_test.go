package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medicompare/medicompare/internal/domain/hospital"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Count   *int            `json:"count"`
	Data    json.RawMessage `json:"data"`
}

func serveAdmin(t *testing.T, h *Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	e := echo.New()
	h.RegisterRoutes(e.Group("/api/v1/admin"))

	req := httptest.NewRequest(method, "/api/v1/admin"+path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %q: %v", rec.Body.String(), err)
		}
	}
	return rec, env
}

func TestVerifyEndpoint(t *testing.T) {
	repo := newStubHospitalRepo()
	h := repo.add(&hospital.Hospital{Status: hospital.StatusPending})
	handler := NewHandler(newTestService(repo), zerolog.Nop())

	rec, env := serveAdmin(t, handler, http.MethodPatch, "/hospitals/"+h.ID.String()+"/verify", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if env.Message != "Hospital successfully verified" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestVerifyEndpointConflictIncludesStatus(t *testing.T) {
	repo := newStubHospitalRepo()
	h := repo.add(&hospital.Hospital{Status: hospital.StatusRejected})
	handler := NewHandler(newTestService(repo), zerolog.Nop())

	rec, env := serveAdmin(t, handler, http.MethodPatch, "/hospitals/"+h.ID.String()+"/verify", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if env.Message != "Hospital cannot be verified (current status: REJECTED)" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestVerifyEndpointNotFound(t *testing.T) {
	handler := NewHandler(newTestService(newStubHospitalRepo()), zerolog.Nop())

	rec, env := serveAdmin(t, handler, http.MethodPatch, "/hospitals/"+uuid.NewString()+"/verify", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if env.Message != "Hospital not found" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestVerifyEndpointBadID(t *testing.T) {
	handler := NewHandler(newTestService(newStubHospitalRepo()), zerolog.Nop())

	rec, env := serveAdmin(t, handler, http.MethodPatch, "/hospitals/not-a-uuid/verify", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if env.Message != "Invalid hospital id" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestRejectEndpointWithReason(t *testing.T) {
	repo := newStubHospitalRepo()
	h := repo.add(&hospital.Hospital{Status: hospital.StatusPending})
	handler := NewHandler(newTestService(repo), zerolog.Nop())

	rec, _ := serveAdmin(t, handler, http.MethodPatch,
		"/hospitals/"+h.ID.String()+"/reject", `{"reason":"blurry document"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if h.RejectionReason == nil || *h.RejectionReason != "blurry document" {
		t.Errorf("reason = %v", h.RejectionReason)
	}
}

func TestRejectEndpointConflict(t *testing.T) {
	repo := newStubHospitalRepo()
	h := repo.add(&hospital.Hospital{Status: hospital.StatusVerified})
	handler := NewHandler(newTestService(repo), zerolog.Nop())

	rec, env := serveAdmin(t, handler, http.MethodPatch, "/hospitals/"+h.ID.String()+"/reject", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if env.Message != "Hospital cannot be rejected (current status: VERIFIED)" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestListPendingEndpoint(t *testing.T) {
	repo := newStubHospitalRepo()
	for i := 0; i < 3; i++ {
		repo.add(&hospital.Hospital{Status: hospital.StatusPending})
	}
	handler := NewHandler(newTestService(repo), zerolog.Nop())

	rec, env := serveAdmin(t, handler, http.MethodGet, "/hospitals/pending?limit=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if env.Count == nil || *env.Count != 2 {
		t.Fatalf("count = %v, want 2", env.Count)
	}
	var page pendingPage
	if err := json.Unmarshal(env.Data, &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if page.Total != 3 {
		t.Errorf("total = %d, want 3", page.Total)
	}
	if page.NextOffset == nil || *page.NextOffset != 2 {
		t.Errorf("next_offset = %v, want 2", page.NextOffset)
	}
}
