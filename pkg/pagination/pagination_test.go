package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func paramsFor(t *testing.T, query string) Params {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	rec := httptest.NewRecorder()
	return FromContext(e.NewContext(req, rec))
}

func TestFromContextDefaults(t *testing.T) {
	p := paramsFor(t, "")
	if p.Limit != DefaultLimit || p.Offset != 0 {
		t.Errorf("got %+v, want defaults", p)
	}
}

func TestFromContextCapsLimit(t *testing.T) {
	p := paramsFor(t, "limit=1000")
	if p.Limit != MaxLimit {
		t.Errorf("limit = %d, want %d", p.Limit, MaxLimit)
	}
}

func TestFromContextNegativeValues(t *testing.T) {
	p := paramsFor(t, "limit=-5&offset=-10")
	if p.Limit != DefaultLimit || p.Offset != 0 {
		t.Errorf("got %+v, want defaults", p)
	}
}

func TestHasNext(t *testing.T) {
	p := Params{Limit: 20, Offset: 0}
	if !p.HasNext(50) {
		t.Error("expected next page for total=50")
	}
	if p.HasNext(20) {
		t.Error("expected no next page for total=20")
	}
	if p.NextOffset() != 20 {
		t.Errorf("next offset = %d", p.NextOffset())
	}
}
