package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	httptransport "freightquote/internal/http"
	"freightquote/internal/infra"
	"freightquote/internal/modules/carrier"
	"freightquote/internal/modules/pricing"
	"freightquote/internal/modules/quote"
	"freightquote/internal/modules/tieup"
	"freightquote/internal/types"
)

type nopQuotes struct{}

func (nopQuotes) Quote(context.Context, quote.Request) (quote.Result, error) {
	return quote.Result{}, nil
}

type nopTieUps struct{}

func (nopTieUps) Add(context.Context, tieup.AddCommand) (tieup.AddResult, error) {
	return tieup.AddResult{}, nil
}
func (nopTieUps) List(context.Context, types.ID) ([]tieup.TiedUp, error) { return nil, nil }
func (nopTieUps) Remove(context.Context, types.ID, types.ID) error { return nil }

type nopZones struct{}

func (nopZones) ZoneMatrix(context.Context, types.ID) (pricing.ZoneMatrix, error) {
	return pricing.ZoneMatrix{}, nil
}
func (nopZones) UpdateZoneMatrix(context.Context, types.ID, pricing.ZoneMatrix) error { return nil }
func (nopZones) DeleteZoneMatrix(context.Context, types.ID) error { return nil }

type nopCarriers struct{}

func (nopCarriers) Search(context.Context, string) ([]string, error) { return nil, nil }
func (nopCarriers) List(context.Context) ([]carrier.Summary, error) { return nil, nil }
func (nopCarriers) Details(context.Context, types.ID) (*carrier.Summary, error) {
	return &carrier.Summary{}, nil
}

type rejectAll struct{}

func (rejectAll) VerifyIDToken(context.Context, string) (*infra.FirebaseToken, error) {
	return nil, errors.New("rejected")
}

func newRouter(verifier infra.TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return httptransport.NewRouter(httptransport.RouterDeps{
		Quote:    nopQuotes{},
		TieUp:    nopTieUps{},
		Zones:    nopZones{},
		Carriers: nopCarriers{},
		Verifier: verifier,
	})
}

func TestRouter_Health(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter(rejectAll{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK || w.Body.String() != "OK" {
		t.Errorf("expected 200 OK, got %d %q", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestRouter_APIRequiresAuthWhenVerifierSet(t *testing.T) {
	paths := []struct{ method, path string }{
		{http.MethodPost, "/api/quotes"},
		{http.MethodGet, "/api/tie-ups?customerId=C"},
		{http.MethodGet, "/api/carriers/K1/zone-matrix"},
		{http.MethodGet, "/api/carriers?search=sa"},
		{http.MethodGet, "/api/carriers/K1"},
	}
	r := newRouter(rejectAll{})
	for _, p := range paths {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(p.method, p.path, strings.NewReader("{}")))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", p.method, p.path, w.Code)
		}
	}
}

func TestRouter_OpenWithoutVerifier(t *testing.T) {
	r := newRouter(nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/quotes", strings.NewReader(`{"customerID":"C"}`)))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}
