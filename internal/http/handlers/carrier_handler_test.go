// README: Tests for the carrier directory handler.
package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"freightquote/internal/http/handlers"
	"freightquote/internal/modules/carrier"
	"freightquote/internal/types"
)

type fakeCarrierDirectory struct {
	mu       sync.Mutex
	searched []string
	names    []string
	list     []carrier.Summary
	err      error
}

func (f *fakeCarrierDirectory) Search(_ context.Context, prefix string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searched = append(f.searched, prefix)
	if strings.TrimSpace(prefix) == "" {
		return nil, carrier.ErrBadRequest
	}
	return f.names, f.err
}

func (f *fakeCarrierDirectory) List(context.Context) ([]carrier.Summary, error) {
	return f.list, f.err
}

func (f *fakeCarrierDirectory) Details(_ context.Context, id types.ID) (*carrier.Summary, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.list {
		if f.list[i].ID == id {
			return &f.list[i], nil
		}
	}
	return nil, carrier.ErrNotFound
}

func buildCarrierRouter(svc *fakeCarrierDirectory) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handlers.NewCarrierHandler(svc)
	r.GET("/api/carriers", h.List)
	r.GET("/api/carriers/:id", h.Get)
	return r
}

func TestCarrier_SearchReturnsBareNames(t *testing.T) {
	svc := &fakeCarrierDirectory{names: []string{"Safe Express", "Safexpress Cargo"}}
	r := buildCarrierRouter(svc)

	w := doRequest(r, http.MethodGet, "/api/carriers?search=saf", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var names []string
	if err := json.Unmarshal(w.Body.Bytes(), &names); err != nil {
		t.Fatalf("expected a JSON array: %v", err)
	}
	if len(names) != 2 || names[0] != "Safe Express" {
		t.Errorf("unexpected names: %v", names)
	}
	if len(svc.searched) != 1 || svc.searched[0] != "saf" {
		t.Errorf("unexpected search calls: %v", svc.searched)
	}
}

func TestCarrier_SearchEdgeCases(t *testing.T) {
	r := buildCarrierRouter(&fakeCarrierDirectory{})

	w := doRequest(r, http.MethodGet, "/api/carriers?search=zz", nil, "")
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("no match: expected 200 [], got %d %s", w.Code, w.Body.String())
	}

	w = doRequest(r, http.MethodGet, "/api/carriers?search=", nil, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("blank search: expected 400, got %d", w.Code)
	}
}

func TestCarrier_ListAndDetails(t *testing.T) {
	svc := &fakeCarrierDirectory{list: []carrier.Summary{
		{ID: "K1", Name: "Safe Express", ServicePincodes: 2},
	}}
	r := buildCarrierRouter(svc)

	w := doRequest(r, http.MethodGet, "/api/carriers", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", w.Code)
	}
	body := decodeBody(w)
	data, ok := body["data"].([]any)
	if body["success"] != true || !ok || len(data) != 1 {
		t.Fatalf("unexpected list body: %v", body)
	}
	if first, _ := data[0].(map[string]any); first["companyName"] != "Safe Express" {
		t.Errorf("unexpected entry: %v", data[0])
	}

	w = doRequest(r, http.MethodGet, "/api/carriers/K1", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("details: expected 200, got %d", w.Code)
	}
	detail, _ := decodeBody(w)["data"].(map[string]any)
	if detail["id"] != "K1" || detail["servicePincodes"] != float64(2) {
		t.Errorf("unexpected details: %v", detail)
	}

	w = doRequest(r, http.MethodGet, "/api/carriers/nope", nil, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("missing: expected 404, got %d", w.Code)
	}
}

func TestCarrier_EmptyListIsArray(t *testing.T) {
	r := buildCarrierRouter(&fakeCarrierDirectory{})
	w := doRequest(r, http.MethodGet, "/api/carriers", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if data, ok := decodeBody(w)["data"].([]any); !ok || len(data) != 0 {
		t.Errorf("expected empty array, got %v", decodeBody(w)["data"])
	}
}

func TestCarrier_StoreFailureIs500(t *testing.T) {
	r := buildCarrierRouter(&fakeCarrierDirectory{err: errors.New("db down")})
	for _, path := range []string{"/api/carriers", "/api/carriers?search=sa", "/api/carriers/K1"} {
		w := doRequest(r, http.MethodGet, path, nil, "")
		if w.Code != http.StatusInternalServerError {
			t.Errorf("%s: expected 500, got %d", path, w.Code)
		}
	}
}
