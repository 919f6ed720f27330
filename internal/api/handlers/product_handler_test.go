package handlers

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
)

// validation runs before any repository access, so a nil repo is safe here
func productRouter() chi.Router {
	h := NewProductHandler(nil)
	r := chi.NewRouter()
	r.Post("/api/admin/products", h.Create)
	r.Put("/api/admin/products/{id}", h.Update)
	return r
}

func TestProductCreateRejectsInvalidBody(t *testing.T) {
	r := productRouter()

	for _, body := range []string{`{}`, `{"name":"Paneer Tikka"}`, `{"price":250}`, `{"name":"X","price":-1}`} {
		rec := do(t, r, http.MethodPost, "/api/admin/products", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("create with %s: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestProductUpdateRejectsInvalidBody(t *testing.T) {
	r := productRouter()

	for _, body := range []string{`{}`, `{"name":"Paneer Tikka"}`, `{"price":250}`, `{"name":"X","price":0}`} {
		rec := do(t, r, http.MethodPut, "/api/admin/products/1", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("update with %s: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestProductUpdateRejectsBadID(t *testing.T) {
	r := productRouter()

	rec := do(t, r, http.MethodPut, "/api/admin/products/abc", `{"name":"X","price":10}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
