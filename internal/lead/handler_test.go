package lead

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/voicedesk/voicedesk/pkg/logging"
)

func TestListByBusiness_Success(t *testing.T) {
	repo := NewInMemoryRepository()
	_, _ = repo.Create(context.Background(), &CreateLeadRequest{
		BusinessID: "ace_plumbing",
		Link:       "https://wa.me/+15550001111?text=x",
	})
	handler := NewHandler(repo, logging.Default())

	r := chi.NewRouter()
	r.Get("/businesses/{businessID}/leads", handler.ListByBusiness)

	req := httptest.NewRequest(http.MethodGet, "/businesses/ace_plumbing/leads", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", w.Code, http.StatusOK)
	}
	var resp ListLeadsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 1 || len(resp.Leads) != 1 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

type failingRepository struct{}

func (failingRepository) Create(context.Context, *CreateLeadRequest) (*Lead, error) {
	return nil, errors.New("boom")
}

func (failingRepository) ListByBusiness(context.Context, string) ([]*Lead, error) {
	return nil, errors.New("boom")
}

func TestListByBusiness_RepositoryError(t *testing.T) {
	handler := NewHandler(failingRepository{}, logging.Default())

	r := chi.NewRouter()
	r.Get("/businesses/{businessID}/leads", handler.ListByBusiness)

	req := httptest.NewRequest(http.MethodGet, "/businesses/ace_plumbing/leads", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want %d", w.Code, http.StatusInternalServerError)
	}
}
