package handlers

import (
	"bytes"
	"context"
	"database/sql/driver"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/crucial707/travel-journal/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

var (
	userCols  = []string{"id", "full_name", "email", "password_hash", "created_on"}
	storyCols = []string{"id", "title", "story", "visited_location", "image_url", "visited_date", "is_favourite", "user_id", "created_on"}
)

const placeholderURL = "http://localhost:8000/assests/placeholder1.jpeg"

func storyRow(id, userID uuid.UUID, title, image string, fav bool) []driver.Value {
	return []driver.Value{id.String(), title, "body", "{Rome}", image,
		time.UnixMilli(1714521600000).UTC(), fav, userID.String(), time.Now()}
}

// requestWithChiURLParams returns a request with chi route context and URL params set.
func requestWithChiURLParams(method, path string, body []byte, params map[string]string) *http.Request {
	var r *http.Request
	if body != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func asUser(r *http.Request, userID uuid.UUID) *http.Request {
	return r.WithContext(middleware.WithUserID(r.Context(), userID))
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func expectMessage(t *testing.T, out map[string]interface{}, wantErr bool, message string) {
	t.Helper()
	if out["error"] != wantErr {
		t.Errorf("error flag: got %v, want %v", out["error"], wantErr)
	}
	if out["message"] != message {
		t.Errorf("message: got %v, want %q", out["message"], message)
	}
}
