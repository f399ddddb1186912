package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "ticketbooking/pkg/errors"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "conflict", err: apperrors.Conflict("room already booked"), wantStatus: http.StatusConflict, wantCode: apperrors.CodeConflict},
		{name: "validation", err: apperrors.Validation("bad", nil), wantStatus: http.StatusBadRequest, wantCode: apperrors.CodeValidation},
		{name: "plain error", err: errors.New("mongo: socket closed"), wantStatus: http.StatusInternalServerError, wantCode: apperrors.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			if err := WriteError(w, tt.err); err != nil {
				t.Fatalf("WriteError returned %v", err)
			}
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var body apperrors.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid body: %v", err)
			}
			if body.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", body.Code, tt.wantCode)
			}
			if strings.Contains(w.Body.String(), "socket closed") {
				t.Error("internal cause leaked to client")
			}
		})
	}
}

func TestNewPaginatedResponse(t *testing.T) {
	tests := []struct {
		name      string
		total     int64
		limit     int
		offset    int64
		wantPage  int64
		wantPages int64
	}{
		{name: "first page", total: 45, limit: 20, offset: 0, wantPage: 1, wantPages: 3},
		{name: "second page", total: 45, limit: 20, offset: 20, wantPage: 2, wantPages: 3},
		{name: "exact multiple", total: 40, limit: 20, offset: 20, wantPage: 2, wantPages: 2},
		{name: "empty", total: 0, limit: 20, offset: 0, wantPage: 1, wantPages: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := NewPaginatedResponse(nil, tt.total, tt.limit, tt.offset)
			if resp.Page != tt.wantPage || resp.Pages != tt.wantPages {
				t.Errorf("page/pages = %d/%d, want %d/%d", resp.Page, resp.Pages, tt.wantPage, tt.wantPages)
			}
		})
	}
}

func TestExtractLimitOffset(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int64
		wantErr    bool
	}{
		{name: "defaults", query: "", wantLimit: 20, wantOffset: 0},
		{name: "skip alias", query: "limit=5&skip=10", wantLimit: 5, wantOffset: 10},
		{name: "offset wins over skip", query: "offset=3&skip=10", wantLimit: 20, wantOffset: 3},
		{name: "limit clamped", query: "limit=1000", wantLimit: 100, wantOffset: 0},
		{name: "bad limit", query: "limit=abc", wantErr: true},
		{name: "bad skip", query: "skip=-x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/hotels?"+tt.query, nil)
			limit, offset, err := ExtractLimitOffset(r)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if limit != tt.wantLimit || offset != tt.wantOffset {
				t.Errorf("got %d/%d, want %d/%d", limit, offset, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Seaside"}`))
	if err := DecodeJSON(r, &dst); err != nil || dst.Name != "Seaside" {
		t.Fatalf("DecodeJSON() = %v, name %q", err, dst.Name)
	}

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	err := DecodeJSON(r, &dst)
	if apperrors.AsAppError(err).StatusCode() != http.StatusBadRequest {
		t.Errorf("empty body should be 400, got %v", err)
	}

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	if apperrors.AsAppError(DecodeJSON(r, &dst)).StatusCode() != http.StatusBadRequest {
		t.Error("malformed body should be 400")
	}
}
