package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"ems/internal/domain/auth"
)

func requestAs(role string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if role == "" {
		return req
	}
	ctx := context.WithValue(req.Context(), ctxKeyUser, auth.Principal{UserID: "u1", Role: role})
	return req.WithContext(ctx)
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name       string
		role       string
		wantStatus int
	}{
		{"admin allowed", auth.RoleAdmin, http.StatusOK},
		{"manager allowed", auth.RoleManager, http.StatusOK},
		{"employee forbidden", auth.RoleEmployee, http.StatusForbidden},
		{"anonymous unauthorized", "", http.StatusUnauthorized},
	}

	handler := RequireRole(auth.RoleAdmin, auth.RoleManager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, requestAs(tc.role))
			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs(""))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d, want 401", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs(auth.RoleEmployee))
	if rec.Code != http.StatusOK {
		t.Fatalf("authenticated status = %d, want 200", rec.Code)
	}
}
