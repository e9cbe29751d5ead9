package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func TestHTTPMiddleware(t *testing.T) {
	svc := newTestJWTService(t)
	scorerTok, _ := svc.GenerateToken("crm", []string{RoleScorer})
	guestTok, _ := svc.GenerateToken("guest", []string{"viewer"})

	var sawClaims bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawClaims = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	h := HTTPMiddleware(svc, []string{"/healthz"}, ScoringRoles...)(next)

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantClaims bool
	}{
		{name: "skipped path", path: "/healthz", wantStatus: http.StatusNoContent},
		{name: "missing token", path: "/predict", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", path: "/predict", header: "Bearer nope", wantStatus: http.StatusUnauthorized},
		{name: "wrong role", path: "/predict", header: "Bearer " + guestTok, wantStatus: http.StatusForbidden},
		{name: "scorer", path: "/predict", header: "Bearer " + scorerTok, wantStatus: http.StatusNoContent, wantClaims: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sawClaims = false
			req := httptest.NewRequest(http.MethodPost, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if sawClaims != tt.wantClaims {
				t.Errorf("claims in context = %v, want %v", sawClaims, tt.wantClaims)
			}
		})
	}
}

func TestUnaryAuthInterceptor(t *testing.T) {
	svc := newTestJWTService(t)
	adminTok, _ := svc.GenerateToken("ops", []string{RoleAdmin})
	guestTok, _ := svc.GenerateToken("guest", nil)

	interceptor := UnaryAuthInterceptor(svc, []string{"/grpc.health.v1.Health/Check"}, ScoringRoles...)
	handler := func(ctx context.Context, _ interface{}) (interface{}, error) {
		if _, ok := ClaimsFromContext(ctx); ok {
			return "authed", nil
		}
		return "anonymous", nil
	}

	call := func(method, token string) (interface{}, error) {
		ctx := context.Background()
		if token != "" {
			ctx = metadata.NewIncomingContext(ctx, metadata.Pairs("authorization", "Bearer "+token))
		}
		return interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: method}, handler)
	}

	resp, err := call("/grpc.health.v1.Health/Check", "")
	if err != nil || resp != "anonymous" {
		t.Errorf("health check = %v, %v", resp, err)
	}

	_, err = call("/bib.propensity.v1.PropensityService/Predict", "")
	if status.Code(err) != codes.Unauthenticated {
		t.Errorf("no token code = %v, want Unauthenticated", status.Code(err))
	}

	_, err = call("/bib.propensity.v1.PropensityService/Predict", guestTok)
	if status.Code(err) != codes.PermissionDenied {
		t.Errorf("guest code = %v, want PermissionDenied", status.Code(err))
	}

	resp, err = call("/bib.propensity.v1.PropensityService/Predict", adminTok)
	if err != nil || resp != "authed" {
		t.Errorf("admin = %v, %v", resp, err)
	}
}
