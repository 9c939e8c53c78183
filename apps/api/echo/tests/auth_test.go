package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/rssbrudrapur/sewabase/core/user"
	testutil "github.com/rssbrudrapur/sewabase/tests"
)

func Test_authApi_login(t *testing.T) {
	resetApp(t)

	testutil.CreateUser(t, usrRepo, "Admin", "admin", "admin@test.cd", "s3cr3tPass", user.RoleAdmin, true)
	testutil.CreateUser(t, usrRepo, "Ghost", "ghost", "ghost@test.cd", "s3cr3tPass", user.RoleSewadar, false)

	invalidLogin := marchallObj(t, httpErr{Message: "invalid username or password"})

	tests := []httpTest{
		{
			name: "unknown user", body: marchallObj(t, user.LoginCredentials{Username: "nobody", Password: "s3cr3tPass"}),
			wantCode: http.StatusUnauthorized, wantData: invalidLogin,
		},
		{
			name: "inactive user", body: marchallObj(t, user.LoginCredentials{Username: "ghost", Password: "s3cr3tPass"}),
			wantCode: http.StatusUnauthorized, wantData: invalidLogin,
		},
		{
			name: "wrong password", body: marchallObj(t, user.LoginCredentials{Username: "admin", Password: "nope"}),
			wantCode: http.StatusUnauthorized, wantData: invalidLogin,
		},
		{
			name: "missing fields", body: marchallObj(t, user.LoginCredentials{}),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/api/login", tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("valid login", func(t *testing.T) {
		body := marchallObj(t, user.LoginCredentials{Username: "admin", Password: "s3cr3tPass"})
		req, rec := newRequest(http.MethodPost, "/api/login", body)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; want %v: %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var resp struct {
			Success bool   `json:"success"`
			Message string `json:"message"`
			Role    string `json:"role"`
			Token   string `json:"token"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if !resp.Success || resp.Message != "Login successful" {
			t.Errorf("unexpected envelope: %s", rec.Body.String())
		}
		if resp.Role != user.RoleAdmin {
			t.Errorf("role = %q; want %q", resp.Role, user.RoleAdmin)
		}
		if resp.Token == "" {
			t.Error("expected a token")
		}

		// the token opens the admin-only audit listing
		req, rec = newAuthRequest(http.MethodGet, "/api/logs", resp.Token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("token rejected: code = %v: %s", rec.Code, rec.Body.String())
		}
	})
}
