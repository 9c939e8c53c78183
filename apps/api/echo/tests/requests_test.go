package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/rssbrudrapur/sewabase/core/requests"
	"github.com/rssbrudrapur/sewabase/core/sewadar"
	"github.com/rssbrudrapur/sewabase/core/user"
	testutil "github.com/rssbrudrapur/sewabase/tests"
)

func requestForm(trackingID, reqType, badgeNo string) map[string]string {
	form := map[string]string{
		"type":      reqType,
		"requestID": trackingID,
		"username":  "ravi",
		"reason":    "details changed",
		"badgeType": "GENTS",
		"badgeNo":   badgeNo,
		"name":      "Ravi Kumar",
		"parent":    "Ram Kumar",
		"gender":    "MALE",
		"phone":     "9876543210",
		"birth":     "15-06-2000",
		"address":   "Brudrapur",
	}
	if reqType != "ADD" {
		form["originalBadgeNo"] = badgeNo
	}
	return form
}

func submitRequest(t *testing.T, trackingID, reqType, badgeNo string) requests.Request {
	t.Helper()

	req, rec := newFormRequest(t, http.MethodPost, "/api/submit-request", requestForm(trackingID, reqType, badgeNo), nil)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("submitRequest() code = %v: %s", rec.Code, rec.Body.String())
	}

	pending, err := reqSvc.Pending()
	if err != nil {
		t.Fatalf("submitRequest() listing pending: %v", err)
	}
	for _, sum := range pending {
		if sum.TrackingID == trackingID {
			full, err := reqSvc.Get(sum.ID)
			if err != nil {
				t.Fatalf("submitRequest() fetching %d: %v", sum.ID, err)
			}
			return full
		}
	}
	t.Fatalf("submitRequest(): %q not queued", trackingID)
	return requests.Request{}
}

func Test_requestsApi_submit(t *testing.T) {
	resetApp(t)

	t.Run("valid add", func(t *testing.T) {
		req, rec := newFormRequest(t, http.MethodPost, "/api/submit-request", requestForm("req-1", "ADD", "BR-000001"), nil)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusCreated,
			wantData: marchallObj(t, map[string]interface{}{
				"success":    true,
				"message":    "Request submitted successfully for Admin approval!",
				"trackingID": "req-1",
			}),
		}, rec)

		// queued only; the record store is untouched
		if _, err := sewaRepo.GetRecord("BR-000001"); err != sewadar.ErrNotFound {
			t.Errorf("GetRecord() err = %v; want ErrNotFound", err)
		}
	})

	t.Run("duplicate tracking id", func(t *testing.T) {
		req, rec := newFormRequest(t, http.MethodPost, "/api/submit-request", requestForm("req-1", "ADD", "BR-000002"), nil)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Message: "a request with this tracking ID already exists"}),
		}, rec)
	})

	t.Run("missing metadata", func(t *testing.T) {
		form := requestForm("req-2", "ADD", "BR-000003")
		delete(form, "reason")
		req, rec := newFormRequest(t, http.MethodPost, "/api/submit-request", form, nil)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %v; want %v: %s", rec.Code, http.StatusBadRequest, rec.Body.String())
		}
	})

	t.Run("invalid record payload", func(t *testing.T) {
		form := requestForm("req-3", "ADD", "br-3")
		req, rec := newFormRequest(t, http.MethodPost, "/api/submit-request", form, nil)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %v; want %v: %s", rec.Code, http.StatusBadRequest, rec.Body.String())
		}
	})
}

func Test_requestsApi_moderation(t *testing.T) {
	resetApp(t)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin", "admin@test.cd", "", user.RoleAdmin, true)
	sewadarUsr := testutil.CreateUser(t, usrRepo, "Ravi", "ravi", "ravi@test.cd", "", user.RoleSewadar, true)
	adminToken := getToken(t, admin)
	sewadarToken := getToken(t, sewadarUsr)

	queued := submitRequest(t, "req-1", "ADD", "BR-000001")

	t.Run("review endpoints are admin only", func(t *testing.T) {
		tests := []httpTest{
			{name: "pending no token", method: http.MethodGet, path: "/api/moderation/pending",
				wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
			{name: "pending sewadar token", method: http.MethodGet, path: "/api/moderation/pending", token: sewadarToken,
				wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
			{name: "approve no token", method: http.MethodPost, path: fmt.Sprintf("/api/requests/approve/%d", queued.ID),
				wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
			{name: "reject sewadar token", method: http.MethodPost, path: fmt.Sprintf("/api/requests/reject/%d", queued.ID), token: sewadarToken,
				wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				req, rec := newAuthRequest(tt.method, tt.path, tt.token)
				app.ServeHTTP(rec, req)
				checkCodeAndData(t, tt, rec)
			})
		}
	})

	t.Run("pending listing", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/moderation/pending", adminToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: marchallList(t, queued.Summary()),
		}, rec)
	})

	t.Run("approve applies the change", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, fmt.Sprintf("/api/requests/approve/%d", queued.ID), adminToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: marchallObj(t, map[string]interface{}{
				"success": true,
				"message": "Request ADD approved successfully.",
			}),
		}, rec)

		rec2 := decodeRecord(t, fetchBody(t, "/api/records/BR-000001"))
		if rec2.Name != "Ravi Kumar" {
			t.Errorf("approved record name = %q", rec2.Name)
		}
	})

	t.Run("approving twice fails", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, fmt.Sprintf("/api/requests/approve/%d", queued.ID), adminToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Message: "pending request not found or already processed"}),
		}, rec)
	})

	t.Run("reject leaves the store alone", func(t *testing.T) {
		del := submitRequest(t, "req-2", "DELETE", "BR-000001")

		body := marchallObj(t, map[string]string{"approverUsername": "admin", "rejectionReason": "record is current"})
		req, rec := newAuthRequest(http.MethodPost, fmt.Sprintf("/api/requests/reject/%d", del.ID), adminToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v: %s", rec.Code, rec.Body.String())
		}

		if _, err := sewaRepo.GetRecord("BR-000001"); err != nil {
			t.Errorf("record should survive a rejected delete: %v", err)
		}

		got, err := reqSvc.Get(del.ID)
		if err != nil {
			t.Fatalf("Get() failed: %v", err)
		}
		if got.Status != requests.StatusRejected {
			t.Errorf("status = %q; want %q", got.Status, requests.StatusRejected)
		}
	})

	t.Run("request history", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/request-history/BR-000001")
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v: %s", rec.Code, rec.Body.String())
		}
		var sums []requests.Summary
		if err := json.Unmarshal(rec.Body.Bytes(), &sums); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(sums) != 2 {
			t.Fatalf("len = %d; want 2", len(sums))
		}
		// newest first
		if sums[0].TrackingID != "req-2" || sums[1].TrackingID != "req-1" {
			t.Errorf("order = [%s, %s]; want [req-2, req-1]", sums[0].TrackingID, sums[1].TrackingID)
		}
	})

	t.Run("my requests", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/user/my-requests?username=ravi")
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v: %s", rec.Code, rec.Body.String())
		}
		var sums []requests.Summary
		if err := json.Unmarshal(rec.Body.Bytes(), &sums); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(sums) != 2 {
			t.Errorf("len = %d; want 2", len(sums))
		}

		req, rec = newRequest(http.MethodGet, "/api/user/my-requests")
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("missing username: code = %v; want %v", rec.Code, http.StatusBadRequest)
		}
	})
}

func fetchBody(t *testing.T, path string) []byte {
	t.Helper()
	req, rec := newRequest(http.MethodGet, path)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET %s: code = %v: %s", path, rec.Code, rec.Body.String())
	}
	return rec.Body.Bytes()
}
