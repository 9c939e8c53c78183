package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	echoapi "github.com/rssbrudrapur/sewabase/apps/api/echo"
	"github.com/rssbrudrapur/sewabase/apps/api/echo/helpers"
	"github.com/rssbrudrapur/sewabase/core/attendance"
	"github.com/rssbrudrapur/sewabase/core/audit"
	"github.com/rssbrudrapur/sewabase/core/requests"
	"github.com/rssbrudrapur/sewabase/core/sewadar"
	"github.com/rssbrudrapur/sewabase/core/user"
	inmemdb "github.com/rssbrudrapur/sewabase/storage/database/inmem"
)

var (
	app      echoapi.Server
	usrRepo  user.Repository
	sewaRepo sewadar.Repository
	attRepo  interface {
		attendance.Repository
		AddDuty(d attendance.Duty)
	}
	reqSvc   *requests.Service
	auditLog *audit.Logger
	images   *imageStoreStub
	pub      *publisherStub

	errMissingToken = httpErr{Message: "missing or malformed jwt"}
	errForbidden    = httpErr{Message: "permission denied"}
)

type imageStoreStub struct {
	saved int
}

func (s *imageStoreStub) Save(img sewadar.Image) (string, error) {
	s.saved++
	if img.Content != nil {
		io.Copy(io.Discard, img.Content)
	}
	return "image/stub.jpg", nil
}

type publisherStub struct {
	events []attendance.MarkedEvent
}

func (p *publisherStub) PublishMarked(ev attendance.MarkedEvent) {
	p.events = append(p.events, ev)
}

// resetApp rebuilds the whole stack on a fresh in-memory DB so tests
// never see each other's rows.
func resetApp(t *testing.T) {
	t.Helper()

	db := inmemdb.Open()
	usrRepo = inmemdb.NewUserRepository(db)
	sewaRepo = inmemdb.NewSewadarRepository(db)
	attRepo = inmemdb.NewAttendanceRepository(db)
	images = &imageStoreStub{}
	pub = &publisherStub{}

	auditLog = audit.NewLogger(inmemdb.NewAuditRepository(db), nil)
	usrSvc := user.NewService(usrRepo)
	sewaSvc := sewadar.NewService(sewaRepo, images, auditLog)
	attSvc := attendance.NewService(attRepo, pub, auditLog)
	reqSvc = requests.NewService(inmemdb.NewRequestRepository(db), sewaRepo, images, auditLog)

	app = echoapi.NewServer(&echoapi.Options{
		DisableReqLogs: true,
		UserSvc:        usrSvc,
		SewadarSvc:     sewaSvc,
		AttendanceSvc:  attSvc,
		RequestSvc:     reqSvc,
		AuditLog:       auditLog,
	})
}

type httpErr struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

// newFormRequest builds a multipart/form-data request the way the admin
// record forms submit, with an optional "pic" file part.
func newFormRequest(t *testing.T, method, path string, fields map[string]string, pic []byte) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("newFormRequest() failed: %v", err)
		}
	}
	if pic != nil {
		fw, err := w.CreateFormFile("pic", "pic.jpg")
		if err != nil {
			t.Fatalf("newFormRequest() failed: %v", err)
		}
		if _, err = fw.Write(pic); err != nil {
			t.Fatalf("newFormRequest() failed: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("newFormRequest() failed: %v", err)
	}

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	return req, rec
}

func getToken(t *testing.T, usr user.User) string {
	claims := helpers.GetUserClaims(usr)
	token, err := helpers.GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()

	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
