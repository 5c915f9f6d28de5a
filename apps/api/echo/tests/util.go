package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/normoctl/normocontrol/apps/api/echo"
	"github.com/normoctl/normocontrol/core/check"
	"github.com/normoctl/normocontrol/core/group"
	"github.com/normoctl/normocontrol/core/user"
	emailsvc "github.com/normoctl/normocontrol/services/email"
	logsvc "github.com/normoctl/normocontrol/services/logger"
	"github.com/normoctl/normocontrol/storage/database/inmem"
	"github.com/normoctl/normocontrol/storage/files"
	testutil "github.com/normoctl/normocontrol/tests"
)

type testApp struct {
	app Server

	db        *inmem.DB
	usrRepo   user.Repository
	groupRepo group.Repository
	checkRepo check.Repository

	usrSvc   *user.Service
	groupSvc *group.Service
	checkSvc *check.Service
	mailSvc  *emailsvc.MockService
}

func setup(t *testing.T) *testApp {
	testutil.Setup()

	db := inmem.NewDB()
	usrRepo := inmem.NewUserRepository(db)
	groupRepo := inmem.NewGroupRepository(db)
	checkRepo := inmem.NewCheckRepository(db)

	logger := logsvc.NewConsoleLogger(log.New(io.Discard, "", 0))
	mailSvc := emailsvc.NewMockService()
	usrSvc := user.NewService(usrRepo)
	groupSvc := group.NewService(groupRepo)
	checkSvc := check.NewService(checkRepo, usrRepo, files.NewLocalStorage(t.TempDir()), mailSvc, logger)

	app := NewServer(&Options{
		DisableReqLogs: true,
		Logger:         logger,
		SignalShutdown: func() {},
		UserSvc:        usrSvc,
		GroupSvc:       groupSvc,
		CheckSvc:       checkSvc,
	})

	return &testApp{
		app:       app,
		db:        db,
		usrRepo:   usrRepo,
		groupRepo: groupRepo,
		checkRepo: checkRepo,
		usrSvc:    usrSvc,
		groupSvc:  groupSvc,
		checkSvc:  checkSvc,
		mailSvc:   mailSvc,
	}
}

type httpErr struct {
	Error string `json:"error"`
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
	addToken(req, token)
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func newFormRequest(method, path, token string, form url.Values) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	addToken(req, token)
	rec := httptest.NewRecorder()
	return req, rec
}

type upload struct {
	field   string
	name    string
	content []byte
}

func newUploadRequest(t *testing.T, path, token string, fields url.Values, uploads ...upload) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()

	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	for field, vals := range fields {
		for _, val := range vals {
			if err := w.WriteField(field, val); err != nil {
				t.Fatalf("newUploadRequest() failed: %v", err)
			}
		}
	}
	for _, up := range uploads {
		fw, err := w.CreateFormFile(up.field, up.name)
		if err != nil {
			t.Fatalf("newUploadRequest() failed: %v", err)
		}
		if _, err = fw.Write(up.content); err != nil {
			t.Fatalf("newUploadRequest() failed: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("newUploadRequest() failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	addToken(req, token)
	rec := httptest.NewRecorder()
	return req, rec
}

func addToken(req *http.Request, token string) {
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	}
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()

	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()

	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()

	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func checkRedirect(t *testing.T, rec *httptest.ResponseRecorder, wantLocation string) {
	t.Helper()

	if rec.Code != http.StatusFound {
		t.Fatalf("failed! code = %v; want %v", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != wantLocation {
		t.Errorf("failed! location = %s; want %s", loc, wantLocation)
	}
}
