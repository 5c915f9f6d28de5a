package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/normoctl/normocontrol/core/check"
	"github.com/normoctl/normocontrol/core/user"
	testutil "github.com/normoctl/normocontrol/tests"
)

func Test_studentList(t *testing.T) {
	ta := setup(t)
	reviewer := testutil.CreateUser(t, ta.usrRepo, "prof", "prof@test.cd", "!@#TripleH!@#", true)
	awe := testutil.CreateUser(t, ta.usrRepo, "awe", "awe@test.cd", "!@#TripleH!@#", false)
	kat := testutil.CreateUser(t, ta.usrRepo, "kat", "kat@test.cd", "!@#TripleH!@#", false)

	t.Run("student is forbidden", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/students/", getToken(t, awe))
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("code = %v; want %v", rec.Code, http.StatusForbidden)
		}
	})

	t.Run("reviewers are excluded", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/students/", getToken(t, reviewer))
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v", rec.Code, http.StatusOK)
		}

		var students []user.User
		if err := json.Unmarshal(rec.Body.Bytes(), &students); err != nil {
			t.Fatalf("unmarshalling students: %v", err)
		}
		if len(students) != 2 || students[0].ID != awe.ID || students[1].ID != kat.ID {
			t.Errorf("unexpected students: %+v", students)
		}
	})
}

func Test_studentActiveCheck(t *testing.T) {
	ta := setup(t)
	reviewer := testutil.CreateUser(t, ta.usrRepo, "prof", "prof@test.cd", "!@#TripleH!@#", true)
	revToken := getToken(t, reviewer)
	awe := testutil.CreateUser(t, ta.usrRepo, "awe", "awe@test.cd", "!@#TripleH!@#", false)
	testutil.CreateUser(t, ta.usrRepo, "kat", "kat@test.cd", "!@#TripleH!@#", false)
	testutil.CreateCheck(t, ta.checkRepo, awe, "", true) // archived, not current
	chk := testutil.CreateCheck(t, ta.checkRepo, awe, "", false)

	type resp struct {
		Student user.User    `json:"student"`
		Check   *check.Check `json:"check"`
	}
	get := func(t *testing.T, path string) resp {
		req, rec := newAuthRequest(http.MethodGet, path, revToken)
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var r resp
		if err := json.Unmarshal(rec.Body.Bytes(), &r); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		return r
	}

	t.Run("with active check", func(t *testing.T) {
		r := get(t, "/students/awe/")
		if r.Student.ID != awe.ID || r.Check == nil || r.Check.ID != chk.ID {
			t.Errorf("unexpected response: %+v", r)
		}
	})

	t.Run("without active check", func(t *testing.T) {
		r := get(t, "/students/kat/")
		if r.Check != nil {
			t.Errorf("check = %+v; want nil", r.Check)
		}
	})

	t.Run("unknown student", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/students/lol/", revToken)
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("code = %v; want %v", rec.Code, http.StatusNotFound)
		}
	})
}
