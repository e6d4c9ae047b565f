package echoapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	. "github.com/trezcool/shule/apps/api/echo"
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/catalog"
	"github.com/trezcool/shule/core/insight"
	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/storage/kv/memory"
	"github.com/trezcool/shule/storage/localstore"
	testutil "github.com/trezcool/shule/tests"
)

const term1 = "Term 1"

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     string
	role     string
	wantCode int
	wantBody string // substring
}

type failingMedium struct{ memkv.DB }

func (failingMedium) GetItem(context.Context, string) ([]byte, error) {
	return nil, context.DeadlineExceeded
}

func fixture() school.Dataset {
	cat := catalog.Default()
	s1 := testutil.Student("f1n-s1", "f1n", 95)
	s1.ParentEmail = null.StringFrom("p@school.ke")
	return school.Dataset{
		Students: []school.Student{s1, testutil.Student("f1n-s2", "f1n", 60)},
		Results: []school.ExamResult{
			testutil.Result(cat, "f1n-s1", "math", term1, 50),
			testutil.Result(cat, "f1n-s2", "math", term1, 51),
			testutil.Result(cat, "f1n-s1", "eng", term1, 80),
		},
		Fees: []school.FeeRecord{
			{ID: "fee1", StudentID: "f1n-s1", Amount: 45000, Type: school.FeeTuition, Status: school.FeePaid},
		},
		Notifications: []school.Notification{
			{ID: "n1", UserID: "t1", Title: "Staff meeting", Type: school.NotificationInfo},
		},
	}
}

func newServer(t *testing.T, store *localstore.Store) Server {
	conf := &core.Config{AppName: "Shule", TestMode: true}
	return NewServer(ServerDeps{
		Conf:           conf,
		SchoolSvc:      school.NewService(store, catalog.Default()),
		Store:          store,
		InsightSvc:     insight.NewService(nil, 0, nil),
		DisableReqLogs: true,
	})
}

func do(app http.Handler, method, path, role, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("X-Role", role)
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func runTests(t *testing.T, app http.Handler, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(app, tt.method, tt.path, tt.role, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestReadEndpoints(t *testing.T) {
	app := newServer(t, testutil.NewStore(t, fixture()))

	runTests(t, app, []httpTest{
		{name: "home", method: http.MethodGet, path: "/", wantCode: http.StatusOK, wantBody: "Welcome to Shule API!"},
		{name: "catalog", method: http.MethodGet, path: "/v1/catalog", wantCode: http.StatusOK, wantBody: `"grade":"A-"`},
		{name: "class students", method: http.MethodGet, path: "/v1/classes/f1n/students", wantCode: http.StatusOK, wantBody: `"id":"f1n-s2"`},
		{name: "empty class", method: http.MethodGet, path: "/v1/classes/f4n/students", wantCode: http.StatusOK, wantBody: "[]"},
		{name: "unknown class", method: http.MethodGet, path: "/v1/classes/f9z/students", wantCode: http.StatusNotFound},
		{name: "class average", method: http.MethodGet, path: "/v1/classes/f1n/average?subject=math", wantCode: http.StatusOK, wantBody: `"average":51`},
		{name: "class average no results", method: http.MethodGet, path: "/v1/classes/f1n/average?term=Term+3", wantCode: http.StatusOK, wantBody: `"average":0`},
		{name: "class average unknown term", method: http.MethodGet, path: "/v1/classes/f1n/average?term=Term+9", wantCode: http.StatusBadRequest, wantBody: "unknown term"},
		{name: "class average unknown subject", method: http.MethodGet, path: "/v1/classes/f1n/average?subject=latin", wantCode: http.StatusBadRequest},
		{name: "subject averages", method: http.MethodGet, path: "/v1/classes/f1n/subjects", wantCode: http.StatusOK, wantBody: `"subjectId":"eng"`},
		{name: "class insights demo", method: http.MethodGet, path: "/v1/classes/f1n/insights", wantCode: http.StatusOK, wantBody: insight.ClassDemoText},
		{name: "at risk", method: http.MethodGet, path: "/v1/students/at-risk", wantCode: http.StatusOK, wantBody: `"low-attendance"`},
		{name: "student", method: http.MethodGet, path: "/v1/students/f1n-s1", wantCode: http.StatusOK, wantBody: `"parentEmail":"p@school.ke"`},
		{name: "unknown student", method: http.MethodGet, path: "/v1/students/ghost", wantCode: http.StatusNotFound, wantBody: "student not found"},
		{name: "student results", method: http.MethodGet, path: "/v1/students/f1n-s1/results", wantCode: http.StatusOK, wantBody: `"id":"f1n-s1-eng-t1"`},
		{name: "unknown student results", method: http.MethodGet, path: "/v1/students/ghost/results", wantCode: http.StatusNotFound},
		{name: "fees", method: http.MethodGet, path: "/v1/students/f1n-s1/fees", wantCode: http.StatusOK, wantBody: `"cleared":true`},
		{name: "student insights demo", method: http.MethodGet, path: "/v1/students/f1n-s1/insights", wantCode: http.StatusOK, wantBody: `"fallback":true`},
		{name: "notifications", method: http.MethodGet, path: "/v1/users/t1/notifications", wantCode: http.StatusOK, wantBody: "Staff meeting"},
		{name: "overview", method: http.MethodGet, path: "/v1/overview", wantCode: http.StatusOK, wantBody: `"schoolMean":60`},
		{name: "overview term", method: http.MethodGet, path: "/v1/overview?term=Term+2", wantCode: http.StatusOK, wantBody: `"classId":"f1n","name":"Form 1 North","average":0`},
		{name: "overview unknown term", method: http.MethodGet, path: "/v1/overview?term=Term+9", wantCode: http.StatusBadRequest},
		{name: "school insights demo", method: http.MethodGet, path: "/v1/overview/insights", wantCode: http.StatusOK, wantBody: insight.ClassDemoText},
		{name: "metrics", method: http.MethodGet, path: "/metrics", wantCode: http.StatusOK, wantBody: "shule_http_requests_total"},
	})
}

func TestOverview_empty(t *testing.T) {
	app := newServer(t, testutil.NewStore(t, school.Dataset{}))

	runTests(t, app, []httpTest{
		{name: "no results", method: http.MethodGet, path: "/v1/overview", wantCode: http.StatusOK, wantBody: `"totalStudents":0,"activeClasses":6,"schoolMean":0`},
	})
}

func TestInsightMetrics_perServer(t *testing.T) {
	store := testutil.NewStore(t, fixture())
	insights := insight.NewService(nil, 0, nil)
	conf := &core.Config{AppName: "Shule", TestMode: true}
	newApp := func() Server {
		return NewServer(ServerDeps{
			Conf:           conf,
			SchoolSvc:      school.NewService(store, catalog.Default()),
			Store:          store,
			InsightSvc:     insights,
			DisableReqLogs: true,
		})
	}
	first, second := newApp(), newApp()

	do(first, http.MethodGet, "/v1/classes/f1n/insights", "", "")
	do(first, http.MethodGet, "/v1/students/f1n-s1/insights", "", "")
	do(second, http.MethodGet, "/v1/overview/insights", "", "")

	body := do(first, http.MethodGet, "/metrics", "", "").Body.String()
	assert.Contains(t, body, `shule_insight_requests_total{kind="class",outcome="demo"} 1`)
	assert.Contains(t, body, `shule_insight_requests_total{kind="student",outcome="demo"} 1`)
	assert.NotContains(t, body, `kind="school"`)

	body = do(second, http.MethodGet, "/metrics", "", "").Body.String()
	assert.Contains(t, body, `shule_insight_requests_total{kind="school",outcome="demo"} 1`)
	assert.NotContains(t, body, `kind="class"`)
}

func TestSession(t *testing.T) {
	app := newServer(t, testutil.NewStore(t, fixture()))

	runTests(t, app, []httpTest{
		{name: "admin", method: http.MethodPost, path: "/v1/session", body: `{"role":"ADMIN"}`, wantCode: http.StatusOK, wantBody: `"id":"admin1"`},
		{name: "parent lowercase", method: http.MethodPost, path: "/v1/session", body: `{"role":"parent"}`, wantCode: http.StatusOK, wantBody: `"id":"p1"`},
		{name: "invalid role", method: http.MethodPost, path: "/v1/session", body: `{"role":"JANITOR"}`, wantCode: http.StatusBadRequest, wantBody: "invalid role"},
		{name: "missing role", method: http.MethodPost, path: "/v1/session", body: `{}`, wantCode: http.StatusBadRequest, wantBody: `"role"`},
		{name: "bad json", method: http.MethodPost, path: "/v1/session", body: `{`, wantCode: http.StatusBadRequest},
	})
}

func TestUpsertResult(t *testing.T) {
	store := testutil.NewStore(t, fixture())
	app := newServer(t, store)
	body := func(score string) string {
		return `{"studentId":"f1n-s1","subjectId":"math","term":"Term 1","score":` + score + `}`
	}

	runTests(t, app, []httpTest{
		{name: "no role", method: http.MethodPut, path: "/v1/results", body: body("55"), wantCode: http.StatusUnauthorized},
		{name: "invalid role", method: http.MethodPut, path: "/v1/results", body: body("55"), role: "ROOT", wantCode: http.StatusBadRequest},
		{name: "student cannot", method: http.MethodPut, path: "/v1/results", body: body("55"), role: "STUDENT", wantCode: http.StatusForbidden},
		{name: "parent cannot", method: http.MethodPut, path: "/v1/results", body: body("55"), role: "PARENT", wantCode: http.StatusForbidden},
		{name: "score above range", method: http.MethodPut, path: "/v1/results", body: body("101"), role: "TEACHER", wantCode: http.StatusBadRequest, wantBody: `"score"`},
		{name: "score below range", method: http.MethodPut, path: "/v1/results", body: body("-1"), role: "TEACHER", wantCode: http.StatusBadRequest},
		{name: "missing score", method: http.MethodPut, path: "/v1/results", body: `{"studentId":"f1n-s1","subjectId":"math","term":"Term 1"}`, role: "TEACHER", wantCode: http.StatusBadRequest},
		{name: "unknown student", method: http.MethodPut, path: "/v1/results", body: `{"studentId":"ghost","subjectId":"math","term":"Term 1","score":50}`, role: "TEACHER", wantCode: http.StatusNotFound},
		{name: "unknown subject", method: http.MethodPut, path: "/v1/results", body: `{"studentId":"f1n-s1","subjectId":"latin","term":"Term 1","score":50}`, role: "TEACHER", wantCode: http.StatusBadRequest},
		{name: "teacher records", method: http.MethodPut, path: "/v1/results", body: body("55"), role: "TEACHER", wantCode: http.StatusOK, wantBody: `"grade":"C+"`},
		{name: "admin overwrites", method: http.MethodPut, path: "/v1/results", body: body("80"), role: "ADMIN", wantCode: http.StatusOK, wantBody: `"grade":"A"`},
	})

	ds := testutil.Load(t, store)
	require.Len(t, ds.Results, 3)
	assert.Equal(t, 80, ds.Results[0].Score)

	rec := do(app, http.MethodGet, "/metrics", "", "")
	assert.Contains(t, rec.Body.String(), "shule_result_upserts_total 2")
}

func TestAdminReset(t *testing.T) {
	db, err := memkv.Open()
	require.NoError(t, err)
	store := localstore.New(db, fixture)
	require.NoError(t, db.SetItem(context.Background(), store.Key(), []byte("garbage")))
	app := newServer(t, store)

	rec := do(app, http.MethodGet, "/v1/students/f1n-s1", "", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var herr httpErr
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &herr))
	assert.Contains(t, herr.Error, "/v1/admin/reset")

	runTests(t, app, []httpTest{
		{name: "teacher cannot reset", method: http.MethodPost, path: "/v1/admin/reset", role: "TEACHER", wantCode: http.StatusForbidden},
		{name: "admin resets", method: http.MethodPost, path: "/v1/admin/reset", role: "ADMIN", wantCode: http.StatusOK, wantBody: `"students":2`},
		{name: "readable again", method: http.MethodGet, path: "/v1/students/f1n-s1", wantCode: http.StatusOK},
	})
}

func TestStorageUnavailable(t *testing.T) {
	store := localstore.New(&failingMedium{}, fixture)
	app := newServer(t, store)

	rec := do(app, http.MethodGet, "/v1/classes/f1n/students", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.True(t, bytes.Contains(rec.Body.Bytes(), []byte("storage unavailable")))
}
