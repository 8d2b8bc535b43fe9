package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/MaxiE97/homologation-vehicle/internal/config"
	"github.com/MaxiE97/homologation-vehicle/internal/controller"
	"github.com/MaxiE97/homologation-vehicle/internal/model"
	"github.com/MaxiE97/homologation-vehicle/internal/store"
)

type stubClient struct {
	rows []model.VehicleRow
}

func (s *stubClient) Fetch(ctx context.Context, req model.IngestRequest) ([]model.VehicleRow, error) {
	return s.rows, nil
}

type testEnv struct {
	router *gin.Engine
	store  *store.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := config.DefaultConfig()
	cfg.Auth.TrialDownloadLimit = 1

	client := &stubClient{rows: []model.VehicleRow{
		{Key: "CdS", Site1Value: "e13*1234", FinalValue: "e13*1234"},
		{Key: "make", Site2Value: "Opel", FinalValue: "Opel"},
		{Key: "fuel", Site2Value: "Diesel", FinalValue: "Diesel"},
	}}
	registry := controller.NewRegistry(db, client, cfg.Auth.TrialDownloadLimit)

	router := gin.New()
	h := NewHandler(db, registry, cfg)
	h.RegisterRoutes(router.Group("/api/v1"))

	return &testEnv{router: router, store: db}
}

func (e *testEnv) createUser(t *testing.T, username, password, role string) {
	t.Helper()
	if _, err := e.store.CreateUser(username, username+"@example.com", password, role); err != nil {
		t.Fatalf("create user: %v", err)
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": username,
		"password": password,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return resp.Token
}

func ingestBody() gin.H {
	return gin.H{"url1": "https://voertuig.net/car/1"}
}

func TestLoginAndMe(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice", "secret123", model.RoleUser)

	if w := env.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "alice", "password": "wrong"}); w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password status = %d", w.Code)
	}

	token := env.login(t, "alice", "secret123")
	w := env.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me status = %d", w.Code)
	}
	var me map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if me["username"] != "alice" || me["role"] != model.RoleUser {
		t.Fatalf("me = %v", me)
	}
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)
	if w := env.do(t, http.MethodGet, "/api/v1/status", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("missing token status = %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/v1/status", "bogus", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("bogus token status = %d", w.Code)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice", "secret123", model.RoleUser)
	token := env.login(t, "alice", "secret123")
	other := env.login(t, "alice", "secret123")

	if w := env.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil); w.Code != http.StatusOK {
		t.Fatalf("logout status = %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/v1/status", token, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("status after logout = %d", w.Code)
	}
	// 登出注销该用户的所有会话，不只当前这个
	if w := env.do(t, http.MethodGet, "/api/v1/status", other, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("second session after logout = %d", w.Code)
	}
}

func TestLogoutClearsFormState(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice", "secret123", model.RoleUser)
	token := env.login(t, "alice", "secret123")

	env.do(t, http.MethodPost, "/api/v1/process-vehicle", token, ingestBody())
	env.do(t, http.MethodPatch, "/api/v1/form/fields/make", token, gin.H{"value": "BMW"})

	if w := env.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil); w.Code != http.StatusOK {
		t.Fatalf("logout status = %d", w.Code)
	}

	// 持久化状态整体清空
	users, err := env.store.Authenticate("alice", "secret123")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if v, err := env.store.GetState(users.ID, store.StateKeySnapshot); err != nil || v != "" {
		t.Fatalf("persisted snapshot after logout = %q, err = %v", v, err)
	}

	// 重新登录后表单回到空阶段（内存会话也被逐出）
	token = env.login(t, "alice", "secret123")
	var form FormResponse
	if err := json.Unmarshal(env.do(t, http.MethodGet, "/api/v1/form", token, nil).Body.Bytes(), &form); err != nil {
		t.Fatalf("decode form: %v", err)
	}
	if form.Status.Phase != controller.PhaseEmpty {
		t.Fatalf("phase after logout+login = %s, want empty", form.Status.Phase)
	}
	if len(form.Snapshot) != 0 {
		t.Fatalf("snapshot after logout = %v, want empty", form.Snapshot)
	}
}

func TestProcessVehicleAndForm(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice", "secret123", model.RoleUser)
	token := env.login(t, "alice", "secret123")

	// 非白名单主机
	w := env.do(t, http.MethodPost, "/api/v1/process-vehicle", token, gin.H{"url1": "https://evil.example.com/x"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("disallowed host status = %d", w.Code)
	}

	// 无 URL
	w = env.do(t, http.MethodPost, "/api/v1/process-vehicle", token, gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("no urls status = %d", w.Code)
	}

	w = env.do(t, http.MethodPost, "/api/v1/process-vehicle", token, ingestBody())
	if w.Code != http.StatusOK {
		t.Fatalf("ingest status = %d, body = %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/api/v1/form", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("form status = %d", w.Code)
	}
	var form FormResponse
	if err := json.Unmarshal(w.Body.Bytes(), &form); err != nil {
		t.Fatalf("decode form: %v", err)
	}
	if form.Snapshot["make"] != "Opel" {
		t.Fatalf("snapshot make = %q", form.Snapshot["make"])
	}
	if form.Status.Phase != controller.PhasePopulated {
		t.Fatalf("phase = %s", form.Status.Phase)
	}
	if form.Request.URL1 != "https://voertuig.net/car/1" {
		t.Fatalf("request echo = %+v", form.Request)
	}
}

func TestUpdateFieldAndSource(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice", "secret123", model.RoleUser)
	token := env.login(t, "alice", "secret123")

	// 空表单先拒绝
	w := env.do(t, http.MethodPatch, "/api/v1/form/fields/make", token, gin.H{"value": "BMW"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty form patch status = %d", w.Code)
	}

	env.do(t, http.MethodPost, "/api/v1/process-vehicle", token, ingestBody())

	// 未知字段
	w = env.do(t, http.MethodPatch, "/api/v1/form/fields/nonexistent", token, gin.H{"value": "x"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown field status = %d", w.Code)
	}

	w = env.do(t, http.MethodPatch, "/api/v1/form/fields/make", token, gin.H{"value": "BMW"})
	if w.Code != http.StatusOK {
		t.Fatalf("field patch status = %d, body = %s", w.Code, w.Body.String())
	}

	// 来源修正：site 必填
	w = env.do(t, http.MethodPatch, "/api/v1/form/sources/make", token, gin.H{"value": "x"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("source patch without site status = %d", w.Code)
	}
	w = env.do(t, http.MethodPatch, "/api/v1/form/sources/make", token, gin.H{"site": model.SiteTypenscheine, "value": "Opel GmbH"})
	if w.Code != http.StatusOK {
		t.Fatalf("source patch status = %d, body = %s", w.Code, w.Body.String())
	}

	var st controller.Status
	if err := json.Unmarshal(env.do(t, http.MethodGet, "/api/v1/status", token, nil).Body.Bytes(), &st); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if st.Phase != controller.PhaseEditing {
		t.Fatalf("phase = %s, want editing", st.Phase)
	}
}

func TestTranslateEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice", "secret123", model.RoleUser)
	token := env.login(t, "alice", "secret123")
	env.do(t, http.MethodPost, "/api/v1/process-vehicle", token, ingestBody())

	w := env.do(t, http.MethodPost, "/api/v1/form/translate", token, gin.H{"language": "zz"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unsupported locale status = %d", w.Code)
	}

	w = env.do(t, http.MethodPost, "/api/v1/form/translate", token, gin.H{"language": "de"})
	if w.Code != http.StatusOK {
		t.Fatalf("translate status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Language string            `json:"language"`
		Changed  bool              `json:"changed"`
		Snapshot map[string]string `json:"snapshot"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode translate: %v", err)
	}
	if resp.Language != "de" {
		t.Fatalf("language = %q, want de", resp.Language)
	}
	// fuel 命中翻译表（德语同形），changed 仍须上报
	if !resp.Changed {
		t.Fatal("changed = false, want true")
	}
	if resp.Snapshot["fuel"] != "Diesel" {
		t.Fatalf("fuel = %q", resp.Snapshot["fuel"])
	}
}

func TestViews(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice", "secret123", model.RoleUser)
	token := env.login(t, "alice", "secret123")
	env.do(t, http.MethodPost, "/api/v1/process-vehicle", token, ingestBody())

	for _, path := range []string{"/api/v1/views/comparison", "/api/v1/views/sections", "/api/v1/views/unified"} {
		w := env.do(t, http.MethodGet, path, token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, w.Code)
		}
	}

	var comparison struct {
		Rows []struct {
			Key        string `json:"key"`
			Site2      string `json:"site2"`
			FinalValue string `json:"finalValue"`
		} `json:"rows"`
	}
	w := env.do(t, http.MethodGet, "/api/v1/views/comparison", token, nil)
	if err := json.Unmarshal(w.Body.Bytes(), &comparison); err != nil {
		t.Fatalf("decode comparison: %v", err)
	}
	found := false
	for _, r := range comparison.Rows {
		if r.Key == "make" {
			found = true
			if r.Site2 != "Opel" || r.FinalValue != "Opel" {
				t.Fatalf("make row = %+v", r)
			}
		}
	}
	if !found {
		t.Fatal("comparison view missing make row")
	}
}

func TestExportDocument(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice", "secret123", model.RoleUser)
	token := env.login(t, "alice", "secret123")

	// 空表单导出被拒
	w := env.do(t, http.MethodPost, "/api/v1/export-document", token, nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty export status = %d", w.Code)
	}

	env.do(t, http.MethodPost, "/api/v1/process-vehicle", token, ingestBody())

	w = env.do(t, http.MethodPost, "/api/v1/export-document", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("export status = %d, body = %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Fatalf("content type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "homologacion_e13*1234.xlsx") {
		t.Fatalf("content disposition = %q", cd)
	}
	if w.Body.Len() == 0 {
		t.Fatal("empty export body")
	}

	// 下载历史随之出现
	var profile model.UserProfile
	if err := json.Unmarshal(env.do(t, http.MethodGet, "/api/v1/profile", token, nil).Body.Bytes(), &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if len(profile.Downloads) != 1 || profile.Downloads[0].Status != model.DownloadStatusOk {
		t.Fatalf("profile downloads = %+v", profile.Downloads)
	}
}

func TestTrialLimitReturns403(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "trialuser", "secret123", model.RoleTrial)
	token := env.login(t, "trialuser", "secret123")
	env.do(t, http.MethodPost, "/api/v1/process-vehicle", token, ingestBody())

	if w := env.do(t, http.MethodPost, "/api/v1/export-document", token, nil); w.Code != http.StatusOK {
		t.Fatalf("first export status = %d", w.Code)
	}
	if w := env.do(t, http.MethodPost, "/api/v1/export-document", token, nil); w.Code != http.StatusForbidden {
		t.Fatalf("second export status = %d", w.Code)
	}
}

func TestDownloadStatusUpdate(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice", "secret123", model.RoleUser)
	env.createUser(t, "bob", "secret123", model.RoleUser)
	tokenA := env.login(t, "alice", "secret123")
	tokenB := env.login(t, "bob", "secret123")

	env.do(t, http.MethodPost, "/api/v1/process-vehicle", tokenA, ingestBody())
	env.do(t, http.MethodPost, "/api/v1/export-document", tokenA, nil)

	var profile model.UserProfile
	if err := json.Unmarshal(env.do(t, http.MethodGet, "/api/v1/profile", tokenA, nil).Body.Bytes(), &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	id := profile.Downloads[0].ID

	// 非法状态值
	w := env.do(t, http.MethodPatch, "/api/v1/downloads/"+id+"/status", tokenA, gin.H{"status": "Whatever"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid status code = %d", w.Code)
	}

	// 他人记录不可改
	w = env.do(t, http.MethodPatch, "/api/v1/downloads/"+id+"/status", tokenB, gin.H{"status": model.DownloadStatusUnderReview})
	if w.Code != http.StatusNotFound {
		t.Fatalf("cross-user update code = %d", w.Code)
	}

	w = env.do(t, http.MethodPatch, "/api/v1/downloads/"+id+"/status", tokenA, gin.H{"status": model.DownloadStatusUnderReview})
	if w.Code != http.StatusOK {
		t.Fatalf("status update code = %d, body = %s", w.Code, w.Body.String())
	}

	if err := json.Unmarshal(env.do(t, http.MethodGet, "/api/v1/profile", tokenA, nil).Body.Bytes(), &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile.Downloads[0].Status != model.DownloadStatusUnderReview {
		t.Fatalf("status = %q", profile.Downloads[0].Status)
	}
}

func TestResetForm(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice", "secret123", model.RoleUser)
	token := env.login(t, "alice", "secret123")
	env.do(t, http.MethodPost, "/api/v1/process-vehicle", token, ingestBody())

	if w := env.do(t, http.MethodPost, "/api/v1/form/reset", token, nil); w.Code != http.StatusOK {
		t.Fatalf("reset status = %d", w.Code)
	}
	var st controller.Status
	if err := json.Unmarshal(env.do(t, http.MethodGet, "/api/v1/status", token, nil).Body.Bytes(), &st); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if st.Phase != controller.PhaseEmpty {
		t.Fatalf("phase after reset = %s", st.Phase)
	}
}
