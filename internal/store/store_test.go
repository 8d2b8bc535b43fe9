package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/MaxiE97/homologation-vehicle/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// TestCreateUserAndAuthenticate 建户与密码校验
func TestCreateUserAndAuthenticate(t *testing.T) {
	s := newTestStore(t)

	u, err := s.CreateUser("maxi", "maxi@example.com", "secret123", model.RoleAdmin)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	if u.ID == "" || u.Role != model.RoleAdmin {
		t.Errorf("user = %+v", u)
	}

	got, err := s.Authenticate("maxi", "secret123")
	if err != nil {
		t.Fatalf("Authenticate() failed: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("authenticated id = %q, want %q", got.ID, u.ID)
	}

	if _, err := s.Authenticate("maxi", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v", err)
	}
	if _, err := s.Authenticate("nobody", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: err = %v", err)
	}
}

// TestDuplicateUsername 用户名唯一
func TestDuplicateUsername(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.CreateUser("maxi", "", "pw", model.RoleUser); err != nil {
		t.Fatalf("first CreateUser() failed: %v", err)
	}
	if _, err := s.CreateUser("maxi", "", "pw2", model.RoleUser); err == nil {
		t.Error("duplicate username should fail")
	}
}

// TestSessions 会话创建、查询、过期与删除
func TestSessions(t *testing.T) {
	s := newTestStore(t)
	u, _ := s.CreateUser("maxi", "", "pw", model.RoleUser)

	if err := s.CreateSession(u.ID, "tok-1", time.Hour); err != nil {
		t.Fatalf("CreateSession() failed: %v", err)
	}

	got, err := s.UserBySession("tok-1")
	if err != nil {
		t.Fatalf("UserBySession() failed: %v", err)
	}
	if got.Username != "maxi" {
		t.Errorf("session user = %q", got.Username)
	}

	if _, err := s.UserBySession("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("missing session: err = %v", err)
	}

	// 过期会话按不存在处理
	_ = s.CreateSession(u.ID, "tok-expired", -time.Minute)
	if _, err := s.UserBySession("tok-expired"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expired session: err = %v", err)
	}

	if err := s.DeleteSession("tok-1"); err != nil {
		t.Fatalf("DeleteSession() failed: %v", err)
	}
	if _, err := s.UserBySession("tok-1"); !errors.Is(err, ErrSessionNotFound) {
		t.Error("deleted session should not resolve")
	}
}

// TestDownloads 下载历史：记录、计数、状态更新与越权保护
func TestDownloads(t *testing.T) {
	s := newTestStore(t)
	owner, _ := s.CreateUser("owner", "", "pw", model.RoleTrial)
	other, _ := s.CreateUser("other", "", "pw", model.RoleUser)

	id, err := s.CreateDownload(owner.ID, "CdS-123", "de")
	if err != nil {
		t.Fatalf("CreateDownload() failed: %v", err)
	}

	n, err := s.CountDownloads(owner.ID)
	if err != nil || n != 1 {
		t.Fatalf("CountDownloads() = %d, %v", n, err)
	}

	list, err := s.ListDownloads(owner.ID)
	if err != nil {
		t.Fatalf("ListDownloads() failed: %v", err)
	}
	if len(list) != 1 || list[0].ID != id || list[0].Status != model.DownloadStatusOk {
		t.Errorf("downloads = %+v", list)
	}

	if err := s.SetDownloadStatus(owner.ID, id, model.DownloadStatusUnderReview); err != nil {
		t.Fatalf("SetDownloadStatus() failed: %v", err)
	}
	list, _ = s.ListDownloads(owner.ID)
	if list[0].Status != model.DownloadStatusUnderReview {
		t.Errorf("status = %q", list[0].Status)
	}

	// 其他用户不能改别人的记录
	if err := s.SetDownloadStatus(other.ID, id, model.DownloadStatusOk); !errors.Is(err, ErrDownloadNotFound) {
		t.Errorf("cross-user update: err = %v", err)
	}
}

// TestFormState 表单状态读写与登出清空
func TestFormState(t *testing.T) {
	s := newTestStore(t)
	u, _ := s.CreateUser("maxi", "", "pw", model.RoleUser)

	if v, err := s.GetState(u.ID, StateKeySnapshot); err != nil || v != "" {
		t.Fatalf("empty state = %q, %v", v, err)
	}

	if err := s.SetState(u.ID, StateKeyURL1, "https://voertuig.net/a"); err != nil {
		t.Fatalf("SetState() failed: %v", err)
	}
	// 覆盖写
	if err := s.SetState(u.ID, StateKeyURL1, "https://voertuig.net/b"); err != nil {
		t.Fatalf("SetState() overwrite failed: %v", err)
	}
	if v, _ := s.GetState(u.ID, StateKeyURL1); v != "https://voertuig.net/b" {
		t.Errorf("url1 = %q", v)
	}

	err := s.SetStates(u.ID, map[string]string{
		StateKeySnapshot: `{"make":"VW"}`,
		StateKeyLocale:   "de",
	})
	if err != nil {
		t.Fatalf("SetStates() failed: %v", err)
	}
	if v, _ := s.GetState(u.ID, StateKeyLocale); v != "de" {
		t.Errorf("locale = %q", v)
	}

	if err := s.ClearState(u.ID); err != nil {
		t.Fatalf("ClearState() failed: %v", err)
	}
	for _, key := range []string{StateKeyURL1, StateKeySnapshot, StateKeyLocale} {
		if v, _ := s.GetState(u.ID, key); v != "" {
			t.Errorf("state %q survived logout: %q", key, v)
		}
	}
}
