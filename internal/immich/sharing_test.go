package immich_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"immichsync/internal/immich"
)

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"viewer", "editor"} {
		if _, err := immich.ParseRole(valid); err != nil {
			t.Errorf("ParseRole(%q) returned error: %v", valid, err)
		}
	}
	if _, err := immich.ParseRole("admin"); err == nil {
		t.Error("expected error for role admin")
	}
}

func TestShareAlbumRejectsInvalidRole(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("invalid role must fail before any request")
	}))

	if err := client.ShareAlbum(context.Background(), "a", []string{"u"}, immich.Role("owner")); err == nil {
		t.Fatal("expected error for invalid role")
	}
	if err := client.UpdateShareRole(context.Background(), "a", "u", immich.Role("owner")); err == nil {
		t.Fatal("expected error for invalid role")
	}
}

func TestShareAlbumBatchesUsersUnderOneRole(t *testing.T) {
	var received struct {
		AlbumUsers []struct {
			UserID string `json:"userId"`
			Role   string `json:"role"`
		} `json:"albumUsers"`
	}
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/albums/a1/users" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))

	if err := client.ShareAlbum(context.Background(), "a1", []string{"u1", "u2"}, immich.RoleViewer); err != nil {
		t.Fatalf("ShareAlbum returned error: %v", err)
	}
	if len(received.AlbumUsers) != 2 {
		t.Fatalf("got %d albumUsers, want 2", len(received.AlbumUsers))
	}
	for _, entry := range received.AlbumUsers {
		if entry.Role != "viewer" {
			t.Errorf("role = %q, want viewer", entry.Role)
		}
	}
}

func TestUnshareAlbumTargetsUserEndpoint(t *testing.T) {
	var path, method string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path, method = r.URL.Path, r.Method
		w.WriteHeader(http.StatusOK)
	}))

	if err := client.UnshareAlbum(context.Background(), "a1", "u1"); err != nil {
		t.Fatalf("UnshareAlbum returned error: %v", err)
	}
	if method != http.MethodDelete || path != "/albums/a1/user/u1" {
		t.Errorf("got %s %s, want DELETE /albums/a1/user/u1", method, path)
	}
}
