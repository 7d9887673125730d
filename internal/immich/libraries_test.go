package immich_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"immichsync/internal/immich"
)

func TestWaitForScanPollsUntilRefreshed(t *testing.T) {
	start := time.Now().UTC()
	var polls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		refreshedAt := start.Add(-time.Hour)
		if polls.Add(1) >= 2 {
			refreshedAt = start.Add(time.Hour)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"refreshedAt": refreshedAt.Format(time.RFC3339Nano)})
	}))

	if err := client.WaitForScan(context.Background(), "lib-1", start, 30*time.Second); err != nil {
		t.Fatalf("WaitForScan returned error: %v", err)
	}
	if polls.Load() < 2 {
		t.Errorf("polled %d times, want at least 2", polls.Load())
	}
}

func TestWaitForScanHonorsContextCancellation(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"refreshedAt": "1970-01-01T00:00:00Z"})
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 1500*time.Millisecond)
	defer cancel()
	err := client.WaitForScan(ctx, "lib-1", time.Now(), 0)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context deadline error, got %v", err)
	}
}

func TestRemoveOfflineAssetsModernPath(t *testing.T) {
	var deleted struct {
		Force bool     `json:"force"`
		IDs   []string `json:"ids"`
	}
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/search/metadata":
			var body struct {
				TrashedAfter string `json:"trashedAfter"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body.TrashedAfter == "" {
				t.Error("expected trashedAfter filter in search request")
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"assets":{"items":[
				{"id":"off-1","isOffline":true},
				{"id":"trash-only","isOffline":false},
				{"id":"off-2","isOffline":true}
			]}}`))
		case r.URL.Path == "/assets" && r.Method == http.MethodDelete:
			if err := json.NewDecoder(r.Body).Decode(&deleted); err != nil {
				t.Fatalf("decode delete request: %v", err)
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))

	if err := client.RemoveOfflineAssets(context.Background(), immich.Version{Major: 1, Minor: 116}); err != nil {
		t.Fatalf("RemoveOfflineAssets returned error: %v", err)
	}
	if !deleted.Force {
		t.Error("offline deletion must force-delete")
	}
	if len(deleted.IDs) != 2 {
		t.Errorf("deleted %v, want the two offline assets only", deleted.IDs)
	}
}

func TestRemoveOfflineAssetsLegacyJobPath(t *testing.T) {
	var jobs []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/libraries":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"id":"lib-1"},{"id":"lib-2"}]`))
		case "/libraries/lib-1/removeOffline", "/libraries/lib-2/removeOffline":
			jobs = append(jobs, r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))

	if err := client.RemoveOfflineAssets(context.Background(), immich.Version{Major: 1, Minor: 115}); err != nil {
		t.Fatalf("RemoveOfflineAssets returned error: %v", err)
	}
	if len(jobs) != 2 {
		t.Errorf("triggered %d jobs, want 2", len(jobs))
	}
}

func TestRemoveOfflineAssetsForbiddenIsAdminError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/libraries":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"id":"lib-1"}]`))
		default:
			w.WriteHeader(http.StatusForbidden)
		}
	}))

	err := client.RemoveOfflineAssets(context.Background(), immich.Version{Major: 1, Minor: 110})
	if !errors.Is(err, immich.ErrAdminRequired) {
		t.Fatalf("expected ErrAdminRequired, got %v", err)
	}
}
