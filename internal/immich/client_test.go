package immich_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"immichsync/internal/immich"
)

func newTestClient(t *testing.T, handler http.Handler, opts ...immich.Option) *immich.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := immich.New(server.URL, "key", opts...)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}

func TestNewRequiresBaseURLAndKey(t *testing.T) {
	if _, err := immich.New("", "key"); err == nil {
		t.Fatal("expected error when base URL missing")
	}
	if _, err := immich.New("https://example.com/api", "  "); err == nil {
		t.Fatal("expected error when API key missing")
	}
}

func TestRequestCarriesAPIKeyHeader(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "key" {
			t.Errorf("x-api-key = %q, want %q", r.Header.Get("x-api-key"), "key")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))

	if _, err := client.Albums(context.Background()); err != nil {
		t.Fatalf("Albums returned error: %v", err)
	}
}

func TestNon2xxBecomesAPIError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"bad request"}`))
	}))

	_, err := client.Albums(context.Background())
	var apiErr *immich.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, want 400", apiErr.StatusCode)
	}
	if len(apiErr.Payload) == 0 {
		t.Error("expected decoded error payload")
	}
}

func TestServerVersionFallsBackToLegacyEndpoint(t *testing.T) {
	var legacyCalled bool
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/server/version":
			http.NotFound(w, r)
		case "/server-info/version":
			legacyCalled = true
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"major":1,"minor":110,"patch":0}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	version, err := client.ServerVersion(context.Background())
	if err != nil {
		t.Fatalf("ServerVersion returned error: %v", err)
	}
	if !legacyCalled {
		t.Error("legacy endpoint not consulted after 404")
	}
	if version.Major != 1 || version.Minor != 110 {
		t.Errorf("version = %s, want 1.110.0", version)
	}
}

func TestServerVersionOtherErrorIsFatal(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	if _, err := client.ServerVersion(context.Background()); err == nil {
		t.Fatal("expected error on 502")
	}
}

func TestRequireMinimumVersionGate(t *testing.T) {
	cases := []struct {
		name    string
		minor   int
		wantErr bool
	}{
		{"below minimum", 105, true},
		{"at minimum", 106, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"major":1,"minor":` + strconv.Itoa(tc.minor) + `,"patch":0}`))
			}))

			_, err := client.RequireMinimumVersion(context.Background())
			if tc.wantErr {
				if !errors.Is(err, immich.ErrUnsupportedServer) {
					t.Fatalf("expected ErrUnsupportedServer, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("RequireMinimumVersion returned error: %v", err)
			}
		})
	}
}
