package directions

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"touring-route-service/internal/domain"
)

func TestGooglePlaceLookupFetchDisplayName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Goog-Api-Key") != "key" || r.Header.Get("X-Goog-FieldMask") != "displayName" {
			t.Errorf("missing google headers")
		}
		switch r.URL.Path {
		case "/places/ChIJ123":
			_, _ = w.Write([]byte(`{"displayName":{"text":"Fushimi Inari Taisha","languageCode":"en"}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	g, err := NewGooglePlaceLookup("key")
	if err != nil {
		t.Fatalf("new lookup: %v", err)
	}
	g.WithBaseURL(srv.URL)

	name, err := g.FetchDisplayName(context.Background(), "ChIJ123")
	if err != nil || name != "Fushimi Inari Taisha" {
		t.Fatalf("name=%q err=%v", name, err)
	}

	_, err = g.FetchDisplayName(context.Background(), "unknown")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
