package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("missing User-Agent header")
		}
		fmt.Fprint(w, `<html><head><title>  Classic  Tee  </title></head><body>hi</body></html>`)
	}))
	defer srv.Close()

	res, err := Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if res.Title != "Classic Tee" {
		t.Fatalf("title = %q", res.Title)
	}
}

func TestGetFollowsRedirects(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/old" {
			http.Redirect(w, r, "/new", http.StatusMovedPermanently)
			return
		}
		fmt.Fprint(w, "<html><body>landed</body></html>")
	}))
	defer srv.Close()

	res, err := Get(context.Background(), srv.URL+"/old")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if res.FinalURL != srv.URL+"/new" {
		t.Fatalf("final URL = %q, want %q", res.FinalURL, srv.URL+"/new")
	}
}
