package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHTTPProber_Success(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		w.Write([]byte("ok"))
	}))
	defer s.Close()

	var notes []string
	p := NewHTTP(s.URL, nil)
	if err := p.Probe(context.Background(), func(m string) { notes = append(notes, m) }); err != nil {
		t.Fatalf("want success, got %v", err)
	}

	if len(notes) != 2 || notes[0] != "making request" || !strings.HasPrefix(notes[1], "response status: 200") {
		t.Fatalf("unexpected notes: %v", notes)
	}
}

func TestHTTPProber_ErrorCarriesBody(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", 500)
	}))
	defer s.Close()

	p := NewHTTP(s.URL, nil)
	err := p.Probe(context.Background(), nil)
	if err == nil {
		t.Fatal("want failure on 500")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Fatalf("error should carry the response body, got %q", err)
	}
}

func TestHTTPProber_Redirect3xxFails(t *testing.T) {
	// only 2xx is success; a redirect the client cannot follow is a
	// failure
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotModified)
	}))
	defer s.Close()

	p := NewHTTP(s.URL, nil)
	if err := p.Probe(context.Background(), nil); err == nil {
		t.Fatal("want failure on 304")
	}
}

func TestHTTPProber_ContextCancellation(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	p := NewHTTP(s.URL, nil)
	if err := p.Probe(ctx, nil); err == nil {
		t.Fatal("want failure when context expires")
	}
}

func TestHTTPProber_Name(t *testing.T) {
	p := NewHTTP("https://example.com", nil)
	if p.Name() != "http https://example.com" {
		t.Fatalf("name wrong: %q", p.Name())
	}
}
