package practicum

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"homework_status_bot/internal/domain/homework"

	"github.com/sirupsen/logrus/hooks/test"
)

func newTestClient(url string, timeout time.Duration) *Client {
	log, _ := test.NewNullLogger()
	return NewClient(url, "secret", timeout, log.WithField("component", "practicum"))
}

func TestClient_FetchSendsTokenAndCursor(t *testing.T) {
	var gotAuth, gotFrom string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotFrom = r.URL.Query().Get("from_date")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"homeworks":[{"homework_name":"hw1","status":"reviewing"}],"current_date":1000}`))
	}))
	defer ts.Close()

	out, err := newTestClient(ts.URL, 2*time.Second).Fetch(context.Background(), 400)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if gotAuth != "OAuth secret" {
		t.Fatalf("want OAuth header, got %q", gotAuth)
	}
	if gotFrom != "400" {
		t.Fatalf("want from_date=400, got %q", gotFrom)
	}

	records, err := homework.Validate(out)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(records) != 1 || records[0].Name != "hw1" {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestClient_FetchNon200(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"not_authenticated"}`, http.StatusUnauthorized)
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL, 2*time.Second).Fetch(context.Background(), 0)
	if !errors.Is(err, homework.ErrAPIResponse) {
		t.Fatalf("want ErrAPIResponse, got %v", err)
	}
}

func TestClient_FetchInvalidJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>oops</html>"))
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL, 2*time.Second).Fetch(context.Background(), 0)
	if !errors.Is(err, homework.ErrAPIResponse) {
		t.Fatalf("want ErrAPIResponse, got %v", err)
	}
}

func TestClient_FetchTimeoutIsConnectionError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"homeworks":[]}`))
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL, 50*time.Millisecond).Fetch(context.Background(), 0)
	if !errors.Is(err, homework.ErrAPIConnection) {
		t.Fatalf("want ErrAPIConnection, got %v", err)
	}
}

func TestClient_FetchUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := newTestClient(url, time.Second).Fetch(context.Background(), 0)
	if !errors.Is(err, homework.ErrAPIConnection) {
		t.Fatalf("want ErrAPIConnection, got %v", err)
	}
}
