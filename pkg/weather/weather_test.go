package weather

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func serve(t *testing.T, status int, body string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL)
}

func TestCurrentSummary(t *testing.T) {
	c := serve(t, http.StatusOK, "Budapest: ⛅️ +21°C\n")
	got, err := c.CurrentSummary()
	if err != nil {
		t.Fatalf("CurrentSummary: %v", err)
	}
	if got != "Budapest: ⛅️ +21°C" {
		t.Fatalf("summary %q", got)
	}
}

func TestCurrentSummaryFirstLineOnly(t *testing.T) {
	c := serve(t, http.StatusOK, "Sunny\nextra\nlines")
	got, err := c.CurrentSummary()
	if err != nil {
		t.Fatal(err)
	}
	if got != "Sunny" {
		t.Fatalf("summary %q", got)
	}
}

func TestCurrentSummaryErrors(t *testing.T) {
	tests := []struct {
		name   string
		client *Client
	}{
		{"server error", serve(t, http.StatusInternalServerError, "boom")},
		{"empty body", serve(t, http.StatusOK, "   \n")},
		{"html response", serve(t, http.StatusOK, "<html><body>hi</body></html>")},
		{"unconfigured", NewClient("")},
		{"unreachable", NewClient("http://127.0.0.1:1/weather")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.client.CurrentSummary(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
