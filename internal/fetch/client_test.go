package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// recordingObserver collects diagnostic records for assertions.
type recordingObserver struct {
	mu        sync.Mutex
	requests  []RequestRecord
	responses []ResponseRecord
}

func (o *recordingObserver) BeforeRequest(_ context.Context, rec RequestRecord) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.requests = append(o.requests, rec)
}

func (o *recordingObserver) AfterResponse(_ context.Context, rec ResponseRecord) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.responses = append(o.responses, rec)
}

func TestRequestSuccessDecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/github/projects" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != DefaultContentType {
			t.Errorf("expected content type %q, got %q", DefaultContentType, ct)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"count":2}`))
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	c := NewClient(srv.URL+"/api/", WithObserver(obs))

	resp, err := c.Get(context.Background(), "/github/projects")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if !resp.IsJSON() {
		t.Error("expected JSON content type")
	}

	var body struct {
		Success bool `json:"success"`
		Count   int  `json:"count"`
	}
	if err := resp.Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !body.Success || body.Count != 2 {
		t.Errorf("unexpected body: %+v", body)
	}

	if len(obs.requests) != 1 || len(obs.responses) != 1 {
		t.Fatalf("expected 1 request and 1 response record, got %d/%d", len(obs.requests), len(obs.responses))
	}
	if obs.requests[0].Method != "GET" || obs.requests[0].Path != "/github/projects" {
		t.Errorf("unexpected request record: %+v", obs.requests[0])
	}
	if obs.responses[0].StatusCode != http.StatusOK || obs.responses[0].Err != nil {
		t.Errorf("unexpected response record: %+v", obs.responses[0])
	}
	if obs.requests[0].ID != obs.responses[0].ID {
		t.Error("request and response records should share an id")
	}
}

func TestRequestHTTPStatusKeepsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"detail":"down"}`))
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	c := NewClient(srv.URL, WithObserver(obs))

	_, err := c.Get(context.Background(), "/github/projects")
	if !IsKind(err, KindHTTPStatus) {
		t.Fatalf("expected KindHTTPStatus, got %v", err)
	}
	code, ok := StatusCode(err)
	if !ok || code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d (ok=%v)", code, ok)
	}

	var fe *Error
	if !asError(err, &fe) {
		t.Fatal("expected *Error")
	}
	if string(fe.Body) != `{"detail":"down"}` {
		t.Errorf("expected raw body to be kept, got %q", fe.Body)
	}
	if obs.responses[0].StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected response record status 503, got %d", obs.responses[0].StatusCode)
	}
}

func TestRequestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithTimeout(50*time.Millisecond), WithObserver(&recordingObserver{}))

	start := time.Now()
	_, err := c.Get(context.Background(), "/slow")
	if !IsKind(err, KindTimeout) {
		t.Fatalf("expected KindTimeout, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Errorf("timeout took too long: %v", time.Since(start))
	}
}

func TestRequestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(url, WithObserver(&recordingObserver{}))
	_, err := c.Get(context.Background(), "/github/projects")
	if !IsKind(err, KindNetwork) {
		t.Fatalf("expected KindNetwork, got %v", err)
	}
}

func TestRequestCanceledIsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	c := NewClient(srv.URL, WithObserver(&recordingObserver{}))
	_, err := c.Get(ctx, "/github/projects")
	if !IsKind(err, KindNetwork) {
		t.Fatalf("expected KindNetwork for an aborted request, got %v", err)
	}
}

func TestDecodeInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithObserver(&recordingObserver{}))
	resp, err := c.Get(context.Background(), "/")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	var v map[string]any
	if err := resp.Decode(&v); !IsKind(err, KindInvalidResponse) {
		t.Fatalf("expected KindInvalidResponse, got %v", err)
	}
}

func TestRequestEncodesJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		var in map[string]string
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"echo": in["name"]})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithObserver(&recordingObserver{}))
	resp, err := c.Request(context.Background(), "post", "/echo", map[string]string{"name": "folio"})
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	var out map[string]string
	if err := resp.Decode(&out); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out["echo"] != "folio" {
		t.Errorf("expected echo folio, got %q", out["echo"])
	}
}

func TestBlobResponse(t *testing.T) {
	payload := []byte{0x25, 0x50, 0x44, 0x46, 0x00, 0xff}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(payload)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithObserver(&recordingObserver{}))
	resp, err := c.Get(context.Background(), "/resume")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.ContentType() != "application/pdf" {
		t.Errorf("expected application/pdf, got %q", resp.ContentType())
	}
	if string(resp.Blob()) != string(payload) {
		t.Errorf("blob mismatch: %v", resp.Blob())
	}
}

func TestObserverFuncs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "{}")
	}))
	defer srv.Close()

	var before, after int
	c := NewClient(srv.URL, WithObserver(ObserverFuncs{
		OnRequest:  func(RequestRecord) { before++ },
		OnResponse: func(ResponseRecord) { after++ },
	}))
	if _, err := c.Get(context.Background(), "/"); err != nil {
		t.Fatal(err)
	}
	if before != 1 || after != 1 {
		t.Errorf("expected one call each, got before=%d after=%d", before, after)
	}
}

func TestKindOfForeignError(t *testing.T) {
	if KindOf(io.EOF) != 0 {
		t.Error("expected zero kind for a foreign error")
	}
	if KindOf(nil) != 0 {
		t.Error("expected zero kind for nil")
	}
}

func asError(err error, target **Error) bool {
	fe, ok := err.(*Error)
	if ok {
		*target = fe
	}
	return ok
}

func TestRequestUnencodableBodyFailsBeforeSending(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	c := NewClient(srv.URL, WithObserver(obs))
	_, err := c.Request(context.Background(), http.MethodPost, "/contact", map[string]any{"ch": make(chan int)})
	if err == nil {
		t.Fatal("expected an encoding error")
	}
	if KindOf(err) != 0 {
		t.Errorf("encoding failure should not carry a transport kind, got %s", KindOf(err))
	}
	var ute *json.UnsupportedTypeError
	if !errors.As(err, &ute) {
		t.Errorf("expected the json error to be wrapped, got %v", err)
	}
	if hits != 0 {
		t.Errorf("expected no request to reach the server, got %d", hits)
	}
	if len(obs.requests) != 0 || len(obs.responses) != 0 {
		t.Errorf("expected no diagnostic records, got %d before / %d after", len(obs.requests), len(obs.responses))
	}
}
