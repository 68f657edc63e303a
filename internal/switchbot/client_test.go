package switchbot

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"
)

const (
	testToken  = "test-token"
	testSecret = "test-secret"
)

// recordedRequest captures what the fake API saw.
type recordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// fakeAPI serves canned envelopes per path and records requests.
type fakeAPI struct {
	mu       sync.Mutex
	requests []recordedRequest
	handler  func(w http.ResponseWriter, r *http.Request)
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Header: r.Header.Clone(),
		Body:   body,
	})
	f.mu.Unlock()
	f.handler(w, r)
}

func (f *fakeAPI) last(t *testing.T) recordedRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		t.Fatal("no request recorded")
	}
	return f.requests[len(f.requests)-1]
}

func (f *fakeAPI) snapshot() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func writeEnvelope(w http.ResponseWriter, code int, message string, body any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"statusCode": code,
		"message":    message,
		"body":       body,
	})
}

func newTestClient(t *testing.T, handler func(w http.ResponseWriter, r *http.Request), opts ...Option) (*Client, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{handler: handler}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithBaseURL(srv.URL), WithHTTPClient(srv.Client())}, opts...)
	return NewClient(testToken, testSecret, opts...), api
}

func TestSign_KnownVector(t *testing.T) {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(testToken + "1700000000000" + "nonce-1"))
	want := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	if got := sign(testToken, testSecret, "1700000000000", "nonce-1"); got != want {
		t.Errorf("sign() = %q, want %q", got, want)
	}
}

func TestSign_SecretChangesSignature(t *testing.T) {
	a := sign(testToken, "secret-a", "1700000000000", "nonce-1")
	b := sign(testToken, "secret-b", "1700000000000", "nonce-1")
	if a == b {
		t.Error("different secrets produced the same signature")
	}
}

func TestSetHeaders(t *testing.T) {
	fixed := time.UnixMilli(1700000000123)
	client, api := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, StatusSuccess, "success", []Scene{})
	}, WithClock(func() time.Time { return fixed }), WithNonce(func() string { return "fixed-nonce" }))

	if _, err := client.GetScenes(context.Background()); err != nil {
		t.Fatalf("GetScenes() error = %v", err)
	}

	h := api.last(t).Header
	if got := h.Get("Authorization"); got != testToken {
		t.Errorf("Authorization = %q, want %q", got, testToken)
	}
	if got := h.Get("t"); got != "1700000000123" {
		t.Errorf("t = %q", got)
	}
	if got := h.Get("nonce"); got != "fixed-nonce" {
		t.Errorf("nonce = %q", got)
	}
	if got, want := h.Get("sign"), sign(testToken, testSecret, "1700000000123", "fixed-nonce"); got != want {
		t.Errorf("sign = %q, want %q", got, want)
	}
	if got := h.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
}

func TestSetHeaders_FreshNoncePerRequest(t *testing.T) {
	// Same millisecond for both calls: only the nonce can make them differ.
	fixed := time.UnixMilli(1700000000000)
	client, api := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, StatusSuccess, "success", []Scene{})
	}, WithClock(func() time.Time { return fixed }))

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := client.GetScenes(ctx); err != nil {
			t.Fatalf("GetScenes() error = %v", err)
		}
	}

	reqs := api.snapshot()
	first, second := reqs[0].Header, reqs[1].Header
	if first.Get("t") != second.Get("t") {
		t.Fatalf("clock was not fixed: %s vs %s", first.Get("t"), second.Get("t"))
	}
	if first.Get("nonce") == second.Get("nonce") {
		t.Error("nonce reused across requests")
	}
	if first.Get("sign") == second.Get("sign") {
		t.Error("sign reused across requests")
	}
}

func TestGetDevices(t *testing.T) {
	client, api := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, StatusSuccess, "success", DevicesBody{
			DeviceList: []PhysicalDevice{
				{DeviceID: "D1", DeviceName: "Desk Bot", DeviceType: "Bot", EnableCloudService: true, HubDeviceID: "H1"},
			},
			InfraredRemoteList: []InfraredDevice{
				{DeviceID: "IR1", DeviceName: "Living AC", RemoteType: "Air Conditioner", HubDeviceID: "H1"},
			},
		})
	})

	body, err := client.GetDevices(context.Background())
	if err != nil {
		t.Fatalf("GetDevices() error = %v", err)
	}
	if len(body.DeviceList) != 1 || body.DeviceList[0].DeviceName != "Desk Bot" {
		t.Errorf("DeviceList = %+v", body.DeviceList)
	}
	if len(body.InfraredRemoteList) != 1 || body.InfraredRemoteList[0].RemoteType != "Air Conditioner" {
		t.Errorf("InfraredRemoteList = %+v", body.InfraredRemoteList)
	}

	req := api.last(t)
	if req.Method != http.MethodGet || req.Path != "/v1.1/devices" {
		t.Errorf("request = %s %s", req.Method, req.Path)
	}
}

func TestGetDeviceStatus(t *testing.T) {
	client, api := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, StatusSuccess, "success", map[string]any{"deviceId": "D1", "power": "on"})
	})

	status, err := client.GetDeviceStatus(context.Background(), "D1")
	if err != nil {
		t.Fatalf("GetDeviceStatus() error = %v", err)
	}
	if status["power"] != "on" {
		t.Errorf("status = %v", status)
	}
	if got := api.last(t).Path; got != "/v1.1/devices/D1/status" {
		t.Errorf("path = %q", got)
	}
}

func TestSendCommand_Defaults(t *testing.T) {
	client, api := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, StatusSuccess, "success", map[string]any{})
	})

	if _, err := client.SendCommand(context.Background(), "D1", "turnOn", "", ""); err != nil {
		t.Fatalf("SendCommand() error = %v", err)
	}

	req := api.last(t)
	if req.Method != http.MethodPost || req.Path != "/v1.1/devices/D1/commands" {
		t.Errorf("request = %s %s", req.Method, req.Path)
	}
	var got CommandRequest
	if err := json.Unmarshal(req.Body, &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	want := CommandRequest{Command: "turnOn", Parameter: DefaultParameter, CommandType: CommandTypeCommand}
	if got != want {
		t.Errorf("body = %+v, want %+v", got, want)
	}
}

func TestSendCommand_Customize(t *testing.T) {
	client, api := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, StatusSuccess, "success", map[string]any{})
	})

	if _, err := client.SendCommand(context.Background(), "IR1", "myButton", "50", CommandTypeCustomize); err != nil {
		t.Fatalf("SendCommand() error = %v", err)
	}

	var got CommandRequest
	if err := json.Unmarshal(api.last(t).Body, &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	want := CommandRequest{Command: "myButton", Parameter: "50", CommandType: CommandTypeCustomize}
	if got != want {
		t.Errorf("body = %+v, want %+v", got, want)
	}
}

func TestExecuteScene(t *testing.T) {
	client, api := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, StatusSuccess, "success", map[string]any{})
	})

	if _, err := client.ExecuteScene(context.Background(), "S1"); err != nil {
		t.Fatalf("ExecuteScene() error = %v", err)
	}
	req := api.last(t)
	if req.Method != http.MethodPost || req.Path != "/v1.1/scenes/S1/execute" {
		t.Errorf("request = %s %s", req.Method, req.Path)
	}
}

func TestDo_TransportError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.GetScenes(context.Background())
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("error = %v, want ErrTransport", err)
	}
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("error %T is not *TransportError", err)
	}
	if te.StatusCode != http.StatusUnauthorized || te.Status != "Unauthorized" {
		t.Errorf("TransportError = %+v", te)
	}
	if errors.Is(err, ErrAPI) {
		t.Error("transport error must not match ErrAPI")
	}
}

func TestDo_APIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, 190, "device internal error", nil)
	})

	_, err := client.GetDeviceStatus(context.Background(), "D1")
	var ae *APIError
	if !errors.As(err, &ae) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if ae.Code != 190 || ae.Message != "device internal error" {
		t.Errorf("APIError = %+v", ae)
	}
	if !errors.Is(err, ErrAPI) {
		t.Error("expected errors.Is(err, ErrAPI)")
	}
	if got := err.Error(); got != "SwitchBot API error (code: 190): device internal error" {
		t.Errorf("Error() = %q", got)
	}
}

func TestDo_MalformedJSON(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})

	_, err := client.GetScenes(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrAPI) || errors.Is(err, ErrTransport) {
		t.Errorf("decode failure classified as %v", err)
	}
}

func TestSetHeaders_TimestampIsMillis(t *testing.T) {
	client, api := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, StatusSuccess, "success", []Scene{})
	})

	before := time.Now().UnixMilli()
	if _, err := client.GetScenes(context.Background()); err != nil {
		t.Fatalf("GetScenes() error = %v", err)
	}
	after := time.Now().UnixMilli()

	ts, err := strconv.ParseInt(api.last(t).Header.Get("t"), 10, 64)
	if err != nil {
		t.Fatalf("t is not an integer: %v", err)
	}
	if ts < before || ts > after {
		t.Errorf("t = %d, want within [%d, %d]", ts, before, after)
	}
}
