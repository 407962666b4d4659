package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"SwingHunter/internal/presenter"
)

func newTestNotifier(url string) *TelegramNotifier {
	n := NewTelegramNotifier(url, "TOKEN", "42", "")
	n.backoff = time.Millisecond
	n.pollTimeout = 0
	return n
}

func TestSend(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/botTOKEN/sendMessage" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	if err := newTestNotifier(srv.URL).Send(context.Background(), "<b>hi</b>"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["chat_id"] != "42" || got["text"] != "<b>hi</b>" || got["parse_mode"] != "HTML" {
		t.Errorf("unexpected payload %v", got)
	}
}

func TestSend_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
	}))
	defer srv.Close()

	err := newTestNotifier(srv.URL).Send(context.Background(), "x")
	if err == nil || !strings.Contains(err.Error(), "chat not found") {
		t.Fatalf("expected API error, got %v", err)
	}
}

func TestSendWithRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"ok":false,"description":"upstream"}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := newTestNotifier(srv.URL)
	if err := n.SendWithRetry(context.Background(), "x", 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", calls.Load())
	}

	calls.Store(-100)
	if err := n.SendWithRetry(context.Background(), "x", 1); err == nil || !strings.Contains(err.Error(), "2 retries exhausted") {
		t.Errorf("expected exhausted error, got %v", err)
	}
}

func TestSendWithRetry_Cancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := newTestNotifier(srv.URL).SendWithRetry(ctx, "x", 5); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestStartPolling(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu      sync.Mutex
		offsets []string
		replies []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/botTOKEN/getUpdates":
			mu.Lock()
			offsets = append(offsets, r.URL.Query().Get("offset"))
			first := len(offsets) == 1
			mu.Unlock()
			if first {
				_, _ = w.Write([]byte(`{"ok":true,"result":[
					{"update_id":7,"message":{"text":" /watchlist ","chat":{"id":42}}},
					{"update_id":8,"message":{"text":"/scan BBCA","chat":{"id":99}}}
				]}`))
				return
			}
			time.Sleep(5 * time.Millisecond)
			_, _ = w.Write([]byte(`{"ok":true,"result":[]}`))
		case "/botTOKEN/sendMessage":
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			mu.Lock()
			replies = append(replies, body["text"].(string))
			mu.Unlock()
			_, _ = w.Write([]byte(`{"ok":true}`))
			cancel()
		}
	}))
	defer srv.Close()

	var handled []string
	done := make(chan struct{})
	go func() {
		newTestNotifier(srv.URL).StartPolling(ctx, func(_ context.Context, cmd string) string {
			handled = append(handled, cmd)
			return "reply to " + cmd
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("polling did not stop after cancel")
	}

	if len(handled) != 1 || handled[0] != "/watchlist" {
		t.Errorf("expected only /watchlist handled, got %v", handled)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(replies) != 1 || replies[0] != "reply to /watchlist" {
		t.Errorf("unexpected replies %v", replies)
	}
	if offsets[0] != "0" {
		t.Errorf("expected first offset 0, got %s", offsets[0])
	}
	if len(offsets) > 1 && offsets[1] != "9" {
		t.Errorf("expected offset to advance to 9, got %s", offsets[1])
	}
}

func TestFormatDigest(t *testing.T) {
	at := time.Date(2025, 6, 2, 16, 30, 0, 0, time.UTC)
	r := presenter.Report{
		Rows: []presenter.Row{
			{Ticker: "BBCA", Close: 9800, Label: "BREAKOUT", RSI: 61.2, VolumeRatio: 2.1, MA20: 9500, Score: 3, Color: presenter.ColorBreakout},
			{Ticker: "ADRO", Close: 2500, Label: "AVOID / DOWNTREND", RSI: 40, VolumeRatio: 0.8, MA20: 2700, Score: -1, Color: presenter.ColorAvoid},
		},
		Charts: []presenter.ChartSpec{{Ticker: "BBCA", Advice: "BBCA volume exploded (2.10x average)."}},
	}
	msg := FormatDigest(r, at)
	for _, want := range []string{"2025-06-02 16:30", "🚀 <b>BBCA</b> BREAKOUT", "❌ <b>ADRO</b>", "Close 9800", "RSI 61.20", "Vol 2.10x", "💡 BBCA volume exploded"} {
		if !strings.Contains(msg, want) {
			t.Errorf("digest missing %q:\n%s", want, msg)
		}
	}
	if strings.Index(msg, "BBCA") > strings.Index(msg, "ADRO") {
		t.Error("digest rows out of order")
	}

	empty := FormatDigest(presenter.Report{}, at)
	if !strings.Contains(empty, presenter.NoDataNotice) {
		t.Errorf("expected no-data notice, got %q", empty)
	}
}

func TestFormatWatchlistAndHelp(t *testing.T) {
	if got := FormatWatchlist([]string{"BBCA.JK", "ADRO.JK"}); !strings.Contains(got, "(2)") || !strings.Contains(got, "BBCA.JK, ADRO.JK") {
		t.Errorf("unexpected watchlist %q", got)
	}
	if got := FormatWatchlist(nil); !strings.Contains(got, "empty") {
		t.Errorf("unexpected empty watchlist %q", got)
	}
	if got := FormatHelp(); !strings.Contains(got, "/scan") || !strings.Contains(got, "/watchlist") {
		t.Errorf("unexpected help %q", got)
	}
}
