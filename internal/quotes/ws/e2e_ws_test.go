package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"tickstream.com/internal/quotes/gen"
	"tickstream.com/internal/quotes/registry"
	"tickstream.com/internal/quotes/service"
	"tickstream.com/internal/quotes/sub"
	"tickstream.com/pkg/logger"
	"tickstream.com/pkg/xerr"
)

func newTestServer(t *testing.T) (*httptest.Server, string, context.CancelFunc) {
	t.Helper()
	logger.Init("quote-service-test", "error")

	reg := registry.New([]registry.Instrument{
		{Symbol: "AAPL", Name: "Apple Inc.", BasePrice: 180.0},
		{Symbol: "MSFT", Name: "Microsoft", BasePrice: 410.0},
	})
	src := gen.NewRandSource()
	svc := service.NewQuoteService(reg, src)
	engine := sub.NewEngine(reg, src, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	srv := NewServer(ctx, svc, engine)

	mux := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ws" {
			srv.ServeWS(w, r)
			return
		}
		w.WriteHeader(404)
	}))
	wsURL := "ws" + strings.TrimPrefix(mux.URL, "http") + "/ws"
	return mux, wsURL, cancel
}

func writeFrame(t *testing.T, c *websocket.Conn, msg ClientMsg) {
	t.Helper()
	b, _ := json.Marshal(msg)
	if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
		t.Fatalf("write err=%v", err)
	}
}

func readFrame(t *testing.T, c *websocket.Conn) ServerMsg {
	t.Helper()
	_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, b, err := c.ReadMessage()
	if err != nil {
		t.Fatalf("read err=%v", err)
	}
	var msg ServerMsg
	if err := json.Unmarshal(b, &msg); err != nil {
		t.Fatalf("unmarshal err=%v body=%s", err, b)
	}
	return msg
}

func TestWS_UnaryQuote(t *testing.T) {
	mux, wsURL, cancel := newTestServer(t)
	defer mux.Close()
	defer cancel()

	c, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial err=%v", err)
	}
	defer c.Close()

	t.Run("known", func(t *testing.T) {
		writeFrame(t, c, ClientMsg{Type: "quote", ID: "q1", Symbol: "AAPL"})
		resp := readFrame(t, c)
		if resp.Type != "quote" || resp.ID != "q1" {
			t.Fatalf("unexpected frame: %+v", resp)
		}
		if resp.Quote == nil || resp.Quote.Price < 171.0 || resp.Quote.Price > 189.0 {
			t.Fatalf("price out of band: %+v", resp.Quote)
		}
	})

	t.Run("not_found_maps_to_error_frame", func(t *testing.T) {
		writeFrame(t, c, ClientMsg{Type: "quote", ID: "q2", Symbol: "BOGUS"})
		resp := readFrame(t, c)
		if resp.Type != "error" || resp.ID != "q2" {
			t.Fatalf("unexpected frame: %+v", resp)
		}
		if resp.Code != xerr.InstrumentNotFound {
			t.Fatalf("want not-found code, got %+v", resp)
		}
	})

	t.Run("batch_never_errors", func(t *testing.T) {
		writeFrame(t, c, ClientMsg{Type: "quotes", ID: "q3", Symbols: []string{"AAPL", "BOGUS", "MSFT"}})
		resp := readFrame(t, c)
		if resp.Type != "quotes" || resp.ID != "q3" {
			t.Fatalf("unexpected frame: %+v", resp)
		}
		if len(resp.Quotes) != 3 {
			t.Fatalf("batch length want=3 got=%d", len(resp.Quotes))
		}
		if resp.Quotes[1].Symbol != "BOGUS" || resp.Quotes[1].Price != 0 {
			t.Fatalf("middle item should be zero quote: %+v", resp.Quotes[1])
		}
	})
}

func TestWS_SubscribeStream(t *testing.T) {
	mux, wsURL, cancel := newTestServer(t)
	defer mux.Close()
	defer cancel()

	c, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial err=%v", err)
	}
	defer c.Close()

	writeFrame(t, c, ClientMsg{Type: "sub", ID: "s1", Symbols: []string{"AAPL"}})

	// subscribed 确认帧和 update 帧可能交错到达：读到足够的 update 为止
	var subscribed bool
	updates := 0
	for i := 0; i < 20 && updates < 3; i++ {
		msg := readFrame(t, c)
		switch msg.Type {
		case "subscribed":
			subscribed = true
			if msg.SubID == "" {
				t.Fatalf("subscribed frame must carry sub id")
			}
		case "update":
			if msg.Update == nil || msg.Update.Symbol != "AAPL" {
				t.Fatalf("bad update frame: %+v", msg)
			}
			if msg.Update.Price <= 0 || msg.Update.Volume < 0 || msg.Update.Volume >= gen.MaxVolume {
				t.Fatalf("update out of range: %+v", msg.Update)
			}
			updates++
		default:
			t.Fatalf("unexpected frame: %+v", msg)
		}
	}
	if !subscribed || updates < 3 {
		t.Fatalf("want subscribed+3 updates, subscribed=%v updates=%d", subscribed, updates)
	}

	// unsub 之后：最多再飘一条在途 update，然后只会收到 unsubscribed
	writeFrame(t, c, ClientMsg{Type: "unsub", ID: "s2"})
	inflight := 0
	for {
		msg := readFrame(t, c)
		if msg.Type == "unsubscribed" {
			break
		}
		if msg.Type != "update" {
			t.Fatalf("unexpected frame after unsub: %+v", msg)
		}
		inflight++
		if inflight > 2 {
			t.Fatalf("stream must stop after unsub")
		}
	}
}

func TestWS_InvalidFrames(t *testing.T) {
	mux, wsURL, cancel := newTestServer(t)
	defer mux.Close()
	defer cancel()

	c, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial err=%v", err)
	}
	defer c.Close()

	t.Run("unknown_type", func(t *testing.T) {
		writeFrame(t, c, ClientMsg{Type: "whatever", ID: "x1"})
		resp := readFrame(t, c)
		if resp.Type != "error" || resp.Code != xerr.RequestParamsError {
			t.Fatalf("unexpected frame: %+v", resp)
		}
	})

	t.Run("malformed_json", func(t *testing.T) {
		if err := c.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
			t.Fatalf("write err=%v", err)
		}
		resp := readFrame(t, c)
		if resp.Type != "error" {
			t.Fatalf("unexpected frame: %+v", resp)
		}
	})

	t.Run("sub_unknown_symbols_is_silent", func(t *testing.T) {
		// 全无效集合不是错误：订阅建立，但永远不发 update
		writeFrame(t, c, ClientMsg{Type: "sub", ID: "x2", Symbols: []string{"INVALID"}})
		resp := readFrame(t, c)
		if resp.Type != "subscribed" {
			t.Fatalf("invalid set should still subscribe: %+v", resp)
		}
		_ = c.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
		if _, _, err := c.ReadMessage(); err == nil {
			t.Fatalf("all-invalid subscription must stay silent")
		}
	})
}
