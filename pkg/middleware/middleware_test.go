package middleware

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tablekit-dev/tablekit/pkg/history"
	"github.com/tablekit-dev/tablekit/pkg/live"
	"github.com/tablekit-dev/tablekit/pkg/protocol"
	"github.com/tablekit-dev/tablekit/pkg/tablestate"
)

type item struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func testFactory(h history.History) (live.Table, error) {
	ts := tablestate.New(tablestate.Config[item]{
		SearchKeys: []string{"Name"},
		URL:        tablestate.URLConfig{Enabled: true, Prefix: "t", History: h},
	})
	items := make([]item, 0, 12)
	for i := 1; i <= 12; i++ {
		items = append(items, item{ID: i, Name: fmt.Sprintf("Item %d", i)})
	}
	ts.SetItems(items)
	return live.Bind(ts), nil
}

func runServer(t *testing.T, mw ...live.EventMiddleware) *httptest.Server {
	t.Helper()
	srv := live.NewServer(testFactory, &live.Config{ReadTimeout: 5 * time.Second}, mw...)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func sendEvent(t *testing.T, conn *websocket.Conn, ev protocol.Event) {
	t.Helper()
	data, err := protocol.EncodeEvent(ev, 1)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func awaitPatches(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		msg, err := protocol.DecodeMessage(data)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if msg.Type == protocol.MessagePatches {
			return
		}
	}
}

func TestPrometheusMiddlewareCountsEvents(t *testing.T) {
	registry := prometheus.NewRegistry()
	ts := runServer(t, Prometheus(WithRegistry(registry), WithNamespace("testkit")))

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/live"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	awaitPatches(t, conn) // initial snapshot

	sendEvent(t, conn, protocol.Event{Type: protocol.EventSetSearch, Value: "item 1"})
	awaitPatches(t, conn)
	sendEvent(t, conn, protocol.Event{Type: protocol.EventSetPage, Page: 1})
	awaitPatches(t, conn)

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	var sawEvents, sawDuration bool
	for _, mf := range families {
		switch mf.GetName() {
		case "testkit_events_total":
			sawEvents = true
			var total float64
			for _, m := range mf.GetMetric() {
				total += m.GetCounter().GetValue()
			}
			if total < 2 {
				t.Errorf("events_total = %v, want >= 2", total)
			}
		case "testkit_event_duration_seconds":
			sawDuration = true
		}
	}
	if !sawEvents {
		t.Error("events_total metric missing")
	}
	if !sawDuration {
		t.Error("event_duration_seconds metric missing")
	}
}

func TestOTelMiddlewarePassesEventsThrough(t *testing.T) {
	// No SDK installed: the default no-op tracer must not interfere
	// with dispatch.
	ts := runServer(t, OTel(WithTracerName("testkit")))

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/live"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	awaitPatches(t, conn)

	sendEvent(t, conn, protocol.Event{Type: protocol.EventSetSearch, Value: "item"})
	awaitPatches(t, conn)
}

func TestRegisterSessionGauges(t *testing.T) {
	registry := prometheus.NewRegistry()
	manager := live.NewManager(0)
	RegisterSessionGauges(manager, registry, "testkit")

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	names := map[string]bool{}
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	if !names["testkit_active_sessions"] || !names["testkit_peak_sessions"] {
		t.Errorf("session gauges missing: %v", names)
	}
}
