package reload

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	changetoken "github.com/commonsensesoftware/go-changetoken"
)

func dialHub(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/reload"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("client count never reached %d, have %d", want, hub.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubBroadcastsOnTokenFire(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	server := httptest.NewServer(hub.Handler())
	defer server.Close()

	conn := dialHub(t, server)
	waitForClients(t, hub, 1)

	token := changetoken.Share()
	sub := hub.Attach(func() changetoken.Token { return token.Clone() })
	defer sub.Close()

	token.Notify()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read broadcast: %v", err)
	}
	if msg.Type != TypeReload {
		t.Errorf("message type = %q, want %q", msg.Type, TypeReload)
	}
}

func TestHubBroadcastReachesAllClients(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	server := httptest.NewServer(hub.Handler())
	defer server.Close()

	first := dialHub(t, server)
	second := dialHub(t, server)
	waitForClients(t, hub, 2)

	hub.NotifyError("compile failed")

	for i, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("client %d read: %v", i, err)
		}
		if msg.Type != TypeError || msg.Error != "compile failed" {
			t.Errorf("client %d got %+v", i, msg)
		}
	}
}

func TestHubDetachStopsBroadcasts(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	server := httptest.NewServer(hub.Handler())
	defer server.Close()

	conn := dialHub(t, server)
	waitForClients(t, hub, 1)

	token := changetoken.Share()
	sub := hub.Attach(func() changetoken.Token { return token.Clone() })
	sub.Close()

	token.Notify()

	conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("received a broadcast after the subscription was closed")
	}
}

func TestHubServesMetrics(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	server := httptest.NewServer(hub.Handler())
	defer server.Close()

	resp, err := server.Client().Get(server.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("metrics endpoint returned %d", resp.StatusCode)
	}
}

func TestHubCloseDropsClients(t *testing.T) {
	hub := NewHub()
	server := httptest.NewServer(hub.Handler())
	defer server.Close()

	dialHub(t, server)
	waitForClients(t, hub, 1)

	hub.Close()
	if got := hub.ClientCount(); got != 0 {
		t.Errorf("client count after close = %d, want 0", got)
	}
}
