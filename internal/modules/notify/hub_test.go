package notify

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWatchServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub()
	r := gin.New()
	NewHandler(hub).RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, srv
}

func dialWatcher(t *testing.T, srv *httptest.Server, date string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/bookings?date=" + date
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForWatchers(t *testing.T, hub *Hub, date string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.WatcherCount(date) != want {
		if time.Now().After(deadline) {
			t.Fatalf("watcher count for %s never reached %d", date, want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubDeliversEventToWatcher(t *testing.T) {
	hub, srv := newWatchServer(t)
	conn := dialWatcher(t, srv, "2030-06-12")
	waitForWatchers(t, hub, "2030-06-12", 1)

	hub.BookingsChanged("2030-06-12", 42, "created")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev Event
	require.NoError(t, json.Unmarshal(msg, &ev))
	assert.Equal(t, "created", ev.Type)
	assert.Equal(t, "2030-06-12", ev.Date)
	assert.Equal(t, int64(42), ev.BookingID)
}

func TestHubIgnoresOtherDates(t *testing.T) {
	hub, srv := newWatchServer(t)
	conn := dialWatcher(t, srv, "2030-06-12")
	waitForWatchers(t, hub, "2030-06-12", 1)

	hub.BookingsChanged("2030-06-13", 7, "created")
	hub.BookingsChanged("2030-06-12", 8, "cancelled")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev Event
	require.NoError(t, json.Unmarshal(msg, &ev))
	assert.Equal(t, int64(8), ev.BookingID)
}

func TestHubConcurrentNotifications(t *testing.T) {
	hub, srv := newWatchServer(t)
	conn := dialWatcher(t, srv, "2030-06-12")
	waitForWatchers(t, hub, "2030-06-12", 1)

	received := make(chan struct{}, 64)
	go func() {
		for {
			conn.SetReadDeadline(time.Now().Add(time.Second))
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
			received <- struct{}{}
		}
	}()

	// Concurrent bookings on one watched date must not race on the
	// connection; each write goes through the connection's single writer.
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			hub.BookingsChanged("2030-06-12", id, "created")
		}(int64(i))
	}
	wg.Wait()

	select {
	case <-received:
	case <-time.After(2 * time.Second):
		t.Fatal("no event delivered")
	}
}

func TestHubUnregistersOnDisconnect(t *testing.T) {
	hub, srv := newWatchServer(t)
	conn := dialWatcher(t, srv, "2030-06-12")
	waitForWatchers(t, hub, "2030-06-12", 1)

	conn.Close()
	waitForWatchers(t, hub, "2030-06-12", 0)
}
