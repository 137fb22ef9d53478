package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridemarket/marketplace/internal/marketplace"
)

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub("notifier-test", nil)
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(srv.Close)
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url, identity string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url+"/ws?"+identity, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readNotification(t *testing.T, conn *websocket.Conn) marketplace.Notification {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, b, err := conn.ReadMessage()
	require.NoError(t, err)
	var n marketplace.Notification
	require.NoError(t, json.Unmarshal(b, &n))
	return n
}

func TestHubPushesToUser(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, url, "user=driver@example.com")
	require.Eventually(t, func() bool { return hub.Connected("driver@example.com") }, 2*time.Second, 10*time.Millisecond)

	err := hub.NotifyUser(context.Background(), "driver@example.com", marketplace.EventNewTrip, map[string]int64{"trip_id": 9})
	require.NoError(t, err)

	n := readNotification(t, conn)
	assert.Equal(t, marketplace.EventNewTrip, n.Event)
	assert.Equal(t, marketplace.TargetUser, n.Target.Kind)
	assert.JSONEq(t, `{"trip_id":9}`, string(n.Payload))
	assert.NotEmpty(t, n.ID)
}

func TestHubPushesToGroupMembersOnly(t *testing.T) {
	hub, url := startHub(t)
	admin := dial(t, url, "user=ops@example.com&groups=Admins,Support")
	rider := dial(t, url, "user=rider@example.com")
	require.Eventually(t, func() bool {
		return hub.Connected("ops@example.com") && hub.Connected("rider@example.com")
	}, 2*time.Second, 10*time.Millisecond)

	b, err := json.Marshal(marketplace.Notification{
		ID:     "n-1",
		Target: marketplace.Target{Kind: marketplace.TargetGroup, Name: marketplace.GroupAdmins},
		Event:  marketplace.EventDeliveryUpdate,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, hub.SendToGroup(marketplace.GroupAdmins, b))

	n := readNotification(t, admin)
	assert.Equal(t, marketplace.EventDeliveryUpdate, n.Event)

	require.NoError(t, rider.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err = rider.ReadMessage()
	assert.Error(t, err)
}

func TestHubRequiresIdentity(t *testing.T) {
	_, url := startHub(t)
	_, resp, err := websocket.DefaultDialer.Dial(url+"/ws", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHubForgetsClosedClients(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, url, "user=gone@example.com")
	require.Eventually(t, func() bool { return hub.Connected("gone@example.com") }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return !hub.Connected("gone@example.com") }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, hub.SendToUser("gone@example.com", []byte(`{}`)))
}

func TestSplitGroups(t *testing.T) {
	assert.Equal(t, []string{"Admins", "Ops"}, splitGroups(" Admins, ,Ops "))
	assert.Nil(t, splitGroups(""))
}
