package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/gorilla/websocket"

	"github.com/anlupatov/snaproom/internal/errs"
	"github.com/anlupatov/snaproom/internal/hub"
	"github.com/anlupatov/snaproom/internal/model"
)

func wsURL(httpURL, path string) string {
	return "ws" + strings.TrimPrefix(httpURL, "http") + path
}

func TestRoomEvents_StreamsToSubscribers(t *testing.T) {
	t.Parallel()
	roomID := uuid.Must(uuid.NewV4())
	rooms := &fakeRooms{byID: map[uuid.UUID]*model.Room{
		roomID: {ID: roomID, Name: "open"},
	}}
	s, h := newTestServer(rooms, &fakePhotos{})
	go h.Run()

	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(ts.URL, "/api/rooms/"+roomID.String()+"/events"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	defer resp.Body.Close()

	// registration races the publish; give the hub a moment
	time.Sleep(50 * time.Millisecond)

	photoID := uuid.Must(uuid.NewV4())
	h.Publish(model.RoomEvent{Type: hub.EventPhotoAdded, RoomID: roomID, PhotoID: photoID})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var ev model.RoomEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if ev.Type != hub.EventPhotoAdded || ev.RoomID != roomID || ev.PhotoID != photoID {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestRoomEvents_PrivateRoomRequiresToken(t *testing.T) {
	t.Parallel()
	roomID := uuid.Must(uuid.NewV4())
	rooms := &fakeRooms{
		byID:      map[uuid.UUID]*model.Room{roomID: {ID: roomID, IsPrivate: true}},
		verifyErr: errs.ErrAccessDenied,
	}
	s, h := newTestServer(rooms, &fakePhotos{})
	go h.Run()

	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(ts.URL, "/api/rooms/"+roomID.String()+"/events"), nil)
	if err == nil {
		t.Fatalf("dial must fail without a room token")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("want 403 handshake response, got %+v", resp)
	}

	rooms.verifyErr = nil
	conn, resp2, err := websocket.DefaultDialer.Dial(
		wsURL(ts.URL, "/api/rooms/"+roomID.String()+"/events?access_token=granted"), nil)
	if err != nil {
		t.Fatalf("dial with token: %v", err)
	}
	conn.Close()
	resp2.Body.Close()
}
