package chatControllers

import (
	"testing"

	"github.com/gorilla/websocket"
)

func TestHubRoomLifecycle(t *testing.T) {
	h := newHub()

	a := &websocket.Conn{}
	b := &websocket.Conn{}

	h.join("user_1", a)
	h.join("user_1", b)
	if len(h.rooms["user_1"]) != 2 {
		t.Fatalf("expected 2 conns in room, got %d", len(h.rooms["user_1"]))
	}

	h.leave("user_1", a)
	if len(h.rooms["user_1"]) != 1 {
		t.Fatalf("expected 1 conn after leave, got %d", len(h.rooms["user_1"]))
	}

	// last member leaving removes the room entirely
	h.leave("user_1", b)
	if _, ok := h.rooms["user_1"]; ok {
		t.Fatal("expected empty room to be deleted")
	}
}

func TestHubAgentWatchUnwatch(t *testing.T) {
	h := newHub()

	agent := &websocket.Conn{}

	h.watch(agent)
	if !h.agents[agent] {
		t.Fatal("expected agent to be registered after watch")
	}

	h.unwatch(agent)
	if len(h.agents) != 0 {
		t.Fatalf("expected no agents after unwatch, got %d", len(h.agents))
	}
}

func TestMonitorEvents(t *testing.T) {
	joined := monitorEvent("joined", "user_7", "user_7")
	if joined.Event != "joined" || joined.Room != "user_7" {
		t.Fatalf("unexpected join notice: %+v", joined)
	}
	if joined.SentAt.IsZero() {
		t.Fatal("expected join notice to carry a timestamp")
	}

	left := monitorEvent("left", "user_7", "user_7")
	if left.Event != "left" {
		t.Fatalf("unexpected leave notice event %q", left.Event)
	}
}
