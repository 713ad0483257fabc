package remote

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/hailam/chessboard/internal/board"
	"github.com/hailam/chessboard/internal/config"
	"github.com/hailam/chessboard/internal/storage"
	"github.com/rs/zerolog"
)

type recorder struct {
	msgs chan Message
}

func newRecorder() *recorder {
	return &recorder{msgs: make(chan Message, 1024)}
}

func (r *recorder) Send(msg Message) error {
	r.msgs <- msg
	return nil
}

// await returns the next frame of type typ, skipping others.
func (r *recorder) await(t *testing.T, typ MessageType) Message {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case msg := <-r.msgs:
			if msg.Type == typ {
				return msg
			}
		case <-timeout:
			t.Fatalf("no %q frame within 2s", typ)
			return Message{}
		}
	}
}

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	st, err := storage.Open("")
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	cfg := config.Default()
	cfg.Animate = false
	h := NewHub(SessionOptions{Config: cfg, Frame: 5 * time.Millisecond, Storage: st, Log: zerolog.Nop()})
	t.Cleanup(func() {
		h.Close()
		st.Close()
	})
	return h
}

func mustMove(t *testing.T, s string) board.Move {
	t.Helper()
	m, err := board.ParseMove(s)
	if err != nil {
		t.Fatalf("ParseMove(%q): %v", s, err)
	}
	return m
}

func status(t *testing.T, s *Session) Status {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	st, err := s.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	return st
}

func TestSessionSnapshotOnJoin(t *testing.T) {
	h := newTestHub(t)
	s, err := h.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	rec := newRecorder()
	if err := s.Join(NewClient(rec)); err != nil {
		t.Fatalf("Join: %v", err)
	}
	msg := rec.await(t, MessageSnapshot)

	var snap snapshotPayload
	if err := json.Unmarshal(msg.Payload, &snap); err != nil {
		t.Fatalf("snapshot payload: %v", err)
	}
	if snap.ID != s.ID() {
		t.Errorf("snapshot id = %q, want %q", snap.ID, s.ID())
	}
	if len(snap.Pieces) != 32 {
		t.Errorf("snapshot has %d pieces, want 32", len(snap.Pieces))
	}
	if snap.State != "idle" || snap.Orientation != "white" {
		t.Errorf("snapshot state/orientation = %q/%q", snap.State, snap.Orientation)
	}
}

func TestSessionPlaysMove(t *testing.T) {
	h := newTestHub(t)
	s, err := h.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	rec := newRecorder()
	c := NewClient(rec)
	if err := s.Join(c); err != nil {
		t.Fatalf("Join: %v", err)
	}

	if err := s.Submit(c, Command{Type: MessageMove, Move: mustMove(t, "e2e4")}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	rec.await(t, MessageChange)
	msg := rec.await(t, MessageMoveEnd)

	var end moveEndPayload
	if err := json.Unmarshal(msg.Payload, &end); err != nil {
		t.Fatalf("moveEnd payload: %v", err)
	}
	if end.Move != "e2e4" || end.SAN != "e4" {
		t.Errorf("moveEnd = %+v, want e2e4/e4", end)
	}

	st := status(t, s)
	if diff := cmp.Diff([]string{"e2e4"}, st.Moves); diff != "" {
		t.Errorf("moves mismatch (-want +got):\n%s", diff)
	}
	if board.SideToMove(st.FEN) != board.Black {
		t.Errorf("side to move after e4 = %v, want black", board.SideToMove(st.FEN))
	}
	if st.Clients != 1 {
		t.Errorf("clients = %d, want 1", st.Clients)
	}
}

func TestSessionReportsErrorsToSender(t *testing.T) {
	h := newTestHub(t)
	s, err := h.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	rec := newRecorder()
	c := NewClient(rec)
	if err := s.Join(c); err != nil {
		t.Fatalf("Join: %v", err)
	}

	tests := []struct {
		cmd  Command
		kind string
	}{
		{Command{Type: MessageUndo}, "internal"},
		{Command{Type: MessageMove, Move: mustMove(t, "e2e5")}, "illegal move"},
	}
	for _, tt := range tests {
		if err := s.Submit(c, tt.cmd); err != nil {
			t.Fatalf("Submit: %v", err)
		}
		var p errorPayload
		if err := json.Unmarshal(rec.await(t, MessageError).Payload, &p); err != nil {
			t.Fatalf("error payload: %v", err)
		}
		if p.Kind != tt.kind {
			t.Errorf("%s: error kind = %q, want %q", tt.cmd.Type, p.Kind, tt.kind)
		}
	}

	if err := s.Reject(c, &board.Error{Kind: board.KindInvalidInput, Field: "square", Value: "z9"}); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	var p errorPayload
	if err := json.Unmarshal(rec.await(t, MessageError).Payload, &p); err != nil {
		t.Fatalf("error payload: %v", err)
	}
	if p.Kind != "invalid input" {
		t.Errorf("rejected kind = %q, want %q", p.Kind, "invalid input")
	}
}

func TestSessionForwardsSurfaceEvents(t *testing.T) {
	h := newTestHub(t)
	s, err := h.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	rec := newRecorder()
	c := NewClient(rec)
	if err := s.Join(c); err != nil {
		t.Fatalf("Join: %v", err)
	}

	e2, _ := board.ParseSquare("e2")
	if err := s.Submit(c, Command{Type: MessageClick, Square: e2}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	msg := rec.await(t, "select")

	var ev struct {
		Square string `json:"square"`
	}
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		t.Fatalf("select payload: %v", err)
	}
	if ev.Square != "e2" {
		t.Errorf("selected %q, want e2", ev.Square)
	}
	if st := status(t, s); st.State != "selected" {
		t.Errorf("state = %q, want selected", st.State)
	}

	if err := s.Submit(c, Command{Type: MessageFlip}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	rec.await(t, "flip")
	if st := status(t, s); st.Orientation != "black" {
		t.Errorf("orientation = %q, want black", st.Orientation)
	}
}

func TestHubRevivesStoppedSession(t *testing.T) {
	h := newTestHub(t)
	s, err := h.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	rec := newRecorder()
	c := NewClient(rec)
	if err := s.Join(c); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if err := s.Submit(c, Command{Type: MessageMove, Move: mustMove(t, "d2d4")}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	rec.await(t, MessageMoveEnd)
	want := status(t, s)

	s.Leave(c)
	s.Stop()
	if h.Len() != 0 {
		t.Fatalf("hub still holds %d sessions after Stop", h.Len())
	}
	if err := s.Submit(c, Command{Type: MessageUndo}); err != ErrClosed {
		t.Errorf("Submit on stopped session = %v, want ErrClosed", err)
	}

	revived, ok := h.Get(s.ID())
	if !ok {
		t.Fatal("Get did not revive the stored session")
	}
	if revived == s {
		t.Fatal("Get returned the stopped session")
	}
	got := status(t, revived)
	want.Clients = 0
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("revived status mismatch (-want +got):\n%s", diff)
	}
}

func TestHubGetUnknown(t *testing.T) {
	h := newTestHub(t)
	for _, id := range []string{"not-a-uuid", "1b4e28ba-2fa1-11d2-883f-0016d3cca427"} {
		if _, ok := h.Get(id); ok {
			t.Errorf("Get(%q) found a session", id)
		}
	}
}
