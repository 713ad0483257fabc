package remote

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hailam/chessboard/internal/board"
	"github.com/rs/zerolog"
)

func TestServerBoardsAPI(t *testing.T) {
	srv := NewServer(newTestHub(t), ServerConfig{}, zerolog.Nop())
	app := srv.App()

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/boards", nil))
	if err != nil {
		t.Fatalf("POST /api/boards: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /api/boards status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.ID == "" {
		t.Fatal("create response has no id")
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/boards/"+created.ID, nil))
	if err != nil {
		t.Fatalf("GET board: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET board status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	var st Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if st.ID != created.ID || st.State != "idle" || st.Outcome != "*" {
		t.Errorf("status = %+v", st)
	}
	if pl, err := board.ParsePlacement(st.FEN); err != nil || pl.Count() != 32 {
		t.Errorf("status FEN %q is not the initial position", st.FEN)
	}
}

func TestServerUnknownBoard(t *testing.T) {
	srv := NewServer(newTestHub(t), ServerConfig{}, zerolog.Nop())

	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/api/boards/nope", nil))
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestServerSocketRequiresUpgrade(t *testing.T) {
	srv := NewServer(newTestHub(t), ServerConfig{}, zerolog.Nop())

	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/ws/board/whatever", nil))
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if resp.StatusCode != http.StatusUpgradeRequired {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUpgradeRequired)
	}
}

func TestOrigins(t *testing.T) {
	got := origins(" http://a.test, ,http://b.test ")
	if len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Errorf("origins = %q", got)
	}
}
