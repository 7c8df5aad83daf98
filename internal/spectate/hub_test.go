package spectate

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blockfall/internal/game"
	"blockfall/internal/render"
)

type fakeSource struct {
	mu      sync.Mutex
	version uint64
	canvas  *render.Canvas
	status  game.Status
	name    string
}

func newFakeSource(name string) *fakeSource {
	return &fakeSource{
		name:   name,
		canvas: render.NewCanvas(480, 600, 40),
		status: game.Status{State: game.StatePaused, Paused: true, Columns: 12, Rows: 15},
	}
}

func (f *fakeSource) Version() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.version
}

func (f *fakeSource) Frame() render.Frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	return render.Frame{Board: f.canvas.Snapshot(), Piece: f.canvas.Snapshot(), Status: f.status, Title: f.name}
}

func (f *fakeSource) draw(t game.Tile, locks int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.canvas.RenderTile(t)
	f.version++
	f.status.Locks = locks
}

func quietHub() *Hub {
	return NewHub(log.New(io.Discard, "", 0))
}

func TestSessionsListing(t *testing.T) {
	h := quietHub()
	h.Add("2", "zoe", newFakeSource("zoe"))
	removeBob := h.Add("1", "bob", newFakeSource("bob"))

	srv := httptest.NewServer(h.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/sessions")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got []SessionInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, []SessionInfo{
		{ID: "1", Name: "bob", State: "paused"},
		{ID: "2", Name: "zoe", State: "paused"},
	}, got)

	removeBob()
	removeBob()
	assert.Len(t, h.Sessions(), 1)
}

func TestRemoteClientsForbidden(t *testing.T) {
	h := quietHub()
	req := httptest.NewRequest(http.MethodGet, "/sessions", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	rec := httptest.NewRecorder()
	h.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	h.AllowRemote = true
	rec = httptest.NewRecorder()
	h.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIsLoopbackRemote(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"127.0.0.1:80", true},
		{"[::1]:80", true},
		{"::1", true},
		{"192.168.1.4:80", false},
		{"garbage", false},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			assert.Equal(t, tt.want, isLoopbackRemote(tt.addr))
		})
	}
}

func wsURL(srv *httptest.Server, session string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?session=" + session
}

func readFrame(t *testing.T, conn *websocket.Conn) FrameMsg {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, b, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg FrameMsg
	require.NoError(t, json.Unmarshal(b, &msg))
	return msg
}

func TestUnknownSession(t *testing.T) {
	srv := httptest.NewServer(quietHub().Handler())
	defer srv.Close()

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "nope"), nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStreamFramesUntilSessionEnds(t *testing.T) {
	h := quietHub()
	src := newFakeSource("alice")
	remove := h.Add("s1", "alice", src)

	srv := httptest.NewServer(h.Handler())
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "s1"), nil)
	require.NoError(t, err)
	defer conn.Close()

	first := readFrame(t, conn)
	assert.Equal(t, "FRAME", first.Type)
	assert.Equal(t, "s1", first.Session)
	assert.Equal(t, "alice", first.Name)
	assert.Equal(t, "paused", first.State)
	assert.Empty(t, first.Tiles)

	src.draw(game.Tile{X: 2, Y: 3, Size: 40, Color: game.Color{R: 255}}, 1)
	next := readFrame(t, conn)
	assert.Equal(t, uint64(1), next.Version)
	assert.Equal(t, 1, next.Locks)
	assert.Contains(t, next.Tiles, TileMsg{X: 2, Y: 3, Color: "#ff0000", Layer: LayerStack})

	remove()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		_, _, err = conn.ReadMessage()
		if err != nil {
			break
		}
	}
	var ce *websocket.CloseError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, websocket.CloseNormalClosure, ce.Code)
	assert.Equal(t, "session ended", ce.Text)
}

func TestNewFrameMsg(t *testing.T) {
	stack := render.NewCanvas(480, 600, 40)
	piece := render.NewCanvas(480, 600, 40)
	stack.RenderTile(game.Tile{X: 0, Y: 14, Size: 40, Color: game.Color{R: 1, G: 2, B: 3}})
	piece.RenderTile(game.Tile{X: 5, Y: 0, Size: 40, Color: game.Color{B: 255}})

	msg := NewFrameMsg("id", 7, render.Frame{
		Board:  stack.Snapshot(),
		Piece:  piece.Snapshot(),
		Status: game.Status{State: game.StateActive, Speed: 70 * time.Millisecond, SoftDrop: true, Piece: "T"},
		Title:  "bob",
	})
	assert.Equal(t, int64(70), msg.SpeedMS)
	assert.True(t, msg.SoftDrop)
	assert.Equal(t, "falling", msg.State)
	assert.Equal(t, []TileMsg{
		{X: 0, Y: 14, Color: "#010203", Layer: LayerStack},
		{X: 5, Y: 0, Color: "#0000ff", Layer: LayerPiece},
	}, msg.Tiles)
}
