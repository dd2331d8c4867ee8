package api_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/guesswho-go/internal/api"
	"github.com/mcoot/guesswho-go/internal/api/response"
	"github.com/mcoot/guesswho-go/internal/factory"
	"github.com/mcoot/guesswho-go/internal/protocol"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// API tests are integration tests - use production factory with real random/clock
	app, err := factory.New(factory.Config{})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:            logger,
		SessionController: app.SessionController,
		WSHandler:         app.WSHandler,
	})

	return &testServer{handler: router}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) createSession(t *testing.T) string {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp response.Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Code, 6)
	return resp.Code
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error.Code
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestSessionLifecycle(t *testing.T) {
	ts := newTestServer(t)

	code := ts.createSession(t)

	rr := ts.request(http.MethodGet, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var list response.SessionList
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	assert.Contains(t, list.Sessions, code)

	rr = ts.request(http.MethodGet, "/api/v1/sessions/"+code, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var snap response.Snapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snap))
	assert.Equal(t, code, snap.Code)
	assert.Empty(t, snap.Participants)
	assert.Empty(t, snap.Sentences)
	assert.Nil(t, snap.ActiveSentenceID)
}

func TestGetUnknownSession(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/sessions/ZZZZZZ", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "SESSION_NOT_FOUND", decodeError(t, rr))
}

func TestRestGameFlow(t *testing.T) {
	ts := newTestServer(t)
	code := ts.createSession(t)
	base := "/api/v1/sessions/" + code

	rr := ts.request(http.MethodPost, base+"/participants", map[string]string{"display_name": "  Ann "})
	require.Equal(t, http.StatusOK, rr.Code)
	var reg response.RegisterResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &reg))
	assert.Equal(t, "Ann", reg.Name)
	assert.NotEmpty(t, reg.Avatar)

	rr = ts.request(http.MethodPost, base+"/participants", map[string]string{"display_name": "Ben"})
	require.Equal(t, http.StatusOK, rr.Code)

	// Unregistered author is rejected
	rr = ts.request(http.MethodPost, base+"/sentences", map[string]string{"author": "Zoe", "text": "hi"})
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "NOT_REGISTERED", decodeError(t, rr))

	rr = ts.request(http.MethodPost, base+"/sentences", map[string]string{"author": "Ann", "text": "a sentence"})
	require.Equal(t, http.StatusCreated, rr.Code)
	var sub response.SubmitResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sub))
	assert.Equal(t, int64(1), sub.SentenceID)

	// One sentence per participant
	rr = ts.request(http.MethodPost, base+"/sentences", map[string]string{"author": "Ann", "text": "another"})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "ALREADY_SUBMITTED", decodeError(t, rr))

	rr = ts.request(http.MethodPost, base+"/sentences/1/select", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodPost, base+"/sentences/1/guess", map[string]string{"guesser": "Ben", "guess": "Ann"})
	require.Equal(t, http.StatusOK, rr.Code)
	var guess response.GuessResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &guess))
	assert.True(t, guess.Correct)

	rr = ts.request(http.MethodPost, base+"/sentences/99/reveal", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, rr))

	rr = ts.request(http.MethodPost, base+"/sentences/1/reveal", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var rev response.RevealResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rev))
	assert.Equal(t, "Ann", rev.Author)

	rr = ts.request(http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var snap response.Snapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snap))
	require.Len(t, snap.Sentences, 1)
	assert.True(t, snap.Sentences[0].Revealed)
	require.NotNil(t, snap.ActiveSentenceID)
	assert.Equal(t, int64(1), *snap.ActiveSentenceID)
}

// wsClient wraps a websocket connection for tests
type wsClient struct {
	t    *testing.T
	conn *websocket.Conn
}

func dialWS(t *testing.T, serverURL, code string) *wsClient {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(serverURL, "http") + "/session/" + code + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return &wsClient{t: t, conn: conn}
}

func (c *wsClient) send(req protocol.Request) {
	c.t.Helper()
	require.NoError(c.t, c.conn.WriteJSON(req))
}

// readUntil reads messages until one of the wanted type arrives.
// Replies and state pushes are interleaved on the wire, so tests skip
// whatever they are not waiting for.
func (c *wsClient) readUntil(wantType string) map[string]any {
	c.t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	require.NoError(c.t, c.conn.SetReadDeadline(deadline))

	for {
		var msg map[string]any
		require.NoError(c.t, c.conn.ReadJSON(&msg))
		if msg["type"] == wantType {
			return msg
		}
	}
}

// readState reads state pushes until one satisfies the predicate
func (c *wsClient) readState(pred func(protocol.StateMessage) bool) protocol.StateMessage {
	c.t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	require.NoError(c.t, c.conn.SetReadDeadline(deadline))

	for {
		var state protocol.StateMessage
		msg := c.readUntil(protocol.TypeState)
		b, err := json.Marshal(msg)
		require.NoError(c.t, err)
		require.NoError(c.t, json.Unmarshal(b, &state))
		if pred(state) {
			return state
		}
	}
}

func TestWebsocketGameFlow(t *testing.T) {
	ts := newTestServer(t)
	code := ts.createSession(t)

	srv := httptest.NewServer(ts.handler)
	defer srv.Close()

	ann := dialWS(t, srv.URL, code)
	ben := dialWS(t, srv.URL, code)

	// Both connections receive the initial snapshot on connect
	initial := ann.readState(func(s protocol.StateMessage) bool { return true })
	assert.Equal(t, code, initial.Session)
	ben.readState(func(s protocol.StateMessage) bool { return true })

	// Register fans out to every connection
	ann.send(protocol.Request{Type: protocol.TypeRegister, Seq: 1, Name: "Ann"})
	reply := ann.readUntil(protocol.TypeRegister)
	assert.Equal(t, true, reply["ok"])
	assert.Equal(t, "Ann", reply["name"])
	assert.Equal(t, float64(1), reply["seq"])

	ben.readState(func(s protocol.StateMessage) bool { return len(s.Participants) == 1 })

	ben.send(protocol.Request{Type: protocol.TypeRegister, Name: "Ben"})
	reply = ben.readUntil(protocol.TypeRegister)
	assert.Equal(t, true, reply["ok"])

	// Submitting before registering is rejected on a fresh connection
	zoe := dialWS(t, srv.URL, code)
	zoe.send(protocol.Request{Type: protocol.TypeSubmitSentence, Text: "sneaky"})
	reply = zoe.readUntil(protocol.TypeSubmitSentence)
	assert.Equal(t, false, reply["ok"])
	assert.Equal(t, protocol.CodeNotRegistered, reply["error"])

	// The author comes from the connection, not the payload
	ann.send(protocol.Request{Type: protocol.TypeSubmitSentence, Text: "a quiet sentence"})
	reply = ann.readUntil(protocol.TypeSubmitSentence)
	require.Equal(t, true, reply["ok"])
	assert.Equal(t, float64(1), reply["sentenceId"])

	state := ben.readState(func(s protocol.StateMessage) bool { return len(s.Sentences) == 1 })
	assert.Equal(t, "Ann", state.Sentences[0].AuthorName)
	assert.False(t, state.Sentences[0].Revealed)

	// Guessing replies directly without mutating the session
	ben.send(protocol.Request{Type: protocol.TypeGuessAuthor, SentenceID: 1, GuessName: "Ann"})
	reply = ben.readUntil(protocol.TypeGuessAuthor)
	require.Equal(t, true, reply["ok"])
	assert.Equal(t, true, reply["correct"])

	// Reveal fans out the updated snapshot
	ann.send(protocol.Request{Type: protocol.TypeRevealAuthor, SentenceID: 1})
	reply = ann.readUntil(protocol.TypeRevealAuthor)
	require.Equal(t, true, reply["ok"])
	assert.Equal(t, "Ann", reply["authorName"])

	state = ben.readState(func(s protocol.StateMessage) bool {
		return len(s.Sentences) == 1 && s.Sentences[0].Revealed
	})
	assert.Equal(t, "Ann", state.Sentences[0].AuthorName)
}

func TestWebsocketUnknownSession(t *testing.T) {
	ts := newTestServer(t)

	srv := httptest.NewServer(ts.handler)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/session/NOPE/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	if conn != nil {
		_ = conn.Close()
	}
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWebsocketMalformedMessage(t *testing.T) {
	ts := newTestServer(t)
	code := ts.createSession(t)

	srv := httptest.NewServer(ts.handler)
	defer srv.Close()

	c := dialWS(t, srv.URL, code)
	require.NoError(t, c.conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	reply := c.readUntil("")
	assert.Equal(t, false, reply["ok"])
	assert.Equal(t, protocol.CodeProtocolError, reply["error"])
}
