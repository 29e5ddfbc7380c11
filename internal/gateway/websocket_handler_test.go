package gateway

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newTestWSHandler() *WebSocketHandler {
	return NewWebSocketHandler(NewConnectionManager(DefaultConnectionConfig()))
}

func TestLeagueConnectionRequiresLeagueID(t *testing.T) {
	h := newTestWSHandler()
	req := httptest.NewRequest(http.MethodGet, "/ws/league", nil)
	req.Header.Set("X-User-ID", uuid.New().String())
	rec := httptest.NewRecorder()

	h.HandleLeagueConnection(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLeagueConnectionRejectsUnidentifiedSubscriber(t *testing.T) {
	h := newTestWSHandler()
	req := httptest.NewRequest(http.MethodGet, "/ws/league?league_id="+uuid.New().String(), nil)
	rec := httptest.NewRecorder()

	h.HandleLeagueConnection(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLeagueConnectionAcceptsQueryIdentity(t *testing.T) {
	h := newTestWSHandler()
	userID := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet,
		"/ws/league?league_id="+uuid.New().String()+"&user_id="+userID, nil)
	rec := httptest.NewRecorder()

	// Without a real handshake the upgrade itself fails, but reaching the
	// upgrade step means the query identity passed the gate.
	h.HandleLeagueConnection(rec, req)
	assert.NotEqual(t, http.StatusUnauthorized, rec.Code)
}
