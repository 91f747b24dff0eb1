package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/loro/backend/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticValidator struct {
	token  string
	claims *auth.Claims
}

func (v staticValidator) ValidateAccessToken(_ context.Context, token string) (*auth.Claims, error) {
	if token != v.token {
		return nil, auth.ErrInvalidToken
	}
	return v.claims, nil
}

type recordingHub struct {
	served chan [2]uuid.UUID
}

func (h *recordingHub) Serve(conn *websocket.Conn, tenantID, userID uuid.UUID) {
	h.served <- [2]uuid.UUID{tenantID, userID}
	_ = conn.Close()
}

func newRealtimeServer(t *testing.T) (*httptest.Server, *recordingHub) {
	t.Helper()
	hub := &recordingHub{served: make(chan [2]uuid.UUID, 1)}
	v := staticValidator{token: "good", claims: &auth.Claims{
		TenantID: testTenant.String(),
		UserID:   testUser.String(),
		Role:     "USER",
	}}
	h := NewRealtimeHandler(v, hub, &websocket.Upgrader{})
	r := gin.New()
	r.GET("/ws", h.Connect)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, hub
}

func TestRealtimeHandler_RejectsBeforeUpgrade(t *testing.T) {
	srv, hub := newRealtimeServer(t)

	for _, query := range []string{"", "?token=bad"} {
		resp, err := http.Get(srv.URL + "/ws" + query)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
	assert.Empty(t, hub.served)
}

func TestRealtimeHandler_UpgradesWithQueryToken(t *testing.T) {
	srv, hub := newRealtimeServer(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=good"

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	select {
	case ids := <-hub.served:
		assert.Equal(t, testTenant, ids[0])
		assert.Equal(t, testUser, ids[1])
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not receive the connection")
	}
}
