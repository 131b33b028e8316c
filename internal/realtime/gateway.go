package realtime

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/ripplefeed/backend/internal/models"
	"go.uber.org/zap"
)

const (
	identifyTimeout = 10 * time.Second
	writeTimeout    = 5 * time.Second
)

// Gateway upgrades HTTP requests to websocket connections and manages their
// presence lifecycle: identify, register, push until disconnect, unregister.
type Gateway struct {
	registry  *Registry
	jwtSecret []byte
	log       *zap.Logger
	upgrader  websocket.Upgrader
}

func NewGateway(registry *Registry, jwtSecret string, log *zap.Logger) *Gateway {
	return &Gateway{
		registry:  registry,
		jwtSecret: []byte(jwtSecret),
		log:       log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients connect cross-origin; auth happens via the
			// identify frame, not the origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// identifyFrame is the first message a client must send after the upgrade.
type identifyFrame struct {
	Event string `json:"event"`
	Token string `json:"token"`
}

// Serve handles GET /ws. The connection is anonymous until the client sends
// an identify frame carrying a valid JWT; only then does it join the
// presence registry.
func (g *Gateway) Serve(c echo.Context) error {
	ws, err := g.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "websocket upgrade failed")
	}

	conn := &wsConn{ws: ws}
	defer func() {
		g.registry.Unregister(conn)
		ws.Close()
	}()

	ws.SetReadDeadline(time.Now().Add(identifyTimeout))
	var frame identifyFrame
	if err := ws.ReadJSON(&frame); err != nil || frame.Event != "identify" {
		conn.closeWith(websocket.ClosePolicyViolation, "expected identify frame")
		return nil
	}

	claims, err := g.parseToken(frame.Token)
	if err != nil {
		g.log.Debug("websocket identify rejected", zap.Error(err))
		conn.closeWith(websocket.ClosePolicyViolation, "invalid token")
		return nil
	}
	ws.SetReadDeadline(time.Time{})

	if displaced := g.registry.Register(claims.UserID, conn); displaced != nil {
		if old, ok := displaced.(*wsConn); ok {
			old.closeWith(websocket.CloseGoingAway, "superseded by a newer connection")
		}
	}
	g.log.Info("client connected",
		zap.Uint("user_id", claims.UserID),
		zap.Int("online", g.registry.Online()),
	)

	_ = conn.Push("identified", map[string]uint{"user_id": claims.UserID})

	// Inbound frames are not part of the protocol; drain until disconnect.
	for {
		if _, _, err := ws.NextReader(); err != nil {
			break
		}
	}

	g.registry.Unregister(conn)
	g.log.Info("client disconnected", zap.Uint("user_id", claims.UserID))
	return nil
}

func (g *Gateway) parseToken(tokenString string) (*models.JwtCustomClaims, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return g.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// wsConn serializes writes to one websocket connection; gorilla permits a
// single concurrent writer.
type wsConn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

type envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

func (c *wsConn) Push(event string, data interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteJSON(envelope{Event: event, Data: data})
}

func (c *wsConn) closeWith(code int, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg := websocket.FormatCloseMessage(code, reason)
	_ = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeTimeout))
	c.ws.Close()
}
