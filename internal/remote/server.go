// Package remote serves boards over HTTP. Each board is a session actor;
// browsers drive it over a websocket and replay the surface events it
// sends back.
package remote

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"
)

const writeWait = 5 * time.Second

var errUnknownBoard = errors.New("board not found")

// ServerConfig configures the HTTP front of the hub.
type ServerConfig struct {
	// AllowOrigins is a comma-separated list for CORS and the websocket
	// origin check.
	AllowOrigins string
	// StatusTimeout bounds how long a REST call waits on a busy session.
	StatusTimeout time.Duration
}

// Server exposes a hub over REST and websockets.
type Server struct {
	app *fiber.App
	hub *Hub
	cfg ServerConfig
	log zerolog.Logger
}

// NewServer builds the routes.
func NewServer(hub *Hub, cfg ServerConfig, log zerolog.Logger) *Server {
	if cfg.AllowOrigins == "" {
		cfg.AllowOrigins = "*"
	}
	if cfg.StatusTimeout <= 0 {
		cfg.StatusTimeout = 2 * time.Second
	}
	s := &Server{
		app: fiber.New(fiber.Config{DisableStartupMessage: true}),
		hub: hub,
		cfg: cfg,
		log: log,
	}

	s.app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	s.app.Use(s.logRequests)

	api := s.app.Group("/api")
	api.Post("/boards", s.createBoard)
	api.Get("/boards/:id", s.getBoard)

	s.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	s.app.Get("/ws/board/:id", websocket.New(s.handleSocket, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         origins(cfg.AllowOrigins),
	}))
	return s
}

// App returns the fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	s.log.Info().Str("addr", addr).Msg("listening")
	return s.app.Listen(addr)
}

// Shutdown stops accepting connections. Listen returns once open
// connections have finished; the hub's sessions keep running.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.log.Debug().
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", c.Response().StatusCode()).
		Dur("took", time.Since(start)).
		Msg("request")
	return err
}

func (s *Server) createBoard(c *fiber.Ctx) error {
	sess, err := s.hub.Create()
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create session")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create board"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": sess.ID()})
}

func (s *Server) getBoard(c *fiber.Ctx) error {
	sess, ok := s.hub.Get(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "board not found"})
	}
	ctx, cancel := context.WithTimeout(c.UserContext(), s.cfg.StatusTimeout)
	defer cancel()
	st, err := sess.Status(ctx)
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(st)
}

// socketSink writes frames to a websocket. Only the session goroutine
// calls Send.
type socketSink struct {
	conn *websocket.Conn
}

func (w socketSink) Send(msg Message) error {
	if err := w.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return w.conn.WriteJSON(msg)
}

// handleSocket is the reader side of a board connection: it decodes frames
// and hands them to the session, which does all the writing.
func (s *Server) handleSocket(conn *websocket.Conn) {
	id := conn.Params("id")
	log := s.log.With().Str("session", id).Logger()

	sess, ok := s.hub.Get(id)
	if !ok {
		log.Debug().Msg("socket for unknown board")
		_ = conn.WriteJSON(errorMessage(errUnknownBoard))
		return
	}

	client := NewClient(socketSink{conn: conn})
	if err := sess.Join(client); err != nil {
		_ = conn.WriteJSON(errorMessage(err))
		return
	}
	defer sess.Leave(client)

	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("socket read failed")
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}

		cmd, err := Decode(data)
		if err != nil {
			err = sess.Reject(client, err)
		} else {
			err = sess.Submit(client, cmd)
		}
		if err != nil {
			return
		}
	}
}

// origins splits a CORS origin list for the websocket handshake check. A
// wildcard disables the check.
func origins(list string) []string {
	var out []string
	for _, o := range strings.Split(list, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
