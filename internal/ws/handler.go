package ws

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/klipworks/klipflow/internal/blueprint"
	"github.com/klipworks/klipflow/internal/engine"
	"github.com/klipworks/klipflow/internal/generation"
	"github.com/klipworks/klipflow/internal/logging"
	"github.com/klipworks/klipflow/internal/monitoring"
	"github.com/klipworks/klipflow/internal/service"
	"github.com/klipworks/klipflow/internal/shared/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in dev
	},
}

// Message is a client request received over the stream socket.
type Message struct {
	Type      string                 `json:"type"`
	Blueprint string                 `json:"blueprint,omitempty"`
	Name      string                 `json:"name,omitempty"`
	State     map[string]interface{} `json:"state,omitempty"`
}

// Handler streams workflow execution over WebSocket connections. Step
// records are forwarded to the client as the engine produces them,
// followed by a terminal "complete" or "error" event.
type Handler struct {
	runner  *service.Runner
	archive *generation.Archive
	metrics *monitoring.Metrics
	log     *logging.Logger
}

// NewHandler creates a WebSocket handler. The archive may be nil, in
// which case execution by blueprint name is rejected.
func NewHandler(runner *service.Runner, archive *generation.Archive, metrics *monitoring.Metrics, log *logging.Logger) *Handler {
	if log == nil {
		log = logging.NewNop()
	}
	return &Handler{
		runner:  runner,
		archive: archive,
		metrics: metrics,
		log:     log.Named("ws"),
	}
}

// HandleConnection handles WebSocket upgrade and messages.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}
	h.log.Info("stream client connected", zap.String("remote", conn.RemoteAddr().String()))

	h.send(conn, map[string]interface{}{
		"type":    "system",
		"message": "Connected to klipflow stream",
	})

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Warn("websocket read error", zap.Error(err))
			}
			break
		}
		if h.metrics != nil {
			h.metrics.RecordWSMessage("in", msg.Type)
		}

		switch msg.Type {
		case "execute":
			h.handleExecute(conn, msg)
		case "ping":
			h.send(conn, map[string]interface{}{"type": "pong"})
		default:
			h.sendError(conn, "unknown message type")
		}
	}
}

// handleExecute runs one workflow and streams each step record back to
// the client. The observer fires synchronously from the engine, so
// writes to the connection never interleave.
func (h *Handler) handleExecute(conn *websocket.Conn, msg Message) {
	doc, err := h.resolveDocument(msg)
	if err != nil {
		h.sendError(conn, err.Error())
		return
	}
	if err := utils.ValidateState(msg.State); err != nil {
		h.sendError(conn, err.Error())
		return
	}

	h.send(conn, map[string]interface{}{
		"type":      "run_start",
		"timestamp": time.Now().Unix(),
	})

	observer := func(rec engine.StepRecord) {
		status := "ok"
		if rec.Skipped {
			status = "skipped"
		}
		h.send(conn, map[string]interface{}{
			"type":       "step",
			"phase":      rec.Phase,
			"step":       rec.Step,
			"unit":       rec.Unit,
			"capability": rec.Capability,
			"status":     status,
			"wrote_key":  rec.WroteKey,
			"timestamp":  time.Now().Unix(),
		})
	}

	result, err := h.runner.Run(doc, msg.State, observer)
	if err != nil {
		h.sendError(conn, err.Error())
		return
	}

	h.send(conn, map[string]interface{}{
		"type":        "complete",
		"run_id":      result.RunID,
		"state":       result.State,
		"steps":       len(result.Trace),
		"duration_ms": result.Duration.Milliseconds(),
		"timestamp":   time.Now().Unix(),
	})
}

// resolveDocument loads the blueprint from inline text or from the
// archive by name. Exactly one source must be provided.
func (h *Handler) resolveDocument(msg Message) (*blueprint.Document, error) {
	switch {
	case msg.Blueprint != "" && msg.Name != "":
		return nil, fmt.Errorf("provide blueprint text or a name, not both")
	case msg.Blueprint != "":
		if len(msg.Blueprint) > utils.MaxBlueprintSize {
			return nil, fmt.Errorf("blueprint exceeds %d bytes", utils.MaxBlueprintSize)
		}
		return blueprint.Load(msg.Blueprint)
	case msg.Name != "":
		if h.archive == nil {
			return nil, fmt.Errorf("blueprint archive disabled")
		}
		if err := utils.ValidateID(msg.Name, "name", true); err != nil {
			return nil, err
		}
		content, _, err := h.archive.Latest(msg.Name)
		if err != nil {
			return nil, err
		}
		return blueprint.Load(content)
	default:
		return nil, fmt.Errorf("blueprint text or name required")
	}
}

func (h *Handler) send(conn *websocket.Conn, data map[string]interface{}) error {
	if err := conn.WriteJSON(data); err != nil {
		h.log.Warn("websocket write error", zap.Error(err))
		return err
	}
	if h.metrics != nil {
		if t, ok := data["type"].(string); ok {
			h.metrics.RecordWSMessage("out", t)
		}
	}
	return nil
}

func (h *Handler) sendError(conn *websocket.Conn, msg string) error {
	return h.send(conn, map[string]interface{}{
		"type":      "error",
		"message":   msg,
		"timestamp": time.Now().Unix(),
	})
}
