package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/devgrill/devgrill/internal/services"
	"github.com/devgrill/devgrill/internal/utils"
)

// WSHandler streams answer-evaluation events for an interview to the
// client. Workers and the interview service publish JSON events on the
// interview's Redis channel; this handler just relays them.
type WSHandler struct {
	interviews services.InterviewService
	redis      *redis.Client
	upgrader   websocket.Upgrader
}

func NewWSHandler(interviews services.InterviewService, rdb *redis.Client) *WSHandler {
	return &WSHandler{
		interviews: interviews,
		redis:      rdb,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origin in prod
		},
	}
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) writeText(b []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.c.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return w.c.WriteMessage(websocket.TextMessage, b)
}

func (h *WSHandler) InterviewEvents(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	interviewID := c.Param("interview_id")
	if interviewID == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "WSHandler.InterviewEvents", "missing interview_id", nil))
		return
	}

	// authorize interview ownership before upgrading
	if _, _, err := h.interviews.Get(c.Request.Context(), userID, interviewID); err != nil {
		writeError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote response in most cases
		return
	}
	defer conn.Close()

	wc := &wsConn{c: conn}
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	pubsub := h.redis.Subscribe(ctx, services.EventChannel(interviewID))
	defer pubsub.Close()

	// reader: only used to detect the client going away
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		conn.SetPongHandler(func(string) error {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			return nil
		})
		for {
			if _, _, rerr := conn.ReadMessage(); rerr != nil {
				return
			}
		}
	}()

	pingTicker := time.NewTicker(30 * time.Second)
	defer pingTicker.Stop()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case <-readDone:
			return
		case <-pingTicker.C:
			wc.mu.Lock()
			_ = conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
			wc.mu.Unlock()
		case msg, open := <-ch:
			if !open {
				return
			}
			if err := wc.writeText([]byte(msg.Payload)); err != nil {
				return
			}
		}
	}
}
