package http

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"scale-trainer/internal/app"
)

// DefaultFrameInterval is how often a connection ticks its trainer when unset.
const DefaultFrameInterval = 100 * time.Millisecond

type WSHandler struct {
	service       *app.TrainerService
	frameInterval time.Duration
	upgrader      websocket.Upgrader
}

func NewWSHandler(service *app.TrainerService, frameInterval time.Duration) *WSHandler {
	if frameInterval <= 0 {
		frameInterval = DefaultFrameInterval
	}
	return &WSHandler{
		service:       service,
		frameInterval: frameInterval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Option int `json:"option"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func errorMessage(err error) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
}

// ServeWS upgrades HTTP requests to websockets and drives one player's trainer:
// a frame ticker pushes "state" messages, and the client sends "start" and "answer" intents.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("playerId")
	if playerID == "" {
		http.Error(w, "missing playerId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	initial, err := h.service.Attach(ctx, playerID)
	if err != nil {
		_ = conn.WriteJSON(errorMessage(err))
		return
	}
	// deferred first so it runs after the subscription is cancelled
	defer h.service.Leave(ctx, playerID)

	updates, cancel, err := h.service.Subscribe(ctx, playerID)
	if err != nil {
		_ = conn.WriteJSON(errorMessage(err))
		return
	}
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})
	framesDone := make(chan struct{})

	push := func(msg outboundMessage[any]) bool {
		select {
		case send <- msg:
			return true
		case <-writerDone:
			return false
		case <-closeSignals:
			return false
		}
	}

	// a single writer owns the connection; everything else goes through send
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case view, ok := <-updates:
				if !ok {
					return
				}
				if !push(outboundMessage[any]{Type: "state", Payload: view}) {
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	go func() {
		defer close(framesDone)
		ticker := time.NewTicker(h.frameInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				view, err := h.service.Tick(ctx, playerID)
				if err != nil {
					push(errorMessage(err))
					return
				}
				if !push(outboundMessage[any]{Type: "state", Payload: view}) {
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	push(outboundMessage[any]{Type: "state", Payload: initial})

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "start":
			// the new round reaches the client through the subscription
			if _, err := h.service.Start(ctx, playerID); err != nil {
				push(errorMessage(err))
			}
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				push(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}})
				continue
			}
			result, _, err := h.service.Answer(ctx, playerID, payload.Option)
			if err != nil {
				push(errorMessage(err))
				continue
			}
			push(outboundMessage[any]{Type: "answerResult", Payload: result})
		default:
			push(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}})
		}
	}

	close(closeSignals)
	<-updatesDone
	<-framesDone
	close(send)
	<-writerDone
}
