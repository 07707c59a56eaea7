package transport

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"storefront/pkg/domain/model"
)

const socketWriteWait = 10 * time.Second

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type chatMessageRequest struct {
	Text string `json:"text"`
}

type chatMessageResponse struct {
	Role model.ChatRole `json:"role"`
	Text string         `json:"text"`
}

func (h *Handler) createChatSessionHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusCreated, map[string]any{"sessionId": h.Assistant.CreateSession()})
}

func (h *Handler) sendChatMessageHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, err := pathUUID(r, "sessionID")
	if err != nil {
		writeError(w, err)
		return
	}
	var req chatMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, errBadRequest)
		return
	}

	reply, err := h.Assistant.SendMessage(r.Context(), sessionID, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chatMessageResponse{Role: model.ChatRoleModel, Text: reply})
}

func (h *Handler) chatHistoryHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, err := pathUUID(r, "sessionID")
	if err != nil {
		writeError(w, err)
		return
	}
	history, err := h.Assistant.History(sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	if history == nil {
		history = []model.ChatMessage{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": history})
}

// chatSocketHandler answers each inbound text frame with one assistant reply.
func (h *Handler) chatSocketHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, err := pathUUID(r, "sessionID")
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := h.Assistant.History(sessionID); err != nil {
		writeError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	logger := log.WithField("sessionID", sessionID)
	for {
		var req chatMessageRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.WithError(err).Warn("chat socket closed unexpectedly")
			}
			return
		}
		if strings.TrimSpace(req.Text) == "" {
			continue
		}

		reply, err := h.Assistant.SendMessage(r.Context(), sessionID, req.Text)
		if err != nil {
			logger.WithError(err).Error("chat message failed")
			return
		}

		_ = conn.SetWriteDeadline(time.Now().Add(socketWriteWait))
		if err := conn.WriteJSON(chatMessageResponse{Role: model.ChatRoleModel, Text: reply}); err != nil {
			logger.WithError(err).Warn("failed to write chat reply")
			return
		}
	}
}
