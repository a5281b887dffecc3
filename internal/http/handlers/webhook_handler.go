// README: Webhook handler: envelope parsing, context lifecycle, turn dispatch.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"railbot/internal/dialog"
	"railbot/internal/modules/profile"
	"railbot/internal/modules/session"
)

type Dispatcher interface {
	Dispatch(ctx context.Context, req dialog.Request) (dialog.Response, error)
}

type ContextStore interface {
	Load(ctx context.Context, sessionID string) ([]dialog.Context, error)
	Save(ctx context.Context, sessionID string, contexts []dialog.Context) error
}

type WebhookHandler struct {
	dispatcher Dispatcher
	sessions   ContextStore
}

func NewWebhookHandler(dispatcher Dispatcher, sessions ContextStore) *WebhookHandler {
	return &WebhookHandler{dispatcher: dispatcher, sessions: sessions}
}

type webhookRequest struct {
	SessionID string `json:"sessionId"`
	Result    struct {
		Metadata struct {
			IntentName string `json:"intentName"`
		} `json:"metadata"`
		Parameters map[string]string `json:"parameters"`
		Contexts   []dialog.Context  `json:"contexts"`
	} `json:"result"`
}

// Handle processes POST /webhook: one conversational turn.
func (h *WebhookHandler) Handle(c *gin.Context) {
	var req webhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.SessionID == "" || req.Result.Metadata.IntentName == "" {
		writeError(c, http.StatusBadRequest, "missing sessionId or intent")
		return
	}

	stored, err := h.sessions.Load(c.Request.Context(), req.SessionID)
	if err != nil {
		// A lost context bag degrades the turn, it does not fail it.
		log.Error().Err(err).Str("session", req.SessionID).Msg("webhook: loading contexts failed")
	}
	active := session.Merge(stored, req.Result.Contexts)

	resp, err := h.dispatcher.Dispatch(c.Request.Context(), dialog.Request{
		SessionID:  req.SessionID,
		Intent:     req.Result.Metadata.IntentName,
		Parameters: req.Result.Parameters,
		Contexts:   active,
	})
	if err != nil {
		var fatal *profile.FatalError
		if errors.As(err, &fatal) {
			// Unrecoverable backend fault: abort the turn, no reply.
			log.Error().Err(err).Str("session", req.SessionID).Msg("webhook: aborting turn")
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		log.Error().Err(err).Str("session", req.SessionID).Msg("webhook: turn failed")
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}

	next := session.Advance(active, resp.ContextOut)
	if err := h.sessions.Save(c.Request.Context(), req.SessionID, next); err != nil {
		log.Error().Err(err).Str("session", req.SessionID).Msg("webhook: saving contexts failed")
	}

	writeJSON(c, http.StatusOK, resp)
}
