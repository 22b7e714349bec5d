package handler

import (
	"context"
	"log/slog"
	"net/http"

	"gstskill/internal/model"

	"github.com/gin-gonic/gin"
)

const (
	envelopeVersion = "1.0"
	speechPlainText = "PlainText"
)

type IntentRouter interface {
	Route(ctx context.Context, req model.IntentRequest) model.Response
}

type RateTable interface {
	Reload(ctx context.Context) error
	Len() int
}

type WebhookHandler struct {
	router   IntentRouter
	rates    RateTable
	verifier *Verifier
}

func NewWebhookHandler(router IntentRouter, rates RateTable, verifier *Verifier) *WebhookHandler {
	return &WebhookHandler{router: router, rates: rates, verifier: verifier}
}

func (h *WebhookHandler) HandleRequest(c *gin.Context) {
	requestID := c.GetString(requestIDKey)

	var env RequestEnvelope
	if err := c.ShouldBindJSON(&env); err != nil {
		slog.Warn("invalid request body", "request_id", requestID, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.verifier.Verify(c.Request.Header, env); err != nil {
		slog.Warn("request verification failed", "request_id", requestID, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request verification failed"})
		return
	}

	if env.Request.RequestID != "" {
		requestID = env.Request.RequestID
	}

	if env.Session.New {
		slog.Debug("session started", "session_id", env.Session.SessionID, "request_id", requestID)
		if err := h.rates.Reload(c.Request.Context()); err != nil {
			slog.Error("error reloading rate table at session start", "request_id", requestID, "error", err)
		}
	}

	req := toIntentRequest(env, requestID)
	slog.Info("handling request", "type", req.Kind, "intent", req.Name, "request_id", requestID)

	res := h.router.Route(c.Request.Context(), req)

	c.JSON(http.StatusOK, toResponseEnvelope(res, env.Session.Attributes))
}

func (h *WebhookHandler) GetHealth(c *gin.Context) {
	if h.rates.Len() == 0 {
		if err := h.rates.Reload(c.Request.Context()); err != nil {
			slog.Error("health check could not load rate table", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"rates":  0,
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"rates":  h.rates.Len(),
	})
}

func toIntentRequest(env RequestEnvelope, requestID string) model.IntentRequest {
	slots := make(map[string]string, len(env.Request.Intent.Slots))
	for key, slot := range env.Request.Intent.Slots {
		name := slot.Name
		if name == "" {
			name = key
		}
		slots[name] = slot.Value
	}

	return model.IntentRequest{
		Kind:       env.Request.Type,
		Name:       env.Request.Intent.Name,
		Slots:      slots,
		SessionNew: env.Session.New,
		RequestID:  requestID,
	}
}

func toResponseEnvelope(res model.Response, attributes map[string]interface{}) ResponseEnvelope {
	env := ResponseEnvelope{
		Version:           envelopeVersion,
		SessionAttributes: attributes,
	}

	if res.NoContent {
		return env
	}

	endSession := !res.ExpectsFurtherInput
	env.Response = ResponseBody{
		OutputSpeech:     &OutputSpeech{Type: speechPlainText, Text: res.Speech},
		ShouldEndSession: &endSession,
	}

	if res.Reprompt != "" {
		env.Response.Reprompt = &Reprompt{
			OutputSpeech: OutputSpeech{Type: speechPlainText, Text: res.Reprompt},
		}
	}

	if res.Card != nil {
		card := &CardResponse{Type: res.Card.Kind, Title: res.Card.Title}
		if res.Card.Kind == model.CardStandard {
			card.Text = res.Card.Body
		} else {
			card.Content = res.Card.Body
		}
		env.Response.Card = card
	}

	return env
}
