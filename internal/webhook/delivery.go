package webhook

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/macward/vibemcp/internal/store"
)

type eventPayload struct {
	EventID   string         `json:"event_id"`
	EventType string         `json:"event_type"`
	Project   *string        `json:"project"`
	Timestamp string         `json:"timestamp"`
	Data      map[string]any `json:"data"`
}

// FireEvent matches event subscribers and submits one delivery per match to
// the bounded worker pool. It does not wait for deliveries to finish, but
// when every worker is busy each submission waits for a free worker before
// FireEvent returns. It never returns an error, matching the write engine's
// best-effort webhook contract.
func (e *Engine) FireEvent(eventType, project string, data map[string]any) {
	if !e.enabled || e.isShutdown() {
		return
	}

	subs, err := e.store.MatchingSubscriptions(eventType, project)
	if err != nil {
		e.log.Error("webhook: match subscriptions failed", "error", err)
		return
	}
	if len(subs) == 0 {
		return
	}

	var projectField *string
	if project != "" {
		projectField = &project
	}
	payload := eventPayload{
		EventID:   uuid.NewString(),
		EventType: eventType,
		Project:   projectField,
		Timestamp: e.now().UTC().Format(time.RFC3339),
		Data:      data,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		e.log.Error("webhook: marshal payload failed", "error", err)
		return
	}

	for _, sub := range subs {
		sub := sub
		e.pool.Go(func() error {
			e.deliver(sub, payload.EventType, payload.EventID, body)
			return nil
		})
	}
}

// deliver performs exactly one signed POST attempt and records the outcome.
func (e *Engine) deliver(sub store.WebhookSubscription, eventType, eventID string, body []byte) {
	signature := sign(sub.Secret, body)

	req, err := http.NewRequest(http.MethodPost, sub.URL, bytes.NewReader(body))
	if err != nil {
		e.logDelivery(sub, eventType, eventID, body, nil, false, err.Error())
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Vibe-Signature", signature)
	req.Header.Set("X-Vibe-Event", eventType)
	req.Header.Set("X-Vibe-Event-ID", eventID)

	resp, err := e.client.Do(req)
	if err != nil {
		e.logDelivery(sub, eventType, eventID, body, nil, false, err.Error())
		return
	}
	defer resp.Body.Close()

	statusCode := resp.StatusCode
	success := statusCode >= 200 && statusCode < 300
	var errMsg string
	if !success {
		sample, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodySampleSize))
		errMsg = string(sample)
	}
	e.logDelivery(sub, eventType, eventID, body, &statusCode, success, errMsg)
}

func (e *Engine) logDelivery(sub store.WebhookSubscription, eventType, eventID string, body []byte, statusCode *int, success bool, errMsg string) {
	entry := store.DeliveryLog{
		SubscriptionID: sub.ID,
		EventType:      eventType,
		EventID:        eventID,
		Payload:        string(body),
		StatusCode:     statusCode,
		Success:        success,
		ErrorMessage:   errMsg,
		Timestamp:      e.now().UTC().Format(time.RFC3339),
	}
	if err := e.store.AppendDeliveryLog(entry); err != nil {
		e.log.Error("webhook: append delivery log failed", "error", err)
	}
}

// sign computes the sha256=<hex> signature header value for payload, the
// outgoing counterpart of the incoming-webhook verifier that compares this
// same sha256=<hex> format against an HMAC-SHA256 digest.
func sign(secret string, payload []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(payload)
	return "sha256=" + hex.EncodeToString(h.Sum(nil))
}
