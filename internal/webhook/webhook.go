package webhook

import (
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	apperr "github.com/macward/vibemcp/internal/errors"
	"github.com/macward/vibemcp/internal/store"
)

const (
	minSecretLen        = 32
	maxProjectSubs      = 50
	maxGlobalSubs       = 200
	defaultWorkerCount  = 10
	deliveryTimeout     = 10 * time.Second
	errorBodySampleSize = 200
)

var validEventTypes = map[string]bool{
	"task.created":        true,
	"task.updated":        true,
	"doc.created":         true,
	"doc.updated":         true,
	"session.logged":      true,
	"plan.created":        true,
	"plan.updated":        true,
	"project.initialized": true,
	"index.reindexed":     true,
	"*":                   true,
}

// Store is the subset of *store.Store the webhook engine depends on.
type Store interface {
	CountSubscriptions(project string) (int, error)
	CreateSubscription(sub store.WebhookSubscription) (int64, error)
	DeleteSubscription(id int64) error
	ListSubscriptions(project string) ([]store.WebhookSubscription, error)
	MatchingSubscriptions(eventType, project string) ([]store.WebhookSubscription, error)
	AppendDeliveryLog(entry store.DeliveryLog) error
}

// nowFunc is overridable in tests for deterministic timestamps.
type nowFunc func() time.Time

// Engine manages webhook subscriptions and fans out signed deliveries on a
// bounded worker pool, grounded on the teacher repo's errgroup.WithContext
// pattern (internal/search/engine.go) but run as a long-lived pool rather
// than a single batch's wait group: each delivery is submitted with Go and
// never waited on individually, so a saturated pool only backpressures the
// next submission, never the caller that already returned.
type Engine struct {
	store   Store
	client  *http.Client
	log     *slog.Logger
	enabled bool
	now     nowFunc

	pool     *errgroup.Group
	shutdown chan struct{}
}

// New builds a webhook Engine. workers bounds concurrent in-flight
// deliveries; if zero, defaultWorkerCount (10) is used.
func New(st Store, enabled bool, workers int, log *slog.Logger) *Engine {
	if workers <= 0 {
		workers = defaultWorkerCount
	}
	if log == nil {
		log = slog.Default()
	}
	pool := &errgroup.Group{}
	pool.SetLimit(workers)
	return &Engine{
		store:   st,
		client:  &http.Client{Timeout: deliveryTimeout},
		log:     log,
		enabled: enabled,
		now:     time.Now,
		pool:    pool,
	}
}

// RegisterWebhookResult is register_webhook's success record.
type RegisterWebhookResult struct {
	ID         int64
	URL        string
	EventTypes []string
	Project    string
}

// RegisterWebhook validates and persists a new subscription.
func (e *Engine) RegisterWebhook(rawURL, secret string, eventTypes []string, project, description string) (RegisterWebhookResult, error) {
	if err := validateURL(rawURL); err != nil {
		return RegisterWebhookResult{}, err
	}
	if len(secret) < minSecretLen {
		return RegisterWebhookResult{}, apperr.Invalid("webhook secret must be at least %d characters", minSecretLen)
	}
	if len(eventTypes) == 0 {
		return RegisterWebhookResult{}, apperr.Invalid("at least one event type is required")
	}
	for _, et := range eventTypes {
		if !validEventTypes[et] {
			return RegisterWebhookResult{}, apperr.Invalid("unknown event type %q", et)
		}
	}

	if project != "" {
		n, err := e.store.CountSubscriptions(project)
		if err != nil {
			return RegisterWebhookResult{}, err
		}
		if n >= maxProjectSubs {
			return RegisterWebhookResult{}, apperr.Invalid("Maximum subscriptions (%d) reached for project %q", maxProjectSubs, project)
		}
	} else {
		n, err := e.store.CountSubscriptions("")
		if err != nil {
			return RegisterWebhookResult{}, err
		}
		if n >= maxGlobalSubs {
			return RegisterWebhookResult{}, apperr.Invalid("Maximum subscriptions (%d) reached", maxGlobalSubs)
		}
	}

	sub := store.WebhookSubscription{
		URL:         rawURL,
		Secret:      secret,
		EventTypes:  eventTypes,
		Project:     project,
		Description: description,
		Active:      true,
		CreatedAt:   e.now().UTC().Format(time.RFC3339),
	}
	id, err := e.store.CreateSubscription(sub)
	if err != nil {
		return RegisterWebhookResult{}, err
	}

	return RegisterWebhookResult{ID: id, URL: rawURL, EventTypes: eventTypes, Project: project}, nil
}

// UnregisterWebhook deletes a subscription by id.
func (e *Engine) UnregisterWebhook(id int64) error {
	return e.store.DeleteSubscription(id)
}

// WebhookListing is one row of list_webhooks output; Secret is deliberately
// omitted so it never crosses the operation boundary.
type WebhookListing struct {
	ID          int64
	URL         string
	EventTypes  []string
	Project     string
	Description string
	Active      bool
	CreatedAt   string
}

// ListWebhooks returns subscriptions visible to project without secrets.
func (e *Engine) ListWebhooks(project string) ([]WebhookListing, error) {
	subs, err := e.store.ListSubscriptions(project)
	if err != nil {
		return nil, err
	}
	out := make([]WebhookListing, 0, len(subs))
	for _, s := range subs {
		out = append(out, WebhookListing{
			ID: s.ID, URL: s.URL, EventTypes: s.EventTypes, Project: s.Project,
			Description: s.Description, Active: s.Active, CreatedAt: s.CreatedAt,
		})
	}
	return out, nil
}

// Shutdown stops accepting new deliveries and blocks until in-flight
// deliveries finish or timeout passes, whichever comes first.
func (e *Engine) Shutdown(timeout time.Duration) {
	if e.shutdown != nil {
		return
	}
	e.shutdown = make(chan struct{})
	close(e.shutdown)

	done := make(chan struct{})
	go func() {
		_ = e.pool.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
	}
}

func (e *Engine) isShutdown() bool {
	if e.shutdown == nil {
		return false
	}
	select {
	case <-e.shutdown:
		return true
	default:
		return false
	}
}
