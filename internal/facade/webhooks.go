package facade

// RegisterWebhookResult is register_webhook's output record.
type RegisterWebhookResult struct {
	Status         string   `json:"status"`
	SubscriptionID int64    `json:"subscription_id"`
	URL            string   `json:"url"`
	EventTypes     []string `json:"event_types"`
	Project        string   `json:"project,omitempty"`
}

// RegisterWebhook validates and persists a new webhook subscription.
func (f *Facade) RegisterWebhook(url, secret string, eventTypes []string, project, description string) (RegisterWebhookResult, *OperationError) {
	r, err := f.webhook.RegisterWebhook(url, secret, eventTypes, project, description)
	if err != nil {
		return RegisterWebhookResult{}, toOperationError(err)
	}
	return RegisterWebhookResult{
		Status: "registered", SubscriptionID: r.ID, URL: r.URL,
		EventTypes: r.EventTypes, Project: r.Project,
	}, nil
}

// UnregisterWebhookResult is unregister_webhook's output record.
type UnregisterWebhookResult struct {
	Status         string `json:"status"`
	SubscriptionID int64  `json:"subscription_id"`
}

// UnregisterWebhook deletes a subscription by id.
func (f *Facade) UnregisterWebhook(id int64) (UnregisterWebhookResult, *OperationError) {
	if err := f.webhook.UnregisterWebhook(id); err != nil {
		return UnregisterWebhookResult{}, toOperationError(err)
	}
	return UnregisterWebhookResult{Status: "unregistered", SubscriptionID: id}, nil
}

// WebhookRow is one row of list_webhooks' result list. The shared secret is
// deliberately absent from this type.
type WebhookRow struct {
	ID          int64    `json:"id"`
	URL         string   `json:"url"`
	EventTypes  []string `json:"event_types"`
	Project     string   `json:"project,omitempty"`
	Description string   `json:"description,omitempty"`
	Active      bool     `json:"active"`
	CreatedAt   string   `json:"created_at"`
}

// ListWebhooks lists subscriptions visible to project (null project returns all).
func (f *Facade) ListWebhooks(project string) ([]WebhookRow, *OperationError) {
	rows, err := f.webhook.ListWebhooks(project)
	if err != nil {
		return nil, toOperationError(err)
	}
	out := make([]WebhookRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, WebhookRow{
			ID: r.ID, URL: r.URL, EventTypes: r.EventTypes, Project: r.Project,
			Description: r.Description, Active: r.Active, CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}
