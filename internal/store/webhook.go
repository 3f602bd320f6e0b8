package store

import (
	"database/sql"
	"strings"

	apperr "github.com/macward/vibemcp/internal/errors"
)

// CountSubscriptions returns the subscription count, active or not, for a
// project filter ("" means the global/project-null count), used to enforce the
// per-project and global registration ceilings.
func (s *Store) CountSubscriptions(project string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM webhook_subscriptions WHERE project = ?`, project).Scan(&n)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindIOTransient, "count subscriptions", err)
	}
	return n, nil
}

// CreateSubscription inserts a new active subscription and returns its id.
func (s *Store) CreateSubscription(sub WebhookSubscription) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		INSERT INTO webhook_subscriptions (url, secret, event_types, project, description, active, created_at)
		VALUES (?, ?, ?, ?, ?, 1, ?)
	`, sub.URL, sub.Secret, strings.Join(sub.EventTypes, ","), sub.Project, sub.Description, sub.CreatedAt)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindIOTransient, "create subscription", err)
	}
	return res.LastInsertId()
}

// DeleteSubscription removes a subscription by id, cascading its delivery log.
func (s *Store) DeleteSubscription(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM webhook_subscriptions WHERE id = ?`, id)
	if err != nil {
		return apperr.Wrap(apperr.KindIOTransient, "delete subscription", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperr.NotFound("webhook subscription %d not found", id)
	}
	return nil
}

func scanSubscription(row interface{ Scan(...any) error }) (WebhookSubscription, error) {
	var sub WebhookSubscription
	var eventTypes string
	var active int
	if err := row.Scan(&sub.ID, &sub.URL, &sub.Secret, &eventTypes, &sub.Project, &sub.Description, &active, &sub.CreatedAt); err != nil {
		return WebhookSubscription{}, err
	}
	if eventTypes != "" {
		sub.EventTypes = strings.Split(eventTypes, ",")
	}
	sub.Active = active != 0
	return sub, nil
}

// ListSubscriptions returns subscriptions visible to project: a null filter
// ("") returns all; a concrete project returns both global and
// project-scoped subscriptions.
func (s *Store) ListSubscriptions(project string) ([]WebhookSubscription, error) {
	q := `SELECT id, url, secret, event_types, project, description, active, created_at FROM webhook_subscriptions`
	var args []any
	if project != "" {
		q += ` WHERE project = '' OR project = ?`
		args = append(args, project)
	}
	q += ` ORDER BY id`

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindIOTransient, "list subscriptions", err)
	}
	defer rows.Close()

	var out []WebhookSubscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindIOTransient, "scan subscription", err)
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

// MatchingSubscriptions returns active subscriptions whose event-type list
// contains eventType or "*", and whose project filter is null or equals
// project, for the webhook engine's fire_event fan-out.
func (s *Store) MatchingSubscriptions(eventType, project string) ([]WebhookSubscription, error) {
	rows, err := s.db.Query(`
		SELECT id, url, secret, event_types, project, description, active, created_at
		FROM webhook_subscriptions
		WHERE active = 1
		AND (project = '' OR project = ?)
		AND (',' || event_types || ',' LIKE '%,' || ? || ',%' OR ',' || event_types || ',' LIKE '%,*,%')
		ORDER BY id
	`, project, eventType)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindIOTransient, "match subscriptions", err)
	}
	defer rows.Close()

	var out []WebhookSubscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindIOTransient, "scan subscription", err)
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

// AppendDeliveryLog records the outcome of one delivery attempt.
func (s *Store) AppendDeliveryLog(entry DeliveryLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	success := 0
	if entry.Success {
		success = 1
	}
	_, err := s.db.Exec(`
		INSERT INTO delivery_logs (subscription_id, event_type, event_id, payload, status_code, success, error_message, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.SubscriptionID, entry.EventType, entry.EventID, entry.Payload, entry.StatusCode, success, entry.ErrorMessage, entry.Timestamp)
	if err != nil {
		return apperr.Wrap(apperr.KindIOTransient, "append delivery log", err)
	}
	return nil
}

// ListDeliveryLogs returns delivery log rows, optionally filtered to one
// subscription, newest first.
func (s *Store) ListDeliveryLogs(subscriptionID *int64) ([]DeliveryLog, error) {
	q := `SELECT id, subscription_id, event_type, event_id, payload, status_code, success, error_message, timestamp FROM delivery_logs`
	var args []any
	if subscriptionID != nil {
		q += ` WHERE subscription_id = ?`
		args = append(args, *subscriptionID)
	}
	q += ` ORDER BY id DESC`

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindIOTransient, "list delivery logs", err)
	}
	defer rows.Close()

	var out []DeliveryLog
	for rows.Next() {
		var e DeliveryLog
		var statusCode sql.NullInt64
		var success int
		if err := rows.Scan(&e.ID, &e.SubscriptionID, &e.EventType, &e.EventID, &e.Payload, &statusCode, &success, &e.ErrorMessage, &e.Timestamp); err != nil {
			return nil, apperr.Wrap(apperr.KindIOTransient, "scan delivery log", err)
		}
		if statusCode.Valid {
			v := int(statusCode.Int64)
			e.StatusCode = &v
		}
		e.Success = success != 0
		out = append(out, e)
	}
	return out, rows.Err()
}
