// Package analytics records business-level events about pipeline runs,
// separate from the operational event stream published over pkg/pubsub.
//
// Where pkg/pubsub carries fine-grained, per-operator lifecycle events meant
// for a live observer, analytics carries one summary event per completed
// run, meant for a product-metrics backend (Mixpanel, PostHog, Amplitude,
// or an internal warehouse). Event, dispatch shape intentionally mirrors the
// single-event-per-business-action pattern this module's event-tracking
// design is grounded on.
package analytics

import "context"

// Event is a single business-metrics record.
type Event struct {
	Name       string                 `json:"event_name"`
	DistinctID string                 `json:"distinct_id"`
	Properties map[string]interface{} `json:"properties,omitempty"`
	Groups     map[string]string      `json:"groups,omitempty"`
}

// Sink accepts business events. Implementations must not let a slow or
// failing backend affect pipeline execution; Track should be best-effort.
type Sink interface {
	Track(ctx context.Context, event Event) error
}

// DistinctID derives the actor identity used to attribute an event: the
// authenticated user if present, otherwise a synthetic API-key identity
// scoped to the organization.
func DistinctID(userID, organizationID string) string {
	if userID != "" {
		return userID
	}
	return "api_key_" + organizationID
}
