// Package analytics defines the engagement analytics domain model.
package analytics

import (
	"errors"
	"time"
)

// Entity types that can be tracked.
const (
	EntityRestaurant = "RESTAURANT"
	EntityDish       = "DISH"
	EntityUser       = "USER"
	EntityReview     = "REVIEW"
	EntityRanking    = "RANKING"
	EntityPost       = "POST"
)

// Engagement verbs. Views are recorded as VIEW events so a single
// event stream and bin structure serves both kinds.
const (
	EngagementView    = "VIEW"
	EngagementLike    = "LIKE"
	EngagementShare   = "SHARE"
	EngagementComment = "COMMENT"
	EngagementRanking = "RANKING"
	EngagementSave    = "SAVE"
)

// Device classifications derived from the user agent.
const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
	DeviceUnknown = "unknown"
)

var (
	ErrMissingEntityType     = errors.New("entityType is required")
	ErrMissingEntityID       = errors.New("entityId is required")
	ErrMissingEngagementType = errors.New("engagementType is required")
)

// EngagementEvent is a single recorded user interaction tied to an entity.
// Events are immutable once created; the backend never mutates them.
type EngagementEvent struct {
	ID             string         `json:"id"`
	EntityType     string         `json:"entityType"`
	EntityID       string         `json:"entityId"`
	EngagementType string         `json:"engagementType"`
	UserID         string         `json:"userId,omitempty"`
	SessionID      string         `json:"sessionId"`
	DeviceType     string         `json:"deviceType"`
	PagePath       string         `json:"pagePath"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      time.Time      `json:"timestamp"`
}

// Validate enforces the one relational invariant the event stream has:
// every event names a non-empty entity, and every engagement names a verb.
func (e *EngagementEvent) Validate() error {
	if e.EntityType == "" {
		return ErrMissingEntityType
	}
	if e.EntityID == "" {
		return ErrMissingEntityID
	}
	if e.EngagementType == "" {
		return ErrMissingEngagementType
	}
	return nil
}

// IsView reports whether the event is a page/entity impression.
func (e *EngagementEvent) IsView() bool {
	return e.EngagementType == EngagementView
}

// NormalizeDeviceType maps arbitrary client input onto a known class.
func NormalizeDeviceType(deviceType string) string {
	switch deviceType {
	case DeviceMobile, DeviceTablet, DeviceDesktop:
		return deviceType
	default:
		return DeviceUnknown
	}
}
