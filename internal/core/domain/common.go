package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // ProfileID reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // ProfileID reference
}

// NewAuditFields builds audit fields for a freshly created entity.
func NewAuditFields(actorID string, now time.Time) AuditFields {
	return AuditFields{
		CreatedAt:     now,
		CreatedBy:     actorID,
		LastUpdatedAt: now,
		LastUpdatedBy: actorID,
	}
}

// Touch updates the last-updated audit pair.
func (a *AuditFields) Touch(actorID string, now time.Time) {
	a.LastUpdatedAt = now
	a.LastUpdatedBy = actorID
}
