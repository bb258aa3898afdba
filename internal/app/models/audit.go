package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScheduleAudit is one record in the schedule change trail, written after
// every successful seed/save.
type ScheduleAudit struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	ResourceType string             `bson:"resourceType"`
	ResourceID   string             `bson:"resourceId"`
	Action       string             `bson:"action"`
	Extension    string             `bson:"extension"`
	RequestID    string             `bson:"requestId,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt"`
}
