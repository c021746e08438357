package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/edulink/school-system/internal/core/ports"
)

const auditCollection = "audit_events"

// MongoAuditRepository persists the append-only security audit trail.
type MongoAuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *MongoAuditRepository {
	return &MongoAuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuditEvent struct {
	Subject    string `bson:"subject"`
	Action     string `bson:"action"`
	Reason     string `bson:"reason,omitempty"`
	SchoolID   string `bson:"school_id,omitempty"`
	OccurredAt int64  `bson:"occurred_at"`
}

func (r *MongoAuditRepository) Append(ctx context.Context, event *ports.AuditEvent) error {
	doc := mongoAuditEvent{
		Subject:    event.Subject,
		Action:     event.Action,
		Reason:     event.Reason,
		SchoolID:   event.SchoolID,
		OccurredAt: event.OccurredAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
