package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fitmarket/session-gateway/internal/core/ports"
)

const auditCollection = "audit_events"

// AuditSink persists session lifecycle events for later inspection.
type AuditSink struct {
	coll *mongo.Collection
}

func NewAuditSink(db *mongo.Database) *AuditSink {
	return &AuditSink{coll: db.Collection(auditCollection)}
}

type auditDoc struct {
	Kind       string `bson:"kind"`
	IdentityID string `bson:"identity_id,omitempty"`
	Email      string `bson:"email,omitempty"`
	Path       string `bson:"path,omitempty"`
	At         int64  `bson:"at"`
}

func (s *AuditSink) Record(ctx context.Context, event ports.AuditEvent) error {
	doc := auditDoc{
		Kind:       event.Kind,
		IdentityID: event.IdentityID,
		Email:      event.Email,
		Path:       event.Path,
		At:         time.Now().UTC().Unix(),
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
