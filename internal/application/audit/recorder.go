// Package audit provides the application-side recorder that turns mutations
// into append-only audit entries.
package audit

import (
	"context"
	"encoding/json"

	"github.com/centrex-inc/centrex/internal/domain/audit"
	"github.com/centrex-inc/centrex/internal/shared/logger"
)

// Meta carries the request provenance recorded alongside each entry.
type Meta struct {
	Actor     string
	SourceIP  string
	UserAgent string
}

// Recorder writes audit entries for domain mutations. A failed append is
// logged but never fails the mutation that triggered it.
type Recorder struct {
	repo   audit.Repository
	logger logger.Interface
}

func NewRecorder(repo audit.Repository, logger logger.Interface) *Recorder {
	return &Recorder{repo: repo, logger: logger}
}

// Record appends one entry. before and after are marshaled to JSON; nil
// means no snapshot on that side (creates have no before, deletes no after).
func (r *Recorder) Record(ctx context.Context, meta Meta, action audit.Action, entityType string, entityID uint, before, after any) {
	beforeJSON, err := marshalSnapshot(before)
	if err != nil {
		r.logger.Errorw("failed to marshal audit before snapshot",
			"entity_type", entityType, "entity_id", entityID, "error", err)
		return
	}
	afterJSON, err := marshalSnapshot(after)
	if err != nil {
		r.logger.Errorw("failed to marshal audit after snapshot",
			"entity_type", entityType, "entity_id", entityID, "error", err)
		return
	}

	entry, err := audit.NewEntry(meta.Actor, action, entityType, entityID, beforeJSON, afterJSON)
	if err != nil {
		r.logger.Errorw("failed to build audit entry",
			"entity_type", entityType, "entity_id", entityID, "error", err)
		return
	}
	entry.SetProvenance(meta.SourceIP, meta.UserAgent)

	if err := r.repo.Create(ctx, entry); err != nil {
		r.logger.Errorw("failed to append audit entry",
			"entity_type", entityType, "entity_id", entityID, "error", err)
	}
}

func marshalSnapshot(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
