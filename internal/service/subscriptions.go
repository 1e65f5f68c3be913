package service

import (
	"context"
	"encoding/json"

	"github.com/MikeSquared-Agency/Workup/internal/hermes"
)

// SetupSubscriptions registers the NATS intake for evidence packs. Packs
// arriving this way are evaluated exactly like POST /workups.
func (s *Service) SetupSubscriptions() error {
	if s.hermes == nil {
		return nil
	}

	return s.hermes.Subscribe(hermes.SubjectEvidenceSubmitted, func(subject string, data []byte) {
		s.handleEvidenceSubmitted(context.Background(), subject, data)
	})
}

func (s *Service) handleEvidenceSubmitted(ctx context.Context, subject string, data []byte) {
	var evt hermes.EvidenceSubmittedEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		s.logger.Warn("invalid evidence submitted event", "subject", subject, "error", err)
		return
	}
	submittedBy := evt.SubmittedBy
	if submittedBy == "" {
		submittedBy = "nats"
	}
	if _, err := s.EvaluateWorkup(ctx, evt.Pack, submittedBy); err != nil {
		s.logger.Error("failed to evaluate submitted evidence",
			"subject", subject,
			"assessment_id", evt.Pack.AssessmentID,
			"error", err,
		)
	}
}
