package media

import (
	"context"
	"time"

	"media-studio/internal/utils/platformerrors"
)

// ReclaimExpiredTemporary deletes Temporary records older than the retention
// window. Each asset is removed remotely (already absent counts as done) and
// the row is then marked Deleted whatever the remote outcome. It returns the
// number of rows this run transitioned. Concurrent or repeated runs converge:
// rows already Deleted no longer match the selection.
func (s *Service) ReclaimExpiredTemporary(ctx context.Context, now time.Time) (processed int, err error) {
	defer func() { s.observer.Reclaimed(ctx, processed, err) }()

	cutoff := now.Add(-s.cfg.TemporaryRetention)
	batch := s.cfg.ReclaimBatchSize
	if batch <= 0 {
		batch = 100
	}

	for {
		rows, err := s.repo.ListExpiredTemporary(ctx, cutoff, batch)
		if err != nil {
			return processed, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list expired temporary media")
		}

		progressed := false
		for _, row := range rows {
			if err := ctx.Err(); err != nil {
				return processed, err
			}

			s.deleteRemote(ctx, OpReclaim, row.ID)

			changed, err := s.repo.MarkDeleted(ctx, row.ID, row.OwnerID, StatusTemporary)
			if err != nil {
				s.observer.Operation(ctx, OpReclaim, err)
				continue
			}
			progressed = true
			if changed {
				processed++
			}
		}

		if len(rows) < batch || !progressed {
			return processed, nil
		}
	}
}

// Reclaim is the scheduler entry point.
func (s *Service) Reclaim(ctx context.Context) ReclaimResult {
	processed, err := s.ReclaimExpiredTemporary(ctx, s.now())
	if err != nil {
		return ReclaimResult{Success: false, ProcessedCount: processed, Error: "Failed to clean up temporary files"}
	}
	return ReclaimResult{Success: true, ProcessedCount: processed}
}
