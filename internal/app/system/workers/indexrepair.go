// internal/app/system/workers/indexrepair.go
package workers

import (
	"context"
	"sync"
	"time"

	groupstore "github.com/dalemusser/grouphub/internal/app/store/groups"
	usergroupstore "github.com/dalemusser/grouphub/internal/app/store/usergroups"
	"github.com/dalemusser/grouphub/internal/domain/models"
	"go.uber.org/zap"
)

// IndexRepair is a background worker that reconciles the user_groups reverse
// index against the authoritative members maps. The index is written
// best-effort after each membership commit; if that write is lost (crash,
// Mongo hiccup) this worker converges it, so the "my groups" view is
// eventually exact without ever blocking a membership operation.
type IndexRepair struct {
	groups     *groupstore.Store
	userGroups *usergroupstore.Store
	log        *zap.Logger
	interval   time.Duration
	stopCh     chan struct{}
	wg         sync.WaitGroup
}

// NewIndexRepair creates the worker. interval is how often a full sweep
// runs (e.g. 15 minutes).
func NewIndexRepair(groups *groupstore.Store, userGroups *usergroupstore.Store, logger *zap.Logger, interval time.Duration) *IndexRepair {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &IndexRepair{
		groups:     groups,
		userGroups: userGroups,
		log:        logger,
		interval:   interval,
		stopCh:     make(chan struct{}),
	}
}

// Start begins the background reconcile loop.
func (w *IndexRepair) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("index repair worker started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *IndexRepair) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("index repair worker stopped")
}

func (w *IndexRepair) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

// sweep diffs each group's members map against the index and asserts the
// correct state for every mismatch. Set is idempotent, so repairing a
// mismatch that a concurrent operation just fixed is harmless.
func (w *IndexRepair) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var added, removed int64
	err := w.groups.ForEach(ctx, func(g models.Group) error {
		indexed, err := w.userGroups.MembersByGroup(ctx, g.ID)
		if err != nil {
			return err
		}
		for userID := range g.Members {
			if !indexed[userID] {
				if err := w.userGroups.Set(ctx, userID, g.ID, true); err != nil {
					return err
				}
				added++
			}
		}
		for userID := range indexed {
			if !g.IsMember(userID) {
				if err := w.userGroups.Set(ctx, userID, g.ID, false); err != nil {
					return err
				}
				removed++
			}
		}
		return nil
	})
	if err != nil {
		w.log.Error("index repair sweep failed", zap.Error(err))
		return
	}

	if added > 0 || removed > 0 {
		w.log.Info("index repair converged entries",
			zap.Int64("added", added),
			zap.Int64("removed", removed))
	}
}
