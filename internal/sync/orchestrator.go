// Package sync owns the decision of when the node reads from and writes to
// the sync backend: local persistence on every mutation, a single debounced
// remote upsert per quiet window, forced sync on demand, and shallow-overlay
// merges at startup and sign-in.
package sync

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/candleworks/waxpro/internal/cloud"
	"github.com/candleworks/waxpro/internal/config"
	"github.com/candleworks/waxpro/internal/models"
)

// StateSource hands the orchestrator the freshest snapshot at fire time and
// accepts merged/annotated snapshots back. The debounced timer callback must
// read through this interface rather than capture a snapshot at schedule
// time, otherwise a stale state could be shipped.
type StateSource interface {
	Snapshot() models.InventoryState
	Replace(state models.InventoryState)
	SetLastSynced(ts int64)
}

// Saver is the local persistent store side the orchestrator writes through
type Saver interface {
	Save(state models.InventoryState) bool
}

// Remote is the sync backend surface the orchestrator consumes
type Remote interface {
	Session() *cloud.Session
	Upsert(ctx context.Context, userID string, state models.InventoryState) error
	Fetch(ctx context.Context, userID string) (*models.InventoryState, error)
}

// Notifier surfaces transient user notifications
type Notifier interface {
	Info(message string)
	Warn(message string)
	Success(message string)
}

// Orchestrator coordinates local and remote persistence
type Orchestrator struct {
	store    Saver
	remote   Remote
	source   StateSource
	notifier Notifier
	debounce time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	syncing bool
	stopped bool
}

// New creates a sync orchestrator
func New(store Saver, remote Remote, source StateSource, notifier Notifier, cfg config.SyncConfig) *Orchestrator {
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = 4 * time.Second
	}
	return &Orchestrator{
		store:    store,
		remote:   remote,
		source:   source,
		notifier: notifier,
		debounce: debounce,
	}
}

// Persist writes the current state locally, then propagates it to the sync
// backend: immediately when forceCloud is set, debounced otherwise. Returns
// the result of the local write; remote failures are reported through the
// notifier, never returned.
func (o *Orchestrator) Persist(ctx context.Context, forceCloud bool) bool {
	state := o.source.Snapshot()
	saved := o.store.Save(state)

	session := o.remote.Session()
	if session == nil {
		// Local-only persistence
		return saved
	}

	if forceCloud {
		o.upload(ctx, session.User.ID, true)
		return saved
	}

	o.scheduleUpload()
	return saved
}

// SyncNow forces an immediate full sync; used by the manual "sync now" action
func (o *Orchestrator) SyncNow(ctx context.Context) bool {
	session := o.remote.Session()
	if session == nil {
		o.notifier.Warn("Not signed in")
		return false
	}

	state := o.source.Snapshot()
	o.store.Save(state)
	return o.upload(ctx, session.User.ID, true)
}

// scheduleUpload cancels any pending debounce timer and arms a new one.
// Mutations inside one window collapse into a single upsert carrying the
// state as of fire time.
func (o *Orchestrator) scheduleUpload() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.stopped {
		return
	}
	if o.timer != nil {
		o.timer.Stop()
	}
	o.timer = time.AfterFunc(o.debounce, func() {
		o.mu.Lock()
		o.timer = nil
		stopped := o.stopped
		o.mu.Unlock()
		if stopped {
			return
		}

		session := o.remote.Session()
		if session == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		o.upload(ctx, session.User.ID, false)
	})
}

// upload pushes the freshest snapshot to the backend. On success lastSynced
// is updated; on failure the local copy stays authoritative and a transient
// warning is raised. Never retried automatically.
func (o *Orchestrator) upload(ctx context.Context, userID string, forced bool) bool {
	o.mu.Lock()
	o.syncing = true
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		o.syncing = false
		o.mu.Unlock()
	}()

	state := o.source.Snapshot()
	if err := o.remote.Upsert(ctx, userID, state); err != nil {
		log.Printf("⚠️  Sync: remote write failed: %v", err)
		o.notifier.Warn("Cloud sync failed")
		return false
	}

	o.source.SetLastSynced(models.NowMillis())
	if forced {
		o.notifier.Success("Synced to cloud")
	}
	return true
}

// MergeFromRemote fetches the remote snapshot and shallow-overlays it onto the
// current state. Used at startup when a session is present and again on every
// SIGNED_IN notification. A fetch failure is treated as "no remote data".
func (o *Orchestrator) MergeFromRemote(ctx context.Context) {
	session := o.remote.Session()
	if session == nil {
		return
	}

	remote, err := o.remote.Fetch(ctx, session.User.ID)
	if err != nil {
		log.Printf("⚠️  Sync: remote read failed, keeping local state: %v", err)
		return
	}
	if remote == nil {
		return
	}

	local := o.source.Snapshot()
	merged := ShallowOverlay(local, *remote)
	o.source.Replace(merged)
	o.store.Save(merged)
	log.Println("✅ Sync: remote snapshot merged over local state")
}

// HandleAuthEvent reacts to auth-state changes from the backend client.
// Sign-out detaches the cloud identity only; local data is kept.
func (o *Orchestrator) HandleAuthEvent(event cloud.AuthEvent, _ *cloud.Session) {
	switch event {
	case cloud.EventSignedIn:
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		o.MergeFromRemote(ctx)
	case cloud.EventSignedOut:
		o.cancelPending()
	}
}

// cancelPending drops any armed debounce timer
func (o *Orchestrator) cancelPending() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
}

// Stop cancels pending work on teardown. In-flight uploads are not cancelled;
// a stale in-flight upsert overwriting a newer remote snapshot is an accepted
// race of the single-document model.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stopped = true
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
}

// Status returns the current sync status for the API
func (o *Orchestrator) Status() map[string]interface{} {
	o.mu.Lock()
	syncing := o.syncing
	pending := o.timer != nil
	o.mu.Unlock()

	state := o.source.Snapshot()
	session := o.remote.Session()

	status := map[string]interface{}{
		"syncing":  syncing,
		"pending":  pending,
		"signedIn": session != nil,
	}
	if state.LastSynced != nil {
		status["lastSynced"] = *state.LastSynced
	}
	if session != nil {
		status["user"] = session.User
	}
	return status
}
