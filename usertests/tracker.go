package usertests

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/AleksandrSamusev/user-api-contract-tests/framework"
)

const cleanupTimeout = 30 * time.Second

// Tracker remembers the users created during one section of the suite so they can be deleted
// when the section is finished.
type Tracker struct {
	client *UserClient
	logger framework.Logger
	ids    []string
	seen   map[string]struct{}
	lock   sync.Mutex
}

func NewTracker(client *UserClient, logger framework.Logger) *Tracker {
	if logger == nil {
		logger = framework.NullLogger()
	}
	return &Tracker{client: client, logger: logger, seen: make(map[string]struct{})}
}

// Register adds an ID to the set. Empty IDs and IDs that are already tracked are ignored.
func (tr *Tracker) Register(id string) {
	if id == "" {
		return
	}
	tr.lock.Lock()
	defer tr.lock.Unlock()
	if _, ok := tr.seen[id]; ok {
		return
	}
	tr.seen[id] = struct{}{}
	tr.ids = append(tr.ids, id)
}

// RegisterCreated registers the ID in a create response, if there is one. This is done whatever
// the status was, since a service that wrongly accepts a payload still stores it.
func (tr *Tracker) RegisterCreated(resp Response) {
	tr.Register(resp.CreatedID())
}

// IDs returns the tracked IDs in the order they were registered.
func (tr *Tracker) IDs() []string {
	tr.lock.Lock()
	defer tr.lock.Unlock()
	return append([]string(nil), tr.ids...)
}

// Drain deletes every tracked user and empties the set. Each deletion is attempted once; its
// outcome is logged and does not stop the others. Drain still runs if ctx has already been
// cancelled, bounded by its own timeout, so an interrupted run does not leave users behind.
func (tr *Tracker) Drain(ctx context.Context) error {
	tr.lock.Lock()
	ids := tr.ids
	tr.ids = nil
	tr.seen = make(map[string]struct{})
	tr.lock.Unlock()

	if len(ids) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	var errs []error
	for _, id := range ids {
		resp, err := tr.client.Delete(ctx, id)
		switch {
		case err != nil:
			errs = append(errs, err)
			tr.logger.Printf("Cleanup of user %s failed: %s", id, err)
		case resp.Status == http.StatusOK || resp.Status == http.StatusNoContent ||
			resp.Status == http.StatusNotFound:
			tr.logger.Printf("Cleaned up user %s (status %d)", id, resp.Status)
		default:
			errs = append(errs, fmt.Errorf("deleting user %s: unexpected status %d", id, resp.Status))
			tr.logger.Printf("Cleanup of user %s returned status %d", id, resp.Status)
		}
	}
	return errors.Join(errs...)
}

// NewTracker creates a Tracker for this test whose Drain runs when the test and all of its
// subtests are finished, whether or not they passed. Cleanup problems are written to the debug
// log; they are not test failures.
func (t *T) NewTracker() *Tracker {
	tr := NewTracker(t.env.client, framework.PrefixedLogger(t.DebugLogger(), "cleanup: "))
	t.Defer(func() {
		if err := tr.Drain(t.Ctx()); err != nil {
			t.Debug("Some users could not be cleaned up: %s", err)
		}
	})
	return tr
}
