package catalog

import "context"

// DeletionListener is notified after an entity of the subscribed kind has
// been confirmed removed from the store. Listeners run synchronously, in
// registration order.
type DeletionListener func(ctx context.Context, deletedID string) error

// notifier carries a registry's ordered deletion listeners. Registration is
// additive with no removal mechanism; wiring happens once at process start.
type notifier struct {
	listeners []DeletionListener
}

// OnDelete registers a listener for every deletion of this registry's kind.
func (n *notifier) OnDelete(l DeletionListener) {
	n.listeners = append(n.listeners, l)
}

// dispatchDelete invokes every registered listener with the deleted id.
func (n *notifier) dispatchDelete(ctx context.Context, id string) error {
	for _, l := range n.listeners {
		if err := l(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Redispatch re-runs the deletion listeners for an entity whose store row is
// already gone. Used by stream replay to converge after a crash between the
// row removal and the cascade fan-out. Listeners are idempotent against
// already-clean state, so replaying a completed deletion is harmless.
func (n *notifier) Redispatch(ctx context.Context, deletedID string) error {
	return n.dispatchDelete(ctx, deletedID)
}
