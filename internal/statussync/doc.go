// Package statussync keeps a local view of interview processing state in
// step with the backend. Updates arrive on two paths that race freely:
// periodic polling of the status endpoint and push events from the realtime
// feed. Both paths funnel through the same conflict rule, so the held state
// only ever moves forward and converges to the same result regardless of
// arrival order. Polling for an interview stops as soon as either path
// reports a terminal status.
package statussync
