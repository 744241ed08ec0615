package realtime

import "time"

const (
	baseReconnectDelay = time.Second
	maxReconnectDelay  = 30 * time.Second
)

// ReconnectDelay returns the wait before reconnect attempt number retry
// (zero-based): 1s, 2s, 4s, 8s, 16s, then capped at 30s forever. Attempts
// are unbounded; only the delay saturates.
func ReconnectDelay(retry int) time.Duration {
	if retry < 0 {
		retry = 0
	}
	if retry > 5 {
		retry = 5
	}
	delay := baseReconnectDelay << retry
	if delay > maxReconnectDelay {
		delay = maxReconnectDelay
	}
	return delay
}
