// Package realtime maintains the push connection to the backend's
// websocket feed. Each Channel owns one logical connection per
// Start/Stop lifetime: transient drops reconnect with bounded exponential
// backoff, while Stop tears the connection down for good. Event delivery
// goes to a single handler that can be swapped without reconnecting.
package realtime
