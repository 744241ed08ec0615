// Package interview defines the canonical interview record shared by every
// client component: the pipeline status enum, the partial realtime event
// payload, and the merge reducer that resolves conflicting updates arriving
// from polling and the push feed.
package interview
