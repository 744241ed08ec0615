// Package uploads manages the client-side queue of media files waiting to
// enter the processing pipeline. Files are validated on enqueue, uploaded
// strictly one at a time, and each success immediately requests
// transcription so the backend starts working while later uploads are still
// in flight. One failed item never blocks the rest of the queue.
package uploads
