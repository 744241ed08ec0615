package uploads

// ItemStatus is the local lifecycle of a queued file. It is independent of
// the server-side interview status, which only exists once the upload
// succeeded.
type ItemStatus string

const (
	ItemIdle      ItemStatus = "idle"
	ItemUploading ItemStatus = "uploading"
	ItemSuccess   ItemStatus = "success"
	ItemError     ItemStatus = "error"
)

// Item is one queued file.
type Item struct {
	ID          string
	Path        string
	Title       string
	Size        int64
	MIME        string
	Status      ItemStatus
	InterviewID string
	Err         string
}

// Finished reports whether the item has been through an upload attempt.
func (i Item) Finished() bool {
	return i.Status == ItemSuccess || i.Status == ItemError
}
