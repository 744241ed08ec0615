package uploads

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
)

// allowedTypes maps accepted file extensions to the MIME type sent to the
// backend. These mirror the formats the transcription service accepts.
var allowedTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".wav":  "audio/wav",
	".webm": "video/webm",
	".ogg":  "audio/ogg",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
}

// Rejection explains why a file was refused at enqueue time.
type Rejection struct {
	Path   string
	Reason string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", filepath.Base(r.Path), r.Reason)
}

// inspect validates a candidate file and returns its size and MIME type.
func inspect(path string, maxBytes int64) (int64, string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, "", fmt.Errorf("stat upload candidate: %w", err)
	}
	if info.IsDir() {
		return 0, "", &Rejection{Path: path, Reason: "is a directory"}
	}

	ext := strings.ToLower(filepath.Ext(path))
	mimeType, ok := allowedTypes[ext]
	if !ok {
		return 0, "", &Rejection{Path: path, Reason: fmt.Sprintf("unsupported file type %q", ext)}
	}

	if maxBytes > 0 && info.Size() > maxBytes {
		return 0, "", &Rejection{
			Path: path,
			Reason: fmt.Sprintf("file is %s, limit is %s",
				humanize.IBytes(uint64(info.Size())), humanize.IBytes(uint64(maxBytes))),
		}
	}
	return info.Size(), mimeType, nil
}

// titleFromPath derives the default display title: the file name without
// its extension.
func titleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
