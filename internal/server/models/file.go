package models

import "time"

// File is a single object inside a share. UploadID is set while a
// multipart upload is in flight and cleared once the file is completed.
type File struct {
	ID           string
	ShareID      string
	Key          string
	OriginalName string
	ContentType  string
	Size         int64
	UploadID     string
	Completed    bool
	CreatedAt    time.Time
}
