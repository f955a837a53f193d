// Package models holds the domain entities shared between the
// repository and service layers.
package models

import "time"

// Share is a password-protected drop box that files are uploaded into.
// PasswordHash gates uploads, DownloadPasswordHash gates downloads.
type Share struct {
	ID                   string
	Name                 string
	PasswordHash         string
	DownloadPasswordHash string
	CreatedAt            time.Time
}
