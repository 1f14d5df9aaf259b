package model

import (
	"time"

	"github.com/google/uuid"
)

// MediaKind enumerates the memory book media types.
type MediaKind string

const (
	MediaPhoto MediaKind = "Photo"
	MediaVideo MediaKind = "Video"
	MediaAudio MediaKind = "Audio"
)

func ValidMediaKind(k string) bool {
	switch MediaKind(k) {
	case MediaPhoto, MediaVideo, MediaAudio:
		return true
	}
	return false
}

// MemoryCategories is the closed category set for the memory book.
var MemoryCategories = []string{"Family", "Friends", "Events", "Music", "Other"}

func ValidMemoryCategory(c string) bool {
	for _, cat := range MemoryCategories {
		if cat == c {
			return true
		}
	}
	return false
}

// MemoryItem is a family-shared media entry for one patient. Unlike
// medications, memory items are hard-deleted; media is disposable,
// medical history is not.
type MemoryItem struct {
	ID           uuid.UUID `db:"id" json:"id"`
	PatientID    uuid.UUID `db:"patient_id" json:"patient_id"`
	Title        string    `db:"title" json:"title"`
	MediaKind    MediaKind `db:"media_kind" json:"media_kind"`
	Category     string    `db:"category" json:"category"`
	Description  string    `db:"description" json:"description"`
	PeopleTagged string    `db:"people_tagged" json:"people_tagged"`
	FileName     string    `db:"file_name" json:"file_name"`
	FileType     string    `db:"file_type" json:"file_type"`
	FileData     []byte    `db:"file_data" json:"-"`
	UploadedBy   string    `db:"uploaded_by" json:"uploaded_by"`
	UploadedAt   time.Time `db:"uploaded_at" json:"uploaded_at"`
}
