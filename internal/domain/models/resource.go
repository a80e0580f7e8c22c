package models

import (
	"path"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Resource is the metadata record for a file held in object storage.
// The bytes themselves never pass through the resources collection.
type Resource struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	FileName      string              `bson:"file_name" json:"fileName"`
	FileURL       string              `bson:"file_url" json:"fileUrl"`
	FilePath      string              `bson:"file_path,omitempty" json:"filePath,omitempty"`
	FileSizeBytes int64               `bson:"file_size" json:"fileSize"`
	MimeClass     string              `bson:"mime_class" json:"mimeClass"` // pdf, doc, ppt, txt, image, ...
	Subject       string              `bson:"subject" json:"subject"`
	SubjectCI     string              `bson:"subject_ci" json:"-"`
	Description   string              `bson:"description,omitempty" json:"description"`
	GroupID       *primitive.ObjectID `bson:"group_id,omitempty" json:"groupId,omitempty"`
	UploaderID    PrincipalID         `bson:"uploader_id" json:"uploaderId"`

	UploadedAt time.Time `bson:"uploaded_at" json:"uploadedAt"`
}

// Mime classes recorded on resources.
const (
	MimePDF   = "pdf"
	MimeDoc   = "doc"
	MimePPT   = "ppt"
	MimeTxt   = "txt"
	MimeImage = "image"
	MimeVideo = "video"
	MimeAudio = "audio"
	MimeOther = "other"
)

// MimeClassFor guesses a mime class from a file name's extension. Uploads
// sniff the content instead; this is the fallback for records created from
// an existing URL.
func MimeClassFor(fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	switch ext {
	case ".pdf":
		return MimePDF
	case ".doc", ".docx", ".odt", ".rtf":
		return MimeDoc
	case ".ppt", ".pptx", ".odp", ".key":
		return MimePPT
	case ".txt", ".md", ".csv":
		return MimeTxt
	case ".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg":
		return MimeImage
	case ".mp4", ".mov", ".webm", ".mkv":
		return MimeVideo
	case ".mp3", ".wav", ".ogg", ".m4a":
		return MimeAudio
	}
	return MimeOther
}
