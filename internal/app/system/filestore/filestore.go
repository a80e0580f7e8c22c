// internal/app/system/filestore/filestore.go
//
// Package filestore keeps uploaded resource files in object storage. The
// resources collection only records the key and public URL that Put returns.
package filestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/dalemusser/educollab/internal/domain/models"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a key does not exist.
var ErrNotFound = errors.New("filestore: object not found")

// Store is an object storage backend.
type Store interface {
	// Put writes r under key. contentType may be empty.
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
	// Delete removes key. Deleting a missing key returns ErrNotFound.
	Delete(ctx context.Context, key string) error
	// URL returns the address clients fetch key from.
	URL(key string) string
}

// Object describes a stored upload.
type Object struct {
	Key         string
	URL         string
	Size        int64
	ContentType string
	MimeClass   string
}

// sniffLen is how much of an upload is read to detect its type.
const sniffLen = 3072

// ErrNoOwner is returned by Upload when no owner is given.
var ErrNoOwner = errors.New("filestore: upload owner is required")

// Upload stores r under a fresh key in owner's namespace, detecting the
// content type from the first bytes. The returned Object carries the size
// actually written.
func Upload(ctx context.Context, s Store, owner models.PrincipalID, fileName string, r io.Reader) (Object, error) {
	if owner.IsZero() {
		return Object{}, ErrNoOwner
	}
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Object{}, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	mt := mimetype.Detect(head)

	cr := &countingReader{r: io.MultiReader(bytes.NewReader(head), r)}
	key := NewKey(owner, fileName, time.Now())
	if err := s.Put(ctx, key, cr, mt.String()); err != nil {
		return Object{}, fmt.Errorf("store upload: %w", err)
	}
	return Object{
		Key:         key,
		URL:         s.URL(key),
		Size:        cr.n,
		ContentType: mt.String(),
		MimeClass:   MimeClass(mt, fileName),
	}, nil
}

// NewKey builds a unique key: resources/<owner>/YYYY/MM/<uuid8>-<sanitized name>.
func NewKey(owner models.PrincipalID, fileName string, now time.Time) string {
	now = now.UTC()
	return fmt.Sprintf("%s%04d/%02d/%s-%s",
		OwnerPrefix(owner), now.Year(), now.Month(), uuid.New().String()[:8], SanitizeFilename(fileName))
}

// OwnerPrefix is the key prefix every upload by owner is stored under.
// The owner segment keeps [A-Za-z0-9-] and writes every other byte as _xx
// (hex), so distinct principals never share a prefix and the segment is
// safe both in URLs and on disk.
func OwnerPrefix(owner models.PrincipalID) string {
	id := string(owner)
	var b strings.Builder
	b.Grow(len(id) + 16)
	b.WriteString("resources/")
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "_%02x", c)
		}
	}
	b.WriteByte('/')
	return b.String()
}

// OwnedBy reports whether key is a plain key inside owner's namespace.
// Keys with empty, "." or ".." segments never match.
func OwnedBy(key string, owner models.PrincipalID) bool {
	if owner.IsZero() {
		return false
	}
	prefix := OwnerPrefix(owner)
	if !strings.HasPrefix(key, prefix) || len(key) == len(prefix) {
		return false
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return false
		}
	}
	return true
}

// SanitizeFilename keeps the base name and replaces anything outside
// [A-Za-z0-9._-] with '_'. Long names are cut to 100 bytes, keeping the
// extension.
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		name = ""
	}
	b := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '.', c == '-', c == '_':
			b = append(b, c)
		default:
			b = append(b, '_')
		}
	}
	if len(b) == 0 {
		return "file"
	}
	if len(b) > 100 {
		ext := path.Ext(string(b))
		if ext != "" && len(ext) < 10 {
			b = append(b[:100-len(ext)], ext...)
		} else {
			b = b[:100]
		}
	}
	return string(b)
}

// MimeClass buckets a detected type into the classes resources record.
// Types the detector cannot tell apart (plain zip containers, generic
// binary) fall back to the file extension.
func MimeClass(mt *mimetype.MIME, fileName string) string {
	for m := mt; m != nil; m = m.Parent() {
		s := m.String()
		switch {
		case m.Is("application/pdf"):
			return models.MimePDF
		case m.Is("application/msword"),
			m.Is("application/vnd.openxmlformats-officedocument.wordprocessingml.document"),
			m.Is("application/vnd.oasis.opendocument.text"),
			m.Is("text/rtf"):
			return models.MimeDoc
		case m.Is("application/vnd.ms-powerpoint"),
			m.Is("application/vnd.openxmlformats-officedocument.presentationml.presentation"),
			m.Is("application/vnd.oasis.opendocument.presentation"):
			return models.MimePPT
		case strings.HasPrefix(s, "image/"):
			return models.MimeImage
		case strings.HasPrefix(s, "video/"):
			return models.MimeVideo
		case strings.HasPrefix(s, "audio/"):
			return models.MimeAudio
		case m.Is("text/plain"):
			if c := models.MimeClassFor(fileName); c != models.MimeOther {
				return c
			}
			return models.MimeTxt
		}
	}
	return models.MimeClassFor(fileName)
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
