package filestore_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/educollab/internal/app/system/filestore"
	"github.com/dalemusser/educollab/internal/domain/models"
	"github.com/gabriel-vasile/mimetype"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"notes.pdf", "notes.pdf"},
		{"week 1 notes.pdf", "week_1_notes.pdf"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\me\slides.pptx`, "slides.pptx"},
		{"", "file"},
		{strings.Repeat("a", 120) + ".pdf", strings.Repeat("a", 96) + ".pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := filestore.SanitizeFilename(tt.in); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewKey(t *testing.T) {
	now := time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC)
	key := filestore.NewKey("uid-ana", "graph notes.pdf", now)

	re := regexp.MustCompile(`^resources/uid-ana/2026/02/[0-9a-f]{8}-graph_notes\.pdf$`)
	if !re.MatchString(key) {
		t.Errorf("NewKey: got %q", key)
	}
	if filestore.NewKey("uid-ana", "a.pdf", now) == filestore.NewKey("uid-ana", "a.pdf", now) {
		t.Error("keys for the same name should differ")
	}
}

func TestOwnerPrefix(t *testing.T) {
	tests := []struct {
		owner models.PrincipalID
		want  string
	}{
		{"Xy7kQ2abc", "resources/Xy7kQ2abc/"},
		{"a/b", "resources/a_2fb/"},
		{"..", "resources/_2e_2e/"},
		{"a_b", "resources/a_5fb/"},
	}
	for _, tt := range tests {
		if got := filestore.OwnerPrefix(tt.owner); got != tt.want {
			t.Errorf("OwnerPrefix(%q) = %q, want %q", tt.owner, got, tt.want)
		}
	}
	// "_2f" spelled out must not land in the same namespace as "/".
	if filestore.OwnerPrefix("a_2fb") == filestore.OwnerPrefix("a/b") {
		t.Error("distinct owners share a prefix")
	}
}

func TestOwnedBy(t *testing.T) {
	now := time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC)
	anaKey := filestore.NewKey("uid-ana", "notes.pdf", now)

	tests := []struct {
		name  string
		key   string
		owner models.PrincipalID
		want  bool
	}{
		{"own key", anaKey, "uid-ana", true},
		{"someone else's key", anaKey, "uid-ben", false},
		{"owner is a prefix of another id", "resources/uid-ana2/2026/02/x-notes.pdf", "uid-ana", false},
		{"bare prefix", "resources/uid-ana/", "uid-ana", false},
		{"dot-dot escape", "resources/uid-ana/../uid-ben/2026/02/x-notes.pdf", "uid-ana", false},
		{"empty segment", "resources/uid-ana//x", "uid-ana", false},
		{"legacy unscoped key", "resources/2026/02/abcd1234-notes.pdf", "uid-ana", false},
		{"no owner", anaKey, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := filestore.OwnedBy(tt.key, tt.owner); got != tt.want {
				t.Errorf("OwnedBy(%q, %q) = %v, want %v", tt.key, tt.owner, got, tt.want)
			}
		})
	}
}

func TestMimeClass(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		file    string
		want    string
	}{
		{"pdf", []byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n"), "notes.pdf", models.MimePDF},
		{"png", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), "diagram.png", models.MimeImage},
		{"plain text", []byte("chapter 3 summary\nkey points\n"), "summary.txt", models.MimeTxt},
		{"markdown as text", []byte("# Heading\n"), "readme.md", models.MimeTxt},
		{"unknown binary uses extension", []byte{0x00, 0x01, 0x02, 0x03}, "deck.pptx", models.MimePPT},
		{"unknown binary no ext", []byte{0x00, 0x01, 0x02, 0x03}, "blob", models.MimeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filestore.MimeClass(mimetype.Detect(tt.content), tt.file)
			if got != tt.want {
				t.Errorf("MimeClass: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUpload_Memory(t *testing.T) {
	store := filestore.NewMemory()
	content := "%PDF-1.4\n" + strings.Repeat("x", 5000)

	obj, err := filestore.Upload(context.Background(), store, "uid-ana", "lecture.pdf", strings.NewReader(content))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if obj.Size != int64(len(content)) {
		t.Errorf("Size: got %d, want %d", obj.Size, len(content))
	}
	if obj.MimeClass != models.MimePDF {
		t.Errorf("MimeClass: got %q, want %q", obj.MimeClass, models.MimePDF)
	}
	if !filestore.OwnedBy(obj.Key, "uid-ana") {
		t.Errorf("Key %q is outside the uploader's namespace", obj.Key)
	}
	if obj.URL != "memory://"+obj.Key {
		t.Errorf("URL: got %q", obj.URL)
	}

	data, ct, ok := store.Get(obj.Key)
	if !ok {
		t.Fatal("object not stored")
	}
	if string(data) != content {
		t.Error("stored bytes differ from upload")
	}
	if ct != "application/pdf" {
		t.Errorf("content type: got %q", ct)
	}
}

func TestUpload_SmallFile(t *testing.T) {
	store := filestore.NewMemory()
	obj, err := filestore.Upload(context.Background(), store, "uid-ana", "tiny.txt", strings.NewReader("hi"))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if obj.Size != 2 {
		t.Errorf("Size: got %d, want 2", obj.Size)
	}
}

func TestUpload_RequiresOwner(t *testing.T) {
	store := filestore.NewMemory()
	_, err := filestore.Upload(context.Background(), store, "", "tiny.txt", strings.NewReader("hi"))
	if !errors.Is(err, filestore.ErrNoOwner) {
		t.Fatalf("Upload without owner: got %v, want ErrNoOwner", err)
	}
	if store.Len() != 0 {
		t.Errorf("stored %d objects, want 0", store.Len())
	}
}

func TestLocal_PutDeleteURL(t *testing.T) {
	root := t.TempDir()
	l, err := filestore.NewLocal(root, "/files/")
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	ctx := context.Background()

	key := "resources/2026/02/abcd1234-notes.txt"
	if err := l.Put(ctx, key, strings.NewReader("hello"), "text/plain"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(key)))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("stored content: got %q", data)
	}
	if got := l.URL(key); got != "/files/"+key {
		t.Errorf("URL: got %q", got)
	}

	if err := l.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := l.Delete(ctx, key); !errors.Is(err, filestore.ErrNotFound) {
		t.Errorf("second Delete: got %v, want ErrNotFound", err)
	}
}

func TestLocal_KeyCannotEscapeRoot(t *testing.T) {
	root := t.TempDir()
	l, err := filestore.NewLocal(root, "/files")
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	full, err := l.FullPath("../../outside.txt")
	if err != nil {
		t.Fatalf("FullPath: %v", err)
	}
	if !strings.HasPrefix(full, root) {
		t.Errorf("FullPath escaped root: %q", full)
	}
	if _, err := l.FullPath(""); err == nil {
		t.Error("empty key should be rejected")
	}
}

func TestNew_Factory(t *testing.T) {
	ctx := context.Background()

	s, err := filestore.New(ctx, filestore.Config{Type: filestore.TypeNone})
	if err != nil || s != nil {
		t.Errorf("none: got (%v, %v), want (nil, nil)", s, err)
	}

	s, err = filestore.New(ctx, filestore.Config{Type: filestore.TypeLocal, LocalPath: t.TempDir(), LocalURL: "/files"})
	if err != nil {
		t.Fatalf("local: %v", err)
	}
	if _, ok := s.(*filestore.Local); !ok {
		t.Errorf("local: got %T", s)
	}

	if _, err := filestore.New(ctx, filestore.Config{Type: filestore.TypeLocal}); err == nil {
		t.Error("local without path should fail")
	}
	if _, err := filestore.New(ctx, filestore.Config{Type: filestore.TypeS3}); err == nil {
		t.Error("s3 without bucket should fail")
	}
	if _, err := filestore.New(ctx, filestore.Config{Type: "ftp"}); err == nil {
		t.Error("unknown type should fail")
	}
}
