package validation

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxAttachmentSize caps a single RFI attachment.
const MaxAttachmentSize = 25 << 20

// sniffLen matches the read limit of the mimetype detector.
const sniffLen = 3072

// attachmentTypes maps detected media types (without parameters) to the
// extensions accepted for them. Detection walks from the most specific type
// to its parents, so a docx uploaded as .zip is still accepted.
var attachmentTypes = map[string][]string{
	"application/pdf": {".pdf"},
	"image/jpeg":      {".jpg", ".jpeg"},
	"image/png":       {".png"},
	"image/webp":      {".webp"},
	"application/zip": {".zip"},

	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   {".docx"},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         {".xlsx"},
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": {".pptx"},

	"text/csv":   {".csv"},
	"text/plain": {".txt", ".csv"},
}

// SniffAttachment reads the head of r to detect its content type from magic
// numbers and checks it against the filename extension. The returned reader
// yields the full content again.
func SniffAttachment(filename string, r io.Reader) (string, io.Reader, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", nil, fmt.Errorf("failed to read attachment: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return "", nil, fmt.Errorf("attachment %q is empty", filename)
	}

	detected := mimetype.Detect(head)
	ext := strings.ToLower(filepath.Ext(filename))

	known := false
	for m := detected; m != nil; m = m.Parent() {
		exts, ok := attachmentTypes[mediaType(m.String())]
		if !ok {
			continue
		}
		known = true
		for _, allowed := range exts {
			if ext == allowed {
				return detected.String(), io.MultiReader(bytes.NewReader(head), r), nil
			}
		}
	}

	if !known {
		return "", nil, fmt.Errorf("invalid attachment type (detected: %s)", detected.String())
	}
	return "", nil, fmt.Errorf("invalid attachment extension %q for %s", ext, detected.String())
}

func mediaType(s string) string {
	base, _, _ := strings.Cut(s, ";")
	return strings.TrimSpace(base)
}
