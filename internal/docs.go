package internal

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DocKind classifies an entry of the document library
type DocKind string

const (
	DocPDF   DocKind = "pdf"
	DocLink  DocKind = "link"
	DocImage DocKind = "image"
	DocOther DocKind = "other"
)

const pdfMIME = "application/pdf"

// DocItem is a reference document known to the assistant
type DocItem struct {
	ID        string  `json:"id" yaml:"id"`
	Name      string  `json:"name" yaml:"name"`
	Kind      DocKind `json:"type" yaml:"kind"`
	MIME      string  `json:"mime,omitempty" yaml:"mime,omitempty"`
	URL       string  `json:"url,omitempty" yaml:"url,omitempty"`
	Size      int64   `json:"size,omitempty" yaml:"size,omitempty"`
	Reference *bool   `json:"isReference,omitempty" yaml:"reference,omitempty"`
	CreatedAt int64   `json:"createdAt,omitempty" yaml:"created_at,omitempty"`
}

// IsReference reports whether the document feeds the assistant. Unset means yes.
func (d DocItem) IsReference() bool {
	return d.Reference == nil || *d.Reference
}

// Docs returns the stored document library
func Docs(store *Store) []DocItem {
	return LoadJSON(store, KeyDocs, []DocItem{})
}

// SaveDocs replaces the stored document library
func SaveDocs(store *Store, docs []DocItem) {
	if docs == nil {
		docs = []DocItem{}
	}
	store.SaveJSON(KeyDocs, docs)
}

// AddDoc puts doc at the front of the library
func AddDoc(store *Store, doc DocItem) DocItem {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.CreatedAt == 0 {
		doc.CreatedAt = time.Now().UnixMilli()
	}
	SaveDocs(store, append([]DocItem{doc}, Docs(store)...))
	return doc
}

// RemoveDoc deletes the document with id
func RemoveDoc(store *Store, id string) error {
	docs := Docs(store)
	for i, d := range docs {
		if d.ID == id {
			SaveDocs(store, append(docs[:i], docs[i+1:]...))
			return nil
		}
	}
	return &NotFoundError{Kind: "document", ID: id}
}

// PDFDocs returns every PDF in the library
func PDFDocs(store *Store) []DocItem {
	var out []DocItem
	for _, d := range Docs(store) {
		if d.MIME == pdfMIME {
			out = append(out, d)
		}
	}
	return out
}

// ReferencePDFs returns the PDFs marked as reference material
func ReferencePDFs(store *Store) []DocItem {
	var out []DocItem
	for _, d := range PDFDocs(store) {
		if d.IsReference() {
			out = append(out, d)
		}
	}
	return out
}

// NewDocItem describes a link or a local file. Only metadata is kept; the
// file body stays on disk.
func NewDocItem(location, name string, reference bool) (DocItem, error) {
	doc := DocItem{Name: strings.TrimSpace(name), Reference: &reference}

	if u, err := url.Parse(location); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		doc.Kind = DocLink
		doc.URL = location
		if strings.HasSuffix(strings.ToLower(u.Path), ".pdf") {
			doc.Kind = DocPDF
			doc.MIME = pdfMIME
		}
		if doc.Name == "" {
			doc.Name = location
		}
		return doc, nil
	}

	abs, err := filepath.Abs(location)
	if err != nil {
		return DocItem{}, fmt.Errorf("resolve %s: %w", location, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return DocItem{}, &StorageError{Path: abs, Op: "read", Err: err}
	}
	if info.IsDir() {
		return DocItem{}, fmt.Errorf("%s is a directory", abs)
	}

	doc.MIME = detectMIME(abs, "", nil)
	doc.Size = info.Size()
	doc.URL = (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
	switch {
	case doc.MIME == pdfMIME:
		doc.Kind = DocPDF
	case strings.HasPrefix(doc.MIME, "image/"):
		doc.Kind = DocImage
	default:
		doc.Kind = DocOther
	}
	if doc.Name == "" {
		doc.Name = filepath.Base(abs)
	}
	return doc, nil
}
