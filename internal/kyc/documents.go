package kyc

import (
	"errors"
	"fmt"
	"io"
	"slices"
)

// MaxDocumentSize is the per-file upload cap for every document slot.
const MaxDocumentSize = 5 << 20 // 5 MB

var (
	ErrUnknownSlot      = errors.New("not a document field")
	ErrDocumentTooLarge = fmt.Errorf("document exceeds the %d MB limit", MaxDocumentSize>>20)
	ErrDocumentType     = errors.New("unsupported document type")
)

// Document is an opaque readable byte stream with a declared size and
// content type. The content is never inspected here; it is handed to the
// storage collaborator as-is during submission.
type Document struct {
	Name        string
	Size        int64
	ContentType string
	Content     io.Reader
}

// imageTypes are accepted on every slot; proof of address additionally
// accepts PDF statements.
var (
	imageTypes = []string{"image/jpeg", "image/png"}
	pdfType    = "application/pdf"
)

// DocumentFields lists the four upload slots of step 5, in display order.
func DocumentFields() []Field {
	return []Field{FieldPassportPhotoPage, FieldVisaPage, FieldSelfie, FieldProofOfAddress}
}

// AllowedContentTypes returns the MIME types a slot accepts.
func AllowedContentTypes(slot Field) []string {
	if slot == FieldProofOfAddress {
		return append(slices.Clone(imageTypes), pdfType)
	}
	return imageTypes
}

// DocumentSet stages the uploaded files prior to submission. Staging is
// purely in-memory; a rebind of the same slot replaces the previous file.
type DocumentSet struct {
	staged map[Field]Document
}

func NewDocumentSet() *DocumentSet {
	return &DocumentSet{
		staged: make(map[Field]Document),
	}
}

// Bind validates a file against the slot's size and type rules and stages
// it on success. A rejected file leaves the slot exactly as it was.
func (ds *DocumentSet) Bind(slot Field, doc Document) error {
	if !slices.Contains(DocumentFields(), slot) {
		return fmt.Errorf("%w: %s", ErrUnknownSlot, slot)
	}

	if doc.Size > MaxDocumentSize {
		return ErrDocumentTooLarge
	}

	if !slices.Contains(AllowedContentTypes(slot), doc.ContentType) {
		return fmt.Errorf("%w: %s does not accept %s", ErrDocumentType, slot, doc.ContentType)
	}

	ds.staged[slot] = doc
	return nil
}

// Get returns the staged document for a slot, if any.
func (ds *DocumentSet) Get(slot Field) (Document, bool) {
	doc, ok := ds.staged[slot]
	return doc, ok
}

// Missing lists the slots that still have no staged document.
func (ds *DocumentSet) Missing() []Field {
	var missing []Field
	for _, slot := range DocumentFields() {
		if _, ok := ds.staged[slot]; !ok {
			missing = append(missing, slot)
		}
	}
	return missing
}

// Complete reports whether all four slots are bound.
func (ds *DocumentSet) Complete() bool {
	return len(ds.Missing()) == 0
}
