package invoice

import (
	"bytes"
	"regexp"

	"github.com/jung-kurt/gofpdf"
)

// Artifact is the finished, downloadable invoice document. It is the only
// externally visible output of a generation run; nothing is persisted
// server-side.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
	PageCount   int
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// artifactFilename derives "Invoice_{number}_{client}.pdf" with every run
// of whitespace in the client name replaced by a single underscore.
func artifactFilename(invoiceNumber, clientName string) string {
	return "Invoice_" + invoiceNumber + "_" + whitespaceRe.ReplaceAllString(clientName, "_") + ".pdf"
}

// finalize serializes the rendered document. Either the whole artifact is
// produced or the operation fails; no partial blob escapes.
func finalize(doc *gofpdf.Fpdf, invoiceNumber, clientName string) (*Artifact, error) {
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, ErrRenderFailed
	}
	return &Artifact{
		Filename:    artifactFilename(invoiceNumber, clientName),
		ContentType: "application/pdf",
		Data:        buf.Bytes(),
		PageCount:   doc.PageCount(),
	}, nil
}
