package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/fogleman/gg"
	"github.com/go-pdf/fpdf"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	MIMEPNG = "image/png"
	MIMEPDF = "application/pdf"
)

// Canonical canvas shared by both output formats, A4 proportions in
// logical points. Image and document outputs are visually identical
// modulo container format.
const (
	pageWidth  = 595
	pageHeight = 842
)

func SupportedFileType(fileType string) bool {
	return fileType == MIMEPNG || fileType == MIMEPDF
}

type CertificateFields struct {
	StudentName    string
	CourseTitle    string
	Issuer         string
	CompletionDate string
	ID             string
}

type RenderError struct {
	Reason string
	Err    error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("certificate render failed: %s: %v", e.Reason, e.Err)
	}
	return "certificate render failed: " + e.Reason
}

func (e *RenderError) Unwrap() error { return e.Err }

// CertificateRenderer lays out certificate fields on the canonical
// canvas. Rendering is byte-deterministic: identical fields and renderer
// version produce identical output, which is what makes the
// content-addressed anchor trustworthy. Fonts are compiled in and PDF
// metadata dates are pinned, so no wall-clock state leaks into the
// artifact.
type CertificateRenderer struct {
	regular *truetype.Font
	bold    *truetype.Font
	italic  *truetype.Font
}

func NewCertificateRenderer() (*CertificateRenderer, error) {
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, &RenderError{Reason: "failed to parse regular font", Err: err}
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, &RenderError{Reason: "failed to parse bold font", Err: err}
	}
	italic, err := truetype.Parse(goitalic.TTF)
	if err != nil {
		return nil, &RenderError{Reason: "failed to parse italic font", Err: err}
	}
	return &CertificateRenderer{regular: regular, bold: bold, italic: italic}, nil
}

// Render produces the finished artifact for the requested MIME type.
// StudentName, CourseTitle and ID are required; Issuer and
// CompletionDate may be blank and are then rendered as absent.
// The operation is all-or-nothing: on error no bytes are returned.
func (r *CertificateRenderer) Render(fields CertificateFields, fileType string) ([]byte, error) {
	if fields.StudentName == "" || fields.CourseTitle == "" || fields.ID == "" {
		return nil, &RenderError{Reason: "student name, course title and certificate id are required"}
	}

	switch fileType {
	case MIMEPNG:
		return r.renderPNG(fields)
	case MIMEPDF:
		return r.renderPDF(fields)
	default:
		return nil, &RenderError{Reason: fmt.Sprintf("unsupported file type %q", fileType)}
	}
}

func (r *CertificateRenderer) face(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
}

// formatCompletionDate renders ISO dates the way the verification page
// does ("January 2, 2006"); anything unparsable passes through verbatim
// since the field is free text.
func formatCompletionDate(value string) string {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return value
	}
	return parsed.Format("January 2, 2006")
}

func (r *CertificateRenderer) renderPNG(fields CertificateFields) ([]byte, error) {
	dc := gg.NewContext(pageWidth, pageHeight)

	dc.SetRGB(1, 1, 1)
	dc.Clear()

	// Double border, #6b7280.
	dc.SetRGB255(107, 114, 128)
	dc.SetLineWidth(4)
	dc.DrawRectangle(20, 20, pageWidth-40, pageHeight-40)
	dc.Stroke()
	dc.SetLineWidth(1.5)
	dc.DrawRectangle(32, 32, pageWidth-64, pageHeight-64)
	dc.Stroke()

	centerX := float64(pageWidth) / 2
	textWidth := float64(pageWidth) - 120

	dc.SetRGB255(30, 58, 138)
	dc.SetFontFace(r.face(r.bold, 30))
	dc.DrawStringAnchored("Certificate of Completion", centerX, 140, 0.5, 0.5)

	dc.SetRGB255(55, 65, 81)
	dc.SetFontFace(r.face(r.regular, 14))
	dc.DrawStringAnchored("This is to certify that", centerX, 240, 0.5, 0.5)

	dc.SetRGB255(30, 58, 138)
	dc.SetFontFace(r.face(r.bold, 26))
	dc.DrawStringWrapped(fields.StudentName, centerX, 300, 0.5, 0.5, textWidth, 1.3, gg.AlignCenter)

	dc.SetRGB255(55, 65, 81)
	dc.SetFontFace(r.face(r.regular, 14))
	dc.DrawStringAnchored("has successfully completed the course", centerX, 380, 0.5, 0.5)

	dc.SetRGB255(30, 64, 175)
	dc.SetFontFace(r.face(r.bold, 20))
	dc.DrawStringWrapped(fields.CourseTitle, centerX, 440, 0.5, 0.5, textWidth, 1.3, gg.AlignCenter)

	dc.SetRGB255(55, 65, 81)
	dc.SetFontFace(r.face(r.regular, 14))
	if fields.CompletionDate != "" {
		dc.DrawStringAnchored("on "+formatCompletionDate(fields.CompletionDate), centerX, 520, 0.5, 0.5)
	}

	if fields.Issuer != "" {
		dc.SetFontFace(r.face(r.italic, 14))
		dc.DrawStringAnchored("Issued by "+fields.Issuer, centerX, 590, 0.5, 0.5)
	}

	dc.SetRGB255(107, 114, 128)
	dc.SetFontFace(r.face(r.regular, 10))
	dc.DrawStringAnchored("Certificate ID: "+fields.ID, centerX, 790, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, &RenderError{Reason: "failed to encode PNG", Err: err}
	}
	return buf.Bytes(), nil
}

func (r *CertificateRenderer) renderPDF(fields CertificateFields) ([]byte, error) {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: pageWidth, Ht: pageHeight},
	})

	// Fixed metadata dates keep the output byte-identical across runs.
	epoch := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	pdf.SetCreationDate(epoch)
	pdf.SetModificationDate(epoch)
	pdf.SetTitle("Certificate of Completion", true)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetDrawColor(107, 114, 128)
	pdf.SetLineWidth(4)
	pdf.Rect(20, 20, pageWidth-40, pageHeight-40, "D")
	pdf.SetLineWidth(1.5)
	pdf.Rect(32, 32, pageWidth-64, pageHeight-64, "D")

	textWidth := float64(pageWidth) - 120
	left := (float64(pageWidth) - textWidth) / 2

	pdf.SetTextColor(30, 58, 138)
	pdf.SetFont("Times", "B", 30)
	pdf.SetXY(left, 120)
	pdf.CellFormat(textWidth, 40, tr("Certificate of Completion"), "", 0, "C", false, 0, "")

	pdf.SetTextColor(55, 65, 81)
	pdf.SetFont("Times", "", 14)
	pdf.SetXY(left, 220)
	pdf.CellFormat(textWidth, 20, tr("This is to certify that"), "", 0, "C", false, 0, "")

	pdf.SetTextColor(30, 58, 138)
	pdf.SetFont("Times", "B", 26)
	pdf.SetXY(left, 280)
	pdf.MultiCell(textWidth, 32, tr(fields.StudentName), "", "C", false)

	pdf.SetTextColor(55, 65, 81)
	pdf.SetFont("Times", "", 14)
	pdf.SetXY(left, 370)
	pdf.CellFormat(textWidth, 20, tr("has successfully completed the course"), "", 0, "C", false, 0, "")

	pdf.SetTextColor(30, 64, 175)
	pdf.SetFont("Times", "B", 20)
	pdf.SetXY(left, 420)
	pdf.MultiCell(textWidth, 26, tr(fields.CourseTitle), "", "C", false)

	pdf.SetTextColor(55, 65, 81)
	pdf.SetFont("Times", "", 14)
	if fields.CompletionDate != "" {
		pdf.SetXY(left, 510)
		pdf.CellFormat(textWidth, 20, tr("on "+formatCompletionDate(fields.CompletionDate)), "", 0, "C", false, 0, "")
	}

	if fields.Issuer != "" {
		pdf.SetFont("Times", "I", 14)
		pdf.SetXY(left, 580)
		pdf.CellFormat(textWidth, 20, tr("Issued by "+fields.Issuer), "", 0, "C", false, 0, "")
	}

	pdf.SetTextColor(107, 114, 128)
	pdf.SetFont("Times", "", 10)
	pdf.SetXY(left, 780)
	pdf.CellFormat(textWidth, 16, tr("Certificate ID: "+fields.ID), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &RenderError{Reason: "failed to write PDF", Err: err}
	}
	return buf.Bytes(), nil
}
