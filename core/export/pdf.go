package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfMargin     = 10.0
	pdfPageW      = 297.0 // A4 landscape
	pdfPictureW   = 18.0
	pdfRowH       = 8.0
	pdfPictureRow = 18.0
)

type PDFOptions struct {
	Title string
	// ImagesRoot is the filesystem directory stored picture paths
	// resolve under. Missing files leave the cell blank.
	ImagesRoot string
}

// RenderPDF writes a paginated landscape document with running headers
// and footers and, when the picture column is included, embedded images.
func RenderPDF(w io.Writer, m Matrix, opts PDFOptions) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin+10, pdfMargin)
	pdf.AliasNbPages("")

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 8, opts.Title, "", 0, "C", false, 0, "")
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 8)
		pdf.CellFormat(0, 6, time.Now().Format("02-01-2006"), "", 0, "C", false, 0, "")
		pdf.Ln(8)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	picCol := m.PictureCol()
	widths := columnWidths(len(m.Headers), picCol)
	rowH := pdfRowH
	if picCol >= 0 {
		rowH = pdfPictureRow
	}

	pdf.AddPage()

	// header row
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(220, 220, 220)
	for i, h := range m.Headers {
		pdf.CellFormat(widths[i], pdfRowH, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for ri, row := range m.Rows {
		if pdf.GetY()+rowH > 210-pdfMargin-10 {
			pdf.AddPage()
			pdf.SetFont("Arial", "B", 9)
			for i, h := range m.Headers {
				pdf.CellFormat(widths[i], pdfRowH, h, "1", 0, "C", true, 0, "")
			}
			pdf.Ln(-1)
			pdf.SetFont("Arial", "", 8)
		}

		x, y := pdf.GetXY()
		for ci, cell := range row {
			if ci == picCol {
				pdf.CellFormat(widths[ci], rowH, "", "1", 0, "C", false, 0, "")
				embedPicture(pdf, filepath.Join(opts.ImagesRoot, filepath.FromSlash(m.Record(ri).Pic)),
					x+sum(widths[:ci]), y, widths[ci], rowH)
			} else {
				pdf.CellFormat(widths[ci], rowH, cell, "1", 0, "L", false, 0, "")
			}
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}

func columnWidths(n, picCol int) []float64 {
	usable := pdfPageW - 2*pdfMargin
	widths := make([]float64, n)
	rest := n
	if picCol >= 0 {
		widths[picCol] = pdfPictureW
		usable -= pdfPictureW
		rest--
	}
	if rest > 0 {
		each := usable / float64(rest)
		for i := range widths {
			if i != picCol {
				widths[i] = each
			}
		}
	}
	return widths
}

func embedPicture(pdf *gofpdf.Fpdf, path string, x, y, w, h float64) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	pdf.ImageOptions(path, x+2, y+2, w-4, h-4, false, gofpdf.ImageOptions{ImageType: "", ReadDpi: true}, 0, "")
}

func sum(fs []float64) float64 {
	var t float64
	for _, f := range fs {
		t += f
	}
	return t
}
