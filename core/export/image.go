package export

import (
	"image/png"
	"io"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

const (
	imgCellW   = 130.0
	imgCellH   = 26.0
	imgPadding = 20.0
)

// RenderImage writes a PNG snapshot of the rendered table.
func RenderImage(w io.Writer, m Matrix, title string) error {
	cols := len(m.Headers)
	rows := len(m.Rows) + 1 // header row

	width := int(2*imgPadding + float64(cols)*imgCellW)
	height := int(2*imgPadding + 30 + float64(rows)*imgCellH)

	dc := gg.NewContext(width, height)
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored(title, float64(width)/2, imgPadding, 0.5, 0.5)

	top := imgPadding + 30

	// header row
	dc.SetRGB(0.9, 0.9, 0.9)
	dc.DrawRectangle(imgPadding, top, float64(cols)*imgCellW, imgCellH)
	dc.Fill()

	dc.SetRGB(0, 0, 0)
	for ci, h := range m.Headers {
		x := imgPadding + float64(ci)*imgCellW + 6
		dc.DrawStringAnchored(h, x, top+imgCellH/2, 0, 0.35)
	}
	for ri, row := range m.Rows {
		y := top + float64(ri+1)*imgCellH
		for ci, cell := range row {
			x := imgPadding + float64(ci)*imgCellW + 6
			dc.DrawStringAnchored(cell, x, y+imgCellH/2, 0, 0.35)
		}
	}

	// grid lines
	dc.SetLineWidth(1)
	for ci := 0; ci <= cols; ci++ {
		x := imgPadding + float64(ci)*imgCellW
		dc.DrawLine(x, top, x, top+float64(rows)*imgCellH)
	}
	for ri := 0; ri <= rows; ri++ {
		y := top + float64(ri)*imgCellH
		dc.DrawLine(imgPadding, y, imgPadding+float64(cols)*imgCellW, y)
	}
	dc.Stroke()

	return png.Encode(w, dc.Image())
}
