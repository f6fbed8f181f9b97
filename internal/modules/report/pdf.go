package report

import (
	"fmt"
	"io"
	"time"

	"classbook/internal/domain"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMarginLeft  = 20.0
	pdfMarginRight = 190.0
)

func writePDF(w io.Writer, rows []domain.Booking, generatedAt time.Time) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(generatedAt)
	pdf.SetTitle("Classroom Bookings Report", true)
	pdf.SetMargins(pdfMarginLeft, 20, 210-pdfMarginRight)
	pdf.AddPage()

	// core fonts are cp1252
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "", 25)
	pdf.CellFormat(0, 12, "Classroom Bookings Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 6, "Generated on "+generatedAt.Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "U", 12)
	pdf.CellFormat(0, 6, "Bookings List:", "", 1, "L", false, 0, "")
	pdf.Ln(4)

	for i, b := range rows {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 5, tr(fmt.Sprintf("Booking #%d: %s", i+1, b.ClassroomName)), "", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "", 8)
		for _, line := range []string{
			"User: " + b.UserName,
			"Date: " + b.Date.String(),
			"Time: " + b.StartTime.String() + " - " + b.EndTime.String(),
		} {
			pdf.CellFormat(0, 4, tr(line), "", 1, "L", false, 0, "")
		}
		pdf.MultiCell(0, 4, tr("Purpose: "+b.Purpose), "", "L", false)
		pdf.CellFormat(0, 4, "Status: "+string(b.Status), "", 1, "L", false, 0, "")
		pdf.Ln(3)

		if i < len(rows)-1 {
			y := pdf.GetY()
			pdf.Line(pdfMarginLeft, y, pdfMarginRight, y)
			pdf.Ln(3)
		}
	}

	return pdf.Output(w)
}
