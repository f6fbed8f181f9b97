package report

import (
	"bytes"
	"fmt"
	"time"

	"classbook/internal/domain"
	"classbook/internal/pkg/apperror"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
	FormatICS  Format = "ics"
)

var ErrUnknownFormat = apperror.NotFound("UNKNOWN_FORMAT", "Export format must be one of csv, pdf, xlsx, ics")

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatCSV, FormatPDF, FormatXLSX, FormatICS:
		return f, nil
	}
	return "", ErrUnknownFormat
}

func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatICS:
		return "text/calendar; charset=utf-8"
	}
	return "application/octet-stream"
}

// Filename is the attachment name for an export with the given base name.
func (f Format) Filename(base string) string {
	return fmt.Sprintf("%s.%s", base, f)
}

// Render writes rows in format f. generatedAt is printed in document headers
// and used as the calendar stamp.
func Render(f Format, rows []domain.Booking, generatedAt time.Time) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	var err error
	switch f {
	case FormatCSV:
		err = writeCSV(buf, rows)
	case FormatPDF:
		err = writePDF(buf, rows, generatedAt)
	case FormatXLSX:
		err = writeXLSX(buf, rows, generatedAt)
	case FormatICS:
		err = writeICS(buf, rows, generatedAt)
	default:
		return nil, ErrUnknownFormat
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", f, err)
	}
	return buf, nil
}
