package report

import (
	"fmt"
	"io"
	"time"

	"classbook/internal/domain"

	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Bookings"

var xlsxColumns = []struct {
	title string
	width float64
}{
	{"ID", 8},
	{"User", 22},
	{"Classroom", 22},
	{"Date", 12},
	{"Start", 8},
	{"End", 8},
	{"Purpose", 40},
	{"Status", 12},
}

func writeXLSX(w io.Writer, rows []domain.Booking, generatedAt time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return err
	}
	f.SetDocProps(&excelize.DocProperties{
		Title:   "Classroom Bookings Report",
		Created: generatedAt.UTC().Format(time.RFC3339),
	})

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	for i, col := range xlsxColumns {
		name := colName(i)
		f.SetColWidth(xlsxSheet, name, name, col.width)
		f.SetCellValue(xlsxSheet, cell(name, 1), col.title)
	}
	f.SetCellStyle(xlsxSheet, "A1", cell(colName(len(xlsxColumns)-1), 1), headerStyle)
	f.SetPanes(xlsxSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	for i, b := range rows {
		row := i + 2
		values := []any{
			b.ID,
			b.UserName,
			b.ClassroomName,
			b.Date.String(),
			b.StartTime.String(),
			b.EndTime.String(),
			b.Purpose,
			string(b.Status),
		}
		if err := f.SetSheetRow(xlsxSheet, cell("A", row), &values); err != nil {
			return err
		}
	}

	return f.Write(w)
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
