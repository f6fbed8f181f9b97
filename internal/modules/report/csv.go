package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"classbook/internal/domain"
)

var csvHeader = []string{"id", "userName", "classroomName", "date", "startTime", "endTime", "purpose", "status"}

func writeCSV(w io.Writer, rows []domain.Booking) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, b := range rows {
		rec := []string{
			strconv.FormatInt(b.ID, 10),
			b.UserName,
			b.ClassroomName,
			b.Date.String(),
			b.StartTime.String(),
			b.EndTime.String(),
			b.Purpose,
			string(b.Status),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
