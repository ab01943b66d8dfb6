// Package export renders active selections as CSV for download.
package export

import (
	"encoding/csv"
	"io"

	"github.com/aura-events/backend/internal/models"
)

// Header is the fixed CSV column order.
var Header = []string{"date", "time", "slot", "userid", "name", "position", "department", "register_type"}

// Row flattens one selection into CSV fields, matching Header.
func Row(d models.SelectionDetail) []string {
	return []string{
		d.EventDate.Format("2006-01-02"),
		d.TimeLabel(),
		d.SlotTitle,
		d.UserID,
		d.Name,
		d.Position,
		d.Department,
		string(d.RegisterType),
	}
}

// WriteCSV streams the header and one row per selection to w.
func WriteCSV(w io.Writer, selections []models.SelectionDetail) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, d := range selections {
		if err := cw.Write(Row(d)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
