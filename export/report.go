// Package export turns the currently displayed report rows into
// downloadable files. Column set and order are fixed per report.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/sensesdx/portalkit/core"
)

// Header is the fixed report column set.
var Header = []string{
	"Order #",
	"Hospital",
	"Executive",
	"Amount Collected",
	"Collection Date",
	"Patient Name",
	"Patient Number",
}

// Exporter writes normalized rows to a file format. Spreadsheet and
// PDF writers plug in here; CSV ships in-tree.
type Exporter interface {
	Extension() string
	Write(w io.Writer, header []string, rows [][]string) error
}

// Filename stamps the export with the generation time.
func Filename(e Exporter) string {
	return fmt.Sprintf("Reports_%s.%s", time.Now().Format("2006-01-02_15-04"), e.Extension())
}

// Rows normalizes report orders into the fixed column layout. nameOf
// resolves a field executive ID to a display name and may be nil.
func Rows(orders []core.Order, nameOf func(id string) string) [][]string {
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []string{
			o.ID,
			deref(o.HospitalName),
			executiveName(o.FieldExecutiveID, nameOf),
			amount(o.AmountCollected),
			collectionDate(o.CollectionDate),
			o.PatientName,
			o.PatientMobileNumber,
		})
	}
	return rows
}

// WriteReport is the export(rows) -> file call: normalize, then hand
// off to the format writer.
func WriteReport(w io.Writer, e Exporter, orders []core.Order, nameOf func(id string) string) error {
	return e.Write(w, Header, Rows(orders, nameOf))
}

// CSV is the in-tree Exporter.
type CSV struct{}

var _ Exporter = CSV{}

func (CSV) Extension() string { return "csv" }

func (CSV) Write(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func executiveName(id *string, nameOf func(string) string) string {
	if id == nil {
		return ""
	}
	if nameOf == nil {
		return *id
	}
	return nameOf(*id)
}

func amount(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%g", *v)
}

// collectionDate reformats the API timestamp to yyyy-MM-dd, falling
// back to the raw value when it does not parse.
func collectionDate(v *string) string {
	if v == nil {
		return ""
	}
	if t, err := time.Parse(time.RFC3339, *v); err == nil {
		return t.Format("2006-01-02")
	}
	return *v
}
