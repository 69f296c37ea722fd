package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/sensesdx/portalkit/core"
)

func sampleOrders() []core.Order {
	return []core.Order{
		{
			ID:                  "ORD-1",
			HospitalName:        core.Ptr("City Hospital"),
			FieldExecutiveID:    core.Ptr("fe1"),
			AmountCollected:     core.Ptr(450.5),
			CollectionDate:      core.Ptr("2026-08-27T09:30:00Z"),
			PatientName:         "Asha",
			PatientMobileNumber: "9876543210",
		},
		{
			ID:          "ORD-2",
			PatientName: "Ravi",
		},
	}
}

func TestRowsShouldFollowTheFixedColumnLayout(t *testing.T) {
	rows := Rows(sampleOrders(), func(id string) string { return "Mike" })

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	want := []string{"ORD-1", "City Hospital", "Mike", "450.5", "2026-08-27", "Asha", "9876543210"}
	for i, cell := range want {
		if rows[0][i] != cell {
			t.Errorf("row[0][%d] = %q, want %q", i, rows[0][i], cell)
		}
	}

	// unset optionals render empty, never "nil"
	want = []string{"ORD-2", "", "", "", "", "Ravi", ""}
	for i, cell := range want {
		if rows[1][i] != cell {
			t.Errorf("row[1][%d] = %q, want %q", i, rows[1][i], cell)
		}
	}
}

func TestRowsShouldFallBackToExecutiveIDWithoutResolver(t *testing.T) {
	rows := Rows(sampleOrders(), nil)

	if rows[0][2] != "fe1" {
		t.Errorf("executive cell = %q, want the raw id", rows[0][2])
	}
}

func TestRowsShouldKeepUnparseableDatesVerbatim(t *testing.T) {
	orders := []core.Order{{ID: "ORD-3", CollectionDate: core.Ptr("yesterday")}}

	rows := Rows(orders, nil)
	if rows[0][4] != "yesterday" {
		t.Errorf("date cell = %q, want the raw value", rows[0][4])
	}
}

func TestWriteReportShouldProduceParseableCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReport(&buf, CSV{}, sampleOrders(), nil); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output does not parse as CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(records))
	}
	for i, col := range Header {
		if records[0][i] != col {
			t.Errorf("header[%d] = %q, want %q", i, records[0][i], col)
		}
	}
	if records[1][0] != "ORD-1" || records[2][0] != "ORD-2" {
		t.Error("row order should follow the input")
	}
}

func TestFilenameShouldCarryTheExtension(t *testing.T) {
	name := Filename(CSV{})

	if !strings.HasPrefix(name, "Reports_") {
		t.Errorf("name = %q, want the Reports_ prefix", name)
	}
	if !strings.HasSuffix(name, ".csv") {
		t.Errorf("name = %q, want a .csv suffix", name)
	}
}
