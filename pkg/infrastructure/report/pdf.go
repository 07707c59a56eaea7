package report

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/phpdave11/gofpdf"
	"github.com/pkg/errors"

	"storefront/pkg/domain/model"
)

var columns = []struct {
	title string
	width float64
	align string
}{
	{"S.No", 15, "C"},
	{"Customer", 60, "L"},
	{"Item No", 40, "L"},
	{"Amount", 35, "R"},
	{"Country", 30, "C"},
}

// RenderPDF lays the sales report out as a single A4 table.
func RenderPDF(r model.SalesReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("StrideZero Sales Report", false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 12, "StrideZero Sales Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 8, "Generated "+r.GeneratedAt.Format("2006-01-02 15:04 MST"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	for _, c := range columns {
		pdf.CellFormat(c.width, 8, c.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, rec := range r.Records {
		cells := []string{
			strconv.Itoa(rec.SerialNo),
			rec.CustomerName,
			rec.ItemNo,
			"$" + model.FormatCents(rec.AmountCents),
			string(rec.Country),
		}
		for i, c := range columns {
			pdf.CellFormat(c.width, 7, cells[i], "1", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(columns[0].width+columns[1].width+columns[2].width, 8, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(columns[3].width, 8, "$"+model.FormatCents(r.TotalCents()), "1", 0, "R", false, 0, "")
	pdf.CellFormat(columns[4].width, 8, fmt.Sprintf("%d orders", len(r.Records)), "1", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "render sales report")
	}
	return buf.Bytes(), nil
}
