package week

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Semana"

var exportHeaders = []string{"Empresa", "Día", "Fecha", "Turno", "Asignados", "Disponibles"}

// WriteWorkbook renders a composed week as an xlsx workbook, one row per
// available company slot.
func WriteWorkbook(cw *ComposedWeek, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(exportSheet, cell, header)
	}

	row := 2
	for _, c := range cw.PerCompany {
		for _, d := range cw.Days {
			for _, shift := range c.Availability[d.Name] {
				assigned := make([]string, 0)
				for _, a := range c.Assigned(d.Name, shift) {
					name := a.Name
					if a.StartTime != "" {
						name = fmt.Sprintf("%s (%s-%s)", a.Name, a.StartTime, a.EndTime)
					}
					assigned = append(assigned, name)
				}
				available := make([]string, 0)
				for _, inf := range c.Candidates(d.Name, shift) {
					available = append(available, inf.Name)
				}

				values := []interface{}{
					c.Company.Name,
					string(d.Name),
					d.Date,
					string(shift),
					strings.Join(assigned, ", "),
					strings.Join(available, ", "),
				}
				for col, v := range values {
					cell, _ := excelize.CoordinatesToCellName(col+1, row)
					f.SetCellValue(exportSheet, cell, v)
				}
				row++
			}
		}
	}

	f.SetColWidth(exportSheet, "A", "A", 30)
	f.SetColWidth(exportSheet, "E", "F", 50)

	_, err = f.WriteTo(w)
	return err
}
