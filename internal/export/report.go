// Package export writes appointments and medical files to an XLSX workbook.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/tealeg/xlsx/v3"

	"github.com/clinicmate/clinicmate/internal/screen"
)

const (
	SheetNameAppointments = "Appointments"
	SheetNameMedicalFiles = "Medical Files"
)

var (
	appointmentHeader = []string{"Date", "Start", "End", "Name", "Label", "Doctor", "Description", "Patients"}
	fileHeader        = []string{"Name", "Date", "Doctor", "Description", "Download"}
)

// Report collects the rows to export. Empty sections are skipped.
type Report struct {
	Appointments []screen.AppointmentItem
	Files        []screen.FileItem

	// DownloadURL resolves a file name to its download link (optional).
	DownloadURL func(fileName string) string
}

// Generate builds the workbook.
func (r Report) Generate() (*xlsx.File, error) {
	report := xlsx.NewFile()

	components := []func(report *xlsx.File) error{
		r.addAppointmentsSheet,
		r.addFilesSheet,
	}
	for _, fn := range components {
		if err := fn(report); err != nil {
			return nil, err
		}
	}

	if len(report.Sheets) == 0 {
		return nil, fmt.Errorf("nothing to export")
	}
	return report, nil
}

// Write generates the workbook and writes it to w.
func (r Report) Write(w io.Writer) error {
	f, err := r.Generate()
	if err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func (r Report) addAppointmentsSheet(report *xlsx.File) error {
	if len(r.Appointments) == 0 {
		return nil
	}
	sh, err := report.AddSheet(SheetNameAppointments)
	if err != nil {
		return err
	}

	addHeader(sh, appointmentHeader)
	for _, a := range r.Appointments {
		row := sh.AddRow()
		row.AddCell().SetValue(a.Date)
		row.AddCell().SetValue(a.StartTime)
		row.AddCell().SetValue(a.EndTime)
		row.AddCell().SetValue(a.Name)

		label := row.AddCell()
		label.SetValue(a.Label)
		style := xlsx.NewStyle()
		style.Fill = *xlsx.NewFill(xlsx.Solid_Cell_Fill, argb(a.Color), argb(a.Color))
		style.ApplyFill = true
		label.SetStyle(style)

		row.AddCell().SetValue(a.Doctor)
		row.AddCell().SetValue(a.Description)
		row.AddCell().SetValue(strings.Join(a.Patients, ", "))
	}
	return nil
}

func (r Report) addFilesSheet(report *xlsx.File) error {
	if len(r.Files) == 0 {
		return nil
	}
	sh, err := report.AddSheet(SheetNameMedicalFiles)
	if err != nil {
		return err
	}

	addHeader(sh, fileHeader)
	for _, f := range r.Files {
		row := sh.AddRow()
		row.AddCell().SetValue(f.Name)
		row.AddCell().SetValue(f.Date)
		row.AddCell().SetValue(f.Doctor)
		row.AddCell().SetValue(f.Description)

		link := f.FileName
		if r.DownloadURL != nil {
			link = r.DownloadURL(f.FileName)
		}
		row.AddCell().SetValue(link)
	}
	return nil
}

func addHeader(sh *xlsx.Sheet, titles []string) {
	style := xlsx.NewStyle()
	style.Font.Bold = true
	style.ApplyFont = true

	row := sh.AddRow()
	for _, title := range titles {
		cell := row.AddCell()
		cell.SetValue(title)
		cell.SetStyle(style)
	}
}

// argb converts "#RRGGBB" to the "FFRRGGBB" form xlsx fills expect.
func argb(hex string) string {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return "FFFFFFFF"
	}
	return "FF" + strings.ToUpper(hex)
}
