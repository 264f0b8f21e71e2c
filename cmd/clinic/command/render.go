package command

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/clinicmate/clinicmate/internal/nav"
	"github.com/clinicmate/clinicmate/internal/screen"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func renderFiles(w io.Writer, view *screen.MedicalFilesView) error {
	fmt.Fprintf(w, "Hello, %s\n\n", view.User.Name)
	if len(view.Files) == 0 {
		fmt.Fprintln(w, "No medical files.")
		return nil
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "FILE\tNAME\tDATE\tDOCTOR\tDESCRIPTION")
	for _, f := range view.Files {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", f.FileName, f.Name, f.Date, f.Doctor, f.Description)
	}
	return tw.Flush()
}

func renderAppointments(w io.Writer, items []screen.AppointmentItem) error {
	if len(items) == 0 {
		fmt.Fprintln(w, "No upcoming appointments.")
		return nil
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "DATE\tTIME\tNAME\tLABEL\tDOCTOR\tPATIENTS")
	for _, a := range items {
		fmt.Fprintf(tw, "%s\t%s-%s\t%s\t%s\t%s\t%s\n",
			a.Date, a.StartTime, a.EndTime, a.Name, a.Label, a.Doctor, strings.Join(a.Patients, ", "))
	}
	return tw.Flush()
}

func renderProfile(w io.Writer, view *screen.ProfileView) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "[%s]\t%s\n", view.Initials, view.User.Name)
	fmt.Fprintf(tw, "Email\t%s\n", view.User.Email)
	fmt.Fprintf(tw, "License\t%s\n", view.User.LicenseNumber)
	fmt.Fprintf(tw, "Contact\t%s\n", view.User.Contact)
	fmt.Fprintf(tw, "Address\t%s\n", view.User.Address)
	return tw.Flush()
}

func renderTabs(w io.Writer) {
	labels := make([]string, 0, 3)
	for _, t := range nav.Tabs() {
		labels = append(labels, t.Label)
	}
	fmt.Fprintf(w, "Available: %s\n", strings.Join(labels, " | "))
}
