package command

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clinicmate/clinicmate/internal/export"
	"github.com/clinicmate/clinicmate/internal/screen"
)

var appointmentsXLSX string

var appointmentsCmd = &cobra.Command{
	Use:     "appointments",
	Aliases: []string{"reservations"},
	Short:   "List upcoming appointments",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd, listAppointments)
	},
}

func listAppointments(ctx context.Context, c *Client) error {
	boot := c.Bootstrap(ctx, false)
	defer boot.Close()

	ok, err := c.RequireSession(ctx, boot)
	if !ok || err != nil {
		return err
	}

	items, err := screen.NewAppointments(screen.AppointmentsConfig{
		API:    c.api,
		Logger: c.logger,
	}).Mount(ctx)
	if err != nil {
		return err
	}
	if err := renderAppointments(c.out, items); err != nil {
		return err
	}

	if appointmentsXLSX != "" {
		return writeReport(c, appointmentsXLSX, export.Report{Appointments: items})
	}
	return nil
}

func writeReport(c *Client, path string, report export.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := report.Write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	fmt.Fprintf(c.out, "Exported to %s\n", path)
	return nil
}

func init() {
	appointmentsCmd.Flags().StringVar(&appointmentsXLSX, "xlsx", "", "Also export the list to an XLSX workbook at this path")
	rootCmd.AddCommand(appointmentsCmd)
}
