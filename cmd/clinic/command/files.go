package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clinicmate/clinicmate/internal/export"
	"github.com/clinicmate/clinicmate/internal/screen"
)

var filesXLSX string

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List your medical files",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd, listFiles)
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download FILE_NAME",
	Short: "Open a medical file in the system browser",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd, func(ctx context.Context, c *Client) error {
			return download(ctx, c, args[0])
		})
	},
}

func (c *Client) medicalFiles() *screen.MedicalFiles {
	return screen.NewMedicalFiles(screen.MedicalFilesConfig{
		API:       c.api,
		Session:   c.session,
		Navigator: c.nav,
		Alerter:   c.terminal,
		Opener:    c.terminal,
		Logger:    c.logger,
	})
}

func listFiles(ctx context.Context, c *Client) error {
	boot := c.Bootstrap(ctx, false)
	defer boot.Close()

	ok, err := c.RequireSession(ctx, boot)
	if !ok || err != nil {
		return err
	}

	view, err := c.medicalFiles().Mount(ctx)
	if err != nil {
		c.printLoginHint()
		return alerted(err)
	}
	if err := renderFiles(c.out, view); err != nil {
		return err
	}

	if filesXLSX != "" {
		report := export.Report{Files: view.Files, DownloadURL: c.api.DownloadURL}
		return writeReport(c, filesXLSX, report)
	}
	return nil
}

func download(ctx context.Context, c *Client, fileName string) error {
	url, err := c.medicalFiles().Download(ctx, fileName)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Opening %s\n", url)
	return nil
}

func init() {
	filesCmd.Flags().StringVar(&filesXLSX, "xlsx", "", "Also export the list to an XLSX workbook at this path")
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(downloadCmd)
}
