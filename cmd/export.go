package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/bizintel/internal/export"
)

var (
	exportOut     string
	exportLimit   int
	exportFTPURL  string
	exportFTPUser string
	exportFTPPass string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored analyses to an XLSX workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		records, err := st.ListAnalyses(ctx, exportLimit)
		if err != nil {
			return eris.Wrap(err, "list analyses")
		}
		if len(records) == 0 {
			fmt.Fprintln(os.Stderr, "No analyses to export.")
			return nil
		}

		wb, err := export.BuildWorkbook(records)
		if err != nil {
			return err
		}
		if err := wb.Save(exportOut); err != nil {
			return eris.Wrap(err, "write workbook")
		}
		zap.L().Info("workbook written",
			zap.String("path", exportOut),
			zap.Int("analyses", len(records)),
		)

		if exportFTPURL != "" {
			f, err := os.Open(exportOut)
			if err != nil {
				return eris.Wrap(err, "open workbook for upload")
			}
			defer f.Close() //nolint:errcheck

			if err := export.Upload(ctx, exportFTPURL, f, export.UploadOptions{
				Username: exportFTPUser,
				Password: exportFTPPass,
			}); err != nil {
				return err
			}
			zap.L().Info("workbook uploaded", zap.String("url", exportFTPURL))
		}

		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "analyses.xlsx", "output file path")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 0, "max analyses to export (0 = store default, negative = all)")
	exportCmd.Flags().StringVar(&exportFTPURL, "ftp-url", "", "optional FTP destination (ftp://host/path.xlsx)")
	exportCmd.Flags().StringVar(&exportFTPUser, "ftp-user", "", "FTP username (anonymous when empty)")
	exportCmd.Flags().StringVar(&exportFTPPass, "ftp-pass", "", "FTP password")
	rootCmd.AddCommand(exportCmd)
}
