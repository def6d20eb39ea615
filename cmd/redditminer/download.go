package main

import (
	"github.com/spf13/cobra"
)

var downloadCmd = &cobra.Command{
	Use:   "download <url-file>",
	Short: "Download every image listed in a URL file",
	Long: `Download reads one URL per line (blank lines are ignored) and saves each
image into --output-dir using up to --max-workers parallel requests.

Files that already exist are skipped. Individual failures are reported at the
end and do not stop the run.`,
	Example: `  redditminer download output/images_EarthPorn_1700000000.txt --output-dir images --max-workers 4`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ctx, stop := signalContext()
		defer stop()
		return runDownload(ctx, cfg, args[0])
	},
}

func init() {
	rootCmd.AddCommand(downloadCmd)
}
