package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/gistfs/gistfs/model/confirm"
	"github.com/gistfs/gistfs/model/transfer"
	"github.com/gistfs/gistfs/model/vfs"
	"github.com/gistfs/gistfs/pkg/logger"
)

var flagDownloadDir string
var flagDownloadGists bool

var downloadCmd = &cobra.Command{
	Use:   "download <gist://id/file | gist-id> ...",
	Short: "Download gist files to the local disk",
	Long: `Download gist files, or with --gists whole gists, into a local directory.
When a local file already exists you are asked before it is replaced; a
"yes to all" or "no to all" answer applies to the rest of the batch.
Interrupting the command stops the batch, keeping what was already
downloaded.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		fsys, _, err := newFS()
		if err != nil {
			return err
		}
		dest := afero.NewOsFs()
		session := confirm.NewSession(stdinPrompter(), transfer.DiskExists(dest))
		log := logger.WithNamespace("transfer")

		var report *transfer.Report
		if flagDownloadGists {
			report, err = transfer.DownloadGists(ctx, fsys, dest, flagDownloadDir, args, session, log)
		} else {
			addrs := make([]vfs.Address, 0, len(args))
			for _, raw := range args {
				addr, perr := vfs.Parse(raw)
				if perr != nil {
					return perr
				}
				if addr.Name == "" {
					return fmt.Errorf("%s: not a file address (use --gists for whole gists)", raw)
				}
				addrs = append(addrs, addr)
			}
			report, err = transfer.DownloadFiles(ctx, fsys, dest, flagDownloadDir, addrs, session, log)
		}
		printReport(report)
		return err
	},
}

var uploadCmd = &cobra.Command{
	Use:   "upload <gist-id> <file> [file...]",
	Short: "Upload local files to a gist",
	Long: `Upload local files into the given gist, one gist file per local file,
named after the sanitized base name. When a name is already taken in the
gist you are asked before it is replaced.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		fsys, _, err := newFS()
		if err != nil {
			return err
		}
		session := confirm.NewSession(stdinPrompter(), fsys.Exists)
		report, err := transfer.UploadFiles(ctx, fsys, afero.NewOsFs(), args[1:], args[0], session,
			logger.WithNamespace("transfer"))
		printReport(report)
		return err
	},
}

func printReport(report *transfer.Report) {
	if report == nil {
		return
	}
	for _, item := range report.Items {
		switch item.Status {
		case transfer.StatusWritten:
			fmt.Printf("written  %s\n", item.Target)
		case transfer.StatusSkipped:
			fmt.Printf("skipped  %s\n", item.Target)
		case transfer.StatusFailed:
			errPrintfln("failed   %s: %s", item.Target, item.Err)
		}
	}
}

// stdinPrompter asks the overwrite question on the terminal. An unreadable
// answer counts as a cancellation.
func stdinPrompter() confirm.Prompter {
	reader := bufio.NewReader(os.Stdin)
	return confirm.PrompterFunc(func(ctx context.Context, target string) (confirm.Choice, error) {
		fmt.Printf("%s already exists, overwrite? [y]es / yes to [a]ll / [n]o / [N]o to all / [c]ancel: ", target)
		line, err := reader.ReadString('\n')
		if err != nil {
			return confirm.Cancel, confirm.ErrCancelled
		}
		switch strings.TrimSpace(line) {
		case "y", "yes":
			return confirm.Yes, nil
		case "a", "all":
			return confirm.YesToAll, nil
		case "n", "no":
			return confirm.No, nil
		case "N", "none":
			return confirm.NoToAll, nil
		default:
			return confirm.Cancel, nil
		}
	})
}

func init() {
	downloadCmd.Flags().StringVarP(&flagDownloadDir, "dir", "d", ".", "destination directory")
	downloadCmd.Flags().BoolVar(&flagDownloadGists, "gists", false, "arguments are gist ids, download whole gists")

	RootCmd.AddCommand(downloadCmd)
	RootCmd.AddCommand(uploadCmd)
}
