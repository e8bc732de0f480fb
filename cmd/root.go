package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gistfs/gistfs/model/gist"
	"github.com/gistfs/gistfs/model/vfs"
	"github.com/gistfs/gistfs/pkg/config"
	"github.com/gistfs/gistfs/pkg/github"
	"github.com/gistfs/gistfs/pkg/logger"
	"github.com/gistfs/gistfs/pkg/realtime"
)

var cfgFile string

// ErrUsage is returned by the cmd.Usage() method
var ErrUsage = errors.New("Bad usage of command")

var errNoToken = errors.New("no GitHub token configured, run: gistfs auth")

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "gistfs",
	Short: "gistfs presents your GitHub gists as a file system",
	Long: `gistfs presents your GitHub gists as a file system: each gist is a folder
named by its id, each file of the gist is a file inside it. You can list,
read, edit, rename and delete gist files, and move whole sets of files
between your disk and your gists.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Setup(cfgFile); err != nil {
			return err
		}
		return logger.Init(logger.Options{Level: config.LogLevel()})
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Display the usage/help by default
		return cmd.Usage()
	},
	// Do not display usage on error
	SilenceUsage: true,
	// We have our own way to display error messages
	SilenceErrors: true,
}

// newFS builds the whole stack for one command invocation: the gateway
// authenticated with the configured token, a fresh store, and the file
// system adapter on top of them.
func newFS() (*vfs.FileSystem, gist.Gateway, error) {
	gw, err := newGateway()
	if err != nil {
		return nil, nil, err
	}
	store := gist.NewStore()
	fsys := vfs.New(store, gw, realtime.NewHub(), logger.WithNamespace("vfs"))
	return fsys, gw, nil
}

func newGateway() (gist.Gateway, error) {
	token := config.Token()
	if token == "" {
		return nil, errNoToken
	}
	return github.New(github.Options{
		Token:  token,
		Logger: logger.WithNamespace("github"),
	})
}

func init() {
	usageFunc := RootCmd.UsageFunc()

	RootCmd.SetUsageFunc(func(cmd *cobra.Command) error {
		usageFunc(cmd)
		return ErrUsage
	})

	flags := RootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "configuration file (default \"$HOME/.gistfs.yaml\")")

	flags.String("log-level", "info", "define the log level")
	checkNoErr(viper.BindPFlag("log.level", flags.Lookup("log-level")))
}

func checkNoErr(err error) {
	if err != nil {
		panic(err)
	}
}

func readAllStdin() (string, error) {
	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func errPrintfln(format string, vals ...interface{}) {
	_, err := fmt.Fprintf(os.Stderr, format+"\n", vals...)
	if err != nil {
		panic(err)
	}
}
