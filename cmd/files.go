package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gistfs/gistfs/model/confirm"
	"github.com/gistfs/gistfs/model/vfs"
)

var flagPutCreate bool
var flagPutNoOverwrite bool

var catCmd = &cobra.Command{
	Use:   "cat <gist://id/file>",
	Short: "Print the content of a gist file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := vfs.Parse(args[0])
		if err != nil {
			return err
		}
		fsys, _, err := newFS()
		if err != nil {
			return err
		}
		data, err := fsys.ReadFile(cmd.Context(), addr)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

var putCmd = &cobra.Command{
	Use:   "put <gist://id/file> [content]",
	Short: "Write the content of a gist file",
	Long: `Write a gist file. The content is taken from the argument, or from stdin
when no argument is given. By default the file is created when missing
and overwritten when present.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := vfs.Parse(args[0])
		if err != nil {
			return err
		}
		content := ""
		if len(args) == 2 {
			content = args[1]
		} else {
			content, err = readAllStdin()
			if err != nil {
				return err
			}
		}
		fsys, _, err := newFS()
		if err != nil {
			return err
		}
		return fsys.WriteFile(cmd.Context(), addr, []byte(content), vfs.WriteOptions{
			Create:    flagPutCreate,
			Overwrite: !flagPutNoOverwrite,
		})
	},
}

var mvCmd = &cobra.Command{
	Use:   "mv <gist://id/old> <gist://id/new>",
	Short: "Rename a gist file",
	Long: `Rename a file inside its gist. When the new name is already taken, you
are asked before the existing file is replaced.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		oldAddr, err := vfs.Parse(args[0])
		if err != nil {
			return err
		}
		newAddr, err := vfs.Parse(args[1])
		if err != nil {
			return err
		}
		fsys, _, err := newFS()
		if err != nil {
			return err
		}
		session := confirm.NewSession(stdinPrompter(), fsys.Exists)
		return fsys.Rename(cmd.Context(), oldAddr, newAddr, session)
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <gist://id/file> [file...]",
	Short: "Delete files from a gist",
	Long: `Delete one or more files of the same gist. With several names, the
deletion travels as one update: either all files are removed or none.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gistID, names, err := parseRemovalArgs(args)
		if err != nil {
			return err
		}
		fsys, _, err := newFS()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			// a bare gist address removes the whole gist
			return fsys.Delete(cmd.Context(), vfs.Address{GistID: gistID})
		}
		return fsys.DeleteFiles(cmd.Context(), gistID, names)
	},
}

// parseRemovalArgs validates the rm arguments: either one bare gist
// address, or one or more file addresses of the same gist. An empty names
// slice means the whole gist.
func parseRemovalArgs(args []string) (string, []string, error) {
	first, err := vfs.Parse(args[0])
	if err != nil {
		return "", nil, err
	}
	if first.IsRoot() {
		return "", nil, fmt.Errorf("%s: %w", args[0], vfs.ErrInvalidAddress)
	}
	if first.Name == "" {
		if len(args) > 1 {
			return "", nil, fmt.Errorf("%s: %w: a whole-gist removal takes no other address",
				args[0], vfs.ErrInvalidAddress)
		}
		return first.GistID, nil, nil
	}
	names := []string{first.Name}
	for _, raw := range args[1:] {
		addr, err := vfs.Parse(raw)
		if err != nil {
			return "", nil, err
		}
		if addr.GistID != first.GistID || addr.Name == "" {
			return "", nil, fmt.Errorf("%s: %w: all addresses must be files of gist %s",
				raw, vfs.ErrInvalidAddress, first.GistID)
		}
		names = append(names, addr.Name)
	}
	return first.GistID, names, nil
}

var mkdirCmd = &cobra.Command{
	Use:   "mkdir <gist://id>",
	Short: "Accept a directory creation on a gist address",
	Long: `Gists have no real directories, so this never creates anything. The
command accepts an existing gist address and succeeds without effect,
and rejects everything else.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := vfs.Parse(args[0])
		if err != nil {
			return err
		}
		fsys, _, err := newFS()
		if err != nil {
			return err
		}
		return fsys.Mkdir(cmd.Context(), addr)
	},
}

func init() {
	putCmd.Flags().BoolVar(&flagPutCreate, "create", true, "create the file when it does not exist")
	putCmd.Flags().BoolVar(&flagPutNoOverwrite, "no-overwrite", false, "fail instead of replacing an existing file")

	RootCmd.AddCommand(catCmd)
	RootCmd.AddCommand(putCmd)
	RootCmd.AddCommand(mvCmd)
	RootCmd.AddCommand(rmCmd)
	RootCmd.AddCommand(mkdirCmd)
}
