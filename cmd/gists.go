package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/gistfs/gistfs/model/tree"
	"github.com/gistfs/gistfs/pkg/config"
	"github.com/gistfs/gistfs/pkg/logger"
)

var flagNewDescription string
var flagNewPublic bool
var flagNewFilename string

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the gists and their files",
	Long: `List your gists, your starred gists, the gists of the users you follow,
and the gists you opened by id, with their files.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fsys, gw, err := newFS()
		if err != nil {
			return err
		}
		provider := tree.NewProvider(fsys.Store(), gw, logger.WithNamespace("tree"))
		provider.SortBy, provider.Direction = tree.ParseSort(config.SortType(), config.SortDirection())

		root, err := provider.Refresh(cmd.Context(), config.FollowedUsers(), config.OpenedGists())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
		for _, group := range root.Children {
			fmt.Fprintf(w, "%s\n", group.Label)
			printNodes(w, group.Children, 1)
		}
		return w.Flush()
	},
}

func printNodes(w *tabwriter.Writer, nodes []*tree.Node, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	for _, node := range nodes {
		switch node.Kind {
		case tree.KindOwner:
			fmt.Fprintf(w, "%s%s\n", indent, node.Label)
		case tree.KindGist:
			marker := ""
			if node.ReadOnly {
				marker = " (read-only)"
			}
			fmt.Fprintf(w, "%s%s\t%s\tupdated %s%s\n",
				indent, node.Label, node.Gist.ID, humanize.Time(node.Gist.UpdatedAt), marker)
		case tree.KindFile:
			fmt.Fprintf(w, "%s%s\t%s\t%s\n",
				indent, node.Label, node.Address(), humanize.Bytes(uint64(node.File.Size)))
		}
		printNodes(w, node.Children, depth+1)
	}
}

var newCmd = &cobra.Command{
	Use:   "new [content]",
	Short: "Create a new gist",
	Long: `Create a new gist with a single file. The content is taken from the
argument, or from stdin when no argument is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		content := ""
		if len(args) > 0 {
			content = args[0]
		} else {
			raw, err := readAllStdin()
			if err != nil {
				return err
			}
			content = raw
		}
		gw, err := newGateway()
		if err != nil {
			return err
		}
		g, err := gw.Create(cmd.Context(), flagNewDescription, flagNewPublic,
			map[string]string{flagNewFilename: content})
		if err != nil {
			return err
		}
		fmt.Println(g.ID)
		return nil
	},
}

var rmGistCmd = &cobra.Command{
	Use:   "rm-gist <gist-id>",
	Short: "Delete a whole gist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gw, err := newGateway()
		if err != nil {
			return err
		}
		return gw.Delete(cmd.Context(), args[0])
	},
}

var openCmd = &cobra.Command{
	Use:   "open <gist-id>",
	Short: "Open a gist by id",
	Long: `Add a gist id to the opened list, so that it shows up in the listing even
when it belongs to someone else. Opened gists are read-only unless you
own them.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return config.OpenGist(args[0])
	},
}

var closeCmd = &cobra.Command{
	Use:   "close <gist-id>",
	Short: "Remove a gist from the opened list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return config.CloseGist(args[0])
	},
}

var followCmd = &cobra.Command{
	Use:   "follow <login>",
	Short: "Follow a user to list their gists",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return config.AddFollowedUser(args[0])
	},
}

var unfollowCmd = &cobra.Command{
	Use:   "unfollow <login>",
	Short: "Stop following a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return config.RemoveFollowedUser(args[0])
	},
}

var sortCmd = &cobra.Command{
	Use:   "sort <name|created|updated> [asc|desc]",
	Short: "Set the sort order of the gists listing",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		direction := string(tree.SortAscending)
		if len(args) == 2 {
			direction = args[1]
		}
		st, sd := tree.ParseSort(args[0], direction)
		if string(st) != args[0] || string(sd) != direction {
			return fmt.Errorf("unknown sort order %q %q", args[0], direction)
		}
		return config.SetSort(string(st), string(sd))
	},
}

func init() {
	newCmd.Flags().StringVarP(&flagNewDescription, "description", "d", "", "description of the new gist")
	newCmd.Flags().BoolVar(&flagNewPublic, "public", false, "make the new gist public")
	newCmd.Flags().StringVarP(&flagNewFilename, "filename", "f", "gistfile.txt", "name of the first file")

	RootCmd.AddCommand(lsCmd)
	RootCmd.AddCommand(newCmd)
	RootCmd.AddCommand(rmGistCmd)
	RootCmd.AddCommand(openCmd)
	RootCmd.AddCommand(closeCmd)
	RootCmd.AddCommand(followCmd)
	RootCmd.AddCommand(unfollowCmd)
	RootCmd.AddCommand(sortCmd)
}
