// gistfs presents GitHub gists as a file system: each gist is a folder
// named by its id, each file of the gist a file inside it. The command
// line lets you list, read, write, rename and delete gist files, and
// move whole batches of files between your disk and your gists.
package main

import (
	"fmt"
	"os"

	"github.com/gistfs/gistfs/cmd"
)

func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		if err != cmd.ErrUsage {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error()) // #nosec
			os.Exit(1)
		}
	}
}
