package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gistfs/gistfs/pkg/config"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Store the GitHub access token",
	Long: `Store the GitHub access token used to reach your gists.

The token needs the "gist" scope. It is read from the terminal without
echo, or from stdin when the input is not a terminal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := readToken()
		if err != nil {
			return err
		}
		if token == "" {
			return fmt.Errorf("empty token")
		}
		if err := config.SetToken(token); err != nil {
			return err
		}
		fmt.Println("Token saved")
		return nil
	},
}

func readToken() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Print("GitHub token: ")
		raw, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(raw)), nil
	}
	var token string
	if _, err := fmt.Fscanln(os.Stdin, &token); err != nil {
		return "", err
	}
	return strings.TrimSpace(token), nil
}

func init() {
	RootCmd.AddCommand(authCmd)
}
