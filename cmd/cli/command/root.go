package command

// root.go defines the root command for the veritas CLI.
// Global flags and shared helpers live here.

import (
	"fmt"
	"os"
	"strconv"

	"veritaslab/cmd/cli/authentication"
	"veritaslab/cmd/cli/command/client"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	apiURL  string // Global flag for API server URL
	noColor bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "veritas",
	Short: "veritas - VeritasLab Command Line Interface",
	Long: `veritas is a tool to interact with the VeritasLab API. You can use it to:
- Browse, search and cite published articles
- Submit manuscripts and follow their review
- Review pending submissions (admins)
- Read your notifications

Use "veritas command --help" to see all available commands.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error:"), err)
		os.Exit(1)
	}
}

func init() {
	defaultAPI := os.Getenv("VERITAS_API")
	if defaultAPI == "" {
		defaultAPI = "http://localhost:4000"
	}

	// Global persistent flags = available to all subcommands
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", defaultAPI, "API server URL (env VERITAS_API)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(authCmd, articlesCmd, commentsCmd, submissionsCmd, adminCmd, notificationsCmd)
}

func newClient() *client.HTTPClient {
	return client.NewHTTPClient(apiURL)
}

// currentSession loads the stored session; a signed-out user gets a zero Session.
func currentSession() (client.Session, error) {
	return authentication.LoadSession()
}

// requireSession is currentSession for commands that make no sense signed out.
func requireSession() (client.Session, error) {
	sess, err := currentSession()
	if err != nil {
		return sess, err
	}
	if !sess.LoggedIn() {
		return sess, client.ErrNotLoggedIn
	}
	return sess, nil
}

func parseIDArg(arg, what string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID: %q", what, arg)
	}
	return id, nil
}
