package command

import (
	"bufio"
	"fmt"
	"strings"

	"veritaslab/cmd/cli/authentication"
	"veritaslab/cmd/cli/command/client"
	"veritaslab/cmd/cli/dto"

	"github.com/spf13/cobra"
)

// auth.go handles authentication commands: register, login, logout and me.

// authCmd represents the auth command for authentication related subcommands
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Authenticate with the VeritasLab API server. Supports register, login, logout and me.`,
}

// registerCmd represents the register command
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new VeritasLab account",
	RunE: func(cmd *cobra.Command, args []string) error {
		// get data from flags
		var req dto.RegisterRequest
		req.Username, _ = cmd.Flags().GetString("username")
		req.Email, _ = cmd.Flags().GetString("email")
		req.Password, _ = cmd.Flags().GetString("password")
		if fullName, _ := cmd.Flags().GetString("full-name"); fullName != "" {
			req.FullName = &fullName
		}
		if req.Password == "" {
			password, err := promptPassword(cmd)
			if err != nil {
				return err
			}
			req.Password = password
		}

		resp, err := newClient().Register(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}
		if err := authentication.SaveSession(client.Session{Token: resp.Token, User: resp.User}); err != nil {
			return fmt.Errorf("registered, but could not store the session: %w", err)
		}

		success(cmd.OutOrStdout(), "Welcome, %s! You are now logged in.", resp.User.DisplayName())
		return nil
	},
}

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to your VeritasLab account",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.LoginRequest
		req.Email, _ = cmd.Flags().GetString("email")
		req.Password, _ = cmd.Flags().GetString("password")
		if req.Password == "" {
			password, err := promptPassword(cmd)
			if err != nil {
				return err
			}
			req.Password = password
		}

		resp, err := newClient().Login(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		if err := authentication.SaveSession(client.Session{Token: resp.Token, User: resp.User}); err != nil {
			return fmt.Errorf("could not store the session: %w", err)
		}

		success(cmd.OutOrStdout(), "Logged in as %s", resp.User.DisplayName())
		return nil
	},
}

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout from your VeritasLab account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := authentication.DeleteSession(); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
		success(cmd.OutOrStdout(), "Successfully logged out.")
		return nil
	},
}

var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Show the signed-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := requireSession()
		if err != nil {
			return err
		}

		user, err := newClient().Me(cmd.Context(), sess)
		if err != nil {
			return fmt.Errorf("failed to load account: %w", err)
		}

		w := cmd.OutOrStdout()
		titleColor.Fprintln(w, user.DisplayName())
		fmt.Fprintf(w, "Username: %s\n", user.Username)
		fmt.Fprintf(w, "Email: %s\n", user.Email)
		fmt.Fprintf(w, "Role: %s\n", user.Role)
		fmt.Fprintf(w, "Publications: %d\n", user.PublicationsCount)
		if user.Bio != nil {
			fmt.Fprintf(w, "Bio: %s\n", *user.Bio)
		}
		return nil
	},
}

// promptPassword reads the password from stdin so it stays out of shell history.
func promptPassword(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// init function to add auth commands to root command
func init() {
	authCmd.AddCommand(registerCmd, loginCmd, logoutCmd, meCmd)

	// add flags for register command
	registerCmd.Flags().StringP("username", "u", "", "Username for the new account")
	registerCmd.Flags().StringP("email", "e", "", "Email address for the new account")
	registerCmd.Flags().StringP("password", "p", "", "Password (prompted when omitted)")
	registerCmd.Flags().String("full-name", "", "Full name shown on your articles")
	registerCmd.MarkFlagRequired("username")
	registerCmd.MarkFlagRequired("email")

	// add flags for login command
	loginCmd.Flags().StringP("email", "e", "", "Email of the account")
	loginCmd.Flags().StringP("password", "p", "", "Password (prompted when omitted)")
	loginCmd.MarkFlagRequired("email")
}
