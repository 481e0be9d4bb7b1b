package auth

import (
	"fmt"

	"github.com/crucial707/travel-journal/cmd/cli/client"
	"github.com/crucial707/travel-journal/cmd/cli/config"
	"github.com/crucial707/travel-journal/cmd/cli/output"
	"github.com/spf13/cobra"
)

// InitAuth registers signup, login, logout and whoami on the root command.
func InitAuth(rootCmd *cobra.Command) {
	rootCmd.AddCommand(signupCmd(), loginCmd(), logoutCmd(), whoamiCmd())
}

// ==========================
// Signup
// ==========================
func signupCmd() *cobra.Command {
	var fullName, email, password string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and store its token",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client.New("").Signup(cmd.Context(), fullName, email, password)
			if err != nil {
				return fmt.Errorf("failed to create account: %w", err)
			}
			return saveAndReport(cmd, resp)
		},
	}

	cmd.Flags().StringVar(&fullName, "name", "", "full name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

// ==========================
// Login
// ==========================
func loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the access token locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client.New("").Login(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("failed to login: %w", err)
			}
			return saveAndReport(cmd, resp)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func saveAndReport(cmd *cobra.Command, resp *client.AuthResponse) error {
	if resp.AccessToken == "" {
		return fmt.Errorf("no token returned")
	}
	if err := config.SaveToken(resp.AccessToken); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s. Logged in as %s <%s>.\n", resp.Message, resp.User.FullName, resp.User.Email)
	return nil
}

// ==========================
// Logout
// ==========================
func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the locally saved token",
		RunE: func(cmd *cobra.Command, args []string) error {
			had, err := config.ClearToken()
			if err != nil {
				return err
			}
			if !had {
				fmt.Fprintln(cmd.OutOrStdout(), "No user logged in.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out successfully.")
			return nil
		},
	}
}

// ==========================
// Whoami
// ==========================
func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Authenticated()
			if err != nil {
				return err
			}
			user, err := c.GetUser(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return output.PrintJSON(cmd.OutOrStdout(), user)
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"ID", "Name", "Email", "Member since"}, [][]interface{}{
				{user.ID.String(), user.FullName, user.Email, user.CreatedOn.Format("2006-01-02")},
			})
			return nil
		},
	}
}
