package cli

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/serh11pashkov/resumebuilder/internal/session"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Sign in and store the session credentials",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := promptPassword("Password: ")
		if err != nil {
			return err
		}
		store := newStore()
		id, err := store.Login(cmd.Context(), args[0], password)
		if err != nil {
			return err
		}
		fmt.Printf("logged in as %s (id %s)\n", id.Username, id.PrimaryID)
		fmt.Printf("roles: %s\n", joinRoles(id.Roles))
		if id.Degraded {
			fmt.Fprintln(os.Stderr, "warning: the server sent no account ID; a placeholder was stored and some operations may be rejected")
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored credentials",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		api, store := newClient()
		if store.Current() != nil {
			// Revoke the token server-side; local logout happens regardless.
			if err := api.Signout(cmd.Context()); err != nil {
				fmt.Fprintln(os.Stderr, "warning: server signout failed:", err)
			}
		}
		if err := store.Logout(); err != nil {
			return err
		}
		fmt.Println("logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current identity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := newStore()
		id, err := requireIdentity(store, "")
		if err != nil {
			return err
		}
		fmt.Printf("username: %s\n", id.Username)
		fmt.Printf("id:       %s\n", id.PrimaryID)
		if id.Email != "" {
			fmt.Printf("email:    %s\n", id.Email)
		}
		fmt.Printf("roles:    %s\n", joinRoles(id.Roles))
		return nil
	},
}

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change the current account's password",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		api, store := newClient()
		if _, err := requireIdentity(store, ""); err != nil {
			return err
		}
		current, err := promptPassword("Current password: ")
		if err != nil {
			return err
		}
		next, err := promptPassword("New password: ")
		if err != nil {
			return err
		}
		confirm, err := promptPassword("Confirm new password: ")
		if err != nil {
			return err
		}
		if next != confirm {
			return fmt.Errorf("passwords do not match")
		}
		if err := api.ChangePassword(cmd.Context(), current, next); err != nil {
			return err
		}
		fmt.Println("password updated")
		return nil
	},
}

var registerRoles []string
var registerEmail string

var registerCmd = &cobra.Command{
	Use:   "register <username>",
	Short: "Create a new account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := promptPassword("Password: ")
		if err != nil {
			return err
		}
		confirm, err := promptPassword("Confirm password: ")
		if err != nil {
			return err
		}
		if password != confirm {
			return fmt.Errorf("passwords do not match")
		}
		store := newStore()
		if err := store.Register(cmd.Context(), args[0], registerEmail, password, registerRoles); err != nil {
			return err
		}
		fmt.Println("account created; run `resume login` to sign in")
		return nil
	},
}

func init() {
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "account email address")
	registerCmd.Flags().StringSliceVar(&registerRoles, "role", nil, "role hints for the new account (admin, mod, user)")
	_ = registerCmd.MarkFlagRequired("email")
}

func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	if len(b) == 0 {
		return "", fmt.Errorf("password must not be empty")
	}
	return string(b), nil
}

func joinRoles(roles session.RoleList) string {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}
	return strings.Join(names, ", ")
}
