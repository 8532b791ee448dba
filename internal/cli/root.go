// Package cli implements the resume command-line client.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/serh11pashkov/resumebuilder/internal/client"
	"github.com/serh11pashkov/resumebuilder/internal/session"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	credsPath string
)

var rootCmd = &cobra.Command{
	Use:           "resume",
	Short:         "Resume builder client",
	Long:          "Create, edit, publish and export resumes against a resumebuilder server.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server",
		envOr("RESUME_SERVER", "http://localhost:8080"), "backend base URL")
	rootCmd.PersistentFlags().StringVar(&credsPath, "credentials", "",
		"credentials file (default: <user config dir>/resumebuilder/credentials.json)")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, registerCmd, passwdCmd)
	rootCmd.AddCommand(listCmd, allCmd, showCmd, createCmd, updateCmd, deleteCmd)
	rootCmd.AddCommand(publishCmd, unpublishCmd, galleryCmd, exportCmd)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newStore() *session.Store {
	path := credsPath
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = "."
		}
		path = filepath.Join(dir, "resumebuilder", "credentials.json")
	}
	return session.NewStore(serverURL, path)
}

func newClient() (*client.Client, *session.Store) {
	s := newStore()
	return client.New(serverURL, s), s
}

// requireIdentity runs the authorization gate before a command touches the
// backend. An empty role means any signed-in identity passes.
func requireIdentity(s *session.Store, role string) (*session.Identity, error) {
	id := s.Current()
	switch session.Check(id, role) {
	case session.RedirectLogin:
		return nil, fmt.Errorf("not logged in; run `resume login <username>` first")
	case session.RedirectHome:
		return nil, fmt.Errorf("this command requires the %s role", role)
	}
	if id.Degraded {
		fmt.Fprintln(os.Stderr, "warning: using a placeholder account ID; some operations may be rejected, log in again to refresh it")
	}
	return id, nil
}
