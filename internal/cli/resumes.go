package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	dom "github.com/serh11pashkov/resumebuilder/internal/domain"
	"github.com/serh11pashkov/resumebuilder/internal/dto"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your resumes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		api, store := newClient()
		if _, err := requireIdentity(store, ""); err != nil {
			return err
		}
		items, err := api.MyResumes(cmd.Context())
		if err != nil {
			return err
		}
		printResumeTable(items)
		return nil
	},
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "List every resume (admin only)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		api, store := newClient()
		if _, err := requireIdentity(store, dom.RoleAdmin); err != nil {
			return err
		}
		items, err := api.AllResumes(cmd.Context())
		if err != nil {
			return err
		}
		printResumeTable(items)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a resume as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		api, store := newClient()
		if _, err := requireIdentity(store, ""); err != nil {
			return err
		}
		r, err := api.Resume(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printJSON(r)
	},
}

var createFile string

var createCmd = &cobra.Command{
	Use:   "create --file resume.json",
	Short: "Create a resume from a JSON file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := readResumeFile(createFile)
		if err != nil {
			return err
		}
		api, store := newClient()
		if _, err := requireIdentity(store, ""); err != nil {
			return err
		}
		r, err := api.CreateResume(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Printf("created resume %d: %s\n", r.ID, r.Title)
		return nil
	},
}

var updateFile string

var updateCmd = &cobra.Command{
	Use:   "update <id> --file resume.json",
	Short: "Replace a resume's content from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		req, err := readResumeFile(updateFile)
		if err != nil {
			return err
		}
		api, store := newClient()
		if _, err := requireIdentity(store, ""); err != nil {
			return err
		}
		r, err := api.UpdateResume(cmd.Context(), id, req)
		if err != nil {
			return err
		}
		fmt.Printf("updated resume %d: %s\n", r.ID, r.Title)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a resume",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		api, store := newClient()
		if _, err := requireIdentity(store, ""); err != nil {
			return err
		}
		if err := api.DeleteResume(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("deleted resume %d\n", id)
		return nil
	},
}

var publishCmd = &cobra.Command{
	Use:   "publish <id>",
	Short: "Publish a resume to the public gallery",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		api, store := newClient()
		if _, err := requireIdentity(store, ""); err != nil {
			return err
		}
		r, err := api.Publish(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Printf("published: %s/api/public/resumes/%s\n", serverURL, r.PublicURL)
		return nil
	},
}

var unpublishCmd = &cobra.Command{
	Use:   "unpublish <id>",
	Short: "Remove a resume from the public gallery",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		api, store := newClient()
		if _, err := requireIdentity(store, ""); err != nil {
			return err
		}
		if _, err := api.Unpublish(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("unpublished resume %d\n", id)
		return nil
	},
}

var galleryCmd = &cobra.Command{
	Use:   "gallery",
	Short: "List all published resumes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		api, _ := newClient()
		items, err := api.Gallery(cmd.Context())
		if err != nil {
			return err
		}
		for _, r := range items {
			fmt.Printf("%-36s  %s\n", r.PublicURL, r.Title)
		}
		return nil
	},
}

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <id> --out resume.pdf",
	Short: "Export a resume as PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		api, store := newClient()
		if _, err := requireIdentity(store, ""); err != nil {
			return err
		}
		doc, err := api.ExportPDF(cmd.Context(), id)
		if err != nil {
			return err
		}
		out := exportOut
		if out == "" {
			out = fmt.Sprintf("resume-%d.pdf", id)
		}
		if err := os.WriteFile(out, doc, 0o644); err != nil {
			return err
		}
		fmt.Printf("wrote %s (%d bytes)\n", out, len(doc))
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&createFile, "file", "", "resume JSON file")
	_ = createCmd.MarkFlagRequired("file")
	updateCmd.Flags().StringVar(&updateFile, "file", "", "resume JSON file")
	_ = updateCmd.MarkFlagRequired("file")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default resume-<id>.pdf)")
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid resume id %q", s)
	}
	return id, nil
}

func readResumeFile(path string) (dto.CreateResumeRequest, error) {
	var req dto.CreateResumeRequest
	data, err := os.ReadFile(path)
	if err != nil {
		return req, err
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("%s: %w", path, err)
	}
	return req, nil
}

func printResumeTable(items []dto.ResumeResponse) {
	if len(items) == 0 {
		fmt.Println("no resumes")
		return
	}
	for _, r := range items {
		visibility := "private"
		if r.IsPublic {
			visibility = "public"
		}
		fmt.Printf("%5d  %-8s  %-10s  %s\n", r.ID, visibility, r.TemplateName, r.Title)
	}
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
