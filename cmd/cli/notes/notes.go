package notes

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/muhzarfan/backend-cttn/cmd/cli/api"
	"github.com/muhzarfan/backend-cttn/cmd/cli/config"
	"github.com/muhzarfan/backend-cttn/cmd/cli/output"
)

type noteView struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Tags      string `json:"tags"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type listData struct {
	Notes      []noteView `json:"notes"`
	Pagination struct {
		CurrentPage int   `json:"currentPage"`
		TotalPages  int   `json:"totalPages"`
		Total       int64 `json:"total"`
	} `json:"pagination"`
}

type statsData struct {
	Stats struct {
		TotalNotes           int64   `json:"totalNotes"`
		TotalTags            int64   `json:"totalTags"`
		AverageContentLength float64 `json:"averageContentLength"`
		LatestNote           *string `json:"latestNote"`
		OldestNote           *string `json:"oldestNote"`
	} `json:"stats"`
}

// InitNotes registers note-related CLI commands on the root command.
func InitNotes(rootCmd *cobra.Command) {
	notesCmd := &cobra.Command{
		Use:   "notes",
		Short: "Work with your notes",
	}
	notesCmd.AddCommand(listCmd())
	notesCmd.AddCommand(createCmd())
	rootCmd.AddCommand(notesCmd)
	rootCmd.AddCommand(statsCmd())
}

func requireToken() (string, error) {
	token := config.LoadToken()
	if token == "" {
		return "", fmt.Errorf("not logged in, run: cttn login")
	}
	return token, nil
}

func listCmd() *cobra.Command {
	var page, limit int
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := requireToken()
			if err != nil {
				return err
			}
			q := url.Values{}
			q.Set("page", strconv.Itoa(page))
			q.Set("limit", strconv.Itoa(limit))
			if search != "" {
				q.Set("search", search)
			}
			var out listData
			if err := api.Call("GET", "/api/notes?"+q.Encode(), token, nil, &out); err != nil {
				return fmt.Errorf("list notes: %w", err)
			}
			rows := make([][]interface{}, 0, len(out.Notes))
			for _, n := range out.Notes {
				rows = append(rows, []interface{}{n.ID, n.Title, n.Tags, n.CreatedAt, n.UpdatedAt})
			}
			output.RenderTable([]string{"ID", "Title", "Tags", "Created", "Updated"}, rows)
			fmt.Printf("Page %d of %d (%d notes total)\n",
				out.Pagination.CurrentPage, out.Pagination.TotalPages, out.Pagination.Total)
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Page to fetch (1-indexed)")
	cmd.Flags().IntVar(&limit, "limit", 10, "Notes per page")
	cmd.Flags().StringVar(&search, "search", "", "Substring search over title/content/tags")
	return cmd
}

func createCmd() *cobra.Command {
	var title, content, tags string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a note",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := requireToken()
			if err != nil {
				return err
			}
			var out struct {
				Note noteView `json:"note"`
			}
			err = api.Call("POST", "/api/notes", token, map[string]string{
				"title":   title,
				"content": content,
				"tags":    tags,
			}, &out)
			if err != nil {
				return fmt.Errorf("create note: %w", err)
			}
			fmt.Printf("Created note %s (%s)\n", out.Note.ID, out.Note.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Note title")
	cmd.Flags().StringVar(&content, "content", "", "Note content")
	cmd.Flags().StringVar(&tags, "tags", "", "Free-text tags, e.g. \"work #ideas\"")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate statistics over your notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := requireToken()
			if err != nil {
				return err
			}
			var out statsData
			if err := api.Call("GET", "/api/notes/stats", token, nil, &out); err != nil {
				return fmt.Errorf("stats: %w", err)
			}
			s := out.Stats
			latest, oldest := "-", "-"
			if s.LatestNote != nil {
				latest = *s.LatestNote
			}
			if s.OldestNote != nil {
				oldest = *s.OldestNote
			}
			output.RenderTable(
				[]string{"Total notes", "Total tags", "Avg content length", "Latest", "Oldest"},
				[][]interface{}{{s.TotalNotes, s.TotalTags, fmt.Sprintf("%.1f", s.AverageContentLength), latest, oldest}},
			)
			return nil
		},
	}
}
