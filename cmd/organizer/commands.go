package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/carpeta/organizer/internal/calendar"
	"github.com/carpeta/organizer/internal/config"
	"github.com/carpeta/organizer/internal/models"
	"github.com/carpeta/organizer/internal/persistence"
	"github.com/carpeta/organizer/internal/workspace"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// findFolder resolves an id, an id prefix or a case-insensitive name. An
// empty ref means the current folder.
func findFolder(s *workspace.Store, ref string) (models.Folder, error) {
	if ref == "" {
		if f, ok := s.CurrentFolder(); ok {
			return f, nil
		}
		return models.Folder{}, fmt.Errorf("no folder selected")
	}
	folders := s.Folders()
	for _, f := range folders {
		if f.ID == ref {
			return f, nil
		}
	}
	var match []models.Folder
	for _, f := range folders {
		if strings.EqualFold(f.Name, ref) || strings.HasPrefix(f.ID, ref) {
			match = append(match, f)
		}
	}
	switch len(match) {
	case 0:
		return models.Folder{}, fmt.Errorf("folder not found: %s", ref)
	case 1:
		return match[0], nil
	}
	return models.Folder{}, fmt.Errorf("folder %q is ambiguous (%d matches)", ref, len(match))
}

// findDocument resolves a document id or unique id prefix inside folder.
func findDocument(s *workspace.Store, folderID, ref string) (models.Document, error) {
	docs, err := s.Documents(folderID)
	if err != nil {
		return models.Document{}, err
	}
	var match []models.Document
	for _, d := range docs {
		if d.ID == ref {
			return d, nil
		}
		if strings.HasPrefix(d.ID, ref) {
			match = append(match, d)
		}
	}
	if len(match) == 1 {
		return match[0], nil
	}
	if len(match) == 0 {
		return models.Document{}, fmt.Errorf("document not found: %s", ref)
	}
	return models.Document{}, fmt.Errorf("document %q is ambiguous (%d matches)", ref, len(match))
}

// findEvent resolves an event id or unique id prefix.
func findEvent(s *workspace.Store, ref string) (models.Event, error) {
	if strings.TrimSpace(ref) == "" {
		return models.Event{}, fmt.Errorf("event id is empty")
	}
	var match []models.Event
	for _, e := range s.Events() {
		if e.ID == ref {
			return e, nil
		}
		if strings.HasPrefix(e.ID, ref) {
			match = append(match, e)
		}
	}
	switch len(match) {
	case 0:
		return models.Event{}, fmt.Errorf("event not found: %s", ref)
	case 1:
		return match[0], nil
	}
	return models.Event{}, fmt.Errorf("event %q is ambiguous (%d matches)", ref, len(match))
}

func foldersCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "folders",
		Short: "List folders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, cfg, func(a *app) error {
				renderFolders(cmd.OutOrStdout(), a.store)
				return nil
			})
		},
	}
}

func folderCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folder",
		Short: "Create or rename folders",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add [name]",
		Short: "Create a folder",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, cfg, func(a *app) error {
				f, err := a.store.CreateFolder(strings.Join(args, " "))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created folder %s  %s\n", shortID(f.ID), f.Name)
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "rename [folder] [new name]",
		Short: "Rename a folder",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, cfg, func(a *app) error {
				f, err := findFolder(a.store, args[0])
				if err != nil {
					return err
				}
				name := strings.Join(args[1:], " ")
				if err := a.store.RenameFolder(f.ID, name); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s\n", f.Name, strings.TrimSpace(name))
				return nil
			})
		},
	})
	return cmd
}

func docCmd(cfg *config.Config) *cobra.Command {
	var folder string
	cmd := &cobra.Command{
		Use:   "doc",
		Short: "Work with documents",
	}
	cmd.PersistentFlags().StringVarP(&folder, "folder", "f", "", "folder id or name (default: first folder)")

	cmd.AddCommand(&cobra.Command{
		Use:   "new [title]",
		Short: "Create an empty document",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, cfg, func(a *app) error {
				f, err := findFolder(a.store, folder)
				if err != nil {
					return err
				}
				d, err := a.store.CreateDocument(f.ID, strings.Join(args, " "))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s  %s in %s\n", shortID(d.ID), d.Title, f.Name)
				return nil
			})
		},
	})

	var title, content, file string
	save := &cobra.Command{
		Use:   "save [document]",
		Short: "Overwrite a document's title and content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, cfg, func(a *app) error {
				f, err := findFolder(a.store, folder)
				if err != nil {
					return err
				}
				d, err := findDocument(a.store, f.ID, args[0])
				if err != nil {
					return err
				}
				newTitle, newContent := d.Title, d.Content
				if cmd.Flags().Changed("title") {
					newTitle = title
				}
				switch {
				case file == "-":
					b, err := io.ReadAll(cmd.InOrStdin())
					if err != nil {
						return err
					}
					newContent = string(b)
				case file != "":
					b, err := os.ReadFile(file)
					if err != nil {
						return err
					}
					newContent = string(b)
				case cmd.Flags().Changed("content"):
					newContent = content
				}
				if err := a.store.SaveDocument(f.ID, d.ID, newTitle, newContent); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %s  %s\n", shortID(d.ID), newTitle)
				return nil
			})
		},
	}
	save.Flags().StringVar(&title, "title", "", "new title")
	save.Flags().StringVar(&content, "content", "", "new content")
	save.Flags().StringVar(&file, "file", "", "read content from a file, - for stdin")
	cmd.AddCommand(save)

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List documents of a folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, cfg, func(a *app) error {
				f, err := findFolder(a.store, folder)
				if err != nil {
					return err
				}
				docs, err := a.store.Documents(f.ID)
				if err != nil {
					return err
				}
				if len(docs) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No documents in %s. Use 'organizer doc new' to create one.\n", f.Name)
					return nil
				}
				renderDocuments(cmd.OutOrStdout(), docs, time.Now())
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show [document]",
		Short: "Print a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, cfg, func(a *app) error {
				f, err := findFolder(a.store, folder)
				if err != nil {
					return err
				}
				d, err := findDocument(a.store, f.ID, args[0])
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "ID:      %s\n", d.ID)
				fmt.Fprintf(w, "Title:   %s\n", d.Title)
				fmt.Fprintf(w, "Folder:  %s\n", f.Name)
				fmt.Fprintf(w, "Created: %s\n", d.CreatedAt.Local().Format("2006-01-02 15:04"))
				fmt.Fprintf(w, "Updated: %s\n", d.UpdatedAt.Local().Format("2006-01-02 15:04"))
				fmt.Fprintf(w, "\n%s\n", d.Content)
				return nil
			})
		},
	})
	return cmd
}

func eventCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Add or remove calendar events",
	}

	var in workspace.EventInput
	var typ string
	add := &cobra.Command{
		Use:   "add [title]",
		Short: "Add an event",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, cfg, func(a *app) error {
				in.Title = strings.Join(args, " ")
				in.Type = models.EventType(typ)
				if in.Date == "" {
					in.Date = models.DateOf(time.Now()).String()
				}
				e, err := a.store.CreateEventWith(in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s  %s on %s\n", shortID(e.ID), e.Title, e.Date)
				return nil
			})
		},
	}
	add.Flags().StringVarP(&in.Date, "date", "d", "", "date, YYYY-MM-DD (default today)")
	add.Flags().StringVarP(&in.Time, "time", "t", "", "time of day, HH:MM")
	add.Flags().StringVar(&typ, "type", "", "deadline, exam, class or meeting")
	add.Flags().StringVar(&in.Description, "desc", "", "description")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:     "rm [event]",
		Aliases: []string{"delete"},
		Short:   "Delete an event",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, cfg, func(a *app) error {
				e, err := findEvent(a.store, args[0])
				if err != nil {
					return err
				}
				if err := a.store.DeleteEvent(e.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s  %s\n", shortID(e.ID), e.Title)
				return nil
			})
		},
	})
	return cmd
}

func eventsCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "events [date]",
		Short: "List events on a day (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, cfg, func(a *app) error {
				if len(args) == 1 {
					d, err := models.ParseDate(args[0])
					if err != nil {
						return err
					}
					a.store.SelectDate(d)
				}
				d := a.store.SelectedDate()
				events := a.store.EventsOnSelectedDate()
				if len(events) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No events on %s.\n", d)
					return nil
				}
				renderEvents(cmd.OutOrStdout(), events)
				return nil
			})
		},
	}
}

func calendarCmd(cfg *config.Config) *cobra.Command {
	var sundayFirst bool
	var shift int
	cmd := &cobra.Command{
		Use:   "calendar [YYYY-MM]",
		Short: "Show a month with event markers",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			today := models.DateOf(time.Now())
			year, month := today.Year, today.Month
			if len(args) == 1 {
				var err error
				if year, month, err = parseMonth(args[0]); err != nil {
					return err
				}
			}
			year, month = calendar.ShiftMonth(year, month, shift)
			weekStart := calendar.DefaultWeekStart
			if sundayFirst {
				weekStart = time.Sunday
			}
			return withApp(cmd, cfg, func(a *app) error {
				idx := calendar.NewEventIndex(a.store.Events())
				renderMonth(cmd.OutOrStdout(), weekStart, year, month, today, a.store.SelectedDate(), idx)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&sundayFirst, "sunday", false, "start weeks on Sunday")
	cmd.Flags().IntVarP(&shift, "shift", "s", 0, "move that many months forward (negative: back)")
	return cmd
}

func exportCmd(cfg *config.Config) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the whole workspace as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, cfg, func(a *app) error {
				return exportSnapshot(cmd.OutOrStdout(), a.store.Snapshot(), format)
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "json or yaml")
	return cmd
}

func exportSnapshot(w io.Writer, snap *models.Snapshot, format string) error {
	switch format {
	case "json":
		b, err := persistence.Encode(snap)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, b, "", "  "); err != nil {
			return err
		}
		buf.WriteByte('\n')
		_, err = buf.WriteTo(w)
		return err
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(snap)
	}
	return fmt.Errorf("unknown format %q", format)
}

// parseMonth accepts YYYY-MM and YYYY-M.
func parseMonth(s string) (int, time.Month, error) {
	for _, layout := range []string{"2006-01", "2006-1"} {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return t.Year(), t.Month(), nil
		}
	}
	return 0, 0, fmt.Errorf("month %q: want YYYY-MM", s)
}

// parseDay checks a day of month against the month's length.
func parseDay(year int, month time.Month, s string) (models.Date, error) {
	day, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || day < 1 || day > calendar.DaysIn(year, month) {
		return models.Date{}, fmt.Errorf("day %q: want 1-%d", s, calendar.DaysIn(year, month))
	}
	return models.NewDate(year, month, day), nil
}

// remoteCmd queries the sync server's listing endpoints directly.
func remoteCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Query the sync server",
	}
	remote := func() (*persistence.HTTPRemote, error) {
		if opts.remoteURL == "" {
			return nil, fmt.Errorf("no sync server configured, use --remote or REMOTE_URL")
		}
		return persistence.NewHTTPRemote(opts.remoteURL, cfg.Sync.RemoteTimeout), nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "documents [search]",
		Short: "Search documents across folders on the server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := remote()
			if err != nil {
				return err
			}
			items, err := r.ListDocuments(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			renderItems(cmd.OutOrStdout(), items, "id", "title", "subject", "lastEdited")
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "notes [search]",
		Short: "List notes stored on the server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := remote()
			if err != nil {
				return err
			}
			items, err := r.ListNotes(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			renderItems(cmd.OutOrStdout(), items, "id", "title", "color", "lastEdited")
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "events [YYYY-MM] [day]",
		Short: "List events the server knows for a month or a day",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, month, err := parseMonth(args[0])
			if err != nil {
				return err
			}
			var day models.Date
			if len(args) == 2 {
				if day, err = parseDay(year, month, args[1]); err != nil {
					return err
				}
			}
			r, err := remote()
			if err != nil {
				return err
			}
			var items []map[string]interface{}
			if day.IsZero() {
				items, err = r.EventsForMonth(cmd.Context(), year, month)
			} else {
				items, err = r.EventsForDay(cmd.Context(), day)
			}
			if err != nil {
				return err
			}
			renderItems(cmd.OutOrStdout(), items, "date", "time", "type", "title")
			return nil
		},
	})
	return cmd
}
