package stories

import (
	"fmt"
	"strconv"
	"time"

	"github.com/crucial707/travel-journal/cmd/cli/client"
	"github.com/crucial707/travel-journal/cmd/cli/output"
	"github.com/crucial707/travel-journal/internal/models"
	"github.com/spf13/cobra"
)

// ==========================
// Init Stories
// ==========================
func InitStories(rootCmd *cobra.Command) {
	storiesCmd := &cobra.Command{
		Use:   "stories",
		Short: "Manage travel stories",
	}

	storiesCmd.AddCommand(
		listCmd(),
		addCmd(),
		editCmd(),
		deleteCmd(),
		favouriteCmd(),
		searchCmd(),
		filterCmd(),
	)

	rootCmd.AddCommand(storiesCmd)
}

// printStories honours the --json flag.
func printStories(cmd *cobra.Command, stories []models.Story) error {
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return output.PrintJSON(cmd.OutOrStdout(), stories)
	}
	if len(stories) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No stories found.")
		return nil
	}
	output.RenderStories(cmd.OutOrStdout(), stories)
	return nil
}

func printStory(cmd *cobra.Command, story *models.Story, message string) error {
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return output.PrintJSON(cmd.OutOrStdout(), story)
	}
	fmt.Fprintln(cmd.OutOrStdout(), message)
	output.RenderStories(cmd.OutOrStdout(), []models.Story{*story})
	return nil
}

// parseDate accepts YYYY-MM-DD or milliseconds since the epoch.
func parseDate(s string) (int64, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t.UnixMilli(), nil
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: use YYYY-MM-DD or epoch milliseconds", s)
	}
	return ms, nil
}

// ==========================
// LIST
// ==========================
func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your stories, favourites first",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Authenticated()
			if err != nil {
				return err
			}
			stories, err := c.ListStories(cmd.Context())
			if err != nil {
				return err
			}
			return printStories(cmd, stories)
		},
	}
}

// storyFlags binds the fields shared by add and edit.
type storyFlags struct {
	title     string
	story     string
	locations []string
	image     string
	date      string
}

func (f *storyFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "story title")
	cmd.Flags().StringVar(&f.story, "story", "", "story text")
	cmd.Flags().StringSliceVar(&f.locations, "location", nil, "visited location (repeatable)")
	cmd.Flags().StringVar(&f.image, "image", "", "image URL, e.g. from `travel images upload`")
	cmd.Flags().StringVar(&f.date, "date", "", "visited date (YYYY-MM-DD or epoch ms)")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("story")
	cmd.MarkFlagRequired("location")
	cmd.MarkFlagRequired("date")
}

func (f *storyFlags) input() (client.StoryInput, error) {
	ms, err := parseDate(f.date)
	if err != nil {
		return client.StoryInput{}, err
	}
	return client.StoryInput{
		Title:           f.title,
		Story:           f.story,
		VisitedLocation: f.locations,
		ImageURL:        f.image,
		VisitedDate:     ms,
	}, nil
}

// ==========================
// ADD
// ==========================
func addCmd() *cobra.Command {
	var f storyFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a travel story",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := f.input()
			if err != nil {
				return err
			}
			c, err := client.Authenticated()
			if err != nil {
				return err
			}
			story, err := c.AddStory(cmd.Context(), in)
			if err != nil {
				return err
			}
			return printStory(cmd, story, "Story added.")
		},
	}
	f.bind(cmd)
	cmd.MarkFlagRequired("image")
	return cmd
}

// ==========================
// EDIT
// ==========================
func editCmd() *cobra.Command {
	var f storyFlags
	cmd := &cobra.Command{
		Use:   "edit [id]",
		Short: "Replace a story's fields",
		Long:  "Replace a story's fields. Without --image the server substitutes its placeholder image.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := f.input()
			if err != nil {
				return err
			}
			c, err := client.Authenticated()
			if err != nil {
				return err
			}
			story, err := c.EditStory(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}
			return printStory(cmd, story, "Story updated.")
		},
	}
	f.bind(cmd)
	return cmd
}

// ==========================
// DELETE
// ==========================
func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a story and its uploaded image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Authenticated()
			if err != nil {
				return err
			}
			if err := c.DeleteStory(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Story deleted.")
			return nil
		},
	}
}

// ==========================
// FAVOURITE
// ==========================
func favouriteCmd() *cobra.Command {
	var off bool
	cmd := &cobra.Command{
		Use:   "favourite [id]",
		Short: "Mark a story as favourite (--off to unmark)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Authenticated()
			if err != nil {
				return err
			}
			story, err := c.SetFavourite(cmd.Context(), args[0], !off)
			if err != nil {
				return err
			}
			return printStory(cmd, story, "Favourite updated.")
		},
	}
	cmd.Flags().BoolVar(&off, "off", false, "remove the favourite mark")
	return cmd
}

// ==========================
// SEARCH
// ==========================
func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search [query]",
		Short: "Search titles, text and locations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Authenticated()
			if err != nil {
				return err
			}
			stories, err := c.SearchStories(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printStories(cmd, stories)
		},
	}
}

// ==========================
// FILTER
// ==========================
func filterCmd() *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "List stories visited within a date range (inclusive)",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseDate(from)
			if err != nil {
				return err
			}
			end, err := parseDate(to)
			if err != nil {
				return err
			}
			c, err := client.Authenticated()
			if err != nil {
				return err
			}
			stories, err := c.FilterStories(cmd.Context(), start, end)
			if err != nil {
				return err
			}
			return printStories(cmd, stories)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "start date (YYYY-MM-DD or epoch ms)")
	cmd.Flags().StringVar(&to, "to", "", "end date (YYYY-MM-DD or epoch ms)")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
	return cmd
}
