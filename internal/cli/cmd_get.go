package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/odysseus0/feedsync/internal/store"
)

func newGetCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Read cached posts, remote keys, and stats",
	}

	cmd.AddCommand(newGetPostsCmd(getApp, getOutput))
	cmd.AddCommand(newGetPostCmd(getApp, getOutput))
	cmd.AddCommand(newGetKeysCmd(getApp, getOutput))
	cmd.AddCommand(newGetStatsCmd(getApp, getOutput))
	return cmd
}

func newGetPostsCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	var limit int
	var beforeID int64

	cmd := &cobra.Command{
		Use:   "posts",
		Short: "List cached posts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			posts, err := app.store.ListPosts(cmd.Context(), PostListOptions{
				Limit:    limit,
				BeforeID: beforeID,
			})
			if err != nil {
				return fmt.Errorf("list posts: %w", err)
			}

			w := cmd.OutOrStdout()
			if handled, err := writeStructured(w, getOutput(), posts); handled {
				return err
			}
			writePostsTable(w, app.renderer, posts, getOutput() == OutputWide)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Result limit")
	cmd.Flags().Int64Var(&beforeID, "before", 0, "Only posts with an id below this one")
	return cmd
}

func newGetPostCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post <id>",
		Short: "Show one cached post as Markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return fmt.Errorf("%w: %v", store.ErrInvalidInput, err)
			}
			post, err := app.store.GetPost(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get post: %w", err)
			}

			w := cmd.OutOrStdout()
			if handled, err := writeStructured(w, getOutput(), post); handled {
				return err
			}

			liked := ""
			if post.LikedByMe {
				liked = " (liked)"
			}
			fmt.Fprintf(w, "# %d by %s\n", post.ID, fallback(post.Author, "(unknown)"))
			fmt.Fprintf(w, "published: %s | likes: %d%s\n\n", formatTime(post.PublishedAt()), post.Likes, liked)

			content := strings.TrimSpace(app.renderer.Markdown(post.Content))
			if content == "" {
				content = "(no content)"
			}
			fmt.Fprintln(w, content)
			return nil
		},
	}
	return cmd
}

func newGetKeysCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Show the stored AFTER/BEFORE remote keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			keys, err := app.store.ListKeys(cmd.Context())
			if err != nil {
				return fmt.Errorf("list keys: %w", err)
			}
			w := cmd.OutOrStdout()
			if handled, err := writeStructured(w, getOutput(), keys); handled {
				return err
			}
			writeKeysTable(w, keys)
			return nil
		},
	}
	return cmd
}

func newGetStatsCmd(getApp func() *App, getOutput func() OutputFormat) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Get cache stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := requireApp(getApp)
			if err != nil {
				return err
			}
			stats, err := app.store.Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("get stats: %w", err)
			}
			w := cmd.OutOrStdout()
			if handled, err := writeStructured(w, getOutput(), stats); handled {
				return err
			}
			writeStatsTable(w, stats)
			return nil
		},
	}
	return cmd
}
