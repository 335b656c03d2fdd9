package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/odysseus0/feedsync/internal/render"
)

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(out io.Writer, v any) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// writeStructured handles the machine-readable formats. It reports false for
// table and wide output, which every command renders itself.
func writeStructured(out io.Writer, format OutputFormat, v any) (bool, error) {
	switch format {
	case OutputJSON:
		return true, writeJSON(out, v)
	case OutputYAML:
		return true, writeYAML(out, v)
	default:
		return false, nil
	}
}

func writePostsTable(out io.Writer, r *render.Renderer, posts []Post, wide bool) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	if wide {
		fmt.Fprintln(tw, "ID\tAUTHOR\tPUBLISHED\tLIKES\tLIKED\tCACHED\tAVATAR\tCONTENT")
		for _, p := range posts {
			fmt.Fprintf(
				tw,
				"%d\t%s\t%s\t%d\t%t\t%s\t%s\t%s\n",
				p.ID,
				render.Compact(fallback(p.Author, "-"), 24),
				formatTime(p.PublishedAt()),
				p.Likes,
				p.LikedByMe,
				humanAgo(p.CachedAt),
				render.Compact(fallback(p.AuthorAvatar, "-"), 40),
				r.Summary(p.Content, 90),
			)
		}
	} else {
		fmt.Fprintln(tw, "ID\tAUTHOR\tPUBLISHED\tLIKES\tCONTENT")
		for _, p := range posts {
			fmt.Fprintf(
				tw,
				"%d\t%s\t%s\t%d\t%s\n",
				p.ID,
				render.Compact(fallback(p.Author, "-"), 24),
				formatDate(p.PublishedAt()),
				p.Likes,
				r.Summary(p.Content, 60),
			)
		}
	}
	_ = tw.Flush()
}

func writeKeysTable(out io.Writer, keys []RemoteKey) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tID")
	for _, k := range keys {
		fmt.Fprintf(tw, "%s\t%d\n", k.Type, k.ID)
	}
	_ = tw.Flush()
}

func writeStatsTable(out io.Writer, st Stats) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "METRIC\tVALUE")
	fmt.Fprintf(tw, "posts\t%d\n", st.Posts)
	fmt.Fprintf(tw, "min_id\t%s\n", optionalID(st.MinID))
	fmt.Fprintf(tw, "max_id\t%s\n", optionalID(st.MaxID))
	fmt.Fprintf(tw, "after_key\t%s\n", optionalID(st.AfterKey))
	fmt.Fprintf(tw, "before_key\t%s\n", optionalID(st.BeforeKey))
	_ = tw.Flush()
}

func writeLoadTable(out io.Writer, resp LoadResponse) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LOAD\tOUTCOME\tPOSTS\tAFTER\tBEFORE")
	fmt.Fprintf(
		tw,
		"%s\t%s\t%d\t%s\t%s\n",
		resp.LoadType,
		resp.Outcome,
		resp.Stats.Posts,
		optionalID(resp.Stats.AfterKey),
		optionalID(resp.Stats.BeforeKey),
	)
	_ = tw.Flush()
}

func writeSyncTable(out io.Writer, resp SyncResponse, wide bool) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	if wide {
		fmt.Fprintln(tw, "STEP\tLOAD\tOUTCOME\tERROR")
		for i, s := range resp.Steps {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, s.LoadType, s.Outcome, render.Compact(s.Error, 70))
		}
		fmt.Fprintln(tw)
	}
	fmt.Fprintln(tw, "PAGES\tEND\tSTALLED\tPOSTS\tAFTER\tBEFORE")
	fmt.Fprintf(
		tw,
		"%d\t%t\t%t\t%d\t%s\t%s\n",
		resp.Pages,
		resp.EndReached,
		resp.Stalled,
		resp.Stats.Posts,
		optionalID(resp.Stats.AfterKey),
		optionalID(resp.Stats.BeforeKey),
	)
	_ = tw.Flush()
}
