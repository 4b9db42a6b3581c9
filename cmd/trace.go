package cmd

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sarchlab/fifoemu/datarecording"
	"github.com/sarchlab/fifoemu/tracing"
)

var traceCmd = &cobra.Command{
	Use:   "trace <db>",
	Short: "List the events of a traffic recording.",
	Long: "`trace run.sqlite3 --kind fault` prints recorded events in " +
		"order. Filters combine.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		kind, _ := flags.GetString("kind")
		handler, _ := flags.GetString("handler")
		limit, _ := flags.GetInt("limit")
		offset, _ := flags.GetInt("offset")

		reader, err := datarecording.NewReader(args[0])
		if err != nil {
			return err
		}
		defer reader.Close()

		reader.MapTable(tracing.EventTable, tracing.Event{})

		params := eventQuery(kind, handler)
		params.Limit = limit
		params.Offset = offset

		rows, total, err := reader.Query(
			context.Background(), tracing.EventTable, params)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SEQ\tDOMAIN\tKIND\tHANDLER\tPATH\tDATA\tMESSAGE")

		for _, row := range rows {
			e := row.(*tracing.Event)
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\t%s\n",
				e.Seq, e.Domain, e.Kind, e.Handler, e.Path, e.Data, e.Message)
		}

		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d of %d events\n", len(rows), total)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(traceCmd)

	flags := traceCmd.Flags()
	flags.String("kind", "", "Only events of this kind")
	flags.String("handler", "", "Only events of this handler")
	flags.Int("limit", 0, "Print at most this many events")
	flags.Int("offset", 0, "Skip this many events")
}

func eventQuery(kind, handler string) datarecording.QueryParams {
	var (
		conds []string
		args  []any
	)

	if kind != "" {
		conds = append(conds, "Kind = ?")
		args = append(args, kind)
	}

	if handler != "" {
		conds = append(conds, "Handler = ?")
		args = append(args, handler)
	}

	return datarecording.QueryParams{
		Where:   strings.Join(conds, " AND "),
		Args:    args,
		OrderBy: "Seq",
	}
}
