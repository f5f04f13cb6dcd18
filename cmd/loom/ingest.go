// Ingest command: replay a JSONL event feed into the store.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meshgraph/loom/internal/materializer"
	"github.com/meshgraph/loom/pkg/types"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <events.jsonl>",
	Short: "Apply a file of decoded ledger events to the graph",
	Long: `Ingest reads one decoded ledger event per line (JSON) and applies
them in order. Processing halts on the first fatal condition; dropped
events and ignored batches are counted and reported.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		events, err := readEvents(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, "ingest:", err)
			os.Exit(exitUserError)
		}

		store, err := attachStore()
		if err != nil {
			fmt.Fprintln(os.Stderr, "ingest:", err)
			os.Exit(exitSysError)
		}
		defer store.Detach()

		proc := materializer.NewProcessor(store, newLogger())
		stats, err := proc.Run(cmd.Context(), events)
		if err != nil {
			fmt.Fprintln(os.Stderr, "ingest:", err)
			os.Exit(exitSysError)
		}

		if flagJSON {
			out, err := json.Marshal(map[string]int{
				"applied": stats.Applied,
				"dropped": stats.Dropped,
				"ignored": stats.Ignored,
			})
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		}

		fmt.Printf("ingested %d events: %d applied, %d dropped, %d batches ignored\n",
			len(events), stats.Applied, stats.Dropped, stats.Ignored)
		return nil
	},
}

// readEvents parses a JSONL file into decoded events, one per line.
// Blank lines are skipped.
func readEvents(path string) ([]types.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var events []types.Event
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		raw := sc.Bytes()
		if len(raw) == 0 {
			continue
		}
		var ev types.Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		events = append(events, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
