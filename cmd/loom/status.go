// Status command: report counter position and per-class row counts.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meshgraph/loom/pkg/types"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show graph statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := attachStore()
		if err != nil {
			fmt.Fprintln(os.Stderr, "status:", err)
			os.Exit(exitSysError)
		}
		defer store.Detach()

		nextID, err := store.NextEntityID()
		if err != nil {
			fmt.Fprintln(os.Stderr, "status:", err)
			os.Exit(exitSysError)
		}
		counts, err := store.ClassCounts()
		if err != nil {
			fmt.Fprintln(os.Stderr, "status:", err)
			os.Exit(exitSysError)
		}

		if flagJSON {
			byClass := make(map[string]int, len(counts))
			for class, n := range counts {
				byClass[string(class)] = n
			}
			out, err := json.Marshal(map[string]any{
				"next_entity_id": nextID,
				"rows":           byClass,
			})
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		}

		fmt.Println("next entity id:", nextID)
		for _, class := range types.KnownClasses {
			fmt.Printf("  %-14s %d\n", class, counts[class])
		}
		return nil
	},
}
