// Command reconcile plans and applies graph-state reconciliations
// described by a scenario file: a current graph, a desired graph, and the
// registered transitions and validations that connect them.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/danrasband/reconcile/internal/ports"
)

func main() {
	flags := &rootFlags{}
	cmd := newRootCmd(flags)

	correlationID := ports.GenerateCorrelationID()
	ctx := ports.WithCorrelationID(context.Background(), correlationID)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
