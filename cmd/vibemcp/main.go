// Command vibemcp is the composition root: it loads configuration, opens
// the index store, wires the indexer, background syncer, write engine,
// webhook engine and operation façade, then serves the Model Context
// Protocol over stdio, grounded on the teacher's cmd/amanmcp/main.go +
// cmd/amanmcp/cmd/root.go "smart default" flow (stdout reserved
// exclusively for JSON-RPC once serving starts).
package main

import (
	"fmt"
	"os"

	"github.com/macward/vibemcp/cmd/vibemcp/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
