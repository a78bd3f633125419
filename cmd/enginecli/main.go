// Command enginecli is the administrative/demo surface spec.md §1 carves
// out as a thin dispatcher shim: a cobra CLI wrapping the engine core's
// submit/view/replay operations against an on-disk store,
// grounded on the teacher's evmd/cmd/evmd (github.com/spf13/cobra root
// command wiring) generalized from a full cosmos-sdk node command tree down
// to this engine's much smaller operation set.
package main

import (
	"fmt"
	"os"

	"github.com/aurora-is-near/aurora-engine/cmd/enginecli/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
