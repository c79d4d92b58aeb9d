package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/arena/verify"
	"github.com/joshuapare/heapkit/internal/trace"
)

// errCheckFailed is returned when the final heap has problems.
var errCheckFailed = errors.New("heap check failed")

var (
	checkHeap heapOptions
	checkOps  int
)

func init() {
	cmd := newCheckCmd()
	checkHeap.register(cmd.Flags())
	cmd.Flags().IntVar(&checkOps, "ops", -1, "Stop after this many operations (-1 for all)")
	rootCmd.AddCommand(cmd)
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <trace>",
		Short: "Replay a trace and print the resulting heap",
		Long: `The check command replays a trace with the heap checker enabled after
every operation, then prints every block of the final heap.

Example:
  heapctl check short.rep
  heapctl check short.rep --ops 10
  heapctl check short.rep --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(args)
		},
	}
	return cmd
}

// checkBlock is one block of check output.
type checkBlock struct {
	Offset int  `json:"offset"`
	Size   int  `json:"size"`
	Alloc  bool `json:"allocated"`
}

func runCheck(args []string) error {
	path := args[0]

	tr, err := trace.ParseFile(path)
	if err != nil {
		return err
	}
	if checkOps >= 0 && checkOps < len(tr.Ops) {
		tr.Ops = tr.Ops[:checkOps]
	}

	a, release, err := newAllocator(checkHeap)
	if err != nil {
		return err
	}
	defer release()

	printVerbose("Checking %s (%d ops)\n", path, len(tr.Ops))
	if _, err := trace.Replay(a, tr, trace.Options{Check: true, Logger: logger}); err != nil {
		return err
	}

	if jsonOut {
		result := map[string]any{
			"trace":     path,
			"ops":       len(tr.Ops),
			"heap_size": a.HeapSize(),
			"live":      a.Live(),
			"blocks":    heapBlocks(a.HeapBytes(), a.HeapStart()),
			"valid":     true,
		}
		if errs := a.Check(nil, false); len(errs) > 0 {
			result["valid"] = false
			result["errors"] = errs
		}
		return printJSON(result)
	}

	var out io.Writer = os.Stdout
	if quiet {
		out = io.Discard
	}
	if errs := a.Check(out, true); len(errs) > 0 {
		return fmt.Errorf("%w: %d problems", errCheckFailed, len(errs))
	}
	printInfo("\nResult: VALID (%d live, heap %d bytes)\n", a.Live(), a.HeapSize())
	return nil
}

func heapBlocks(data []byte, heapStart int) []checkBlock {
	var out []checkBlock
	verify.Walk(data, heapStart, func(b verify.Block) bool {
		out = append(out, checkBlock{Offset: b.Off, Size: b.Size, Alloc: b.Alloc})
		return true
	})
	return out
}
