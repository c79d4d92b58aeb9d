package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/heapkit/internal/trace"
)

var (
	replayHeap  heapOptions
	replayCheck bool
)

func init() {
	cmd := newReplayCmd()
	replayHeap.register(cmd.Flags())
	cmd.Flags().BoolVar(&replayCheck, "check", false, "Run the heap checker after every operation")
	rootCmd.AddCommand(cmd)
}

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <trace>...",
		Short: "Replay trace files and report utilization",
		Long: `The replay command runs each trace against a fresh heap. Every payload
is filled with a known pattern and verified when it is freed or moved, and
payloads are checked for alignment and overlap.

Example:
  heapctl replay traces/*.rep
  heapctl replay short.rep --check --mmap
  heapctl replay short.rep --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(args)
		},
	}
	return cmd
}

// replayResult is one row of replay output.
type replayResult struct {
	Trace       string  `json:"trace"`
	Ops         int     `json:"ops"`
	HeapSize    int     `json:"heap_size"`
	PeakPayload int     `json:"peak_payload"`
	Utilization float64 `json:"utilization"`
	Error       string  `json:"error,omitempty"`
}

func runReplay(args []string) error {
	a, release, err := newAllocator(replayHeap)
	if err != nil {
		return err
	}
	defer release()

	var results []replayResult
	var failed int
	for _, path := range args {
		printVerbose("Replaying %s\n", path)

		row := replayResult{Trace: path}
		tr, err := trace.ParseFile(path)
		if err == nil {
			var res *trace.Result
			res, err = trace.Replay(a, tr, trace.Options{Check: replayCheck, Logger: logger})
			if res != nil {
				row.Ops = res.Ops
				row.HeapSize = res.HeapSize
				row.PeakPayload = res.PeakPayload
				row.Utilization = res.Utilization()
			}
		}
		if err != nil {
			row.Error = err.Error()
			failed++
		} else if verbose && !quiet && !jsonOut {
			a.PrintStats(os.Stdout)
		}
		results = append(results, row)
	}

	if jsonOut {
		if err := printJSON(results); err != nil {
			return err
		}
	} else {
		printReplayTable(results)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d traces failed", failed, len(results))
	}
	return nil
}

func printReplayTable(results []replayResult) {
	p := message.NewPrinter(language.English)
	printInfo("%s", p.Sprintf("%-24s %10s %12s %12s %6s\n", "TRACE", "OPS", "HEAP", "PEAK", "UTIL"))

	var util float64
	var ok int
	for _, r := range results {
		if r.Error != "" {
			printInfo("%-24s FAILED: %s\n", r.Trace, r.Error)
			continue
		}
		printInfo("%s", p.Sprintf("%-24s %10d %12d %12d %5.1f%%\n",
			r.Trace, r.Ops, r.HeapSize, r.PeakPayload, 100*r.Utilization))
		util += r.Utilization
		ok++
	}
	if ok > 1 {
		printInfo("%s", p.Sprintf("%-24s %10s %12s %12s %5.1f%%\n", "average", "", "", "", 100*util/float64(ok)))
	}
}
