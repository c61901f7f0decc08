// Command replay summarizes a gym recording and optionally re-simulates it
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/samuelbigos/tower-of-babylon/engine"
	"github.com/samuelbigos/tower-of-babylon/logging"
	"github.com/samuelbigos/tower-of-babylon/record"
)

func main() {
	var (
		inPath = flag.String("in", "", "path to .jsonl.zst recording")
		verify = flag.Bool("verify", false, "re-simulate the recorded input and compare every step")
		debug  = flag.Bool("debug", false, "write logs to "+logging.DefaultDir+"/replay.log")
	)
	flag.Parse()

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "missing -in")
		os.Exit(2)
	}

	r, err := record.Open(*inPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}
	h := r.Header()
	sum, err := record.Summarize(r)
	r.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "read:", err)
		os.Exit(1)
	}

	scene := h.Scene
	if h.SceneFile != "" {
		scene = h.SceneFile
	}
	fmt.Printf("recording v%d scene=%s created=%s tick=%v\n", h.Version, scene, h.Created.Format("2006-01-02 15:04:05"), h.Tuning.Tick)
	fmt.Printf("steps=%d ticks=[%d,%d] state=%s run_time=%.2fs\n", sum.Steps, sum.FirstTick, sum.LastTick, sum.FinalState, sum.RunTime)
	fmt.Printf("distance=%.1fm max_height=%.1fm hooked_ticks=%d max_sections=%d\n", sum.Distance, sum.MaxHeight, sum.HookedTicks, sum.MaxSections)

	kinds := make([]string, 0, len(sum.Events))
	for k := range sum.Events {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Printf("  %-18s %d\n", k, sum.Events[k])
	}

	if !*verify {
		return
	}

	log, logFile, err := logging.New(logging.Options{Debug: *debug, File: "replay.log"})
	if err != nil {
		fmt.Fprintln(os.Stderr, "logging:", err)
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	sc, err := record.SceneFor(h)
	if err != nil {
		fmt.Fprintln(os.Stderr, "scene:", err)
		os.Exit(1)
	}
	sess, err := engine.NewSession(sc, h.Tuning, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "session:", err)
		os.Exit(1)
	}

	r, err = record.Open(*inPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}
	defer r.Close()

	checked, err := record.Verify(r, sess)
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay diverged after %d ticks: %v\n", checked, err)
		os.Exit(1)
	}
	fmt.Printf("replay ok: checked=%d ticks\n", checked)
}
