// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/saferwall/minirt/vm"
)

var batchWorkers int

// batchResult is one class name's outcome, collected by the worker pool
// for ordered reporting after every worker has finished.
type batchResult struct {
	className string
	err       error
}

func runBatch(cmd *cobra.Command, args []string) {
	cp, closeCp, err := buildClassPath()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeCp()

	jobs := make(chan string)
	results := make(chan batchResult)

	var wg sync.WaitGroup
	workers := batchWorkers
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for className := range jobs {
				runtime := vm.New(cp, traceLogger())
				results <- batchResult{className: className, err: runtime.RunMain(className)}
			}
		}()
	}

	go func() {
		for _, className := range args {
			jobs <- className
		}
		close(jobs)
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	failed := false
	for r := range results {
		if r.err != nil {
			failed = true
			fmt.Fprintf(os.Stderr, "%s: %v\n", r.className, r.err)
			continue
		}
		fmt.Printf("%s: ok\n", r.className)
	}
	if failed {
		os.Exit(1)
	}
}
