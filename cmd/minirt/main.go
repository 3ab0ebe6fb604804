// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Command minirt loads and traces a class from a platform module archive
// and/or a directory classpath.
package main

import (
	"fmt"
	"os"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/spf13/cobra"

	"github.com/saferwall/minirt/classpath"
	"github.com/saferwall/minirt/jimage"
	"github.com/saferwall/minirt/vm"
)

var (
	jimagePath string
	classesDir string
	verbose    bool
)

// buildClassPath composes a classpath.ClassPath from the run flags: an
// archive backend (if --jimage was given), a directory backend (if
// --classes was given), composed archive-first to match the runtime's
// convention of preferring the packed platform modules.
func buildClassPath() (classpath.ClassPath, func(), error) {
	var backends classpath.Composite
	var closers []func()

	if jimagePath != "" {
		f, err := os.Open(jimagePath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening jimage file: %w", err)
		}
		data, err := mmap.Map(f, mmap.RDONLY, 0)
		if err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("mmapping jimage file: %w", err)
		}
		archive, err := jimage.Parse(data)
		if err != nil {
			data.Unmap()
			f.Close()
			return nil, nil, fmt.Errorf("parsing jimage archive: %w", err)
		}
		backends = append(backends, classpath.NewArchive(archive))
		closers = append(closers, func() { data.Unmap(); f.Close() })
	}

	if classesDir != "" {
		backends = append(backends, classpath.Directory(classesDir))
	}

	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}
	return backends, closeAll, nil
}

// traceLogger returns a logger filtered to Info level when --verbose is
// set, so the decode-and-trace stream (logged via Infof) reaches stdout;
// otherwise nil, which rtlog.New defaults to an error-only logger.
func traceLogger() log.Logger {
	if !verbose {
		return nil
	}
	return log.NewFilter(log.NewStdLogger(os.Stdout), log.FilterLevel(log.LevelInfo))
}

func runMainClass(cmd *cobra.Command, args []string) {
	mainClass := args[0]

	cp, closeCp, err := buildClassPath()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeCp()

	runtime := vm.New(cp, traceLogger())
	if err := runtime.RunMain(mainClass); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "minirt",
		Short: "A minimal managed-runtime classfile/jimage loader",
		Long:  "Loads a class from a jimage archive and/or directory classpath and traces its bytecode.",
	}

	runCmd := &cobra.Command{
		Use:   "run <dotted-main-class>",
		Short: "Load and trace a class's main method",
		Args:  cobra.ExactArgs(1),
		Run:   runMainClass,
	}
	runCmd.Flags().StringVar(&jimagePath, "jimage", "", "path to a platform module archive (jimage)")
	runCmd.Flags().StringVar(&classesDir, "classes", "", "path to a directory classpath")

	batchCmd := &cobra.Command{
		Use:   "batch <dotted-main-class>...",
		Short: "Load and trace several classes concurrently",
		Args:  cobra.MinimumNArgs(1),
		Run:   runBatch,
	}
	batchCmd.Flags().StringVar(&jimagePath, "jimage", "", "path to a platform module archive (jimage)")
	batchCmd.Flags().StringVar(&classesDir, "classes", "", "path to a directory classpath")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 4, "number of concurrent loader workers")

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(batchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
