// sm2pspp rewrites a PrusaSlicer generated G-code file into a
// Snapmaker 2.0 terminal compatible G-code file, in place. It extracts
// the slicer's comment metadata and the printed bounding box in a
// single pass, then prepends the header block the Snapmaker firmware
// expects.
//
// Usage:
//
//	sm2pspp [options] <g-code file>
//
// Options:
//
//	-keep-thumbnail  Keep the slicer's thumbnail comment block in the body
//	-strict          Treat missing-metadata warnings as fatal
//	-trace           Enable debug tracing
//	-quiet           Only report errors
//
// Exit status is 0 on success (including the no-op on an already
// converted file) and 1 on any fatal error or abort.
//
// Copyright (C) 2026  sm2pspp-go Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.
package main

import (
	"flag"
	"fmt"
	"os"

	"sm2pspp-go/pkg/errors"
	"sm2pspp-go/pkg/header"
	"sm2pspp-go/pkg/log"
	"sm2pspp-go/pkg/postproc"
)

func main() {
	os.Exit(run())
}

func run() int {
	keepThumb := flag.Bool("keep-thumbnail", false, "Keep the slicer's thumbnail comment block in the body")
	strict := flag.Bool("strict", false, "Treat missing-metadata warnings as fatal")
	trace := flag.Bool("trace", false, "Enable debug tracing")
	quiet := flag.Bool("quiet", false, "Only report errors")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		return 1
	}
	path := flag.Arg(0)

	logger := log.New("sm2pspp")
	if *trace {
		logger.SetLevel(log.DEBUG)
	}
	if *quiet {
		logger.SetLevel(log.ERROR)
	}

	opts := postproc.Options{
		RemoveLegacyThumbnail: !*keepThumb,
		Logger:                logger,
	}
	if *strict {
		opts.OnWarning = func(code errors.Code, path string, line int) postproc.Decision {
			logger.Error("%s:%d: %s", path, line, code.Text())
			return postproc.Abort
		}
	}

	if err := postproc.ProcessFile(path, opts); err != nil {
		logger.Error("%v", err)
		return 1
	}
	return 0
}

func usage() {
	fmt.Fprintf(os.Stderr, "sm2pspp [options] <g-code file>\n\nsm2pspp %s\n%s\n\nOptions:\n",
		header.Version, header.URL)
	flag.PrintDefaults()
}
