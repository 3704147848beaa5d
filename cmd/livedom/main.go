package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/livefir/livedom/cmd/livedom/commands"
)

// Version information (can be overridden at build time with -ldflags)
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error

	switch command {
	case "render":
		err = commands.Render(args)
	case "inspect":
		err = commands.Inspect(args)
	case "serve":
		err = commands.Serve(args)
	case "version", "--version", "-v":
		printVersion()
		return
	case "help", "--help", "-h":
		printUsage()
		return
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("livedom version %s\n", version)

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	var vcsRevision, vcsTime, vcsModified string
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			vcsRevision = setting.Value
		case "vcs.time":
			vcsTime = setting.Value
		case "vcs.modified":
			vcsModified = setting.Value
		}
	}

	if commit != "unknown" {
		fmt.Printf("commit: %s\n", commit)
	} else if vcsRevision != "" {
		if len(vcsRevision) > 12 {
			vcsRevision = vcsRevision[:12]
		}
		fmt.Printf("commit: %s\n", vcsRevision)
	}

	if date != "unknown" {
		fmt.Printf("built: %s\n", date)
	} else if vcsTime != "" {
		// VCS time is the commit time, not the build time
		if t, err := time.Parse(time.RFC3339, vcsTime); err == nil {
			fmt.Printf("commit date: %s\n", t.Format("2006-01-02 15:04:05 MST"))
		}
	}

	if vcsModified == "true" {
		fmt.Printf("modified: true (uncommitted changes)\n")
	}

	fmt.Printf("go: %s\n", info.GoVersion)
}

func printUsage() {
	fmt.Println("livedom - declarative DOM templates")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  livedom render <template-file> [flags]    Render a template and print the markup")
	fmt.Println("  livedom inspect <template-file>           Outline a template and its directives")
	fmt.Println("  livedom serve [<template-file>] [flags]   Serve a live preview over HTTP and WebSocket")
	fmt.Println("  livedom version                           Show version information")
	fmt.Println()
	fmt.Println("Render Flags:")
	fmt.Println("  --data <file>     YAML or JSON file with render data")
	fmt.Println("  --mode <mode>     Component mode: none (default), open, closed")
	fmt.Println("  --minify          Minify the template before parsing")
	fmt.Println("  --stats           Print mutation counts after rendering")
	fmt.Println()
	fmt.Println("Serve Flags:")
	fmt.Println("  --config <file>   Config file (default: livedom.yaml if present)")
	fmt.Println("  --addr <addr>     Listen address (default: localhost:8080)")
	fmt.Println("  --data <file>     YAML or JSON file with initial data")
	fmt.Println("  --mode <mode>     Component mode: open (default), closed, none")
	fmt.Println("  --minify          Minify the template before parsing")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  livedom render todo.html --data todo.yaml")
	fmt.Println("  livedom inspect todo.html")
	fmt.Println("  livedom serve todo.html --addr :3000")
}
