// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "query":
		if err := runQuery(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "eligibility":
		if err := runEligibility(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "bootstrap":
		if err := runBootstrap(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "config":
		if err := runConfig(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		printVersion()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Debt Advice Engine - Agentic RAG for UK debt-solution eligibility

Usage:
  debt-advice-engine <command> [options]

Commands:
  query        Ask a free-text question against the manual corpus
  eligibility  Evaluate a client's eligibility for a debt solution
  bootstrap    (Re)populate the numeric threshold cache from the corpus
  config       Manage configuration
  version      Print version information
  help         Show this help message

Use "debt-advice-engine <command> -h" for more information about a command.`)
}

func printVersion() {
	fmt.Println("Debt Advice Engine v0.1.0")
	fmt.Println("Copyright 2025 Gerry Miller <gerry@gerrymiller.com>")
	fmt.Println("Licensed under the MIT License")
}
