package main

import (
	"fmt"
	"os"

	"github.com/ludo-technologies/bundler/domain"
	"github.com/ludo-technologies/bundler/internal/version"
	"github.com/spf13/cobra"
)

var Version = version.Version

func main() {
	rootCmd := &cobra.Command{
		Use:     "bundler",
		Short:   "bundler - a teaching-grade JavaScript module bundler",
		Long:    `bundler reads an entry module, follows its import graph, partitions it into chunks, and emits a self-executing bundle plus one file per chunk.`,
		Version: Version,
	}

	rootCmd.AddCommand(buildCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(depsCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		if de, ok := err.(domain.DomainError); ok {
			fmt.Fprintf(os.Stderr, "Error: %s\n", de.Error())
			os.Exit(exitCodeFor(de.Code))
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// exitCodeFor maps a domain error code to the process exit code (spec.md §7).
func exitCodeFor(code string) int {
	switch code {
	case domain.ErrCodeUsage:
		return 64
	case domain.ErrCodeEntryMissing:
		return 66
	case domain.ErrCodeUnresolvedModule, domain.ErrCodeBareSpecifier:
		return 67
	case domain.ErrCodeParseError:
		return 65
	case domain.ErrCodeInternalInvariant:
		return 70
	default:
		return 1
	}
}

func versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				fmt.Println(version.GetFullVersion())
			} else {
				fmt.Printf("bundler version %s\n", version.GetVersion())
			}
		},
	}
	cmd.Flags().BoolP("verbose", "v", false, "Show detailed version information")
	return cmd
}
