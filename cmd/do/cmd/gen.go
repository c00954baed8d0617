package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const (
	cssInput  = "assets/css/input.css"
	cssOutput = "assets/css/output.css"
)

func GenCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate assets (tailwind) when templates changed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(force)
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "regenerate even when up to date")
	return cmd
}

// CSSCmd builds the minified stylesheet once, for release builds.
func CSSCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "css",
		Short: "Build assets/css/output.css",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(true)
		},
	}
}

func runGen(force bool) error {
	if _, err := exec.LookPath("tailwindcss"); err != nil {
		fmt.Println("Missing binary: tailwindcss")
		fmt.Println("Install with:")
		fmt.Println("  # tailwindcss: https://tailwindcss.com/blog/standalone-cli")
		return fmt.Errorf("tailwindcss not found")
	}

	if !force && skipTailwind() {
		fmt.Println("[tailwindcss] skipped")
		return nil
	}

	start := time.Now()
	cmd := exec.Command("tailwindcss", "-i", cssInput, "-o", cssOutput, "--minify")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("tailwindcss: %w", err)
	}

	fmt.Printf("[tailwindcss] done (%s)\n", time.Since(start).Round(time.Millisecond))
	return nil
}

// skipTailwind reports whether output.css is newer than every template and class source.
func skipTailwind() bool {
	inputs := []string{cssInput}
	_ = filepath.WalkDir("internal/ui", func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".html") || strings.HasSuffix(path, ".go") {
			inputs = append(inputs, path)
		}
		return nil
	})
	return isUpToDate(cssOutput, inputs)
}

func isUpToDate(output string, inputs []string) bool {
	outInfo, err := os.Stat(output)
	if err != nil {
		return false
	}
	outMod := outInfo.ModTime()

	for _, input := range inputs {
		inInfo, err := os.Stat(input)
		if err != nil {
			continue
		}
		if inInfo.ModTime().After(outMod) {
			return false
		}
	}
	return true
}
