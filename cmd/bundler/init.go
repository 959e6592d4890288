package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ludo-technologies/bundler/internal/config"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a bundler configuration file",
		Long: `Generate a documented bundler.yaml with sensible defaults.

Examples:
  # Create bundler.yaml in the current directory
  bundler init

  # Custom output path
  bundler init --config custom.yaml

  # Overwrite an existing file
  bundler init --force

  # Interactive setup wizard
  bundler init --interactive
  bundler init -i`,
		RunE: runInit,
	}

	cmd.Flags().StringP("config", "c", "bundler.yaml", "Output path for the config file")
	cmd.Flags().BoolP("force", "f", false, "Overwrite existing config file")
	cmd.Flags().BoolP("interactive", "i", false, "Interactive setup wizard")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	force, _ := cmd.Flags().GetBool("force")
	interactive, _ := cmd.Flags().GetBool("interactive")

	if interactive {
		cfg, interactiveConfigPath, err := runInteractiveSetup(configPath)
		if err != nil {
			return err
		}
		configPath = interactiveConfigPath

		if !force {
			if _, err := os.Stat(configPath); err == nil {
				return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
			}
		}
		if err := config.SaveConfig(cfg, configPath); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}
	} else {
		if !force {
			if _, err := os.Stat(configPath); err == nil {
				return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
			}
		}
		if err := config.WriteTemplate(configPath); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}
	}

	displayPath := configPath
	if absPath, err := filepath.Abs(configPath); err == nil {
		displayPath = absPath
	}
	fmt.Printf("Created %s\n", displayPath)
	fmt.Println("\nRun 'bundler build --config " + configPath + "' to bundle your project.")

	return nil
}

func runInteractiveSetup(defaultConfigPath string) (*config.Config, string, error) {
	fmt.Println()
	fmt.Println("bundler Configuration Setup")
	fmt.Println("===========================")
	fmt.Println()

	cfg := config.DefaultConfig()

	entryPrompt := promptui.Prompt{
		Label:   "Entry module path",
		Default: "./src/main.js",
		Validate: func(input string) error {
			if input == "" {
				return fmt.Errorf("entry module path is required")
			}
			return nil
		},
	}
	entry, err := entryPrompt.Run()
	if err != nil {
		return nil, "", fmt.Errorf("entry path input cancelled: %w", err)
	}
	cfg.Entry = entry

	outputPrompt := promptui.Prompt{
		Label:   "Output directory",
		Default: "./dist",
		Validate: func(input string) error {
			if input == "" {
				return fmt.Errorf("output directory is required")
			}
			return nil
		},
	}
	output, err := outputPrompt.Run()
	if err != nil {
		return nil, "", fmt.Errorf("output path input cancelled: %w", err)
	}
	cfg.Output = output

	publicPathPrompt := promptui.Prompt{Label: "Public path (URL prefix for chunk loads)", Default: cfg.PublicPath}
	publicPath, err := publicPathPrompt.Run()
	if err != nil {
		return nil, "", fmt.Errorf("public path input cancelled: %w", err)
	}
	cfg.PublicPath = publicPath

	progressTemplates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "\U0001F449 {{ . | cyan }}",
		Inactive: "   {{ . | white }}",
		Selected: "\U00002705 {{ . | green }}",
	}
	progressPrompt := promptui.Select{
		Label:     "Show progress bars during build?",
		Items:     []string{"yes", "no"},
		Templates: progressTemplates,
	}
	_, progressChoice, err := progressPrompt.Run()
	if err != nil {
		return nil, "", fmt.Errorf("progress selection cancelled: %w", err)
	}
	cfg.Progress = progressChoice == "yes"

	concurrencyPrompt := promptui.Prompt{
		Label:   "Max concurrent chunk writes",
		Default: strconv.Itoa(cfg.MaxConcurrency),
		Validate: func(input string) error {
			n, err := strconv.Atoi(input)
			if err != nil || n < 1 {
				return fmt.Errorf("must be a positive integer")
			}
			return nil
		},
	}
	concurrency, err := concurrencyPrompt.Run()
	if err != nil {
		return nil, "", fmt.Errorf("concurrency input cancelled: %w", err)
	}
	if n, err := strconv.Atoi(concurrency); err == nil {
		cfg.MaxConcurrency = n
	}

	fmt.Println()

	outputFilePrompt := promptui.Prompt{Label: "Config file path", Default: defaultConfigPath}
	outputFile, err := outputFilePrompt.Run()
	if err != nil {
		return nil, "", fmt.Errorf("config path input cancelled: %w", err)
	}
	if outputFile == "" {
		outputFile = defaultConfigPath
	}

	return cfg, outputFile, nil
}
