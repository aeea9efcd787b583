package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/autocommit/autocommit/internal/pkg/config"
	"github.com/autocommit/autocommit/internal/pkg/security"
)

// NewConfigCmd creates the config command and its subcommands.
func NewConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage autocommit configuration",
		Long: `Manage autocommit configuration settings.

Use subcommands to initialize, view, or modify configuration values.
Configuration is stored in ~/.autocommit/config.yaml by default.`,
	}

	configCmd.AddCommand(newConfigInitCmd())
	configCmd.AddCommand(newConfigSetCmd())
	configCmd.AddCommand(newConfigGetCmd())
	configCmd.AddCommand(newConfigListCmd())

	return configCmd
}

// newConfigInitCmd creates the 'config init' subcommand.
func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file",
		Long: `Create a new configuration file at ~/.autocommit/config.yaml with
default values.

The configuration file will be created with permissions 0600 (user
read/write only) for security, as it may contain an API key.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			mgr, err := config.NewManager(configPath)
			if err != nil {
				return fmt.Errorf("failed to create config manager: %w", err)
			}

			if err := mgr.Init(); err != nil {
				return err
			}

			fmt.Printf("Configuration file created at %s\n", mgr.GetConfigPath())
			fmt.Println("Edit this file to customize settings. The API key is usually")
			fmt.Printf("better kept in the %s environment variable or ~/%s.\n",
				config.APIKeyEnvVar, config.CredentialFileName)
			return nil
		},
	}
}

// newConfigSetCmd creates the 'config set' subcommand.
func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value by key.

Supports nested keys using dot notation (e.g., "provider.model",
"git.diff_size_threshold").

Examples:
  autocommit config set provider.model gpt-4o-mini
  autocommit config set provider.api_key sk-xxx
  autocommit config set git.diff_size_threshold 20480
  autocommit config set git.unified_context 10`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := args[1]

			configPath, _ := cmd.Flags().GetString("config")
			mgr, err := config.NewManager(configPath)
			if err != nil {
				return fmt.Errorf("failed to create config manager: %w", err)
			}

			if !mgr.ConfigExists() {
				return fmt.Errorf("config file not found. Run 'autocommit config init' first")
			}

			if err := mgr.Set(key, value); err != nil {
				return err
			}

			fmt.Printf("Set %s = %s\n", key, maskIfSecret(key, value))
			return nil
		},
	}
}

// newConfigGetCmd creates the 'config get' subcommand.
func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long: `Display a single configuration value by key.

API keys are masked, showing only the last 4 characters.

Examples:
  autocommit config get provider.model
  autocommit config get git.unified_context`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			configPath, _ := cmd.Flags().GetString("config")
			mgr, err := config.NewManager(configPath)
			if err != nil {
				return fmt.Errorf("failed to create config manager: %w", err)
			}

			value, err := mgr.Get(key)
			if err != nil {
				return err
			}

			fmt.Println(maskIfSecret(key, value))
			return nil
		},
	}
}

// newConfigListCmd creates the 'config list' subcommand.
func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Long: `Display all current configuration values.

API keys are masked for security, showing only the last 4 characters.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			mgr, err := config.NewManager(configPath)
			if err != nil {
				return fmt.Errorf("failed to create config manager: %w", err)
			}

			settings := mgr.List()
			printSettings("", settings)
			return nil
		},
	}
}

// maskIfSecret masks the value when the key names an API key.
func maskIfSecret(key, value string) string {
	if strings.Contains(strings.ToLower(key), "api_key") && value != "" {
		return security.MaskAPIKey(value)
	}
	return value
}

// printSettings recursively prints configuration settings with proper formatting.
func printSettings(indent string, settings map[string]interface{}) {
	for key, value := range settings {
		switch v := value.(type) {
		case map[string]interface{}:
			fmt.Printf("%s%s:\n", indent, key)
			printSettings(indent+"  ", v)
		default:
			fmt.Printf("%s%s: %s\n", indent, key, maskIfSecret(key, fmt.Sprintf("%v", value)))
		}
	}
}
