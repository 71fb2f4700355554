package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coverkeep/coverkeep/pkg/api"
	"github.com/coverkeep/coverkeep/pkg/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a sample configuration file",
	Long: `Initialize a sample CoverKeep configuration file.

By default, the configuration file is created at $XDG_CONFIG_HOME/coverkeep/config.yaml.
Use --config to specify a custom path.

Examples:
  # Initialize with default location
  coverkeep init

  # Initialize with custom path
  coverkeep init --config /etc/coverkeep/config.yaml

  # Force overwrite existing config
  coverkeep init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Force overwrite existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	configFile := GetConfigFile()

	var configPath string
	var err error

	if configFile != "" {
		// Use custom path
		err = config.InitConfigToPath(configFile, initForce)
		configPath = configFile
	} else {
		// Use default path
		configPath, err = config.InitConfig(initForce)
	}

	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	fmt.Printf("Configuration file created at: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Edit the configuration file (media bucket and public base URL are required)")
	fmt.Println("  2. Start the server with: coverkeep serve")
	fmt.Printf("  3. Or specify custom config: coverkeep serve --config %s\n", configPath)
	fmt.Println("\nSecurity note:")
	fmt.Println("  A random JWT secret has been generated for development use.")
	fmt.Println("  For production, generate a secure secret and use an environment variable:")
	fmt.Println("    # Generates a 64-character hex string (32 bytes of entropy)")
	fmt.Printf("    export %s=$(openssl rand -hex 32)\n", api.EnvJWTSecret)

	return nil
}
