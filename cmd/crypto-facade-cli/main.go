// Package main is the entry point for the crypto-facade-cli application.
// It initializes the root command and registers the key, digest, signature
// and key store sub-commands, then executes the command-line interface.
package main

import (
	"fmt"
	"log"
	"os"

	commands "github.com/MGTheTrain/crypto-facade/cmd/crypto-facade-cli/internal/commands"

	"github.com/spf13/cobra"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "crypto-facade-cli",
		Short: "Key pair, digest and signature CLI tool",
		Long: `crypto-facade-cli is a command-line tool for asymmetric cryptography.
Supports DSA, RSA, ECDSA and Ed25519 key generation, password protected PKCS#8 PEM files,
message digests, signing and verification.

Settings are read from the file given with --config and from CRYPTO_FACADE_* environment
variables, e.g. CRYPTO_FACADE_BACKEND_RSA_KEY_SIZE=4096.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String(commands.ConfigFlag, "", "Path to a YAML config file")

	// Initialize all command groups BEFORE executing
	if err := initializeCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize commands: %w", err)
	}

	// Execute root command ONCE after all commands are registered
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

// initializeCommands registers all command groups with the root command.
func initializeCommands(rootCmd *cobra.Command) error {
	if err := commands.InitKeyCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize key commands: %w", err)
	}

	if err := commands.InitDigestCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize digest commands: %w", err)
	}

	if err := commands.InitSignatureCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize signature commands: %w", err)
	}

	if err := commands.InitStoreCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize key store commands: %w", err)
	}

	return nil
}

// init sets up any necessary initialization before main runs.
func init() {
	// Set log flags for better error messages
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	// Ensure proper exit codes on errors
	log.SetOutput(os.Stderr)
}
