package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/MGTheTrain/crypto-facade/internal/infrastructure/cryptography"

	"github.com/spf13/cobra"
)

// DigestCommandHandler computes message digests of files via CLI.
type DigestCommandHandler struct{}

// NewDigestCommandHandler initializes a new DigestCommandHandler
func NewDigestCommandHandler() *DigestCommandHandler {
	return &DigestCommandHandler{}
}

// DigestCmd streams a file through a digest and prints the hex value
func (commandHandler *DigestCommandHandler) DigestCmd(cmd *cobra.Command, _ []string) error {
	algorithm, err := cmd.Flags().GetString("algorithm")
	if err != nil {
		return fmt.Errorf("invalid algorithm flag: %w", err)
	}
	inputFilePath, err := cmd.Flags().GetString("input-file")
	if err != nil {
		return fmt.Errorf("invalid input-file flag: %w", err)
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	digest, err := cryptography.NewDigest(s.backend, algorithm)
	if err != nil {
		return err
	}
	defer digest.Release()

	file, err := os.Open(filepath.Clean(inputFilePath))
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := io.Copy(digest, file); err != nil {
		return fmt.Errorf("failed to hash %s: %w", inputFilePath, err)
	}

	value, err := digest.Digest()
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", value, inputFilePath)
	return err
}

// InitDigestCommands registers digest-related commands
func InitDigestCommands(rootCmd *cobra.Command) error {
	handler := NewDigestCommandHandler()

	var digestCmd = &cobra.Command{
		Use:   "digest",
		Short: "Compute the message digest of a file",
		RunE:  handler.DigestCmd,
	}
	digestCmd.Flags().StringP("algorithm", "a", "SHA256", "Digest algorithm (MD5, SHA1, SHA224, SHA256, SHA384, SHA512, SHA3-256, SHA3-512, BLAKE2b-256, BLAKE2b-512)")
	digestCmd.Flags().StringP("input-file", "", "", "Path to file that needs to be hashed")
	_ = digestCmd.MarkFlagRequired("input-file")
	rootCmd.AddCommand(digestCmd)

	return nil
}
