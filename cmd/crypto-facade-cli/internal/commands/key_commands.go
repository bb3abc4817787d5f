package commands

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// Environment variables read when a password flag is omitted
const (
	PasswordEnv    = "CRYPTO_FACADE_PASSWORD"
	NewPasswordEnv = "CRYPTO_FACADE_NEW_PASSWORD"
)

// KeyCommandHandler encapsulates key pair generation and PEM file handling via CLI.
type KeyCommandHandler struct{}

// NewKeyCommandHandler initializes a new KeyCommandHandler
func NewKeyCommandHandler() *KeyCommandHandler {
	return &KeyCommandHandler{}
}

// GenerateKeysCmd generates a key pair and persists it as PEM files in a selected directory
func (commandHandler *KeyCommandHandler) GenerateKeysCmd(cmd *cobra.Command, _ []string) error {
	algorithm, err := cmd.Flags().GetString("algorithm")
	if err != nil {
		return fmt.Errorf("invalid algorithm flag: %w", err)
	}
	keyDir, err := cmd.Flags().GetString("key-dir")
	if err != nil {
		return fmt.Errorf("invalid key-dir flag: %w", err)
	}
	password, err := passwordFlag(cmd, "password", PasswordEnv)
	if err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	privateKey, publicKey, err := s.keyFactory.CreateKeyPair(algorithm)
	if err != nil {
		return err
	}
	defer privateKey.Release()
	defer publicKey.Release()

	privatePEM, err := s.keyFactory.WritePrivateKeyToPem(privateKey, password)
	if err != nil {
		return err
	}
	publicPEM, err := s.keyFactory.WritePublicKeyToPem(publicKey)
	if err != nil {
		return err
	}

	uniqueID := uuid.New().String()
	privateKeyFilePath := filepath.Join(keyDir, fmt.Sprintf("%s-private-key.pem", uniqueID))
	if err := writeFile(privateKeyFilePath, []byte(privatePEM)); err != nil {
		return err
	}
	publicKeyFilePath := filepath.Join(keyDir, fmt.Sprintf("%s-public-key.pem", uniqueID))
	if err := writeFile(publicKeyFilePath, []byte(publicPEM)); err != nil {
		return err
	}

	s.logger.Info("Generated ", algorithm, " key pair ", privateKeyFilePath, " ", publicKeyFilePath)
	fmt.Fprintln(cmd.OutOrStdout(), privateKeyFilePath)
	fmt.Fprintln(cmd.OutOrStdout(), publicKeyFilePath)
	return nil
}

// ExportPublicKeyCmd derives the public key of a private key PEM file
func (commandHandler *KeyCommandHandler) ExportPublicKeyCmd(cmd *cobra.Command, _ []string) error {
	privateKeyFilePath, err := cmd.Flags().GetString("private-key")
	if err != nil {
		return fmt.Errorf("invalid private-key flag: %w", err)
	}
	outputFilePath, err := cmd.Flags().GetString("output-file")
	if err != nil {
		return fmt.Errorf("invalid output-file flag: %w", err)
	}
	password, err := passwordFlag(cmd, "password", PasswordEnv)
	if err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	privateKey, err := s.loadPrivateKey(privateKeyFilePath, password)
	if err != nil {
		return err
	}
	defer privateKey.Release()

	publicKey, err := privateKey.Public()
	if err != nil {
		return err
	}
	defer publicKey.Release()

	publicPEM, err := s.keyFactory.WritePublicKeyToPem(publicKey)
	if err != nil {
		return err
	}

	if outputFilePath == "" {
		_, err = fmt.Fprint(cmd.OutOrStdout(), publicPEM)
		return err
	}
	return writeFile(outputFilePath, []byte(publicPEM))
}

// ChangePasswordCmd re-encrypts a private key PEM file in place
func (commandHandler *KeyCommandHandler) ChangePasswordCmd(cmd *cobra.Command, _ []string) error {
	privateKeyFilePath, err := cmd.Flags().GetString("private-key")
	if err != nil {
		return fmt.Errorf("invalid private-key flag: %w", err)
	}
	oldPassword, err := passwordFlag(cmd, "password", PasswordEnv)
	if err != nil {
		return err
	}
	newPassword, err := passwordFlag(cmd, "new-password", NewPasswordEnv)
	if err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	privateKey, err := s.loadPrivateKey(privateKeyFilePath, oldPassword)
	if err != nil {
		return err
	}
	defer privateKey.Release()

	privatePEM, err := s.keyFactory.WritePrivateKeyToPem(privateKey, newPassword)
	if err != nil {
		return err
	}

	if err := writeFile(privateKeyFilePath, []byte(privatePEM)); err != nil {
		return err
	}
	s.logger.Info("Changed password of ", privateKeyFilePath)
	return nil
}

// InitKeyCommands registers key-related commands
func InitKeyCommands(rootCmd *cobra.Command) error {
	handler := NewKeyCommandHandler()

	var generateKeysCmd = &cobra.Command{
		Use:   "generate-keys",
		Short: "Generate a DSA, RSA, ECDSA or Ed25519 key pair",
		RunE:  handler.GenerateKeysCmd,
	}
	generateKeysCmd.Flags().StringP("algorithm", "a", "ECDSA", "Key algorithm (DSA, RSA, ECDSA, Ed25519)")
	generateKeysCmd.Flags().StringP("key-dir", "", ".", "Directory to store the PEM files")
	generateKeysCmd.Flags().StringP("password", "p", "", "Password encrypting the private key (or "+PasswordEnv+")")
	rootCmd.AddCommand(generateKeysCmd)

	var exportPublicKeyCmd = &cobra.Command{
		Use:   "export-key",
		Short: "Export the public key of a private key PEM file",
		RunE:  handler.ExportPublicKeyCmd,
	}
	exportPublicKeyCmd.Flags().StringP("private-key", "", "", "Path to the private key PEM")
	exportPublicKeyCmd.Flags().StringP("password", "p", "", "Password of the private key (or "+PasswordEnv+")")
	exportPublicKeyCmd.Flags().StringP("output-file", "o", "", "Path to the public key output file (stdout when empty)")
	_ = exportPublicKeyCmd.MarkFlagRequired("private-key")
	rootCmd.AddCommand(exportPublicKeyCmd)

	var changePasswordCmd = &cobra.Command{
		Use:   "change-password",
		Short: "Re-encrypt a private key PEM file under a new password",
		RunE:  handler.ChangePasswordCmd,
	}
	changePasswordCmd.Flags().StringP("private-key", "", "", "Path to the private key PEM")
	changePasswordCmd.Flags().StringP("password", "p", "", "Current password (or "+PasswordEnv+")")
	changePasswordCmd.Flags().StringP("new-password", "", "", "New password, empty removes the encryption (or "+NewPasswordEnv+")")
	_ = changePasswordCmd.MarkFlagRequired("private-key")
	rootCmd.AddCommand(changePasswordCmd)

	return nil
}
