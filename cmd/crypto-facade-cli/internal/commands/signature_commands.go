package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/MGTheTrain/crypto-facade/internal/infrastructure/cryptography"

	"github.com/spf13/cobra"
)

// SignatureCommandHandler signs and verifies files via CLI.
type SignatureCommandHandler struct{}

// NewSignatureCommandHandler initializes a new SignatureCommandHandler
func NewSignatureCommandHandler() *SignatureCommandHandler {
	return &SignatureCommandHandler{}
}

// SignCmd signs the contents of a file and writes the hex encoded signature
func (commandHandler *SignatureCommandHandler) SignCmd(cmd *cobra.Command, _ []string) error {
	inputFilePath, err := cmd.Flags().GetString("input-file")
	if err != nil {
		return fmt.Errorf("invalid input-file flag: %w", err)
	}
	privateKeyFilePath, err := cmd.Flags().GetString("private-key")
	if err != nil {
		return fmt.Errorf("invalid private-key flag: %w", err)
	}
	signatureFilePath, err := cmd.Flags().GetString("output-file")
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

	sig, err := privateKey.CreateSignature()
	if err != nil {
		return err
	}
	defer sig.Release()

	file, err := os.Open(filepath.Clean(inputFilePath))
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := io.Copy(io.Discard, cryptography.NewSignatureReader(sig, file)); err != nil {
		return fmt.Errorf("failed to read %s: %w", inputFilePath, err)
	}

	value, err := sig.Value()
	if err != nil {
		return err
	}

	if err := writeFile(signatureFilePath, []byte(hex.EncodeToString(value))); err != nil {
		return err
	}
	s.logger.Info("Signed ", inputFilePath, " with ", privateKey.Algorithm(), " key")
	return nil
}

// VerifyCmd verifies the hex encoded signature of a file's content
func (commandHandler *SignatureCommandHandler) VerifyCmd(cmd *cobra.Command, _ []string) error {
	inputFilePath, err := cmd.Flags().GetString("input-file")
	if err != nil {
		return fmt.Errorf("invalid input-file flag: %w", err)
	}
	publicKeyPath, err := cmd.Flags().GetString("public-key")
	if err != nil {
		return fmt.Errorf("invalid public-key flag: %w", err)
	}
	signatureFile, err := cmd.Flags().GetString("signature-file")
	if err != nil {
		return fmt.Errorf("invalid signature-file flag: %w", err)
	}

	signatureHex, err := os.ReadFile(filepath.Clean(signatureFile))
	if err != nil {
		return err
	}
	signature, err := hex.DecodeString(strings.TrimSpace(string(signatureHex)))
	if err != nil {
		return fmt.Errorf("signature file %s is not hex encoded: %w", signatureFile, err)
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	publicKey, err := s.loadPublicKey(publicKeyPath)
	if err != nil {
		return err
	}
	defer publicKey.Release()

	sig, err := publicKey.CreateSignature()
	if err != nil {
		return err
	}
	defer sig.Release()

	file, err := os.Open(filepath.Clean(inputFilePath))
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := io.Copy(cryptography.NewSignatureWriter(sig, nil), file); err != nil {
		return fmt.Errorf("failed to read %s: %w", inputFilePath, err)
	}

	valid, err := sig.Verify(signature)
	if err != nil {
		return err
	}

	if !valid {
		s.logger.Info("Signature invalid for ", inputFilePath)
		return fmt.Errorf("signature invalid for %s", inputFilePath)
	}
	s.logger.Info("Signature valid for ", inputFilePath)
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Signature valid for %s\n", inputFilePath)
	return err
}

// InitSignatureCommands registers signature-related commands
func InitSignatureCommands(rootCmd *cobra.Command) error {
	handler := NewSignatureCommandHandler()

	var signCmd = &cobra.Command{
		Use:   "sign",
		Short: "Sign a file with a private key",
		RunE:  handler.SignCmd,
	}
	signCmd.Flags().StringP("input-file", "", "", "Path to file that needs to be signed")
	signCmd.Flags().StringP("private-key", "", "", "Path to the private key PEM")
	signCmd.Flags().StringP("password", "p", "", "Password of the private key (or "+PasswordEnv+")")
	signCmd.Flags().StringP("output-file", "", "", "Path to signature output file")
	for _, name := range []string{"input-file", "private-key", "output-file"} {
		_ = signCmd.MarkFlagRequired(name)
	}
	rootCmd.AddCommand(signCmd)

	var verifyCmd = &cobra.Command{
		Use:   "verify",
		Short: "Verify a signature with a public key",
		RunE:  handler.VerifyCmd,
	}
	verifyCmd.Flags().StringP("input-file", "", "", "Path to file which needs to be validated")
	verifyCmd.Flags().StringP("public-key", "", "", "Path to the public key PEM")
	verifyCmd.Flags().StringP("signature-file", "", "", "Path to signature input file")
	for _, name := range []string{"input-file", "public-key", "signature-file"} {
		_ = verifyCmd.MarkFlagRequired(name)
	}
	rootCmd.AddCommand(verifyCmd)

	return nil
}
