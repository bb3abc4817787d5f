package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/MGTheTrain/crypto-facade/internal/app"
	"github.com/MGTheTrain/crypto-facade/internal/domain/keys"
	"github.com/MGTheTrain/crypto-facade/internal/infrastructure/persistence"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// PEMPasswordEnv is read when --pem-password is omitted on import
const PEMPasswordEnv = "CRYPTO_FACADE_PEM_PASSWORD"

// StoreCommandHandler manages key pairs kept in the configured database.
type StoreCommandHandler struct{}

// NewStoreCommandHandler initializes a new StoreCommandHandler
func NewStoreCommandHandler() *StoreCommandHandler {
	return &StoreCommandHandler{}
}

// storeSession extends a session with the key store services
type storeSession struct {
	*session
	db              *gorm.DB
	keyPairService  keys.KeyPairService
	metadataService keys.CryptoKeyMetadataService
}

func openStoreSession(cmd *cobra.Command) (*storeSession, error) {
	s, err := openSession(cmd)
	if err != nil {
		return nil, err
	}

	db, err := persistence.NewDBConnection(s.cfg.Database)
	if err != nil {
		s.close()
		return nil, fmt.Errorf("failed to create db connection: %w", err)
	}

	cryptoKeyRepo, err := persistence.NewGormCryptoKeyRepository(db, s.logger)
	if err != nil {
		s.close()
		_ = persistence.CloseDB(db)
		return nil, fmt.Errorf("failed to create crypto key repository: %w", err)
	}

	keyPairService, err := app.NewKeyPairService(cryptoKeyRepo, s.keyFactory, s.logger)
	if err != nil {
		s.close()
		_ = persistence.CloseDB(db)
		return nil, err
	}
	metadataService, err := app.NewCryptoKeyMetadataService(cryptoKeyRepo, s.logger)
	if err != nil {
		s.close()
		_ = persistence.CloseDB(db)
		return nil, err
	}

	return &storeSession{
		session:         s,
		db:              db,
		keyPairService:  keyPairService,
		metadataService: metadataService,
	}, nil
}

func (s *storeSession) close() {
	s.session.close()
	if err := persistence.CloseDB(s.db); err != nil {
		s.logger.Error("failed to close database ", err)
	}
}

// GenerateCmd generates a key pair and stores it
func (commandHandler *StoreCommandHandler) GenerateCmd(cmd *cobra.Command, _ []string) error {
	algorithm, err := cmd.Flags().GetString("algorithm")
	if err != nil {
		return fmt.Errorf("invalid algorithm flag: %w", err)
	}
	userID, err := cmd.Flags().GetString("user-id")
	if err != nil {
		return fmt.Errorf("invalid user-id flag: %w", err)
	}
	password, err := passwordFlag(cmd, "password", PasswordEnv)
	if err != nil {
		return err
	}

	s, err := openStoreSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	keyMetas, err := s.keyPairService.Generate(cmd.Context(), userID, algorithm, password)
	if err != nil {
		return err
	}
	return printKeyMetas(cmd, keyMetas)
}

// ImportCmd stores the key pair of a private key PEM file
func (commandHandler *StoreCommandHandler) ImportCmd(cmd *cobra.Command, _ []string) error {
	privateKeyFilePath, err := cmd.Flags().GetString("private-key")
	if err != nil {
		return fmt.Errorf("invalid private-key flag: %w", err)
	}
	userID, err := cmd.Flags().GetString("user-id")
	if err != nil {
		return fmt.Errorf("invalid user-id flag: %w", err)
	}
	pemPassword, err := passwordFlag(cmd, "pem-password", PEMPasswordEnv)
	if err != nil {
		return err
	}
	password, err := passwordFlag(cmd, "password", PasswordEnv)
	if err != nil {
		return err
	}

	pemData, err := os.ReadFile(filepath.Clean(privateKeyFilePath))
	if err != nil {
		return err
	}

	s, err := openStoreSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	keyMetas, err := s.keyPairService.Import(cmd.Context(), userID, string(pemData), pemPassword, password)
	if err != nil {
		return err
	}
	return printKeyMetas(cmd, keyMetas)
}

// ListKeysCmd prints stored key metadata
func (commandHandler *StoreCommandHandler) ListKeysCmd(cmd *cobra.Command, _ []string) error {
	query := keys.NewCryptoKeyQuery()
	var err error
	if query.Algorithm, err = cmd.Flags().GetString("algorithm"); err != nil {
		return fmt.Errorf("invalid algorithm flag: %w", err)
	}
	if query.Type, err = cmd.Flags().GetString("type"); err != nil {
		return fmt.Errorf("invalid type flag: %w", err)
	}
	if cmd.Flags().Changed("user-id") {
		if query.UserID, err = cmd.Flags().GetString("user-id"); err != nil {
			return fmt.Errorf("invalid user-id flag: %w", err)
		}
	}

	s, err := openStoreSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	keyMetas, err := s.metadataService.List(cmd.Context(), query)
	if err != nil {
		return err
	}
	return printKeyMetas(cmd, keyMetas)
}

// ExportKeyCmd prints the public PEM of a stored key pair
func (commandHandler *StoreCommandHandler) ExportKeyCmd(cmd *cobra.Command, _ []string) error {
	keyID, err := cmd.Flags().GetString("id")
	if err != nil {
		return fmt.Errorf("invalid id flag: %w", err)
	}

	s, err := openStoreSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	publicKey, err := s.keyPairService.LoadPublicKey(cmd.Context(), keyID)
	if err != nil {
		return err
	}
	defer publicKey.Release()

	publicPEM, err := s.keyFactory.WritePublicKeyToPem(publicKey)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), publicPEM)
	return err
}

// DeleteKeyCmd deletes both halves of a stored key pair
func (commandHandler *StoreCommandHandler) DeleteKeyCmd(cmd *cobra.Command, _ []string) error {
	keyID, err := cmd.Flags().GetString("id")
	if err != nil {
		return fmt.Errorf("invalid id flag: %w", err)
	}

	s, err := openStoreSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	return s.metadataService.DeleteByKeyPairID(cmd.Context(), keyID)
}

func printKeyMetas(cmd *cobra.Command, keyMetas []*keys.CryptoKeyMeta) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKEY PAIR ID\tALGORITHM\tSIZE\tTYPE\tCREATED")
	for _, keyMeta := range keyMetas {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			keyMeta.ID, keyMeta.KeyPairID, keyMeta.Algorithm, keyMeta.KeySize, keyMeta.Type,
			keyMeta.DateTimeCreated.Format("2006-01-02T15:04:05Z07:00"))
	}
	return w.Flush()
}

// InitStoreCommands registers the key store commands under "store"
func InitStoreCommands(rootCmd *cobra.Command) error {
	handler := NewStoreCommandHandler()

	storeCmd := &cobra.Command{
		Use:   "store",
		Short: "Manage key pairs in the configured database",
	}
	storeCmd.PersistentFlags().String("user-id", "cli", "Owner of stored keys")

	generateCmd := &cobra.Command{
		Use:   "generate-keys",
		Short: "Generate and store a key pair",
		RunE:  handler.GenerateCmd,
	}
	generateCmd.Flags().StringP("algorithm", "a", "ECDSA", "Key algorithm (DSA, RSA, ECDSA, Ed25519)")
	generateCmd.Flags().StringP("password", "p", "", "Password encrypting the stored private key (or "+PasswordEnv+")")
	storeCmd.AddCommand(generateCmd)

	importCmd := &cobra.Command{
		Use:   "import-key",
		Short: "Store the key pair of a private key PEM file",
		RunE:  handler.ImportCmd,
	}
	importCmd.Flags().StringP("private-key", "", "", "Path to the private key PEM")
	importCmd.Flags().StringP("pem-password", "", "", "Password of the PEM file (or "+PEMPasswordEnv+")")
	importCmd.Flags().StringP("password", "p", "", "Password encrypting the stored private key (or "+PasswordEnv+")")
	_ = importCmd.MarkFlagRequired("private-key")
	storeCmd.AddCommand(importCmd)

	listCmd := &cobra.Command{
		Use:   "list-keys",
		Short: "List stored key metadata",
		RunE:  handler.ListKeysCmd,
	}
	listCmd.Flags().StringP("algorithm", "a", "", "Filter by key algorithm")
	listCmd.Flags().StringP("type", "t", "", "Filter by key type (private, public)")
	storeCmd.AddCommand(listCmd)

	exportCmd := &cobra.Command{
		Use:   "export-key",
		Short: "Print the public key PEM of a stored key pair",
		RunE:  handler.ExportKeyCmd,
	}
	exportCmd.Flags().String("id", "", "ID of either half of the key pair")
	_ = exportCmd.MarkFlagRequired("id")
	storeCmd.AddCommand(exportCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete-key",
		Short: "Delete a stored key pair",
		RunE:  handler.DeleteKeyCmd,
	}
	deleteCmd.Flags().String("id", "", "ID of either half of the key pair")
	_ = deleteCmd.MarkFlagRequired("id")
	storeCmd.AddCommand(deleteCmd)

	rootCmd.AddCommand(storeCmd)
	return nil
}
