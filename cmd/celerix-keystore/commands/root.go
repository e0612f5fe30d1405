package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/celerix-dev/celerix-keystore/internal/config"
	"github.com/celerix-dev/celerix-keystore/internal/logger"
	"github.com/celerix-dev/celerix-keystore/pkg/sdk"
)

var (
	configPath string
	scope      string
	backend    string
	dataDir    string
	passphrase string
	assumeYes  bool

	cfg  config.Config
	root *sdk.Root
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "celerix-keystore",
		Short:         "Inspect and manage a Celerix secure keystore",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = config.Load(configPath); err != nil {
				return fail(err)
			}
			flags := cmd.Flags()
			if flags.Changed("scope") {
				cfg.Scope = scope
			}
			if flags.Changed("backend") {
				cfg.Backend = backend
			}
			if flags.Changed("data-dir") {
				cfg.DataDir = dataDir
			}
			if flags.Changed("passphrase") {
				cfg.Passphrase = passphrase
			}

			log := logger.New(cfg.Log)
			root, err = sdk.Open(cmd.Context(), cfg,
				sdk.WithLogger(log),
				sdk.WithAuthenticator(terminalAuthenticator(os.Stdin, os.Stderr, assumeYes)))
			return fail(err)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if root == nil {
				return nil
			}
			return fail(root.Close())
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "config file (yaml, toml or json)")
	pf.StringVar(&scope, "scope", "", "scope identifier (default from config)")
	pf.StringVar(&backend, "backend", "", "item store backend: memory, file or sqlite")
	pf.StringVar(&dataDir, "data-dir", "", "data directory for the file and sqlite backends")
	pf.StringVarP(&passphrase, "passphrase", "p", "", "device passphrase sealing the file and sqlite backends")
	pf.BoolVarP(&assumeYes, "yes", "y", false, "approve credential challenges without asking")

	rootCmd.AddCommand(
		saveCmd(), readCmd(), deleteCmd(), containsCmd(), clearCmd(), keysCmd(), incrCmd(),
		migrateCmd(), prefsCmd(), membersCmd(),
	)
	return rootCmd
}
