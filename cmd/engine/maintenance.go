package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"remotejobs-engine/internal/config"
	"remotejobs-engine/internal/secrets"
)

var cleanupMaxAgeDays int

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete jobs older than the retention window",
	Args:  cobra.NoArgs,
	RunE:  runCleanup,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the engine configuration",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the config file and print the result",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

var configNormalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Rewrite the config file in normalized form (keeps a .bak)",
	Long: `Load the config file, apply defaults and normalization, and write it back.
Environment overrides are not written. The previous file is kept as <file>.bak.
Nothing is written when the config has errors.`,
	Args: cobra.NoArgs,
	RunE: runConfigNormalize,
}

var secretsCmd = &cobra.Command{
	Use:   "secrets",
	Short: "Manage secrets in the OS keychain",
}

var setDBPasswordCmd = &cobra.Command{
	Use:   "set-db-password",
	Short: "Store the Postgres password in the keychain (read from stdin)",
	Long: `Store the Postgres password in the OS keychain under the account from
store.keyring_account. The password is read from the first line of stdin:

  printf '%s\n' "$PW" | engine secrets set-db-password`,
	Args: cobra.NoArgs,
	RunE: runSetDBPassword,
}

var deleteDBPasswordCmd = &cobra.Command{
	Use:   "delete-db-password",
	Short: "Remove the Postgres password from the keychain",
	Args:  cobra.NoArgs,
	RunE:  runDeleteDBPassword,
}

func init() {
	cleanupCmd.Flags().IntVar(&cleanupMaxAgeDays, "max-age-days", 0, "retention in days (default cleanup.max_age_days)")

	configCmd.AddCommand(configValidateCmd, configNormalizeCmd)
	secretsCmd.AddCommand(setDBPasswordCmd, deleteDBPasswordCmd)
	rootCmd.AddCommand(cleanupCmd, configCmd, secretsCmd)
}

func runCleanup(cmd *cobra.Command, _ []string) error {
	a, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	days := cleanupMaxAgeDays
	if days == 0 {
		days = a.cfg.Cleanup.MaxAgeDays
	}
	n, err := a.svc.Cleanup(cmd.Context(), time.Duration(days)*24*time.Hour)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %d jobs older than %d days\n", n, days)
	return nil
}

func configPath() (string, error) {
	if flagConfig != "" {
		return flagConfig, nil
	}
	return config.EnsureUserConfig(dataDir())
}

// runConfigValidate reports every problem instead of failing on the first,
// so it does not go through loadConfig.
func runConfigValidate(cmd *cobra.Command, _ []string) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	config.ApplyEnv(&cfg)

	_, v := config.NormalizeAndValidate(cfg)
	if err := printJSON(cmd.OutOrStdout(), map[string]any{"path": path, "validation": v}); err != nil {
		return err
	}
	if !v.OK() {
		return fmt.Errorf("%d config error(s)", len(v.Errors))
	}
	return nil
}

func runConfigNormalize(cmd *cobra.Command, _ []string) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	cfg, _ = config.NormalizeAndValidate(cfg)
	if err := config.SaveAtomic(path, cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}

func runSetDBPassword(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	pw, err := readSecret(cmd.InOrStdin())
	if err != nil {
		return err
	}
	account := secrets.DBKeyringAccount(cfg)
	if err := secrets.SetDBPassword(account, pw); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "stored password for %s\n", account)
	return nil
}

func runDeleteDBPassword(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	account := secrets.DBKeyringAccount(cfg)
	if err := secrets.DeleteDBPassword(account); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted password for %s\n", account)
	return nil
}

func readSecret(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return "", errors.New("no password on stdin")
	}
	return line, nil
}
