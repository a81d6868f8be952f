package cmd

import (
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"
)

// Config holds settings read from TRADELEDGER_* environment variables.
// Flags override whatever the environment provides.
type Config struct {
	Server string `default:"http://localhost:8888"`
	DB     string `default:"tradeledger.db"`
	Addr   string `default:":8888"`
}

var (
	cfg        Config
	flagServer string
	flagDB     string
)

var rootCmd = &cobra.Command{
	Use:   "tradeledger",
	Short: "Double-entry trading ledger for textile exports",
	Long:  "A double-entry journal and ledger engine for a textile trading business, covering parties, sales invoices, stock, multi-currency postings and derived balances.",
}

func init() {
	if err := envconfig.Process("tradeledger", &cfg); err != nil {
		// Bad env values fall back to compiled defaults.
		cfg = Config{Server: "http://localhost:8888", DB: "tradeledger.db", Addr: ":8888"}
	}
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", cfg.Server, "Server address")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", cfg.DB, "SQLite database path")
}

func Execute() error {
	return rootCmd.Execute()
}
