package cmd

import (
	"context"
	"fmt"

	"github.com/loomworks/tradeledger/internal/ledger"
	"github.com/loomworks/tradeledger/internal/posting"
	"github.com/loomworks/tradeledger/internal/server"
	"github.com/loomworks/tradeledger/internal/state"
	"github.com/loomworks/tradeledger/internal/store"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(flagDB)
		if err != nil {
			return err
		}
		defer st.Close()

		chart := ledger.NewDefaultChart()
		disp := state.NewDispatcher(chart)

		snap, ok, err := st.LoadSnapshot(context.Background())
		if err != nil {
			return fmt.Errorf("load snapshot: %w", err)
		}
		if ok {
			disp.Seed(snap)
		}

		saver := store.NewSaver(st)
		defer saver.Close()
		disp.OnChange(saver.Schedule)

		engine := posting.NewEngine(chart)
		srv := server.New(disp, engine, saver, serveAddr)
		return srv.ListenAndServe()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", cfg.Addr, "Listen address")
	rootCmd.AddCommand(serveCmd)
}
