package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/intelligrit/gtd-map/internal/dashboard"
	"github.com/intelligrit/gtd-map/internal/dataset"
	"github.com/intelligrit/gtd-map/internal/monthindex"
	"github.com/intelligrit/gtd-map/internal/store"
	"github.com/intelligrit/gtd-map/internal/web"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("host") {
			serveHost = cfg.Server.Host
		}
		if !cmd.Flags().Changed("port") {
			servePort = cfg.Server.Port
		}

		ds, err := loadDataset(cmd.Context())
		if err != nil {
			return err
		}
		b, err := newBuilder(ds)
		if err != nil {
			return err
		}

		srv := &web.Server{
			Dashboard:    b,
			Addr:         fmt.Sprintf("%s:%d", serveHost, servePort),
			Log:          log,
			RateLimit:    cfg.Server.RateLimit,
			Burst:        cfg.Server.Burst,
			DefaultStart: cfg.Months.DefaultStart,
			DefaultEnd:   cfg.Months.DefaultEnd,

			DefaultFromYear: cfg.World.DefaultFrom,
			DefaultToYear:   cfg.World.DefaultTo,
		}
		return srv.ListenAndServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "localhost", "Host to listen on")
	serveCmd.Flags().IntVar(&servePort, "port", 8050, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

// loadDataset reads the imported events from the store, falling back to the
// configured CSV when nothing has been imported yet.
func loadDataset(ctx context.Context) (*dataset.Dataset, error) {
	s, err := store.New(dataDir)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	var src dataset.Source = s
	if s.EventCount() == 0 {
		log.Info("store empty, reading csv", zap.String("path", cfg.Data.CSV))
		src = dataset.CSVFile{Path: cfg.Data.CSV}
	}
	return dataset.Load(ctx, src, log)
}

func newBuilder(ds *dataset.Dataset) (*dashboard.Builder, error) {
	idx, err := monthindex.New(cfg.Months.StartYear, cfg.Months.EndYear)
	if err != nil {
		return nil, err
	}
	b := dashboard.New(ds, idx)
	b.JitterMean = cfg.Jitter.Mean
	b.JitterSigma = cfg.Jitter.Sigma
	b.JitterActorMap = cfg.Jitter.ActorMap
	b.RankLimit = cfg.Rank.Limit
	return b, nil
}
