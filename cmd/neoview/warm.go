package main

import (
	"context"

	"github.com/spf13/cobra"
)

var warmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Fetch the feed and store the payload in the cache",
	Long: `Fetches the configured date range from the source and writes the raw
payload to the payload cache, so that later serve or dump runs sharing the
same Redis start without calling the source.`,
	RunE: runWarm,
}

func init() {
	rootCmd.AddCommand(warmCmd)
}

func runWarm(cmd *cobra.Command, _ []string) error {
	log := newLogger()
	defer log.Sync()

	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	if cfg.RedisAddr == "" {
		log.Warnw("no redis_addr configured; the payload cache does not outlive this process")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), loadTimeout(cfg))
	defer cancel()

	p, err := newPipeline(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer p.Close()

	ds, err := p.loader.Reload(ctx)
	if err != nil {
		return err
	}
	cmd.Printf("cached %s: %d records (%d hazardous) across %d dates\n",
		p.rng.Key(), ds.Counts().Total, ds.Counts().Hazardous, len(ds.Dates()))
	return nil
}
