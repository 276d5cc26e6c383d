package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/modelboard/modelboard/catalog"
	"github.com/modelboard/modelboard/util"

	cli "github.com/urfave/cli/v2"
)

var syncCmd = &cli.Command{
	Name:  "sync",
	Usage: "fetch the model list once and write the normalized snapshot to a file",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "out",
			Usage:   "path of the snapshot JSON file to write",
			Value:   "models.json",
			EnvVars: []string{"MODELBOARD_SYNC_OUT"},
		},
	},
	Action: func(cctx *cli.Context) error {
		logger := configLogger(cctx, os.Stdout)

		client := catalog.NewClient(cctx.String("upstream-url"))
		// one-shot job, retries are fine here
		client.HTTPClient = util.RobustHTTPClient()

		start := time.Now()
		raw, err := client.FetchModels(context.Background())
		if err != nil {
			return fmt.Errorf("fetching models: %w", err)
		}
		snap := catalog.BuildSnapshot(raw, time.Now())

		body, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding snapshot: %w", err)
		}

		outPath := cctx.String("out")
		if err := writeFileAtomic(outPath, body); err != nil {
			return fmt.Errorf("writing snapshot: %w", err)
		}

		logger.Info("wrote model snapshot",
			"path", outPath,
			"models", snap.TotalCount,
			"took", time.Since(start))
		return nil
	},
}

// writeFileAtomic writes via a temp file and rename so a concurrent reader
// never observes a partial snapshot.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".modelboard-sync-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
