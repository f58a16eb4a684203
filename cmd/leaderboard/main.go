package main

import (
	"context"
	"flag"
	"os"
	"strconv"

	"anoa.com/dailyguessr/internal/bootstrap"
	"anoa.com/dailyguessr/internal/config"
	"github.com/pterm/pterm"
)

func main() {
	driver := flag.String("driver", "", "ledger storage driver (file, postgres); defaults to STORAGE_DRIVER")
	file := flag.String("file", "", "path to the scores file for the file driver; defaults to SCORES_FILE")
	limit := flag.Int("limit", 0, "number of participants to show; defaults to LEADERBOARD_SIZE")
	flag.Parse()

	cfg, err := config.LoadWithOverrides(flagOverrides(*driver, *file, *limit))
	if err != nil {
		pterm.Error.Printfln("Invalid configuration: %v", err)
		os.Exit(1)
	}

	repo, closeRepo, err := bootstrap.OpenLedgerRepository(cfg)
	if err != nil {
		pterm.Error.Printfln("Failed to open ledger: %v", err)
		os.Exit(1)
	}
	defer closeRepo()

	ledger, err := repo.Load(context.Background())
	if err != nil {
		pterm.Error.Printfln("Failed to load ledger: %v", err)
		closeRepo()
		os.Exit(1)
	}

	top := ledger.TopN(cfg.LeaderboardSize)
	if len(top) == 0 {
		pterm.Info.Println("No scores yet.")
		return
	}

	pterm.DefaultSection.Printfln("%s Leaderboard", cfg.GameName)
	if err := pterm.DefaultTable.WithHasHeader().WithData(leaderboardTable(top)).Render(); err != nil {
		pterm.Error.Printfln("Failed to render table: %v", err)
	}
	pterm.Info.Printfln("%d participants in total", ledger.Len())
}

// flagOverrides maps the flags that were set onto their environment names.
func flagOverrides(driver, file string, limit int) map[string]string {
	overrides := make(map[string]string)
	if driver != "" {
		overrides["STORAGE_DRIVER"] = driver
	}
	if file != "" {
		overrides["SCORES_FILE"] = file
	}
	if limit > 0 {
		overrides["LEADERBOARD_SIZE"] = strconv.Itoa(limit)
	}
	return overrides
}
