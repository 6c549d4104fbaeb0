package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/tomei-lab/tomei/internal/analysis"
	"github.com/tomei-lab/tomei/internal/util"
	"github.com/tomei-lab/tomei/pkg/logger"
	"github.com/tomei-lab/tomei/pkg/logger/console"
	"github.com/tomei-lab/tomei/pkg/report"
)

func main() {
	company := flag.String("company", "", "company name to analyze (required)")
	country := flag.String("country", "US", "country of the company (US, UK, JP)")
	officer := flag.String("officer", "", "officer name to include in variant search")
	website := flag.String("website", "", "company website URL (JP only)")
	output := flag.String("output", "", "output file path (default: data/output/<company>_integrated_analysis_<ts>.json)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	util.LoadEnv()
	logger.Init(console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: *debug || util.GetEnvBool("DEBUG", false),
	}))

	if *company == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline := analysis.NewPipelineFromEnv()

	result, err := pipeline.Run(ctx, analysis.Request{
		Company: *company,
		Country: *country,
		Officer: *officer,
		Website: *website,
	})
	if err != nil {
		logger.Fatal("Analysis failed", "company", *company, "err", err)
	}

	path := *output
	if path == "" {
		dir := util.GetEnvString("REPORT_DIR", "data/output")
		path = filepath.Join(dir, report.Filename(*company, result.AnalysisDate))
	}
	if err := result.Write(path); err != nil {
		logger.Fatal("Failed to write report", "path", path, "err", err)
	}

	logger.Info("Report written", "path", path)
	logger.Info(
		"Analysis summary",
		"company", *company,
		"entities", result.Summary.TotalEntities,
		"relationships", result.Summary.TotalRelationships,
		"edgar", result.DataSources.Edgar,
		"companies_house", result.DataSources.CompaniesHouse,
		"japan", result.DataSources.JapanCorporate,
		"political", result.DataSources.Political,
	)
}
