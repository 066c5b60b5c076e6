package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"audex/internal/batch"
	"audex/internal/config"
	"audex/internal/dataset"
	"audex/internal/extract"
	"audex/internal/logging"
	"audex/internal/manifest"
	"audex/internal/runlock"
	"audex/internal/workerpool"
)

type extractOptions struct {
	filePath     string
	dirPath      string
	outputDir    string
	formatName   string
	metadataPath string
	workers      int
	strict       bool
}

func newExtractCommand(cmdCtx *commandContext) *cobra.Command {
	opts := &extractOptions{}

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract audio payloads from a dataset file or directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			return runExtract(cmd.Context(), cfg, opts, cmd.Flags().Changed("workers"))
		},
	}

	cmd.Flags().StringVarP(&opts.filePath, "file", "f", "", "Extract a single dataset file")
	cmd.Flags().StringVarP(&opts.dirPath, "dir", "d", "", "Extract every matching dataset file in a directory")
	cmd.Flags().StringVarP(&opts.outputDir, "output", "o", "", "Output directory (defaults to paths.output_dir)")
	cmd.Flags().StringVar(&opts.formatName, "format", "", "Input container format: parquet or arrow (defaults to extract.format)")
	cmd.Flags().StringVar(&opts.metadataPath, "metadata", "", "Write a filename/transcription CSV to this path")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "Worker width shared across files (defaults to extract.workers)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Abort a file on its first failed write")
	cmd.MarkFlagsMutuallyExclusive("file", "dir")
	cmd.MarkFlagsOneRequired("file", "dir")

	return cmd
}

func runExtract(ctx context.Context, cfg *config.Config, opts *extractOptions, workersSet bool) error {
	formatName := opts.formatName
	if formatName == "" {
		formatName = cfg.Extract.Format
	}
	format, err := dataset.ParseFormat(formatName)
	if err != nil {
		return err
	}

	outputDir := cfg.Paths.OutputDir
	if opts.outputDir != "" {
		if outputDir, err = config.ExpandPath(opts.outputDir); err != nil {
			return err
		}
	}

	workers := cfg.Extract.Workers
	if workersSet {
		if opts.workers < 1 {
			return fmt.Errorf("workers must be at least 1, got %d", opts.workers)
		}
		workers = opts.workers
	}

	metadataPath := opts.metadataPath
	if metadataPath == "" && cfg.Extract.MetadataFile != "" {
		metadataPath = filepath.Join(outputDir, cfg.Extract.MetadataFile)
	}

	strict := opts.strict || cfg.Extract.StrictWrites

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return err
	}
	logger = logging.WithComponent(logger, "extract")

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", outputDir, err)
	}

	lock, err := runlock.Acquire(outputDir)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	var store *manifest.Store
	if cfg.Paths.ManifestDB != "" {
		if store, err = manifest.Open(cfg.Paths.ManifestDB); err != nil {
			return err
		}
		defer store.Close()
	}

	mode, input := "file", opts.filePath
	if opts.dirPath != "" {
		mode, input = "directory", opts.dirPath
	}

	var runID string
	if store != nil {
		if runID, err = store.BeginRun(ctx, mode, input, outputDir, format.String()); err != nil {
			return err
		}
		ctx = logging.WithRunID(ctx, runID)
		logger = logging.WithContext(ctx, logger)
	}

	pool := workerpool.New(workers)
	var meta *extract.Accumulator
	if metadataPath != "" {
		meta = extract.NewAccumulator()
	}

	orch := &batch.Orchestrator{
		Format:  format,
		Columns: datasetColumns(cfg),
		Dispatcher: &extract.Dispatcher{
			Pool:      pool,
			OutputDir: outputDir,
			Metadata:  meta,
			Strict:    strict,
			Logger:    logger,
		},
		Logger: logger,
	}

	summary, runErr := runPipeline(ctx, orch, mode, input)

	if store != nil {
		for i := range summary.Results {
			fileErr := summary.Errors[summary.Results[i].Input]
			if err := store.RecordFile(ctx, runID, summary.Results[i], fileErr); err != nil {
				logger.Warn("manifest record failed", "error", err)
			}
		}
		ok := len(summary.Results) - summary.Failures
		if err := store.FinishRun(ctx, runID, summary.TotalRows, ok, summary.Failures); err != nil {
			logger.Warn("manifest finish failed", "error", err)
		}
	}
	if runErr != nil {
		return runErr
	}

	printSummary(summary)

	if meta != nil && meta.Len() > 0 {
		if err := writeMetadataFile(metadataPath, meta); err != nil {
			return err
		}
		fmt.Printf("metadata: %d records -> %s\n", meta.Len(), metadataPath)
	}
	return nil
}

func runPipeline(ctx context.Context, orch *batch.Orchestrator, mode, input string) (batch.Summary, error) {
	if mode == "directory" {
		return orch.RunDirectory(ctx, input)
	}
	res, err := orch.RunFile(ctx, input)
	if err != nil {
		return batch.Summary{}, err
	}
	return batch.Summary{Results: []extract.Result{res}, TotalRows: res.Rows}, nil
}

func datasetColumns(cfg *config.Config) dataset.Columns {
	return dataset.Columns{
		Audio:         cfg.Columns.Audio,
		Bytes:         cfg.Columns.Bytes,
		Path:          cfg.Columns.Path,
		Transcription: cfg.Columns.Transcription,
	}
}

func writeMetadataFile(path string, meta *extract.Accumulator) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create metadata file %s: %w", path, err)
	}
	if err := meta.WriteCSV(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write metadata file %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close metadata file %s: %w", path, err)
	}
	return nil
}

func printSummary(summary batch.Summary) {
	headers := []string{"Input", "Rows", "Written", "Skipped", "Invalid", "Failed"}
	rows := make([][]string, 0, len(summary.Results))
	for _, res := range summary.Results {
		rows = append(rows, []string{
			filepath.Base(res.Input),
			strconv.FormatInt(res.Rows, 10),
			strconv.FormatInt(res.Written, 10),
			strconv.FormatInt(res.SkippedExisting, 10),
			strconv.FormatInt(res.SkippedInvalid, 10),
			strconv.FormatInt(res.Failed, 10),
		})
	}
	fmt.Println(renderTable(headers, rows, 2, 3, 4, 5, 6))
	fmt.Printf("total rows: %d (%d file(s), %d failed)\n", summary.TotalRows, len(summary.Results), summary.Failures)
}
