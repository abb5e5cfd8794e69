package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"sparkacademy/internal/config"
	"sparkacademy/internal/logger"
	"sparkacademy/internal/repository"
	"sparkacademy/internal/service"
)

type importFlags struct {
	input string
	clear bool
	yes   bool
}

func main() {
	root := &cobra.Command{
		Use:          "backup",
		Short:        "Export and import Spark AI Academy learner data",
		Long:         "Copies every stored key under the configured prefix to or from a JSON file, so data can move between storage backends.",
		SilenceUsage: true,
	}

	var output string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write all learner data to a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), output)
		},
	}
	exportCmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: backup_YYYYMMDD_HHMMSS.json)")

	var flags importFlags
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Restore learner data from a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), flags)
		},
	}
	f := importCmd.Flags()
	f.StringVarP(&flags.input, "input", "i", "", "Input file path")
	f.BoolVar(&flags.clear, "clear", false, "Delete existing data before import (WARNING: destructive)")
	f.BoolVarP(&flags.yes, "yes", "y", false, "Skip the confirmation prompt for --clear")
	importCmd.MarkFlagRequired("input")

	root.AddCommand(exportCmd, importCmd)

	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// openBackup connects the configured storage and wraps it in a backup service
func openBackup(ctx context.Context) (*service.BackupService, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return nil, nil, err
	}

	storage, err := repository.OpenStorage(ctx, cfg, log)
	if err != nil {
		log.Sync()
		return nil, nil, fmt.Errorf("failed to open storage: %w", err)
	}

	keys := repository.NewKeys(cfg.Storage.KeyPrefix)
	cleanup := func() {
		storage.Close()
		log.Sync()
	}
	return service.NewBackupService(storage.KV, keys.Prefix(), log), cleanup, nil
}

func runExport(ctx context.Context, outputPath string) error {
	if outputPath == "" {
		outputPath = fmt.Sprintf("backup_%s.json", time.Now().Format("20060102_150405"))
	}

	// Ensure directory exists
	dir := filepath.Dir(outputPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	backup, cleanup, err := openBackup(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := backup.Export(ctx, outputPath); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	info, err := os.Stat(outputPath)
	if err == nil {
		fmt.Printf("Export complete: %s (%.2f KB)\n", outputPath, float64(info.Size())/1024)
	}
	return nil
}

func runImport(ctx context.Context, flags importFlags) error {
	if _, err := os.Stat(flags.input); err != nil {
		return fmt.Errorf("input file: %w", err)
	}

	backup, cleanup, err := openBackup(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if flags.clear {
		if !flags.yes && !confirm("WARNING: This will delete all existing learner data. Type 'yes' to confirm: ") {
			fmt.Println("Import cancelled")
			return nil
		}
		removed, err := backup.Clear(ctx)
		if err != nil {
			return fmt.Errorf("failed to clear data: %w", err)
		}
		fmt.Printf("Cleared %d keys\n", removed)
	}

	if err := backup.Import(ctx, flags.input); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	fmt.Println("Import complete")
	return nil
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.TrimSpace(line) == "yes"
}
