package cmd

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"oppgave-sync/core/config"
	"oppgave-sync/core/database"
	"oppgave-sync/core/logger"
	"oppgave-sync/feature/oppgave"
	"oppgave-sync/feature/oppgave/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for batch commands
	dryRunBatch      bool
	yesConfirm       bool
	oppgaveIDFlag    int64
	includeFromFlag  string
	temaFlag         string
	behandlingFlag   string
	tildeltEnhetFlag string
)

// batchCmd is the parent command for one-shot batch runs.
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run one-shot batch jobs against the remote oppgave API",
	Long: `Batch jobs fetch the filtered oppgave set from the remote system and
either update hjemler or pull the records into the local copy store.`,
}

// batchUpdateCmd runs a bulk hjemmel update.
var batchUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Derive and write hjemler for all open klage oppgaver",
	Long: `Fetches all open klage oppgaver page by page, derives the hjemmel from
each beskrivelse and writes changed values back to the remote system.

Examples:
  # Report what would be written
  batch update --dry-run

  # Real run with auto-confirm (non-interactive)
  batch update --yes

  # Single oppgave
  batch update --id 301848147 --yes`,
	RunE: runBatchUpdate,
}

// batchStoreCmd pulls the filtered record set into the local copy store.
var batchStoreCmd = &cobra.Command{
	Use:   "store",
	Short: "Pull the filtered oppgave set into the local copy store",
	RunE:  runBatchStore,
}

func init() {
	batchCmd.PersistentFlags().BoolVar(&dryRunBatch, "dry-run", false, "Report only, perform no writes")
	batchCmd.PersistentFlags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm real runs (non-interactive)")
	batchCmd.PersistentFlags().StringVar(&includeFromFlag, "include-from", "", "Only include oppgaver with frist on or after this date (ISO)")

	batchUpdateCmd.Flags().Int64Var(&oppgaveIDFlag, "id", 0, "Limit the run to a single oppgave id")

	batchStoreCmd.Flags().StringVar(&temaFlag, "tema", "", "Override the configured tema filter")
	batchStoreCmd.Flags().StringVar(&behandlingFlag, "behandlingstype", "", "Override the configured behandlingstype filter")
	batchStoreCmd.Flags().StringVar(&tildeltEnhetFlag, "tildelt-enhetsnr", "", "Server-side filter on the assigned unit")

	batchCmd.AddCommand(batchUpdateCmd)
	batchCmd.AddCommand(batchStoreCmd)
	RootCmd.AddCommand(batchCmd)
}

// setupBatch loads config and wires the feature for a one-shot run.
func setupBatch() (*oppgave.Feature, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	secure, err := logger.NewSecure(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize secure logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	feature, err := oppgave.NewFeature(cfg, db, logg, secure)
	if err != nil {
		return nil, nil, err
	}
	return feature, logg, nil
}

// confirmRun asks before a real run unless --yes or --dry-run is set.
func confirmRun(what string) bool {
	if dryRunBatch || yesConfirm {
		return true
	}
	fmt.Printf("About to %s against the remote system. Continue? [y/N] ", what)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(answer), "y")
}

func runBatchUpdate(cmd *cobra.Command, args []string) error {
	feature, logg, err := setupBatch()
	if err != nil {
		return err
	}
	defer logg.Sync()

	if !confirmRun("update hjemler") {
		log.Println("Aborted")
		return nil
	}

	req := models.BatchUpdateRequest{
		DryRun:      dryRunBatch,
		IncludeFrom: includeFromFlag,
	}
	if oppgaveIDFlag != 0 {
		req.OppgaveID = &oppgaveIDFlag
	}

	resp := feature.Engine().BulkUpdateHjemmel(context.Background(), req)
	logg.Info("Batch update finished",
		zap.String("status", string(resp.Status)),
		zap.String("message", resp.Message),
	)
	if resp.Status == models.StatusError {
		return fmt.Errorf("batch update failed: %s", resp.Message)
	}
	return nil
}

func runBatchStore(cmd *cobra.Command, args []string) error {
	feature, logg, err := setupBatch()
	if err != nil {
		return err
	}
	defer logg.Sync()

	if !confirmRun("pull oppgaver into the local store") {
		log.Println("Aborted")
		return nil
	}

	resp := feature.Engine().BatchStore(context.Background(), models.BatchStoreRequest{
		DryRun:          dryRunBatch,
		IncludeFrom:     includeFromFlag,
		Tema:            temaFlag,
		Behandlingstype: behandlingFlag,
		TildeltEnhetsnr: tildeltEnhetFlag,
	})
	logg.Info("Batch store finished",
		zap.String("status", string(resp.Status)),
		zap.String("message", resp.Message),
	)
	if resp.Status == models.StatusError {
		return fmt.Errorf("batch store failed: %s", resp.Message)
	}
	return nil
}
