package oppgave

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"oppgave-sync/core/config"
	"oppgave-sync/feature/hjemmel"
	"oppgave-sync/feature/oppgave/client"
	"oppgave-sync/feature/oppgave/models"
	"oppgave-sync/feature/oppgave/store"

	"go.uber.org/zap"
)

// HjemmelMangler is the sentinel written when no legal reference can be
// determined from the record.
const HjemmelMangler = "MANGLER"

// ErrProcessing is returned from the single-record path when a record
// could not be handled. Details are in the secure log only.
var ErrProcessing = errors.New("oppgave processing failed")

// Engine applies the hjemmel decision logic to records arriving from the
// stream and to batch runs against the remote API.
type Engine struct {
	client       client.OppgaveClient
	store        *store.Store
	extractor    *hjemmel.Extractor
	cfg          config.OppgaveConfig
	logger       *zap.Logger
	secureLogger *zap.Logger
}

// NewEngine creates the reconciliation engine.
func NewEngine(c client.OppgaveClient, s *store.Store, extractor *hjemmel.Extractor,
	cfg config.OppgaveConfig, logger, secureLogger *zap.Logger) *Engine {
	return &Engine{
		client:       c,
		store:        s,
		extractor:    extractor,
		cfg:          cfg,
		logger:       logger,
		secureLogger: secureLogger,
	}
}

// HandleOppgave processes one change event from the stream. Records
// outside the intake filter are ignored without side effects. Matching
// records are saved to the local copy store and, when the decision logic
// calls for it, get their hjemmel written back to the remote system.
func (e *Engine) HandleOppgave(ctx context.Context, record models.OppgaveKafkaRecord) error {
	if !record.IsKlage(e.cfg.Behandlingstype) || !record.IsTildeltKlageenhet(e.cfg.EnhetPrefix) {
		e.logger.Debug("Ignoring oppgave outside intake filter", zap.Int64("oppgave_id", record.ID))
		return nil
	}

	kopi, err := models.KafkaRecordToKopi(record)
	if err != nil {
		e.secureLogger.Error("Could not map stream record to local copy",
			zap.Int64("oppgave_id", record.ID),
			zap.Any("record", record),
			zap.Error(err),
		)
		e.logger.Warn("Could not map stream record, see secure log", zap.Int64("oppgave_id", record.ID))
		return fmt.Errorf("%w: oppgave %d", ErrProcessing, record.ID)
	}

	result, err := e.store.Upsert(ctx, kopi)
	if err != nil {
		e.secureLogger.Error("Could not store local copy",
			zap.Int64("oppgave_id", record.ID),
			zap.Any("record", record),
			zap.Error(err),
		)
		e.logger.Warn("Could not store local copy, see secure log", zap.Int64("oppgave_id", record.ID))
		return fmt.Errorf("%w: oppgave %d", ErrProcessing, record.ID)
	}
	if result.SkippedStale {
		e.logger.Debug("Stale version, local copy unchanged",
			zap.Int64("oppgave_id", record.ID),
			zap.Int("versjon", record.Versjon),
		)
	}

	value, write := e.decide(record.ID, record.Beskrivelse, record.HjemmelValue())
	if !write {
		return nil
	}

	if err := e.writeHjemmel(ctx, record.ID, value); err != nil {
		e.secureLogger.Error("Could not update hjemmel on remote oppgave",
			zap.Int64("oppgave_id", record.ID),
			zap.String("hjemmel", value),
			zap.Any("record", record),
			zap.Error(err),
		)
		e.logger.Warn("Could not update hjemmel, see secure log", zap.Int64("oppgave_id", record.ID))
		return fmt.Errorf("%w: oppgave %d", ErrProcessing, record.ID)
	}
	return nil
}

// decide is the should-store decision table. It returns the hjemmel value
// to write and whether a write is needed at all. There are exactly three
// outcomes: write, no write because a value is already set, no write
// because the value is already equal.
func (e *Engine) decide(id int64, beskrivelse, existing string) (string, bool) {
	if strings.TrimSpace(beskrivelse) == "" {
		if strings.TrimSpace(existing) != "" {
			return "", false
		}
		e.logger.Debug("Beskrivelse is empty, storing sentinel", zap.Int64("oppgave_id", id))
		return HjemmelMangler, true
	}

	codes := e.extractor.Extract(beskrivelse)
	if len(codes) == 0 {
		if strings.TrimSpace(existing) != "" {
			return "", false
		}
		e.logger.Debug("No hjemmel found in beskrivelse, storing sentinel", zap.Int64("oppgave_id", id))
		return HjemmelMangler, true
	}

	value := codes[0]
	if existing == value {
		return "", false
	}
	return value, true
}

// writeHjemmel fetches the current remote record and writes it back with
// the hjemmel metadata set. The record is copied, never mutated.
func (e *Engine) writeHjemmel(ctx context.Context, id int64, value string) error {
	oppgave, err := e.client.GetOppgave(ctx, id)
	if err != nil {
		return err
	}
	_, err = e.client.PutOppgave(ctx, oppgave.WithMetadata(models.MetadataHjemmel, value))
	return err
}

// tally counts records per batch item state.
type tally map[models.ItemState]int

func (t tally) fields() []zap.Field {
	return []zap.Field{
		zap.Int("fetched", t[models.ItemFetched]),
		zap.Int("filtered_out", t[models.ItemFilteredOut]),
		zap.Int("no_write_needed", t[models.ItemNoWriteNeeded]),
		zap.Int("write_ok", t[models.ItemWriteOK]),
		zap.Int("write_failed", t[models.ItemWriteFailed]),
	}
}

// BulkUpdateHjemmel runs the batch hjemmel update. Write failures are
// isolated per record; only a failure to fetch anything at all yields
// the ERROR status.
func (e *Engine) BulkUpdateHjemmel(ctx context.Context, req models.BatchUpdateRequest) models.BatchUpdateResponse {
	start := time.Now()
	e.logger.Info("Starting bulk hjemmel update",
		zap.Bool("dry_run", req.DryRun),
		zap.String("include_from", req.IncludeFrom),
	)

	var oppgaver []models.Oppgave
	if req.OppgaveID != nil {
		oppgave, err := e.client.GetOppgave(ctx, *req.OppgaveID)
		if err != nil {
			e.logger.Error("Could not fetch oppgave for bulk update", zap.Int64("oppgave_id", *req.OppgaveID), zap.Error(err))
			return models.BatchUpdateResponse{
				Finished: time.Now().Format(time.RFC3339),
				Status:   models.StatusError,
				Message:  fmt.Sprintf("could not fetch oppgave %d", *req.OppgaveID),
			}
		}
		oppgaver = []models.Oppgave{oppgave}
	} else {
		var err error
		oppgaver, err = e.fetchOppgaver(ctx, client.Filters{
			IncludeFrom:     req.IncludeFrom,
			Tema:            e.cfg.Tema,
			Behandlingstype: e.cfg.Behandlingstype,
		})
		if err != nil {
			e.logger.Error("Could not fetch oppgaver for bulk update", zap.Error(err))
			return models.BatchUpdateResponse{
				Finished: time.Now().Format(time.RFC3339),
				Status:   models.StatusError,
				Message:  "could not fetch oppgaver",
			}
		}
	}

	counts := tally{}
	type candidate struct {
		oppgave models.Oppgave
		value   string
	}
	var candidates []candidate
	failed := 0

	for _, oppgave := range oppgaver {
		counts[models.ItemFetched]++
		if !strings.HasPrefix(oppgave.TildeltEnhetsnr, e.cfg.EnhetPrefix) {
			counts[models.ItemFilteredOut]++
			continue
		}
		value, write := e.decide(oppgave.ID, oppgave.Beskrivelse, oppgave.HjemmelValue())
		if !write {
			counts[models.ItemNoWriteNeeded]++
			continue
		}
		if oppgave.ID == 0 {
			// Malformed record, fatal for the record only.
			counts[models.ItemWriteFailed]++
			failed++
			continue
		}
		candidates = append(candidates, candidate{oppgave: oppgave, value: value})
	}

	total := len(candidates) + failed
	written := 0

	if req.DryRun {
		e.logger.Info("Dry run, no writes performed", append(counts.fields(), zap.Duration("took", time.Since(start)))...)
		return models.BatchUpdateResponse{
			Finished: time.Now().Format(time.RFC3339),
			Status:   statusFor(len(candidates), total),
			Message:  fmt.Sprintf("%d stored out of %d", len(candidates), total),
		}
	}

	for _, c := range candidates {
		counts[models.ItemWritePending]++
		if _, err := e.client.PutOppgave(ctx, c.oppgave.WithMetadata(models.MetadataHjemmel, c.value)); err != nil {
			e.secureLogger.Error("Bulk update write failed",
				zap.Int64("oppgave_id", c.oppgave.ID),
				zap.String("hjemmel", c.value),
				zap.Any("oppgave", c.oppgave),
				zap.Error(err),
			)
			e.logger.Warn("Bulk update write failed, see secure log", zap.Int64("oppgave_id", c.oppgave.ID))
			counts[models.ItemWriteFailed]++
			failed++
			continue
		}
		counts[models.ItemWriteOK]++
		written++
	}

	e.logger.Info("Bulk hjemmel update finished", append(counts.fields(), zap.Duration("took", time.Since(start)))...)
	return models.BatchUpdateResponse{
		Finished: time.Now().Format(time.RFC3339),
		Status:   statusFor(written, total),
		Message:  fmt.Sprintf("%d stored out of %d", written, total),
	}
}

// BatchStore pulls the filtered record set from the remote API into the
// local copy store. Mapping or upsert failures are counted per record.
func (e *Engine) BatchStore(ctx context.Context, req models.BatchStoreRequest) models.BatchStoreResponse {
	start := time.Now()

	filters := client.Filters{
		IncludeFrom:     req.IncludeFrom,
		Tema:            req.Tema,
		Behandlingstype: req.Behandlingstype,
		TildeltEnhetsnr: req.TildeltEnhetsnr,
	}
	if filters.Tema == "" {
		filters.Tema = e.cfg.Tema
	}
	if filters.Behandlingstype == "" {
		filters.Behandlingstype = e.cfg.Behandlingstype
	}

	e.logger.Info("Starting batch store",
		zap.Bool("dry_run", req.DryRun),
		zap.String("tema", filters.Tema),
		zap.String("behandlingstype", filters.Behandlingstype),
	)

	oppgaver, err := e.fetchOppgaver(ctx, filters)
	if err != nil {
		e.logger.Error("Could not fetch oppgaver for batch store", zap.Error(err))
		return models.BatchStoreResponse{
			Finished: time.Now().Format(time.RFC3339),
			Status:   models.StatusError,
			Message:  "could not fetch oppgaver",
		}
	}

	total := len(oppgaver)
	written := 0

	for _, oppgave := range oppgaver {
		kopi, err := models.APIRecordToKopi(oppgave)
		if err != nil {
			e.secureLogger.Error("Could not map remote record to local copy",
				zap.Int64("oppgave_id", oppgave.ID),
				zap.Any("oppgave", oppgave),
				zap.Error(err),
			)
			e.logger.Warn("Could not map remote record, see secure log", zap.Int64("oppgave_id", oppgave.ID))
			continue
		}
		if req.DryRun {
			written++
			continue
		}
		if _, err := e.store.Upsert(ctx, kopi); err != nil {
			e.secureLogger.Error("Batch store upsert failed",
				zap.Int64("oppgave_id", oppgave.ID),
				zap.Any("oppgave", oppgave),
				zap.Error(err),
			)
			e.logger.Warn("Batch store upsert failed, see secure log", zap.Int64("oppgave_id", oppgave.ID))
			continue
		}
		written++
	}

	e.logger.Info("Batch store finished",
		zap.Int("total", total),
		zap.Int("written", written),
		zap.Duration("took", time.Since(start)),
	)
	return models.BatchStoreResponse{
		Finished: time.Now().Format(time.RFC3339),
		Status:   statusFor(written, total),
		Message:  fmt.Sprintf("%d stored out of %d", written, total),
	}
}

// fetchOppgaver pages through the remote API, advancing the offset by the
// configured page size until an empty page ends the run.
func (e *Engine) fetchOppgaver(ctx context.Context, filters client.Filters) ([]models.Oppgave, error) {
	var all []models.Oppgave
	for offset := 0; ; offset += e.cfg.PageSize {
		page, err := e.client.FetchOppgaver(ctx, filters, offset)
		if err != nil {
			return nil, err
		}
		if len(page.Oppgaver) == 0 {
			return all, nil
		}
		all = append(all, page.Oppgaver...)
	}
}

func statusFor(written, total int) models.ResponseStatus {
	if written == total {
		return models.StatusOK
	}
	return models.StatusPartial
}
