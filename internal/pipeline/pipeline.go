// Package pipeline orchestrates a reconciliation run: load, normalize,
// deduplicate, restore, extract, review, commit. Stages run strictly in
// order over a single in-memory copy of the sheet; nothing is written back
// until the operator confirms.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/celiapp/catalog-cli/internal/config"
	"github.com/celiapp/catalog-cli/internal/cost"
	"github.com/celiapp/catalog-cli/internal/dedupe"
	"github.com/celiapp/catalog-cli/internal/extract"
	"github.com/celiapp/catalog-cli/internal/model"
	"github.com/celiapp/catalog-cli/internal/normalize"
	"github.com/celiapp/catalog-cli/internal/restore"
	"github.com/celiapp/catalog-cli/internal/store"
	"github.com/celiapp/catalog-cli/pkg/anthropic"
	"github.com/celiapp/catalog-cli/pkg/tabular"
)

// Pipeline wires the reconciliation stages together.
type Pipeline struct {
	sheets  tabular.Store
	history store.Store
	client  anthropic.Client
	rules   *normalize.Ruleset
	cfg     config.ReconcileConfig

	modelName  string
	sheetName  string
	backupName string

	// confirm is read for the literal commit confirmation. Stdin in
	// production, a buffer in tests.
	confirm io.Reader
	out     io.Writer
}

// Opts configures a Pipeline.
type Opts struct {
	Sheets     tabular.Store
	History    store.Store
	Client     anthropic.Client
	Rules      *normalize.Ruleset
	Config     config.ReconcileConfig
	Model      string
	SheetName  string
	BackupName string
	Confirm    io.Reader
	Out        io.Writer
}

// New creates a Pipeline.
func New(opts Opts) *Pipeline {
	rules := opts.Rules
	if rules == nil {
		rules = normalize.Default()
	}
	return &Pipeline{
		sheets:     opts.Sheets,
		history:    opts.History,
		client:     opts.Client,
		rules:      rules,
		cfg:        opts.Config,
		modelName:  opts.Model,
		sheetName:  opts.SheetName,
		backupName: opts.BackupName,
		confirm:    opts.Confirm,
		out:        opts.Out,
	}
}

// loaded holds everything read at the start of a run.
type loaded struct {
	columns tabular.ColumnMap
	records []*model.ProductRecord
	backups []*model.BackupRecord
}

// load reads the live and backup sheets concurrently and converts rows
// to records. The header row is consumed for column resolution.
func (p *Pipeline) load(ctx context.Context) (*loaded, error) {
	var liveRows, backupRows []tabular.Row

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := p.sheets.ReadAll(gCtx, p.sheetName)
		if err != nil {
			return eris.Wrapf(err, "pipeline: read sheet %q", p.sheetName)
		}
		liveRows = rows
		return nil
	})
	if p.cfg.EnableBackupRestoration && p.backupName != "" {
		g.Go(func() error {
			rows, err := p.sheets.ReadAll(gCtx, p.backupName)
			if err != nil {
				return eris.Wrapf(err, "pipeline: read backup sheet %q", p.backupName)
			}
			backupRows = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(liveRows) == 0 {
		return nil, eris.Errorf("pipeline: sheet %q is empty", p.sheetName)
	}

	cm, err := tabular.ResolveColumns(liveRows[0].Values)
	if err != nil {
		return nil, err
	}

	out := &loaded{columns: cm}
	for _, row := range liveRows[1:] {
		out.records = append(out.records, cm.ToRecord(row))
	}

	if len(backupRows) > 1 {
		bcm, err := tabular.ResolveColumns(backupRows[0].Values)
		if err != nil {
			zap.L().Warn("backup sheet header unusable, skipping restoration", zap.Error(err))
		} else {
			for _, row := range backupRows[1:] {
				out.backups = append(out.backups, bcm.ToBackupRecord(row))
			}
		}
	}
	return out, nil
}

// Run executes one full reconciliation run and returns the persisted Run
// record. A failed stage aborts the run and returns its error; the run
// summary is printed and persisted on every path, failures included.
func (p *Pipeline) Run(ctx context.Context) (*model.Run, error) {
	log := zap.L().With(zap.String("sheet", p.sheetName), zap.Bool("test_mode", p.cfg.TestMode))
	log.Info("starting reconciliation run")

	run, err := p.history.CreateRun(ctx, p.sheetName, p.cfg.TestMode)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: create run")
	}

	summary := &model.Summary{}
	run.Summary = summary

	// Stage tracking helper: duration, status, error capture. A failed
	// stage aborts the run; disabled stages are recorded as skipped.
	trackStage := func(name string, enabled bool, fn func() error) error {
		if !enabled {
			summary.Stages = append(summary.Stages, model.StageResult{
				Name:   name,
				Status: model.StageStatusSkipped,
			})
			log.Info("stage skipped", zap.String("stage", name))
			return nil
		}
		start := time.Now()
		err := fn()
		sr := model.StageResult{
			Name:     name,
			Status:   model.StageStatusComplete,
			Duration: time.Since(start).Milliseconds(),
		}
		if err != nil {
			sr.Status = model.StageStatusFailed
			sr.Error = err.Error()
			log.Error("stage failed", zap.String("stage", name), zap.Error(err))
		} else {
			log.Info("stage complete",
				zap.String("stage", name),
				zap.Int64("duration_ms", sr.Duration))
		}
		summary.Stages = append(summary.Stages, sr)
		return err
	}

	finish := func(status model.RunStatus) (*model.Run, error) {
		run.Status = status
		run.FinishedAt = time.Now().UTC()
		p.printSummary(run)
		if err := p.history.CompleteRun(ctx, run.ID, status, summary); err != nil {
			log.Warn("failed to persist run summary", zap.Error(err))
		}
		return run, nil
	}

	// Load.
	var data *loaded
	if err := trackStage("load", true, func() error {
		var err error
		data, err = p.load(ctx)
		return err
	}); err != nil {
		_, _ = finish(model.RunStatusAborted)
		return run, err
	}
	summary.RecordsLoaded = len(data.records)
	summary.BackupRecords = len(data.backups)
	p.setStatus(ctx, run, model.RunStatusLoaded)

	// Normalize.
	if err := trackStage("normalize", p.cfg.EnableNormalization, func() error {
		for _, rec := range data.records {
			summary.NormalizedFields += p.rules.Apply(rec)
		}
		summary.ConsolidatedBrands = p.rules.ConsolidateBrands(data.records)
		return nil
	}); err != nil {
		return finish(model.RunStatusAborted)
	}
	p.setStatus(ctx, run, model.RunStatusNormalized)

	// Deduplicate.
	if err := trackStage("dedupe", p.cfg.EnableExactDedup || p.cfg.EnableFuzzyDedup, func() error {
		groups := dedupe.Find(data.records, dedupe.Config{
			Exact:     p.cfg.EnableExactDedup,
			Fuzzy:     p.cfg.EnableFuzzyDedup,
			Threshold: p.cfg.SimilarityThreshold,
		})
		summary.MergeGroups = len(groups)
		summary.RowsMerged = dedupe.Merge(groups)
		return nil
	}); err != nil {
		return finish(model.RunStatusAborted)
	}
	p.setStatus(ctx, run, model.RunStatusDeduplicated)

	// Restore from backup.
	if err := trackStage("restore", p.cfg.EnableBackupRestoration && len(data.backups) > 0, func() error {
		res := restore.Run(data.records, data.backups, restore.Config{
			Threshold:       p.cfg.SimilarityThreshold,
			AmbiguityMargin: p.cfg.AmbiguityMargin,
		})
		summary.RestoredFields = res.RestoredFields
		summary.AmbiguousSkips = res.AmbiguousSkips
		return nil
	}); err != nil {
		return finish(model.RunStatusAborted)
	}
	p.setStatus(ctx, run, model.RunStatusRestored)

	// Brand extraction and type fill.
	extractor := extract.NewExtractor(p.client, p.rules, cost.NewCalculator(cost.DefaultRates()), extract.Config{
		Enabled:       p.cfg.UseAIBrandExtraction,
		Model:         p.modelName,
		MinNameLength: p.cfg.MinNameLength,
		MaxNameLength: p.cfg.MaxNameLength,
		BatchSize:     p.cfg.BatchSize,
		MaxProducts:   p.cfg.MaxAIProducts,
	})
	if err := trackStage("extract", p.cfg.EnableBrandExtraction, func() error {
		est := extractor.Estimate(data.records)
		summary.Cost = &est
		fmt.Fprintf(p.out, "AI extraction estimate: %d records, ~%d tokens, ~$%.4f\n",
			est.RecordCount, est.EstimatedTokens, est.EstimatedCost)

		res, err := extractor.Run(ctx, data.records)
		summary.AIEligible = res.Eligible
		summary.AIDispatched = res.Dispatched
		summary.AIFilled = res.Filled
		summary.AIDeclined = res.Declined
		summary.AIFailed = res.Failed
		if err != nil {
			return err
		}
		if p.cfg.EnableTypeFill {
			summary.TypeFilled = extract.FillTypes(data.records, p.rules)
		}
		return nil
	}); err != nil {
		_, _ = finish(model.RunStatusAborted)
		return run, err
	}
	p.setStatus(ctx, run, model.RunStatusAIExtracted)

	// Review.
	p.printPlan(data, summary)
	p.setStatus(ctx, run, model.RunStatusReviewed)

	if p.cfg.TestMode {
		fmt.Fprintln(p.out, "Test mode: no changes written.")
		return finish(model.RunStatusAborted)
	}
	if !p.confirmCommit() {
		fmt.Fprintln(p.out, "Commit not confirmed, aborting.")
		return finish(model.RunStatusAborted)
	}

	// Commit. A failed or partial commit must surface to the caller: the
	// sheet may already be half rewritten and exit status is the last
	// signal the operator gets.
	if err := trackStage("commit", true, func() error {
		return p.commit(ctx, data, summary)
	}); err != nil {
		_, _ = finish(model.RunStatusAborted)
		return run, err
	}
	return finish(model.RunStatusCommitted)
}

// setStatus advances the persisted run state. Failures are logged, not
// fatal: the in-memory run carries on.
func (p *Pipeline) setStatus(ctx context.Context, run *model.Run, status model.RunStatus) {
	run.Status = status
	if err := p.history.UpdateRunStatus(ctx, run.ID, status); err != nil {
		zap.L().Warn("failed to persist run status",
			zap.String("status", string(status)),
			zap.Error(err))
	}
}

// commit writes the reconciled rows back, then deletes merged-away rows.
// Partial failures are recorded in the summary; there is no rollback.
func (p *Pipeline) commit(ctx context.Context, data *loaded, summary *model.Summary) error {
	writes := make(map[int][]string)
	var deletes []int
	for _, rec := range data.records {
		switch {
		case rec.Deleted:
			deletes = append(deletes, rec.RowIndex)
		case rec.Dirty:
			writes[rec.RowIndex] = data.columns.FromRecord(rec)
		}
	}

	zap.L().Info("committing changes",
		zap.Int("writes", len(writes)),
		zap.Int("deletes", len(deletes)))

	if len(writes) > 0 {
		if err := p.sheets.WriteRows(ctx, p.sheetName, writes); err != nil {
			summary.WriteErrors = append(summary.WriteErrors,
				fmt.Sprintf("write %d rows: %v", len(writes), err))
			return eris.Wrap(err, "pipeline: write rows")
		}
		summary.RowsWritten = len(writes)
	}
	if len(deletes) > 0 {
		if err := p.sheets.DeleteRows(ctx, p.sheetName, deletes); err != nil {
			summary.WriteErrors = append(summary.WriteErrors,
				fmt.Sprintf("delete %d rows: %v", len(deletes), err))
			return eris.Wrap(err, "pipeline: delete rows")
		}
		summary.RowsDeleted = len(deletes)
	}
	return nil
}
