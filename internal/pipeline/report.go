package pipeline

import (
	"fmt"

	"github.com/celiapp/catalog-cli/internal/model"
)

// printPlan shows the operator what a commit would change before the
// confirmation gate. Dry runs get the same report.
func (p *Pipeline) printPlan(data *loaded, summary *model.Summary) {
	dirty, deleted := 0, 0
	for _, rec := range data.records {
		switch {
		case rec.Deleted:
			deleted++
		case rec.Dirty:
			dirty++
		}
	}

	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, "Planned changes")
	fmt.Fprintln(p.out, "---------------")
	fmt.Fprintf(p.out, "  rows to rewrite:  %d\n", dirty)
	fmt.Fprintf(p.out, "  rows to delete:   %d\n", deleted)
	fmt.Fprintf(p.out, "  merge groups:     %d\n", summary.MergeGroups)
	fmt.Fprintf(p.out, "  restored fields:  %d (skipped %d ambiguous)\n",
		summary.RestoredFields, summary.AmbiguousSkips)
	fmt.Fprintf(p.out, "  brands filled:    %d of %d eligible\n",
		summary.AIFilled, summary.AIEligible)
	fmt.Fprintln(p.out)
}

// printSummary renders the final run summary. Every run path ends here,
// committed or aborted.
func (p *Pipeline) printSummary(run *model.Run) {
	s := run.Summary
	fmt.Fprintln(p.out)
	fmt.Fprintf(p.out, "Run %s finished: %s\n", run.ID, run.Status)
	fmt.Fprintln(p.out, "-----------------------------------------------")
	fmt.Fprintf(p.out, "  records loaded:       %d (backup %d)\n", s.RecordsLoaded, s.BackupRecords)
	fmt.Fprintf(p.out, "  fields normalized:    %d\n", s.NormalizedFields)
	fmt.Fprintf(p.out, "  brands consolidated:  %d\n", s.ConsolidatedBrands)
	fmt.Fprintf(p.out, "  duplicate groups:     %d (%d rows merged)\n", s.MergeGroups, s.RowsMerged)
	fmt.Fprintf(p.out, "  fields restored:      %d (%d ambiguous skips)\n", s.RestoredFields, s.AmbiguousSkips)
	fmt.Fprintf(p.out, "  AI extraction:        %d dispatched, %d filled, %d declined, %d failed\n",
		s.AIDispatched, s.AIFilled, s.AIDeclined, s.AIFailed)
	fmt.Fprintf(p.out, "  types filled:         %d\n", s.TypeFilled)
	fmt.Fprintf(p.out, "  rows written:         %d\n", s.RowsWritten)
	fmt.Fprintf(p.out, "  rows deleted:         %d\n", s.RowsDeleted)
	if s.Cost != nil {
		fmt.Fprintf(p.out, "  estimated AI cost:    $%.4f (%d tokens)\n",
			s.Cost.EstimatedCost, s.Cost.EstimatedTokens)
	}
	for _, e := range s.WriteErrors {
		fmt.Fprintf(p.out, "  WRITE ERROR: %s\n", e)
	}
	for _, st := range s.Stages {
		if st.Status == model.StageStatusFailed {
			fmt.Fprintf(p.out, "  STAGE FAILED: %s: %s\n", st.Name, st.Error)
		}
	}
	fmt.Fprintln(p.out)
}
