package jest

import (
	"github.com/specvital/jestbridge/pkg/domain"
	"github.com/specvital/jestbridge/pkg/source"
)

// Results reconciles the report written for spec against the discovered
// position tree. Every position gets exactly one entry, keyed by its
// normalized identifier:
//
//   - positions the report mentions keep the translated record;
//   - positions it never mentions (namespace nodes, tests the runner
//     skipped without recording) are synthesized with status passed;
//   - a fatal translation error forces every entry to failed, since a
//     whole-file parse failure invalidates the entire report.
//
// Reconciliation is idempotent for a fixed (report, tree) pair apart from
// the capture-file paths.
func (a *Adapter) Results(spec *domain.RunSpec, tree *domain.Position) map[string]*domain.OutcomeRecord {
	translation := a.readReport(spec.Context.ResultsPath)
	return a.reconcile(translation, tree)
}

func (a *Adapter) readReport(path string) Translation {
	raw, err := source.ReadFileCapped(path, a.maxFileSize)
	if err != nil {
		a.log.Error("cannot read jest report", "path", path, "error", err)
		return emptyTranslation(ReasonUnreadable, false)
	}
	return a.Translate(raw)
}

func (a *Adapter) reconcile(translation Translation, tree *domain.Position) map[string]*domain.OutcomeRecord {
	results := make(map[string]*domain.OutcomeRecord)
	if tree == nil {
		return results
	}

	if translation.Reason != ReasonNone && !translation.FatalError {
		a.log.Warn("report yielded no outcomes, unmentioned positions default to passed",
			"reason", string(translation.Reason))
	}

	tree.Walk(func(pos *domain.Position) {
		id := domain.NormalizeID(pos.ID().String())

		record, ok := translation.Outcomes[id]
		if !ok {
			record = &domain.OutcomeRecord{Short: UnquoteName(pos.Name)}
		}

		// Default-pass policy: the report said nothing about this position.
		if record.Status == "" {
			record.Status = domain.StatusPassed
		}

		if translation.FatalError {
			record.Status = domain.StatusFailed
		}

		results[id] = record
	})

	return results
}
