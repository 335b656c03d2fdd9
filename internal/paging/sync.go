package paging

import (
	"context"

	"github.com/odysseus0/feedsync/internal/model"
)

type Step struct {
	LoadType model.LoadType
	Outcome  Outcome
}

type SyncReport struct {
	Steps []Step
	// Pages counts appends that committed older posts.
	Pages int
	// EndReached is true once an append found no older posts.
	EndReached bool
	// Stalled is set when append kept answering MoreAvailable without a
	// BEFORE key even after a fallback refresh.
	Stalled bool
	Err     error
}

type stepFn func(step Step)

// Sync drives the mediator the way a paged list would: one refresh, then
// appends until the end of the feed, a failure, or maxPages appends.
//
// An append that reports MoreAvailable while no BEFORE key exists did no
// work. Sync answers that with a single fallback refresh rather than
// retrying the append in a tight loop.
func (m *Mediator) Sync(ctx context.Context, cfg model.PagingConfig, maxPages int, onStep stepFn) SyncReport {
	var report SyncReport
	run := func(loadType model.LoadType) Outcome {
		out := m.Load(ctx, loadType, cfg)
		step := Step{LoadType: loadType, Outcome: out}
		report.Steps = append(report.Steps, step)
		if onStep != nil {
			onStep(step)
		}
		return out
	}

	wasEmpty, err := m.cache.IsEmpty(ctx)
	if err != nil {
		report.Err = err
		return report
	}
	out := run(model.LoadRefresh)
	switch {
	case out.Kind == Failed:
		report.Err = out.Err
		return report
	case wasEmpty && out.Kind == EndReached:
		// The remote feed has no posts at all.
		report.EndReached = true
		return report
	}

	fellBack := false
	for maxPages <= 0 || report.Pages < maxPages {
		if err := ctx.Err(); err != nil {
			report.Err = err
			return report
		}

		out := run(model.LoadAppend)
		switch out.Kind {
		case Failed:
			report.Err = out.Err
			return report
		case EndReached:
			report.EndReached = true
			return report
		}

		_, hasBefore, err := m.cache.MinKey(ctx)
		if err != nil {
			report.Err = err
			return report
		}
		if hasBefore {
			report.Pages++
			continue
		}
		if fellBack {
			report.Stalled = true
			return report
		}
		fellBack = true
		if out := run(model.LoadRefresh); out.Kind == Failed {
			report.Err = out.Err
			return report
		}
	}
	return report
}
