package backfill

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/denisAlshanov/stickerGallery/internal/models"
	"github.com/denisAlshanov/stickerGallery/internal/services/preview"
	"github.com/denisAlshanov/stickerGallery/internal/utils"
)

type Lister interface {
	ListStickerPacks(ctx context.Context) ([]models.StickerPack, error)
}

type Processor interface {
	Process(ctx context.Context, pack models.StickerPack) preview.Result
}

// Summary counts outcomes of one run.
type Summary struct {
	Total  int
	Counts map[models.Outcome]int
}

func (s Summary) String() string {
	parts := make([]string, 0, len(models.Outcomes))
	for _, o := range models.Outcomes {
		parts = append(parts, fmt.Sprintf("%s=%d", o, s.Counts[o]))
	}
	return fmt.Sprintf("processed %d: %s", s.Total, strings.Join(parts, " "))
}

// Runner walks every record once, strictly one at a time.
type Runner struct {
	lister    Lister
	processor Processor
	delay     time.Duration
	sleep     func(ctx context.Context, d time.Duration) error
}

func NewRunner(lister Lister, processor Processor, delay time.Duration) *Runner {
	return &Runner{
		lister:    lister,
		processor: processor,
		delay:     delay,
		sleep:     sleepContext,
	}
}

// Run lists all records and processes them in query order, pausing after
// each one. A listing failure aborts the run and counts as one error.
// Cancelling ctx stops the run between records.
func (r *Runner) Run(ctx context.Context) Summary {
	ctx = utils.WithComponent(ctx, "backfill")
	summary := Summary{Counts: make(map[models.Outcome]int, len(models.Outcomes))}

	packs, err := r.lister.ListStickerPacks(ctx)
	if err != nil {
		utils.LogError(ctx, "Failed to list sticker packs", err)
		summary.Counts[models.OutcomeError]++
		return summary
	}

	utils.LogInfo(ctx, "Backfill started", utils.Fields{"records": len(packs)})

	for i, pack := range packs {
		if ctx.Err() != nil {
			utils.LogWarn(ctx, "Backfill cancelled", utils.Fields{"remaining": len(packs) - i})
			break
		}

		res := r.processor.Process(ctx, pack)
		summary.Total++
		summary.Counts[res.Outcome]++

		if err := r.sleep(ctx, r.delay); err != nil {
			utils.LogWarn(ctx, "Backfill cancelled", utils.Fields{"remaining": len(packs) - i - 1})
			break
		}
	}

	utils.LogInfo(ctx, "Backfill finished", utils.Fields{"summary": summary.String()})
	return summary
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
