package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lovoo/goka"
	"github.com/smartdeal/storefront/internal/core/domain"
	"github.com/smartdeal/storefront/internal/core/port"
	"github.com/smartdeal/storefront/pkg/schema"
)

var _ port.TallyProvider = (*TallyView)(nil)

// A TallyView reads the materialized reaction tallies from the group
// table.
type TallyView struct {
	gv *goka.View
}

func NewTallyView(
	seedBrokers []string, groupTable string,
) (*TallyView, error) {
	const op = "NewTallyView"

	tc, err := newTallyCodec()
	if err != nil {
		return nil, opErr(err, op)
	}

	gv, err := goka.NewView(
		seedBrokers,
		goka.GroupTable(goka.Group(groupTable)),
		tc,
	)
	if err != nil {
		return nil, opErr(err, op)
	}

	return &TallyView{gv}, nil
}

func (v *TallyView) Run(ctx context.Context) {
	const op = "TallyView.Run"
	log := slog.With("op", op)

	err := v.gv.Run(ctx)
	if err != nil {
		log.Error("unexpected fail on run", "err", err)
	}
}

// Tally returns the streamed counters for one product. The second
// value reports whether the table holds an entry.
func (v *TallyView) Tally(productID string) (domain.Counters, bool, error) {
	const op = "TallyView.Tally"

	value, err := v.gv.Get(productID)
	if err != nil {
		return domain.Counters{}, false, opErr(err, op)
	}
	if value == nil {
		return domain.Counters{}, false, nil
	}

	tally, ok := value.(schema.TallyV1)
	if !ok {
		return domain.Counters{}, false, opErr(
			fmt.Errorf("%w: %T", ErrInvalidValueType, value), op,
		)
	}

	c := domain.Counters{
		Likes:    int(tally.Likes),
		Dislikes: int(tally.Dislikes),
	}
	return c, true, nil
}
