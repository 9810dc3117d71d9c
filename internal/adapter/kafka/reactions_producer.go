package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/smartdeal/storefront/internal/core/domain"
	"github.com/smartdeal/storefront/internal/core/port"
	"github.com/twmb/franz-go/pkg/kgo"
)

var _ port.ReactionsProducer = (*ReactionsProducer)(nil)

// A ReactionsProducer streams like/dislike events keyed by product
// id, so the tally table sees them in order.
type ReactionsProducer struct {
	cl      ProducerClient
	encoder Encoder
}

func NewReactionsProducer(
	opts ...ProducerOpt,
) (ReactionsProducer, error) {
	const op = "NewReactionsProducer"

	if len(opts) != 2 {
		panic(fmt.Errorf("%s: %w", op, ErrTooFewOpts)) // develop mistake
	}

	var options producerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return ReactionsProducer{}, fmt.Errorf("%s: %w", op, err)
		}
	}
	return ReactionsProducer{options.cl, options.encoder}, nil
}

func (p ReactionsProducer) Close() {
	const op = "ReactionsProducer.Close"
	log := slog.With("op", op)
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

func (p ReactionsProducer) ProduceReaction(
	ctx context.Context, r domain.Reaction,
) error {
	const op = "ReactionsProducer.ProduceReaction"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rec, err := p.createRecord(r)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res := p.cl.ProduceSync(ctx, rec)
	if err := res.FirstErr(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (p ReactionsProducer) createRecord(
	r domain.Reaction,
) (*kgo.Record, error) {
	const op = "ReactionsProducer.createRecord"

	s := reactionToSchemaV1(r)
	v, err := p.encoder.Encode(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &kgo.Record{Key: []byte(s.ProductID), Value: v}, nil
}
