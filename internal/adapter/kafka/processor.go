package kafka

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/hamba/avro/v2"
	"github.com/lovoo/goka"
	"github.com/smartdeal/storefront/pkg/schema"
)

// A processor is used for composition.
//
// Running and closing the underlying [goka.Processor]
type processor struct {
	opPrefix string
	gp       *goka.Processor
}

func (p *processor) run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer wg.Done()

	go p.runProc(ctx, stopFn)

	log.Info("preparing...")
	p.waitForReady(ctx)
	log.Info("running")
}

func (p *processor) runProc(ctx context.Context, stopFn context.CancelFunc) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer stopFn()

	err := p.gp.Run(ctx)
	if err != nil {
		log.Error("stopped", "err", err)
		return
	}
	log.Info("stopped")
}

func (p *processor) waitForReady(ctx context.Context) {
	const op = "waitForReady"
	log := slog.With("op", makeOp(p.opPrefix, op))

	err := p.gp.WaitForReadyContext(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Error("fall down while preparing", "err", err)
		return
	}
}

func (p *processor) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))

	log.Info("closing processor...")
	p.gp.Stop()
	log.Info("processor is closed")
}

// A reactionEventCodec used for serde [schema.ReactionV1]
type reactionEventCodec struct {
	serde Serde
}

func newReactionEventCodec(s Serde) reactionEventCodec {
	return reactionEventCodec{s}
}

func (c reactionEventCodec) Encode(v any) ([]byte, error) {
	const op = "reactionEventCodec.Encode"
	if _, ok := v.(schema.ReactionV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c reactionEventCodec) Decode(data []byte) (any, error) {
	const op = "reactionEventCodec.Decode"
	var s schema.ReactionV1
	err := c.serde.Decode(data, &s)
	if err != nil {
		return nil, opErr(err, op)
	}
	return s, err
}

// A tallyCodec used for serde [schema.TallyV1] in the group table.
// Table values bypass the registry, plain avro is enough.
type tallyCodec struct {
	avroSchema avro.Schema
}

func newTallyCodec() (tallyCodec, error) {
	s, err := avro.Parse(schema.TallySchemaTextV1)
	if err != nil {
		return tallyCodec{}, err
	}
	return tallyCodec{s}, nil
}

func (c tallyCodec) Encode(v any) ([]byte, error) {
	const op = "tallyCodec.Encode"
	if _, ok := v.(schema.TallyV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return schema.AvroEncodeFn(c.avroSchema)(v)
}

func (c tallyCodec) Decode(data []byte) (any, error) {
	const op = "tallyCodec.Decode"
	var s schema.TallyV1
	err := schema.AvroDecodeFn(c.avroSchema)(data, &s)
	if err != nil {
		return nil, opErr(err, op)
	}
	return s, nil
}

// A ReactionTallyProcessor materializes the reaction stream into the
// per-product tally group table. Events carry absolute counters, the
// latest one wins.
type ReactionTallyProcessor struct {
	opPrefix string
	proc     processor
}

func NewReactionTallyProc(
	seedBrokers []string,
	inputStream string,
	groupTable string,
	reactionSerde Serde,
) (*ReactionTallyProcessor, error) {
	const op = "NewReactionTallyProcessor"

	var p ReactionTallyProcessor
	p.opPrefix = "ReactionTallyProcessor"

	tc, err := newTallyCodec()
	if err != nil {
		return nil, opErr(err, op)
	}

	gg := goka.DefineGroup(goka.Group(groupTable),
		goka.Input(
			goka.Stream(inputStream),
			newReactionEventCodec(reactionSerde),
			p.processFn,
		),
		goka.Persist(tc),
	)

	gp, err := goka.NewProcessor(seedBrokers, gg, withNonlogProcOpt())
	if err != nil {
		return nil, opErr(err, op)
	}

	p.proc = processor{
		opPrefix: p.opPrefix,
		gp:       gp,
	}

	return &p, nil
}

func (p *ReactionTallyProcessor) Run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	p.proc.run(ctx, stopFn, wg)
}

func (p *ReactionTallyProcessor) Close() {
	p.proc.close()
}

func (p *ReactionTallyProcessor) processFn(ctx goka.Context, msg any) {
	const op = "processFn"
	log := slog.With("op", makeOp(p.opPrefix, op))

	event, _ := msg.(schema.ReactionV1)
	v := schema.TallyV1{Likes: event.Likes, Dislikes: event.Dislikes}
	ctx.SetValue(v)
	log.Info(
		"set tally value",
		"productID", event.ProductID,
		"likes", v.Likes,
		"dislikes", v.Dislikes,
	)
}
