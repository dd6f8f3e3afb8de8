package launcher

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-bra/bra"
	"github.com/rony4d/go-bra/flags"
	"github.com/rony4d/go-bra/utils/cursor"
)

var (
	getCommand = cli.Command{
		Name:      "get",
		Usage:     "Print the byte, or the big-endian integer, at an absolute index",
		ArgsUsage: "<index>",
		Flags:     flags.GetFlags(),
		Action:    withSession("get", runGet),
	}
	sliceCommand = cli.Command{
		Name:      "slice",
		Usage:     "Print the bytes of [start, end) as hex",
		ArgsUsage: "<start> [<end>]",
		Flags:     flags.SliceFlags(),
		Action:    withSession("slice", runSlice),
	}
	catCommand = cli.Command{
		Name:   "cat",
		Usage:  "Copy the input to standard output through the greedy reader",
		Flags:  flags.CatFlags(),
		Action: withSession("cat", runCat),
	}
	statCommand = cli.Command{
		Name:      "stat",
		Usage:     "Report buffer usage, optionally after fetching up to an index",
		ArgsUsage: "[index]",
		Flags:     flags.StatFlags(),
		Action:    withSession("stat", runStat),
	}
)

// session is what every command works with: the configuration, a logger
// scoped to the command and a greedy reader over the selected input.
type session struct {
	cfg    Config
	log    *logrus.Entry
	reader *bra.GreedyAccessReader
}

func withSession(name string, run func(ctx *cli.Context, s *session) error) func(*cli.Context) error {
	return func(ctx *cli.Context) error {
		cfg, log, err := configFrom(ctx)
		if err != nil {
			return err
		}
		entry := log.WithField("command", name)

		src, closeSrc, err := openSource(cfg.Reader)
		if err != nil {
			entry.WithError(err).Error("Cannot open input")
			return err
		}
		defer closeSrc()

		s := &session{
			cfg:    cfg,
			log:    entry,
			reader: bra.NewSize(src, cfg.Reader.Capacity),
		}
		if err := run(ctx, s); err != nil {
			entry.WithError(err).Error("Command failed")
			return err
		}
		entry.WithFields(logrus.Fields{
			"retained": s.reader.Len(),
			"consumed": s.reader.Consumed(),
			"capacity": s.reader.Cap(),
		}).Debug("Command done")
		return nil
	}
}

func argIndex(ctx *cli.Context, i int, what string) (int, error) {
	if ctx.NArg() <= i {
		return 0, fmt.Errorf("missing <%s> argument", what)
	}
	s := ctx.Args().Get(i)
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", what, s, err)
	}
	return v, nil
}

func runGet(ctx *cli.Context, s *session) error {
	index, err := argIndex(ctx, 0, "index")
	if err != nil {
		return err
	}

	var v uint64
	as := ctx.String("as")
	switch as {
	case "byte":
		b, err := s.reader.Get(index)
		if err != nil {
			return err
		}
		v = uint64(b)
	case "u32":
		x, err := cursor.NewReader(s.reader, index).U32()
		if err != nil {
			return err
		}
		v = uint64(x)
	case "u64":
		x, err := cursor.NewReader(s.reader, index).U64()
		if err != nil {
			return err
		}
		v = x
	default:
		return fmt.Errorf("unknown decoding %q (valid: byte, u32, u64)", as)
	}

	s.log.WithFields(logrus.Fields{"index": index, "as": as}).Info("Fetched")
	_, err = fmt.Fprintln(ctx.App.Writer, hexutil.EncodeUint64(v))
	return err
}

func runSlice(ctx *cli.Context, s *session) error {
	start, err := argIndex(ctx, 0, "start")
	if err != nil {
		return err
	}

	// without <end> the span is unbounded, which Slice refuses
	span := bra.RangeFrom(start)
	if ctx.NArg() > 1 {
		end, err := argIndex(ctx, 1, "end")
		if err != nil {
			return err
		}
		if ctx.Bool("inclusive") {
			span = bra.RangeInclusive(start, end)
		} else {
			span = bra.Range(start, end)
		}
	}

	view, err := s.reader.Slice(span)
	if err != nil {
		return fmt.Errorf("slice %s: %w", span, err)
	}
	s.log.WithFields(logrus.Fields{"span": span.String(), "len": len(view)}).Info("Sliced")

	if ctx.Bool("raw") {
		_, err = ctx.App.Writer.Write(view)
		return err
	}
	_, err = fmt.Fprintln(ctx.App.Writer, hexutil.Encode(view))
	return err
}

// runCat streams the input through Fill/Consume. With a compaction threshold
// the consumed history is cleared regularly, so an endless input does not
// grow the buffer without bound.
func runCat(ctx *cli.Context, s *session) error {
	var (
		limit       = ctx.Int("limit")
		chunk       = s.cfg.Reader.ChunkSize
		compact     = s.cfg.Reader.CompactAfter
		total       int
		compactions int
		w           = ctx.App.Writer
	)

	for limit <= 0 || total < limit {
		view, err := s.reader.Fill()
		if len(view) > chunk {
			view = view[:chunk]
		}
		if limit > 0 && len(view) > limit-total {
			view = view[:limit-total]
		}
		if len(view) > 0 {
			if _, werr := w.Write(view); werr != nil {
				return werr
			}
			s.reader.Consume(len(view))
			total += len(view)
		}
		if err == io.EOF || (err == nil && len(view) == 0) {
			break
		}
		if err != nil {
			return err
		}
		if compact > 0 && s.reader.Consumed() >= compact {
			s.reader.Clear()
			compactions++
		}
	}

	s.log.WithFields(logrus.Fields{"bytes": total, "compactions": compactions}).Info("Copied")
	return nil
}

func runStat(ctx *cli.Context, s *session) error {
	w := ctx.App.Writer

	if ctx.NArg() > 0 {
		index, err := argIndex(ctx, 0, "index")
		if err != nil {
			return err
		}
		_, err = s.reader.Get(index)
		if err != nil && !errors.Is(err, bra.ErrIndexOutOfRange) {
			return err
		}
		if _, werr := fmt.Fprintf(w, "reachable %v\n", err == nil); werr != nil {
			return werr
		}
	}
	if ctx.Bool("shrink") {
		s.reader.ShrinkToFit()
	}

	_, err := fmt.Fprintf(w, "retained %d\nconsumed %d\nbuffered %d\ncapacity %d\n",
		s.reader.Len(), s.reader.Consumed(), s.reader.Buffered(), s.reader.Cap())
	return err
}
