package trainlog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.jacobcolvin.com/mlx/checkarg"
	"go.jacobcolvin.com/mlx/log"
	"go.jacobcolvin.com/mlx/pretty"
)

// ErrMissingStep indicates metrics without the step needed by a
// [ScalarWriter].
var ErrMissingStep = errors.New("missing step")

// ScalarWriter records scalar metrics, e.g. for TensorBoard.
type ScalarWriter interface {
	AddScalar(tag string, value float64, step int64) error
}

// ProgressBar displays the latest metrics next to a progress bar.
type ProgressBar interface {
	SetPostfix(m pretty.Map)
}

// Step logs the metrics of a single training or evaluation step to the
// console, a log file, a [ProgressBar] and a [ScalarWriter]. Every
// destination is optional.
type Step struct {
	// Prettier defaults to a zero [Prettier].
	Prettier *Prettier
	// Logger logs to the console.
	Logger *slog.Logger
	// FileLogger logs plain metrics to a file. When nil and
	// LoggerWritesFile is set, Logger is used with a [log.Block] marker.
	FileLogger *slog.Logger
	Writer     ScalarWriter
	Bar        ProgressBar
	// LoggerWritesFile reports that Logger also has file sinks.
	LoggerWritesFile bool
	// GlobalStepWithEpoch writes training scalars at "step" and evaluation
	// scalars at "epoch". Otherwise scalars use "global_step", falling back
	// to "step".
	GlobalStepWithEpoch bool
	// PrettyConsole logs prettified metrics to the console.
	PrettyConsole bool
	// ConsoleWithSplit prefixes console keys with the split.
	ConsoleWithSplit bool
}

// StepOptions controls a single [Step.Log] call.
type StepOptions struct {
	// Split is one of "train", "eval", "dev" and "test". When empty it is
	// "train" if Training is set and "eval" otherwise.
	Split string
	// Prefix is inserted before logged messages.
	Prefix    string
	Training  bool
	NoConsole bool
	NoFile    bool
	NoPostfix bool
}

// Log logs m, the metrics of one step.
func (s *Step) Log(ctx context.Context, m pretty.Map, opts StepOptions) error {
	split := opts.Split

	if split == "" {
		split = "eval"
		if opts.Training {
			split = "train"
		}
	} else {
		err := checkarg.Default().Check("split", split)
		if err != nil {
			return err
		}
	}

	training := split == "train"

	p := s.Prettier
	if p == nil {
		p = &Prettier{}
	}

	pm, err := p.Prettify(m)
	if err != nil {
		return err
	}

	if s.Writer != nil {
		err := s.writeScalars(p, m, split, training)
		if err != nil {
			return err
		}
	}

	r := pretty.Default()

	if s.Bar != nil && !opts.NoPostfix {
		postfix := make(pretty.Map, 0, len(pm))
		for _, e := range pm {
			if p.HasSplitPrefix(e.Key) {
				postfix = append(postfix, pretty.Entry{Key: e.Key, Value: pretty.String(r.Info(e.Value))})
			}
		}

		s.Bar.SetPostfix(postfix)
	}

	if !opts.NoConsole && s.Logger != nil {
		d := m
		if s.PrettyConsole {
			d = pm
		}

		if s.ConsoleWithSplit {
			d = p.AddSplitPrefix(d, split)
		}

		var attrs []slog.Attr
		if s.LoggerWritesFile && opts.NoFile {
			attrs = append(attrs, log.Block(log.KindFile))
		}

		s.Logger.LogAttrs(ctx, slog.LevelInfo, opts.Prefix+r.Info(d), attrs...)
	}

	if opts.NoFile {
		return nil
	}

	msg := opts.Prefix + r.Plain(m)

	switch {
	case s.FileLogger != nil:
		s.FileLogger.LogAttrs(ctx, slog.LevelInfo, msg)
	case s.LoggerWritesFile && s.Logger != nil && opts.NoConsole:
		s.Logger.LogAttrs(ctx, slog.LevelInfo, msg, log.Block(log.KindStdout))
	}

	return nil
}

func (s *Step) writeScalars(p *Prettier, m pretty.Map, split string, training bool) error {
	var keys []string

	switch {
	case s.GlobalStepWithEpoch && training:
		keys = []string{"step"}
	case s.GlobalStepWithEpoch:
		keys = []string{"epoch"}
	default:
		keys = []string{"global_step", "step"}
	}

	var (
		step  float64
		found bool
	)

	for _, k := range keys {
		if v, ok := m.Get(k); ok {
			step, found = number(v)
			if found {
				break
			}
		}
	}

	if !found {
		return fmt.Errorf("%w: need one of %v", ErrMissingStep, keys)
	}

	for _, e := range m {
		f, ok := number(e.Value)
		if !ok || !p.HasSplitPrefix(e.Key) {
			continue
		}

		err := s.Writer.AddScalar(split+"/"+e.Key, f, int64(step))
		if err != nil {
			return fmt.Errorf("write scalar %s/%s: %w", split, e.Key, err)
		}
	}

	return nil
}
