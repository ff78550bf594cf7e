package trainlog

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"go.jacobcolvin.com/mlx/pretty"
)

var (
	// ErrMissingTotal indicates a progress key without a total in
	// [Prettier.Ref].
	ErrMissingTotal = errors.New("missing total")
	// ErrNotNumeric indicates a non-numeric value under a numeric key.
	ErrNotNumeric = errors.New("value is not numeric")
)

// DefaultMetricKeys are the key fragments formatted as percentages.
var DefaultMetricKeys = []string{"acc", "precision", "recall", "f1", "auc"}

// DefaultNoPrefix are the progress keys formatted against a total. They
// never receive a split prefix.
var DefaultNoPrefix = []string{"epoch", "global_step", "step"}

// Prettier formats training metrics for display.
//
// The format of a value is inferred from its key:
//
//   - progress keys ([DefaultNoPrefix]) render as "val/total", with val
//     right-aligned to the width of the total;
//   - keys containing "loss" render as "%7.4f";
//   - keys containing a metric key render as percentages "%6.2f", element
//     by element for sequences and mappings, with [pretty.None] as "-";
//   - keys containing "learning_rate" or "lr" render as "%.3e";
//   - keys containing "perplexity" or "ppl" render as "%.2f".
//
// Other values are returned unchanged.
type Prettier struct {
	// Ref holds totals. The total of a progress key is stored under the
	// key itself, or else under the first Ref key, in sorted order, that
	// contains it.
	Ref map[string]int
	// MetricKeys defaults to [DefaultMetricKeys].
	MetricKeys []string
	// NoPrefix defaults to [DefaultNoPrefix].
	NoPrefix []string
	// Color styles progress values.
	Color bool
}

// Single formats val according to key.
func (p *Prettier) Single(key string, val any) (pretty.Value, error) {
	v := pretty.Of(val)

	switch {
	case slices.Contains(p.noPrefix(), key):
		return p.progress(key, v)

	case strings.Contains(key, "loss"):
		return fmtNumber(key, v, "%7.4f", 1)

	case slices.ContainsFunc(p.metricKeys(), func(k string) bool { return strings.Contains(key, k) }):
		return p.metric(key, v)

	case strings.Contains(key, "learning_rate") || strings.Contains(key, "lr"):
		return fmtNumber(key, v, "%.3e", 1)

	case strings.Contains(key, "perplexity") || strings.Contains(key, "ppl"):
		return fmtNumber(key, v, "%.2f", 1)
	}

	return v, nil
}

// Prettify formats every entry of m with [Prettier.Single], keeping the
// order of m.
func (p *Prettier) Prettify(m pretty.Map) (pretty.Map, error) {
	out := make(pretty.Map, 0, len(m))

	for _, e := range m {
		v, err := p.Single(e.Key, e.Value)
		if err != nil {
			return nil, err
		}

		out = append(out, pretty.Entry{Key: e.Key, Value: v})
	}

	return out, nil
}

// HasSplitPrefix reports whether [Prettier.AddSplitPrefix] prefixes key.
func (p *Prettier) HasSplitPrefix(key string) bool {
	return !slices.Contains(p.noPrefix(), key)
}

// AddSplitPrefix returns a copy of m with keys renamed to "split/key",
// except for progress keys. An empty split returns m unchanged.
func (p *Prettier) AddSplitPrefix(m pretty.Map, split string) pretty.Map {
	if split == "" {
		return m
	}

	out := make(pretty.Map, 0, len(m))

	for _, e := range m {
		if p.HasSplitPrefix(e.Key) {
			e.Key = split + "/" + e.Key
		}

		out = append(out, e)
	}

	return out
}

func (p *Prettier) progress(key string, v pretty.Value) (pretty.Value, error) {
	total, ok := p.total(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingTotal, key)
	}

	width := len(strconv.Itoa(total))

	var s string

	switch x := v.(type) {
	case pretty.Int:
		s = fmt.Sprintf("%*d", width, int64(x))
	case pretty.Float:
		s = fmt.Sprintf("%*.3f", width+4, float64(x))
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotNumeric, key)
	}

	lim := strconv.Itoa(total)
	if p.Color {
		r := pretty.Default()
		s, lim = r.Info(s), r.Info(lim)
	}

	return pretty.String(s + "/" + lim), nil
}

func (p *Prettier) total(key string) (int, bool) {
	if total, ok := p.Ref[key]; ok {
		return total, true
	}

	for _, k := range slices.Sorted(maps.Keys(p.Ref)) {
		if strings.Contains(k, key) {
			return p.Ref[k], true
		}
	}

	return 0, false
}

func (p *Prettier) metric(key string, v pretty.Value) (pretty.Value, error) {
	switch x := v.(type) {
	case pretty.None:
		return pretty.String("-"), nil

	case pretty.Seq:
		items := make([]pretty.Value, len(x.Items))
		for i, item := range x.Items {
			s, err := p.metric(key, item)
			if err != nil {
				return nil, err
			}

			items[i] = s
		}

		return pretty.Seq{Items: items, Tuple: x.Tuple}, nil

	case pretty.Map:
		m := make(pretty.Map, 0, len(x))
		for _, e := range x {
			s, err := p.metric(key, e.Value)
			if err != nil {
				return nil, err
			}

			m = append(m, pretty.Entry{Key: e.Key, Value: s})
		}

		return m, nil
	}

	return fmtNumber(key, v, "%6.2f", 100)
}

func (p *Prettier) metricKeys() []string {
	if p.MetricKeys == nil {
		return DefaultMetricKeys
	}

	return p.MetricKeys
}

func (p *Prettier) noPrefix() []string {
	if p.NoPrefix == nil {
		return DefaultNoPrefix
	}

	return p.NoPrefix
}

func fmtNumber(key string, v pretty.Value, format string, scale float64) (pretty.Value, error) {
	f, ok := number(v)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotNumeric, key)
	}

	return pretty.String(fmt.Sprintf(format, f*scale)), nil
}

func number(v pretty.Value) (float64, bool) {
	switch x := v.(type) {
	case pretty.Int:
		return float64(x), true
	case pretty.Float:
		return float64(x), true
	}

	return 0, false
}
