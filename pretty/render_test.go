package pretty_test

import (
	"errors"
	"math"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/mlx/pretty"
	"go.jacobcolvin.com/mlx/stringtest"
	"go.jacobcolvin.com/mlx/style"
)

type runConfig struct {
	Model  string
	Epochs int
	LR     float64
	hidden bool
}

func TestRenderPlain(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input any
		want  string
	}{
		"string":      {input: "hello", want: "hello"},
		"int":         {input: 42, want: "42"},
		"bool":        {input: true, want: "true"},
		"nil":         {input: nil, want: "None"},
		"float":       {input: 84.7, want: "84.7"},
		"integral":    {input: 35.0, want: "35.0"},
		"scientific":  {input: 3e-5, want: "3e-5"},
		"large":       {input: 1e16, want: "1e+16"},
		"list":        {input: []any{"sda", "asd"}, want: "[sda, asd]"},
		"typed slice": {input: []int{1, 2, 3}, want: "[1, 2, 3]"},
		"tuple":       {input: pretty.Tuple{"a", 1}, want: "(a, 1)"},
		"empty list":  {input: []string{}, want: "[]"},
		"dict":        {input: pretty.Dict("a", 1, "b", 2), want: "{a: 1, b: 2}"},
		"sorted map":  {input: map[string]int{"b": 2, "a": 1}, want: "{a: 1, b: 2}"},
		"error":       {input: errors.New("boom"), want: "boom"},
		"pointer":     {input: new(int), want: "0"},
		"nil pointer": {input: (*int)(nil), want: "None"},
		"struct":      {input: runConfig{Model: "bert", Epochs: 3, LR: 1e-5, hidden: true}, want: "{Model: bert, Epochs: 3, LR: 1e-5}"},
		"fallback":    {input: complex(1, 2), want: "(1+2i)"},
		"nested": {
			input: pretty.Dict("a", 1, "b", 2, "c", pretty.Dict("d", 3, "e", 4, "f", []any{"as", "as"})),
			want:  "{a: 1, b: 2, c: {d: 3, e: 4, f: [as, as]}}",
		},
	}

	r := pretty.Default()

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, r.Plain(tc.input))
		})
	}
}

func TestRenderColorStripsToPlain(t *testing.T) {
	t.Parallel()

	inputs := map[string]any{
		"scalar":     "hello",
		"float":      0.95,
		"list":       []any{1, "b", 2.5},
		"tuple":      pretty.Tuple{true, nil},
		"nested":     pretty.Dict("a", 1, "b", pretty.Dict("c", []any{1, 2}), "d", nil),
		"multi-line": pretty.Dict("msg", "a\nbbbb"),
		"crlf":       []any{"cr\r\nlf", "line one\nx"},
	}

	r := pretty.Default()

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			colored := r.Info(input)
			plain := r.Plain(input)

			assert.Equal(t, plain, style.Strip(colored))
			stringtest.AssertNoANSI(t, plain)
		})
	}
}

func TestRenderColoredUsesEscapes(t *testing.T) {
	t.Parallel()

	got := pretty.Default().Info(pretty.Dict("a", 1))
	assert.Contains(t, got, "\x1b[")
}

func TestRenderDeterministic(t *testing.T) {
	t.Parallel()

	input := map[string]any{
		"zeta":  []any{1, 2},
		"alpha": map[string]any{"y": true, "x": 0.5},
		"mid":   "text",
	}

	r := pretty.Default()
	opts := pretty.Options{Color: true, PadFloat: 5}

	first := r.Render(input, opts)
	for range 20 {
		assert.Equal(t, first, r.Render(input, opts))
	}
}

func TestRenderPath(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input any
		opts  pretty.Options
		want  string
	}{
		"shorter bool": {
			input: pretty.Dict("a", true, "b", false),
			opts:  pretty.Options{ForPath: true, ShorterBool: true},
			want:  "{a=T,b=F}",
		},
		"long bool": {
			input: pretty.Dict("a", true, "b", false),
			opts:  pretty.Options{ForPath: true},
			want:  "{a=true,b=false}",
		},
		"nested": {
			input: pretty.Dict("a", 1, "b", true, "c", "hell", "d", pretty.Dict("e", 1, "f", true), "e", []any{"a", "b"}),
			opts:  pretty.Options{ForPath: true, ShorterBool: true},
			want:  "{a=1,b=T,c=hell,d={e=1,f=T},e=[a,b]}",
		},
		"color forced off": {
			input: pretty.Dict("lr", 3e-5),
			opts:  pretty.Options{ForPath: true, Color: true},
			want:  "{lr=3e-5}",
		},
		"slashes": {
			input: pretty.Dict("model", "org/bert", "w/ aug", true),
			opts:  pretty.Options{ForPath: true, ShorterBool: true},
			want:  "{model=org-bert,with aug=T}",
		},
		"pairs sep overridden": {
			input: pretty.Dict("a", 1, "b", []any{2, 3}),
			opts:  pretty.Options{ForPath: true, PairsSep: ", ", KeyValueSep: ": "},
			want:  "{a=1,b=[2,3]}",
		},
	}

	r := pretty.Default()

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := r.Render(tc.input, tc.opts)
			assert.Equal(t, tc.want, got)
			stringtest.AssertNoANSI(t, got)
		})
	}

	assert.Equal(t, "{a=T,b=F}", r.Path(pretty.Dict("a", true, "b", false)))
}

func TestRenderOptions(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input any
		opts  pretty.Options
		want  string
	}{
		"omit none": {
			input: pretty.Dict("a", 1, "b", nil, "c", 3),
			opts:  pretty.Options{OmitNone: true},
			want:  "{a: 1, c: 3}",
		},
		"keep none": {
			input: pretty.Dict("a", 1, "b", nil, "c", 3),
			want:  "{a: 1, b: None, c: 3}",
		},
		"pad float": {
			input: pretty.Dict("location", 90.6, "person", 58.7),
			opts:  pretty.Options{PadFloat: 6},
			want:  "{location:   90.6, person:   58.7}",
		},
		"pad skips scientific": {
			input: pretty.Dict("lr", 3e-5),
			opts:  pretty.Options{PadFloat: 8},
			want:  "{lr: 3e-5}",
		},
		"custom separators": {
			input: pretty.Dict("a", 1, "b", 2),
			opts:  pretty.Options{KeyValueSep: "=", PairsSep: "; "},
			want:  "{a=1; b=2}",
		},
		"ordered yaml": {
			input: yaml.MapSlice{{Key: "z", Value: 1}, {Key: "a", Value: 2}},
			want:  "{z: 1, a: 2}",
		},
	}

	r := pretty.Default()

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, r.Render(tc.input, tc.opts))
		})
	}
}

func TestFormatFloat(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input float64
		want  string
	}{
		"small exponent":   {input: 3e-05, want: "3e-5"},
		"mantissa":         {input: 1.5e-7, want: "1.5e-7"},
		"boundary":         {input: 0.0001, want: "0.0001"},
		"positive exp":     {input: 2.5e20, want: "2.5e+20"},
		"two digit exp":    {input: 1e-12, want: "1e-12"},
		"plain":            {input: 0.95, want: "0.95"},
		"zero":             {input: 0, want: "0.0"},
		"negative":         {input: -2.5, want: "-2.5"},
		"nan":              {input: math.NaN(), want: "nan"},
		"positive inf":     {input: math.Inf(1), want: "inf"},
		"negative small":   {input: -3e-5, want: "-3e-5"},
		"large integral":   {input: 1234567, want: "1234567.0"},
		"below 1e16 limit": {input: 1e15, want: "1000000000000000.0"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, pretty.FormatFloat(tc.input))
		})
	}
}

func TestMapHelpers(t *testing.T) {
	t.Parallel()

	m := pretty.Dict("a", 1, "b")
	assert.Equal(t, []string{"a", "b"}, m.Keys())

	v, ok := m.Get("b")
	require.True(t, ok)
	assert.Equal(t, pretty.None{}, v)

	m = m.Set("b", 2).Set("c", "x")
	assert.Equal(t, "{a: 1, b: 2, c: x}", pretty.Default().Plain(m))

	_, ok = m.Get("missing")
	assert.False(t, ok)
}

func TestIndent(t *testing.T) {
	t.Parallel()

	got, err := pretty.Indent(pretty.Dict("b", 1, "a", []any{true, nil}))
	require.NoError(t, err)

	want := stringtest.JoinLF(
		"{",
		`    "b": 1,`,
		`    "a": [`,
		"        true,",
		"        null",
		"    ]",
		"}",
	)
	assert.Equal(t, want, got)

	got, err = pretty.Indent([]any{math.NaN(), math.Inf(1), math.Inf(-1), 0.5})
	require.NoError(t, err)
	assert.Equal(t, stringtest.JoinLF(
		"[",
		`    "NaN",`,
		`    "Infinity",`,
		`    "-Infinity",`,
		"    0.5",
		"]",
	), got)
}

func TestHighlight(t *testing.T) {
	t.Parallel()

	got, err := pretty.Highlight(pretty.Dict("key", "value"))
	require.NoError(t, err)

	plain := style.Strip(got)
	assert.Contains(t, plain, `"key"`)
	assert.Contains(t, plain, `"value"`)
}
