package style_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/mlx/style"
)

func TestStyleStripRoundTrip(t *testing.T) {
	t.Parallel()

	e := style.Default()

	texts := []string{
		"hello",
		"",
		"with spaces and punctuation: {a=1, b=[2, 3]}",
		"tab\tseparated",
		"ünïcödé ✓",
		"a\nbbbb",
		"line one\nx",
		"cr\r\nlf",
		"trailing newline\n",
	}

	for _, key := range e.Keys() {
		t.Run(key, func(t *testing.T) {
			t.Parallel()

			for _, text := range texts {
				got, err := e.Style(text, key)
				require.NoError(t, err)
				assert.Equal(t, text, style.Strip(got))
			}
		})
	}
}

func TestStyleAddsEscapes(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		key string
	}{
		"ansi index": {key: "info"},
		"hex color":  {key: "purple"},
		"italic":     {key: "time"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := style.Default().Style("x", tc.key)
			require.NoError(t, err)
			assert.Contains(t, got, "\x1b[")
			assert.NotEqual(t, "x", got)
		})
	}
}

func TestStyleUnknownKey(t *testing.T) {
	t.Parallel()

	_, err := style.Default().Style("x", "no-such-key")
	require.ErrorIs(t, err, style.ErrUnknownStyle)
}

func TestNew(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		spec    style.Spec
		wantErr error
		wantKey string
	}{
		"extends table": {
			spec:    style.Spec{"metric": {Foreground: style.ThemeGreen, Bold: true}},
			wantKey: "metric",
		},
		"short hex": {
			spec:    style.Spec{"short": {Foreground: "#abc"}},
			wantKey: "short",
		},
		"duplicate key": {
			spec:    style.Spec{"info": {Foreground: "1"}},
			wantErr: style.ErrDuplicateKey,
		},
		"invalid hex": {
			spec:    style.Spec{"bad": {Foreground: "#zzzzzz"}},
			wantErr: style.ErrInvalidColor,
		},
		"index out of range": {
			spec:    style.Spec{"bad": {Foreground: "256"}},
			wantErr: style.ErrInvalidColor,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			e, err := style.New(style.WithSpec(tc.spec))
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)

				return
			}

			require.NoError(t, err)
			assert.True(t, e.Has(tc.wantKey))

			got, err := e.Style("v", tc.wantKey)
			require.NoError(t, err)
			assert.Equal(t, "v", style.Strip(got))
		})
	}
}

func TestAttrs(t *testing.T) {
	t.Parallel()

	e := style.Default()

	got := e.Attrs("text", style.Attrs{Foreground: style.ThemeRed, Bold: true})
	assert.Contains(t, got, "\x1b[")
	assert.Equal(t, "text", style.Strip(got))

	// An invalid color falls back to effects only.
	got = e.Attrs("text", style.Attrs{Foreground: "nope", Italic: true})
	assert.Equal(t, "text", style.Strip(got))
}

func TestStrip(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  string
	}{
		"plain":          {input: "plain text", want: "plain text"},
		"sgr":            {input: "\x1b[31mred\x1b[0m", want: "red"},
		"params":         {input: "\x1b[1;38;2;224;108;117mrgb\x1b[m", want: "rgb"},
		"cursor move":    {input: "a\x1b[2Kb", want: "ab"},
		"c1 escape":      {input: "a\x1bMb", want: "ab"},
		"newline intact": {input: "\x1b[32mline1\nline2\x1b[0m", want: "line1\nline2"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, style.Strip(tc.input))
		})
	}
}

func TestHexRGB(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input   string
		want    [3]uint8
		wantErr bool
	}{
		"long":    {input: "#E5C07B", want: [3]uint8{0xE5, 0xC0, 0x7B}},
		"short":   {input: "#fff", want: [3]uint8{255, 255, 255}},
		"invalid": {input: "E5C07B", wantErr: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := style.HexRGB(tc.input)
			if tc.wantErr {
				require.ErrorIs(t, err, style.ErrInvalidColor)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	norm, err := style.HexRGBNormalized("#000")
	require.NoError(t, err)
	assert.Equal(t, [3]float64{0, 0, 0}, norm)
}
