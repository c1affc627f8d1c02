package hub

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"pgregory.net/rapid"
)

const sampleRegistry = `
nvim: https://github.com/a/b
tmux:
  - https://github.com/c/d
  - https://gitlab.com/e/f
Alacritty: git@github.com:g/h.git
`

func TestParse_BothShapes(t *testing.T) {
	t.Parallel()

	reg, err := Parse([]byte(sampleRegistry))
	require.NoError(t, err)
	require.Len(t, reg.Types, 3)

	assert.Equal(t, "nvim", reg.Types[0].Type)
	assert.False(t, reg.Types[0].Sources.IsList())
	assert.Equal(t, []string{"https://github.com/a/b"}, reg.Types[0].Sources.URLs())

	assert.Equal(t, "tmux", reg.Types[1].Type)
	assert.True(t, reg.Types[1].Sources.IsList())
	assert.Equal(t, []string{"https://github.com/c/d", "https://gitlab.com/e/f"}, reg.Types[1].Sources.URLs())

	assert.Equal(t, "Alacritty", reg.Types[2].Type)
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{"number value", "nvim: 42"},
		{"bool value", "nvim: true"},
		{"null value", "nvim:"},
		{"nested mapping", "nvim:\n  url: https://github.com/a/b"},
		{"list with mapping", "nvim:\n  - https://github.com/a/b\n  - {url: x}"},
		{"list with number", "nvim: [https://github.com/a/b, 7]"},
		{"nested list", "nvim: [[https://github.com/a/b]]"},
		{"top level list", "- https://github.com/a/b"},
		{"top level scalar", "just text"},
		{"non-string key", "42: https://github.com/a/b"},
		{"duplicate key", "nvim: https://github.com/a/b\nnvim: https://github.com/c/d"},
		{"invalid yaml", "nvim: [unterminated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrParse), "error %q should wrap ErrParse", err)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	t.Parallel()

	for _, doc := range []string{"", "# nothing yet\n", "---\n"} {
		reg, err := Parse([]byte(doc))
		require.NoError(t, err, "doc %q", doc)
		assert.Empty(t, reg.Flatten(nil))
	}
}

func TestSourceValue_UnmarshalYAML(t *testing.T) {
	t.Parallel()

	var single SourceValue
	require.NoError(t, yaml.Unmarshal([]byte(`https://github.com/a/b`), &single))
	assert.Equal(t, []string{"https://github.com/a/b"}, single.URLs())

	var many SourceValue
	require.NoError(t, yaml.Unmarshal([]byte(`[x, y]`), &many))
	assert.Equal(t, []string{"x", "y"}, many.URLs())

	var bad SourceValue
	assert.Error(t, yaml.Unmarshal([]byte(`{a: b}`), &bad))
}

func TestFlatten(t *testing.T) {
	t.Parallel()

	reg, err := Parse([]byte(sampleRegistry))
	require.NoError(t, err)

	t.Run("empty filter keeps everything in document order", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []Entry{
			{Type: "nvim", SourceURL: "https://github.com/a/b"},
			{Type: "tmux", SourceURL: "https://github.com/c/d"},
			{Type: "tmux", SourceURL: "https://gitlab.com/e/f"},
			{Type: "Alacritty", SourceURL: "git@github.com:g/h.git"},
		}, reg.Flatten(nil))
		assert.Len(t, reg.Flatten([]string{}), 4)
	})

	t.Run("filter is case-insensitive", func(t *testing.T) {
		t.Parallel()
		got := reg.Flatten([]string{"NVIM", "alacritty"})
		require.Len(t, got, 2)
		assert.Equal(t, "nvim", got[0].Type)
		assert.Equal(t, "Alacritty", got[1].Type)
	})

	t.Run("filter with unknown type yields nothing", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, reg.Flatten([]string{"fish"}))
	})
}

func TestFlatten_Counts(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		types := rapid.SliceOfNDistinct(rapid.StringMatching(`[a-z]{1,8}`), 1, 8, rapid.ID[string]).Draw(rt, "types")
		doc := make(map[string]any, len(types))
		want := make(map[string]int, len(types))
		for _, ty := range types {
			url := func() string {
				return "https://github.com/" + rapid.StringMatching(`[a-z0-9]{1,10}`).Draw(rt, "owner") + "/" + ty
			}
			if rapid.Bool().Draw(rt, "list") {
				k := rapid.IntRange(0, 5).Draw(rt, "k")
				urls := make([]string, k)
				for i := range urls {
					urls[i] = url()
				}
				doc[ty] = urls
				want[ty] = k
			} else {
				doc[ty] = url()
				want[ty] = 1
			}
		}

		data, err := yaml.Marshal(doc)
		if err != nil {
			rt.Fatalf("marshal: %v", err)
		}
		reg, err := Parse(data)
		if err != nil {
			rt.Fatalf("Parse: %v\n%s", err, data)
		}

		got := make(map[string]int)
		for _, e := range reg.Flatten(nil) {
			got[e.Type]++
		}
		for ty, n := range want {
			if got[ty] != n {
				rt.Fatalf("type %q: got %d entries, want %d", ty, got[ty], n)
			}
		}

		// Filtering by one type returns exactly that type's entries.
		pick := rapid.SampledFrom(types).Draw(rt, "pick")
		filtered := reg.Flatten([]string{strings.ToUpper(pick)})
		if len(filtered) != want[pick] {
			rt.Fatalf("filter %q: got %d entries, want %d", pick, len(filtered), want[pick])
		}
		for _, e := range filtered {
			if !strings.EqualFold(e.Type, pick) {
				rt.Fatalf("filter %q returned type %q", pick, e.Type)
			}
		}
	})
}

func TestSplitFilters(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"nvim", "tmux", "fish"}, SplitFilters([]string{"nvim,tmux", "fish"}))
	assert.Equal(t, []string{"nvim", "tmux"}, SplitFilters([]string{"nvim, tmux,"}))
	assert.Empty(t, SplitFilters(nil))
}
