package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/respecthconv/convert"
	"github.com/c360studio/respecthconv/report"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("<experiment/>"), 0644))
}

func TestResolveInputs(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "x1.xml"))
	touch(t, filepath.Join(root, "ignition", "x2.xml"))
	touch(t, filepath.Join(root, "ignition", "deep", "x3.XML"))
	touch(t, filepath.Join(root, "flames", "x4.xml"))
	touch(t, filepath.Join(root, "notes.txt"))

	tests := []struct {
		name     string
		patterns []string
		want     []string
	}{
		{
			name:     "default pattern",
			patterns: nil,
			want:     []string{"flames/x4.xml", "ignition/x2.xml", "x1.xml"},
		},
		{
			name:     "directory",
			patterns: []string{"ignition"},
			want:     []string{"ignition/x2.xml"},
		},
		{
			name:     "single file",
			patterns: []string{"ignition/deep/x3.XML"},
			want:     []string{"ignition/deep/x3.XML"},
		},
		{
			name:     "overlapping patterns are deduplicated",
			patterns: []string{"**/x2.xml", "ignition/*.xml"},
			want:     []string{"ignition/x2.xml"},
		},
		{
			name:     "no match",
			patterns: []string{"**/*.json"},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveInputs(root, tt.patterns)
			require.NoError(t, err)

			var rel []string
			for _, p := range got {
				r, err := filepath.Rel(root, p)
				require.NoError(t, err)
				rel = append(rel, filepath.ToSlash(r))
			}
			assert.Equal(t, tt.want, rel)
		})
	}

	t.Run("missing path", func(t *testing.T) {
		_, err := ResolveInputs(root, []string{"missing.xml"})
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestIsInput(t *testing.T) {
	assert.True(t, IsInput("a/x1.xml"))
	assert.True(t, IsInput("x1.XML"))
	assert.False(t, IsInput("x1.dic"))
	assert.False(t, IsInput("xml"))
}

type fakeConverter struct {
	calls []string
}

func (f *fakeConverter) ConvertFile(_ context.Context, path string) (*convert.Result, error) {
	f.calls = append(f.calls, path)
	switch {
	case strings.Contains(path, "species"):
		return nil, &convert.Error{
			File:           path,
			ExperimentType: "ignition delay measurement",
			Kind:           convert.KindSpecies,
			Err:            errors.New("Species XX is not available in the kinetic mechanism"),
		}
	case strings.Contains(path, "plain"):
		return nil, errors.New("disk full")
	default:
		return &convert.Result{
			File:           path,
			ExperimentType: "jet stirred reactor measurement",
			Dictionary:     "out/" + convert.Stem(path) + "/" + convert.Stem(path) + ".dic",
			Duration:       time.Millisecond,
		}, nil
	}
}

func TestRun(t *testing.T) {
	conv := &fakeConverter{}
	r := report.New()
	inputs := []string{"a.xml", "species.xml", "plain.xml", "b.xml"}

	require.NoError(t, Run(context.Background(), conv, inputs, r, nil))

	assert.Equal(t, inputs, conv.calls)
	require.Len(t, r.Entries, 4)
	assert.Equal(t, 2, r.Converted())
	assert.Equal(t, 2, r.Failed())
	assert.False(t, r.Finished.IsZero())

	assert.Equal(t, report.Entry{
		File:           "a.xml",
		ExperimentType: "jet stirred reactor measurement",
		Status:         report.StatusConverted,
		ErrorKind:      report.NoError,
		Output:         "out/a/a.dic",
		Duration:       time.Millisecond,
	}, r.Entries[0])

	assert.Equal(t, convert.KindSpecies, r.Entries[1].ErrorKind)
	assert.Equal(t, "ignition delay measurement", r.Entries[1].ExperimentType)
	assert.Equal(t, "Species XX is not available in the kinetic mechanism", r.Entries[1].Message)

	assert.Equal(t, convert.KindOther, r.Entries[2].ErrorKind)
	assert.Equal(t, "disk full", r.Entries[2].Message)
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	conv := &fakeConverter{}
	r := report.New()
	err := Run(ctx, conv, []string{"a.xml"}, r, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, conv.calls)
	assert.Empty(t, r.Entries)
}

func TestSaveReport(t *testing.T) {
	r := report.New()
	r.Add(report.Entry{File: "/in/x1.xml", Status: report.StatusConverted})
	r.Finish()

	path := filepath.Join(t.TempDir(), "out", "Report.txt")
	require.NoError(t, SaveReport(path, r, report.FormatText))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "x1.xml")
	assert.Contains(t, string(data), "Converted")

	assert.Error(t, SaveReport(filepath.Join(t.TempDir(), "r.pdf"), r, report.Format("pdf")))
}
