package console

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"callcast/domain/forecast"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesOpenFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.csv")
	require.NoError(t, os.WriteFile(path, []byte("Year,Week\n"), 0o644))

	files := NewFiles(path)
	selected := files.Selected()
	require.Len(t, selected, 1)
	assert.Equal(t, "calls.csv", selected[0].Name())

	rc, err := selected[0].Open()
	require.NoError(t, err)
	defer rc.Close()
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "Year,Week\n", string(content))

	files.Select()
	assert.Empty(t, files.Selected())
}

func TestMissingFileFailsOnOpen(t *testing.T) {
	files := NewFiles(filepath.Join(t.TempDir(), "missing.csv"))

	_, err := files.Selected()[0].Open()
	assert.Error(t, err)
}

func TestElementAndNotices(t *testing.T) {
	var out, errOut bytes.Buffer
	el := NewElement(WeeksInfoID, &out)
	notices := NewNotices(&errOut)

	el.SetText("Weeks in dataset: 7")
	notices.Notify("bad file")

	assert.Equal(t, "Weeks in dataset: 7", el.Text())
	assert.Equal(t, WeeksInfoID, el.ID())
	assert.Equal(t, "Weeks in dataset: 7\n", out.String())
	assert.Equal(t, "! bad file\n", errOut.String())
	assert.Equal(t, 1, notices.Count())
}

func TestFieldKeepsRawValue(t *testing.T) {
	f := NewField(WeekInputID, " 0 ")
	assert.Equal(t, " 0 ", f.Value())
	f.Set("")
	assert.Equal(t, "", f.Value())
}

func TestSummaryPrinter(t *testing.T) {
	var out bytes.Buffer
	p := NewSummaryPrinter(&out)

	set := &forecast.PredictionSet{Values: []forecast.PredictionValue{forecast.NumberValue(10), forecast.NumberValue(20)}}
	require.NoError(t, p.RecordPredictions(context.Background(), "3", set))
	assert.Equal(t, "Summary (week 3): n=2 mean=15 median=15 min=10 max=20\n", out.String())

	err := p.RecordPredictions(context.Background(), "4", &forecast.PredictionSet{})
	assert.Error(t, err)
}
