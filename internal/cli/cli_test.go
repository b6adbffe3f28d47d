package cli

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	drawimage "drawbot/internal/image"
	"drawbot/internal/stroke"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the config lookup at an empty directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	return dir
}

func writeImage(t *testing.T, dir string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, "input.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func square() image.Image {
	img := image.NewGray(image.Rect(0, 0, 50, 50))
	for y := 20; y < 30; y++ {
		for x := 20; x < 30; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	return img
}

func blank() image.Image {
	img := image.NewGray(image.Rect(0, 0, 30, 30))
	for i := range img.Pix {
		img.Pix[i] = 90
	}
	return img
}

var sessionRe = regexp.MustCompile(`\(session ([0-9a-f-]{36})\)`)

func run(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := Execute(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestDraw_RecordBackend(t *testing.T) {
	dir := isolate(t)
	path := writeImage(t, dir, square())

	code, out, errOut := run("draw", path, "--width", "50", "--backend", "record",
		"--origin", "400,600", "--yes", "--countdown", "0", "--delay", "0")
	require.Equal(t, ExitOK, code, errOut)

	assert.Contains(t, out, "scaled to 50x50")
	assert.Contains(t, out, "Drawing ")
	assert.Contains(t, out, "at 400,600 in click mode")
	assert.Contains(t, out, "Recorded ")
	assert.NotContains(t, out, "Recorded 0 backend calls")

	m := sessionRe.FindStringSubmatch(out)
	require.Len(t, m, 2, out)
	_, err := uuid.Parse(m[1])
	assert.NoError(t, err)
}

func TestDraw_SessionIDsDiffer(t *testing.T) {
	dir := isolate(t)
	path := writeImage(t, dir, blank())

	var ids []string
	for i := 0; i < 2; i++ {
		code, out, errOut := run("draw", path, "--width", "30", "--backend", "record", "--yes", "--countdown", "0")
		require.Equal(t, ExitOK, code, errOut)
		m := sessionRe.FindStringSubmatch(out)
		require.Len(t, m, 2, out)
		ids = append(ids, m[1])
	}
	assert.NotEqual(t, ids[0], ids[1])
}

func TestDraw_BlankImageIssuesNoCalls(t *testing.T) {
	dir := isolate(t)
	path := writeImage(t, dir, blank())

	code, out, errOut := run("draw", path, "--width", "30", "--backend", "record", "--yes", "--countdown", "0")
	require.Equal(t, ExitOK, code, errOut)

	assert.Contains(t, out, "found 0 contours")
	assert.Contains(t, out, "Recorded 0 backend calls.")
}

func TestDraw_JCodeBackendWritesFile(t *testing.T) {
	dir := isolate(t)
	path := writeImage(t, dir, square())
	out := filepath.Join(dir, "square.jcode")

	code, _, errOut := run("draw", path, "--width", "50", "--backend", "jcode", "--jcode-out", out,
		"--mode", "drag", "--yes", "--countdown", "0", "--delay", "0")
	require.Equal(t, ExitOK, code, errOut)

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestDraw_ErrorsMapToExitCodes(t *testing.T) {
	dir := isolate(t)
	path := writeImage(t, dir, square())

	cases := []struct {
		name string
		args []string
		want int
	}{
		{"zero width", []string{"draw", filepath.Join(dir, "missing.png"), "--width", "0", "--backend", "record", "--yes"}, ExitInvalidWidth},
		{"non-numeric width", []string{"draw", path, "--width", "wide", "--backend", "record", "--yes"}, ExitInvalidWidth},
		{"missing image", []string{"draw", filepath.Join(dir, "missing.png"), "--width", "10", "--backend", "record", "--yes"}, ExitImageLoad},
		{"unknown backend", []string{"draw", path, "--width", "10", "--backend", "pantograph", "--yes"}, ExitToolUnavailable},
		{"bad mode", []string{"draw", path, "--width", "10", "--backend", "record", "--mode", "spray", "--yes"}, ExitFailure},
		{"bad origin", []string{"draw", path, "--width", "10", "--backend", "record", "--origin", "10", "--yes"}, ExitFailure},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, _, errOut := run(tc.args...)
			assert.Equal(t, tc.want, code)
			assert.Contains(t, errOut, "Error:")
		})
	}
}

func TestTrace_WithPreview(t *testing.T) {
	dir := isolate(t)
	path := writeImage(t, dir, square())
	previewPath := filepath.Join(dir, "preview.png")

	code, out, errOut := run("trace", path, "--width", "25", "--preview", previewPath, "--parallel")
	require.Equal(t, ExitOK, code, errOut)

	assert.Contains(t, out, "scaled to 25x25")
	assert.Contains(t, out, "Preview written to")
	_, err := os.Stat(previewPath)
	assert.NoError(t, err)
}

func TestTrace_UsesConfigWidth(t *testing.T) {
	dir := isolate(t)
	path := writeImage(t, dir, square())
	cfgPath := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("width = 20\n"), 0o644))

	code, out, errOut := run("trace", path, "--config", cfgPath)
	require.Equal(t, ExitOK, code, errOut)
	assert.Contains(t, out, "scaled to 20x20")
}

func TestProbe(t *testing.T) {
	isolate(t)

	code, out, _ := run("probe", "--backend", "record")
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, out, "record: available")

	code, _, errOut := run("probe", "--backend", "plotter")
	assert.Equal(t, ExitToolUnavailable, code)
	assert.Contains(t, errOut, "unknown backend")
}

func TestVersion(t *testing.T) {
	code, out, _ := run("version")
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, out, "drawbot version")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitFailure, ExitCode(errors.New("boom")))
	assert.Equal(t, ExitToolUnavailable, ExitCode(fmt.Errorf("wrap: %w", stroke.ErrToolUnavailable)))
	assert.Equal(t, ExitImageLoad, ExitCode(&drawimage.LoadError{Path: "x", Err: errors.New("bad")}))
	assert.Equal(t, ExitInvalidWidth, ExitCode(&drawimage.WidthError{Value: "0"}))
	assert.Equal(t, ExitStrokeCommand, ExitCode(&stroke.CommandError{Op: "click", Err: errors.New("gone")}))
}

func TestConfig_ShowAndWrite(t *testing.T) {
	dir := isolate(t)

	code, out, errOut := run("config")
	require.Equal(t, ExitOK, code, errOut)
	assert.Contains(t, out, "width = 100")
	assert.Contains(t, out, "delay = ")
	assert.Contains(t, out, "2ms")

	code, out, errOut = run("config", "--write")
	require.Equal(t, ExitOK, code, errOut)
	assert.Contains(t, out, "Settings written to")

	written := filepath.Join(dir, "drawbot", "config.toml")
	_, err := os.Stat(written)
	require.NoError(t, err)

	// The saved file is picked up by later runs.
	require.NoError(t, os.WriteFile(written, []byte("width = 30\n"), 0o644))
	code, out, _ = run("config")
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, out, "width = 30")
}
