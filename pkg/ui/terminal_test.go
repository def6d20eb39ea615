package ui

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevNoColor := color.NoColor
	color.NoColor = true
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stdout)
		SetQuietMode(false)
		color.NoColor = prevNoColor
	})
	return &buf
}

func TestPrintFunctions(t *testing.T) {
	buf := captureOutput(t)

	PrintBanner("EarthPorn", "top", 50)
	PrintInfo("Saved", "output/images_EarthPorn_1700000000.json")
	PrintSuccess("Done")
	PrintWarning("No images found")
	PrintError("Download failed", errors.New("status 404"))

	got := buf.String()
	assert.Contains(t, got, "r/EarthPorn")
	assert.Contains(t, got, "(Sort: top, Target: 50 posts)")
	assert.Contains(t, got, "Saved: output/images_EarthPorn_1700000000.json")
	assert.Contains(t, got, "Done\n")
	assert.Contains(t, got, "No images found\n")
	assert.Contains(t, got, "Download failed: status 404\n")
}

func TestQuietModeKeepsErrors(t *testing.T) {
	buf := captureOutput(t)
	SetQuietMode(true)

	assert.True(t, IsQuietMode())
	PrintSuccess("hidden")
	PrintProgress("...found 10 images so far...")
	PrintError("cookie file not found")

	assert.NotContains(t, buf.String(), "hidden")
	assert.NotContains(t, buf.String(), "found 10")
	assert.Contains(t, buf.String(), "cookie file not found")
}

func TestConfigureOutputNoColor(t *testing.T) {
	prev := color.NoColor
	defer func() { color.NoColor = prev }()

	ConfigureOutput(true)
	assert.True(t, color.NoColor)
}
