package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetTheme(t *testing.T) {
	t.Cleanup(func() { SetTheme("classic") })

	SetTheme("MONO")
	assert.Equal(t, "mono", Current().Name)
	assert.Equal(t, "[x] Food", Box(true, "Food"))

	SetTheme("neon")
	assert.Equal(t, "neon", Current().Name)

	SetTheme("unknown")
	assert.Equal(t, "classic", Current().Name)
}

func TestPanelContainsLines(t *testing.T) {
	t.Cleanup(func() { SetTheme("classic") })
	SetTheme("mono")

	var buf bytes.Buffer
	Panel(&buf, []string{"Milk Bar", "0.2 km"})
	out := buf.String()
	assert.Contains(t, out, "Milk Bar")
	assert.Contains(t, out, "0.2 km")
	assert.Contains(t, out, "+")

	buf.Reset()
	Fail(&buf, "boom")
	assert.Equal(t, "error: boom\n", buf.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "Café Ro...", Truncate("Café Rouge Liberties", 10))
	assert.Equal(t, "abcdef", Truncate("abcdef", 3))
}
