package headerbar

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/llehouerou/reel/internal/capability"
	"github.com/llehouerou/reel/internal/ui/styles"
	"github.com/llehouerou/reel/internal/ui/testutil"
)

func TestRender(t *testing.T) {
	s := styles.New(capability.DefaultTheme())

	got := Render(s, "Sintel", "Playing", 40)

	assert.Equal(t, 40, lipgloss.Width(got))
	plain := testutil.StripANSI(got)
	assert.True(t, strings.HasPrefix(plain, " reel"))
	assert.True(t, strings.HasSuffix(plain, "Playing "))
	assert.Equal(t, 17, strings.Index(plain, "Sintel"), "title is centered")
}

func TestRender_LongTitleIsTruncated(t *testing.T) {
	s := styles.New(capability.DefaultTheme())

	got := testutil.StripANSI(Render(s, strings.Repeat("x", 80), "Paused", 40))

	assert.Equal(t, 40, lipgloss.Width(got))
	assert.Contains(t, got, "…")
	assert.True(t, strings.HasSuffix(got, "Paused "))
}

func TestRender_Narrow(t *testing.T) {
	s := styles.New(capability.DefaultTheme())

	got := testutil.StripANSI(Render(s, "Sintel", "Playing", 12))

	assert.Equal(t, 12, lipgloss.Width(got))
	assert.NotContains(t, got, "Sintel")
	assert.NotContains(t, got, "Playing")
}

func TestRender_NoTitle(t *testing.T) {
	s := styles.New(capability.DefaultTheme())

	got := testutil.StripANSI(Render(s, "", "Idle", 30))

	assert.Equal(t, " reel"+strings.Repeat(" ", 20)+"Idle ", got)
}

func TestRender_ZeroWidth(t *testing.T) {
	assert.Empty(t, Render(styles.New(capability.DefaultTheme()), "Sintel", "Idle", 0))
}
