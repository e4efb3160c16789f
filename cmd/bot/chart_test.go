package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runChart(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"chart"}, args...))
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		localized = false
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestChartCommand(t *testing.T) {
	out, err := runChart(t, "12.03.1995, 14:45, Moscow")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, "Moscow, 12.03.1995 14:45 UTC", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Sun: "))
	assert.True(t, strings.HasSuffix(lines[1], " in Pisces"))
	assert.True(t, strings.HasPrefix(lines[7], "Saturn: "))
}

func TestChartCommandRussian(t *testing.T) {
	out, err := runChart(t, "--ru", "12.03.1995,", "14:45,", "Москва")
	require.NoError(t, err)
	assert.Contains(t, out, "Солнце: ")
	assert.Contains(t, out, "в знаке Рыб")
}

func TestChartCommandRejectsBadInput(t *testing.T) {
	_, err := runChart(t, "12.03.1995 14:45 Moscow")
	assert.Error(t, err)
}
