package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wiaanjvr/fluency-next-sub010/internal/srs"
	"github.com/wiaanjvr/fluency-next-sub010/internal/testutil"
)

func TestAnalyzeReportCommand(t *testing.T) {
	item := dueItem("haus")
	tmpDir := setupWorkspace(t, "german", []srs.Item{item})
	testutil.CreateEvents(t, tmpDir, "german", []srs.ReviewEvent{
		{
			ID:         "ev-1",
			ItemID:     item.ID,
			Rating:     srs.Rating(5),
			ReviewedAt: time.Date(2026, 7, 10, 9, 0, 0, 0, time.UTC),
		},
	})

	output, err := executeCommand(t, newAnalyzeReportCommand())
	require.NoError(t, err)
	assert.Contains(t, output, "Review Statistics Report")
	assert.Contains(t, output, "2026-07")
}

func TestAnalyzeReportCommand_MonthOutOfRange(t *testing.T) {
	_, err := executeCommand(t, newAnalyzeReportCommand(), "--year", "2026", "--month", "13")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "month out of range")
}

func TestAnalyzeReportCommand_NoRecords(t *testing.T) {
	setupWorkspace(t, "german", []srs.Item{dueItem("haus")})

	output, err := executeCommand(t, newAnalyzeReportCommand())
	require.NoError(t, err)
	assert.Contains(t, output, "No review records found for the specified period.")
}
