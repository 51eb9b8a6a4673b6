package dataprocessing

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datacleaner/pkg/contracts/domain"
)

func TestNewSummarizer(t *testing.T) {
	tests := []struct {
		name     string
		logger   *slog.Logger
		config   SummarizerConfig
		wantHead int
	}{
		{name: "default config", logger: slog.Default(), config: DefaultSummarizerConfig(), wantHead: 5},
		{name: "custom head", logger: slog.Default(), config: SummarizerConfig{HeadRows: 2}, wantHead: 2},
		{name: "negative head clamps", logger: slog.Default(), config: SummarizerConfig{HeadRows: -1}, wantHead: 0},
		{name: "nil logger uses default", logger: nil, config: DefaultSummarizerConfig(), wantHead: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summarizer := NewSummarizer(tt.logger, tt.config)

			assert.NotNil(t, summarizer)
			assert.Equal(t, tt.wantHead, summarizer.headRows)
			assert.NotNil(t, summarizer.logger)
		})
	}
}

func TestSummarizer_Summarize(t *testing.T) {
	table := domain.MustNewTable(
		domain.NewColumnOf("x", 1, 2, nil, 3),
		domain.NewColumnOf("s", "a", "a", "b", nil),
	)

	summary := NewSummarizer(nil, SummarizerConfig{HeadRows: 2}).Summarize(context.Background(), table)

	assert.Equal(t, 4, summary.Rows)
	require.Len(t, summary.Columns, 2)

	x := summary.Columns[0]
	assert.Equal(t, domain.KindNumeric, x.Kind)
	assert.Equal(t, 1, x.Missing)
	assert.Equal(t, 3, x.Distinct)
	require.NotNil(t, x.Mean)
	assert.InDelta(t, 2.0, *x.Mean, 1e-9)
	require.NotNil(t, x.Std)
	assert.InDelta(t, 1.0, *x.Std, 1e-9)
	assert.Equal(t, 1.0, *x.Min)
	assert.Equal(t, 3.0, *x.Max)

	s := summary.Columns[1]
	assert.Equal(t, domain.KindText, s.Kind)
	assert.Equal(t, 2, s.Distinct)
	assert.Nil(t, s.Mean)

	assert.Equal(t, [][]string{{"1", "a"}, {"2", "a"}}, summary.Head)
}
