package dataprocessing

import (
	"strings"
	"testing"
	"time"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datacleaner/pkg/contracts/domain"
)

func numbers(xs ...any) []domain.Value {
	out := make([]domain.Value, len(xs))
	for i, x := range xs {
		out[i] = domain.ValueOf(x)
	}
	return out
}

func TestNewCleaner_DoesNotMutateInput(t *testing.T) {
	input := domain.MustNewTable(
		domain.NewColumnOf("a", 1, 1, nil),
		domain.NewColumnOf("b", " X ", " X ", "y"),
	)

	cleaner := NewCleaner(input)
	cleaner.CleanData()

	assert.Equal(t, 3, input.NumRows())
	assert.Equal(t, domain.Text(" X "), input.Columns[1].Values[0])
	assert.True(t, input.Columns[0].Values[2].IsMissing())
}

func TestRemoveDuplicates(t *testing.T) {
	input := domain.MustNewTable(
		domain.NewColumnOf("a", 1, 2, 1, nil, nil, 1),
		domain.NewColumnOf("b", "x", "y", "x", "z", "z", "q"),
	)

	cleaner := NewCleaner(input)
	out := cleaner.RemoveDuplicates()

	require.Equal(t, 4, out.NumRows())
	assert.Equal(t, numbers(1, 2, nil, 1), out.Columns[0].Values)
	assert.Equal(t, numbers("x", "y", "z", "q"), out.Columns[1].Values)

	t.Run("idempotent", func(t *testing.T) {
		again := cleaner.RemoveDuplicates()
		assert.Equal(t, out, again)
	})

	report := cleaner.Report()
	require.Len(t, report.Stages, 2)
	assert.Equal(t, 2, report.Stages[0].RowsRemoved())
	assert.Equal(t, 0, report.Stages[1].RowsRemoved())
}

func TestRemoveDuplicates_SeparatorsDoNotCollide(t *testing.T) {
	input := domain.MustNewTable(
		domain.NewColumnOf("a", "x|", "x"),
		domain.NewColumnOf("b", "y", "|y"),
	)

	out := NewCleaner(input).RemoveDuplicates()
	assert.Equal(t, 2, out.NumRows())
}

func TestHandleMissingValues(t *testing.T) {
	tests := []struct {
		name     string
		strategy Strategy
		column   *domain.Column
		want     []domain.Value
	}{
		{
			name:     "median fills numeric gap",
			strategy: StrategyMedian,
			column:   domain.NewColumnOf("n", 1, nil, 3, 5),
			want:     numbers(1, 3, 3, 5),
		},
		{
			name:     "mean fills numeric gap",
			strategy: StrategyMean,
			column:   domain.NewColumnOf("n", 1, nil, 3, 5),
			want:     numbers(1, 3, 3, 5),
		},
		{
			name:     "mean of uneven values",
			strategy: StrategyMean,
			column:   domain.NewColumnOf("n", 1, nil, 2),
			want:     numbers(1, 1.5, 2),
		},
		{
			name:     "median of even count averages the middle",
			strategy: StrategyMedian,
			column:   domain.NewColumnOf("n", 4, 1, nil, 3, 10),
			want:     numbers(4, 1, 3.5, 3, 10),
		},
		{
			name:     "most frequent numeric breaks ties by first seen",
			strategy: StrategyMostFrequent,
			column:   domain.NewColumnOf("n", 7, 2, nil, 2, 7),
			want:     numbers(7, 2, 7, 2, 7),
		},
		{
			name:     "text always uses most frequent",
			strategy: StrategyMean,
			column:   domain.NewColumnOf("s", "b", "a", nil, "a"),
			want:     numbers("b", "a", "a", "a"),
		},
		{
			name:     "all-missing numeric column stays missing",
			strategy: StrategyMean,
			column:   &domain.Column{Name: "n", Kind: domain.KindNumeric, Values: numbers(nil, nil)},
			want:     numbers(nil, nil),
		},
		{
			name:     "empty column stays missing",
			strategy: StrategyMostFrequent,
			column:   domain.NewColumnOf("e", nil, nil),
			want:     numbers(nil, nil),
		},
		{
			name:     "boolean column is not imputed",
			strategy: StrategyMostFrequent,
			column:   domain.NewColumnOf("b", true, nil, true),
			want:     numbers(true, nil, true),
		},
		{
			name:     "datetime column is not imputed",
			strategy: StrategyMostFrequent,
			column:   domain.NewColumnOf("d", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), nil),
			want:     numbers(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), nil),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleaner := NewCleaner(domain.MustNewTable(tt.column))
			out := cleaner.HandleMissingValues(tt.strategy)
			assert.Equal(t, tt.want, out.Columns[0].Values)
		})
	}
}

func TestFixDataTypes(t *testing.T) {
	day := func(y int, m time.Month, d int) domain.Value {
		return domain.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
	}

	tests := []struct {
		name     string
		column   *domain.Column
		wantKind domain.Kind
		want     []domain.Value
	}{
		{
			name:     "strict dates",
			column:   domain.NewColumnOf("d", "2024-01-05", nil, "2023-12-31"),
			wantKind: domain.KindDatetime,
			want:     []domain.Value{day(2024, 1, 5), domain.Missing(), day(2023, 12, 31)},
		},
		{
			name:     "one malformed date keeps the column text",
			column:   domain.NewColumnOf("d", "2024-01-05", "2024/01/06", "x", "y"),
			wantKind: domain.KindText,
			want:     numbers("2024-01-05", "2024/01/06", "x", "y"),
		},
		{
			name:     "unpadded month is not a date",
			column:   domain.NewColumnOf("d", "2024-1-05", "2024-01-06", "2024-01-07"),
			wantKind: domain.KindText,
			want:     numbers("2024-1-05", "2024-01-06", "2024-01-07"),
		},
		{
			name:     "numbers",
			column:   domain.NewColumnOf("n", "25", " 30 ", "1e3", nil),
			wantKind: domain.KindNumeric,
			want:     numbers(25, 30, 1000, nil),
		},
		{
			name:     "partial numbers are all or nothing",
			column:   domain.NewColumnOf("n", "25", "thirty", "40"),
			wantKind: domain.KindText,
			want:     numbers("25", "thirty", "40"),
		},
		{
			name:     "yes no becomes boolean",
			column:   domain.NewColumnOf("b", "yes", "no", "yes"),
			wantKind: domain.KindBoolean,
			want:     numbers(true, false, true),
		},
		{
			name:     "recognised pair maps by meaning",
			column:   domain.NewColumnOf("b", "No", "Yes", nil),
			wantKind: domain.KindBoolean,
			want:     numbers(false, true, nil),
		},
		{
			name:     "arbitrary pair maps first seen to true",
			column:   domain.NewColumnOf("b", "red", "blue", "red"),
			wantKind: domain.KindBoolean,
			want:     numbers(true, false, true),
		},
		{
			name:     "three distinct values stay text",
			column:   domain.NewColumnOf("s", "a", "b", "c"),
			wantKind: domain.KindText,
			want:     numbers("a", "b", "c"),
		},
		{
			name:     "single distinct value stays text",
			column:   domain.NewColumnOf("s", "a", "a", nil),
			wantKind: domain.KindText,
			want:     numbers("a", "a", nil),
		},
		{
			name:     "empty column is untouched",
			column:   domain.NewColumnOf("e", nil, nil),
			wantKind: domain.KindEmpty,
			want:     numbers(nil, nil),
		},
		{
			name:     "numeric column is untouched",
			column:   domain.NewColumnOf("n", 1, 0),
			wantKind: domain.KindNumeric,
			want:     numbers(1, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleaner := NewCleaner(domain.MustNewTable(tt.column))
			out := cleaner.FixDataTypes()
			assert.Equal(t, tt.wantKind, out.Columns[0].Kind)
			assert.Equal(t, tt.want, out.Columns[0].Values)
		})
	}
}

func TestFixDataTypes_BinaryMappingIsStable(t *testing.T) {
	input := domain.MustNewTable(domain.NewColumnOf("b", "left", "right", "right", "left"))

	first := NewCleaner(input).FixDataTypes()
	second := NewCleaner(input).FixDataTypes()

	assert.Equal(t, first.Columns[0].Values, second.Columns[0].Values)
	assert.Equal(t, numbers(true, false, false, true), first.Columns[0].Values)
}

func TestFixDataTypes_BinaryPairs(t *testing.T) {
	tests := []struct {
		name   string
		values []any
		want   []domain.Value
	}{
		{name: "opposites in order", values: []any{"yes", "no", nil}, want: numbers(true, false, nil)},
		{name: "opposites reversed", values: []any{" N ", "Yes", "Yes"}, want: numbers(false, true, true)},
		{name: "off before on", values: []any{"off", "on"}, want: numbers(false, true)},
		{name: "both falsy", values: []any{"no", "n", "no"}, want: numbers(true, false, true)},
		{name: "truthy pair", values: []any{"1", "yes"}, want: numbers(true, false)},
		{name: "unrecognised", values: []any{"left", "right"}, want: numbers(true, false)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := NewCleaner(domain.MustNewTable(domain.NewColumnOf("b", tt.values...))).FixDataTypes()
			assert.Equal(t, domain.KindBoolean, out.Columns[0].Kind)
			assert.Equal(t, tt.want, out.Columns[0].Values)
		})
	}
}

func TestFixDataTypes_ReportsConversions(t *testing.T) {
	cleaner := NewCleaner(domain.MustNewTable(
		domain.NewColumnOf("n", "1", "2", "3"),
		domain.NewColumnOf("s", "a", "b", "c"),
	))
	cleaner.FixDataTypes()

	assert.Equal(t, []Conversion{{Column: "n", From: domain.KindText, To: domain.KindNumeric}},
		cleaner.Report().Conversions())
}

func TestStandardizeText(t *testing.T) {
	cleaner := NewCleaner(domain.MustNewTable(
		domain.NewColumnOf("city", "  NYC ", "La", nil, "\tSão Paulo\n"),
		domain.NewColumnOf("flag", true, false, true, false),
	))

	out := cleaner.StandardizeText()

	assert.Equal(t, numbers("nyc", "la", nil, "são paulo"), out.Columns[0].Values)
	assert.Equal(t, numbers(true, false, true, false), out.Columns[1].Values)
	assert.Equal(t, 3, cleaner.Report().Stages[0].CellsNormalized)

	for _, col := range out.ColumnsOfKind(domain.KindText) {
		for _, v := range col.Present() {
			s := v.Str()
			assert.Equal(t, strings.TrimSpace(s), s)
			assert.False(t, strings.IndexFunc(s, unicode.IsUpper) >= 0, "uppercase in %q", s)
		}
	}
}

func TestRemoveOutliers(t *testing.T) {
	t.Run("extreme value removed at lower threshold", func(t *testing.T) {
		// with five samples the largest reachable |z| is 4/sqrt(5) ≈ 1.79
		cleaner := NewCleaner(domain.MustNewTable(domain.NewColumnOf("x", 1, 2, 3, 4, 100)))
		out := cleaner.RemoveOutliers(1.5)
		assert.Equal(t, numbers(1, 2, 3, 4), out.Columns[0].Values)
	})

	t.Run("five samples cannot exceed three", func(t *testing.T) {
		cleaner := NewCleaner(domain.MustNewTable(domain.NewColumnOf("x", 1, 2, 3, 4, 100)))
		out := cleaner.RemoveOutliers(DefaultZThreshold)
		assert.Equal(t, 5, out.NumRows())
	})

	t.Run("extreme value removed at default threshold", func(t *testing.T) {
		values := make([]any, 0, 21)
		for i := 0; i < 20; i++ {
			values = append(values, 10+i%3)
		}
		values = append(values, 1000)
		cleaner := NewCleaner(domain.MustNewTable(
			domain.NewColumnOf("x", values...),
			domain.NewColumnOf("id", seq(21)...),
		))
		out := cleaner.RemoveOutliers(DefaultZThreshold)
		require.Equal(t, 20, out.NumRows())
		for _, v := range out.Columns[0].Values {
			assert.Less(t, v.Float(), 1000.0)
		}
	})

	t.Run("any numeric column removes the whole row", func(t *testing.T) {
		cleaner := NewCleaner(domain.MustNewTable(
			domain.NewColumnOf("a", 1, 2, 3, 4, 100),
			domain.NewColumnOf("b", 100, 2, 3, 4, 1),
			domain.NewColumnOf("label", "p", "q", "r", "s", "t"),
		))
		out := cleaner.RemoveOutliers(1.5)
		assert.Equal(t, numbers("q", "r", "s"), out.Columns[2].Values)
	})

	t.Run("missing numeric cell drops its row", func(t *testing.T) {
		cleaner := NewCleaner(domain.MustNewTable(domain.NewColumnOf("x", 1, nil, 2, 3)))
		out := cleaner.RemoveOutliers(DefaultZThreshold)
		assert.Equal(t, numbers(1, 2, 3), out.Columns[0].Values)
	})

	t.Run("zero variance keeps rows at the mean", func(t *testing.T) {
		cleaner := NewCleaner(domain.MustNewTable(domain.NewColumnOf("x", 0.1, 0.1, 0.1)))
		out := cleaner.RemoveOutliers(DefaultZThreshold)
		assert.Equal(t, 3, out.NumRows())
	})

	t.Run("single value has undefined deviation", func(t *testing.T) {
		cleaner := NewCleaner(domain.MustNewTable(domain.NewColumnOf("x", 5, nil)))
		out := cleaner.RemoveOutliers(DefaultZThreshold)
		assert.Equal(t, 0, out.NumRows())
	})

	t.Run("no numeric columns keeps everything", func(t *testing.T) {
		cleaner := NewCleaner(domain.MustNewTable(domain.NewColumnOf("s", "a", "b")))
		out := cleaner.RemoveOutliers(DefaultZThreshold)
		assert.Equal(t, 2, out.NumRows())
	})
}

func seq(n int) []any {
	out := make([]any, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestCleanData_EndToEnd(t *testing.T) {
	input := domain.MustNewTable(
		domain.NewColumnOf("age", "25", "30", nil, "200"),
		domain.NewColumnOf("city", "NYC", " nyc ", "LA", "nyc"),
	)

	cleaner := NewCleaner(input)
	out := cleaner.CleanData()

	age, ok := out.Column("age")
	require.True(t, ok)
	// age is still text when imputation runs, so the gap takes the most
	// frequent text ("25", first of four ties) rather than a numeric mean
	assert.Equal(t, domain.KindNumeric, age.Kind)
	assert.Equal(t, numbers(25, 30, 25, 200), age.Values)

	city, ok := out.Column("city")
	require.True(t, ok)
	assert.Equal(t, domain.KindText, city.Kind)
	assert.Equal(t, numbers("nyc", "nyc", "la", "nyc"), city.Values)

	report := cleaner.Report()
	require.Len(t, report.Stages, len(Stages))
	for i, stage := range Stages {
		assert.Equal(t, stage, report.Stages[i].Stage)
	}
	assert.Equal(t, 1, report.CellsImputed())
	assert.Equal(t, 0, report.RowsRemoved())
}

func TestCleanData_UsesConfiguredOptions(t *testing.T) {
	var seen []Stage
	input := domain.MustNewTable(domain.NewColumnOf("x", 1, 2, 3, 4, 100, nil))

	cleaner := NewCleaner(input,
		WithStrategy(StrategyMedian),
		WithZThreshold(1.5),
		WithObserver(ObserverFunc(func(r StageResult) { seen = append(seen, r.Stage) })),
	)
	out := cleaner.CleanData()

	// the gap is filled with the median (3) and 100 is dropped as an outlier
	assert.Equal(t, numbers(1, 2, 3, 4, 3), out.Columns[0].Values)
	assert.Equal(t, Stages, seen)
}

func TestCleanData_ZeroOptionsUseDefaults(t *testing.T) {
	input := domain.MustNewTable(domain.NewColumnOf("x", 1, nil, 2, 6))

	got := NewCleaner(input, WithOptions(Options{})).CleanData()
	want := NewCleaner(input).CleanData()

	assert.Equal(t, want.Columns[0].Values, got.Columns[0].Values)
	assert.Equal(t, numbers(1, 3, 2, 6), got.Columns[0].Values, "mean fill, no row dropped")
}

func TestHandleMissingValues_UnknownStrategyFillsMean(t *testing.T) {
	for _, strategy := range []Strategy{"", "bogus"} {
		out := NewCleaner(domain.MustNewTable(domain.NewColumnOf("n", 1, nil, 2, 6))).
			HandleMissingValues(strategy)
		assert.Equal(t, numbers(1, 3, 2, 6), out.Columns[0].Values, "strategy %q", strategy)
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    Strategy
		wantErr bool
	}{
		{in: "", want: StrategyMean},
		{in: "MEAN", want: StrategyMean},
		{in: "median", want: StrategyMedian},
		{in: "most-frequent", want: StrategyMostFrequent},
		{in: "most_frequent", want: StrategyMostFrequent},
		{in: "max", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStrategy(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownStrategy)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
