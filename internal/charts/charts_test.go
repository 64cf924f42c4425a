package charts

import (
	"testing"
	"time"

	"github.com/ivanoskov/finance_tracker/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG")

func TestGenerateCategoryPieChart(t *testing.T) {
	g := NewChartGenerator()

	empty, err := g.GenerateCategoryPieChart(report.ReportData{})
	require.NoError(t, err)
	assert.Nil(t, empty)

	png, err := g.GenerateCategoryPieChart(report.ReportData{
		TotalExpense: 300,
		Categories: []report.CategoryShare{
			{Name: "Food", Amount: 200, Percent: 67, Color: "#FF6B6B"},
			{Name: "Other", Amount: 100, Percent: 33, Color: report.NeutralColor},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, pngHeader, png[:4])
}

func TestGenerateDailyChart(t *testing.T) {
	g := NewChartGenerator()
	start := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	none, err := g.GenerateDailyChart([]report.DailyTotal{{Date: start}, {Date: start.AddDate(0, 0, 1)}})
	require.NoError(t, err)
	assert.Nil(t, none)

	png, err := g.GenerateDailyChart([]report.DailyTotal{
		{Date: start, Expense: 100},
		{Date: start.AddDate(0, 0, 1), Expense: 50, Income: 300},
		{Date: start.AddDate(0, 0, 2), Expense: 75},
	})
	require.NoError(t, err)
	assert.Equal(t, pngHeader, png[:4])
}

func TestGenerateComparisonChart(t *testing.T) {
	g := NewChartGenerator()

	none, err := g.GenerateComparisonChart(report.ReportData{})
	require.NoError(t, err)
	assert.Nil(t, none)

	png, err := g.GenerateComparisonChart(report.ReportData{TotalExpense: 150, PreviousExpense: 100, Comparison: "+50%"})
	require.NoError(t, err)
	assert.Equal(t, pngHeader, png[:4])
}

func TestCalculateMovingAverage(t *testing.T) {
	assert.Equal(t, []float64{2, 3, 5}, calculateMovingAverage([]float64{2, 4, 9}, 3))
	assert.Equal(t, []float64{}, calculateMovingAverage([]float64{}, 3))
}
