package charts

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/ivanoskov/finance_tracker/internal/report"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartGenerator генерирует различные типы графиков
type ChartGenerator struct{}

// NewChartGenerator создает новый генератор графиков
func NewChartGenerator() *ChartGenerator {
	return &ChartGenerator{}
}

var background = chart.Style{
	Padding: chart.Box{
		Top:    50,
		Left:   50,
		Right:  50,
		Bottom: 50,
	},
	FillColor: chart.ColorWhite,
}

var axisStyle = chart.Style{
	FontSize:  12,
	FontColor: chart.ColorBlack,
}

// calculateMovingAverage вычисляет скользящее среднее
func calculateMovingAverage(values []float64, window int) []float64 {
	result := make([]float64, len(values))
	for i := range values {
		count := 0
		sum := 0.0
		for j := max(0, i-window+1); j <= i; j++ {
			sum += values[j]
			count++
		}
		result[i] = sum / float64(count)
	}
	return result
}

func amountFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return report.FormatAmount(int64(math.Round(f)))
	}
	return ""
}

// GenerateCategoryPieChart создает круговую диаграмму расходов по категориям
func (g *ChartGenerator) GenerateCategoryPieChart(data report.ReportData) ([]byte, error) {
	if len(data.Categories) == 0 {
		return nil, nil
	}

	values := make([]chart.Value, 0, len(data.Categories))
	for _, c := range data.Categories {
		color := drawing.ColorFromHex(trimHash(c.Color))
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s: %s (%d%%)", c.Name, report.FormatAmount(c.Amount), c.Percent),
			Value: float64(c.Amount),
			Style: chart.Style{
				FillColor:   color,
				StrokeColor: chart.ColorWhite,
				FontSize:    12,
				FontColor:   chart.ColorBlack,
			},
		})
	}

	pie := chart.PieChart{
		Title:      "Расходы по категориям",
		Width:      800,
		Height:     800,
		Values:     values,
		Background: background,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := pie.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render category pie chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// GenerateDailyChart создает график доходов и расходов по дням
func (g *ChartGenerator) GenerateDailyChart(days []report.DailyTotal) ([]byte, error) {
	if len(days) < 2 {
		return nil, nil
	}

	xValues := make([]time.Time, len(days))
	expenseValues := make([]float64, len(days))
	incomeValues := make([]float64, len(days))
	peak := 0.0
	for i, d := range days {
		xValues[i] = d.Date
		expenseValues[i] = float64(d.Expense)
		incomeValues[i] = float64(d.Income)
		peak = math.Max(peak, math.Max(expenseValues[i], incomeValues[i]))
	}
	if peak == 0 {
		return nil, nil
	}

	graph := chart.Chart{
		Width:      1200,
		Height:     600,
		Background: background,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("02.01"),
			Style:          axisStyle,
		},
		YAxis: chart.YAxis{
			ValueFormatter: amountFormatter,
			Style:          axisStyle,
			Range:          &chart.ContinuousRange{Min: 0, Max: peak * 1.1},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Расходы",
				XValues: xValues,
				YValues: expenseValues,
				Style: chart.Style{
					StrokeColor: chart.ColorRed,
					StrokeWidth: 2,
				},
			},
			chart.TimeSeries{
				Name:    "Доходы",
				XValues: xValues,
				YValues: incomeValues,
				Style: chart.Style{
					StrokeColor: chart.ColorGreen,
					StrokeWidth: 2,
				},
			},
			chart.TimeSeries{
				Name:    "Тренд расходов (3 дня)",
				XValues: xValues,
				YValues: calculateMovingAverage(expenseValues, 3),
				Style: chart.Style{
					StrokeColor:     chart.ColorRed.WithAlpha(100),
					StrokeWidth:     2,
					StrokeDashArray: []float64{5.0, 5.0},
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{
		chart.Legend(&graph, axisStyle),
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render daily chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// GenerateComparisonChart сравнивает расходы текущего и предыдущего периода
func (g *ChartGenerator) GenerateComparisonChart(data report.ReportData) ([]byte, error) {
	if data.TotalExpense == 0 && data.PreviousExpense == 0 {
		return nil, nil
	}
	peak := math.Max(float64(data.TotalExpense), float64(data.PreviousExpense))

	bars := []chart.Value{
		{
			Label: fmt.Sprintf("Пред.: %s", report.FormatAmount(data.PreviousExpense)),
			Value: float64(data.PreviousExpense),
			Style: chart.Style{
				StrokeColor: chart.ColorRed,
				FillColor:   chart.ColorRed.WithAlpha(100),
			},
		},
		{
			Label: fmt.Sprintf("Тек.: %s (%s)", report.FormatAmount(data.TotalExpense), data.Comparison),
			Value: float64(data.TotalExpense),
			Style: chart.Style{
				StrokeColor: chart.ColorRed,
				FillColor:   chart.ColorRed,
			},
		},
	}

	graph := chart.BarChart{
		Title:      "Сравнение периодов",
		TitleStyle: chart.Style{FontSize: 14, FontColor: chart.ColorBlack},
		Width:      800,
		Height:     600,
		BarWidth:   120,
		Background: background,
		YAxis: chart.YAxis{
			ValueFormatter: amountFormatter,
			Style:          axisStyle,
			Range:          &chart.ContinuousRange{Min: 0, Max: peak * 1.1},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render comparison chart: %w", err)
	}
	return buffer.Bytes(), nil
}

func trimHash(hex string) string {
	if len(hex) > 0 && hex[0] == '#' {
		return hex[1:]
	}
	return hex
}
