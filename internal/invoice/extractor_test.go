package invoice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_TotalOnKeywordLine(t *testing.T) {
	text := "Coffee House\n86 Cao Thang\nLatte x2 90.000\nCroissant 35.000\nTotal: 1.234.567\nThank you!"

	fields := Extract(text)

	assert.Equal(t, "1234567", fields.Total)
	assert.Equal(t, "Coffee House", fields.StoreName)
}

func TestExtract_TotalOnFollowingLine(t *testing.T) {
	text := "Mini Mart\nBread 20,000\nTotal\n50,000\nSee you again"

	fields := Extract(text)

	assert.Equal(t, "50000", fields.Total)
}

func TestExtract_TotalFromLastLines(t *testing.T) {
	text := "Street Food\nNoodles 99999\n200\n5000\n150"

	fields := Extract(text)

	assert.Equal(t, "5000", fields.Total)
}

func TestExtract_KeywordPriorityAndBottomUp(t *testing.T) {
	text := "Shop\nTổng tiền hàng: 120.000\nGiảm giá: 20.000\nTổng thanh toán: 100.000\nTiền khách đưa: 200.000"

	fields := Extract(text)

	assert.Equal(t, "100000", fields.Total)
}

func TestExtract_LargestNumberOnLine(t *testing.T) {
	fields := Extract("Shop\nTOTAL 3 items 45.500")

	assert.Equal(t, "45500", fields.Total)
}

func TestExtract_TotalBeyondInt64KeepsDigits(t *testing.T) {
	fields := Extract("Shop\nTotal: 12345678901234567890123\n50.000")

	assert.Equal(t, "12345678901234567890123", fields.Total)

	_, ok := ParseTotal(fields.Total)
	assert.False(t, ok)
}

func TestExtract_TailMaximumComparesLongNumbers(t *testing.T) {
	fields := Extract("Shop\n99999999999999999999\n100000000000000000000\n7")

	assert.Equal(t, "100000000000000000000", fields.Total)
}

func TestExtract_EmptyInput(t *testing.T) {
	assert.NotPanics(t, func() {
		fields := Extract("")
		assert.Equal(t, Fields{}, fields)
	})
	assert.Equal(t, Fields{}, Extract("  \n\n \t"))
}

func TestExtract_StoreNameSkipsLabels(t *testing.T) {
	text := "Address: 12 Le Loi\nTel: 0901 234 567\nBIG C THANG LONG\nTotal 10.000"

	fields := Extract(text)

	assert.Equal(t, "BIG C THANG LONG", fields.StoreName)
}

func TestExtract_StoreNameFallsBackToFirstLine(t *testing.T) {
	fields := Extract("ab\nTel: 1\nx")

	assert.Equal(t, "ab", fields.StoreName)
}

func TestExtract_StoreNameLookaheadIsBounded(t *testing.T) {
	text := "Tel: 1\nPhone: 2\nAddress: 3\nĐịa chỉ: 4\nHotline: 5\nReal Store"

	fields := Extract(text)

	assert.Equal(t, "Tel: 1", fields.StoreName)
}

func TestExtract_Date(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Shop\nNgày: 05/03/2024 10:22\nTotal 1", "05/03/2024"},
		{"Shop\nDate 1-2-24", "1-2-24"},
		{"Shop\n12.11.2023\n01/01/2020", "12.11.2023"},
		{"Shop\nno date here", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Extract(tt.text).Date, tt.text)
	}
}

func TestExtractor_Options(t *testing.T) {
	e := New(WithTotalKeywords("SUM"), WithTailSize(1), WithLookahead(1), WithLabelMarkers("shop:"))

	fields := e.Extract("Shop: Acme\nAcme Corp\nSum\n42\n7")

	assert.Equal(t, "42", fields.Total)
	assert.Equal(t, "Shop: Acme", fields.StoreName)

	fields = e.Extract("Acme\n100\n7")
	assert.Equal(t, "7", fields.Total)
}

func TestParseDate(t *testing.T) {
	d, ok := ParseDate("05/03/2024", time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), d)

	d, ok = ParseDate("1.2.24", time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), d)

	for _, invalid := range []string{"31/02/2024", "12/13/2024", "00/01/2024", "1/1/202", "", "abc"} {
		_, ok := ParseDate(invalid, time.UTC)
		assert.False(t, ok, invalid)
	}
}

func TestParseTotal(t *testing.T) {
	n, ok := ParseTotal("1234567")
	assert.True(t, ok)
	assert.Equal(t, int64(1234567), n)

	_, ok = ParseTotal("")
	assert.False(t, ok)

	n, ok = ParseTotal("1.234.567")
	assert.True(t, ok)
	assert.Equal(t, int64(1234567), n)
}
