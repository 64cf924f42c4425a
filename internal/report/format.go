package report

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var amountPrinter = message.NewPrinter(language.Vietnamese)

// FormatAmount renders an amount in đồng with dot thousands separators.
func FormatAmount(amount int64) string {
	return amountPrinter.Sprintf("%d ₫", amount)
}
