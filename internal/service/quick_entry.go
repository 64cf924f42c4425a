package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ivanoskov/finance_tracker/internal/model"
	"github.com/ivanoskov/finance_tracker/internal/report"
)

var ErrInvalidEntry = errors.New("invalid entry")

var amountSuffixes = []struct {
	suffix     string
	multiplier float64
}{
	{"tr", 1_000_000},
	{"m", 1_000_000},
	{"k", 1_000},
}

// ParseQuickEntry разбирает сообщение вида "[+]<сумма> <категория> [заметка]".
// Знак "+" означает доход. Суммы принимают суффиксы k (тысячи) и tr/m (миллионы).
// Если первое слово после суммы не совпадает с известной категорией, используется
// категория "Other", а весь остаток становится заметкой.
func ParseQuickEntry(text string, categories []model.Category) (model.Transaction, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return model.Transaction{}, fmt.Errorf("%w: empty message", ErrInvalidEntry)
	}

	t := model.Transaction{Type: model.Expense}
	amountToken := fields[0]
	switch {
	case strings.HasPrefix(amountToken, "+"):
		t.Type = model.Income
		amountToken = amountToken[1:]
	case strings.HasPrefix(amountToken, "-"):
		amountToken = amountToken[1:]
	}

	amount, err := ParseAmount(amountToken)
	if err != nil {
		return model.Transaction{}, err
	}
	t.Amount = amount

	rest := fields[1:]
	t.Category = report.OtherCategory
	if len(rest) > 0 {
		if c, ok := findCategory(categories, t.Type, rest[0]); ok {
			t.Category = c.Name
			rest = rest[1:]
		}
	}
	t.Note = strings.Join(rest, " ")
	return t, nil
}

// QuickAdd разбирает и сразу сохраняет транзакцию из сообщения
func (s *ExpenseTracker) QuickAdd(ctx context.Context, userID int64, text string) (*model.Transaction, error) {
	categories, err := s.GetCategories(ctx, userID)
	if err != nil {
		return nil, err
	}
	t, err := ParseQuickEntry(text, categories)
	if err != nil {
		return nil, err
	}
	t.UserID = userID
	if err := s.AddTransaction(ctx, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// ParseAmount разбирает сумму в донгах, допуская разделители разрядов и суффиксы k, tr, m
func ParseAmount(token string) (int64, error) {
	lower := strings.ToLower(token)
	for _, sfx := range amountSuffixes {
		if !strings.HasSuffix(lower, sfx.suffix) {
			continue
		}
		number := strings.TrimSuffix(lower, sfx.suffix)
		if number == "" || strings.TrimLeft(number, "0123456789.,") != "" {
			return 0, fmt.Errorf("%w: amount %q", ErrInvalidEntry, token)
		}
		f, err := strconv.ParseFloat(strings.ReplaceAll(number, ",", "."), 64)
		if err != nil || f*sfx.multiplier >= math.MaxInt64 {
			return 0, fmt.Errorf("%w: amount %q", ErrInvalidEntry, token)
		}
		return int64(math.Round(f * sfx.multiplier)), nil
	}

	n, err := strconv.ParseInt(strings.NewReplacer(".", "", ",", "").Replace(token), 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: amount %q", ErrInvalidEntry, token)
	}
	return n, nil
}

func findCategory(categories []model.Category, t model.TransactionType, name string) (model.Category, bool) {
	for _, c := range categories {
		if c.Type == t && strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return model.Category{}, false
}
