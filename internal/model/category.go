package model

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidCategory = errors.New("invalid category")

// MaxCategoryNameLength ограничивает длину названия в байтах, чтобы оно
// помещалось в callback data кнопок Telegram
const MaxCategoryNameLength = 48

type Category struct {
	ID        string          `json:"id,omitempty"`
	UserID    int64           `json:"user_id"`
	Name      string          `json:"name"`
	Type      TransactionType `json:"type"`
	Icon      string          `json:"icon,omitempty"`
	Color     string          `json:"color,omitempty"`
	Custom    bool            `json:"-"`
	CreatedAt time.Time       `json:"created_at,omitempty"`
}

// DefaultCategories содержит встроенные категории, доступные всем пользователям
var DefaultCategories = []Category{
	{Name: "Food", Type: Expense, Icon: "🍜", Color: "#FF6B6B"},
	{Name: "Transport", Type: Expense, Icon: "🚌", Color: "#4ECDC4"},
	{Name: "Shopping", Type: Expense, Icon: "🛍", Color: "#FFD93D"},
	{Name: "Bills", Type: Expense, Icon: "🧾", Color: "#6C5CE7"},
	{Name: "Entertainment", Type: Expense, Icon: "🎬", Color: "#A29BFE"},
	{Name: "Health", Type: Expense, Icon: "💊", Color: "#00B894"},
	{Name: "Education", Type: Expense, Icon: "📚", Color: "#0984E3"},
	{Name: "Other", Type: Expense, Icon: "📦", Color: "#B2BEC3"},
	{Name: "Salary", Type: Income, Icon: "💼", Color: "#2ECC71"},
	{Name: "Bonus", Type: Income, Icon: "🎁", Color: "#F39C12"},
	{Name: "Investment", Type: Income, Icon: "📈", Color: "#16A085"},
	{Name: "Other", Type: Income, Icon: "💰", Color: "#B2BEC3"},
}

// MergeCategories объединяет встроенные категории с пользовательскими.
// Пользовательская категория с тем же названием и типом заменяет встроенную.
func MergeCategories(defaults, custom []Category) []Category {
	merged := make([]Category, 0, len(defaults)+len(custom))
	index := make(map[string]int, len(defaults)+len(custom))
	for _, c := range defaults {
		index[categoryKey(c)] = len(merged)
		merged = append(merged, c)
	}
	for _, c := range custom {
		c.Custom = true
		if i, ok := index[categoryKey(c)]; ok {
			if c.Icon == "" {
				c.Icon = merged[i].Icon
			}
			if c.Color == "" {
				c.Color = merged[i].Color
			}
			merged[i] = c
			continue
		}
		index[categoryKey(c)] = len(merged)
		merged = append(merged, c)
	}
	return merged
}

// FilterCategories возвращает категории указанного типа
func FilterCategories(categories []Category, t TransactionType) []Category {
	filtered := make([]Category, 0, len(categories))
	for _, c := range categories {
		if c.Type == t {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

func categoryKey(c Category) string {
	return string(c.Type) + "/" + strings.ToLower(strings.TrimSpace(c.Name))
}
