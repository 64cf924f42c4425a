package model

import "time"

type Budget struct {
	ID        string    `json:"id,omitempty"`
	UserID    int64     `json:"user_id"`
	Category  string    `json:"category"`
	Limit     int64     `json:"limit"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// BudgetStatus описывает состояние бюджета за текущий месяц и не хранится в базе
type BudgetStatus struct {
	Budget    Budget
	Spent     int64
	Remaining int64
}

func (s BudgetStatus) Exceeded() bool {
	return s.Remaining < 0
}
