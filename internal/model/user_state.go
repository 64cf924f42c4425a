package model

import "time"

// Ожидаемые действия пользователя в диалоге с ботом
const (
	AwaitingNone        = ""
	AwaitingAmount      = "amount"
	AwaitingNewCategory = "new_category"
	AwaitingBudgetLimit = "budget_limit"
	AwaitingConfirm     = "confirm_draft"
)

// UserState представляет текущее состояние пользователя
type UserState struct {
	UserID           int64           `json:"user_id"`
	SelectedCategory string          `json:"selected_category"`
	TransactionType  TransactionType `json:"transaction_type"`
	AwaitingAction   string          `json:"awaiting_action"`
	Draft            *Transaction    `json:"draft,omitempty"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
