package dto

import "time"

// UpdateSettingsRequest política del libro de la tienda.
type UpdateSettingsRequest struct {
	KeepRule        string `json:"keep_rule" validate:"required,oneof=individual average"`
	AllocationOrder string `json:"allocation_order" validate:"required,oneof=oldest_arrival_first newest_arrival_first highest_cost_first lowest_cost_first"`
}

// SettingsResponse política vigente. Default indica que la tienda no tiene una propia.
type SettingsResponse struct {
	StoreID         string     `json:"store_id"`
	KeepRule        string     `json:"keep_rule"`
	AllocationOrder string     `json:"allocation_order"`
	Default         bool       `json:"default"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}
