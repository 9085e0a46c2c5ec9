package model

type ClaimWeeklyBonusRequest struct{}

type ClaimWeeklyBonusResponse struct {
	Skips int `json:"skips"`
}
