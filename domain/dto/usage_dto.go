package dto

import "lently/domain/model"

// UsageResponse reports plan limits, current usage and remaining quota.
type UsageResponse struct {
	Plan      string           `json:"plan"`
	Limits    model.PlanLimits `json:"limits"`
	Usage     model.Usage      `json:"usage"`
	Remaining RemainingQuota   `json:"remaining"`
}

// RemainingQuota is quota left in the current month, floored at zero.
type RemainingQuota struct {
	Videos      int `json:"videos"`
	AIQuestions int `json:"aiQuestions"`
	ReSyncs     int `json:"reSyncs"`
}

// UpdatePlanRequest changes the subscription plan.
type UpdatePlanRequest struct {
	Plan string `json:"plan" binding:"required"`
}

// Auth payloads.
type LoginRequest struct {
	UserName string `json:"userName" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	UserName    string `json:"userName" binding:"required"`
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"displayName,omitempty"`
}

type TokenResponse struct {
	Token string `json:"token"`
}
