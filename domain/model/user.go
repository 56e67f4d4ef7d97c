package model

import (
	"time"

	"github.com/golang-jwt/jwt"
)

// Subscription plans.
const (
	PlanFree     = "free"
	PlanStarter  = "starter"
	PlanPro      = "pro"
	PlanBusiness = "business"
)

// PlanLimits is the static quota table for one subscription tier.
type PlanLimits struct {
	VideosPerMonth      int  `json:"videosPerMonth"`
	CommentsPerVideo    int  `json:"commentsPerVideo"`
	TotalComments       int  `json:"totalComments"`
	AIQuestionsPerMonth int  `json:"aiQuestionsPerMonth"`
	ReSyncsPerMonth     int  `json:"reSyncsPerMonth"`
	AutoSync            bool `json:"autoSync"`
}

// AllPlanLimits maps plan name to its limits.
var AllPlanLimits = map[string]PlanLimits{
	PlanFree:     {VideosPerMonth: 1, CommentsPerVideo: 500, TotalComments: 500, AIQuestionsPerMonth: 3, ReSyncsPerMonth: 0, AutoSync: false},
	PlanStarter:  {VideosPerMonth: 50, CommentsPerVideo: 5000, TotalComments: 10000, AIQuestionsPerMonth: 100, ReSyncsPerMonth: 20, AutoSync: false},
	PlanPro:      {VideosPerMonth: 100, CommentsPerVideo: 10000, TotalComments: 20000, AIQuestionsPerMonth: 500, ReSyncsPerMonth: 50, AutoSync: true},
	PlanBusiness: {VideosPerMonth: 999, CommentsPerVideo: 50000, TotalComments: 100000, AIQuestionsPerMonth: 9999, ReSyncsPerMonth: 999, AutoSync: true},
}

// LimitsForPlan returns the limits for a plan, falling back to the free tier
// for unknown plan names.
func LimitsForPlan(plan string) PlanLimits {
	if l, ok := AllPlanLimits[plan]; ok {
		return l
	}
	return AllPlanLimits[PlanFree]
}

// Usage holds the per-user monthly counters. Counters reset to zero and
// ResetDate advances to the first of the next month whenever a limit check
// observes now >= ResetDate.
type Usage struct {
	VideosAnalyzed   int       `bson:"videosAnalyzed" json:"videosAnalyzed"`
	CommentsAnalyzed int       `bson:"commentsAnalyzed" json:"commentsAnalyzed"`
	AIQuestionsUsed  int       `bson:"aiQuestionsUsed" json:"aiQuestionsUsed"`
	ReSyncsUsed      int       `bson:"reSyncsUsed" json:"reSyncsUsed"`
	ResetDate        time.Time `bson:"resetDate" json:"resetDate"`
}

// User is an account document with its embedded usage ledger.
type User struct {
	UserID      string     `bson:"_id" json:"userId"`
	Email       string     `bson:"email" json:"email"`
	UserName    string     `bson:"userName" json:"userName"`
	Password    string     `bson:"password,omitempty" json:"-"`
	DisplayName string     `bson:"displayName,omitempty" json:"displayName,omitempty"`
	Plan        string     `bson:"plan" json:"plan"`
	PlanExpiry  *time.Time `bson:"planExpiry,omitempty" json:"planExpiry,omitempty"`
	Usage       Usage      `bson:"usage" json:"usage"`
	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
}

// NextResetDate returns the first day of the month after t.
func NextResetDate(t time.Time) time.Time {
	firstOfMonth := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return firstOfMonth.AddDate(0, 1, 0)
}

// UserClaims is the JWT claim set issued at login.
type UserClaims struct {
	UserName string `json:"userName"`
	jwt.StandardClaims
}
