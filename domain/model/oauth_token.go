package model

import "time"

// OAuthToken holds a user's stored YouTube OAuth credentials, needed only for
// posting replies; read paths run on the API key.
type OAuthToken struct {
	UserID        string     `bson:"_id" json:"userId"`
	AccessToken   string     `bson:"accessToken" json:"-"`
	RefreshToken  string     `bson:"refreshToken" json:"-"`
	TokenExpiry   *time.Time `bson:"tokenExpiry,omitempty" json:"tokenExpiry,omitempty"`
	Scopes        []string   `bson:"scopes,omitempty" json:"scopes,omitempty"`
	LastRefreshed *time.Time `bson:"lastRefreshed,omitempty" json:"lastRefreshed,omitempty"`
}
