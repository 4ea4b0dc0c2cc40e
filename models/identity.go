package models

import (
	"time"
)

// Identity is one linked Discord account. DelegatedToken is the OAuth access token used to list
// the account's guilds; it is overwritten on every login and never leaves the backend.
type Identity struct {
	ID             string    `db:"id"              bson:"_id"             json:"id"`
	DisplayName    string    `db:"display_name"    bson:"display_name"    json:"display_name"`
	AvatarRef      string    `db:"avatar_ref"      bson:"avatar_ref"      json:"avatar_ref"`
	DelegatedToken string    `db:"delegated_token" bson:"delegated_token" json:"-"`
	CreatedAt      time.Time `db:"created_at"      bson:"created_at"      json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"      bson:"updated_at"      json:"updated_at"`
}

// HasDelegatedToken reports whether guild listing on behalf of this account is possible
func (i *Identity) HasDelegatedToken() bool {
	return i.DelegatedToken != ""
}
