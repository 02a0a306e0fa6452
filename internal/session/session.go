// Package session persists the logged-in user between requests and
// process restarts. The slot holds the user as JSON under
// "warteg_user:<user id>".
package session

import (
	"encoding/json"
	"fmt"

	"github.com/warteg-pro/api/internal/enum"
	"github.com/warteg-pro/api/internal/state"
)

const keyPrefix = "warteg_user:"

// Key returns the slot key for a user.
func Key(userID string) string {
	return keyPrefix + userID
}

func encode(user state.User) ([]byte, error) {
	b, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return b, nil
}

// decode parses a slot. A slot that is not valid JSON, lacks an ID, or
// carries an unknown role is malformed and reported with ok=false.
func decode(raw []byte, userID string) (state.User, bool) {
	var u state.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return state.User{}, false
	}
	if u.ID == "" || u.ID != userID || !enum.IsValidRole(u.Role) {
		return state.User{}, false
	}
	return u, true
}
