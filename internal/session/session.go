// Package session caches the current user and system settings of a cashier
// session between requests.
package session

import (
	"errors"

	"github.com/nikolayk812/pos-demo/internal/domain"
)

var ErrNotFound = errors.New("session entry not found")

const (
	keyUser     = "currentUser"
	keySettings = "systemSettings"
)

type userEntry struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}
