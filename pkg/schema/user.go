// Package schema defines the data structures shared by keystore clients.
package schema

import "time"

// User is the signed-in identity cached in the secure store under
// keychain.KeyUserCredentials.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	LastLogin time.Time `json:"last_login"`
}

// Settings are the application preferences kept under keychain.KeyAppSettings.
type Settings struct {
	Theme         string `json:"theme"`
	Notifications bool   `json:"notifications"`
}

// DefaultSettings returns the settings of a fresh install.
func DefaultSettings() Settings {
	return Settings{Theme: "light", Notifications: true}
}
