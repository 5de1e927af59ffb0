package utils

import (
	"os/user"
)

// GetUsername returns the current username.
func GetUsername() (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return u.Username, nil
}
