package redis

import "fmt"

// Key prefix for all session data
const keyPrefix = "userdash"

// sessionKey returns the Redis key for a session token
func sessionKey(token string) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, token)
}
