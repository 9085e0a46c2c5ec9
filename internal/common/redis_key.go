package common

import "fmt"

func RedisKeyFinalizeLock(dateKey string) string {
	return fmt.Sprintf("focus:finalize:%s", dateKey)
}
