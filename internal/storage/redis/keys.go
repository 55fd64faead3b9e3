package redis

import (
	"fmt"
	"strconv"
)

// Key prefix for all catalog data
const keyPrefix = "steamgames"

// Key generation functions for each entity type

// gameKey returns the Redis key for a GameDetail
func gameKey(id int) string {
	return fmt.Sprintf("%s:game:%d", keyPrefix, id)
}

// gameMember returns the sorted set member for a game
func gameMember(id int) string {
	return strconv.Itoa(id)
}

// rankedGamesKey returns the Redis key for the ZSET of all games scored by rank
func rankedGamesKey() string {
	return fmt.Sprintf("%s:idx:games", keyPrefix)
}

// rankCounterKey returns the Redis key of the last assigned rank
func rankCounterKey() string {
	return fmt.Sprintf("%s:rank", keyPrefix)
}

// publisherIndexKey returns the Redis key for the ZSET of a publisher's games
func publisherIndexKey(publisher string) string {
	return fmt.Sprintf("%s:idx:publisher:%s", keyPrefix, publisher)
}

// categoryIndexKey returns the Redis key for the ZSET of a tag's games
func categoryIndexKey(category string) string {
	return fmt.Sprintf("%s:idx:category:%s", keyPrefix, category)
}

// userKey returns the Redis key for a User
func userKey(username string) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, username)
}
