package redis

import (
	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
)

// mockSearchReply builds a RESP2 FT.SEARCH reply: [total, key, fields, ...].
func mockSearchReply(docs map[string]map[string]string) []rueidis.RedisMessage {
	msgs := []rueidis.RedisMessage{mock.RedisInt64(int64(len(docs)))}
	for key, fields := range docs {
		msgs = append(msgs, mock.RedisString(key))
		var pairs []rueidis.RedisMessage
		for f, v := range fields {
			pairs = append(pairs, mock.RedisString(f), mock.RedisString(v))
		}
		msgs = append(msgs, mock.RedisArray(pairs...))
	}
	return msgs
}
