package redis

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// PublishJSONToStream 将 data 序列化为 JSON，以 {data, timestamp} 写入 stream
// maxLen > 0 时近似裁剪 stream 长度
func PublishJSONToStream(ctx context.Context, client *redis.Client, stream string, maxLen int64, data any) (string, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	args := &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{
			"data":      string(body),
			"timestamp": strconv.FormatInt(time.Now().Unix(), 10),
		},
	}
	if maxLen > 0 {
		args.MaxLen = maxLen
		args.Approx = true
	}
	return client.XAdd(ctx, args).Result()
}
