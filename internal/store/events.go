package store

import (
	"context"
	"fmt"

	commonredis "github.com/UMEZAWADAN/SD-5/common/redis"

	"github.com/go-redis/redis/v8"
)

// StreamSink 把事件以 JSON 追加到 Redis stream
type StreamSink struct {
	c      *redis.Client
	stream string
	maxLen int64
}

func NewStreamSink(c *redis.Client, stream string, maxLen int64) *StreamSink {
	return &StreamSink{c: c, stream: stream, maxLen: maxLen}
}

func (s *StreamSink) Append(ctx context.Context, event any) error {
	if _, err := commonredis.PublishJSONToStream(ctx, s.c, s.stream, s.maxLen, event); err != nil {
		return fmt.Errorf("failed to append to stream %s: %w", s.stream, err)
	}
	return nil
}
