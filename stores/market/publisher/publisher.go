package publisher

import (
	"encoding/json"

	"github.com/viney-shih/goroutines"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/log"
	"github.com/x-xyz/nftmarket/domain/keys"
	"github.com/x-xyz/nftmarket/domain/market"
	"github.com/x-xyz/nftmarket/service/redis"
)

// Channel is the redis channel events of kind are published to.
func Channel(kind market.EventKind) string {
	return keys.RedisKey(keys.PfxMarketEvents, string(kind))
}

type redisPublisher struct {
	redis   redis.Service
	workers int
}

// NewRedis publishes the events of one operation as one json array per kind channel,
// so the order within a channel is kept. Channels are published concurrently.
func NewRedis(r redis.Service, workers int) market.Publisher {
	if workers <= 0 {
		workers = 1
	}
	return &redisPublisher{redis: r, workers: workers}
}

func (p *redisPublisher) Publish(c ctx.Ctx, events []market.Event) error {
	if len(events) == 0 {
		return nil
	}

	kinds := []market.EventKind{}
	grouped := map[market.EventKind][]market.Event{}
	for _, e := range events {
		if _, ok := grouped[e.Kind]; !ok {
			kinds = append(kinds, e.Kind)
		}
		grouped[e.Kind] = append(grouped[e.Kind], e)
	}

	b := goroutines.NewBatch(p.workers, goroutines.WithBatchSize(len(kinds)))
	defer b.Close()
	for _, kind := range kinds {
		channel := Channel(kind)
		group := grouped[kind]
		if err := b.Queue(func() (interface{}, error) {
			msg, err := json.Marshal(group)
			if err != nil {
				return nil, err
			}
			return p.redis.Publish(c, channel, msg)
		}); err != nil {
			c.WithFields(log.Fields{
				"err":     err,
				"channel": channel,
			}).Error("failed to batch.Queue")
			return err
		}
	}
	b.QueueComplete()

	var firstErr error
	for ret := range b.Results() {
		if err := ret.Error(); err != nil {
			c.WithFields(log.Fields{
				"err": err,
			}).Error("failed to redis.Publish")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

type logPublisher struct{}

// NewLog writes events to the log, for deployments without redis.
func NewLog() market.Publisher {
	return &logPublisher{}
}

func (p *logPublisher) Publish(c ctx.Ctx, events []market.Event) error {
	for _, e := range events {
		c.WithFields(log.Fields{
			"id":     e.Id,
			"kind":   e.Kind,
			"type":   e.Type,
			"symbol": e.Symbol,
		}).Info("market event")
	}
	return nil
}
