package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/database/mongoclient"
	hcdomain "github.com/x-xyz/nftmarket/domain/healthcheck"
	"github.com/x-xyz/nftmarket/domain/keys"
	"github.com/x-xyz/nftmarket/service/redis"
)

const pingTimeout = 2 * time.Second

type mongoProbe struct {
	mgoClient *mongoclient.Client
}

// NewMongo pings the primary, market writes need it
func NewMongo(mgoClient *mongoclient.Client) hcdomain.Probe {
	return &mongoProbe{mgoClient: mgoClient}
}

func (im *mongoProbe) Name() string {
	return "mongo"
}

func (im *mongoProbe) Ping(context ctx.Ctx) error {
	ctx, cancel := ctx.WithTimeout(context, pingTimeout)
	defer cancel()
	if err := im.mgoClient.Ping(ctx, readpref.Primary()); err != nil {
		context.WithField("err", err).Error("ping mongo error")
		return err
	}
	return nil
}

type redisProbe struct {
	redis redis.Service
}

// NewRedis writes a short lived key, market events are published through the same pool
func NewRedis(redis redis.Service) hcdomain.Probe {
	return &redisProbe{redis: redis}
}

func (im *redisProbe) Name() string {
	return "redis"
}

func (im *redisProbe) Ping(context ctx.Ctx) error {
	ctx, cancel := ctx.WithTimeout(context, pingTimeout)
	defer cancel()
	if err := im.redis.Set(ctx, keys.RedisKey(keys.PfxHealthCheck, "testset"), []byte("1"), 30*time.Second); err != nil {
		context.WithField("err", err).Error("test redis set failed")
		return err
	}
	return nil
}
