package redis

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/database/redisclient"
	"github.com/x-xyz/nftmarket/base/metrics"
)

type redisSuite struct {
	suite.Suite

	mr  *miniredis.Miniredis
	svc Service
	ctx ctx.Ctx
}

func (s *redisSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr
	s.svc = New("test", metrics.NewNop(), &Pools{Src: redisclient.NewPool(mr.Addr(), "")})
	s.ctx = ctx.Background()
}

func (s *redisSuite) TearDownTest() {
	s.mr.Close()
}

func (s *redisSuite) TestGetSet() {
	_, err := s.svc.Get(s.ctx, "tokenInfo:ELF")
	s.Equal(ErrNotFound, err)

	s.Require().NoError(s.svc.Set(s.ctx, "tokenInfo:ELF", []byte(`{"symbol":"ELF"}`), 30*time.Second))
	val, err := s.svc.Get(s.ctx, "tokenInfo:ELF")
	s.NoError(err)
	s.Equal(`{"symbol":"ELF"}`, string(val))

	ttl, err := s.svc.TTL(s.ctx, "tokenInfo:ELF")
	s.NoError(err)
	s.Equal(30, ttl)

	ok, err := s.svc.Exists(s.ctx, "tokenInfo:ELF")
	s.NoError(err)
	s.True(ok)

	n, err := s.svc.Del(s.ctx, "tokenInfo:ELF", "tokenInfo:USDT")
	s.NoError(err)
	s.Equal(1, n)
}

func (s *redisSuite) TestForever() {
	s.Require().NoError(s.svc.Set(s.ctx, "k", []byte("v"), Forever))
	_, err := s.svc.TTL(s.ctx, "k")
	s.Equal(ErrNoTTL, err)

	_, err = s.svc.TTL(s.ctx, "missing")
	s.Equal(ErrNotFound, err)
}

func (s *redisSuite) TestIncrby() {
	v, err := s.svc.Incrby(s.ctx, "counter", 3)
	s.NoError(err)
	s.Equal(int64(3), v)
	v, err = s.svc.Incrby(s.ctx, "counter", -1)
	s.NoError(err)
	s.Equal(int64(2), v)
}

func (s *redisSuite) TestPublish() {
	n, err := s.svc.Publish(s.ctx, "marketEvents:listing", []byte("[]"))
	s.NoError(err)
	s.Equal(0, n)

	sub := s.mr.NewSubscriber()
	defer sub.Close()
	sub.Subscribe("marketEvents:offer")

	// miniredis delivers on an unbuffered channel, so drain it before publishing
	received := make(chan miniredis.PubsubMessage, 1)
	go func() {
		received <- <-sub.Messages()
	}()

	n, err = s.svc.Publish(s.ctx, "marketEvents:offer", []byte(`[{"kind":"offer"}]`))
	s.NoError(err)
	s.Equal(1, n)

	select {
	case msg := <-received:
		s.Equal("marketEvents:offer", msg.Channel)
		s.Equal(`[{"kind":"offer"}]`, msg.Message)
	case <-time.After(time.Second):
		s.Fail("no message received")
	}
}

func (s *redisSuite) TestNoPool() {
	svc := New("none", metrics.NewNop(), nil)
	_, err := svc.Get(s.ctx, "k")
	s.Equal(ErrNoPool, err)
}

func TestRedisSuite(t *testing.T) {
	suite.Run(t, new(redisSuite))
}
