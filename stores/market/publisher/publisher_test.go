package publisher

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/listing"
	"github.com/x-xyz/nftmarket/domain/market"
	mRedis "github.com/x-xyz/nftmarket/service/redis/mocks"
)

type publisherSuite struct {
	suite.Suite

	ctx   ctx.Ctx
	redis *mRedis.Service
	im    market.Publisher
}

func TestPublisherSuite(t *testing.T) {
	suite.Run(t, new(publisherSuite))
}

func (s *publisherSuite) SetupTest() {
	s.ctx = ctx.Background()
	s.redis = &mRedis.Service{}
	s.im = NewRedis(s.redis, 4)
}

func (s *publisherSuite) TearDownTest() {
	s.redis.AssertExpectations(s.T())
}

func (s *publisherSuite) events() []market.Event {
	now := time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC)
	l := &listing.Listing{Symbol: "ABC-1", Owner: "0xseller", Price: domain.Price{Symbol: "ELF", Amount: 5}, Quantity: 4}
	return []market.Event{
		{Id: "1", Kind: market.EventKindListing, Type: market.EventTypeChanged, Symbol: "ABC-1", Listing: l, Time: now},
		{Id: "2", Kind: market.EventKindSold, Type: market.EventTypeAdded, Symbol: "ABC-1", Fill: &market.Fill{Symbol: "ABC-1", Quantity: 1}, Time: now},
		{Id: "3", Kind: market.EventKindListing, Type: market.EventTypeRemoved, Symbol: "ABC-1", Listing: l, Time: now},
	}
}

func (s *publisherSuite) TestChannel() {
	s.Equal("marketEvents:listing", Channel(market.EventKindListing))
}

func (s *publisherSuite) TestPublishGroupsByKind() {
	events := s.events()
	listings, _ := json.Marshal([]market.Event{events[0], events[2]})
	sold, _ := json.Marshal([]market.Event{events[1]})

	s.redis.On("Publish", s.ctx, "marketEvents:listing", listings).Return(1, nil).Once()
	s.redis.On("Publish", s.ctx, "marketEvents:sold", sold).Return(0, nil).Once()

	s.NoError(s.im.Publish(s.ctx, events))
}

func (s *publisherSuite) TestPublishError() {
	boom := errors.New("boom")
	s.redis.On("Publish", s.ctx, mock.Anything, mock.Anything).Return(0, boom).Twice()

	s.Equal(boom, s.im.Publish(s.ctx, s.events()))
}

func (s *publisherSuite) TestPublishNothing() {
	s.NoError(s.im.Publish(s.ctx, nil))
}

func (s *publisherSuite) TestLogPublisher() {
	s.NoError(NewLog().Publish(s.ctx, s.events()))
}
