package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/ledger"
	"github.com/x-xyz/nftmarket/service/query"
	mQuery "github.com/x-xyz/nftmarket/service/query/mocks"
)

type ledgerRepoSuite struct {
	suite.Suite

	ctx   ctx.Ctx
	query *mQuery.Mongo
	im    ledger.Ledger
}

func TestLedgerRepoSuite(t *testing.T) {
	suite.Run(t, new(ledgerRepoSuite))
}

func (s *ledgerRepoSuite) SetupTest() {
	s.ctx = ctx.Background()
	s.query = &mQuery.Mongo{}
	s.im = New(s.query)
}

func (s *ledgerRepoSuite) TearDownTest() {
	s.query.AssertExpectations(s.T())
}

func (s *ledgerRepoSuite) onToken(symbol string) {
	s.query.On("FindOne", s.ctx, domain.TableTokens, bson.M{"symbol": symbol}, mock.Anything).
		Run(func(args mock.Arguments) {
			*args.Get(3).(*ledger.TokenInfo) = ledger.TokenInfo{Symbol: symbol, Decimals: 8}
		}).Return(nil).Once()
}

func (s *ledgerRepoSuite) onAllowance(v int64) {
	s.query.On("FindOne", s.ctx, domain.TableAllowances, bson.M{"symbol": "ELF", "owner": domain.Address("0xbuyer"), "spender": domain.Address("0xmarket")}, mock.Anything).
		Run(func(args mock.Arguments) {
			args.Get(3).(*allowance).Allowance = v
		}).Return(nil).Once()
}

func (s *ledgerRepoSuite) onBalance(v int64) {
	s.query.On("FindOne", s.ctx, domain.TableBalances, bson.M{"symbol": "ELF", "owner": domain.Address("0xbuyer")}, mock.Anything).
		Run(func(args mock.Arguments) {
			args.Get(3).(*balance).Balance = v
		}).Return(nil).Once()
}

func (s *ledgerRepoSuite) in() ledger.TransferFromInput {
	return ledger.TransferFromInput{Symbol: "ELF", From: "0xBuyer", To: "0xSeller", Spender: "0xMarket", Amount: 5}
}

func (s *ledgerRepoSuite) TestGetTokenInfoNotFound() {
	s.query.On("FindOne", s.ctx, domain.TableTokens, bson.M{"symbol": "NOPE"}, mock.Anything).Return(query.ErrNotFound).Once()
	_, err := s.im.GetTokenInfo(s.ctx, "NOPE")
	s.Equal(domain.ErrNotFound, err)
}

func (s *ledgerRepoSuite) TestGetBalanceMissingIsZero() {
	s.query.On("FindOne", s.ctx, domain.TableBalances, bson.M{"symbol": "ELF", "owner": domain.Address("0xnobody")}, mock.Anything).Return(query.ErrNotFound).Once()
	v, err := s.im.GetBalance(s.ctx, "ELF", "0xNobody")
	s.NoError(err)
	s.Equal(int64(0), v)
}

func (s *ledgerRepoSuite) TestTransferFrom() {
	s.onToken("ELF")
	s.onAllowance(10)
	s.onBalance(10)
	s.query.On("IncrementMany", s.ctx, domain.TableAllowances, bson.M{"symbol": "ELF", "owner": domain.Address("0xbuyer"), "spender": domain.Address("0xmarket")}, bson.M{"allowance": int64(-5)}, bson.M(nil), mock.Anything).Return(nil).Once()
	s.query.On("IncrementMany", s.ctx, domain.TableBalances, bson.M{"symbol": "ELF", "owner": domain.Address("0xbuyer")}, bson.M{"balance": int64(-5)}, bson.M(nil), mock.Anything).Return(nil).Once()
	s.query.On("IncrementMany", s.ctx, domain.TableBalances, bson.M{"symbol": "ELF", "owner": domain.Address("0xseller")}, bson.M{"balance": int64(5)}, bson.M(nil), mock.Anything).Return(nil).Once()

	s.NoError(s.im.TransferFrom(s.ctx, s.in()))
}

func (s *ledgerRepoSuite) TestTransferFromInsufficientAllowance() {
	s.onToken("ELF")
	s.onAllowance(4)

	err := s.im.TransferFrom(s.ctx, s.in())
	s.True(errors.Is(err, domain.ErrInsufficient))
	s.Equal("Insufficient allowance of ELF.", err.Error())
}

func (s *ledgerRepoSuite) TestTransferFromInsufficientBalance() {
	s.onToken("ELF")
	s.onAllowance(10)
	s.onBalance(1)

	err := s.im.TransferFrom(s.ctx, s.in())
	s.True(errors.Is(err, domain.ErrInsufficient))
	s.Equal("Insufficient balance of ELF.", err.Error())
}

func (s *ledgerRepoSuite) TestTransferFromZeroIsNoop() {
	in := s.in()
	in.Amount = 0
	s.NoError(s.im.TransferFrom(s.ctx, in))
}
