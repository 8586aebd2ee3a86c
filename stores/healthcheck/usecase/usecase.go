package usecase

import (
	"golang.org/x/xerrors"

	"github.com/x-xyz/nftmarket/base/ctx"
	hcdomain "github.com/x-xyz/nftmarket/domain/healthcheck"
)

type impl struct {
	probes []hcdomain.Probe
}

// New checks probes in order and stops at the first failure. No probes is always healthy.
func New(probes ...hcdomain.Probe) hcdomain.HealthCheckUsecase {
	return &impl{
		probes: probes,
	}
}

func (im *impl) Check(context ctx.Ctx) error {
	for _, p := range im.probes {
		if err := p.Ping(context); err != nil {
			return xerrors.Errorf("%s unhealthy: %w", p.Name(), err)
		}
	}
	return nil
}
