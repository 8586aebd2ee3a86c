package healthcheck

import (
	"github.com/x-xyz/nftmarket/base/ctx"
)

// HealthCheckUsecase represents the healthCheck's usecases
type HealthCheckUsecase interface {
	Check(context ctx.Ctx) error
}

// Probe checks one backing store
type Probe interface {
	Name() string
	Ping(context ctx.Ctx) error
}
