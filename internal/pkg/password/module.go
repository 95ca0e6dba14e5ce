package password

import (
	"go.uber.org/fx"

	"github.com/polkiloo/campusmarket/internal/config"
)

// Module provides the password hasher via fx.
var Module = fx.Provide(newHasher)

type hasherParams struct {
	fx.In

	Config *config.Config
}

func newHasher(p hasherParams) Hasher {
	return NewBcryptHasher(p.Config.BcryptCost)
}
