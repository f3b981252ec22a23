package offers

import (
	"github.com/beanbook/beanbook/internal/offers/service"
	"go.uber.org/fx"
)

var Module = fx.Module("offers.service",
	fx.Provide(service.New),
)
