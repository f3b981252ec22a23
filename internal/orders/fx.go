package orders

import (
	"github.com/beanbook/beanbook/internal/orders/repository"
	"github.com/beanbook/beanbook/internal/orders/service"
	"go.uber.org/fx"
)

var Module = fx.Module("orders.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
