package catalog

import (
	"github.com/beanbook/beanbook/internal/catalog/repository"
	"github.com/beanbook/beanbook/internal/catalog/service"
	"github.com/beanbook/beanbook/internal/providers/shopify"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.Provide),
	fx.Provide(shopify.New),
	fx.Provide(service.New),
)
