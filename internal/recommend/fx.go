package recommend

import (
	recommendgenai "github.com/beanbook/beanbook/internal/recommend/genai"
	"github.com/beanbook/beanbook/internal/recommend/service"
	"go.uber.org/fx"
)

var Module = fx.Module("recommend.service",
	fx.Provide(recommendgenai.New),
	fx.Provide(service.New),
)
