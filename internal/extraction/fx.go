package extraction

import (
	extractiongenai "github.com/beanbook/beanbook/internal/extraction/genai"
	"github.com/beanbook/beanbook/internal/extraction/service"
	"go.uber.org/fx"
)

var Module = fx.Module("extraction.service",
	fx.Provide(extractiongenai.New),
	fx.Provide(service.New),
)
