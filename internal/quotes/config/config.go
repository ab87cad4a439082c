package config

// QuoteConfig quote-service 的全部配置，config/quote-service.yaml
type QuoteConfig struct {
	Name string `mapstructure:"name"`

	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`

	HTTP struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"http"`

	Stream struct {
		// 推送节奏（毫秒），0 走默认 1000ms。服务级参数，不开放给消费者
		CadenceMs int `mapstructure:"cadence_ms"`
	} `mapstructure:"stream"`

	RateLimit struct {
		RPS   float64 `mapstructure:"rps"`
		Burst int     `mapstructure:"burst"`
	} `mapstructure:"ratelimit"`

	// 标的表：配置了就覆盖内置表
	Instruments []Instrument `mapstructure:"instruments"`
}

type Instrument struct {
	Symbol    string  `mapstructure:"symbol"`
	Name      string  `mapstructure:"name"`
	BasePrice float64 `mapstructure:"base_price"`
}
