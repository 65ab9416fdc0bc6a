package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	StatePath    string        `yaml:"statePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type EngineConfig struct {
	Timezone          string        `yaml:"timezone"`
	RefreshInterval   time.Duration `yaml:"refreshInterval" validate:"required|min:1"`
	MaxGap            time.Duration `yaml:"maxGap"`
	GapCap            time.Duration `yaml:"gapCap"`
	SinglePingMinutes float64       `yaml:"singlePingMinutes"`
	MinutesWeight     float64       `yaml:"minutesWeight"`
	FollowersWeight   float64       `yaml:"followersWeight"`
	BlockTolerance    time.Duration `yaml:"blockTolerance"`
	ContinuityWindow  time.Duration `yaml:"continuityWindow"`
	HighlightWindow   time.Duration `yaml:"highlightWindow"`
	SpikeThreshold    int64         `yaml:"spikeThreshold"`
	LongGap           time.Duration `yaml:"longGap"`
	LongGapMinMinutes float64       `yaml:"longGapMinMinutes"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type NotifierConfig struct {
	Enabled bool `yaml:"enabled"`
}

type WatchlistConfig struct {
	Path string `yaml:"path"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	Engine      EngineConfig    `yaml:"engine"`
	WebServer   Server          `yaml:"webServer"`
	Persistence Persistence     `yaml:"persistence"`
	Logger      LoggerConfig    `yaml:"logger"`
	Cache       CacheConfig     `yaml:"cache"`
	Metrics     MetricsConfig   `yaml:"metrics"`
	Notifier    NotifierConfig  `yaml:"notifier"`
	Watchlist   WatchlistConfig `yaml:"watchlist"`
}
