package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"pad/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "PAD_LOG_LEVEL")
	viper.BindEnv("engine.refreshInterval", "PAD_REFRESH_INTERVAL")
	viper.BindEnv("engine.timezone", "PAD_TIMEZONE")
	viper.BindEnv("persistence.saveInterval", "PAD_SAVE_INTERVAL")
	viper.BindEnv("cache.enabled", "PAD_CACHE_ENABLED")
	viper.BindEnv("cache.size", "PAD_CACHE_SIZE")
	viper.BindEnv("notifier.enabled", "PAD_NOTIFIER_ENABLED")

	// Engine tunables encode polling-cadence assumptions; they are
	// config, not constants, but sane out of the box.
	viper.SetDefault("engine.timezone", "UTC")
	viper.SetDefault("engine.maxGap", 45*time.Minute)
	viper.SetDefault("engine.gapCap", 15*time.Minute)
	viper.SetDefault("engine.singlePingMinutes", 0.0)
	viper.SetDefault("engine.minutesWeight", 1.0)
	viper.SetDefault("engine.followersWeight", 0.01)
	viper.SetDefault("engine.blockTolerance", time.Minute)
	viper.SetDefault("engine.continuityWindow", time.Hour)
	viper.SetDefault("engine.highlightWindow", 3*time.Minute)
	viper.SetDefault("engine.spikeThreshold", 1000)
	viper.SetDefault("engine.longGap", 24*time.Hour)
	viper.SetDefault("engine.longGapMinMinutes", 60.0)

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "PresenceAnalyticsDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
