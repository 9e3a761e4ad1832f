package config

import (
	"agent-staffing/errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DefaultEnvFile is read into the environment when present.
const DefaultEnvFile = ".env"

// Load resolves the configuration and validates it.
// Precedence: flags > env > config file > defaults.
// flagSet may be nil (e.g. in tests that don't set CLI flags).
func Load(flagSet *flag.FlagSet) (*Config, error) {
	envFile := DefaultEnvFile
	configFile := ""
	if flagSet != nil {
		if f := flagSet.Lookup(KeyEnvFile); f != nil {
			envFile = f.Value.String()
		}
		if f := flagSet.Lookup(KeyConfigFile); f != nil {
			configFile = f.Value.String()
		}
	}

	// .env only fills variables that are not already set
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	v := viper.New()
	def := Default()
	v.SetDefault(KeyInput, def.Input)
	v.SetDefault(KeyFormat, def.Format)
	v.SetDefault(KeyUtilization, def.Utilization)
	v.SetDefault(KeyCapacity, def.Capacity)
	v.SetDefault(KeySLA, def.TargetSLA)
	v.SetDefault(KeyServiceTime, def.ServiceTime)
	v.SetDefault(KeyMaxOccupancy, def.MaxOccupancy)
	v.SetDefault(KeyAbandonTime, def.AbandonTime)
	v.SetDefault(KeyMetricsAddr, def.MetricsAddr)
	v.SetDefault(KeyPushURL, def.PushURL)
	v.SetDefault(KeyWait, def.Wait)
	v.SetDefault(KeyLogLevel, def.LogLevel)

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", errors.ErrInvalidConfig, configFile, err)
		}
	}

	// Bind environment variables (precedence above config, below flags)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// Bind pflag flags (highest precedence for explicitly-set flags)
	if flagSet != nil {
		for _, key := range keys() {
			if f := flagSet.Lookup(key); f != nil {
				_ = v.BindPFlag(key, f)
			}
		}
	}

	cfg := &Config{
		Input:        v.GetString(KeyInput),
		Format:       strings.ToLower(v.GetString(KeyFormat)),
		Utilization:  v.GetFloat64(KeyUtilization),
		Capacity:     v.GetInt(KeyCapacity),
		TargetSLA:    v.GetFloat64(KeySLA),
		ServiceTime:  v.GetInt(KeyServiceTime),
		MaxOccupancy: v.GetFloat64(KeyMaxOccupancy),
		AbandonTime:  v.GetInt(KeyAbandonTime),
		MetricsAddr:  v.GetString(KeyMetricsAddr),
		PushURL:      v.GetString(KeyPushURL),
		Wait:         v.GetBool(KeyWait),
		LogLevel:     v.GetString(KeyLogLevel),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func keys() []string {
	return []string{
		KeyInput, KeyFormat, KeyUtilization, KeyCapacity, KeySLA, KeyServiceTime,
		KeyMaxOccupancy, KeyAbandonTime, KeyMetricsAddr, KeyPushURL, KeyWait, KeyLogLevel,
	}
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: loading %s: %v", errors.ErrInvalidConfig, path, err)
	}
	return nil
}
