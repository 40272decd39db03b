package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Rewards  RewardsConfig  `mapstructure:"rewards"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	Params          string `mapstructure:"params"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
	ConnectRetries  int    `mapstructure:"connect_retries"`
}

func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.Params)
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type AuthConfig struct {
	JWTSecret      string `mapstructure:"jwt_secret"`
	TokenTTLHours  int    `mapstructure:"token_ttl_hours"`
	StaffKey       string `mapstructure:"staff_key"`
	ServiceKey     string `mapstructure:"service_key"`
	TrustedProxies string `mapstructure:"trusted_proxies"`
}

type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
}

// RewardsConfig holds every tunable of the rewards engine. Caps and
// thresholds are configuration, never hard-coded in the engine.
type RewardsConfig struct {
	Timezone            string  `mapstructure:"timezone"`
	GeofenceRadiusM     float64 `mapstructure:"geofence_radius_m"`
	GeoBypassTelegramID []int64 `mapstructure:"geo_bypass_telegram_ids"`

	RedeemThreshold uint `mapstructure:"redeem_threshold"`
	CodeTTLMinutes  int  `mapstructure:"code_ttl_minutes"`
	CodeAttempts    int  `mapstructure:"code_attempts"`

	SpinLockTTLSeconds  int  `mapstructure:"spin_lock_ttl_seconds"`
	IdempotencyTTLHours int  `mapstructure:"idempotency_ttl_hours"`
	ReferralBonus       uint `mapstructure:"referral_bonus"`

	GamePointsPerWin uint `mapstructure:"game_points_per_win"`
	GameMaxWinsPerDay uint `mapstructure:"game_max_wins_per_day"`

	ArcadeSecret            string  `mapstructure:"arcade_secret"`
	ArcadeScoreDenominator  uint    `mapstructure:"arcade_score_denominator"`
	ArcadePerSessionCap     uint    `mapstructure:"arcade_per_session_cap"`
	ArcadeMaxSessionsPerDay int64   `mapstructure:"arcade_max_sessions_per_day"`
	ArcadeDailyCap          uint    `mapstructure:"arcade_daily_cap"`
	ArcadeMaxPointsPerSec   float64 `mapstructure:"arcade_max_points_per_sec"`
	ArcadeFreshnessMinutes  int     `mapstructure:"arcade_freshness_minutes"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// Load reads config.yaml when present and overlays environment variables
// (dots become underscores, e.g. REWARDS_GEOFENCE_RADIUS_M).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && path != "" {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15)
	v.SetDefault("server.write_timeout", 15)

	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.user", "root")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "perks")
	v.SetDefault("database.params", "charset=utf8mb4&parseTime=True&loc=UTC")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 25)
	v.SetDefault("database.conn_max_lifetime", 3600)
	v.SetDefault("database.connect_retries", 5)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.token_ttl_hours", 24)

	v.SetDefault("rewards.timezone", "Europe/Kyiv")
	v.SetDefault("rewards.geofence_radius_m", 100)
	v.SetDefault("rewards.redeem_threshold", 100)
	v.SetDefault("rewards.code_ttl_minutes", 15)
	v.SetDefault("rewards.code_attempts", 5)
	v.SetDefault("rewards.spin_lock_ttl_seconds", 10)
	v.SetDefault("rewards.idempotency_ttl_hours", 24)
	v.SetDefault("rewards.referral_bonus", 50)
	v.SetDefault("rewards.game_points_per_win", 10)
	v.SetDefault("rewards.game_max_wins_per_day", 3)
	v.SetDefault("rewards.arcade_score_denominator", 10)
	v.SetDefault("rewards.arcade_per_session_cap", 20)
	v.SetDefault("rewards.arcade_max_sessions_per_day", 5)
	v.SetDefault("rewards.arcade_daily_cap", 60)
	v.SetDefault("rewards.arcade_max_points_per_sec", 15)
	v.SetDefault("rewards.arcade_freshness_minutes", 5)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stdout")
}
