package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Storage engines
const (
	EngineMemory   = "memory"
	EngineSQLite   = "sqlite"
	EnginePostgres = "postgres"
	EngineRedis    = "redis"
)

type (
	Config struct {
		Env              string
		Build            string
		AppName          string
		Debug            bool
		TestMode         bool
		SecretKey        string
		WorkDir          string
		DefaultFromEmail mail.Address
		RollbarToken     string
		SendgridAPIKey   string

		Server  ServerConfig
		Storage StorageConfig
		Latency LatencyConfig
		Chat    ChatConfig
	}

	ServerConfig struct {
		Host               string
		Addr               string
		DebugAddr          string
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
		DisableReqLogs     bool
	}

	StorageConfig struct {
		Engine        string
		DSN           string
		KeyPrefix     string
		RedisAddr     string
		RedisPassword string
		RedisDB       int
	}

	// LatencyConfig holds the simulated round-trip delays of the data-access service.
	LatencyConfig struct {
		Login    time.Duration
		Register time.Duration
		Send     time.Duration
	}

	ChatConfig struct {
		ResyncInterval time.Duration
		BotReplyDelay  time.Duration
		BotPrefix      string
		BotReply       string
	}
)

func (c StorageConfig) IsSQL() bool {
	return c.Engine == EngineSQLite || c.Engine == EnginePostgres
}

// NewConfig loads the app configuration for the current environment (env var `ENV`).
func NewConfig() *Config {
	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	workDir := os.Getenv("WORKDIR")
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			log.Fatalf("config.os.Getwd(): %v", err)
		}
		workDir = wd
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(workDir, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}

	conf, err := LoadConfig(env, workDir)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return conf
}

// LoadConfig builds a Config from defaults overridden by `<ENV>_*` environment variables.
// e.g. DEV_SERVER_ADDR overrides server.addr
func LoadConfig(env, workDir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if env == "TEST" {
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	from, err := mail.ParseAddress(v.GetString("defaultFromEmail"))
	if err != nil {
		return nil, errors.Wrap(err, "parsing defaultFromEmail")
	}

	conf := &Config{
		Env:              env,
		Build:            v.GetString("build"),
		AppName:          v.GetString("appName"),
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("testMode"),
		SecretKey:        v.GetString("secretKey"),
		WorkDir:          workDir,
		DefaultFromEmail: *from,
		RollbarToken:     v.GetString("rollbarToken"),
		SendgridAPIKey:   v.GetString("sendgridApiKey"),
		Server: ServerConfig{
			Host:               v.GetString("server.host"),
			Addr:               v.GetString("server.addr"),
			DebugAddr:          v.GetString("server.debugAddr"),
			ShutdownTimeout:    v.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta: v.GetDuration("server.jwtExpirationDelta"),
			DisableReqLogs:     v.GetBool("server.disableReqLogs"),
		},
		Storage: StorageConfig{
			Engine:        strings.ToLower(v.GetString("storage.engine")),
			DSN:           v.GetString("storage.dsn"),
			KeyPrefix:     v.GetString("storage.keyPrefix"),
			RedisAddr:     v.GetString("storage.redisAddr"),
			RedisPassword: v.GetString("storage.redisPassword"),
			RedisDB:       v.GetInt("storage.redisDB"),
		},
		Latency: LatencyConfig{
			Login:    v.GetDuration("latency.login"),
			Register: v.GetDuration("latency.register"),
			Send:     v.GetDuration("latency.send"),
		},
		Chat: ChatConfig{
			ResyncInterval: v.GetDuration("chat.resyncInterval"),
			BotReplyDelay:  v.GetDuration("chat.botReplyDelay"),
			BotPrefix:      v.GetString("chat.botPrefix"),
			BotReply:       v.GetString("chat.botReply"),
		},
	}

	switch conf.Storage.Engine {
	case EngineMemory, EngineSQLite, EnginePostgres, EngineRedis:
	default:
		return nil, errors.Errorf("unknown storage engine %q", conf.Storage.Engine)
	}
	return conf, nil
}

func setDefaults(v *viper.Viper) {
	v.SetTypeByDefaultValue(true)

	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("build", "develop")
	v.SetDefault("appName", "SchoolLink")
	v.SetDefault("secretKey", "k3v9-rafidain)link$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy")
	v.SetDefault("defaultFromEmail", "SchoolLink <noreply@localhost>")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridApiKey", "")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.debugAddr", ":4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("server.disableReqLogs", false)

	v.SetDefault("storage.engine", EngineSQLite)
	v.SetDefault("storage.dsn", "schoollink.db")
	v.SetDefault("storage.keyPrefix", "schoollink:")
	v.SetDefault("storage.redisAddr", "127.0.0.1:6379")
	v.SetDefault("storage.redisPassword", "")
	v.SetDefault("storage.redisDB", 0)

	v.SetDefault("latency.login", 500*time.Millisecond)
	v.SetDefault("latency.register", 800*time.Millisecond)
	v.SetDefault("latency.send", 200*time.Millisecond)

	v.SetDefault("chat.resyncInterval", 2*time.Second)
	v.SetDefault("chat.botReplyDelay", 1500*time.Millisecond)
	v.SetDefault("chat.botPrefix", "mock_")
	v.SetDefault("chat.botReply", "Thanks for your message. I will get back to you soon.")
}
