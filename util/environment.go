package util

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var environmentLogger = log.With().Str("logger_name", "util::environment").Logger()

type gameServerEnvironment struct {
	ListenAddress string
	LogLevel      string
	PersistMethod string
	RedisHost     string
	RedisPort     string
	RedisPW       string
	RedisDB       string
	NatsURL       string
	SettingsFile  string
}

// Env is a helper object for accessing environment variables.
var Env = &gameServerEnvironment{
	ListenAddress: "LISTEN_ADDRESS",
	LogLevel:      "LOG_LEVEL",
	PersistMethod: "PERSIST_METHOD",
	RedisHost:     "REDIS_HOST",
	RedisPort:     "REDIS_PORT",
	RedisPW:       "REDIS_PW",
	RedisDB:       "REDIS_DB",
	NatsURL:       "NATS_URL",
	SettingsFile:  "GAME_SETTINGS_FILE",
}

func (g *gameServerEnvironment) GetListenAddress() string {
	addr := os.Getenv(g.ListenAddress)
	if addr == "" {
		return ":8080"
	}
	return addr
}

func (g *gameServerEnvironment) GetLogLevel() string {
	level := os.Getenv(g.LogLevel)
	if level == "" {
		return "info"
	}
	return level
}

func (g *gameServerEnvironment) GetZeroLogLogLevel() zerolog.Level {
	l := g.GetLogLevel()
	switch l {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	case "disabled":
		return zerolog.Disabled
	default:
		environmentLogger.Warn().Msgf("Unrecognized log level %s. Defaulting to info.", l)
		return zerolog.InfoLevel
	}
}

func (g *gameServerEnvironment) GetPersistMethod() string {
	method := os.Getenv(g.PersistMethod)
	if method == "" {
		return "memory"
	}
	return method
}

func (g *gameServerEnvironment) GetRedisHost() string {
	host := os.Getenv(g.RedisHost)
	if host == "" {
		msg := fmt.Sprintf("%s is not defined", g.RedisHost)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return host
}

func (g *gameServerEnvironment) GetRedisPort() int {
	portStr := os.Getenv(g.RedisPort)
	if portStr == "" {
		msg := fmt.Sprintf("%s is not defined", g.RedisPort)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	portNum, err := strconv.Atoi(portStr)
	if err != nil {
		msg := fmt.Sprintf("Invalid Redis port %s", portStr)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return portNum
}

func (g *gameServerEnvironment) GetRedisPW() string {
	return os.Getenv(g.RedisPW)
}

func (g *gameServerEnvironment) GetRedisDB() int {
	dbStr := os.Getenv(g.RedisDB)
	if dbStr == "" {
		return 0
	}
	dbNum, err := strconv.Atoi(dbStr)
	if err != nil {
		msg := fmt.Sprintf("Invalid Redis db %s", dbStr)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return dbNum
}

func (g *gameServerEnvironment) GetNatsURL() string {
	return os.Getenv(g.NatsURL)
}

func (g *gameServerEnvironment) GetSettingsFile() string {
	return os.Getenv(g.SettingsFile)
}
