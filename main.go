package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"livepoker.com/server/game"
	"livepoker.com/server/internal/playerkeys"
	"livepoker.com/server/logging"
	"livepoker.com/server/nats"
	"livepoker.com/server/rest"
	"livepoker.com/server/util"
)

var settingsFile *string
var mainLogger = logging.GetZeroLogger("main::main", nil)

func init() {
	settingsFile = flag.String("settings", "", "YAML file with table settings (blinds, stacks, seats)")
}

func main() {
	err := run()
	if err != nil {
		mainLogger.Error().Msg(err.Error())
		os.Exit(1)
	}
}

func run() error {
	logLevel := util.Env.GetZeroLogLogLevel()
	fmt.Printf("Setting log level to %s\n", logLevel)
	zerolog.SetGlobalLevel(logLevel)
	flag.Parse()

	fileName := *settingsFile
	if fileName == "" {
		fileName = util.Env.GetSettingsFile()
	}
	settings, err := game.ParseSettings(fileName)
	if err != nil {
		return errors.Wrap(err, "Error while parsing table settings")
	}

	keys, err := playerkeys.NewCache()
	if err != nil {
		return errors.Wrap(err, "Error while creating player key cache")
	}

	persist, err := createTracker()
	if err != nil {
		return err
	}

	publisher, err := createPublisher()
	if err != nil {
		return err
	}

	manager := game.NewManager(settings, keys, persist, publisher)

	addr := util.Env.GetListenAddress()
	mainLogger.Info().Msgf("Running the table server on %s", addr)
	return rest.RunRestServer(manager, keys, addr)
}

func createTracker() (game.PersistTableState, error) {
	method := util.Env.GetPersistMethod()
	switch method {
	case "memory":
		return game.NewMemoryTableStateTracker(), nil
	case "redis":
		redisURL := fmt.Sprintf("%s:%d", util.Env.GetRedisHost(), util.Env.GetRedisPort())
		return game.NewRedisTableStateTracker(redisURL, util.Env.GetRedisPW(), util.Env.GetRedisDB()), nil
	default:
		return nil, fmt.Errorf("Unsupported persist method %s", method)
	}
}

func createPublisher() (nats.Publisher, error) {
	natsURL := util.Env.GetNatsURL()
	if natsURL == "" {
		mainLogger.Info().Msg("No NATS URL configured. Table events will not be published.")
		return nats.NewNoopPublisher(), nil
	}
	mainLogger.Info().Msgf("NATS URL: %s", natsURL)
	return nats.NewPublisher(natsURL)
}
