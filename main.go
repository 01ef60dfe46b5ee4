package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/op/go-logging"

	"github.com/nikolastojicic02/mongodb-schema-optimization/common"
	"github.com/nikolastojicic02/mongodb-schema-optimization/importer"
	"github.com/nikolastojicic02/mongodb-schema-optimization/storage"
)

var log = logging.MustGetLogger("log")

// InitLogger Receives the log level to be set in go-logging as a string. This method
// parses the string and set the level to the logger. If the level string is not
// valid an error is returned
func InitLogger(logLevel string) error {
	baseBackend := logging.NewLogBackend(os.Stdout, "", 0)
	format := logging.MustStringFormatter(
		`%{time:2006-01-02 15:04:05} %{level:.5s}     %{message}`,
	)
	backendFormatter := logging.NewBackendFormatter(baseBackend, format)

	backendLeveled := logging.AddModuleLevel(backendFormatter)
	logLevelCode, err := logging.LogLevel(logLevel)
	if err != nil {
		return err
	}
	backendLeveled.SetLevel(logLevelCode, "")

	// Set the backends to be used.
	logging.SetBackend(backendLeveled)
	return nil
}

func main() {
	config, err := common.InitConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %s", err)
	}

	if err := InitLogger(config.LogLevel); err != nil {
		log.Fatalf("%s", err)
	}

	log.Debugf("Config: %+v", config)

	if err := run(config); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(config *common.Config) error {
	runID := uuid.NewString()
	log.Infof("Starting optimized import run %s", runID)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	timeout, err := time.ParseDuration(config.ServerSelectionTimeout)
	if err != nil {
		return err
	}

	store, err := storage.Connect(ctx, config.MongoAddress, config.DatabaseName, timeout)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Errorf("Failed to disconnect from MongoDB: %v", err)
		}
	}()

	if config.DropExisting {
		if err := store.Drop(ctx); err != nil {
			return err
		}
	}

	driver := importer.NewDriver(config.DataPath, config.Periods, store)
	reports, err := driver.Run(ctx)
	if err != nil {
		return err
	}

	emitted := 0
	failed := 0
	for _, report := range reports {
		emitted += report.Emitted
		failed += len(report.Failures)
		for _, failure := range report.Failures {
			log.Warningf("Period %s row %d (transaction %q): %v",
				report.Period, failure.Row, failure.TxID, failure.Err)
		}
	}

	if err := store.EnsureIndexes(ctx); err != nil {
		return err
	}

	log.Infof("Import run %s finished: %d documents emitted, %d rows failed", runID, emitted, failed)
	return nil
}
