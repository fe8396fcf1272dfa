package main

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/workspace-migration/exportclient/internal/config"
	"github.com/workspace-migration/exportclient/internal/dbclient"
	exportErr "github.com/workspace-migration/exportclient/internal/error"
	"github.com/workspace-migration/exportclient/internal/metrics"
	"github.com/workspace-migration/exportclient/internal/printer"
)

const (
	loadConfigStep         = "load_config"
	createClientStep       = "create_client"
	testConnectionStep     = "test_connection"
	whoamiStep             = "whoami"
	latestSparkVersionStep = "latest_spark_version"
	updateAccountIDStep    = "update_account_id"
)

func main() {
	// create logs
	logs := logrus.New()
	logs.SetFormatter(&logrus.JSONFormatter{})

	// create and fill config
	cfg, err := config.Load("APP")
	fatalOnError(err, loadConfigStep, logs)
	if cfg.Client.Verbose {
		logs.SetLevel(logrus.DebugLevel)
	}

	// create client
	client, err := dbclient.NewClient(cfg.Client, printer.NewStdoutPrinter(), logs.WithField("service", "dbclient"))
	fatalOnError(err, createClientStep, logs)

	registry := prometheus.NewRegistry()
	requests := metrics.NewRequestsCounter()
	requests.MustRegister(registry)
	client.SetRequestObserver(requests)

	step, err := run(client, cfg.Migration, logs)
	logMetrics(registry, logs)
	fatalOnError(err, step, logs)
}

type workspaceClient interface {
	TestConnection() error
	Whoami() (string, error)
	LatestSparkVersion() (map[string]interface{}, bool, error)
	IsAWS() bool
	UpdateAccountID(newAccountID, oldAccountID string) error
}

// run returns the name of the step that failed together with its error.
func run(client workspaceClient, migration config.Migration, logs logrus.FieldLogger) (string, error) {
	if err := client.TestConnection(); err != nil {
		return testConnectionStep, err
	}

	me, err := client.Whoami()
	if err != nil {
		return whoamiStep, err
	}
	logs.Infof("connected as %s", me)

	version, found, err := client.LatestSparkVersion()
	if err != nil {
		return latestSparkVersionStep, err
	}
	if found {
		logs.Infof("latest spark version: %v", version["key"])
	} else {
		logs.Warn("no scala spark version available")
	}

	if !migration.Enabled() {
		return "", nil
	}
	if !client.IsAWS() {
		logs.Warn("account id rewrite requested for a non AWS workspace, skipping")
		return "", nil
	}
	logs.Infof("updating account id %s to %s", migration.OldAccountID, migration.NewAccountID)
	if err := client.UpdateAccountID(migration.NewAccountID, migration.OldAccountID); err != nil {
		return updateAccountIDStep, err
	}
	return "", nil
}

func logMetrics(gatherer prometheus.Gatherer, logs logrus.FieldLogger) {
	families, err := gatherer.Gather()
	if err != nil {
		logs.Warnf("while gathering metrics: %s", err)
		return
	}
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			fields := logrus.Fields{"metric": family.GetName(), "value": metric.GetCounter().GetValue()}
			for _, label := range metric.GetLabel() {
				fields[label.GetName()] = label.GetValue()
			}
			logs.WithFields(fields).Info("requests summary")
		}
	}
}

func logFailure(err error, step string, log logrus.FieldLogger) {
	lastErr := exportErr.ReasonForError(err, step)
	log.WithFields(logrus.Fields{
		"reason":    lastErr.GetReason(),
		"component": lastErr.GetComponent(),
		"operation": lastErr.GetOperation(),
	}).Error(lastErr.Error())
}

func fatalOnError(err error, step string, log logrus.FieldLogger) {
	if err != nil {
		logFailure(err, step, log)
		os.Exit(1)
	}
}
