package main

import (
	"log"
	"os"
	"strconv"
)

// ServiceConfig defines all of the service configuration parameters
type ServiceConfig struct {
	InQueueName           string // SQS queue name for inbound bucket notifications (blank means poll the bucket)
	OutQueueName          string // SQS queue name for outbound outcome messages
	AuditQueueName        string // SQS queue name for outcome audit copies (optional)
	MessageBucketName     string // the bucket to use for oversize messages
	ApplicationBucketName string // the bucket new application files arrive in
	DoGoodBucketName      string // the bucket holding the do good table
	CompleteBucketName    string // the bucket holding the complete table
	DownloadDir           string // the local directory for inbound file downloads
	StageDir              string // the local staging directory for updated ledger rows
	DataSourceName        string // the source attribute stamped on outbound messages

	PollTimeOut     int64 // queue wait time / bucket poll interval (in seconds)
	WorkerQueueSize int   // the outcome queue size feeding the workers
	Workers         int   // the number of worker processes
	DeleteProcessed bool  // remove application objects from the bucket after a successful batch
}

func envWithDefault(env string, defaultValue string) string {
	val, set := os.LookupEnv(env)

	if set == false {
		log.Printf("environment variable not set: [%s] using default value [%s]", env, defaultValue)
		return defaultValue
	}

	return val
}

func ensureSet(env string) string {
	val, set := os.LookupEnv(env)

	if set == false {
		log.Printf("environment variable not set: [%s]", env)
		os.Exit(1)
	}

	return val
}

func ensureSetAndNonEmpty(env string) string {
	val := ensureSet(env)

	if val == "" {
		log.Printf("environment variable is empty: [%s]", env)
		os.Exit(1)
	}

	return val
}

func intWithDefault(env string, defaultValue int) int {

	number := envWithDefault(env, strconv.Itoa(defaultValue))
	n, err := strconv.Atoi(number)
	fatalIfError(err)
	return n
}

func boolWithDefault(env string, defaultValue bool) bool {

	value := envWithDefault(env, strconv.FormatBool(defaultValue))
	b, err := strconv.ParseBool(value)
	fatalIfError(err)
	return b
}

// LoadConfiguration will load the service configuration from the environment
// and return a pointer to it. Any failures are fatal.
func LoadConfiguration() *ServiceConfig {

	var cfg ServiceConfig

	cfg.InQueueName = envWithDefault("SCETRU_LOAN_INGEST_IN_QUEUE", "")
	cfg.OutQueueName = ensureSetAndNonEmpty("SCETRU_LOAN_INGEST_OUT_QUEUE")
	cfg.AuditQueueName = envWithDefault("SCETRU_LOAN_INGEST_AUDIT_QUEUE", "")
	cfg.MessageBucketName = ensureSetAndNonEmpty("SCETRU_LOAN_INGEST_MESSAGE_BUCKET")
	cfg.ApplicationBucketName = ensureSetAndNonEmpty("SCETRU_LOAN_INGEST_APPLICATION_BUCKET")
	cfg.DoGoodBucketName = ensureSetAndNonEmpty("SCETRU_LOAN_INGEST_DO_GOOD_BUCKET")
	cfg.CompleteBucketName = ensureSetAndNonEmpty("SCETRU_LOAN_INGEST_COMPLETE_BUCKET")
	cfg.DownloadDir = envWithDefault("SCETRU_LOAN_INGEST_DOWNLOAD_DIR", os.TempDir())
	cfg.StageDir = envWithDefault("SCETRU_LOAN_INGEST_STAGE_DIR", "processed_loan_request")
	cfg.DataSourceName = envWithDefault("SCETRU_LOAN_INGEST_DATA_SOURCE", "scetru-ml")
	cfg.PollTimeOut = int64(intWithDefault("SCETRU_LOAN_INGEST_POLL_TIMEOUT", 15))
	cfg.WorkerQueueSize = intWithDefault("SCETRU_LOAN_INGEST_WORK_QUEUE_SIZE", 100)
	cfg.Workers = intWithDefault("SCETRU_LOAN_INGEST_WORKERS", 1)
	cfg.DeleteProcessed = boolWithDefault("SCETRU_LOAN_INGEST_DELETE_PROCESSED", false)

	log.Printf("[CONFIG] InQueueName           = [%s]", cfg.InQueueName)
	log.Printf("[CONFIG] OutQueueName          = [%s]", cfg.OutQueueName)
	log.Printf("[CONFIG] AuditQueueName        = [%s]", cfg.AuditQueueName)
	log.Printf("[CONFIG] MessageBucketName     = [%s]", cfg.MessageBucketName)
	log.Printf("[CONFIG] ApplicationBucketName = [%s]", cfg.ApplicationBucketName)
	log.Printf("[CONFIG] DoGoodBucketName      = [%s]", cfg.DoGoodBucketName)
	log.Printf("[CONFIG] CompleteBucketName    = [%s]", cfg.CompleteBucketName)
	log.Printf("[CONFIG] DownloadDir           = [%s]", cfg.DownloadDir)
	log.Printf("[CONFIG] StageDir              = [%s]", cfg.StageDir)
	log.Printf("[CONFIG] DataSourceName        = [%s]", cfg.DataSourceName)
	log.Printf("[CONFIG] PollTimeOut           = [%d]", cfg.PollTimeOut)
	log.Printf("[CONFIG] WorkerQueueSize       = [%d]", cfg.WorkerQueueSize)
	log.Printf("[CONFIG] Workers               = [%d]", cfg.Workers)
	log.Printf("[CONFIG] DeleteProcessed       = [%t]", cfg.DeleteProcessed)

	return &cfg
}

//
// end of file
//
