package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/uvalib/virgo4-sqs-sdk/awssqs"
)

// NameTuple couples a remote object with its local download
type NameTuple struct {
	LocalName  string
	RemoteName string
	Source     InboundFile
}

//
// main entry point
//
func main() {

	log.Printf("===> %s service staring up (version: %s) <===", os.Args[0], Version())

	// Get config params and use them to init service context. Any issues are fatal
	cfg := LoadConfiguration()

	// load our AWS sqs helper object
	aws, err := awssqs.NewAwsSqs(awssqs.AwsSqsConfig{MessageBucketName: cfg.MessageBucketName})
	fatalIfError(err)

	// load our AWS s3 helper object
	s3Svc, err := newS3Client()
	fatalIfError(err)

	// get the queue handles from the queue names
	sqsMode := cfg.InQueueName != ""
	var inQueueHandle awssqs.QueueHandle
	if sqsMode == true {
		inQueueHandle, err = aws.QueueHandle(cfg.InQueueName)
		fatalIfError(err)
	} else {
		log.Printf("INFO: no inbound queue configured, polling s3://%s every %d seconds", cfg.ApplicationBucketName, cfg.PollTimeOut)
	}

	outQueueHandle, err := aws.QueueHandle(cfg.OutQueueName)
	fatalIfError(err)

	var auditQueueHandle awssqs.QueueHandle
	if cfg.AuditQueueName != "" {
		auditQueueHandle, err = aws.QueueHandle(cfg.AuditQueueName)
		fatalIfError(err)
	}

	// create the outcome channel
	outcomesChan := make(chan *LoanOutcome, cfg.WorkerQueueSize)

	// start workers here
	for w := 1; w <= cfg.Workers; w++ {
		go worker(w, *cfg, aws, outQueueHandle, auditQueueHandle, outcomesChan)
	}

	monitor := newBucketMonitor(s3Svc, cfg.ApplicationBucketName)

	for {
		// top of our processing loop
		err = nil

		// notification that there are one or more new application files to be processed
		var inbound []InboundFile
		var receiptHandle awssqs.ReceiptHandle
		if sqsMode == true {
			inbound, receiptHandle, err = getInboundNotification(*cfg, aws, inQueueHandle)
		} else {
			inbound, err = monitor.nextArrivals(time.Duration(cfg.PollTimeOut) * time.Second)
		}
		fatalIfError(err)

		// download each file and validate it
		fileSets := make([]NameTuple, 0)
		for _, f := range inbound {

			// save the remote name, we will need it later
			file := NameTuple{
				Source:     f,
				RemoteName: fmt.Sprintf("%s/%s", f.Bucket, f.Key),
			}

			if f.Size == 0 {
				log.Printf("INFO: %s is ZERO length, ignoring it", file.RemoteName)
				continue
			}

			// download the file
			localName, e := s3Svc.downloadToFile(cfg.DownloadDir, f.Bucket, f.Key)
			fatalIfError(e)
			file.LocalName = localName

			// update our list of files to be processed
			fileSets = append(fileSets, file)

			log.Printf("INFO: validating %s (%s)", file.RemoteName, file.LocalName)

			// create a new loader
			loader, e := NewApplicationLoader(f.Key, file.LocalName)
			if e != nil {
				log.Printf("ERROR: %s (%s) cannot be read, ignoring it (%s)", file.RemoteName, file.LocalName, e.Error())
				err = e
				break
			}

			// validate the file
			e = loader.Validate()
			loader.Done()
			if e == nil {
				log.Printf("INFO: %s (%s) appears to be OK, ready for ingest", file.RemoteName, file.LocalName)
			} else {
				log.Printf("ERROR: %s (%s) appears to be invalid, ignoring it (%s)", file.RemoteName, file.LocalName, e.Error())
				err = e
				break
			}
		}

		// one of the files was invalid, we need to ignore the entire batch and delete the local files
		if err != nil {
			for _, f := range fileSets {
				log.Printf("INFO: removing invalid batch file %s", f.LocalName)
				e := os.Remove(f.LocalName)
				fatalIfError(e)
			}

			// go back to waiting for the next notification
			continue
		}

		// nothing usable in the notification
		if len(fileSets) == 0 {
			if sqsMode == true {
				err = deleteMessage(aws, inQueueHandle, awssqs.Message{ReceiptHandle: receiptHandle})
				fatalIfError(err)
			}
			continue
		}

		// if we got here without an error then all the files can be processed... we can delete the inbound message
		// because it has been accepted
		if sqsMode == true {
			err = deleteMessage(aws, inQueueHandle, awssqs.Message{ReceiptHandle: receiptHandle})
			fatalIfError(err)
		}

		// a batch identifier groups the staged output
		batchID := uuid.New().String()
		start := time.Now()
		log.Printf("INFO: processing batch %s (%d file(s))", batchID, len(fileSets))

		// read every application record in the batch
		applications := make([]*Application, 0)
		for _, file := range fileSets {

			loader, err := NewApplicationLoader(file.Source.Key, file.LocalName)
			// fatal fail here because we have already validated the file and believe it to be correct so this
			// is some other sort of failure
			fatalIfError(err)

			count := 0
			rec, err := loader.First()
			if err != nil {
				// are we done
				if err == io.EOF {
					log.Printf("WARNING: %s contains no application records", file.RemoteName)
				} else {
					// fatal fail here because we have already validated the file and believe it to be correct so this
					// is some other sort of failure
					log.Fatal(err)
				}
			}

			// we can get here with an error if the first read yields EOF
			if err == nil {
				for {
					count++
					applications = append(applications, rec)

					rec, err = loader.Next()
					if err != nil {
						if err == io.EOF {
							// this is expected, break out of the processing loop
							break
						}
						// fatal fail here because we have already validated the file and believe it to be correct so this
						// is some other sort of failure
						log.Fatal(err)
					}
				}
			}

			loader.Done()
			log.Printf("INFO: read %d application(s) from %s", count, file.RemoteName)
		}

		// collate the do good table and score the batch
		dogood, err := loadDoGoodTable(s3Svc, cfg.DoGoodBucketName)
		fatalIfError(err)

		now := time.Now()
		outcomes := make([]*LoanOutcome, 0, len(applications))
		for _, app := range applications {
			outcomes = append(outcomes, scoreApplication(app, dogood, now))
		}
		log.Printf("INFO: scored %d application(s)", len(outcomes))

		// fold the outcomes into the pending rows of the complete table
		pending, err := loadPendingRows(s3Svc, cfg.CompleteBucketName)
		fatalIfError(err)

		updated := updateCompleteRows(pending, outcomes, now)
		if len(updated) == 0 {
			log.Printf("INFO: no pending complete table records for this batch, continuing to watch for new files")
		} else {

			// stage the updated rows and upload them back to the complete table bucket
			stageDir := filepath.Join(cfg.StageDir, batchID)
			err = stageCompletedRows(stageDir, updated)
			fatalIfError(err)

			uploaded, err := uploadStagedFiles(s3Svc, cfg.CompleteBucketName, stageDir, updated)
			fatalIfError(err)
			log.Printf("INFO: uploaded %d updated ledger file(s) for batch %s", uploaded, batchID)
		}

		// hand the outcomes to the workers for publishing
		for _, outcome := range outcomes {
			outcomesChan <- outcome
		}

		// the local copies have been ingested, remove them
		for _, file := range fileSets {
			log.Printf("INFO: removing processed file %s", file.LocalName)
			err = os.Remove(file.LocalName)
			fatalIfError(err)
		}

		// when configured, the processed application objects leave the bucket too
		if cfg.DeleteProcessed == true {
			byBucket := make(map[string][]string)
			for _, file := range fileSets {
				byBucket[file.Source.Bucket] = append(byBucket[file.Source.Bucket], file.Source.Key)
			}
			for bucket, keys := range byBucket {
				err = s3Svc.deleteObjects(bucket, keys)
				fatalIfError(err)
			}
		}

		duration := time.Since(start)
		log.Printf("INFO: batch %s complete. %d application(s) in %0.2f seconds", batchID, len(applications), duration.Seconds())
	}
}

//
// fatalIfError - our fatal error handler
//
func fatalIfError(err error) {
	if err != nil {
		log.Fatalf("FATAL ERROR: %s", err.Error())
	}
}

//
// end of file
//
