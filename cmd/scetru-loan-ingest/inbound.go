package main

import (
	"encoding/json"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/uvalib/virgo4-sqs-sdk/awssqs"
)

// getInboundNotification blocks until an S3 event notification names at least
// one interesting file. Messages that name none are deleted immediately; the
// returned receipt is the caller's to delete once the batch is accepted.
func getInboundNotification(cfg ServiceConfig, aws awssqs.AWS_SQS, inQueueHandle awssqs.QueueHandle) ([]InboundFile, awssqs.ReceiptHandle, error) {

	var noReceipt awssqs.ReceiptHandle

	for {
		messages, err := aws.BatchMessageGet(inQueueHandle, 1, time.Duration(cfg.PollTimeOut)*time.Second)
		if err != nil {
			return nil, noReceipt, err
		}

		if len(messages) != 1 {
			continue
		}

		log.Printf("INFO: received new notification")

		files, err := decodeS3Event(messages[0])
		if err != nil || len(files) == 0 {
			if err != nil {
				log.Printf("WARNING: cannot decode notification, deleting it (%s)", err.Error())
			} else {
				log.Printf("INFO: not an interesting notification, ignoring it")
			}
			e := deleteMessage(aws, inQueueHandle, messages[0])
			if e != nil {
				return nil, noReceipt, e
			}
			continue
		}

		return files, messages[0].ReceiptHandle, nil
	}
}

// decodeS3Event turns a queue message into the list of interesting new objects
func decodeS3Event(message awssqs.Message) ([]InboundFile, error) {

	events := Events{}
	err := json.Unmarshal([]byte(message.Payload), &events)
	if err != nil {
		log.Printf("ERROR: json unmarshal: %s", err)
		return nil, err
	}

	files := make([]InboundFile, 0, len(events.Records))
	for _, record := range events.Records {

		// only object creation events are of interest
		if record.EventName != "" && strings.HasPrefix(record.EventName, "ObjectCreated") == false {
			log.Printf("INFO: ignoring %s event", record.EventName)
			continue
		}

		// object keys arrive url encoded
		key, err := url.QueryUnescape(record.S3.Object.Key)
		if err != nil {
			log.Printf("WARNING: cannot unescape key (%s), using it as received", record.S3.Object.Key)
			key = record.S3.Object.Key
		}

		if interestingKey(key) == false {
			log.Printf("INFO: ignoring uninteresting key (%s)", key)
			continue
		}

		files = append(files, InboundFile{
			Bucket: record.S3.Bucket.Name,
			Key:    key,
			Size:   record.S3.Object.Size,
		})
	}

	return files, nil
}

// interestingKey reports whether an object key names an application csv
func interestingKey(key string) bool {
	return strings.HasSuffix(strings.ToLower(key), ".csv")
}

// deleteMessage removes one message from the queue
func deleteMessage(aws awssqs.AWS_SQS, queue awssqs.QueueHandle, message awssqs.Message) error {

	opStatus, err := aws.BatchMessageDelete(queue, []awssqs.Message{message})
	if err != nil {
		if err != awssqs.ErrOneOrMoreOperationsUnsuccessful {
			return err
		}
	}

	// check the operation results
	for ix, op := range opStatus {
		if op == false {
			log.Printf("ERROR: message %d failed to delete", ix)
		}
	}
	return nil
}

// bucketMonitor detects new arrivals by listing the application bucket and
// diffing against the previous listing
type bucketMonitor struct {
	s3client *s3Client
	bucket   string
	seen     map[string]bool
}

func newBucketMonitor(s3client *s3Client, bucket string) *bucketMonitor {
	return &bucketMonitor{s3client: s3client, bucket: bucket, seen: make(map[string]bool)}
}

// nextArrivals blocks until at least one new interesting object appears
func (m *bucketMonitor) nextArrivals(interval time.Duration) ([]InboundFile, error) {

	for {
		arrivals, err := m.newArrivals()
		if err != nil {
			return nil, err
		}
		if len(arrivals) != 0 {
			return arrivals, nil
		}
		time.Sleep(interval)
	}
}

// newArrivals lists the bucket once and returns the interesting keys that were
// not in the previous listing. The listing is remembered whether or not the
// batch goes on to process cleanly.
func (m *bucketMonitor) newArrivals() ([]InboundFile, error) {

	contents, err := m.s3client.listObjects(m.bucket)
	if err != nil {
		return nil, err
	}

	current := make(map[string]bool, len(contents))
	arrivals := make([]InboundFile, 0)
	for _, obj := range contents {
		current[obj.Key] = true
		if m.seen[obj.Key] == true {
			continue
		}
		if interestingKey(obj.Key) == false {
			continue
		}
		log.Printf("INFO: new file detected in s3://%s/%s", m.bucket, obj.Key)
		arrivals = append(arrivals, obj)
	}
	m.seen = current

	return arrivals, nil
}

//
// end of file
//
