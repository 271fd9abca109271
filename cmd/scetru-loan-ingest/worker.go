package main

import (
	"encoding/json"
	"log"
	"time"

	"github.com/uvalib/virgo4-sqs-sdk/awssqs"
)

// time to wait before flushing pending outcomes
var flushTimeout = 5 * time.Second

func worker(id int, config ServiceConfig, aws awssqs.AWS_SQS, outQueue awssqs.QueueHandle, auditQueue awssqs.QueueHandle, outcomes <-chan *LoanOutcome) {

	count := uint(1)
	block := make([]*LoanOutcome, 0, awssqs.MAX_SQS_BLOCK_COUNT)
	var outcome *LoanOutcome
	for {

		timeout := false

		// process an outcome or wait...
		select {
		case outcome = <-outcomes:
			break
		case <-time.After(flushTimeout):
			timeout = true
			break
		}

		// did we timeout, if not we have an outcome to process
		if timeout == false {

			block = append(block, outcome)

			// have we reached a block size limit
			if count%awssqs.MAX_SQS_BLOCK_COUNT == 0 {

				// send the block
				err := sendOutboundMessages(config, aws, outQueue, auditQueue, block)
				fatalIfError(err)

				// reset the block
				block = block[:0]
			}
			count++

			if count%1000 == 0 {
				log.Printf("INFO: worker %d processed %d outcomes", id, count)
			}
		} else {

			// we timed out waiting for new outcomes, flush what we have (if anything)
			if len(block) != 0 {

				// send the block
				err := sendOutboundMessages(config, aws, outQueue, auditQueue, block)
				fatalIfError(err)

				// reset the block
				block = block[:0]

				log.Printf("INFO: worker %d processed %d outcomes (flushing)", id, count)
			}

			// reset the count
			count = 1
		}
	}

	// should never get here
}

func sendOutboundMessages(config ServiceConfig, aws awssqs.AWS_SQS, outQueue awssqs.QueueHandle, auditQueue awssqs.QueueHandle, outcomes []*LoanOutcome) error {

	count := len(outcomes)
	if count == 0 {
		return nil
	}
	batch := make([]awssqs.Message, 0, count)
	for _, o := range outcomes {
		message, err := constructMessage(o, config.DataSourceName)
		if err != nil {
			log.Printf("ERROR: cannot encode outcome for application %s, dropping it (%s)", o.ApplicationID, err.Error())
			continue
		}
		batch = append(batch, message)
	}
	if len(batch) == 0 {
		return nil
	}

	opStatus, err := aws.BatchMessagePut(outQueue, batch)
	if err != nil {
		if err != awssqs.ErrOneOrMoreOperationsUnsuccessful {
			return err
		}
	}

	// if one or more message failed...
	if err == awssqs.ErrOneOrMoreOperationsUnsuccessful {

		// check the operation results
		for ix, op := range opStatus {
			if op == false {
				log.Printf("WARNING: message %d failed to send to the outbound queue", ix)
			}
		}
	}

	// the audit queue is optional
	if config.AuditQueueName == "" {
		return nil
	}

	opStatus, err = aws.BatchMessagePut(auditQueue, batch)
	if err != nil {
		if err != awssqs.ErrOneOrMoreOperationsUnsuccessful {
			return err
		}
	}

	// if one or more message failed...
	if err == awssqs.ErrOneOrMoreOperationsUnsuccessful {

		// check the operation results
		for ix, op := range opStatus {
			if op == false {
				log.Printf("WARNING: message %d failed to send to the audit queue", ix)
			}
		}
	}

	return nil
}

func constructMessage(outcome *LoanOutcome, source string) (awssqs.Message, error) {

	payload, err := json.Marshal(outcome)
	if err != nil {
		return awssqs.Message{}, err
	}
	attributes := make([]awssqs.Attribute, 0, 3)
	attributes = append(attributes, awssqs.Attribute{Name: "id", Value: outcome.ApplicationID})
	attributes = append(attributes, awssqs.Attribute{Name: "type", Value: "application/json"})
	attributes = append(attributes, awssqs.Attribute{Name: "source", Value: source})
	return awssqs.Message{Attribs: attributes, Payload: payload}, nil
}

//
// end of file
//
