package main

// this describes the structure of the event received when a new object lands in a bucket

type Events struct {
	Records []S3EventRecord `json:"Records"`
}

type S3EventRecord struct {
	EventName string   `json:"eventName"`
	S3        S3Record `json:"s3"`
}

type S3Record struct {
	Bucket BucketRecord `json:"bucket"`
	Object ObjectRecord `json:"object"`
}

type BucketRecord struct {
	Name string `json:"name"`
}

type ObjectRecord struct {
	Key  string `json:"key"`
	Size int64  `json:"size"`
}

// InboundFile identifies one new bucket object to be ingested, however it was noticed
type InboundFile struct {
	Bucket string
	Key    string
	Size   int64
}

//
// end of file
//
