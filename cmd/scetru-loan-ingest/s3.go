package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// s3Client wraps the pieces of the AWS S3 API the service uses. Credentials
// come from the default chain.
type s3Client struct {
	svc        *s3.S3
	downloader *s3manager.Downloader
	uploader   *s3manager.Uploader
}

// newS3Client creates the shared S3 client
func newS3Client() (*s3Client, error) {

	sess, err := session.NewSession()
	if err != nil {
		return nil, err
	}

	return &s3Client{
		svc:        s3.New(sess),
		downloader: s3manager.NewDownloader(sess),
		uploader:   s3manager.NewUploader(sess),
	}, nil
}

// listObjects returns every object in a bucket
func (c *s3Client) listObjects(bucket string) ([]InboundFile, error) {

	contents := make([]InboundFile, 0)
	err := c.svc.ListObjectsV2Pages(&s3.ListObjectsV2Input{Bucket: aws.String(bucket)},
		func(page *s3.ListObjectsV2Output, lastPage bool) bool {
			for _, obj := range page.Contents {
				contents = append(contents, InboundFile{
					Bucket: bucket,
					Key:    aws.StringValue(obj.Key),
					Size:   aws.Int64Value(obj.Size),
				})
			}
			return true
		})
	if err != nil {
		return nil, err
	}
	return contents, nil
}

// getObject streams an object body. The caller closes it.
func (c *s3Client) getObject(bucket string, key string) (io.ReadCloser, error) {

	result, err := c.svc.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	return result.Body, nil
}

// downloadToFile copies an object to a temp file in downloadDir and returns
// the local name
func (c *s3Client) downloadToFile(downloadDir string, bucket string, key string) (string, error) {

	file, err := os.CreateTemp(downloadDir, "")
	if err != nil {
		return "", err
	}
	defer file.Close()

	start := time.Now()
	sourcename := fmt.Sprintf("s3://%s/%s", bucket, key)
	log.Printf("INFO: downloading %s to %s", sourcename, file.Name())

	size, err := c.downloader.Download(file,
		&s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
	if err != nil {
		os.Remove(file.Name())
		return "", err
	}

	duration := time.Since(start)
	log.Printf("INFO: download of %s complete (%d bytes) in %0.2f seconds", sourcename, size, duration.Seconds())
	return file.Name(), nil
}

// uploadFile sends a local file to the bucket under the given key
func (c *s3Client) uploadFile(bucket string, key string, filename string) error {

	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = c.uploader.Upload(&s3manager.UploadInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   file,
	})
	return err
}

// deleteObjects batch deletes keys from a bucket
func (c *s3Client) deleteObjects(bucket string, keys []string) error {

	if len(keys) == 0 {
		return nil
	}

	objects := make([]*s3.ObjectIdentifier, 0, len(keys))
	for _, key := range keys {
		objects = append(objects, &s3.ObjectIdentifier{Key: aws.String(key)})
	}

	_, err := c.svc.DeleteObjects(&s3.DeleteObjectsInput{
		Bucket: aws.String(bucket),
		Delete: &s3.Delete{Objects: objects},
	})
	if err != nil {
		return err
	}

	log.Printf("INFO: deleted %d object(s) from %s", len(keys), bucket)
	return nil
}

//
// end of file
//
