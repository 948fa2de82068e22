// Package archive copies exported tabs to S3 when a bucket is configured.
package archive

import (
	"bytes"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

func Upload(bucket string, key string, body []byte) error {
	// region and credentials come from the environment
	sess, err := session.NewSession()
	if err != nil {
		return fmt.Errorf("could not create an S3 session because %v", err)
	}

	client := s3.New(sess)
	_, err = client.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("text/plain"),
	})
	if err != nil {
		return fmt.Errorf("could not archive %v because %v", key, err)
	}
	return nil
}
