// Package aws_s3 provides an fs.FileIO backend over an AWS S3 (or
// S3-compatible, e.g. minio) bucket, so the store can persist entries as
// bucket objects instead of local files.
package aws_s3

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type Config struct {
	// "http://127.0.0.1:9000"
	HostEndpointUrl string
	// "us-east-1"
	Region   string
	Username string
	Password string
}

// Connect to a custom S3-compatible endpoint, e.g. a minio server.
func Connect(config Config) *s3.Client {
	client := s3.NewFromConfig(aws.Config{Region: config.Region}, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(config.HostEndpointUrl)
		o.Credentials = credentials.NewStaticCredentialsProvider(config.Username, config.Password, "")
	})
	return client
}

// ConnectWithDefaultConfig builds a client from the ambient AWS SDK
// configuration (env, shared config, instance role).
func ConnectWithDefaultConfig(ctx context.Context) (*s3.Client, error) {
	sdkConfig, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(sdkConfig), nil
}
