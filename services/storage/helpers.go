package storage

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"

	"github.com/hearthside/mailroom/config"
	"github.com/hearthside/mailroom/interfaces"
	"github.com/hearthside/mailroom/services/storage/aws_client"
)

// NewS3StorageService creates a StorageService configured for AWS S3
func NewS3StorageService(awsRegion, accessKeyID, accessKeySecret, bucketName, cdnDomain string) interfaces.StorageService {
	s3Client := aws_client.NewS3Client(&aws.Config{
		Region:      aws.String(awsRegion),
		Credentials: credentials.NewStaticCredentials(accessKeyID, accessKeySecret, ""),
	})

	return NewStorageService(s3Client, StorageConfig{
		BucketName: bucketName,
		IsPublic:   true,
		CDNDomain:  cdnDomain,
		BaseURL:    "https://s3." + awsRegion + ".amazonaws.com",
	})
}

// NewR2StorageService creates a StorageService configured for Cloudflare R2
func NewR2StorageService(accountID, accessKeyID, accessKeySecret, bucketName, cdnDomain string) interfaces.StorageService {
	r2Client := aws_client.NewS3Client(&aws.Config{
		Endpoint:         aws.String("https://" + accountID + ".r2.cloudflarestorage.com"),
		Region:           aws.String("auto"),
		Credentials:      credentials.NewStaticCredentials(accessKeyID, accessKeySecret, ""),
		S3ForcePathStyle: aws.Bool(true),
	})

	return NewStorageService(r2Client, StorageConfig{
		BucketName: bucketName,
		IsPublic:   false,
		CDNDomain:  cdnDomain,
		BaseURL:    "https://" + accountID + ".r2.cloudflarestorage.com",
	})
}

// NewMediaStorageService picks R2 when an account id is configured,
// plain S3 otherwise.
func NewMediaStorageService(cfg *config.StorageConfig) interfaces.StorageService {
	if cfg.AccountID != "" {
		return NewR2StorageService(cfg.AccountID, cfg.AccessKeyID, cfg.AccessKeySecret, cfg.MediaBucket, cfg.CDNDomain)
	}
	return NewS3StorageService(cfg.AWSRegion, cfg.AccessKeyID, cfg.AccessKeySecret, cfg.MediaBucket, cfg.CDNDomain)
}
