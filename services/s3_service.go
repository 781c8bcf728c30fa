package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// AvatarPrefix is the key prefix every profile picture lives under.
const AvatarPrefix = "profile-pics/"

// DefaultPresignExpiry is how long a presigned avatar URL stays valid.
const DefaultPresignExpiry = 5 * time.Minute

// Presigner is the subset of *s3.PresignClient used for avatars.
type Presigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

var _ Presigner = (*s3.PresignClient)(nil)

// NewS3Presigner builds a presign client from the default AWS config.
func NewS3Presigner(ctx context.Context, region, endpoint string) (*s3.PresignClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return s3.NewPresignClient(client), nil
}

// AvatarService hands out presigned URLs so clients upload and read profile
// pictures directly against the bucket.
type AvatarService struct {
	Presigner Presigner
	Bucket    string
	Expiry    time.Duration
}

func NewAvatarService(p Presigner, bucket string, expiry time.Duration) *AvatarService {
	if expiry <= 0 {
		expiry = DefaultPresignExpiry
	}
	return &AvatarService{Presigner: p, Bucket: bucket, Expiry: expiry}
}

// UploadURL presigns a PUT for a new object under the user's prefix and
// returns the URL together with the object key to store on the profile.
func (as *AvatarService) UploadURL(ctx context.Context, userID, fileName, contentType string) (string, string, error) {
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return "", "", invalid("content type %q is not an image", contentType)
	}
	if strings.TrimSpace(fileName) == "" {
		return "", "", invalid("file name is required")
	}
	ext := strings.ToLower(path.Ext(path.Base(fileName)))
	key := AvatarPrefix + userID + "/" + uuid.NewString() + ext

	req, err := as.Presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(as.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(as.Expiry))
	if err != nil {
		return "", "", fmt.Errorf("presign upload: %w", err)
	}
	return req.URL, key, nil
}

// ReadURL presigns a GET for an avatar key.
func (as *AvatarService) ReadURL(ctx context.Context, key string) (string, error) {
	if !strings.HasPrefix(key, AvatarPrefix) || strings.Contains(key, "..") {
		return "", invalid("key %q is not an avatar", key)
	}
	req, err := as.Presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(as.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(as.Expiry))
	if err != nil {
		return "", fmt.Errorf("presign read: %w", err)
	}
	return req.URL, nil
}
