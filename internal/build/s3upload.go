package build

import (
	"context"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/weaver-dev/weaver/internal/config"
	"github.com/weaver-dev/weaver/internal/werrors"
)

// envCredentials reads AWS credentials from the process environment,
// same variables the AWS CLI and SDKs honor. It exists so this package
// can build an aws.Config without depending on the separate
// aws-sdk-go-v2/config and aws-sdk-go-v2/credentials modules — only
// the core SDK and service/s3 are in go.mod (DESIGN.md).
type envCredentials struct{}

func (envCredentials) Retrieve(ctx context.Context) (aws.Credentials, error) {
	id := os.Getenv("AWS_ACCESS_KEY_ID")
	secret := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.Credentials{}, nil
	}
	return aws.Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "EnvironmentVariables",
	}, nil
}

func newS3Client(s3cfg config.S3Config) *s3.Client {
	awsCfg := aws.Config{
		Region:      s3cfg.Region,
		Credentials: envCredentials{},
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if s3cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(s3cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
}

// uploadSet is a batch of local files to publish: object key (relative
// to s3cfg.Prefix) -> local filesystem path.
type uploadSet map[string]string

// uploadToS3 uploads every file in files to the configured bucket and
// returns key -> public URL, built from s3cfg.PublicBaseURL (a CDN
// domain fronting the bucket) for the logic manifest's id -> public-url
// entries. Uploads run sequentially; the build is not on a hot path
// where concurrency would matter, and sequential uploads keep
// partial-failure reporting simple.
func uploadToS3(ctx context.Context, s3cfg config.S3Config, files uploadSet) (map[string]string, error) {
	client := newS3Client(s3cfg)
	urls := make(map[string]string, len(files))

	for key, localPath := range files {
		fullKey := key
		if s3cfg.Prefix != "" {
			fullKey = strings.TrimSuffix(s3cfg.Prefix, "/") + "/" + key
		}

		data, err := os.ReadFile(localPath)
		if err != nil {
			return nil, werrors.New("W008").WithDetail("reading " + localPath).Wrap(err)
		}

		contentType := mime.TypeByExtension(filepath.Ext(localPath))
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		_, err = client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s3cfg.Bucket),
			Key:         aws.String(fullKey),
			Body:        strings.NewReader(string(data)),
			ContentType: aws.String(contentType),
		})
		if err != nil {
			return nil, werrors.New("W008").WithDetail("uploading " + fullKey + " to s3://" + s3cfg.Bucket).Wrap(err)
		}

		urls[key] = publicURL(s3cfg, fullKey)
	}

	return urls, nil
}

func publicURL(s3cfg config.S3Config, key string) string {
	base := s3cfg.PublicBaseURL
	if base == "" {
		base = "https://" + s3cfg.Bucket + ".s3.amazonaws.com"
	}
	return strings.TrimSuffix(base, "/") + "/" + path.Clean("/"+key)[1:]
}
