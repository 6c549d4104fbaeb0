package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/tomei-lab/tomei/internal/util"
	"github.com/tomei-lab/tomei/pkg/report"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Archive stores finished analysis reports in an S3-compatible bucket
// under reports/<id>.json. It is optional; a nil *Archive disables
// archiving.
type Archive struct {
	client *s3.Client
	bucket string
}

// NewArchive builds an Archive from the AWS_* environment variables.
// Returns nil when no endpoint is configured.
func NewArchive(ctx context.Context) *Archive {
	endpoint := util.GetEnv("AWS_ENDPOINT")
	if endpoint == "" {
		return nil
	}

	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion(util.GetEnv("AWS_REGION")),
		config.WithBaseEndpoint(endpoint),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			util.GetEnv("AWS_ACCESS_KEY"),
			util.GetEnv("AWS_SECRET_KEY"),
			"",
		)),
	)
	if err != nil {
		return nil
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	return &Archive{
		client: client,
		bucket: util.GetEnv("AWS_BUCKET"),
	}
}

func reportKey(id string) string {
	return fmt.Sprintf("reports/%s.json", id)
}

// PutReport uploads a report under its ID and returns the object key.
func (a *Archive) PutReport(ctx context.Context, r *report.Report) (string, error) {
	var buf bytes.Buffer
	if err := r.Encode(&buf); err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	key := reportKey(r.ID)
	_, err := util.RetryWithContext(ctx, 3, func(ctx context.Context) (*s3.PutObjectOutput, error) {
		return a.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(a.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(buf.Bytes()),
			ContentType: aws.String("application/json"),
		})
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report to S3: %w", err)
	}

	return key, nil
}

// GetReport downloads the raw JSON document for a report ID.
func (a *Archive) GetReport(ctx context.Context, id string) ([]byte, error) {
	result, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(reportKey(id)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get report from S3: %w", err)
	}
	defer result.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, result.Body); err != nil {
		return nil, fmt.Errorf("failed to read report contents: %w", err)
	}

	return buf.Bytes(), nil
}

// ListReports returns the IDs of all archived reports.
func (a *Archive) ListReports(ctx context.Context) ([]string, error) {
	var ids []string
	listInput := &s3.ListObjectsV2Input{
		Bucket: aws.String(a.bucket),
		Prefix: aws.String("reports/"),
	}

	for {
		listOutput, err := a.client.ListObjectsV2(ctx, listInput)
		if err != nil {
			return nil, fmt.Errorf("failed to list reports: %w", err)
		}

		for _, obj := range listOutput.Contents {
			if obj.Key == nil {
				continue
			}
			id := strings.TrimSuffix(strings.TrimPrefix(*obj.Key, "reports/"), ".json")
			if id != "" {
				ids = append(ids, id)
			}
		}

		if listOutput.IsTruncated != nil && *listOutput.IsTruncated {
			listInput.ContinuationToken = listOutput.NextContinuationToken
		} else {
			break
		}
	}

	return ids, nil
}

// DownloadLink presigns a GET for a report. The AWS_PUBLIC_ENDPOINT is
// used for signing so the signature matches the Host header clients
// will actually send.
func (a *Archive) DownloadLink(ctx context.Context, id string) (string, error) {
	publicEndpoint := util.GetEnv("AWS_PUBLIC_ENDPOINT")

	publicURL, err := url.Parse(publicEndpoint)
	if err != nil || publicURL.Scheme == "" || publicURL.Host == "" {
		return "", fmt.Errorf("invalid AWS_PUBLIC_ENDPOINT: %s", publicEndpoint)
	}
	prefix := strings.TrimSuffix(publicURL.Path, "/")

	presignBase := s3.NewFromConfig(
		aws.Config{
			Region:      a.client.Options().Region,
			Credentials: a.client.Options().Credentials,
			HTTPClient:  a.client.Options().HTTPClient,
		},
		func(o *s3.Options) {
			o.BaseEndpoint = aws.String(fmt.Sprintf("%s://%s", publicURL.Scheme, publicURL.Host))
			o.UsePathStyle = true
		},
	)

	presigner := s3.NewPresignClient(presignBase)
	out, err := presigner.PresignGetObject(
		ctx,
		&s3.GetObjectInput{
			Bucket: aws.String(a.bucket),
			Key:    aws.String(reportKey(id)),
		},
		s3.WithPresignExpires(15*time.Minute),
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate download link: %w", err)
	}

	if prefix != "" {
		signedURL, parseErr := url.Parse(out.URL)
		if parseErr != nil {
			return "", fmt.Errorf("failed to parse presigned url: %w", parseErr)
		}
		signedURL.Path = prefix + signedURL.Path
		return signedURL.String(), nil
	}

	return out.URL, nil
}
