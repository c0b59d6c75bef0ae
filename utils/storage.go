package utils

import (
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/kvbsystems/kvbbackend/models"
)

// R2Client wraps the S3 client + bucket for the attachment store. Task and
// enquiry attachments land here; product images and quotation PDFs live in
// GCS (gcs.go).
type R2Client struct {
	S3     *s3.Client
	Bucket string
}

func NewR2Client(ctx context.Context) (*R2Client, error) {
	bucket := os.Getenv("R2_BUCKET")
	accessKey := os.Getenv("R2_ACCESS_KEY_ID")
	secretKey := os.Getenv("R2_SECRET_ACCESS_KEY")
	endpoint := os.Getenv("R2_ENDPOINT") // https://<account-id>.r2.cloudflarestorage.com

	if bucket == "" || accessKey == "" || secretKey == "" || endpoint == "" {
		return nil, fmt.Errorf("missing R2 env vars (R2_BUCKET, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY, R2_ENDPOINT)")
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("r2 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true // required for R2
	})

	return &R2Client{S3: client, Bucket: bucket}, nil
}

// publicURL builds the externally reachable URL for an object. Uses the
// custom domain from R2_PUBLIC_DOMAIN when set, the bucket endpoint
// otherwise.
func publicURL(objectName string) string {
	if domain := strings.TrimRight(os.Getenv("R2_PUBLIC_DOMAIN"), "/"); domain != "" {
		return domain + "/" + objectName
	}
	return strings.TrimRight(os.Getenv("R2_ENDPOINT"), "/") + "/" + os.Getenv("R2_BUCKET") + "/" + objectName
}

func (r2 *R2Client) put(ctx context.Context, objectName, contentType string, fh *multipart.FileHeader) error {
	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	_, err = r2.S3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r2.Bucket),
		Key:         aws.String(objectName),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", fh.Filename, err)
	}
	return nil
}

func contentTypeFor(fh *multipart.FileHeader, ext string) string {
	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = mime.TypeByExtension(ext)
	}
	if ct == "" {
		ct = "application/octet-stream"
	}
	return ct
}

// UploadTaskAttachment stores one worker-uploaded file for a task.
func (r2 *R2Client) UploadTaskAttachment(ctx context.Context, taskID string, fh *multipart.FileHeader) (*models.TaskAttachment, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext == "" {
		ext = ".bin"
	}
	objectName := fmt.Sprintf("tasks/%s/%d-%s%s", taskID, time.Now().UTC().Unix(), uuid.New().String(), ext)

	ct := contentTypeFor(fh, ext)
	if err := r2.put(ctx, objectName, ct, fh); err != nil {
		return nil, err
	}

	return &models.TaskAttachment{
		FileName:  fh.Filename,
		URL:       publicURL(objectName),
		PublicID:  objectName,
		MimeType:  ct,
		SizeBytes: fh.Size,
		AddedAt:   time.Now().UTC(),
	}, nil
}

// UploadEnquiryAttachment stores one customer-uploaded file for an enquiry.
func (r2 *R2Client) UploadEnquiryAttachment(ctx context.Context, enquiryID string, fh *multipart.FileHeader) (*models.EnquiryAttachment, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext == "" {
		ext = ".bin"
	}
	objectName := fmt.Sprintf("enquiries/%s/%d-%s%s", enquiryID, time.Now().UTC().Unix(), uuid.New().String(), ext)

	ct := contentTypeFor(fh, ext)
	if err := r2.put(ctx, objectName, ct, fh); err != nil {
		return nil, err
	}

	return &models.EnquiryAttachment{
		FileName:   fh.Filename,
		URL:        publicURL(objectName),
		ObjectName: objectName,
		MimeType:   ct,
		SizeBytes:  fh.Size,
		UploadedAt: time.Now().UTC(),
	}, nil
}

// DeleteR2Objects is best effort cleanup; the first failure is reported.
func (r2 *R2Client) DeleteR2Objects(ctx context.Context, objectNames []string) error {
	var firstErr error
	for _, obj := range objectNames {
		if obj == "" {
			continue
		}
		_, err := r2.S3.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(r2.Bucket),
			Key:    aws.String(obj),
		})
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("delete %s: %w", obj, err)
		}
	}
	return firstErr
}
