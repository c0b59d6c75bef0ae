package utils

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kvbsystems/kvbbackend/models"
	"google.golang.org/api/option"
)

// GCS holds product images and quotation PDFs. Task and enquiry attachments
// go to R2 instead (see storage.go).

func NewGCSClient(c *gin.Context) (*storage.Client, string, error) {
	GCSBucket := os.Getenv("GCS_BUCKET")
	credentialsPath := os.Getenv("CREDENTIALS_FILE_LOCATION")
	wd, err := os.Getwd()
	if err != nil {
		return nil, "", err
	}
	client, err := storage.NewClient(c, option.WithAuthCredentialsFile(option.ServiceAccount, filepath.Join(wd, credentialsPath)))

	if err != nil {
		return nil, "", err
	}
	return client, GCSBucket, err
}

func UploadImagesToGCSAndGetPublicURLs(
	ctx context.Context,
	gcs *storage.Client,
	bucketName string,
	productSlug string,
	files []*multipart.FileHeader,
) ([]string, error) {

	if len(files) < 1 || len(files) > 4 {
		return nil, fmt.Errorf("images must be 1 to 4")
	}

	urls := make([]string, 0, len(files))

	for _, fh := range files {
		// Build a safe unique object name
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		if ext == "" {
			ext = ".bin"
		}
		objectName := fmt.Sprintf("products/%s/%d%s", productSlug, time.Now().UnixNano(), ext)

		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open file: %w", err)
		}

		w := gcs.Bucket(bucketName).Object(objectName).NewWriter(ctx)

		// Keep content-type if provided
		if ct := fh.Header.Get("Content-Type"); ct != "" {
			w.ContentType = ct
		}

		if _, err := io.Copy(w, f); err != nil {
			_ = f.Close()
			_ = w.Close()
			return nil, fmt.Errorf("upload copy: %w", err)
		}

		_ = f.Close()

		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("upload close: %w", err)
		}

		publicURL := fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucketName, objectName)
		urls = append(urls, publicURL)
	}

	return urls, nil
}

func UploadQuotationPDFToGCS(
	ctx context.Context,
	client *storage.Client,
	bucketName string,
	quotationID string,
	fileHeader *multipart.FileHeader,
) (*models.QuotationAttachment, error) {

	// Only allow PDF
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
		return nil, fmt.Errorf("only PDF files are allowed")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	// Generate unique object name
	timestamp := time.Now().UTC().Unix()
	random := uuid.New().String()

	objectName := fmt.Sprintf(
		"quotations/%s/%d-%s.pdf",
		quotationID,
		timestamp,
		random,
	)

	bucket := client.Bucket(bucketName)
	obj := bucket.Object(objectName)

	writer := obj.NewWriter(ctx)
	writer.ContentType = "application/pdf"
	writer.CacheControl = "no-cache"

	if _, err := io.Copy(writer, file); err != nil {
		_ = writer.Close()
		return nil, err
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}

	publicURL := fmt.Sprintf(
		"https://storage.googleapis.com/%s/%s",
		bucketName,
		objectName,
	)

	return &models.QuotationAttachment{
		PublicURL:  publicURL,
		ObjectName: objectName,
		MimeType:   "application/pdf",
		SizeBytes:  fileHeader.Size,
	}, nil
}

func ObjectNameFromGCSPublicURL(bucket string, raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}

	host := strings.ToLower(u.Host)
	path := strings.TrimPrefix(u.Path, "/")

	// style 1: storage.googleapis.com/<bucket>/<object>
	if host == "storage.googleapis.com" {
		prefix := bucket + "/"
		if !strings.HasPrefix(path, prefix) {
			return "", fmt.Errorf("url bucket mismatch")
		}
		return strings.TrimPrefix(path, prefix), nil
	}

	// style 2: <bucket>.storage.googleapis.com/<object>
	if host == strings.ToLower(bucket)+".storage.googleapis.com" {
		if path == "" {
			return "", fmt.Errorf("missing object path")
		}
		return path, nil
	}

	return "", fmt.Errorf("not a gcs public url")
}

func DeleteGCSObjects(ctx context.Context, client *storage.Client, bucket string, objectNames []string) error {
	var firstErr error

	for _, obj := range objectNames {
		if obj == "" {
			continue
		}
		err := client.Bucket(bucket).Object(obj).Delete(ctx)
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("delete %s: %w", obj, err)
		}
	}

	return firstErr
}

func MergeImageUrlsArrays(
	oldUrls []string,
	toRemove []string,
	toAdd []string,
) []string {

	// Step 1: build a set of urls to remove
	removeSet := make(map[string]struct{}, len(toRemove))
	for _, u := range toRemove {
		removeSet[u] = struct{}{}
	}

	// Step 2: keep old urls that are NOT removed
	final := make([]string, 0, len(oldUrls)+len(toAdd))
	exists := make(map[string]struct{}) // prevent duplicates

	for _, u := range oldUrls {
		if _, shouldRemove := removeSet[u]; !shouldRemove {
			final = append(final, u)
			exists[u] = struct{}{}
		}
	}

	// Step 3: append new urls (avoid duplicates)
	for _, u := range toAdd {
		if _, already := exists[u]; !already {
			final = append(final, u)
			exists[u] = struct{}{}
		}
	}

	return final
}
