package utils

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"google.golang.org/api/option"
)

// ImageStore is the external asset host products upload their images to.
// Two backends exist: Cloudflare R2 (via the S3 API) and Google Cloud
// Storage. STORAGE_BACKEND selects one at boot.
type ImageStore interface {
	// UploadImages stores each file under the given prefix and returns the
	// public URLs alongside the object names (kept for compensation when a
	// later database write fails).
	UploadImages(ctx context.Context, prefix string, files []*multipart.FileHeader) (urls []string, objectNames []string, err error)
	DeleteObjects(ctx context.Context, objectNames []string) error
}

func NewImageStore(ctx context.Context, backend string) (ImageStore, error) {
	switch strings.ToLower(backend) {
	case "gcs":
		return newGCSStore(ctx)
	case "r2", "":
		return newR2Store(ctx)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

func imageCount(files []*multipart.FileHeader) error {
	max := ParseIntDefault(os.Getenv("MAX_PROD_IMAGES"), 4)
	if len(files) < 1 || len(files) > max {
		return fmt.Errorf("images must be 1 to %d", max)
	}
	return nil
}

func objectName(prefix string, fh *multipart.FileHeader) (string, string) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext == "" {
		ext = ".bin"
	}
	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = mime.TypeByExtension(ext)
	}
	if ct == "" {
		ct = "application/octet-stream"
	}
	return fmt.Sprintf("products/%s/%d%s", prefix, time.Now().UnixNano(), ext), ct
}

// --- Cloudflare R2 ---

type R2Store struct {
	s3     *s3.Client
	bucket string
	domain string
}

func newR2Store(ctx context.Context) (*R2Store, error) {
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

	return &R2Store{
		s3:     client,
		bucket: bucket,
		domain: strings.TrimRight(os.Getenv("R2_PUBLIC_DOMAIN"), "/"),
	}, nil
}

func (r *R2Store) UploadImages(ctx context.Context, prefix string, files []*multipart.FileHeader) ([]string, []string, error) {
	if err := imageCount(files); err != nil {
		return nil, nil, err
	}

	urls := make([]string, 0, len(files))
	objects := make([]string, 0, len(files))

	for _, fh := range files {
		obj, ct := objectName(prefix, fh)

		f, err := fh.Open()
		if err != nil {
			return nil, objects, fmt.Errorf("open file: %w", err)
		}

		_, err = r.s3.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(r.bucket),
			Key:         aws.String(obj),
			Body:        f,
			ContentType: aws.String(ct),
		})
		_ = f.Close()
		if err != nil {
			return nil, objects, fmt.Errorf("upload %s: %w", fh.Filename, err)
		}

		objects = append(objects, obj)
		urls = append(urls, fmt.Sprintf("%s/%s/%s", r.domain, r.bucket, obj))
	}

	return urls, objects, nil
}

func (r *R2Store) DeleteObjects(ctx context.Context, objectNames []string) error {
	var firstErr error
	for _, obj := range objectNames {
		if obj == "" {
			continue
		}
		_, err := r.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(r.bucket),
			Key:    aws.String(obj),
		})
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("delete %s: %w", obj, err)
		}
	}
	return firstErr
}

// --- Google Cloud Storage ---

type GCSStore struct {
	client *storage.Client
	bucket string
}

func newGCSStore(ctx context.Context) (*GCSStore, error) {
	bucket := os.Getenv("GCS_BUCKET")
	credentialsPath := os.Getenv("CREDENTIALS_FILE_LOCATION")
	if bucket == "" {
		return nil, fmt.Errorf("missing GCS_BUCKET env var")
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	client, err := storage.NewClient(ctx, option.WithAuthCredentialsFile(option.ServiceAccount, filepath.Join(wd, credentialsPath)))
	if err != nil {
		return nil, err
	}
	return &GCSStore{client: client, bucket: bucket}, nil
}

func (g *GCSStore) UploadImages(ctx context.Context, prefix string, files []*multipart.FileHeader) ([]string, []string, error) {
	if err := imageCount(files); err != nil {
		return nil, nil, err
	}

	urls := make([]string, 0, len(files))
	objects := make([]string, 0, len(files))

	for _, fh := range files {
		obj, ct := objectName(prefix, fh)

		f, err := fh.Open()
		if err != nil {
			return nil, objects, fmt.Errorf("open file: %w", err)
		}

		w := g.client.Bucket(g.bucket).Object(obj).NewWriter(ctx)
		w.ContentType = ct

		if _, err := io.Copy(w, f); err != nil {
			_ = f.Close()
			_ = w.Close()
			return nil, objects, fmt.Errorf("upload copy: %w", err)
		}
		_ = f.Close()

		if err := w.Close(); err != nil {
			return nil, objects, fmt.Errorf("upload close: %w", err)
		}

		objects = append(objects, obj)
		urls = append(urls, fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucket, obj))
	}

	return urls, objects, nil
}

func (g *GCSStore) DeleteObjects(ctx context.Context, objectNames []string) error {
	var firstErr error
	for _, obj := range objectNames {
		if obj == "" {
			continue
		}
		err := g.client.Bucket(g.bucket).Object(obj).Delete(ctx)
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("delete %s: %w", obj, err)
		}
	}
	return firstErr
}

// ObjectNameFromPublicURL recovers the object name from a stored public URL,
// for either backend. Used when deleting a product's images.
func ObjectNameFromPublicURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}

	path := strings.TrimPrefix(u.Path, "/")
	host := strings.ToLower(u.Host)

	// storage.googleapis.com/<bucket>/<object>
	if host == "storage.googleapis.com" {
		bucket := os.Getenv("GCS_BUCKET")
		if bucket != "" && strings.HasPrefix(path, bucket+"/") {
			return strings.TrimPrefix(path, bucket+"/"), nil
		}
	}

	// R2: <domain>/<bucket>/<object>
	bucket := os.Getenv("R2_BUCKET")
	if bucket != "" && strings.HasPrefix(path, bucket+"/") {
		return strings.TrimPrefix(path, bucket+"/"), nil
	}

	if path == "" {
		return "", fmt.Errorf("no object path in url")
	}
	return path, nil
}
