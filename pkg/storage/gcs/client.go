package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	storage "google.golang.org/api/storage/v1"

	"github.com/angelmondragon/giftshop-backend/pkg/config"
	"github.com/angelmondragon/giftshop-backend/pkg/logger"
)

const (
	pingTimeout     = 5 * time.Second
	defaultPageSize = 500
	maxPageSize     = 1000
)

var (
	errClientNotInitialized = errors.New("gcs client not initialized")
	// ErrObjectNotFound is returned when the remote object does not exist.
	ErrObjectNotFound = errors.New("gcs object not found")
)

// Client is the media host backed by a single GCS bucket.
type Client struct {
	service       *storage.Service
	defaultBucket string
	publicBaseURL string
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Object is a remote file as listed from the bucket.
type Object struct {
	Name        string
	URL         string
	ContentType string
	Size        int64
	UpdatedAt   time.Time
}

// ListPage is one page of a prefix listing.
type ListPage struct {
	Objects       []Object
	NextPageToken string
}

// UploadInput describes an object to write.
type UploadInput struct {
	Name        string
	ContentType string
	Body        io.Reader
}

func NewClient(ctx context.Context, cfg config.GCSConfig, gcp config.GCPConfig, logg *logger.Logger) (*Client, error) {
	client, err := newClient(ctx, cfg, clientOptions(cfg, gcp)...)
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("gcs health check failed: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "gcs client initialized")
	}

	return client, nil
}

func newClient(ctx context.Context, cfg config.GCSConfig, opts ...option.ClientOption) (*Client, error) {
	if strings.TrimSpace(cfg.BucketName) == "" {
		return nil, errors.New("gcs bucket name is required")
	}
	svc, err := storage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating storage service: %w", err)
	}
	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	if base == "" {
		base = "https://storage.googleapis.com"
	}
	return &Client{
		service:       svc,
		defaultBucket: cfg.BucketName,
		publicBaseURL: base,
	}, nil
}

func clientOptions(cfg config.GCSConfig, gcp config.GCPConfig) []option.ClientOption {
	var opts []option.ClientOption
	switch {
	case strings.TrimSpace(gcp.CredentialsJSON) != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(gcp.CredentialsJSON)))
	case strings.TrimSpace(gcp.ApplicationCredentials) != "":
		opts = append(opts, option.WithCredentialsFile(gcp.ApplicationCredentials))
	}
	if endpoint := strings.TrimSpace(cfg.Endpoint); endpoint != "" {
		// emulators accept anonymous requests
		opts = append(opts, option.WithEndpoint(endpoint), option.WithoutAuthentication())
	}
	return opts
}

func (c *Client) Close() error {
	return nil
}

func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.service == nil {
		return errClientNotInitialized
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	// object-level check, requires storage.objects.list
	if _, err := c.service.Objects.List(c.defaultBucket).MaxResults(1).Context(ctx).Do(); err != nil {
		return fmt.Errorf("gcs object check failed: %w", err)
	}
	return nil
}

// List returns one page of objects under folder. An empty token starts from the beginning.
func (c *Client) List(ctx context.Context, folder, pageToken string, pageSize int) (ListPage, error) {
	if c == nil || c.service == nil {
		return ListPage{}, errClientNotInitialized
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	call := c.service.Objects.List(c.defaultBucket).
		Prefix(folderPrefix(folder)).
		MaxResults(int64(pageSize)).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	res, err := call.Do()
	if err != nil {
		return ListPage{}, fmt.Errorf("list objects in %q: %w", folder, err)
	}

	page := ListPage{NextPageToken: res.NextPageToken}
	for _, obj := range res.Items {
		if obj == nil || strings.HasSuffix(obj.Name, "/") {
			continue
		}
		page.Objects = append(page.Objects, c.toObject(obj))
	}
	return page, nil
}

// Upload writes the object and returns it with its public URL.
func (c *Client) Upload(ctx context.Context, in UploadInput) (Object, error) {
	if c == nil || c.service == nil {
		return Object{}, errClientNotInitialized
	}
	if strings.TrimSpace(in.Name) == "" {
		return Object{}, errors.New("object name is required")
	}
	if in.Body == nil {
		return Object{}, errors.New("object body is required")
	}

	meta := &storage.Object{Name: in.Name, ContentType: in.ContentType}
	res, err := c.service.Objects.Insert(c.defaultBucket, meta).
		Media(in.Body, googleapi.ContentType(in.ContentType)).
		Context(ctx).
		Do()
	if err != nil {
		return Object{}, fmt.Errorf("upload object %q: %w", in.Name, err)
	}
	return c.toObject(res), nil
}

// Delete removes the object. Missing objects return ErrObjectNotFound.
func (c *Client) Delete(ctx context.Context, name string) error {
	if c == nil || c.service == nil {
		return errClientNotInitialized
	}
	if err := c.service.Objects.Delete(c.defaultBucket, name).Context(ctx).Do(); err != nil {
		if isNotFound(err) {
			return ErrObjectNotFound
		}
		return fmt.Errorf("delete object %q: %w", name, err)
	}
	return nil
}

// PublicURL builds the browser URL for an object name.
func (c *Client) PublicURL(name string) string {
	segments := strings.Split(name, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return c.publicBaseURL + "/" + url.PathEscape(c.defaultBucket) + "/" + strings.Join(segments, "/")
}

// ObjectName reverses PublicURL. It reports false for URLs outside this bucket.
func (c *Client) ObjectName(rawURL string) (string, bool) {
	prefix := c.publicBaseURL + "/" + url.PathEscape(c.defaultBucket) + "/"
	if !strings.HasPrefix(rawURL, prefix) {
		return "", false
	}
	name, err := url.PathUnescape(strings.TrimPrefix(rawURL, prefix))
	if err != nil || name == "" {
		return "", false
	}
	return name, true
}

func (c *Client) toObject(obj *storage.Object) Object {
	out := Object{
		Name:        obj.Name,
		URL:         c.PublicURL(obj.Name),
		ContentType: obj.ContentType,
		Size:        int64(obj.Size),
	}
	if obj.Updated != "" {
		if ts, err := time.Parse(time.RFC3339, obj.Updated); err == nil {
			out.UpdatedAt = ts
		}
	}
	return out
}

func folderPrefix(folder string) string {
	folder = strings.Trim(path.Clean("/"+folder), "/")
	if folder == "" {
		return ""
	}
	return folder + "/"
}

func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusNotFound
	}
	return false
}
