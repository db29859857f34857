package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vuecore/vuecore/internal/rerrors"
	"github.com/vuecore/vuecore/internal/rmetrics"
	"github.com/vuecore/vuecore/pkg/ast"
)

func init() {
	rerrors.Register("N001", rerrors.Template{
		Category: rerrors.CategoryConfig,
		Message:  "component registry entry not found",
		Detail:   "No entry with that name/version exists under the configured registry prefix.",
	})
}

// Entry is one published compiled template: its static-root-annotated
// AST plus the metadata needed to look it up again.
type Entry struct {
	Name        string    `json:"name"`
	Version     string    `json:"version"`
	Root        *ast.Node `json:"root"`
	PublishedAt time.Time `json:"publishedAt"`
}

// Store publishes and fetches Entry values from an S3 bucket, keyed by
// "<prefix><name>/<version>.json". A nil client makes every method
// return an error instead of panicking, so a project that never
// configures a registry pays nothing for this package.
type Store struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewStore creates a Store. client may be nil (see Store's doc comment).
func NewStore(client *s3.Client, bucket, prefix string) *Store {
	return &Store{client: client, bucket: bucket, prefix: prefix}
}

func (s *Store) key(name, version string) string {
	return s.prefix + name + "/" + version + ".json"
}

// Publish uploads entry's AST under its name/version key.
func (s *Store) Publish(ctx context.Context, entry Entry) (err error) {
	defer func() { rmetrics.RecordRegistryRequest("publish", err) }()

	if s.client == nil {
		return rerrors.Newf(rerrors.CategoryConfig, "registry store has no S3 client configured")
	}

	entry.PublishedAt = time.Now().UTC()
	data, marshalErr := json.Marshal(entry)
	if marshalErr != nil {
		return fmt.Errorf("marshal registry entry: %w", marshalErr)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(entry.Name, entry.Version)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3 put failed: %w", err)
	}
	return nil
}

// Fetch retrieves a previously published Entry by name and version.
func (s *Store) Fetch(ctx context.Context, name, version string) (entry Entry, err error) {
	defer func() { rmetrics.RecordRegistryRequest("fetch", err) }()

	if s.client == nil {
		return Entry{}, rerrors.Newf(rerrors.CategoryConfig, "registry store has no S3 client configured")
	}

	result, getErr := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name, version)),
	})
	if getErr != nil {
		return Entry{}, rerrors.New("N001").WithDetail(name + "@" + version).Wrap(getErr)
	}
	defer result.Body.Close()

	data, readErr := io.ReadAll(result.Body)
	if readErr != nil {
		return Entry{}, fmt.Errorf("read registry entry: %w", readErr)
	}

	if unmarshalErr := json.Unmarshal(data, &entry); unmarshalErr != nil {
		return Entry{}, fmt.Errorf("unmarshal registry entry: %w", unmarshalErr)
	}
	return entry, nil
}

// List returns every version published for name.
func (s *Store) List(ctx context.Context, name string) (versions []string, err error) {
	defer func() { rmetrics.RecordRegistryRequest("list", err) }()

	if s.client == nil {
		return nil, rerrors.Newf(rerrors.CategoryConfig, "registry store has no S3 client configured")
	}

	prefix := s.prefix + name + "/"
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})

	for paginator.HasMorePages() {
		page, pageErr := paginator.NextPage(ctx)
		if pageErr != nil {
			return nil, fmt.Errorf("s3 list failed: %w", pageErr)
		}
		for _, obj := range page.Contents {
			if obj.Key == nil {
				continue
			}
			version := (*obj.Key)[len(prefix):]
			version = version[:len(version)-len(".json")]
			versions = append(versions, version)
		}
	}
	return versions, nil
}
