// Package source reads existing statement files for the CLI, either from
// local disk or from Google Cloud Storage. It never writes.
package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const gcsScheme = "gs://"

// IsGCSURI reports whether ref names a GCS object.
func IsGCSURI(ref string) bool {
	return strings.HasPrefix(ref, gcsScheme)
}

// ParseGCSURI splits "gs://bucket/path/to/file.xlsx" into bucket and object.
func ParseGCSURI(gcsURI string) (bucket, object string, err error) {
	if !IsGCSURI(gcsURI) {
		return "", "", fmt.Errorf("invalid GCS URI: %s", gcsURI)
	}

	parts := strings.SplitN(strings.TrimPrefix(gcsURI, gcsScheme), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GCS URI (no object path): %s", gcsURI)
	}
	return parts[0], parts[1], nil
}

// FetchFromGCS downloads the object bytes. Without options the client uses
// Application Default Credentials.
func FetchFromGCS(ctx context.Context, gcsURI string, opts ...option.ClientOption) ([]byte, error) {
	bucket, object, err := ParseGCSURI(gcsURI)
	if err != nil {
		return nil, err
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("fetchFromGCS: creating storage client: %w", err)
	}
	defer client.Close()

	rc, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetchFromGCS: reading object %s/%s: %w", bucket, object, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("fetchFromGCS: reading bytes: %w", err)
	}
	return data, nil
}

// ReadLocal reads a statement file from disk.
func ReadLocal(p string) ([]byte, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read file %q: %w", p, err)
	}
	return data, nil
}

// Open reads ref from GCS when it is a gs:// URI and from disk otherwise.
func Open(ctx context.Context, ref string, opts ...option.ClientOption) ([]byte, error) {
	if IsGCSURI(ref) {
		return FetchFromGCS(ctx, ref, opts...)
	}
	return ReadLocal(ref)
}

// CredentialsOptions returns client options for an explicit service account
// file, or none to fall back to Application Default Credentials.
func CredentialsOptions(credentialsFile string) []option.ClientOption {
	if credentialsFile == "" {
		return nil
	}
	return []option.ClientOption{option.WithCredentialsFile(credentialsFile)}
}

// Filename returns the base name of a local path or GCS URI.
// e.g., "gs://bucket/folder/statement.xlsx" → "statement.xlsx"
func Filename(ref string) string {
	if IsGCSURI(ref) {
		if _, object, err := ParseGCSURI(ref); err == nil {
			return path.Base(object)
		}
		return strings.TrimPrefix(ref, gcsScheme)
	}
	return filepath.Base(ref)
}
