package backend

import (
	"context"
	"io"
	"net/http"
	"net/url"
)

// Storage is the object store interface of the backend service. All
// application uploads go to a single public bucket.
type Storage struct {
	client *Client
}

func objectPath(bucket, key string) string {
	return "/storage/v1/object/" + url.PathEscape(bucket) + "/" + url.PathEscape(key)
}

// Upload stores the object under bucket/key. Keys are not deduplicated;
// uploading to an existing key fails.
func (s *Storage) Upload(ctx context.Context, bucket, key string, body io.Reader, contentType string) error {
	req, err := s.client.newRequest(ctx, http.MethodPost, objectPath(bucket, key), body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := s.client.do(req)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// PublicURL resolves the public URL for an object in a public bucket.
// No request is made; the URL is derived from the service base URL.
func (s *Storage) PublicURL(bucket, key string) string {
	return s.client.baseURL + "/storage/v1/object/public/" + url.PathEscape(bucket) + "/" + url.PathEscape(key)
}

// Remove deletes the object. Used as the compensating action when a row
// insert fails after its image was already uploaded.
func (s *Storage) Remove(ctx context.Context, bucket, key string) error {
	req, err := s.client.newRequest(ctx, http.MethodDelete, objectPath(bucket, key), nil)
	if err != nil {
		return err
	}
	resp, err := s.client.do(req)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}
