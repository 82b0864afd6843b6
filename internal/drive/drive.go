package drive

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_gateway.go -package=mocks cardsync/internal/drive Gateway

import (
	"context"
	"fmt"
	"io"

	driveapi "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"cardsync/internal/service"
)

// File is the subset of Drive file metadata the application uses.
// ModifiedTime is the RFC3339 string reported by the Drive API.
type File struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	MimeType      string `json:"mimeType"`
	WebViewLink   string `json:"webViewLink"`
	ThumbnailLink string `json:"thumbnailLink,omitempty"`
	ModifiedTime  string `json:"modifiedTime"`
}

// Gateway defines the Drive operations used by the application.
type Gateway interface {
	// ListImages lists non-trashed JPEG/PNG files in a folder, newest first.
	ListImages(ctx context.Context, folderID string, pageSize int64) ([]File, error)
	// Download fetches the raw bytes of a file.
	Download(ctx context.Context, fileID string) ([]byte, error)
	// GetMetadata fetches the metadata of a single file.
	GetMetadata(ctx context.Context, fileID string) (*File, error)
	// Rename changes a file's display name.
	Rename(ctx context.Context, fileID, name string) error
	// Trash moves a file to the Drive trash.
	Trash(ctx context.Context, fileID string) error
	// Upload creates a new file in the folder from r.
	Upload(ctx context.Context, folderID, name, mimeType string, r io.Reader) (*File, error)
}

// Client is a Gateway backed by the Drive v3 API.
type Client struct {
	svc *driveapi.Service
}

// NewClient creates a Drive API client. Credentials resolution follows the
// standard Google auth chain (GOOGLE_APPLICATION_CREDENTIALS or a
// credentials file passed explicitly).
func NewClient(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	svc, err := driveapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}
	return &Client{svc: svc}, nil
}

const listFields = "files(id, name, mimeType, thumbnailLink, webViewLink, modifiedTime)"

// ListImages lists non-trashed JPEG/PNG files in a folder, newest first.
// Folders with more files than pageSize are only partially listed; callers
// inherit that bound.
func (c *Client) ListImages(ctx context.Context, folderID string, pageSize int64) ([]File, error) {
	query := fmt.Sprintf("'%s' in parents and trashed = false and (mimeType='image/jpeg' or mimeType='image/png')", folderID)

	res, err := c.svc.Files.List().
		Q(query).
		Fields(googleapi.Field(listFields)).
		OrderBy("modifiedTime desc").
		PageSize(pageSize).
		Context(ctx).
		Do()
	if err != nil {
		return nil, service.WrapUpstream("drive.files.list", err)
	}

	files := make([]File, 0, len(res.Files))
	for _, f := range res.Files {
		files = append(files, File{
			ID:            f.Id,
			Name:          f.Name,
			MimeType:      f.MimeType,
			WebViewLink:   f.WebViewLink,
			ThumbnailLink: f.ThumbnailLink,
			ModifiedTime:  f.ModifiedTime,
		})
	}
	return files, nil
}

// Download fetches the raw bytes of a file.
func (c *Client) Download(ctx context.Context, fileID string) ([]byte, error) {
	res, err := c.svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, service.WrapUpstream("drive.files.get", err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file body: %w", err)
	}
	return data, nil
}

// GetMetadata fetches the metadata of a single file.
func (c *Client) GetMetadata(ctx context.Context, fileID string) (*File, error) {
	f, err := c.svc.Files.Get(fileID).
		Fields("id, name, mimeType, thumbnailLink, webViewLink, modifiedTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, service.WrapUpstream("drive.files.get", err)
	}
	return &File{
		ID:            f.Id,
		Name:          f.Name,
		MimeType:      f.MimeType,
		WebViewLink:   f.WebViewLink,
		ThumbnailLink: f.ThumbnailLink,
		ModifiedTime:  f.ModifiedTime,
	}, nil
}

// Rename changes a file's display name.
func (c *Client) Rename(ctx context.Context, fileID, name string) error {
	_, err := c.svc.Files.Update(fileID, &driveapi.File{Name: name}).Context(ctx).Do()
	return service.WrapUpstream("drive.files.update", err)
}

// Trash moves a file to the Drive trash.
func (c *Client) Trash(ctx context.Context, fileID string) error {
	_, err := c.svc.Files.Update(fileID, &driveapi.File{Trashed: true}).Context(ctx).Do()
	return service.WrapUpstream("drive.files.update", err)
}

// Upload creates a new file in the folder from r.
func (c *Client) Upload(ctx context.Context, folderID, name, mimeType string, r io.Reader) (*File, error) {
	meta := &driveapi.File{
		Name:    name,
		Parents: []string{folderID},
	}

	f, err := c.svc.Files.Create(meta).
		Media(r, googleapi.ContentType(mimeType)).
		Fields("id, name, webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return nil, service.WrapUpstream("drive.files.create", err)
	}
	return &File{ID: f.Id, Name: f.Name, WebViewLink: f.WebViewLink}, nil
}
