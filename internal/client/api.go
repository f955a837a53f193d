// Package client implements the HTTP client used by the command-line
// tool to talk to a sharedrop server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client calls the share API of a sharedrop server. Credential is the
// bearer token obtained from one of the auth endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
	Credential string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
}

// apiError is the JSON error body returned by the server.
type apiError struct {
	Error string `json:"error"`
}

func (c *Client) doJSON(ctx context.Context, method, path string, reqBody, respBody any) error {
	var reader io.Reader
	if reqBody != nil {
		buf, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Credential != "" {
		req.Header.Set("Authorization", "Bearer "+c.Credential)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		var ae apiError
		if json.Unmarshal(raw, &ae) == nil && ae.Error != "" {
			return fmt.Errorf("server: %s (%d)", ae.Error, resp.StatusCode)
		}
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	if respBody != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, respBody); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

type ShareInfo struct {
	ShareID      string `json:"shareId"`
	Name         string `json:"name"`
	UploadLink   string `json:"uploadLink"`
	DownloadLink string `json:"downloadLink"`
}

func (c *Client) CreateShare(ctx context.Context, name, password, downloadPassword string) (*ShareInfo, error) {
	var out ShareInfo
	err := c.doJSON(ctx, http.MethodPost, "/shares", map[string]string{
		"name":             name,
		"password":         password,
		"downloadPassword": downloadPassword,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Authenticate obtains an uploader credential and stores it on the
// client for subsequent calls.
func (c *Client) Authenticate(ctx context.Context, shareID, password string) error {
	return c.authenticate(ctx, "/shares/"+shareID+"/auth", password)
}

// AuthenticateDownload obtains a viewer credential.
func (c *Client) AuthenticateDownload(ctx context.Context, shareID, password string) error {
	return c.authenticate(ctx, "/shares/"+shareID+"/auth-download", password)
}

func (c *Client) authenticate(ctx context.Context, path, password string) error {
	var out struct {
		Token string `json:"token"`
	}
	if err := c.doJSON(ctx, http.MethodPost, path, map[string]string{"password": password}, &out); err != nil {
		return err
	}
	c.Credential = out.Token
	return nil
}

type SignedURL struct {
	URL       string `json:"url"`
	Method    string `json:"method"`
	ExpiresIn int    `json:"expiresIn"`
}

type UploadTicket struct {
	FileID string `json:"fileId"`
	SignedURL
}

func (c *Client) UploadURL(ctx context.Context, shareID, fileName, contentType string, size int64) (*UploadTicket, error) {
	var out UploadTicket
	err := c.doJSON(ctx, http.MethodPost, "/shares/"+shareID+"/upload-url", map[string]any{
		"fileName":    fileName,
		"contentType": contentType,
		"size":        size,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// TransferBytes PUTs data against a pre-signed URL. Relative URLs are
// resolved against the client base.
func (c *Client) TransferBytes(ctx context.Context, signedURL string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.resolve(signedURL), bytes.NewReader(data))
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("transfer failed with status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) resolve(signedURL string) string {
	if strings.HasPrefix(signedURL, "http://") || strings.HasPrefix(signedURL, "https://") {
		return signedURL
	}
	return c.baseURL + signedURL
}

func (c *Client) CompleteUpload(ctx context.Context, shareID, fileID string, size int64) error {
	return c.doJSON(ctx, http.MethodPost, "/shares/"+shareID+"/upload-complete",
		map[string]any{"fileId": fileID, "size": size}, nil)
}

type MultipartTicket struct {
	FileID   string `json:"fileId"`
	UploadID string `json:"uploadId"`
}

func (c *Client) InitMultipart(ctx context.Context, shareID, fileName, contentType string) (*MultipartTicket, error) {
	var out MultipartTicket
	err := c.doJSON(ctx, http.MethodPost, "/shares/"+shareID+"/multipart/init", map[string]string{
		"fileName":    fileName,
		"contentType": contentType,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PartURL(ctx context.Context, shareID, uploadID string, partNumber int) (*SignedURL, error) {
	var out SignedURL
	err := c.doJSON(ctx, http.MethodPost, "/shares/"+shareID+"/multipart/"+uploadID+"/part-url",
		map[string]int{"partNumber": partNumber}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CompleteMultipart(ctx context.Context, shareID, uploadID string, parts []int) error {
	return c.doJSON(ctx, http.MethodPost, "/shares/"+shareID+"/multipart/"+uploadID+"/complete",
		map[string]any{"parts": parts}, nil)
}

type FileEntry struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (c *Client) ListFiles(ctx context.Context, shareID string) ([]FileEntry, error) {
	var out struct {
		Files []FileEntry `json:"files"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/shares/"+shareID+"/files", nil, &out); err != nil {
		return nil, err
	}
	return out.Files, nil
}

type DownloadInfo struct {
	SignedURL
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

func (c *Client) DownloadURL(ctx context.Context, shareID, fileID string) (*DownloadInfo, error) {
	var out DownloadInfo
	err := c.doJSON(ctx, http.MethodGet, "/shares/"+shareID+"/download-url/"+fileID, nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Download fetches the object behind a pre-signed download URL and
// streams it into w.
func (c *Client) Download(ctx context.Context, signedURL string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(signedURL), nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("download failed with status %d", resp.StatusCode)
	}
	return io.Copy(w, resp.Body)
}
