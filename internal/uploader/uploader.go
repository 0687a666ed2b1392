// Package uploader hands image files off to the configured object-store
// HTTP endpoint and returns the hosted URL. The store itself is an external
// collaborator; only the hand-off lives here.
package uploader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

type Conf struct {
	endpoint string
	apiKey   string
	folder   string
	client   *http.Client
}

type Result struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

func NewConf(endpoint, apiKey, folder string) (*Conf, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("upload endpoint is not configured")
	}
	return &Conf{
		endpoint: endpoint,
		apiKey:   apiKey,
		folder:   folder,
		client:   &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Upload streams the file to the object store as multipart form data.
func (c *Conf) Upload(ctx context.Context, filename string, file io.Reader) (Result, error) {
	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)

	go func() {
		defer pw.Close()
		defer form.Close()

		if err := form.WriteField("folder", c.folder); err != nil {
			pw.CloseWithError(err)
			return
		}
		part, err := form.CreateFormFile("image", filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, file); err != nil {
			pw.CloseWithError(err)
			return
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, pr)
	if err != nil {
		return Result{}, fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("upload image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return Result{}, fmt.Errorf("upload image: unexpected status %s", resp.Status)
	}

	var result struct {
		URL       string `json:"url"`
		SecureURL string `json:"secure_url"`
		PublicID  string `json:"public_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("decode upload response: %w", err)
	}

	url := result.SecureURL
	if url == "" {
		url = result.URL
	}
	if url == "" {
		return Result{}, fmt.Errorf("upload response has no url")
	}

	return Result{URL: url, PublicID: result.PublicID}, nil
}
