package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/zeneves1970/ocorrencias/internal/config"
)

// ErrNotFound is returned by Download when the remote file does not exist
// yet. Callers treat it as a cold start, not a failure.
var ErrNotFound = errors.New("mirror: remote file not found")

// DropboxClient mirrors the store's backing file to a fixed Dropbox path.
type DropboxClient struct {
	httpClient *http.Client
	contentURL string
	token      string
	remotePath string
	localPath  string
	logger     *logrus.Logger
}

func NewDropboxClient(cfg *config.Config, logger *logrus.Logger) *DropboxClient {
	return &DropboxClient{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		contentURL: cfg.DropboxContentURL,
		token:      cfg.DropboxToken,
		remotePath: cfg.DropboxPath,
		localPath:  cfg.DBFile,
		logger:     logger,
	}
}

type apiArg struct {
	Path string `json:"path"`
	Mode string `json:"mode,omitempty"`
}

// Download fetches the remote copy into the local path, warm-starting local
// state before the first cycle. A missing remote file yields ErrNotFound.
func (c *DropboxClient) Download(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.contentURL+"/2/files/download", nil)
	if err != nil {
		return fmt.Errorf("failed to build download request: %w", err)
	}
	if err := c.setHeaders(req, apiArg{Path: c.remotePath}); err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mirror download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		// Dropbox reports a missing path as a 409 with a path/not_found summary.
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if strings.Contains(string(msg), "not_found") {
			return ErrNotFound
		}
		return fmt.Errorf("mirror download returned http %d: %s", resp.StatusCode, string(msg))
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("mirror download returned http %d: %s", resp.StatusCode, string(msg))
	}

	out, err := os.Create(c.localPath)
	if err != nil {
		return fmt.Errorf("failed to create local mirror file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to write local mirror file: %w", err)
	}

	c.logger.WithField("path", c.remotePath).Info("Database downloaded from mirror")
	return nil
}

// Upload overwrites the remote copy with the current local file.
func (c *DropboxClient) Upload(ctx context.Context) error {
	data, err := os.ReadFile(c.localPath)
	if err != nil {
		return fmt.Errorf("failed to read local mirror file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.contentURL+"/2/files/upload", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build upload request: %w", err)
	}
	if err := c.setHeaders(req, apiArg{Path: c.remotePath, Mode: "overwrite"}); err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mirror upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("mirror upload returned http %d: %s", resp.StatusCode, string(msg))
	}

	c.logger.WithField("path", c.remotePath).Info("Database uploaded to mirror")
	return nil
}

func (c *DropboxClient) setHeaders(req *http.Request, arg apiArg) error {
	payload, err := json.Marshal(arg)
	if err != nil {
		return fmt.Errorf("failed to marshal Dropbox-API-Arg: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Dropbox-API-Arg", string(payload))
	return nil
}
