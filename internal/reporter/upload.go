package reporter

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/vk/rcpsgo/internal/ctxlog"
)

// httpClient is shared across uploads to reuse TCP connections.
var httpClient = &http.Client{}

// Upload PUTs a finished result file to a pre-signed URL. It runs strictly
// after the batch has completed; no network I/O ever happens inside the
// solve loop.
func Upload(ctx context.Context, sourcePath, uploadURL string) error {
	logger := ctxlog.FromContext(ctx)

	file, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to open result file '%s': %w", sourcePath, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to get file stats for '%s': %w", sourcePath, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, file)
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(sourcePath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = stat.Size()

	logger.Info("Uploading result file.", "source", sourcePath, "size", stat.Size(), "contentType", contentType)

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upload failed with status: %s", resp.Status)
	}

	logger.Info("Successfully uploaded result file.", "status", resp.Status)
	return nil
}
