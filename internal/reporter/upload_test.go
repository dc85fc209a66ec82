package reporter_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/rcpsgo/internal/reporter"
)

func TestUpload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, os.WriteFile(path, []byte("file name,Model constraint\n"), 0o644))

	t.Run("puts the file body", func(t *testing.T) {
		var gotMethod, gotContentType string
		var gotBody []byte
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotContentType = r.Header.Get("Content-Type")
			gotBody, _ = io.ReadAll(r.Body)
		}))
		defer srv.Close()

		require.NoError(t, reporter.Upload(context.Background(), path, srv.URL))
		assert.Equal(t, http.MethodPut, gotMethod)
		assert.NotEmpty(t, gotContentType)
		assert.Equal(t, "file name,Model constraint\n", string(gotBody))
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		err := reporter.Upload(context.Background(), path, srv.URL)
		require.Error(t, err)
		assert.ErrorContains(t, err, "upload failed with status")
	})

	t.Run("missing source file is an error", func(t *testing.T) {
		err := reporter.Upload(context.Background(), filepath.Join(t.TempDir(), "gone.csv"), "http://127.0.0.1:0")
		require.Error(t, err)
		assert.ErrorContains(t, err, "failed to open result file")
	})
}
