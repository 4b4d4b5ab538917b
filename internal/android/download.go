package android

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/mholt/archives"
)

// Downloader fetches and unpacks SDK archives.
type Downloader struct {
	Client    *http.Client
	UserAgent string
}

// NewDownloader returns a Downloader using http.DefaultClient.
func NewDownloader() *Downloader {
	return &Downloader{Client: http.DefaultClient, UserAgent: "torchlive/1.0"}
}

// Fetch downloads url into dest, writing through a temp file in the same
// directory so a partial download never sits at dest.
func (d *Downloader) Fetch(ctx context.Context, url, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("prepare download destination: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", d.UserAgent)

	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("download %s: unexpected status %s", url, resp.Status)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(dest), "download-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		tmpFile.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("finalize download: %w", err)
	}
	return nil
}

// Extract unpacks an archive, or copies a directory, into dest. Any format
// archives.FileSystem understands is accepted.
func Extract(ctx context.Context, src, dest string) error {
	fsys, err := archives.FileSystem(ctx, src, nil)
	if err != nil {
		return fmt.Errorf("open archive %s: %w", src, err)
	}
	if closer, ok := fsys.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}
	return CopyFS(fsys, ".", dest)
}

// CopyFS writes the tree under root in fsys to dest.
func CopyFS(fsys fs.FS, root, dest string) error {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("create destination directory: %w", err)
	}
	return fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(filepath.FromSlash(root), filepath.FromSlash(path))
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		target := filepath.Join(dest, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		if info.Mode()&fs.ModeSymlink != 0 {
			return writeSymlink(fsys, path, target)
		}
		return writeFile(fsys, path, target, info.Mode().Perm())
	})
}

func writeSymlink(fsys fs.FS, path, target string) error {
	link, err := fsys.Open(path)
	if err != nil {
		return fmt.Errorf("read symlink %s: %w", path, err)
	}
	defer link.Close()

	dest, err := io.ReadAll(link)
	if err != nil {
		return fmt.Errorf("read symlink target %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	_ = os.Remove(target)
	return os.Symlink(string(dest), target)
}

func writeFile(fsys fs.FS, path, target string, perm fs.FileMode) error {
	src, err := fsys.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create parent directory for %s: %w", path, err)
	}
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm|0o200)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", path, err)
	}
	return out.Close()
}

// DownloadCommandLineTools fetches the cmdline-tools archive from url into a
// fresh directory under tmpRoot and returns that directory. The bundled
// sdkmanager is made executable.
func (d *Downloader) DownloadCommandLineTools(ctx context.Context, url, tmpRoot string) (string, error) {
	dir, err := os.MkdirTemp(tmpRoot, "cmdline-tools-")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	archive := filepath.Join(dir, "commandlinetools.zip")
	if err := d.Fetch(ctx, url, archive); err != nil {
		return "", err
	}
	if err := Extract(ctx, archive, dir); err != nil {
		return "", err
	}
	_ = os.Remove(archive)

	manager := filepath.Join(dir, "cmdline-tools", "bin", "sdkmanager")
	if err := os.Chmod(manager, 0o755); err != nil {
		return "", fmt.Errorf("make sdkmanager executable: %w", err)
	}
	return dir, nil
}
