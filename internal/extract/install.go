package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/lrstanley/go-ytdlp"
)

// EnsureYtDlp resolves the yt-dlp executable to use. An explicit path must
// exist; otherwise PATH is searched, and when autoInstall is set go-ytdlp
// downloads a release into its cache.
func EnsureYtDlp(ctx context.Context, path string, autoInstall bool, log *slog.Logger) (string, error) {
	if log == nil {
		log = slog.Default()
	}
	if path != "" {
		resolved, err := exec.LookPath(path)
		if err != nil {
			return "", fmt.Errorf("%w: %s", ErrYtDlpMissing, path)
		}
		return resolved, nil
	}

	if resolved, err := exec.LookPath("yt-dlp"); err == nil {
		return resolved, nil
	}
	if !autoInstall {
		return "", ErrYtDlpMissing
	}

	install, err := ytdlp.Install(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("install yt-dlp: %w", err)
	}
	log.Info("yt-dlp installed", "path", install.Executable, "version", install.Version, "downloaded", install.Downloaded)
	return install.Executable, nil
}
