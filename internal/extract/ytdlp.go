package extract

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/vmunix/mediagrab/internal/media"
)

const (
	videoFormat  = "bestvideo*+bestaudio/best"
	audioFormat  = "bestaudio/best"
	videoMerge   = "mp4"
	audioCodec   = "mp3"
	audioQuality = "0"

	// afterMoveJSON prints the full info dict once the final file is in place.
	afterMoveJSON = "after_move:%()j"
)

// YtDlp extracts video and audio through the yt-dlp executable.
type YtDlp struct {
	executable string
	log        *slog.Logger
}

// NewYtDlp creates an extractor. An empty executable lets go-ytdlp resolve
// yt-dlp from its cache or PATH.
func NewYtDlp(executable string, log *slog.Logger) *YtDlp {
	if log == nil {
		log = slog.Default()
	}
	return &YtDlp{executable: executable, log: log.With("component", "ytdlp")}
}

func (y *YtDlp) command(job Job) *ytdlp.Command {
	cmd := ytdlp.New().
		NoPlaylist().
		NoProgress().
		ForceOverwrites().
		Output(filepath.Join(job.Dir, "%(id)s.%(ext)s")).
		Print(afterMoveJSON)

	if job.Type == media.TypeAudio {
		cmd = cmd.Format(audioFormat).
			ExtractAudio().
			AudioFormat(audioCodec).
			AudioQuality(audioQuality)
	} else {
		cmd = cmd.Format(videoFormat).
			MergeOutputFormat(videoMerge)
	}

	if y.executable != "" {
		cmd = cmd.SetExecutable(y.executable)
	}
	return cmd
}

// Extract implements Extractor.
func (y *YtDlp) Extract(ctx context.Context, job Job) (*Result, error) {
	start := time.Now()
	log := y.log.With("job_id", job.ID, "url", job.URL, "media_type", job.Type.String())
	log.Debug("running yt-dlp")

	res, err := y.command(job).Run(ctx, job.URL)
	if err != nil {
		if res != nil && strings.TrimSpace(res.Stderr) != "" {
			return nil, fmt.Errorf("yt-dlp: %w: %s", err, lastLine(res.Stderr))
		}
		return nil, fmt.Errorf("yt-dlp: %w", err)
	}

	result, err := parseInfo(res.Stdout)
	if err != nil {
		return nil, err
	}
	if job.Type == media.TypeAudio && result.Metadata.Ext == "" {
		result.Metadata.Ext = audioCodec
	}
	if _, err := os.Stat(result.Path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoOutput, err)
	}

	log.Info("extraction finished", "path", result.Path, "title", result.Metadata.Title,
		"duration_ms", time.Since(start).Milliseconds())
	return result, nil
}

// info is the subset of the yt-dlp info dict used for organizing files.
type info struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Track    string   `json:"track"`
	Artist   string   `json:"artist"`
	Artists  []string `json:"artists"`
	Creator  string   `json:"creator"`
	Album    string   `json:"album"`
	Channel  string   `json:"channel"`
	Uploader string   `json:"uploader"`
	Series   string   `json:"series"`
	Episode  string   `json:"episode"`
	Ext      string   `json:"ext"`
	Filepath string   `json:"filepath"`
	Filename string   `json:"_filename"`
}

func (i info) metadata() media.Metadata {
	artist := i.Artist
	if artist == "" && len(i.Artists) > 0 {
		artist = strings.Join(i.Artists, ", ")
	}
	if artist == "" {
		artist = i.Creator
	}
	channel := i.Channel
	if channel == "" {
		channel = i.Uploader
	}
	title := i.Title
	if title == "" {
		title = i.Track
	}
	return media.Metadata{
		Title:   title,
		Artist:  artist,
		Album:   i.Album,
		Channel: channel,
		Series:  i.Series,
		Episode: i.Episode,
		Ext:     i.Ext,
	}
}

// parseInfo reads the last JSON object yt-dlp printed.
func parseInfo(stdout string) (*Result, error) {
	var last string
	sc := bufio.NewScanner(strings.NewReader(stdout))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "{") {
			last = line
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read yt-dlp output: %w", err)
	}
	if last == "" {
		return nil, ErrNoOutput
	}

	var i info
	if err := json.Unmarshal([]byte(last), &i); err != nil {
		return nil, fmt.Errorf("decode yt-dlp info: %w", err)
	}

	path := i.Filepath
	if path == "" {
		path = i.Filename
	}
	if path == "" {
		return nil, ErrNoOutput
	}

	meta := i.metadata()
	if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext != "" {
		meta.Ext = ext
	}
	return &Result{Path: path, Metadata: meta}, nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.LastIndexByte(s, '\n'); idx >= 0 {
		return strings.TrimSpace(s[idx+1:])
	}
	return s
}
