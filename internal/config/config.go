package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	// ErrCodeNotFound: a config file named explicitly with -config does not exist.
	ErrCodeNotFound = "config_not_found"
	// ErrCodeInvalid: the config file cannot be read or parsed, or a field is out of range.
	ErrCodeInvalid = "config_invalid"
)

const (
	DefaultFileName         = "videoserver.json"
	DefaultHost             = "0.0.0.0"
	DefaultPort             = 3000
	DefaultStorageDir       = "storage"
	DefaultVideo            = "video.mp4"
	DefaultSubtitles        = "subtitles.srt"
	DefaultSubtitlesCharset = "windows-1252"
	DefaultChunkSize        = 8 << 10
	DefaultStore            = StoreFS
	DefaultStatCacheTTL     = 30 * time.Second
	DefaultLogLevel         = "info"

	MinChunkSize = 512
	MaxChunkSize = 1 << 20
)

const (
	StoreFS   = "fs"
	StoreGRPC = "grpc"
	StoreS3   = "s3"
)

// CLIArgs mirrors the command-line flags. Each *Set field records whether the
// flag was given explicitly, so that e.g. -port=3000 still overrides a file value.
type CLIArgs struct {
	ConfigPath string

	Host    string
	HostSet bool

	Port    int
	PortSet bool

	StorageDir    string
	StorageDirSet bool

	Video    string
	VideoSet bool

	Subtitles    string
	SubtitlesSet bool

	Store    string
	StoreSet bool

	StorageNodes    string // comma separated
	StorageNodesSet bool

	Metadata    string
	MetadataSet bool

	LogLevel    string
	LogLevelSet bool
}

// FileConfig is the layout of videoserver.json.
type FileConfig struct {
	Host             string    `json:"host"`
	Port             int       `json:"port"`
	StorageDir       string    `json:"storage_dir"`
	Video            string    `json:"video"`
	Subtitles        *string   `json:"subtitles"`
	SubtitlesCharset string    `json:"subtitles_charset"`
	ChunkSize        int       `json:"chunk_size"`
	Store            string    `json:"store"`
	StorageNodes     []string  `json:"storage_nodes"`
	S3               *S3Config `json:"s3"`
	Metadata         string    `json:"metadata"`
	StatCacheTTL     string    `json:"stat_cache_ttl"`
	LogLevel         string    `json:"log_level"`
}

type S3Config struct {
	Bucket   string `json:"bucket"`
	Prefix   string `json:"prefix"`
	Region   string `json:"region"`
	Endpoint string `json:"endpoint"`
}

// EffectiveConfig is the merged, validated configuration. It is resolved once
// at startup and never mutated afterwards.
type EffectiveConfig struct {
	Host string
	Port int

	StorageDir string
	Video      string
	// Subtitles is empty when subtitles are disabled.
	Subtitles        string
	SubtitlesCharset string

	ChunkSize int

	Store        string
	StorageNodes []string
	S3           S3Config

	// Metadata selects the media metadata backend: "", "sqlite:<file>" or
	// "etcd:<endpoint,...>".
	Metadata     string
	StatCacheTTL time.Duration

	LogLevel log.Level
}

// Addr is the listen address of the HTTP server.
func (c EffectiveConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Error is a configuration failure carrying an error code.
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeNotFound:
		return fmt.Sprintf("%s: config file %q not found", e.Code, e.Path)
	case ErrCodeInvalid:
		if e.Path == "" {
			return fmt.Sprintf("%s: %v", e.Code, e.Err)
		}
		return fmt.Sprintf("%s: config file %q: %v", e.Code, e.Path, e.Err)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", e.Code, e.Err)
		}
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code extracts the error code from err, or "" if err is not an *Error.
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// LoadEffective reads the config file and merges it with the CLI arguments.
//
// File discovery: cli.ConfigPath when given (must exist), otherwise
// <cwd>/videoserver.json (optional).
//
// Precedence for every field: CLI flag > config file > default.
func LoadEffective(cwd string, cli CLIArgs) (EffectiveConfig, error) {
	var (
		cfgPath  string
		required bool
	)
	if strings.TrimSpace(cli.ConfigPath) != "" {
		cfgPath = absCleanFrom(cwd, cli.ConfigPath)
		required = true
	} else {
		cfgPath = filepath.Join(cwd, DefaultFileName)
	}

	fc, exists, err := readFileConfig(cfgPath)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}
	if !exists {
		if required {
			return EffectiveConfig{}, &Error{Code: ErrCodeNotFound, Path: cfgPath, Err: os.ErrNotExist}
		}
		cfgPath = ""
	}

	return merge(cwd, cli, fc, cfgPath)
}

func merge(cwd string, cli CLIArgs, fc FileConfig, cfgPath string) (EffectiveConfig, error) {
	invalid := func(format string, args ...any) error {
		return &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf(format, args...)}
	}

	eff := EffectiveConfig{
		Host:             pickString(cli.HostSet, cli.Host, fc.Host, DefaultHost),
		StorageDir:       pickString(cli.StorageDirSet, cli.StorageDir, fc.StorageDir, DefaultStorageDir),
		Video:            pickString(cli.VideoSet, cli.Video, fc.Video, DefaultVideo),
		SubtitlesCharset: strings.TrimSpace(fc.SubtitlesCharset),
		Store:            strings.ToLower(pickString(cli.StoreSet, cli.Store, fc.Store, DefaultStore)),
		Metadata:         pickString(cli.MetadataSet, cli.Metadata, fc.Metadata, ""),
		StatCacheTTL:     DefaultStatCacheTTL,
	}

	// port
	eff.Port = DefaultPort
	if cli.PortSet {
		eff.Port = cli.Port
	} else if fc.Port != 0 {
		eff.Port = fc.Port
	}
	if eff.Port <= 0 || eff.Port > 65535 {
		return EffectiveConfig{}, invalid("port out of range: %d", eff.Port)
	}

	eff.StorageDir = absCleanFrom(cwd, eff.StorageDir)

	if strings.TrimSpace(eff.Video) == "" {
		return EffectiveConfig{}, invalid("video must not be empty")
	}

	// subtitles: an explicit "" in either place disables them.
	switch {
	case cli.SubtitlesSet:
		eff.Subtitles = strings.TrimSpace(cli.Subtitles)
	case fc.Subtitles != nil:
		eff.Subtitles = strings.TrimSpace(*fc.Subtitles)
	default:
		eff.Subtitles = DefaultSubtitles
	}
	if eff.SubtitlesCharset == "" {
		eff.SubtitlesCharset = DefaultSubtitlesCharset
	}

	eff.ChunkSize = fc.ChunkSize
	if eff.ChunkSize == 0 {
		eff.ChunkSize = DefaultChunkSize
	}
	if eff.ChunkSize < MinChunkSize {
		eff.ChunkSize = MinChunkSize
	}
	if eff.ChunkSize > MaxChunkSize {
		eff.ChunkSize = MaxChunkSize
	}

	if cli.StorageNodesSet {
		eff.StorageNodes = splitList(cli.StorageNodes)
	} else {
		eff.StorageNodes = cleanList(fc.StorageNodes)
	}
	if fc.S3 != nil {
		eff.S3 = S3Config{
			Bucket:   strings.TrimSpace(fc.S3.Bucket),
			Prefix:   strings.Trim(strings.TrimSpace(fc.S3.Prefix), "/"),
			Region:   strings.TrimSpace(fc.S3.Region),
			Endpoint: strings.TrimSpace(fc.S3.Endpoint),
		}
	}

	switch eff.Store {
	case StoreFS:
	case StoreGRPC:
		if len(eff.StorageNodes) == 0 {
			return EffectiveConfig{}, invalid("store=grpc requires at least one storage node")
		}
	case StoreS3:
		if eff.S3.Bucket == "" {
			return EffectiveConfig{}, invalid("store=s3 requires s3.bucket")
		}
		if eff.S3.Endpoint != "" {
			u, err := url.Parse(eff.S3.Endpoint)
			if err != nil || u.Scheme == "" || u.Host == "" {
				return EffectiveConfig{}, invalid("invalid s3.endpoint %q", eff.S3.Endpoint)
			}
		}
	default:
		return EffectiveConfig{}, invalid("store must be fs, grpc or s3, got %q", eff.Store)
	}

	if err := validateMetadata(eff.Metadata); err != nil {
		return EffectiveConfig{}, invalid("%v", err)
	}

	if s := strings.TrimSpace(fc.StatCacheTTL); s != "" {
		ttl, err := time.ParseDuration(s)
		if err != nil || ttl < 0 {
			return EffectiveConfig{}, invalid("invalid stat_cache_ttl %q", s)
		}
		eff.StatCacheTTL = ttl
	}

	level, err := log.ParseLevel(pickString(cli.LogLevelSet, cli.LogLevel, fc.LogLevel, DefaultLogLevel))
	if err != nil {
		return EffectiveConfig{}, invalid("%v", err)
	}
	eff.LogLevel = level

	return eff, nil
}

func validateMetadata(spec string) error {
	if spec == "" {
		return nil
	}
	kind, arg, ok := strings.Cut(spec, ":")
	if !ok || strings.TrimSpace(arg) == "" {
		return fmt.Errorf("metadata must be sqlite:<file> or etcd:<endpoints>, got %q", spec)
	}
	switch kind {
	case "sqlite", "etcd":
		return nil
	default:
		return fmt.Errorf("unknown metadata backend %q", kind)
	}
}

func pickString(cliSet bool, cliVal, fileVal, def string) string {
	if cliSet {
		return strings.TrimSpace(cliVal)
	}
	if v := strings.TrimSpace(fileVal); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	return cleanList(strings.Split(s, ","))
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// absCleanFrom makes p absolute relative to base and cleans it.
func absCleanFrom(base, p string) string {
	p = filepath.Clean(strings.TrimSpace(p))
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}

// readFileConfig reads and parses a JSON config file. A missing file is not
// an error; exists reports whether it was found.
func readFileConfig(path string) (fc FileConfig, exists bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, err
	}
	if err := json.Unmarshal(b, &fc); err != nil {
		return FileConfig{}, true, err
	}
	return fc, true, nil
}
