package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"
	"videoserver/internal/config"
	"videoserver/internal/netx"
	"videoserver/internal/web"

	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

func parseFlags() config.CLIArgs {
	var cli config.CLIArgs
	flag.StringVar(&cli.ConfigPath, "config", "", "Path to the JSON config file (default ./"+config.DefaultFileName+")")
	flag.StringVar(&cli.Host, "host", config.DefaultHost, "Host address for the server")
	flag.IntVar(&cli.Port, "port", config.DefaultPort, "Port number for the server")
	flag.StringVar(&cli.StorageDir, "storage-dir", config.DefaultStorageDir, "Directory holding the media files (fs store)")
	flag.StringVar(&cli.Video, "video", config.DefaultVideo, "Name of the video file")
	flag.StringVar(&cli.Subtitles, "subtitles", config.DefaultSubtitles, "Name of the SRT subtitles file, empty to disable")
	flag.StringVar(&cli.Store, "store", config.StoreFS, "File store: fs, grpc or s3")
	flag.StringVar(&cli.StorageNodes, "storage-nodes", "", "Comma separated storage node addresses (grpc store)")
	flag.StringVar(&cli.Metadata, "metadata", "", "Metadata service: sqlite:<file> or etcd:<endpoints>")
	flag.StringVar(&cli.LogLevel, "log-level", config.DefaultLogLevel, "Log level")
	flag.Parse()

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "host":
			cli.HostSet = true
		case "port":
			cli.PortSet = true
		case "storage-dir":
			cli.StorageDirSet = true
		case "video":
			cli.VideoSet = true
		case "subtitles":
			cli.SubtitlesSet = true
		case "store":
			cli.StoreSet = true
		case "storage-nodes":
			cli.StorageNodesSet = true
		case "metadata":
			cli.MetadataSet = true
		case "log-level":
			cli.LogLevelSet = true
		}
	})
	return cli
}

func buildStore(ctx context.Context, cfg config.EffectiveConfig) (web.FileStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Store {
	case config.StoreGRPC:
		nw, err := web.NewNetworkFileStore(cfg.StorageNodes)
		if err != nil {
			return nil, nil, err
		}
		return web.NewCachedFileStore(nw, cfg.StatCacheTTL), nw.Close, nil
	case config.StoreS3:
		var opts []web.S3Option
		if cfg.S3.Region != "" {
			opts = append(opts, web.WithS3Region(cfg.S3.Region))
		}
		if cfg.S3.Endpoint != "" {
			opts = append(opts, web.WithS3Endpoint(cfg.S3.Endpoint))
		}
		s3, err := web.NewS3FileStore(ctx, cfg.S3.Bucket, cfg.S3.Prefix, opts...)
		if err != nil {
			return nil, nil, err
		}
		return web.NewCachedFileStore(s3, cfg.StatCacheTTL), noop, nil
	default:
		fs, err := web.NewFSFileStore(cfg.StorageDir)
		if err != nil {
			return nil, nil, err
		}
		return fs, noop, nil
	}
}

func banner(cfg config.EffectiveConfig, host string) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF75B7"))
	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	lines := []string{
		title.Render("videoserver"),
		fmt.Sprintf("video: %s (%s store)", cfg.Video, cfg.Store),
		fmt.Sprintf("open:  http://%s:%d/", host, cfg.Port),
	}
	return box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// stdinIsTerminal reports whether Enter can be used to stop the server.
func stdinIsTerminal() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// requestStop hands reason to the shutdown select without blocking, so a
// second trigger after the first is dropped instead of leaking its goroutine.
func requestStop(stop chan<- string, reason string) {
	select {
	case stop <- reason:
	default:
	}
}

func run(cli config.CLIArgs) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	cfg, err := config.LoadEffective(cwd, cli)
	if err != nil {
		return fmt.Errorf("failed to load config (%s): %w", config.Code(err), err)
	}
	log.SetLevel(cfg.LogLevel)

	ctx := context.Background()
	store, closeStore, err := buildStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create %s store: %w", cfg.Store, err)
	}
	defer closeStore()

	var metadata web.MediaMetadataService
	if cfg.Metadata != "" {
		metadata, err = web.NewMetadataService(cfg.Metadata)
		if err != nil {
			return fmt.Errorf("failed to open metadata service: %w", err)
		}
		defer metadata.Close()
	}

	var subtitles *web.SubtitleService
	if cfg.Subtitles != "" {
		subtitles, err = web.NewSubtitleService(store, cfg.Subtitles, cfg.SubtitlesCharset)
		if err != nil {
			return fmt.Errorf("failed to set up subtitles: %w", err)
		}
	}

	srv := web.NewServer(store, metadata, subtitles, web.ServerOptions{
		Video:     cfg.Video,
		ChunkSize: cfg.ChunkSize,
	})
	if err := srv.RegisterMedia(ctx); err != nil {
		log.Warnf("failed to register media: %v", err)
	}

	lis, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Addr(), err)
	}

	log.WithFields(log.Fields{
		"addr":       lis.Addr().String(),
		"store":      cfg.Store,
		"video":      cfg.Video,
		"subtitles":  cfg.Subtitles,
		"chunk_size": cfg.ChunkSize,
	}).Info("web server starting")
	fmt.Println(banner(cfg, netx.HostOr("localhost")))

	stop := make(chan string, 1)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		sig := <-sigChan
		requestStop(stop, sig.String())
	}()
	if stdinIsTerminal() {
		fmt.Println("Press Enter to stop the server")
		go func() {
			_, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err == nil || errors.Is(err, io.EOF) {
				requestStop(stop, "enter")
			}
		}()
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start(lis)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("failed to serve: %w", err)
		}
	case reason := <-stop:
		log.Infof("shutting down (%s)", reason)
		shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warnf("graceful shutdown failed: %v", err)
		}
		<-serveErr
	}
	log.Infof("web server stopped")
	return nil
}

func main() {
	if err := run(parseFlags()); err != nil {
		log.Fatal(err)
	}
}
