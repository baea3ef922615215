package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"
	"videoserver/internal/middleware"
	pb "videoserver/internal/proto"
	"videoserver/internal/storage"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
)

func main() {
	host := flag.String("host", "localhost", "Host address for the server")
	port := flag.Int("port", 8090, "Port number for the server")
	chunkSize := flag.Int("chunk", storage.DefaultChunkSize, "Bytes per streamed chunk")
	maxStreams := flag.Int("max-streams", middleware.DefaultMaxStreams, "Maximum concurrent ReadRange streams")
	showStats := flag.Bool("stats", false, "Log concurrency statistics every 5s")
	flag.Parse()

	// Validate arguments
	if *port <= 0 {
		log.Fatalf("port number must be positive, got %d", *port)
	}

	if flag.NArg() < 1 {
		fmt.Println("Usage: storage [OPTIONS] <baseDir>")
		fmt.Println("Error: Base directory argument is required")
		os.Exit(2)
	}
	baseDir := flag.Arg(0)

	storageService, err := storage.NewStorageServer(baseDir, *chunkSize)
	if err != nil {
		log.Fatalf("error creating storage service: %v", err)
	}

	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", *host, *port))
	if err != nil {
		log.Fatalf("failed to listen on %s:%d: %v", *host, *port, err)
	}

	limiter := middleware.NewConcurrencyLimiter(*maxStreams)
	grpcServer := grpc.NewServer(
		grpc.StreamInterceptor(limiter.StreamServerInterceptor()),
	)
	pb.RegisterStorageServiceServer(grpcServer, storageService)

	if *showStats {
		go func() {
			ticker := time.NewTicker(5 * time.Second)
			defer ticker.Stop()

			for range ticker.C {
				log.Infof("concurrency stats: %s", limiter.GetStatsString())
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Infof("received interrupt signal, shutting down")

		stopped := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-time.After(30 * time.Second):
			log.Warnf("graceful stop timed out, forcing")
			grpcServer.Stop()
		}
	}()

	log.WithFields(log.Fields{
		"addr":        lis.Addr().String(),
		"base_dir":    baseDir,
		"chunk_size":  storageService.ChunkSize,
		"max_streams": *maxStreams,
	}).Info("storage server starting")

	if err := grpcServer.Serve(lis); err != nil {
		log.Fatalf("failed to serve gRPC server: %v", err)
	}
	log.Infof("storage server stopped")
}
