package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/streamtap/streamtap/internal/bus"
	"github.com/streamtap/streamtap/internal/config"
	"github.com/streamtap/streamtap/internal/errors"
	"github.com/streamtap/streamtap/internal/fileanalysis"
	"github.com/streamtap/streamtap/internal/logging"
	"github.com/streamtap/streamtap/internal/retry"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		digests    []string
		extractDir string
		chunkSize  int
		logLevel   string
		peers      []string
	)

	cmd := &cobra.Command{
		Use:   "analyze <file>...",
		Short: "Run local files through the analysis pipeline",
		Long: `Analyze feeds each file through the streaming analysis pipeline in
chunks, exactly as reassembled traffic would be fed, and prints the
resulting digest record. Results are also published on the bus under
files/analysis/result when peers are configured.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewLoader().Load()
			if err != nil {
				return err
			}
			if len(digests) > 0 {
				cfg.Analysis.Digests = digests
			}
			if extractDir != "" {
				cfg.Analysis.ExtractDir = extractDir
			}
			if chunkSize > 0 {
				cfg.Analysis.ChunkSize = chunkSize
			}
			if logLevel != "" {
				cfg.Logging.Level = logLevel
			}
			if len(peers) > 0 {
				cfg.Bus.Peers = peers
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := logging.New(logging.Config{
				Level:  cfg.Logging.Level,
				Pretty: cfg.Logging.Pretty,
			})

			broker := bus.NewBroker(logger)
			for _, peerURL := range cfg.Bus.Peers {
				var p *bus.Peer
				dial := func() error {
					var derr error
					p, derr = bus.DialPeer(peerURL, cfg.Bus.QueueSize, logger)
					return derr
				}
				if err := retry.Do(cmd.Context(), retry.Config{
					MaxRetries:     5,
					InitialBackoff: 200 * time.Millisecond,
					MaxBackoff:     2 * time.Second,
				}, dial, nil); err != nil {
					return err
				}
				defer errors.DeferClose(logger, p, "failed to close bus peer")
				broker.AddPeer(p)
			}

			sink := func(fileID string, degraded bool, results map[string]any) {
				broker.Event("files/analysis/result", bus.EventArgs{
					Name: "file_result",
					Args: []any{fileID, degraded, results},
				}, bus.SendFlags{})
				printResults(cmd, fileID, degraded, results)
			}
			manager := fileanalysis.NewManager(logger, sink)

			for _, path := range args {
				if err := analyzeFile(manager, cfg, path); err != nil {
					return fmt.Errorf("failed to analyze %s: %w", path, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&digests, "digest", nil, "digest analyzers to attach (md5, sha1, sha256, sha3-256, xxh3, blake3)")
	cmd.Flags().StringVar(&extractDir, "extract-dir", "", "also reproduce file content into this directory")
	cmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "delivery chunk size in bytes")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	cmd.Flags().StringSliceVar(&peers, "peer", nil, "bus peer websocket URLs to publish results to")

	return cmd
}

// analyzeFile plays one local file into the manager the way the reassembly
// layer feeds a reconstructed file: announce, attach, deliver in chunks,
// then end of file.
func analyzeFile(manager *fileanalysis.Manager, cfg *config.Config, path string) error {
	fileID := uuid.NewString()
	if err := manager.NewFile(fileID, fileanalysis.DefaultSchema()); err != nil {
		return err
	}

	for _, algo := range cfg.Analysis.Digests {
		if _, err := manager.AttachAnalyzer(fileID, fileanalysis.Kind(algo), fileanalysis.AnalyzerConfig{}); err != nil {
			return err
		}
	}
	if cfg.Analysis.ExtractDir != "" {
		out := filepath.Join(cfg.Analysis.ExtractDir, filepath.Base(path)+"."+fileID)
		if _, err := manager.AttachAnalyzer(fileID, fileanalysis.KindExtract, fileanalysis.AnalyzerConfig{
			OutputPath: out,
		}); err != nil {
			return err
		}
	}

	f, err := os.Open(path) //nolint:gosec // G304: path is a CLI argument.
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, cfg.Analysis.ChunkSize)
	var offset uint64
	for {
		n, err := f.Read(buf)
		if n > 0 {
			if derr := manager.Deliver(fileID, offset, buf[:n]); derr != nil {
				return derr
			}
			offset += uint64(n)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}

	return manager.EndOfFile(fileID)
}

func printResults(cmd *cobra.Command, fileID string, degraded bool, results map[string]any) {
	cmd.Printf("file %s (degraded=%v)\n", fileID, degraded)

	fields := make([]string, 0, len(results))
	for name := range results {
		fields = append(fields, name)
	}
	sort.Strings(fields)
	for _, name := range fields {
		cmd.Printf("  %-10s %v\n", name, results[name])
	}
}
