// Command sigmac is the CLI front-end for the Sigma-to-SIEM transpiler:
// convert (file or directory), lint, and serve subcommands, built on
// cobra since the CLI has multiple verbs rather than a single flag set.
package main

import (
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"sigmac"
	"sigmac/config"
	"sigmac/internal/cache"
	"sigmac/internal/lint"
	"sigmac/internal/logger"
	"sigmac/internal/options"
	"sigmac/internal/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sigmac",
		Short: "Convert Sigma detection rules into SIEM-native queries",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logger.Init(true, "info", "", true)
		},
	}
	root.AddCommand(newConvertCmd(), newLintCmd(), newServeCmd())
	return root
}

func newConvertCmd() *cobra.Command {
	var (
		file          string
		dir           string
		target        string
		outputDir     string
		fieldMapFile  string
		addAlerting   string
		addFields     string
		replaceFields string
		keepFields    string
	)
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a Sigma rule file or directory of rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" && dir == "" {
				return fmt.Errorf("one of --file or --dir is required")
			}
			if target == "" {
				return fmt.Errorf("--target is required")
			}

			var fieldMap map[string]string
			if fieldMapFile != "" {
				contents, err := os.ReadFile(fieldMapFile)
				if err != nil {
					return fmt.Errorf("reading field map file: %w", err)
				}
				fieldMap = options.ParseFieldMap(string(contents))
			}
			addFieldsMap, warnings := options.ParseKeyValuePairs(addFields)
			for _, w := range warnings {
				logger.Warnf("add-fields: %s", w)
			}
			replaceFieldsMap, warnings := options.ParseKeyValuePairs(replaceFields)
			for _, w := range warnings {
				logger.Warnf("replace-fields: %s", w)
			}
			opts := sigmac.Options{
				FieldMap:      fieldMap,
				AddAlerting:   options.ParseCommaList(addAlerting),
				AddFields:     addFieldsMap,
				ReplaceFields: replaceFieldsMap,
				KeepFields:    options.ParseCommaList(keepFields),
			}

			if outputDir == "" {
				outputDir = "output"
			}
			if err := os.MkdirAll(outputDir, 0o755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}

			var files []string
			if dir != "" {
				err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
					if err != nil {
						return err
					}
					if !d.IsDir() {
						files = append(files, path)
					}
					return nil
				})
				if err != nil {
					return fmt.Errorf("reading directory %s: %w", dir, err)
				}
			} else {
				files = []string{file}
			}

			for _, path := range files {
				if err := convertFile(path, target, outputDir, opts); err != nil {
					logger.Errorf("converting %s: %v", path, err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Path to a single Sigma rule file")
	cmd.Flags().StringVar(&dir, "dir", "", "Path to a directory of Sigma rule files")
	cmd.Flags().StringVar(&target, "target", "", "Destination backend name")
	cmd.Flags().StringVar(&outputDir, "output", "output", "Output directory")
	cmd.Flags().StringVar(&fieldMapFile, "field-map", "", "Path to a field-map file")
	cmd.Flags().StringVar(&addAlerting, "add-alerting", "", "Comma-separated alert channels (ElastAlert)")
	cmd.Flags().StringVar(&addFields, "add-fields", "", "Comma-separated key:value pairs (ElastAlert)")
	cmd.Flags().StringVar(&replaceFields, "replace-fields", "", "Comma-separated key:value pairs (ElastAlert)")
	cmd.Flags().StringVar(&keepFields, "keep-fields", "", "Comma-separated header fields to carry over (ElastAlert)")
	return cmd
}

// fileExtension picks the output file extension for a target backend.
func fileExtension(target string) string {
	switch strings.ToLower(target) {
	case "elastalert":
		return "yml"
	case "kibana", "humio", "humioalert":
		return "json"
	default:
		return "txt"
	}
}

func convertFile(path, target, outputDir string, opts sigmac.Options) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	logger.Infof("converting the sigma rule in %s...", path)
	result, cerr := sigmac.FromSigma(raw, target, opts)
	if cerr != nil {
		return cerr
	}
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outName := fmt.Sprintf("%s_%s.%s", strings.ToLower(target), stem, fileExtension(target))
	outPath := filepath.Join(outputDir, outName)
	if err := os.WriteFile(outPath, []byte(result), 0o644); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func newLintCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Structurally validate Sigma rule files with sigma-go",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				return fmt.Errorf("--dir is required")
			}
			entries, err := os.ReadDir(dir)
			if err != nil {
				return fmt.Errorf("reading directory %s: %w", dir, err)
			}
			files := make(map[string][]byte)
			var order []string
			for _, e := range entries {
				if e.IsDir() {
					continue
				}
				path := filepath.Join(dir, e.Name())
				raw, err := os.ReadFile(path)
				if err != nil {
					logger.Warnf("skipping %s: %v", path, err)
					continue
				}
				files[path] = raw
				order = append(order, path)
			}
			results := lint.LintAll(files, order)
			for _, r := range results {
				if r.Valid {
					fmt.Printf("OK   %s\n", r.Path)
				} else {
					fmt.Printf("FAIL %s: %s\n", r.Path, r.Error)
				}
			}
			fmt.Println(lint.Summary(results))
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Directory of Sigma rule files to lint")
	return cmd
}

func newServeCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP convert server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.SigmacConfig{Server: config.ServerConfig{Addr: ":8080", RequestTimeout: 30 * time.Second}}
			if configPath != "" {
				loaded, err := config.LoadConfig(configPath)
				if err != nil {
					return fmt.Errorf("loading config: %w", err)
				}
				cfg = loaded.Sigmac
			}
			if err := logger.Init(cfg.Logging.Enabled, cfg.Logging.Level, cfg.Logging.File, cfg.Logging.Console); err != nil {
				return fmt.Errorf("initializing logger: %w", err)
			}

			var queryCache *cache.Cache
			if cfg.Server.Cache.Enabled {
				c, err := cache.New(cache.Config{
					Addr:     cfg.Server.Cache.Addr,
					Password: cfg.Server.Cache.Password,
					DB:       cfg.Server.Cache.DB,
					TTL:      cfg.Server.Cache.TTL,
				})
				if err != nil {
					return fmt.Errorf("connecting to cache: %w", err)
				}
				queryCache = c
			}

			srv := server.New(server.Config{
				CORSOrigins:    cfg.Server.CORSOrigins,
				RequestTimeout: cfg.Server.RequestTimeout,
				Cache:          queryCache,
			})

			addr := cfg.Server.Addr
			if addr == "" {
				addr = ":8080"
			}
			logger.Infof("sigmac server listening on %s", addr)
			return http.ListenAndServe(addr, srv)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Path to sigmac.yml config file")
	return cmd
}
