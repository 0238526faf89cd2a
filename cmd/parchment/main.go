package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/parchmentlab/parchment/internal/config"
	"github.com/parchmentlab/parchment/internal/database"
	"github.com/parchmentlab/parchment/internal/doctree"
	"github.com/parchmentlab/parchment/internal/editor"
	"github.com/parchmentlab/parchment/internal/logging"
	"github.com/parchmentlab/parchment/internal/storage"
)

var (
	cfgFile    string
	folderPath string
	exportFile string
	exportDir  string
	outputPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "parchment",
		Short: "Parchment block-based note store",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	setupFlags(rootCmd)
	rootCmd.AddCommand(newTreeCommand())
	rootCmd.AddCommand(newDoctorCommand())
	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newExportCommand())
	rootCmd.AddCommand(newNewCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	config.ApplyDefaults(viper.GetViper())
	defaults := config.NewViper()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	cmd.PersistentFlags().String("database-path", defaults.GetString("database.path"), "SQLite database path")
	cmd.PersistentFlags().String("tree-key", defaults.GetString("tree.key"), "Storage key of the document tree")
	cmd.PersistentFlags().String("log-level", defaults.GetString("log.level"), "Log level (debug, info, warn, error)")

	bindFlag(cmd, "database.path", "database-path")
	bindFlag(cmd, "tree.key", "tree-key")
	bindFlag(cmd, "log.level", "log-level")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if cfgFile != "" && errors.As(err, &configNotFound) {
			return err
		}
	}

	return nil
}

type session struct {
	cfg     config.AppConfig
	logger  *zap.Logger
	service *editor.Service
	close   func()
}

func openSession() (*session, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	db, err := database.OpenSQLite(cfg.DatabasePath, logger)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	store, err := storage.NewSQLiteStore(storage.SQLiteStoreConfig{
		Database: db,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}

	service, err := editor.NewService(editor.ServiceConfig{
		Store:      store,
		IDProvider: doctree.NewUUIDProvider(),
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	return &session{
		cfg:     cfg,
		logger:  logger,
		service: service,
		close: func() {
			sqlDB.Close()
			logger.Sync() //nolint:errcheck
		},
	}, nil
}

func newTreeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Print the folder and file hierarchy",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.close()

			tree, _, err := s.service.OpenTree(cmd.Context(), s.cfg.TreeKey)
			if err != nil {
				return err
			}
			if len(tree) == 0 {
				fmt.Println("(empty tree)")
				return nil
			}
			printFolders(tree, 0)
			return nil
		},
	}
}

func printFolders(folders []doctree.Folder, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, folder := range folders {
		fmt.Printf("%s%s/  [%s]\n", indent, folder.Name, folder.ID)
		for _, file := range folder.Files {
			fmt.Printf("%s  %s  [%s] (%d blocks)\n", indent, file.Name, file.ID, len(file.Content))
		}
		printFolders(folder.Folders, depth+1)
	}
}

func newDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Normalize every stored block and report repairs",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.close()

			_, report, err := s.service.OpenTree(cmd.Context(), s.cfg.TreeKey)
			if err != nil {
				return err
			}
			if report.BlocksRepaired == 0 {
				fmt.Println("all blocks canonical, nothing to repair")
				return nil
			}
			fmt.Printf("repaired %d block(s) across %d file(s)\n", report.BlocksRepaired, report.FilesTouched)
			for fileID, count := range report.RepairsByFile {
				fmt.Printf("  %s: %d\n", fileID, count)
			}
			return nil
		},
	}
}

func newImportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.json>",
		Short: "Import an exported file or folder document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.close()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			summary, err := s.service.Import(cmd.Context(), s.cfg.TreeKey, parsePath(folderPath), data)
			if err != nil {
				return err
			}
			fmt.Printf("imported %d folder(s), %d file(s); %d block(s) repaired\n",
				summary.Folders, summary.Files, summary.BlocksRepaired)
			return nil
		},
	}
	cmd.Flags().StringVar(&folderPath, "folder", "", "Target folder id path, slash separated")
	return cmd
}

func newExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a file or folder as a standalone JSON document",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (exportFile == "") == (exportDir == "") {
				return fmt.Errorf("exactly one of --file or --folder is required")
			}
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.close()

			var payload []byte
			if exportFile != "" {
				payload, err = s.service.ExportFile(cmd.Context(), s.cfg.TreeKey, exportFile)
			} else {
				payload, err = s.service.ExportFolder(cmd.Context(), s.cfg.TreeKey, exportDir)
			}
			if err != nil {
				return err
			}
			if payload == nil {
				return fmt.Errorf("no such node")
			}
			if outputPath == "" {
				fmt.Println(string(payload))
				return nil
			}
			return os.WriteFile(outputPath, payload, 0o644)
		},
	}
	cmd.Flags().StringVar(&exportFile, "file", "", "File id to export")
	cmd.Flags().StringVar(&exportDir, "folder", "", "Folder id to export")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write to this path instead of stdout")
	return cmd
}

func newNewCommand() *cobra.Command {
	newCmd := &cobra.Command{
		Use:   "new",
		Short: "Create a folder or file",
	}

	folderCmd := &cobra.Command{
		Use:   "folder <name>",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd.Context(), args[0], true)
		},
	}
	fileCmd := &cobra.Command{
		Use:   "file <name>",
		Short: "Create a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd.Context(), args[0], false)
		},
	}
	newCmd.PersistentFlags().StringVar(&folderPath, "folder", "", "Parent folder id path, slash separated")
	newCmd.AddCommand(folderCmd)
	newCmd.AddCommand(fileCmd)
	return newCmd
}

func runCreate(ctx context.Context, name string, isFolder bool) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	path := parsePath(folderPath)
	var id string
	if isFolder {
		id, err = s.service.CreateFolder(ctx, s.cfg.TreeKey, path, name)
	} else {
		if len(path) == 0 {
			return fmt.Errorf("files need a parent folder, pass --folder")
		}
		id, err = s.service.CreateFile(ctx, s.cfg.TreeKey, path, name)
	}
	if err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("parent folder path not found")
	}
	fmt.Println(id)
	return nil
}

func parsePath(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	segments := strings.Split(raw, "/")
	path := make([]string, 0, len(segments))
	for _, segment := range segments {
		if trimmed := strings.TrimSpace(segment); trimmed != "" {
			path = append(path, trimmed)
		}
	}
	return path
}
