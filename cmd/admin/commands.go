package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"roombook/internal/database"
	"roombook/internal/export"
	"roombook/internal/models"
	"roombook/internal/service"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

type command func(ctx context.Context, e *env, args []string, stdout io.Writer) error

var commands = map[string]command{
	"seed":             seedCommand,
	"import-resources": importResourcesCommand,
	"export-audit":     exportAuditCommand,
	"backup":           backupCommand,
}

func seedCommand(ctx context.Context, e *env, args []string, stdout io.Writer) error {
	flagSet := pflag.NewFlagSet("seed", pflag.ContinueOnError)
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	seed := service.NewSeedService(e.store, e.store, e.resources, e.logger)
	if err := seed.Seed(ctx); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	fmt.Fprintln(stdout, "demo data seeded")
	return nil
}

// resourceFile is the import format. is_active defaults to true.
type resourceFile struct {
	Resources []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		IsActive    *bool  `yaml:"is_active"`
	} `yaml:"resources"`
}

func loadResourceFile(path string) ([]models.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file resourceFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	resources := make([]models.Resource, 0, len(file.Resources))
	for _, r := range file.Resources {
		active := true
		if r.IsActive != nil {
			active = *r.IsActive
		}
		resources = append(resources, models.Resource{Name: r.Name, Description: r.Description, IsActive: active})
	}
	return resources, nil
}

func importResourcesCommand(ctx context.Context, e *env, args []string, stdout io.Writer) error {
	flagSet := pflag.NewFlagSet("import-resources", pflag.ContinueOnError)
	file := flagSet.String("file", "", "YAML file with a resources list")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("--file is required")
	}

	resources, err := loadResourceFile(*file)
	if err != nil {
		return err
	}

	result, err := e.resources.ImportResources(ctx, resources)
	if err != nil {
		return fmt.Errorf("import resources: %w", err)
	}
	fmt.Fprintf(stdout, "resources imported: %d created, %d updated\n", result.Created, result.Updated)
	return nil
}

func exportAuditCommand(ctx context.Context, e *env, args []string, stdout io.Writer) error {
	flagSet := pflag.NewFlagSet("export-audit", pflag.ContinueOnError)
	fromFlag := flagSet.String("from", "", "first day, YYYY-MM-DD (UTC)")
	toFlag := flagSet.String("to", "", "last day inclusive, YYYY-MM-DD (UTC)")
	out := flagSet.String("out", "", "output .xlsx path (default: <exports.path>/audit_<from>_to_<to>.xlsx)")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	from, err := time.Parse(dateLayout, *fromFlag)
	if err != nil {
		return fmt.Errorf("--from: expected YYYY-MM-DD")
	}
	to, err := time.Parse(dateLayout, *toFlag)
	if err != nil {
		return fmt.Errorf("--to: expected YYYY-MM-DD")
	}
	if to.Before(from) {
		return fmt.Errorf("--to is before --from")
	}
	end := to.AddDate(0, 0, 1)

	events, err := e.store.ListAuditEvents(ctx, models.AuditFilter{From: from, To: end})
	if err != nil {
		return fmt.Errorf("list audit events: %w", err)
	}

	path := *out
	if path == "" {
		path = filepath.Join(e.cfg.Exports.Path, export.AuditFileName(from, end))
	}
	if err := export.WriteAuditWorkbook(path, from, end, events); err != nil {
		return err
	}

	e.logger.Info().Str("file_path", path).Int("events", len(events)).Msg("Audit workbook created")
	fmt.Fprintf(stdout, "%d audit events written to %s\n", len(events), path)
	return nil
}

func backupCommand(ctx context.Context, e *env, args []string, stdout io.Writer) error {
	flagSet := pflag.NewFlagSet("backup", pflag.ContinueOnError)
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	db, ok := e.store.(*database.DB)
	if !ok {
		return fmt.Errorf("backup is only supported for the sqlite driver")
	}

	backupCfg := e.cfg.Backup
	if backupCfg.StoragePath == "" {
		backupCfg.StoragePath = "backups"
	}
	backups := database.NewBackupService(db, backupCfg, e.logger)
	path, err := backups.PerformBackup(ctx)
	if err != nil {
		return err
	}
	removed := backups.CleanupOldBackups()

	fmt.Fprintf(stdout, "backup written to %s (%d old backups removed)\n", path, removed)
	return nil
}
