// Package migration contains the logic behind the CLI commands: it
// wires plan files through generation, linting and application.
package migration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"

	"github.com/cresho/mygrate/pkg/dbconn"
	"github.com/cresho/mygrate/pkg/executor"
	"github.com/cresho/mygrate/pkg/flavor"
	"github.com/cresho/mygrate/pkg/introspect"
	"github.com/cresho/mygrate/pkg/lint"
	"github.com/cresho/mygrate/pkg/plan"
	"github.com/cresho/mygrate/pkg/sqlgen"
)

// connectionFlags are shared by every command that can talk to a
// server. Username, password and database carry no kong defaults:
// a non-empty flag value would mask the defaults file, so the
// fallbacks apply only after the file has had its say.
type connectionFlags struct {
	Host         string `name:"host" help:"Hostname" optional:"" default:"127.0.0.1:3306"`
	Username     string `name:"username" help:"User (default: mygrate)" optional:""`
	Password     string `name:"password" help:"Password (default: mygrate)" optional:""`
	Database     string `name:"database" help:"Database (default: test)" optional:""`
	DefaultsFile string `name:"defaults-file" help:"my.cnf-style file with a [client] section" optional:""`
}

// config resolves credentials in precedence order: explicit flag,
// then defaults file, then the built-in fallbacks.
func (c *connectionFlags) config() (*dbconn.Config, error) {
	config := dbconn.NewConfig()
	config.Host = c.Host
	config.Username = c.Username
	config.Password = c.Password
	config.Database = c.Database
	config.DefaultsFile = c.DefaultsFile
	if err := dbconn.LoadDefaultsFile(config); err != nil {
		return nil, err
	}
	if config.Username == "" {
		config.Username = "mygrate"
	}
	if config.Password == "" {
		config.Password = "mygrate"
	}
	if config.Database == "" {
		config.Database = "test"
	}
	if !strings.Contains(config.Host, ":") {
		config.Host += ":3306"
	}
	return config, nil
}

// Generate renders plan files to SQL without touching a server, unless
// --connect is given to resolve the version and table definitions from
// a live one. Plans are independent, so they generate concurrently;
// statement order inside each plan is never changed.
type Generate struct {
	connectionFlags
	Plans         []string `arg:"" name:"plan" help:"Plan files (YAML)" type:"existingfile"`
	Connect       bool     `name:"connect" help:"Resolve server version and table definitions from a live server" optional:"" default:"false"`
	ServerVersion string   `name:"server-version" help:"Target server version when not connecting" optional:"" default:"8.0.36"`
	OutDir        string   `name:"out-dir" short:"o" help:"Write one .sql file per plan instead of printing" optional:""`
	NoColor       bool     `name:"no-color" help:"Disable colorized output" optional:"" default:"false"`
}

func (g *Generate) Run() error {
	caps := flavor.New(g.ServerVersion)
	var fetcher introspect.Fetcher
	if g.Connect {
		config, err := g.config()
		if err != nil {
			return err
		}
		db, err := dbconn.New(config)
		if err != nil {
			return err
		}
		defer db.Close()
		version, err := dbconn.ServerVersion(context.Background(), db)
		if err != nil {
			return err
		}
		caps = flavor.New(version)
		fetcher = introspect.NewDB(db)
	}

	results := make([]sqlgen.CommandList, len(g.Plans))
	eg, ctx := errgroup.WithContext(context.Background())
	for i, path := range g.Plans {
		eg.Go(func() error {
			ops, err := plan.Load(path)
			if err != nil {
				return err
			}
			commands, err := sqlgen.New(caps, fetcher).Generate(ctx, ops)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = commands
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	for i, commands := range results {
		if g.OutDir != "" {
			out := filepath.Join(g.OutDir, sqlFileName(g.Plans[i]))
			if err := os.WriteFile(out, []byte(commands.SQL()+"\n"), 0o644); err != nil {
				return err
			}
			continue
		}
		header := color.New(color.FgGreen, color.Bold)
		if g.NoColor {
			header.DisableColor()
		}
		header.Printf("-- %s\n", g.Plans[i])
		fmt.Println(commands.SQL())
	}
	return nil
}

func sqlFileName(planPath string) string {
	base := filepath.Base(planPath)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + ".sql"
}

// Apply generates each plan against the connected server and executes
// the commands in order. Plans are applied one at a time: a later plan
// may depend on an earlier one.
type Apply struct {
	connectionFlags
	Plans           []string `arg:"" name:"plan" help:"Plan files (YAML)" type:"existingfile"`
	LockWaitTimeout int      `name:"lock-wait-timeout" help:"Session lock_wait_timeout in seconds" optional:"" default:"30"`
	SkipLint        bool     `name:"skip-lint" help:"Do not parse-validate generated SQL before applying" optional:"" default:"false"`
	DryRun          bool     `name:"dry-run" help:"Print the SQL instead of executing it" optional:"" default:"false"`
}

func (a *Apply) Run() error {
	config, err := a.config()
	if err != nil {
		return err
	}
	config.LockWaitTimeout = a.LockWaitTimeout
	db, err := dbconn.New(config)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	version, err := dbconn.ServerVersion(ctx, db)
	if err != nil {
		return err
	}
	generator := sqlgen.New(flavor.New(version), introspect.NewDB(db))
	exec := executor.New(db, slog.Default())

	for _, path := range a.Plans {
		ops, err := plan.Load(path)
		if err != nil {
			return err
		}
		commands, err := generator.Generate(ctx, ops)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if !a.SkipLint {
			if issues := lint.Commands(commands); len(issues) > 0 {
				return fmt.Errorf("%s: %s", path, issues[0])
			}
		}
		if a.DryRun {
			fmt.Printf("-- %s\n%s\n", path, commands.SQL())
			continue
		}
		if err := exec.ApplyContext(ctx, commands); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

// Lint generates each plan offline and parse-validates every statement.
type Lint struct {
	Plans         []string `arg:"" name:"plan" help:"Plan files (YAML)" type:"existingfile"`
	ServerVersion string   `name:"server-version" help:"Target server version" optional:"" default:"8.0.36"`
}

func (l *Lint) Run() error {
	caps := flavor.New(l.ServerVersion)
	var failed bool
	for _, path := range l.Plans {
		ops, err := plan.Load(path)
		if err != nil {
			return err
		}
		commands, err := sqlgen.New(caps, nil).Generate(context.Background(), ops)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		for _, issue := range lint.Commands(commands) {
			failed = true
			fmt.Fprintf(os.Stderr, "%s: %s\n", path, issue)
		}
	}
	if failed {
		return errors.New("lint failed")
	}
	return nil
}
