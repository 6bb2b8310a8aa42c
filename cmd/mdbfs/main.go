// Command mdbfs mounts an arbitrary database as a POSIX filesystem. It
// parses --type and --db, attaches the selected backend to the database
// artifact, and hands the backend's operation table to the FS host (spec
// §6).
//
// Grounded on rclone's flag-parsing layer (spf13/pflag), which every
// cmd/* command's Flags() call returns under the hood.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/jyhi/mdbfs/backend/keyvalue"
	"github.com/jyhi/mdbfs/backend/tabular"
	"github.com/jyhi/mdbfs/internal/fusehost"
	"github.com/jyhi/mdbfs/internal/mdbfslog"
	"github.com/jyhi/mdbfs/internal/registry"
)

const programVersion = "1.0.0"

// exit codes, spec §6.
const (
	exitOK                = 0
	exitConfigError       = 1
	exitDatabaseOpenError = 2
)

func newRegistry() *registry.Registry {
	r := registry.New()
	r.Register("sqlite", tabular.NewDescriptor)
	r.Register("sqlite3", tabular.NewDescriptor)
	r.Register("berkeleydb", keyvalue.NewDescriptor)
	r.Register("bdb", keyvalue.NewDescriptor)
	r.Register("db", keyvalue.NewDescriptor)
	return r
}

func main() {
	os.Exit(run(newRegistry(), os.Args[1:]))
}

func run(r *registry.Registry, rawArgs []string) int {
	flags := pflag.NewFlagSet("mdbfs", pflag.ContinueOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	// Stop at the first positional argument (the mountpoint) so FUSE options
	// after it reach flags.Args() untouched instead of being stripped as
	// unknown flags.
	flags.SetInterspersed(false)
	backendType := flags.String("type", "", "database backend to mount (sqlite, sqlite3, berkeleydb, bdb, db)")
	dbPath := flags.String("db", "", "path to the database artifact to mount")
	help := flags.BoolP("help", "h", false, "show this help and exit")
	version := flags.BoolP("version", "v", false, "show version information and exit")

	if err := flags.Parse(rawArgs); err != nil {
		mdbfslog.Failf("%v", err)
		return exitConfigError
	}

	if *help {
		fmt.Print(programHelp())
		fmt.Print(r.HelpText())
		fmt.Print(fuseHelpPlaceholder())
		return exitOK
	}
	if *version {
		fmt.Printf("mdbfs version %s\n", programVersion)
		fmt.Print(r.VersionText())
		return exitOK
	}

	if *backendType == "" {
		mdbfslog.Failf("no backend selected; pass --type")
		return exitConfigError
	}
	desc := r.Get(*backendType)
	if desc == nil {
		mdbfslog.Failf("unknown backend %q", *backendType)
		return exitConfigError
	}

	if *dbPath == "" {
		mdbfslog.Failf("no database path given; pass --db")
		return exitDatabaseOpenError
	}

	// Everything pflag didn't consume as a --type/--db/--help/--version
	// flag is passed through to the FS host, per spec §6.
	remaining := flags.Args()

	if err := desc.Init(remaining); err != nil {
		mdbfslog.Failf("backend init failed: %v", err)
		return exitConfigError
	}
	defer desc.Deinit()

	if err := desc.Open(*dbPath); err != nil {
		mdbfslog.Failf("failed to open database %q: %v", *dbPath, err)
		return exitDatabaseOpenError
	}
	defer desc.Close()

	if len(remaining) == 0 {
		mdbfslog.Failf("no mountpoint given")
		return exitConfigError
	}
	mountpoint := remaining[0]
	extraArgs := remaining[1:]

	host := fusehost.New(desc)
	if err := host.Mount(mountpoint, extraArgs); err != nil {
		mdbfslog.Failf("mount failed: %v", err)
		return exitDatabaseOpenError
	}
	return exitOK
}

func programHelp() string {
	return "mdbfs - present a database as a POSIX filesystem\n\n" +
		"Usage: mdbfs --type=<backend> --db=<path> <mountpoint> [fuse options]\n\n"
}

// fuseHelpPlaceholder stands in for invoking the FS host's own --help,
// which (per spec §1) is an external collaborator's concern; mdbfs only
// needs to know it exists and append its text after the backend help.
func fuseHelpPlaceholder() string {
	return "Mount options are documented by the underlying FUSE implementation; pass them after the mountpoint.\n"
}
